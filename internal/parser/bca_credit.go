package parser

import (
	"regexp"
	"strings"

	"github.com/Jiegrein/PersonalBankNote/internal/model"
)

var (
	bcaCCMerchantPattern = regexp.MustCompile(`(?i)Merchant\s*/\s*ATM\s*:\s*(.+?)\s+Jenis Transaksi`)
	bcaCCTypePattern     = regexp.MustCompile(`(?i)Jenis Transaksi\s*:\s*(.+?)\s+(?:Otentikasi|Pada Tanggal)`)
	bcaCCAmountPattern   = regexp.MustCompile(`(?i)Sejumlah\s*:\s*(?:Rp|IDR)\s*([\d.,]+)`)
)

// BCACredit parses BCA credit card transaction alerts. The emails are in
// Indonesian: amount under "Sejumlah", merchant under "Merchant / ATM",
// kind under "Jenis Transaksi". Reversal notices negate the amount so a
// voided purchase cancels out of period sums.
func BCACredit(content string) *model.ParsedTransaction {
	text := normalize(content)
	lower := strings.ToLower(text)

	merchant := firstMatch(text, bcaCCMerchantPattern)
	if merchant == "" {
		merchant = "Unknown"
	}

	transactionType := firstMatch(text, bcaCCTypePattern)
	if transactionType == "" {
		transactionType = "Credit Card"
	}

	amount := parseAmount(firstMatch(text, bcaCCAmountPattern))

	isReversal := strings.Contains(lower, "reversal/void") || strings.Contains(lower, "transaksi reversal")
	if isReversal {
		transactionType = "Reversal - " + transactionType
		amount = -amount
	}

	return &model.ParsedTransaction{
		Amount:          amount,
		Currency:        "IDR",
		IDRAmount:       &amount,
		Merchant:        merchant,
		TransactionType: transactionType,
	}
}
