package parser

import (
	"regexp"
	"strings"

	"github.com/Jiegrein/PersonalBankNote/internal/model"
)

var (
	kromAmount = regexp.MustCompile(`(?i)Jumlah:\s*Rp\s*([\d.]+)`)
	// Recipient lines read "Ke: DANIEL ABEDNEGO • 7293872124"; capture up
	// to the bullet or the account number.
	kromRecipient     = regexp.MustCompile(`(?i)Ke:\s*([^•\d]+)`)
	kromQRISMerchant  = regexp.MustCompile(`(?i)(?:Merchant|Tujuan):\s*(.+?)\s+(?:Tanggal|Jumlah|Metode)`)
	kromRecipientTail = regexp.MustCompile(`[\s•-]+$`)
)

// Krom parses Krom Bank transfer and QRIS payment notifications. The
// emails are fully Indonesian; transfer direction comes from the phrasing
// ("mengirim dana" out, "menerima dana" in).
func Krom(content string) *model.ParsedTransaction {
	text := normalize(content)

	amount := parseGroupedInt(firstMatch(text, kromAmount))

	merchant := "Unknown"
	if m := firstMatch(text, kromRecipient); m != "" {
		merchant = strings.TrimSpace(kromRecipientTail.ReplaceAllString(m, ""))
	}

	transactionType := "Transfer"
	if strings.Contains(text, "Transfer Berhasil") || strings.Contains(text, "mengirim dana") {
		transactionType = "Transfer Out"
	} else if strings.Contains(text, "menerima dana") || strings.Contains(text, "Dana Masuk") {
		transactionType = "Transfer In"
	}

	if strings.Contains(text, "Pembayaran Berhasil") || strings.Contains(text, "QRIS") {
		transactionType = "Payment"
		if m := firstMatch(text, kromQRISMerchant); m != "" {
			merchant = m
		}
	}

	return &model.ParsedTransaction{
		Amount:          amount,
		Currency:        "IDR",
		IDRAmount:       &amount,
		Merchant:        merchant,
		TransactionType: transactionType,
	}
}
