package parser

import (
	"regexp"
	"strings"

	"github.com/Jiegrein/PersonalBankNote/internal/model"
)

// myBCA notification emails label every field as "Key : Value" pairs run
// together in table cells. The transaction type decides where the merchant
// lives: QRIS payments name it under "Payment to", transfers under the
// beneficiary or biller fields.
var (
	bcaTypePattern        = regexp.MustCompile(`(?i)(?:Transaction|Transfer) Type\s*:\s*(.+?)\s+(?:Source of Fund|Flazz Card|Payment to\s*:)`)
	bcaPaymentToPattern   = regexp.MustCompile(`(?i)Payment to\s*:\s*([^:]+?)\s+(?:Merchant|Acquirer)`)
	bcaBeneficiaryAccount = regexp.MustCompile(`(?i)Beneficiary Account\s*:\s*(\S+)`)
	bcaBeneficiaryName    = regexp.MustCompile(`(?i)Beneficiary Name\s*:\s*(.+?)\s+(?:Save to|Transfer)`)
	bcaCompanyPattern     = regexp.MustCompile(`(?i)Company/Product Name\s*:\s*(.+?)\s+(?:billdesc|Pay Amount|Total|Description|IDR\s*[\d.,])`)
	bcaPayeeNamePattern   = regexp.MustCompile(`(?i)Name\s*:\s*(.+?)(?:\s+Total|$)`)

	bcaTotalPayment = regexp.MustCompile(`(?i)Total Payment\s*:\s*IDR\s*([\d.,]+)`)
	bcaTopUpAmount  = regexp.MustCompile(`(?i)Top Up Amount\s*:\s*IDR\s*([\d.,]+)`)
	bcaAmountField  = regexp.MustCompile(`(?i)Amount\s*:\s*IDR\s*([\d.,]+)`)
	bcaAnyIDR       = regexp.MustCompile(`(?i)IDR\s*([\d.,]+)`)

	bcaBilldescTail = regexp.MustCompile(`(?i)\s+billdesc\s*:.*$`)
	bcaAmountTail   = regexp.MustCompile(`(?i)\s+IDR\s*[\d.,]+.*$`)
	bcaBillTail     = regexp.MustCompile(`(?i)\s+Bill\s*$`)
	bcaSlashTail    = regexp.MustCompile(`\s+/\s*$`)
)

// BCADebit parses myBCA debit notification emails (QRIS, transfers,
// virtual account payments, Flazz top-ups, paylater payments).
func BCADebit(content string) *model.ParsedTransaction {
	text := normalize(content)

	transactionType := firstMatch(text, bcaTypePattern)
	merchant := bcaMerchant(text, transactionType)
	if transactionType == "" {
		transactionType = "Unknown"
	}

	var amount float64
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(text, "Credit Card") || strings.Contains(text, "Paylater"):
		amount = parseAmount(firstMatch(text, bcaTotalPayment))
	case strings.Contains(lower, "flazz"):
		amount = parseAmount(firstMatch(text, bcaTopUpAmount))
	case strings.Contains(lower, "qris"):
		amount = parseAmount(firstMatch(text, bcaTotalPayment))
	default:
		amount = parseAmount(firstMatch(text, bcaTotalPayment, bcaAmountField, bcaAnyIDR))
	}

	return &model.ParsedTransaction{
		Amount:          amount,
		Currency:        "IDR",
		IDRAmount:       &amount,
		Merchant:        merchant,
		TransactionType: transactionType,
	}
}

func bcaMerchant(text, transactionType string) string {
	lowerType := strings.ToLower(transactionType)

	if strings.Contains(lowerType, "qris") {
		if m := firstMatch(text, bcaPaymentToPattern); m != "" {
			return cleanBCAMerchant(m)
		}
	}

	if strings.Contains(lowerType, "transfer") {
		if strings.Contains(lowerType, "bca account") {
			account := firstMatch(text, bcaBeneficiaryAccount)
			name := firstMatch(text, bcaBeneficiaryName)
			if account != "" && name != "" {
				return cleanBCAMerchant(account + " - " + name)
			}
		}
		if m := firstMatch(text, bcaCompanyPattern); m != "" {
			return cleanBCAMerchant(m)
		}
		if m := firstMatch(text, bcaBeneficiaryName); m != "" {
			return cleanBCAMerchant(m)
		}
		return transactionType
	}

	if strings.Contains(lowerType, "credit") || strings.Contains(lowerType, "paylater") {
		if m := firstMatch(text, bcaPayeeNamePattern); m != "" {
			return m
		}
		return transactionType
	}

	if transactionType != "" {
		return transactionType
	}
	return "Unknown"
}

// cleanBCAMerchant drops biller metadata that leaks into merchant fields,
// like "billdesc : IDR 1,234.00 Bill" tails on virtual account payments.
func cleanBCAMerchant(merchant string) string {
	merchant = bcaBilldescTail.ReplaceAllString(merchant, "")
	merchant = bcaAmountTail.ReplaceAllString(merchant, "")
	merchant = bcaBillTail.ReplaceAllString(merchant, "")
	merchant = bcaSlashTail.ReplaceAllString(merchant, "")
	return strings.TrimSpace(merchant)
}
