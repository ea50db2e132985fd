package parser

import (
	"regexp"
	"strings"

	"github.com/Jiegrein/PersonalBankNote/internal/model"
)

var (
	jeniusCCPayment = regexp.MustCompile(`(?i)Payment in the amount of IDR\s*([\d,]+)\s*for your Jenius Credit Card`)
	jeniusMerchant  = regexp.MustCompile(`(?i)Merchant:\s*(.+?)\s+Transaction date`)
	jeniusTotal     = regexp.MustCompile(`(?i)Total:\s*IDR\s*([\d,.]+)`)
	// Merchant lines end with a phone-number-plus-country-code blob, like
	// "GRAB* A-8TSEUA9GXDPBAV 6281384748739ID".
	jeniusTrailingID = regexp.MustCompile(`\s+\d{10,}[A-Z]{2}$`)
)

// Jenius parses Jenius d-Card transaction emails, plus the credit card
// bill payment confirmations the same sender emits. Refund notices negate
// the amount.
func Jenius(content string) *model.ParsedTransaction {
	text := normalize(content)

	if m := jeniusCCPayment.FindStringSubmatch(text); m != nil {
		amount := parseAmount(m[1])
		return &model.ParsedTransaction{
			Amount:          amount,
			Currency:        "IDR",
			IDRAmount:       &amount,
			Merchant:        "Jenius Credit Card Payment",
			TransactionType: "CC Payment",
		}
	}

	merchant := firstMatch(text, jeniusMerchant)
	if merchant == "" {
		merchant = "Unknown"
	}
	merchant = strings.TrimSpace(jeniusTrailingID.ReplaceAllString(merchant, ""))

	amount := parseAmount(firstMatch(text, jeniusTotal))

	transactionType := "d-Card Transaction"
	if strings.Contains(strings.ToLower(text), "has been refunded") || strings.EqualFold(merchant, "refund") {
		transactionType = "d-Card Refund"
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
