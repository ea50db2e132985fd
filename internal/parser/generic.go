package parser

import (
	"regexp"
	"strings"

	"github.com/Jiegrein/PersonalBankNote/internal/model"
)

var (
	genericAmountPrefix = regexp.MustCompile(`(?i)(?:Rp|IDR|USD|CNY|PHP|SGD|\$|¥|₱)\s*([\d.,]+)`)
	genericAmountSuffix = regexp.MustCompile(`(?i)([\d.,]+)\s*(?:Rp|IDR|USD|CNY|PHP|SGD)`)

	genericMerchantAt    = regexp.MustCompile(`(?i)(?:at|to|from|@)\s+([A-Z][A-Z0-9\s]+?)(?:\s+on|\s+for|\s+dated|$|\.|,)`)
	genericMerchantLabel = regexp.MustCompile(`(?i)(?:merchant|store|shop):\s*([A-Z][A-Z0-9\s]+?)(?:\s|$|\.|,)`)
)

// currencyMarkers maps detection substrings to ISO codes, checked in
// order. IDR is the fallback; these are Indonesian bank emails.
var currencyMarkers = []struct {
	marker string
	code   string
}{
	{"RP", "IDR"},
	{"IDR", "IDR"},
	{"USD", "USD"},
	{"$", "USD"},
	{"CNY", "CNY"},
	{"¥", "CNY"},
	{"PHP", "PHP"},
	{"₱", "PHP"},
	{"SGD", "SGD"},
	{"JPY", "JPY"},
	{"EUR", "EUR"},
	{"€", "EUR"},
}

// Generic is the fallback parser for banks without a dedicated one. It
// hunts for any currency-marked amount and an "at/to/from MERCHANT"
// phrase, defaulting the currency to IDR.
func Generic(content string) *model.ParsedTransaction {
	text := normalize(content)

	amount := parseAmount(firstMatch(text, genericAmountPrefix, genericAmountSuffix))
	currency := detectCurrency(text)
	merchant := firstMatch(text, genericMerchantAt, genericMerchantLabel)
	if merchant == "" {
		merchant = "Unknown"
	}

	parsed := &model.ParsedTransaction{
		Amount:          amount,
		Currency:        currency,
		Merchant:        merchant,
		TransactionType: "Unknown",
	}
	// Only IDR amounts are directly comparable; foreign currency
	// transactions wait for a manual IDR amount.
	if currency == "IDR" {
		parsed.IDRAmount = &amount
	}
	return parsed
}

func detectCurrency(text string) string {
	upper := strings.ToUpper(text)
	for _, c := range currencyMarkers {
		if strings.Contains(upper, c.marker) {
			return c.code
		}
	}
	return "IDR"
}
