package model

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatCurrency renders an amount for display. IDR uses Indonesian digit
// grouping ("Rp 1.500.000"); other currencies fall back to a plain
// grouped format.
func FormatCurrency(amount float64, currency string) string {
	if currency == "" || currency == "IDR" {
		return idPrinter.Sprintf("Rp %.0f", amount)
	}
	return fmt.Sprintf("%s %s", currency, message.NewPrinter(language.English).Sprintf("%.2f", amount))
}
