// Package payment attributes credit card payments to the statement they
// settle. A payment landing between a card's statement day and its due day
// (plus a grace allowance) pays the statement that just closed; anything
// outside that window is treated as an early payment against the open one.
package payment

import (
	"strings"
	"time"

	"github.com/Jiegrein/PersonalBankNote/internal/model"
)

// DefaultGraceDays extends the window past the due day to cover transfers
// that clear a few days late.
const DefaultGraceDays = 3

// InWindow reports whether a payment falls inside the card's payment
// window, meaning it settles the previous (just-closed) statement.
//
// Only the day of month is inspected. A payment months away whose day
// happens to land in range is a false positive; callers already scope
// candidates to the viewed period so this stays harmless in practice.
func InWindow(paymentDate time.Time, statementDay, dueDay, graceDays int) bool {
	day := paymentDate.Day()

	if dueDay > statementDay {
		// Due date in the same month as the statement (statement 5, due 20).
		return day >= statementDay && day <= dueDay+graceDays
	}

	// Due date rolls into the next month (statement 21, due 5): the window
	// wraps around the month boundary.
	return day >= statementDay || day <= dueDay+graceDays
}

// MatchDebitToCard finds the credit card a debit-account payment most
// likely pays, by looking for any word of the card's name (3+ characters,
// lowercased) inside the debit bank's name.
//
// First match wins. An ambiguous debit name can match several cards and
// the result then depends on card order; accepted imprecision.
func MatchDebitToCard(debitBankName string, creditBanks []*model.Bank) *model.Bank {
	debitLower := strings.ToLower(debitBankName)
	for _, cc := range creditBanks {
		for _, part := range strings.Fields(strings.ToLower(cc.Name)) {
			if len(part) >= 3 && strings.Contains(debitLower, part) {
				return cc
			}
		}
	}
	return nil
}
