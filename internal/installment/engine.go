// Package installment amortizes multi-term credit card purchases across
// billing cycles. A transaction tagged with N installment terms contributes
// its monthly slice to each of the N statements starting from the one it
// bills into, and zero to every statement outside that range.
package installment

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jiegrein/PersonalBankNote/internal/model"
	"github.com/Jiegrein/PersonalBankNote/internal/period"
)

// MonthlyAmount returns the per-statement slice of an installment purchase.
// Terms of 1 or less mean a full payment, returned unchanged.
//
// The division is rounded half-up to the nearest rupiah independently per
// period; the last installment does not absorb the drift, so the slices may
// sum to up to terms-1 rupiah away from the total.
func MonthlyAmount(total float64, terms int) float64 {
	if terms <= 1 {
		return total
	}
	monthly, _ := decimal.NewFromFloat(total).
		DivRound(decimal.NewFromInt(int64(terms)), 0).
		Float64()
	return monthly
}

// Number returns which installment of a purchase falls due in the billing
// period at viewMonthOffset. 1 means the first installment is due in the
// viewed period; values below 1 mean the purchase has not started billing
// yet, values above the term count mean it has been paid off.
//
// A purchase made on the statement day itself bills into the NEXT cycle
// (>=), while period.Billing keeps the statement day in the just-closed
// cycle (<=). The mismatch is deliberate and load-bearing; do not align
// the two comparisons.
func Number(txDate time.Time, statementDay, viewMonthOffset int, ref time.Time) int {
	txYear := txDate.Year()
	txMonth := int(txDate.Month())
	if txDate.Day() >= statementDay {
		txMonth++
		if txMonth > 12 {
			txMonth = 1
			txYear++
		}
	}

	// The viewed cycle is anchored on its end date, matching the
	// statement-receipt labeling in period.Billing.
	view := period.Billing(statementDay, viewMonthOffset, ref)
	viewYear := view.EndDate.Year()
	viewMonth := int(view.EndDate.Month())

	return (viewYear-txYear)*12 + (viewMonth - txMonth) + 1
}

// ActiveForPeriod reports whether an installment purchase contributes to
// the billing period at viewMonthOffset.
func ActiveForPeriod(txDate time.Time, terms, statementDay, viewMonthOffset int, ref time.Time) bool {
	n := Number(txDate, statementDay, viewMonthOffset, ref)
	return n >= 1 && n <= terms
}

// EffectiveAmount returns what a transaction contributes to the billing
// period at viewMonthOffset: the full amount for regular purchases, the
// monthly slice for an active installment, and exactly zero for an
// installment outside its active range.
func EffectiveAmount(amount float64, terms int, txDate time.Time, statementDay, viewMonthOffset int, ref time.Time) float64 {
	if terms <= 1 {
		return amount
	}
	if ActiveForPeriod(txDate, terms, statementDay, viewMonthOffset, ref) {
		return MonthlyAmount(amount, terms)
	}
	return 0
}

// Active collects the installments that contribute to the billing period at
// viewMonthOffset, sorted ascending by installment number so purchases
// closest to completion sort last.
func Active(transactions []*model.Transaction, statementDay, viewMonthOffset int, ref time.Time) []*model.InstallmentInfo {
	installments := make([]*model.InstallmentInfo, 0)

	for _, tx := range transactions {
		terms := tx.Terms()
		if terms <= 1 {
			continue
		}

		n := Number(tx.Date, statementDay, viewMonthOffset, ref)
		if n < 1 || n > terms {
			continue
		}

		total := tx.EffectiveIDRAmount()
		installments = append(installments, &model.InstallmentInfo{
			TransactionID:      tx.ID,
			Merchant:           tx.Merchant,
			TotalAmount:        total,
			MonthlyAmount:      MonthlyAmount(total, terms),
			Terms:              terms,
			CurrentInstallment: n,
			IsActive:           true,
			StartDate:          tx.Date,
			TransactionDate:    tx.Date,
		})
	}

	sort.Slice(installments, func(i, j int) bool {
		return installments[i].CurrentInstallment < installments[j].CurrentInstallment
	})
	return installments
}
