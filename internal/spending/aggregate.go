// Package spending turns raw transactions into the aggregates the
// dashboard charts: category breakdowns, daily series, month-end
// projections, and the my-spending/full-bill totals pair.
package spending

import (
	"sort"
	"time"

	"github.com/Jiegrein/PersonalBankNote/internal/installment"
	"github.com/Jiegrein/PersonalBankNote/internal/model"
)

// chartColors is the fixed palette cycled through category slices in
// first-seen order, so a category keeps its color across refreshes as long
// as the transaction order is stable.
var chartColors = []string{
	"#3B82F6", // blue
	"#10B981", // green
	"#F59E0B", // amber
	"#EF4444", // red
	"#8B5CF6", // purple
	"#EC4899", // pink
	"#6B7280", // gray
}

// ByCategory sums spending per category, skipping the excluded categories
// entirely. Percentages are computed against the post-exclusion total and
// rounded independently, so they need not sum to exactly 100. Results are
// sorted descending by value; colors follow first-seen insertion order.
func ByCategory(transactions []*model.Transaction, excludeCategories []string) []*model.CategoryBreakdown {
	excluded := make(map[string]bool, len(excludeCategories))
	for _, c := range excludeCategories {
		excluded[c] = true
	}

	totals := make(map[string]float64)
	order := make([]string, 0)
	var includedTotal float64

	for _, tx := range transactions {
		if excluded[tx.Category] {
			continue
		}
		if _, seen := totals[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		amount := tx.EffectiveIDRAmount()
		totals[tx.Category] += amount
		includedTotal += amount
	}

	if len(order) == 0 {
		return []*model.CategoryBreakdown{}
	}

	breakdown := make([]*model.CategoryBreakdown, 0, len(order))
	for i, name := range order {
		value := totals[name]
		breakdown = append(breakdown, &model.CategoryBreakdown{
			Name:       name,
			Value:      value,
			Percentage: int(value/includedTotal*100 + 0.5),
			Color:      chartColors[i%len(chartColors)],
		})
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Value > breakdown[j].Value
	})
	return breakdown
}

// ByDay buckets spending per calendar day and emits one entry for EVERY
// day in [startDate, endDate], zero-amount days included, with a running
// cumulative sum. Day keys use the transaction's own location.
func ByDay(transactions []*model.Transaction, startDate, endDate time.Time) []*model.DailySpending {
	dayTotals := make(map[string]float64)
	for _, tx := range transactions {
		key := tx.Date.Format("2006-01-02")
		dayTotals[key] += tx.EffectiveIDRAmount()
	}

	series := make([]*model.DailySpending, 0)
	var cumulative float64

	endKey := endDate.Format("2006-01-02")
	for d := startDate; ; d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		amount := dayTotals[key]
		cumulative += amount
		series = append(series, &model.DailySpending{
			Date:             key,
			Amount:           amount,
			CumulativeAmount: cumulative,
		})
		if key == endKey {
			break
		}
	}
	return series
}

// Projections extrapolates month-end spending from the run rate so far.
// Divisions by zero days are guarded and yield zero rates.
func Projections(salary, totalSpending float64, daysElapsed, daysRemaining int) *model.Projections {
	remainingBalance := salary - totalSpending

	var averageDaily float64
	if daysElapsed > 0 {
		averageDaily = totalSpending / float64(daysElapsed)
	}

	projectedMonthEnd := totalSpending + averageDaily*float64(daysRemaining)

	var dailyBudget float64
	if daysRemaining > 0 {
		dailyBudget = remainingBalance / float64(daysRemaining)
	}

	return &model.Projections{
		DaysElapsed:               daysElapsed,
		DaysRemaining:             daysRemaining,
		AverageDailySpending:      averageDaily,
		ProjectedMonthEndSpending: projectedMonthEnd,
		ProjectedRemainingBalance: salary - projectedMonthEnd,
		DailyBudgetRemaining:      dailyBudget,
	}
}

// TotalsOptions controls how Totals weighs each transaction. For credit
// cards the installment engine decides what a transaction contributes to
// the viewed statement; debit accounts always contribute the full amount.
type TotalsOptions struct {
	IsCreditCard bool
	StatementDay int
	MonthOffset  int
	Ref          time.Time

	// ExcludedCategories are dropped from MySpending and the category
	// totals. Nil falls back to Transfer and Credit Card Payment.
	ExcludedCategories []string
}

// CategoryTotal is one category's contribution to MySpending, emitted in
// first-seen order.
type CategoryTotal struct {
	Name  string
	Value float64
}

// Totals holds the two spending views of a bank's period: MySpending is
// discretionary spend (excluded categories removed), TotalSpending is the
// full bill with only inter-account transfers removed.
type Totals struct {
	MySpending     float64
	TotalSpending  float64
	CategoryTotals []CategoryTotal
}

// CalculateTotals computes both spending totals over one pass. Installment
// purchases on credit cards contribute their monthly slice (or zero when
// outside their term range) instead of the full purchase amount.
func CalculateTotals(transactions []*model.Transaction, opts TotalsOptions) Totals {
	excludedList := opts.ExcludedCategories
	if excludedList == nil {
		excludedList = []string{model.CategoryTransfer, model.CategoryCCPayment}
	}
	excluded := make(map[string]bool, len(excludedList))
	for _, c := range excludedList {
		excluded[c] = true
	}

	categoryTotals := make(map[string]float64)
	order := make([]string, 0)
	var totals Totals

	for _, tx := range transactions {
		amount := tx.EffectiveIDRAmount()
		if opts.IsCreditCard {
			amount = installment.EffectiveAmount(amount, tx.Terms(), tx.Date, opts.StatementDay, opts.MonthOffset, opts.Ref)
		}

		// The full bill only strips transfers between own accounts; card
		// payments still count toward what the statement demands.
		if tx.Category != model.CategoryTransfer {
			totals.TotalSpending += amount
		}

		if excluded[tx.Category] {
			continue
		}
		totals.MySpending += amount
		if _, seen := categoryTotals[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		categoryTotals[tx.Category] += amount
	}

	totals.CategoryTotals = make([]CategoryTotal, 0, len(order))
	for _, name := range order {
		totals.CategoryTotals = append(totals.CategoryTotals, CategoryTotal{Name: name, Value: categoryTotals[name]})
	}
	return totals
}
