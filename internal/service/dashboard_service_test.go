package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jiegrein/PersonalBankNote/internal/model"
	"github.com/Jiegrein/PersonalBankNote/internal/store"
)

// seedDashboardFixture sets up one debit account and one credit card with
// activity across June 2026 and the card's May 21 - Jun 20 billing cycle.
// The injected clock is pinned to June 15 12:00 UTC.
func seedDashboardFixture(t *testing.T, svc *FinanceService, st *store.MemoryStore) (debit, credit *model.Bank) {
	t.Helper()
	ctx := context.Background()

	debit, err := svc.CreateBank(ctx, BankInput{
		Name: "BCA Debit", EmailFilter: "bca@bca.co.id", StatementDay: 25, BankType: "debit",
	})
	require.NoError(t, err)

	credit, err = svc.CreateBank(ctx, BankInput{
		Name: "BCA Credit Card", EmailFilter: "cc@bca.co.id", StatementDay: 21, DueDay: 8, BankType: "credit",
	})
	require.NoError(t, err)

	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
	}
	terms12 := 12

	transactions := []*model.Transaction{
		// Debit activity inside the calendar month.
		{BankID: debit.ID, Merchant: "SUPERINDO", Category: "Food", Amount: 500000, Date: day(2026, time.June, 5)},
		{BankID: debit.ID, Merchant: "GOJEK", Category: "Transport", Amount: 200000, Date: day(2026, time.June, 10)},
		{BankID: debit.ID, Merchant: "OWN ACCOUNT", Category: model.CategoryTransfer, Amount: 1000000, Date: day(2026, time.June, 3)},
		// Debit payment toward the card, inside the payment window (day 25
		// >= statement day 21).
		{BankID: debit.ID, Merchant: "BCA CREDIT CARD", Category: model.CategoryCCPayment, Amount: 300000, Date: day(2026, time.June, 25)},
		// Credit purchase inside the May 21 - Jun 20 cycle.
		{BankID: credit.ID, Merchant: "RESTAURANT", Category: "Food", Amount: 600000, Date: day(2026, time.May, 25)},
		// Installment from March, amortizing 100k into the June statement.
		{BankID: credit.ID, Merchant: "TOKOPEDIA", Category: "Shopping", Amount: 1200000, InstallmentTerms: &terms12, Date: day(2026, time.March, 10)},
		// Payment from the card's own account, in the wrap-around window
		// (day 5 <= due day 8 + grace 3).
		{BankID: credit.ID, Merchant: "PAYMENT RECEIVED", Category: model.CategoryCCPayment, Amount: 250000, Date: day(2026, time.June, 5)},
	}
	for _, tx := range transactions {
		require.NoError(t, st.CreateTransaction(ctx, tx))
	}
	return debit, credit
}

func TestGetSalaryDashboard(t *testing.T) {
	svc, st := newTestService(t)
	debit, credit := seedDashboardFixture(t, svc, st)
	ctx := context.Background()

	data, err := svc.GetSalaryDashboard(ctx, 0)
	require.NoError(t, err)

	assert.Equal(t, "June 2026", data.Period.Label)
	assert.Equal(t, float64(model.DefaultSalary), data.Salary)

	// Transfers and card payments are excluded from debit spending.
	assert.Equal(t, float64(700000), data.DebitSpending)

	// Full bill: 600k purchase + 100k installment slice. Payments: 250k
	// from the card account + 300k from debit.
	require.Len(t, data.CCPaymentDetails, 1)
	assert.Equal(t, credit.ID, data.CCPaymentDetails[0].BankID)
	assert.Equal(t, "June 2026", data.CCPaymentDetails[0].StatementPeriod)
	assert.Equal(t, float64(700000), data.CCPaymentDetails[0].Amount)

	require.Len(t, data.CCPaymentsMade, 2)
	assert.Equal(t, "BCA Credit Card", data.CCPaymentsMade[0].BankName)
	assert.Equal(t, float64(250000), data.CCPaymentsMade[0].Amount)
	assert.Equal(t, "BCA Debit", data.CCPaymentsMade[1].BankName)
	assert.Equal(t, "BCA Credit Card", data.CCPaymentsMade[1].ForCC)

	assert.Equal(t, float64(150000), data.CCPaymentDue)
	assert.Equal(t, float64(1400000), data.TotalSpending)
	assert.Equal(t, float64(model.DefaultSalary-1400000), data.RemainingBalance)

	// Category breakdown merges debit and effective credit spend.
	require.Len(t, data.CategoryBreakdown, 3)
	assert.Equal(t, "Food", data.CategoryBreakdown[0].Name)
	assert.Equal(t, float64(1100000), data.CategoryBreakdown[0].Value)
	assert.Equal(t, 79, data.CategoryBreakdown[0].Percentage)
	assert.Equal(t, "Transport", data.CategoryBreakdown[1].Name)
	assert.Equal(t, "Shopping", data.CategoryBreakdown[2].Name)
	assert.Equal(t, float64(100000), data.CategoryBreakdown[2].Value)

	// Daily series covers every June day, debit only.
	require.Len(t, data.DailySpending, 30)
	assert.Equal(t, "2026-06-05", data.DailySpending[4].Date)
	assert.Equal(t, float64(500000), data.DailySpending[4].Amount)
	assert.Equal(t, float64(700000), data.DailySpending[29].CumulativeAmount)

	require.NotNil(t, data.Projections)
	assert.Equal(t, 15, data.Projections.DaysElapsed)
	assert.Equal(t, 15, data.Projections.DaysRemaining)
	assert.InDelta(t, 1400000.0/15, data.Projections.AverageDailySpending, 0.01)

	require.Len(t, data.BankSummary, 2)
	assert.Equal(t, float64(700000), data.BankSummary[0].TotalSpending)
	assert.Equal(t, float64(700000), data.BankSummary[1].TotalSpending)
	// Equal totals keep accumulation order: debit first.
	assert.Equal(t, debit.ID, data.BankSummary[0].BankID)

	require.Len(t, data.ActiveInstallments, 1)
	inst := data.ActiveInstallments[0]
	assert.Equal(t, "TOKOPEDIA", inst.Merchant)
	assert.Equal(t, 4, inst.CurrentInstallment)
	assert.Equal(t, float64(100000), inst.MonthlyAmount)
	assert.Equal(t, 12, inst.Terms)
}

func TestGetSalaryDashboardEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	data, err := svc.GetSalaryDashboard(context.Background(), 0)
	require.NoError(t, err)

	assert.Zero(t, data.TotalSpending)
	assert.Zero(t, data.CCPaymentDue)
	assert.Empty(t, data.CategoryBreakdown)
	assert.Empty(t, data.CCPaymentDetails)
	assert.Len(t, data.DailySpending, 30)
	assert.Equal(t, float64(model.DefaultSalary), data.RemainingBalance)
}

func TestGetSalaryDashboardPreviousMonth(t *testing.T) {
	svc, st := newTestService(t)
	seedDashboardFixture(t, svc, st)

	data, err := svc.GetSalaryDashboard(context.Background(), -1)
	require.NoError(t, err)

	assert.Equal(t, "May 2026", data.Period.Label)
	// May is fully elapsed relative to the June 15 clock.
	assert.Equal(t, 31, data.Projections.DaysElapsed)
	assert.Equal(t, 0, data.Projections.DaysRemaining)
	assert.Len(t, data.DailySpending, 31)
	// None of the June debit activity leaks into the May view.
	assert.Zero(t, data.DebitSpending)
}
