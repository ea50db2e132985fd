package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jiegrein/PersonalBankNote/internal/model"
)

func TestGetBankTransactionsCreditCard(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	credit, err := svc.CreateBank(ctx, BankInput{
		Name: "BCA Credit Card", EmailFilter: "cc@bca.co.id", StatementDay: 21, DueDay: 8, BankType: "credit",
	})
	require.NoError(t, err)

	terms12 := 12
	require.NoError(t, st.CreateTransaction(ctx, &model.Transaction{
		BankID: credit.ID, Merchant: "RESTAURANT", Category: "Food", Amount: 600000,
		Date: time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, st.CreateTransaction(ctx, &model.Transaction{
		BankID: credit.ID, Merchant: "TOKOPEDIA", Category: "Shopping", Amount: 1200000,
		InstallmentTerms: &terms12,
		Date:             time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC),
	}))

	start := time.Date(2026, time.May, 21, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.June, 20, 23, 59, 59, 0, time.UTC)
	data, err := svc.GetBankTransactions(ctx, TransactionFilter{
		BankID:    credit.ID,
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)

	// Only the in-range purchase is listed; the March installment joins the
	// totals without appearing.
	require.Len(t, data.Transactions, 1)
	assert.Equal(t, "RESTAURANT", data.Transactions[0].Merchant)
	require.NotNil(t, data.Transactions[0].Bank)
	assert.Equal(t, "BCA Credit Card", data.Transactions[0].Bank.Name)

	// 600k purchase + 100k installment slice for the viewed cycle.
	assert.Equal(t, float64(700000), data.Total)
	assert.Equal(t, float64(700000), data.TotalSpending)

	require.Len(t, data.ChartData, 2)
	assert.Equal(t, "Food", data.ChartData[0].Name)
	assert.Equal(t, 86, data.ChartData[0].Percentage)
	assert.Equal(t, "Shopping", data.ChartData[1].Name)
	assert.Equal(t, float64(100000), data.ChartData[1].Value)
	assert.Equal(t, 14, data.ChartData[1].Percentage)

	require.Len(t, data.ActiveInstallments, 1)
	assert.Equal(t, 4, data.ActiveInstallments[0].CurrentInstallment)
	assert.Equal(t, float64(100000), data.ActiveInstallments[0].MonthlyAmount)
}

func TestGetBankTransactionsDebit(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	debit, err := svc.CreateBank(ctx, validBankInput())
	require.NoError(t, err)

	require.NoError(t, st.CreateTransaction(ctx, &model.Transaction{
		BankID: debit.ID, Merchant: "SUPERINDO", Category: "Food", Amount: 150000,
		Date: time.Date(2026, time.June, 5, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, st.CreateTransaction(ctx, &model.Transaction{
		BankID: debit.ID, Merchant: "OWN ACCOUNT", Category: model.CategoryTransfer, Amount: 2000000,
		Date: time.Date(2026, time.June, 6, 0, 0, 0, 0, time.UTC),
	}))

	data, err := svc.GetBankTransactions(ctx, TransactionFilter{BankID: debit.ID})
	require.NoError(t, err)

	assert.Len(t, data.Transactions, 2)
	assert.Equal(t, float64(150000), data.Total)
	// Full bill keeps everything except transfers.
	assert.Equal(t, float64(150000), data.TotalSpending)
	assert.Empty(t, data.ActiveInstallments)

	require.Len(t, data.ChartData, 1)
	assert.Equal(t, "Food", data.ChartData[0].Name)
	assert.Equal(t, 100, data.ChartData[0].Percentage)
}

func TestGetBankTransactionsUnknownBank(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetBankTransactions(context.Background(), TransactionFilter{BankID: "missing"})
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrNotFound, svcErr.Code)
}

func TestGetBankTransactionsAllBanks(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateBank(ctx, validBankInput())
	require.NoError(t, err)
	in := validBankInput()
	in.Name = "Jenius"
	in.EmailFilter = "noreply@jenius.com"
	b, err := svc.CreateBank(ctx, in)
	require.NoError(t, err)

	require.NoError(t, st.CreateTransaction(ctx, &model.Transaction{
		BankID: a.ID, Merchant: "m1", Category: "Food", Amount: 100, Date: time.Now(),
	}))
	require.NoError(t, st.CreateTransaction(ctx, &model.Transaction{
		BankID: b.ID, Merchant: "m2", Category: "Food", Amount: 200, Date: time.Now(),
	}))

	data, err := svc.GetBankTransactions(ctx, TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, data.Transactions, 2)
	assert.Equal(t, float64(300), data.Total)
}
