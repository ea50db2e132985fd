package service

import (
	"context"
	"time"

	"github.com/Jiegrein/PersonalBankNote/internal/installment"
	"github.com/Jiegrein/PersonalBankNote/internal/model"
	"github.com/Jiegrein/PersonalBankNote/internal/spending"
	"github.com/Jiegrein/PersonalBankNote/internal/store"
)

// TransactionFilter narrows the per-bank transactions view. MonthOffset
// shifts the billing cycle the installment math is evaluated against.
type TransactionFilter struct {
	BankID      string
	StartDate   *time.Time
	EndDate     *time.Time
	MonthOffset int
}

// GetBankTransactions returns the filtered transaction list with its
// spending chart. For credit cards the totals are installment-aware, and
// purchases from up to two years back that still amortize into the viewed
// cycle are pulled in for the calculation without appearing in the list.
func (s *FinanceService) GetBankTransactions(ctx context.Context, filter TransactionFilter) (*model.BankTransactionsData, error) {
	now := s.now()

	statementDay := 1
	isCreditCard := false
	if filter.BankID != "" {
		bank, err := s.GetBank(ctx, filter.BankID)
		if err != nil {
			return nil, err
		}
		statementDay = bank.StatementDay
		isCreditCard = bank.BankType == model.BankTypeCredit
	}

	banks, err := s.store.ListBanks(ctx)
	if err != nil {
		return nil, internal("failed to list banks", err)
	}
	bankByID := make(map[string]*model.Bank, len(banks))
	for _, bank := range banks {
		bankByID[bank.ID] = bank
	}

	transactions, err := s.store.ListTransactions(ctx, store.TransactionQuery{
		BankID:    filter.BankID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	})
	if err != nil {
		return nil, internal("failed to list transactions", err)
	}
	attachBankRefs(transactions, bankByID)

	var installmentTxs []*model.Transaction
	if isCreditCard {
		lookbackStart := now.AddDate(0, -installmentLookbackMonths, 0)
		older, err := s.store.ListTransactions(ctx, store.TransactionQuery{
			BankID:    filter.BankID,
			StartDate: &lookbackStart,
		})
		if err != nil {
			return nil, internal("failed to list installment transactions", err)
		}
		for _, tx := range older {
			if tx.Terms() > 1 {
				installmentTxs = append(installmentTxs, tx)
			}
		}
	}

	// Older installment purchases join the totals but not the visible list.
	listed := make(map[string]bool, len(transactions))
	for _, tx := range transactions {
		listed[tx.ID] = true
	}
	forCalculation := transactions
	for _, tx := range installmentTxs {
		if !listed[tx.ID] {
			forCalculation = append(forCalculation, tx)
		}
	}

	excluded, err := s.excludedCategories(ctx)
	if err != nil {
		return nil, err
	}

	totals := spending.CalculateTotals(forCalculation, spending.TotalsOptions{
		IsCreditCard:       isCreditCard,
		StatementDay:       statementDay,
		MonthOffset:        filter.MonthOffset,
		Ref:                now,
		ExcludedCategories: excluded,
	})

	chartData := make([]*model.ChartData, 0, len(totals.CategoryTotals))
	for _, ct := range totals.CategoryTotals {
		percentage := 0
		if totals.MySpending > 0 {
			percentage = int(ct.Value/totals.MySpending*100 + 0.5)
		}
		chartData = append(chartData, &model.ChartData{
			Name:       ct.Name,
			Value:      ct.Value,
			Percentage: percentage,
		})
	}

	activeInstallments := make([]*model.InstallmentInfo, 0)
	if isCreditCard {
		activeInstallments = installment.Active(installmentTxs, statementDay, filter.MonthOffset, now)
	}

	return &model.BankTransactionsData{
		Transactions:       transactions,
		ChartData:          chartData,
		Total:              totals.MySpending,
		TotalSpending:      totals.TotalSpending,
		ActiveInstallments: activeInstallments,
	}, nil
}
