package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Jiegrein/PersonalBankNote/internal/installment"
	"github.com/Jiegrein/PersonalBankNote/internal/model"
	"github.com/Jiegrein/PersonalBankNote/internal/payment"
	"github.com/Jiegrein/PersonalBankNote/internal/period"
	"github.com/Jiegrein/PersonalBankNote/internal/spending"
	"github.com/Jiegrein/PersonalBankNote/internal/store"
)

// installmentLookbackMonths bounds how far back the dashboard looks for
// still-amortizing purchases. The longest term is 24 months, so anything
// older can no longer contribute to a current statement.
const installmentLookbackMonths = 24

// GetSalaryDashboard assembles the salary dashboard for the calendar month
// at monthOffset. Debit spending is summed over the calendar month; each
// credit card is summed over its own billing cycle, the one whose statement
// lands inside the viewed month, with installments contributing their
// monthly slice.
func (s *FinanceService) GetSalaryDashboard(ctx context.Context, monthOffset int) (*model.SalaryDashboardData, error) {
	now := s.now()
	calMonth := period.Month(monthOffset, now)

	var (
		salary   float64
		excluded []string
		banks    []*model.Bank
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		salary, err = s.salary(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		excluded, err = s.excludedCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		banks, err = s.store.ListBanks(gctx)
		if err != nil {
			return internal("failed to list banks", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bankByID := make(map[string]*model.Bank, len(banks))
	var debitBanks, creditBanks []*model.Bank
	for _, bank := range banks {
		bankByID[bank.ID] = bank
		if bank.BankType == model.BankTypeCredit {
			creditBanks = append(creditBanks, bank)
		} else {
			debitBanks = append(debitBanks, bank)
		}
	}

	// Each card's viewed cycle is the one whose statement arrives inside the
	// calendar month, so billing is anchored at the month's start date. The
	// fetch window widens to cover every card cycle plus the month itself.
	type ccView struct {
		bank   *model.Bank
		period period.BillingPeriod
	}
	ccViews := make([]ccView, 0, len(creditBanks))
	fetchStart, fetchEnd := calMonth.StartDate, calMonth.EndDate
	for _, cc := range creditBanks {
		p := period.Billing(cc.StatementDay, 0, calMonth.StartDate)
		if p.StartDate.Before(fetchStart) {
			fetchStart = p.StartDate
		}
		if p.EndDate.After(fetchEnd) {
			fetchEnd = p.EndDate
		}
		ccViews = append(ccViews, ccView{bank: cc, period: p})
	}

	var windowTxs []*model.Transaction
	installmentTxsByBank := make(map[string][]*model.Transaction, len(creditBanks))
	lookbackStart := now.AddDate(0, -installmentLookbackMonths, 0)

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		windowTxs, err = s.store.ListTransactions(gctx, store.TransactionQuery{
			StartDate: &fetchStart,
			EndDate:   &fetchEnd,
		})
		if err != nil {
			return internal("failed to list transactions", err)
		}
		return nil
	})
	var mu sync.Mutex
	for _, cc := range creditBanks {
		cc := cc
		g.Go(func() error {
			txs, err := s.store.ListTransactions(gctx, store.TransactionQuery{
				BankID:    cc.ID,
				StartDate: &lookbackStart,
			})
			if err != nil {
				return internal("failed to list installment transactions", err)
			}
			withTerms := make([]*model.Transaction, 0)
			for _, tx := range txs {
				if tx.Terms() > 1 {
					withTerms = append(withTerms, tx)
				}
			}
			mu.Lock()
			installmentTxsByBank[cc.ID] = withTerms
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	attachBankRefs(windowTxs, bankByID)

	excludedSet := make(map[string]bool, len(excluded))
	for _, c := range excluded {
		excludedSet[c] = true
	}

	// Debit transactions are calendar-month scoped; the widened window may
	// have pulled in extra days for the card cycles.
	var debitTxs []*model.Transaction
	for _, tx := range windowTxs {
		bank := bankByID[tx.BankID]
		if bank == nil || bank.BankType == model.BankTypeCredit {
			continue
		}
		if calMonth.Contains(tx.Date) {
			debitTxs = append(debitTxs, tx)
		}
	}

	// creditSpendItem is one effective (installment-aware) spend that counts
	// toward my-spending: it feeds the category breakdown and bank summary.
	type creditSpendItem struct {
		amount   float64
		category string
		bank     *model.Bank
	}

	ccPaymentDetails := make([]*model.CCPaymentDetail, 0)
	ccPaymentsMade := make([]*model.CCPaymentMade, 0)
	allInstallments := make([]*model.InstallmentInfo, 0)
	var creditItems []creditSpendItem
	var fullBillTotal float64
	processedTxIDs := make(map[string]bool)
	processedPaymentIDs := make(map[string]bool)

	for _, view := range ccViews {
		cc := view.bank
		statementDay := cc.StatementDay

		var ccSpending, ccPaymentsFromSelf []*model.Transaction
		for _, tx := range windowTxs {
			if tx.BankID != cc.ID || !view.period.Contains(tx.Date) {
				continue
			}
			if tx.Category == model.CategoryCCPayment {
				ccPaymentsFromSelf = append(ccPaymentsFromSelf, tx)
			} else {
				ccSpending = append(ccSpending, tx)
			}
		}

		var ccBill float64
		accumulate := func(tx *model.Transaction) {
			effective := installment.EffectiveAmount(
				tx.EffectiveIDRAmount(), tx.Terms(), tx.Date, statementDay, 0, calMonth.StartDate)
			if effective == 0 {
				return
			}
			if tx.Category != model.CategoryTransfer {
				ccBill += effective
			}
			if !excludedSet[tx.Category] {
				creditItems = append(creditItems, creditSpendItem{
					amount:   effective,
					category: tx.Category,
					bank:     cc,
				})
			}
		}

		for _, tx := range ccSpending {
			processedTxIDs[tx.ID] = true
			accumulate(tx)
		}

		// Older installment purchases outside the fetch window still owe a
		// monthly slice to this statement.
		ccInstallmentTxs := installmentTxsByBank[cc.ID]
		for _, tx := range ccInstallmentTxs {
			if processedTxIDs[tx.ID] {
				continue
			}
			processedTxIDs[tx.ID] = true
			accumulate(tx)
		}

		allInstallments = append(allInstallments,
			installment.Active(ccInstallmentTxs, statementDay, 0, calMonth.StartDate)...)

		fullBillTotal += ccBill
		if ccBill > 0 {
			ccPaymentDetails = append(ccPaymentDetails, &model.CCPaymentDetail{
				BankID:          cc.ID,
				BankName:        cc.Name,
				StatementPeriod: view.period.Label,
				Amount:          ccBill,
			})
		}

		if cc.DueDay == 0 {
			continue
		}

		for _, paymentTx := range ccPaymentsFromSelf {
			if processedPaymentIDs[paymentTx.ID] {
				continue
			}
			if payment.InWindow(paymentTx.Date, statementDay, cc.DueDay, payment.DefaultGraceDays) {
				processedPaymentIDs[paymentTx.ID] = true
				ccPaymentsMade = append(ccPaymentsMade, &model.CCPaymentMade{
					BankName: cc.Name,
					Merchant: paymentTx.Merchant,
					Date:     paymentTx.Date.Format(time.RFC3339),
					Amount:   paymentTx.EffectiveIDRAmount(),
					ForCC:    cc.Name,
				})
			}
		}

		for _, paymentTx := range debitTxs {
			if paymentTx.Category != model.CategoryCCPayment || processedPaymentIDs[paymentTx.ID] {
				continue
			}
			debitBank := bankByID[paymentTx.BankID]
			matched := payment.MatchDebitToCard(debitBank.Name, []*model.Bank{cc})
			if matched != nil && payment.InWindow(paymentTx.Date, statementDay, cc.DueDay, payment.DefaultGraceDays) {
				processedPaymentIDs[paymentTx.ID] = true
				ccPaymentsMade = append(ccPaymentsMade, &model.CCPaymentMade{
					BankName: debitBank.Name,
					Merchant: paymentTx.Merchant,
					Date:     paymentTx.Date.Format(time.RFC3339),
					Amount:   paymentTx.EffectiveIDRAmount(),
					ForCC:    cc.Name,
				})
			}
		}
	}

	var filteredDebitTxs []*model.Transaction
	var debitSpending float64
	for _, tx := range debitTxs {
		if excludedSet[tx.Category] {
			continue
		}
		filteredDebitTxs = append(filteredDebitTxs, tx)
		debitSpending += tx.EffectiveIDRAmount()
	}

	var ccMySpending, ccPaymentsMadeTotal float64
	for _, item := range creditItems {
		ccMySpending += item.amount
	}
	for _, p := range ccPaymentsMade {
		ccPaymentsMadeTotal += p.Amount
	}

	ccPaymentDue := fullBillTotal - ccPaymentsMadeTotal
	totalSpending := debitSpending + ccMySpending

	// Credit spend enters the category breakdown at its effective amount,
	// re-expressed as already-converted IDR rows.
	breakdownInput := make([]*model.Transaction, 0, len(filteredDebitTxs)+len(creditItems))
	breakdownInput = append(breakdownInput, filteredDebitTxs...)
	for _, item := range creditItems {
		amount := item.amount
		breakdownInput = append(breakdownInput, &model.Transaction{
			Category:  item.category,
			Amount:    amount,
			Currency:  "IDR",
			IDRAmount: &amount,
		})
	}

	elapsed, remaining := calMonth.ElapsedDays(now)

	bankTotals := make(map[string]*model.BankSummary)
	bankOrder := make([]string, 0)
	addToBank := func(bank *model.Bank, amount float64) {
		summary := bankTotals[bank.ID]
		if summary == nil {
			summary = &model.BankSummary{
				BankID:   bank.ID,
				BankName: bank.Name,
				BankType: bank.BankType,
			}
			bankTotals[bank.ID] = summary
			bankOrder = append(bankOrder, bank.ID)
		}
		summary.TotalSpending += amount
	}
	for _, tx := range filteredDebitTxs {
		if bank := bankByID[tx.BankID]; bank != nil {
			addToBank(bank, tx.EffectiveIDRAmount())
		}
	}
	for _, item := range creditItems {
		addToBank(item.bank, item.amount)
	}
	bankSummary := make([]*model.BankSummary, 0, len(bankOrder))
	for _, id := range bankOrder {
		bankSummary = append(bankSummary, bankTotals[id])
	}
	sort.SliceStable(bankSummary, func(i, j int) bool {
		return bankSummary[i].TotalSpending > bankSummary[j].TotalSpending
	})

	return &model.SalaryDashboardData{
		Period: model.PeriodView{
			StartDate: calMonth.StartDate.Format(time.RFC3339),
			EndDate:   calMonth.EndDate.Format(time.RFC3339),
			Label:     calMonth.Label,
		},
		Salary:             salary,
		DebitSpending:      debitSpending,
		CCPaymentDue:       ccPaymentDue,
		CCPaymentDetails:   ccPaymentDetails,
		CCPaymentsMade:     ccPaymentsMade,
		TotalSpending:      totalSpending,
		RemainingBalance:   salary - totalSpending,
		CategoryBreakdown:  spending.ByCategory(breakdownInput, nil),
		DailySpending:      spending.ByDay(filteredDebitTxs, calMonth.StartDate, calMonth.EndDate),
		Projections:        spending.Projections(salary, totalSpending, elapsed, remaining),
		BankSummary:        bankSummary,
		ActiveInstallments: allInstallments,
	}, nil
}

// attachBankRefs fills the embedded bank subset on each transaction so the
// UI can render without a second lookup.
func attachBankRefs(transactions []*model.Transaction, bankByID map[string]*model.Bank) {
	for _, tx := range transactions {
		if bank := bankByID[tx.BankID]; bank != nil {
			tx.Bank = &model.BankRef{
				Name:         bank.Name,
				Color:        bank.Color,
				BankType:     bank.BankType,
				StatementDay: bank.StatementDay,
			}
		}
	}
}
