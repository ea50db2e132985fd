package model

import "time"

// View models returned to the UI layer. Plain serializable structures with
// no behavior.

// PeriodView is the viewed calendar month on the salary dashboard.
type PeriodView struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Label     string `json:"label"`
}

// Projections are month-end spending projections from elapsed-day run rate.
type Projections struct {
	DaysElapsed               int     `json:"daysElapsed"`
	DaysRemaining             int     `json:"daysRemaining"`
	AverageDailySpending      float64 `json:"averageDailySpending"`
	ProjectedMonthEndSpending float64 `json:"projectedMonthEndSpending"`
	ProjectedRemainingBalance float64 `json:"projectedRemainingBalance"`
	DailyBudgetRemaining      float64 `json:"dailyBudgetRemaining"`
}

// CategoryBreakdown is one slice of the category pie chart.
type CategoryBreakdown struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage int     `json:"percentage"`
	Color      string  `json:"color"`
}

// DailySpending is one day in the cumulative daily trend.
type DailySpending struct {
	Date             string  `json:"date"`
	Amount           float64 `json:"amount"`
	CumulativeAmount float64 `json:"cumulativeAmount"`
}

// BankSummary is per-bank total spending for the viewed period.
type BankSummary struct {
	BankID        string   `json:"bankId"`
	BankName      string   `json:"bankName"`
	BankType      BankType `json:"bankType"`
	TotalSpending float64  `json:"totalSpending"`
}

// CCPaymentDetail is the computed bill for one credit card statement.
type CCPaymentDetail struct {
	BankID          string  `json:"bankId"`
	BankName        string  `json:"bankName"`
	StatementPeriod string  `json:"statementPeriod"`
	Amount          float64 `json:"amount"`
}

// CCPaymentMade is a payment matched to a credit card statement.
type CCPaymentMade struct {
	BankName string  `json:"bankName"`
	Merchant string  `json:"merchant"`
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
	ForCC    string  `json:"forCc,omitempty"`
}

// InstallmentInfo describes one active installment in the viewed period.
// Recomputed per view, never persisted.
type InstallmentInfo struct {
	TransactionID      string    `json:"transactionId"`
	Merchant           string    `json:"merchant"`
	TotalAmount        float64   `json:"totalAmount"`
	MonthlyAmount      float64   `json:"monthlyAmount"`
	Terms              int       `json:"terms"`
	CurrentInstallment int       `json:"currentInstallment"`
	IsActive           bool      `json:"isActive"`
	StartDate          time.Time `json:"startDate"`
	TransactionDate    time.Time `json:"transactionDate"`
}

// SalaryDashboardData is the aggregate dashboard view model.
type SalaryDashboardData struct {
	Period             PeriodView           `json:"period"`
	Salary             float64              `json:"salary"`
	DebitSpending      float64              `json:"debitSpending"`
	CCPaymentDue       float64              `json:"ccPaymentDue"`
	CCPaymentDetails   []*CCPaymentDetail   `json:"ccPaymentDetails"`
	CCPaymentsMade     []*CCPaymentMade     `json:"ccPaymentsMade"`
	TotalSpending      float64              `json:"totalSpending"`
	RemainingBalance   float64              `json:"remainingBalance"`
	CategoryBreakdown  []*CategoryBreakdown `json:"categoryBreakdown"`
	DailySpending      []*DailySpending     `json:"dailySpending"`
	Projections        *Projections         `json:"projections"`
	BankSummary        []*BankSummary       `json:"bankSummary"`
	ActiveInstallments []*InstallmentInfo   `json:"activeInstallments"`
}

// ChartData is a name/value/percentage triple for the per-bank chart.
type ChartData struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage int     `json:"percentage"`
}

// BankTransactionsData is the per-bank "transactions + chart" view model.
type BankTransactionsData struct {
	Transactions       []*Transaction     `json:"transactions"`
	ChartData          []*ChartData       `json:"chartData"`
	Total              float64            `json:"total"`
	TotalSpending      float64            `json:"totalSpending"`
	ActiveInstallments []*InstallmentInfo `json:"activeInstallments"`
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	EmailsFound     int `json:"emailsFound"`
	NewTransactions int `json:"newTransactions"`
}
