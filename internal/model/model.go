package model

import "time"

// BankType distinguishes debit accounts from credit cards.
type BankType string

const (
	BankTypeDebit  BankType = "debit"
	BankTypeCredit BankType = "credit"
)

// ValidBankType reports whether s is a known bank type.
func ValidBankType(s string) bool {
	return s == string(BankTypeDebit) || s == string(BankTypeCredit)
}

const (
	StatementDayMin = 1
	StatementDayMax = 31
)

// ValidStatementDay reports whether day is within the valid range (1-31).
func ValidStatementDay(day int) bool {
	return day >= StatementDayMin && day <= StatementDayMax
}

// InstallmentOptions are the allowed installment term counts. 1 means full
// payment and is stored as a nil InstallmentTerms.
var InstallmentOptions = []int{1, 3, 6, 12, 24}

// ValidInstallmentTerms reports whether terms is an allowed term count.
func ValidInstallmentTerms(terms int) bool {
	for _, opt := range InstallmentOptions {
		if terms == opt {
			return true
		}
	}
	return false
}

// Bank is an income/spending account that transactions belong to.
type Bank struct {
	ID           string    `json:"id" firestore:"Id"`
	Name         string    `json:"name" firestore:"Name"`
	EmailFilter  string    `json:"emailFilter" firestore:"EmailFilter"`
	StatementDay int       `json:"statementDay" firestore:"StatementDay"`
	DueDay       int       `json:"dueDay,omitempty" firestore:"DueDay"` // credit only
	BankType     BankType  `json:"bankType" firestore:"BankType"`
	Color        string    `json:"color" firestore:"Color"`
	ParserType   string    `json:"parserType" firestore:"ParserType"`
	CreatedAt    time.Time `json:"createdAt" firestore:"CreatedAt"`
	UpdatedAt    time.Time `json:"updatedAt" firestore:"UpdatedAt"`
}

// BankRef is the subset of bank fields embedded on a transaction.
type BankRef struct {
	Name         string   `json:"name" firestore:"Name"`
	Color        string   `json:"color" firestore:"Color"`
	BankType     BankType `json:"bankType" firestore:"BankType"`
	StatementDay int      `json:"statementDay" firestore:"StatementDay"`
}

// Transaction is a single spend/transfer event parsed from a notification
// email. Amount may be negative for reversals/refunds. IDRAmount is nil when
// the original currency has not been converted.
type Transaction struct {
	ID               string    `json:"id" firestore:"Id"`
	BankID           string    `json:"bankId" firestore:"BankId"`
	EmailID          string    `json:"emailId" firestore:"EmailId"`
	Amount           float64   `json:"amount" firestore:"Amount"`
	Currency         string    `json:"currency" firestore:"Currency"`
	IDRAmount        *float64  `json:"idrAmount" firestore:"IdrAmount"`
	Merchant         string    `json:"merchant" firestore:"Merchant"`
	Category         string    `json:"category" firestore:"Category"`
	Date             time.Time `json:"date" firestore:"Date"`
	InstallmentTerms *int      `json:"installmentTerms" firestore:"InstallmentTerms"`
	RawContent       string    `json:"rawContent,omitempty" firestore:"RawContent"`
	Bank             *BankRef  `json:"bank,omitempty" firestore:"-"`
	CreatedAt        time.Time `json:"createdAt" firestore:"CreatedAt"`
	UpdatedAt        time.Time `json:"updatedAt" firestore:"UpdatedAt"`
}

// EffectiveIDRAmount returns the IDR-converted amount when available,
// otherwise the original amount.
func (t *Transaction) EffectiveIDRAmount() float64 {
	if t.IDRAmount != nil {
		return *t.IDRAmount
	}
	return t.Amount
}

// Terms returns the installment term count, or 1 for full payments.
func (t *Transaction) Terms() int {
	if t.InstallmentTerms == nil {
		return 1
	}
	return *t.InstallmentTerms
}

// RuleCondition identifies how a rule's condition value is matched.
type RuleCondition string

const (
	RuleContains           RuleCondition = "contains"
	RuleStartsWith         RuleCondition = "startsWith"
	RuleEndsWith           RuleCondition = "endsWith"
	RuleEquals             RuleCondition = "equals"
	RuleMerchantContains   RuleCondition = "merchantContains"
	RuleMerchantStartsWith RuleCondition = "merchantStartsWith"
	RuleMerchantEndsWith   RuleCondition = "merchantEndsWith"
	RuleMerchantEquals     RuleCondition = "merchantEquals"
)

// ValidRuleCondition reports whether s is a known condition kind.
func ValidRuleCondition(s string) bool {
	switch RuleCondition(s) {
	case RuleContains, RuleStartsWith, RuleEndsWith, RuleEquals,
		RuleMerchantContains, RuleMerchantStartsWith, RuleMerchantEndsWith, RuleMerchantEquals:
		return true
	}
	return false
}

// IsMerchantScoped reports whether the condition matches against the
// merchant text only rather than the whole classification text.
func (c RuleCondition) IsMerchantScoped() bool {
	switch c {
	case RuleMerchantContains, RuleMerchantStartsWith, RuleMerchantEndsWith, RuleMerchantEquals:
		return true
	}
	return false
}

// Rule is a classification instruction. Higher priority wins; ties resolve
// in store order.
type Rule struct {
	ID             string        `json:"id" firestore:"Id"`
	Condition      RuleCondition `json:"condition" firestore:"Condition"`
	ConditionValue string        `json:"conditionValue" firestore:"ConditionValue"`
	Category       string        `json:"category" firestore:"Category"`
	Priority       int           `json:"priority" firestore:"Priority"`
	BankType       string        `json:"bankType,omitempty" firestore:"BankType"` // "" = all banks
	CreatedAt      time.Time     `json:"createdAt" firestore:"CreatedAt"`
	UpdatedAt      time.Time     `json:"updatedAt" firestore:"UpdatedAt"`
}

// SyncLog records one email sync run for a bank.
type SyncLog struct {
	ID         string    `json:"id" firestore:"Id"`
	BankID     string    `json:"bankId" firestore:"BankId"`
	SyncedAt   time.Time `json:"syncedAt" firestore:"SyncedAt"`
	EmailCount int       `json:"emailCount" firestore:"EmailCount"`
}

// Setting is a flat key-value configuration entry.
type Setting struct {
	Key   string `json:"key" firestore:"Key"`
	Value string `json:"value" firestore:"Value"`
}

// Well-known setting keys.
const (
	SettingSalaryMonthlyAmount = "salary.monthlyAmount"
	SettingExcludedCategories  = "spending.excludedCategories"
)

// DefaultSalary is used when salary.monthlyAmount is absent or malformed.
const DefaultSalary = 30000000

// CategoryUncategorized is the sentinel category when no rule matches.
const CategoryUncategorized = "Uncategorized"

// Categories with special meaning to the dashboard aggregation.
const (
	CategoryTransfer  = "Transfer"
	CategoryCCPayment = "Credit Card Payment"
)

// EmailMessage is a raw email fetched from the provider.
type EmailMessage struct {
	ID         string    `json:"id"`
	Subject    string    `json:"subject"`
	Content    string    `json:"content"`
	From       string    `json:"from"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// ParsedTransaction is the output of a bank-specific email parser.
type ParsedTransaction struct {
	Amount          float64  `json:"amount"`
	Currency        string   `json:"currency"`
	IDRAmount       *float64 `json:"idrAmount"`
	Merchant        string   `json:"merchant"`
	TransactionType string   `json:"transactionType"`
}
