// Package service implements the application logic over the store: CRUD
// with validation, the email sync pipeline, and the dashboard and
// per-bank view assembly.
package service

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jiegrein/PersonalBankNote/internal/archive"
	"github.com/Jiegrein/PersonalBankNote/internal/mail"
	"github.com/Jiegrein/PersonalBankNote/internal/model"
	"github.com/Jiegrein/PersonalBankNote/internal/parser"
	"github.com/Jiegrein/PersonalBankNote/internal/store"
)

const defaultBankColor = "#3B82F6"

var emailFilterPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FinanceService holds the store and external collaborators. The clock is
// injected so period math in handlers is testable with a pinned "now".
type FinanceService struct {
	store    store.Store
	mail     mail.Source
	archiver archive.Archiver
	now      func() time.Time
}

// NewFinanceService creates the service over a store. Email sync and
// archival stay disabled until their collaborators are set.
func NewFinanceService(st store.Store) *FinanceService {
	return &FinanceService{
		store:    st,
		archiver: archive.Noop{},
		now:      time.Now,
	}
}

// SetMailSource enables the email sync pipeline.
func (s *FinanceService) SetMailSource(src mail.Source) {
	s.mail = src
}

// SetArchiver enables raw-email archival during sync.
func (s *FinanceService) SetArchiver(a archive.Archiver) {
	s.archiver = a
}

// SetClock overrides the wall clock, for tests.
func (s *FinanceService) SetClock(now func() time.Time) {
	s.now = now
}

// Bank operations

// BankInput carries the writable bank fields.
type BankInput struct {
	Name         string `json:"name"`
	EmailFilter  string `json:"emailFilter"`
	StatementDay int    `json:"statementDay"`
	DueDay       int    `json:"dueDay"`
	BankType     string `json:"bankType"`
	Color        string `json:"color"`
	ParserType   string `json:"parserType"`
}

func (s *FinanceService) validateBankInput(in BankInput) error {
	if in.Name == "" || in.EmailFilter == "" || in.StatementDay == 0 {
		return invalidArgument("missing required fields: name, emailFilter, statementDay")
	}
	if !model.ValidStatementDay(in.StatementDay) {
		return invalidArgument("statement day must be between 1 and 31")
	}
	if in.DueDay != 0 && !model.ValidStatementDay(in.DueDay) {
		return invalidArgument("due day must be between 1 and 31")
	}
	if !emailFilterPattern.MatchString(in.EmailFilter) {
		return invalidArgument("invalid email filter format")
	}
	return nil
}

// applyBankInput resolves defaults the way bank creation always has:
// unknown parser types quietly fall back to generic, unknown bank types
// to debit, and only credit cards keep a due day.
func applyBankInput(bank *model.Bank, in BankInput) {
	bank.Name = in.Name
	bank.EmailFilter = in.EmailFilter
	bank.StatementDay = in.StatementDay

	bank.BankType = model.BankTypeDebit
	if model.ValidBankType(in.BankType) {
		bank.BankType = model.BankType(in.BankType)
	}

	bank.DueDay = 0
	if bank.BankType == model.BankTypeCredit {
		bank.DueDay = in.DueDay
	}

	bank.ParserType = "generic"
	if parser.ValidType(in.ParserType) {
		bank.ParserType = in.ParserType
	}

	bank.Color = in.Color
	if bank.Color == "" {
		bank.Color = defaultBankColor
	}
}

func (s *FinanceService) CreateBank(ctx context.Context, in BankInput) (*model.Bank, error) {
	if err := s.validateBankInput(in); err != nil {
		return nil, err
	}

	now := s.now()
	bank := &model.Bank{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyBankInput(bank, in)

	if err := s.store.CreateBank(ctx, bank); err != nil {
		return nil, internal("failed to create bank", err)
	}
	return bank, nil
}

func (s *FinanceService) GetBank(ctx context.Context, bankID string) (*model.Bank, error) {
	bank, err := s.store.GetBank(ctx, bankID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, notFound("bank not found", err)
		}
		return nil, internal("failed to get bank", err)
	}
	return bank, nil
}

func (s *FinanceService) UpdateBank(ctx context.Context, bankID string, in BankInput) (*model.Bank, error) {
	if err := s.validateBankInput(in); err != nil {
		return nil, err
	}

	bank, err := s.GetBank(ctx, bankID)
	if err != nil {
		return nil, err
	}

	applyBankInput(bank, in)
	bank.UpdatedAt = s.now()

	if err := s.store.UpdateBank(ctx, bank); err != nil {
		return nil, internal("failed to update bank", err)
	}
	return bank, nil
}

// DeleteBank removes the bank along with its transactions and sync logs.
func (s *FinanceService) DeleteBank(ctx context.Context, bankID string) error {
	if err := s.store.DeleteBank(ctx, bankID); err != nil {
		if store.IsNotFound(err) {
			return notFound("bank not found", err)
		}
		return internal("failed to delete bank", err)
	}
	return nil
}

func (s *FinanceService) ListBanks(ctx context.Context) ([]*model.Bank, error) {
	banks, err := s.store.ListBanks(ctx)
	if err != nil {
		return nil, internal("failed to list banks", err)
	}
	return banks, nil
}

// Transaction operations

// TransactionUpdate carries a partial transaction edit. Nil pointers mean
// "leave unchanged"; SetInstallmentTerms distinguishes clearing the terms
// from not touching them.
type TransactionUpdate struct {
	Category            *string
	InstallmentTerms    *int
	SetInstallmentTerms bool
}

func (s *FinanceService) UpdateTransaction(ctx context.Context, transactionID string, update TransactionUpdate) (*model.Transaction, error) {
	if update.Category == nil && !update.SetInstallmentTerms {
		return nil, invalidArgument("no valid fields to update")
	}

	tx, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, notFound("transaction not found", err)
		}
		return nil, internal("failed to get transaction", err)
	}

	if update.Category != nil {
		tx.Category = *update.Category
	}
	if update.SetInstallmentTerms {
		terms := update.InstallmentTerms
		if terms == nil || *terms == 1 {
			tx.InstallmentTerms = nil
		} else if model.ValidInstallmentTerms(*terms) {
			tx.InstallmentTerms = terms
		} else {
			return nil, invalidArgument("invalid installment terms, must be 1, 3, 6, 12, or 24")
		}
	}
	tx.UpdatedAt = s.now()

	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return nil, internal("failed to update transaction", err)
	}
	return tx, nil
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, transactionID string) error {
	if err := s.store.DeleteTransaction(ctx, transactionID); err != nil {
		if store.IsNotFound(err) {
			return notFound("transaction not found", err)
		}
		return internal("failed to delete transaction", err)
	}
	return nil
}

// Rule operations

// RuleInput carries the writable rule fields.
type RuleInput struct {
	Condition      string `json:"condition"`
	ConditionValue string `json:"conditionValue"`
	Category       string `json:"category"`
	Priority       int    `json:"priority"`
	BankType       string `json:"bankType"`
}

func validateRuleInput(in RuleInput) error {
	if in.Condition == "" || in.ConditionValue == "" || in.Category == "" {
		return invalidArgument("missing required fields: condition, conditionValue, category")
	}
	if !model.ValidRuleCondition(in.Condition) {
		return invalidArgument("invalid condition type: %s", in.Condition)
	}
	return nil
}

func applyRuleInput(rule *model.Rule, in RuleInput) {
	rule.Condition = model.RuleCondition(in.Condition)
	rule.ConditionValue = in.ConditionValue
	rule.Category = in.Category
	rule.Priority = in.Priority

	rule.BankType = ""
	if model.ValidBankType(in.BankType) {
		rule.BankType = in.BankType
	}
}

func (s *FinanceService) CreateRule(ctx context.Context, in RuleInput) (*model.Rule, error) {
	if err := validateRuleInput(in); err != nil {
		return nil, err
	}

	now := s.now()
	rule := &model.Rule{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyRuleInput(rule, in)

	if err := s.store.CreateRule(ctx, rule); err != nil {
		return nil, internal("failed to create rule", err)
	}
	return rule, nil
}

func (s *FinanceService) UpdateRule(ctx context.Context, ruleID string, in RuleInput) (*model.Rule, error) {
	if err := validateRuleInput(in); err != nil {
		return nil, err
	}

	rule, err := s.store.GetRule(ctx, ruleID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, notFound("rule not found", err)
		}
		return nil, internal("failed to get rule", err)
	}

	applyRuleInput(rule, in)
	rule.UpdatedAt = s.now()

	if err := s.store.UpdateRule(ctx, rule); err != nil {
		return nil, internal("failed to update rule", err)
	}
	return rule, nil
}

func (s *FinanceService) DeleteRule(ctx context.Context, ruleID string) error {
	if err := s.store.DeleteRule(ctx, ruleID); err != nil {
		if store.IsNotFound(err) {
			return notFound("rule not found", err)
		}
		return internal("failed to delete rule", err)
	}
	return nil
}

func (s *FinanceService) ListRules(ctx context.Context) ([]*model.Rule, error) {
	rules, err := s.store.ListRules(ctx)
	if err != nil {
		return nil, internal("failed to list rules", err)
	}
	return rules, nil
}

// Setting operations

// GetSettings returns all settings as a flat key→value map.
func (s *FinanceService) GetSettings(ctx context.Context) (map[string]string, error) {
	settings, err := s.store.ListSettings(ctx)
	if err != nil {
		return nil, internal("failed to list settings", err)
	}

	result := make(map[string]string, len(settings))
	for _, setting := range settings {
		result[setting.Key] = setting.Value
	}
	return result, nil
}

// UpdateSetting upserts one setting. The salary key must parse as a
// positive number; everything else is stored verbatim.
func (s *FinanceService) UpdateSetting(ctx context.Context, key, value string) (*model.Setting, error) {
	if key == "" {
		return nil, invalidArgument("missing required field: key")
	}
	if value == "" {
		return nil, invalidArgument("missing required field: value")
	}

	if key == model.SettingSalaryMonthlyAmount {
		salary, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, invalidArgument("salary must be a valid number")
		}
		if salary <= 0 {
			return nil, invalidArgument("salary must be a positive number")
		}
	}

	if err := s.store.SetSetting(ctx, key, value); err != nil {
		return nil, internal("failed to update setting", err)
	}
	return &model.Setting{Key: key, Value: value}, nil
}

// ListCategories returns the distinct categories across all transactions.
func (s *FinanceService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, internal("failed to list categories", err)
	}
	return categories, nil
}

// salary reads the configured monthly salary, falling back to the default
// when the setting is missing or unparseable.
func (s *FinanceService) salary(ctx context.Context) (float64, error) {
	setting, err := s.store.GetSetting(ctx, model.SettingSalaryMonthlyAmount)
	if err != nil {
		if store.IsNotFound(err) {
			return model.DefaultSalary, nil
		}
		return 0, internal("failed to get salary setting", err)
	}

	salary, parseErr := strconv.ParseFloat(setting.Value, 64)
	if parseErr != nil || salary <= 0 {
		return model.DefaultSalary, nil
	}
	return salary, nil
}

// excludedCategories reads the personal-exclusion list used for
// my-spending sums. Transfers and card payments are always excluded.
func (s *FinanceService) excludedCategories(ctx context.Context) ([]string, error) {
	excluded := []string{model.CategoryTransfer, model.CategoryCCPayment}

	setting, err := s.store.GetSetting(ctx, model.SettingExcludedCategories)
	if err != nil {
		if store.IsNotFound(err) {
			return excluded, nil
		}
		return nil, internal("failed to get excluded categories setting", err)
	}

	for _, category := range strings.Split(setting.Value, ",") {
		category = strings.TrimSpace(category)
		if category == "" || category == model.CategoryTransfer || category == model.CategoryCCPayment {
			continue
		}
		excluded = append(excluded, category)
	}
	return excluded, nil
}
