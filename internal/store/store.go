package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jiegrein/PersonalBankNote/internal/model"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=store

// Store defines the interface for all database operations used by the service
type Store interface {
	// Bank operations
	CreateBank(ctx context.Context, bank *model.Bank) error
	GetBank(ctx context.Context, bankID string) (*model.Bank, error)
	UpdateBank(ctx context.Context, bank *model.Bank) error
	// DeleteBank removes the bank and cascades to its transactions and
	// sync logs.
	DeleteBank(ctx context.Context, bankID string) error
	ListBanks(ctx context.Context) ([]*model.Bank, error)

	// Transaction operations
	CreateTransaction(ctx context.Context, tx *model.Transaction) error
	GetTransaction(ctx context.Context, transactionID string) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *model.Transaction) error
	DeleteTransaction(ctx context.Context, transactionID string) error
	ListTransactions(ctx context.Context, query TransactionQuery) ([]*model.Transaction, error)
	// HasTransactionForEmail reports whether an email was already ingested
	// for the bank; the sync pipeline uses it to dedupe.
	HasTransactionForEmail(ctx context.Context, bankID, emailID string) (bool, error)
	// ListCategories returns the distinct categories present across all
	// transactions, sorted.
	ListCategories(ctx context.Context) ([]string, error)

	// Rule operations
	CreateRule(ctx context.Context, rule *model.Rule) error
	GetRule(ctx context.Context, ruleID string) (*model.Rule, error)
	UpdateRule(ctx context.Context, rule *model.Rule) error
	DeleteRule(ctx context.Context, ruleID string) error
	ListRules(ctx context.Context) ([]*model.Rule, error)

	// Setting operations
	GetSetting(ctx context.Context, key string) (*model.Setting, error)
	SetSetting(ctx context.Context, key, value string) error
	ListSettings(ctx context.Context) ([]*model.Setting, error)

	// Sync log operations
	CreateSyncLog(ctx context.Context, entry *model.SyncLog) error
	LatestSyncLog(ctx context.Context, bankID string) (*model.SyncLog, error)
}

// TransactionQuery filters ListTransactions. Zero values mean "no filter";
// results are always sorted by date descending.
type TransactionQuery struct {
	BankID    string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

// NotFoundError reports a missing entity by kind and ID.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
