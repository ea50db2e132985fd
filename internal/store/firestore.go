package store

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Jiegrein/PersonalBankNote/internal/model"
)

const (
	banksCollection        = "banks"
	transactionsCollection = "transactions"
	rulesCollection        = "rules"
	settingsCollection     = "settings"
	syncLogsCollection     = "syncLogs"
)

// FirestoreStore implements the Store interface using Firestore
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store
func NewFirestoreStore(client *firestore.Client) Store {
	return &FirestoreStore{client: client}
}

func isFirestoreNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// Bank operations

func (s *FirestoreStore) CreateBank(ctx context.Context, bank *model.Bank) error {
	_, err := s.client.Collection(banksCollection).Doc(bank.ID).Set(ctx, bank)
	if err != nil {
		return fmt.Errorf("failed to create bank: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetBank(ctx context.Context, bankID string) (*model.Bank, error) {
	doc, err := s.client.Collection(banksCollection).Doc(bankID).Get(ctx)
	if err != nil {
		if isFirestoreNotFound(err) {
			return nil, &NotFoundError{Kind: "bank", ID: bankID}
		}
		return nil, fmt.Errorf("failed to get bank: %w", err)
	}

	var bank model.Bank
	if err := doc.DataTo(&bank); err != nil {
		return nil, fmt.Errorf("failed to parse bank: %w", err)
	}
	return &bank, nil
}

func (s *FirestoreStore) UpdateBank(ctx context.Context, bank *model.Bank) error {
	if _, err := s.GetBank(ctx, bank.ID); err != nil {
		return err
	}
	_, err := s.client.Collection(banksCollection).Doc(bank.ID).Set(ctx, bank)
	if err != nil {
		return fmt.Errorf("failed to update bank: %w", err)
	}
	return nil
}

func (s *FirestoreStore) DeleteBank(ctx context.Context, bankID string) error {
	if _, err := s.GetBank(ctx, bankID); err != nil {
		return err
	}

	// Cascade: remove the bank's transactions and sync logs in batches.
	for _, coll := range []string{transactionsCollection, syncLogsCollection} {
		iter := s.client.Collection(coll).Where("BankId", "==", bankID).Documents(ctx)
		bulk := s.client.BulkWriter(ctx)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return fmt.Errorf("failed to list %s for cascade delete: %w", coll, err)
			}
			if _, err := bulk.Delete(doc.Ref); err != nil {
				return fmt.Errorf("failed to cascade delete from %s: %w", coll, err)
			}
		}
		bulk.End()
	}

	if _, err := s.client.Collection(banksCollection).Doc(bankID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete bank: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListBanks(ctx context.Context) ([]*model.Bank, error) {
	iter := s.client.Collection(banksCollection).OrderBy("Name", firestore.Asc).Documents(ctx)

	banks := make([]*model.Bank, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list banks: %w", err)
		}
		var bank model.Bank
		if err := doc.DataTo(&bank); err != nil {
			return nil, fmt.Errorf("failed to parse bank: %w", err)
		}
		banks = append(banks, &bank)
	}
	return banks, nil
}

// Transaction operations

func (s *FirestoreStore) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	_, err := s.client.Collection(transactionsCollection).Doc(tx.ID).Set(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetTransaction(ctx context.Context, transactionID string) (*model.Transaction, error) {
	doc, err := s.client.Collection(transactionsCollection).Doc(transactionID).Get(ctx)
	if err != nil {
		if isFirestoreNotFound(err) {
			return nil, &NotFoundError{Kind: "transaction", ID: transactionID}
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	var tx model.Transaction
	if err := doc.DataTo(&tx); err != nil {
		return nil, fmt.Errorf("failed to parse transaction: %w", err)
	}
	return &tx, nil
}

func (s *FirestoreStore) UpdateTransaction(ctx context.Context, tx *model.Transaction) error {
	if _, err := s.GetTransaction(ctx, tx.ID); err != nil {
		return err
	}
	_, err := s.client.Collection(transactionsCollection).Doc(tx.ID).Set(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

func (s *FirestoreStore) DeleteTransaction(ctx context.Context, transactionID string) error {
	if _, err := s.GetTransaction(ctx, transactionID); err != nil {
		return err
	}
	if _, err := s.client.Collection(transactionsCollection).Doc(transactionID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListTransactions(ctx context.Context, query TransactionQuery) ([]*model.Transaction, error) {
	q := s.client.Collection(transactionsCollection).Query
	if query.BankID != "" {
		q = q.Where("BankId", "==", query.BankID)
	}
	if query.StartDate != nil {
		q = q.Where("Date", ">=", *query.StartDate)
	}
	if query.EndDate != nil {
		q = q.Where("Date", "<=", *query.EndDate)
	}
	q = q.OrderBy("Date", firestore.Desc)
	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}

	iter := q.Documents(ctx)
	transactions := make([]*model.Transaction, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list transactions: %w", err)
		}
		var tx model.Transaction
		if err := doc.DataTo(&tx); err != nil {
			return nil, fmt.Errorf("failed to parse transaction: %w", err)
		}
		transactions = append(transactions, &tx)
	}
	return transactions, nil
}

func (s *FirestoreStore) HasTransactionForEmail(ctx context.Context, bankID, emailID string) (bool, error) {
	iter := s.client.Collection(transactionsCollection).
		Where("BankId", "==", bankID).
		Where("EmailId", "==", emailID).
		Limit(1).
		Documents(ctx)

	_, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check email dedupe: %w", err)
	}
	return true, nil
}

func (s *FirestoreStore) ListCategories(ctx context.Context) ([]string, error) {
	// Firestore has no DISTINCT; pull category fields and dedupe here.
	iter := s.client.Collection(transactionsCollection).Select("Category").Documents(ctx)

	seen := make(map[string]bool)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}
		if category, ok := doc.Data()["Category"].(string); ok && category != "" {
			seen[category] = true
		}
	}

	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories, nil
}

// Rule operations

func (s *FirestoreStore) CreateRule(ctx context.Context, rule *model.Rule) error {
	_, err := s.client.Collection(rulesCollection).Doc(rule.ID).Set(ctx, rule)
	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetRule(ctx context.Context, ruleID string) (*model.Rule, error) {
	doc, err := s.client.Collection(rulesCollection).Doc(ruleID).Get(ctx)
	if err != nil {
		if isFirestoreNotFound(err) {
			return nil, &NotFoundError{Kind: "rule", ID: ruleID}
		}
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}

	var rule model.Rule
	if err := doc.DataTo(&rule); err != nil {
		return nil, fmt.Errorf("failed to parse rule: %w", err)
	}
	return &rule, nil
}

func (s *FirestoreStore) UpdateRule(ctx context.Context, rule *model.Rule) error {
	if _, err := s.GetRule(ctx, rule.ID); err != nil {
		return err
	}
	_, err := s.client.Collection(rulesCollection).Doc(rule.ID).Set(ctx, rule)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}
	return nil
}

func (s *FirestoreStore) DeleteRule(ctx context.Context, ruleID string) error {
	if _, err := s.GetRule(ctx, ruleID); err != nil {
		return err
	}
	if _, err := s.client.Collection(rulesCollection).Doc(ruleID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListRules(ctx context.Context) ([]*model.Rule, error) {
	iter := s.client.Collection(rulesCollection).OrderBy("Priority", firestore.Desc).Documents(ctx)

	rules := make([]*model.Rule, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list rules: %w", err)
		}
		var rule model.Rule
		if err := doc.DataTo(&rule); err != nil {
			return nil, fmt.Errorf("failed to parse rule: %w", err)
		}
		rules = append(rules, &rule)
	}
	return rules, nil
}

// Setting operations

func (s *FirestoreStore) GetSetting(ctx context.Context, key string) (*model.Setting, error) {
	doc, err := s.client.Collection(settingsCollection).Doc(key).Get(ctx)
	if err != nil {
		if isFirestoreNotFound(err) {
			return nil, &NotFoundError{Kind: "setting", ID: key}
		}
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}

	var setting model.Setting
	if err := doc.DataTo(&setting); err != nil {
		return nil, fmt.Errorf("failed to parse setting: %w", err)
	}
	return &setting, nil
}

func (s *FirestoreStore) SetSetting(ctx context.Context, key, value string) error {
	setting := &model.Setting{Key: key, Value: value}
	_, err := s.client.Collection(settingsCollection).Doc(key).Set(ctx, setting)
	if err != nil {
		return fmt.Errorf("failed to set setting: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListSettings(ctx context.Context) ([]*model.Setting, error) {
	iter := s.client.Collection(settingsCollection).Documents(ctx)

	settings := make([]*model.Setting, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list settings: %w", err)
		}
		var setting model.Setting
		if err := doc.DataTo(&setting); err != nil {
			return nil, fmt.Errorf("failed to parse setting: %w", err)
		}
		settings = append(settings, &setting)
	}
	sort.Slice(settings, func(i, j int) bool {
		return settings[i].Key < settings[j].Key
	})
	return settings, nil
}

// Sync log operations

func (s *FirestoreStore) CreateSyncLog(ctx context.Context, entry *model.SyncLog) error {
	_, err := s.client.Collection(syncLogsCollection).Doc(entry.ID).Set(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to create sync log: %w", err)
	}
	return nil
}

func (s *FirestoreStore) LatestSyncLog(ctx context.Context, bankID string) (*model.SyncLog, error) {
	iter := s.client.Collection(syncLogsCollection).
		Where("BankId", "==", bankID).
		OrderBy("SyncedAt", firestore.Desc).
		Limit(1).
		Documents(ctx)

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, &NotFoundError{Kind: "sync log", ID: bankID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest sync log: %w", err)
	}

	var entry model.SyncLog
	if err := doc.DataTo(&entry); err != nil {
		return nil, fmt.Errorf("failed to parse sync log: %w", err)
	}
	return &entry, nil
}
