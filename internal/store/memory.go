package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Jiegrein/PersonalBankNote/internal/model"
)

// MemoryStore implements Store interface with in-memory storage
type MemoryStore struct {
	mu sync.RWMutex

	banks        map[string]*model.Bank
	transactions map[string]*model.Transaction
	rules        map[string]*model.Rule
	settings     map[string]*model.Setting
	syncLogs     map[string]*model.SyncLog
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		banks:        make(map[string]*model.Bank),
		transactions: make(map[string]*model.Transaction),
		rules:        make(map[string]*model.Rule),
		settings:     make(map[string]*model.Setting),
		syncLogs:     make(map[string]*model.SyncLog),
	}
}

// Bank operations

func (m *MemoryStore) CreateBank(ctx context.Context, bank *model.Bank) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if bank.ID == "" {
		bank.ID = uuid.New().String()
	}
	m.banks[bank.ID] = bank
	return nil
}

func (m *MemoryStore) GetBank(ctx context.Context, bankID string) (*model.Bank, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bank, ok := m.banks[bankID]
	if !ok {
		return nil, &NotFoundError{Kind: "bank", ID: bankID}
	}
	return bank, nil
}

func (m *MemoryStore) UpdateBank(ctx context.Context, bank *model.Bank) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.banks[bank.ID]; !ok {
		return &NotFoundError{Kind: "bank", ID: bank.ID}
	}
	m.banks[bank.ID] = bank
	return nil
}

func (m *MemoryStore) DeleteBank(ctx context.Context, bankID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.banks[bankID]; !ok {
		return &NotFoundError{Kind: "bank", ID: bankID}
	}
	delete(m.banks, bankID)

	for id, tx := range m.transactions {
		if tx.BankID == bankID {
			delete(m.transactions, id)
		}
	}
	for id, entry := range m.syncLogs {
		if entry.BankID == bankID {
			delete(m.syncLogs, id)
		}
	}
	return nil
}

func (m *MemoryStore) ListBanks(ctx context.Context) ([]*model.Bank, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	banks := make([]*model.Bank, 0, len(m.banks))
	for _, bank := range m.banks {
		banks = append(banks, bank)
	}
	sort.Slice(banks, func(i, j int) bool {
		return banks[i].Name < banks[j].Name
	})
	return banks, nil
}

// Transaction operations

func (m *MemoryStore) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	m.transactions[tx.ID] = tx
	return nil
}

func (m *MemoryStore) GetTransaction(ctx context.Context, transactionID string) (*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tx, ok := m.transactions[transactionID]
	if !ok {
		return nil, &NotFoundError{Kind: "transaction", ID: transactionID}
	}
	return tx, nil
}

func (m *MemoryStore) UpdateTransaction(ctx context.Context, tx *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.transactions[tx.ID]; !ok {
		return &NotFoundError{Kind: "transaction", ID: tx.ID}
	}
	m.transactions[tx.ID] = tx
	return nil
}

func (m *MemoryStore) DeleteTransaction(ctx context.Context, transactionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.transactions[transactionID]; !ok {
		return &NotFoundError{Kind: "transaction", ID: transactionID}
	}
	delete(m.transactions, transactionID)
	return nil
}

func (m *MemoryStore) ListTransactions(ctx context.Context, query TransactionQuery) ([]*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]*model.Transaction, 0)
	for _, tx := range m.transactions {
		if query.BankID != "" && tx.BankID != query.BankID {
			continue
		}
		if query.StartDate != nil && tx.Date.Before(*query.StartDate) {
			continue
		}
		if query.EndDate != nil && tx.Date.After(*query.EndDate) {
			continue
		}
		matched = append(matched, tx)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Date.After(matched[j].Date)
	})

	if query.Limit > 0 && len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}
	return matched, nil
}

func (m *MemoryStore) HasTransactionForEmail(ctx context.Context, bankID, emailID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, tx := range m.transactions {
		if tx.BankID == bankID && tx.EmailID == emailID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) ListCategories(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	for _, tx := range m.transactions {
		if tx.Category != "" {
			seen[tx.Category] = true
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

func (m *MemoryStore) CreateRule(ctx context.Context, rule *model.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	m.rules[rule.ID] = rule
	return nil
}

func (m *MemoryStore) GetRule(ctx context.Context, ruleID string) (*model.Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rule, ok := m.rules[ruleID]
	if !ok {
		return nil, &NotFoundError{Kind: "rule", ID: ruleID}
	}
	return rule, nil
}

func (m *MemoryStore) UpdateRule(ctx context.Context, rule *model.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rules[rule.ID]; !ok {
		return &NotFoundError{Kind: "rule", ID: rule.ID}
	}
	m.rules[rule.ID] = rule
	return nil
}

func (m *MemoryStore) DeleteRule(ctx context.Context, ruleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rules[ruleID]; !ok {
		return &NotFoundError{Kind: "rule", ID: ruleID}
	}
	delete(m.rules, ruleID)
	return nil
}

func (m *MemoryStore) ListRules(ctx context.Context) ([]*model.Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rules := make([]*model.Rule, 0, len(m.rules))
	for _, rule := range m.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority > rules[j].Priority
		}
		return rules[i].ID < rules[j].ID
	})
	return rules, nil
}

// Setting operations

func (m *MemoryStore) GetSetting(ctx context.Context, key string) (*model.Setting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	setting, ok := m.settings[key]
	if !ok {
		return nil, &NotFoundError{Kind: "setting", ID: key}
	}
	return setting, nil
}

func (m *MemoryStore) SetSetting(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings[key] = &model.Setting{Key: key, Value: value}
	return nil
}

func (m *MemoryStore) ListSettings(ctx context.Context) ([]*model.Setting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	settings := make([]*model.Setting, 0, len(m.settings))
	for _, setting := range m.settings {
		settings = append(settings, setting)
	}
	sort.Slice(settings, func(i, j int) bool {
		return settings[i].Key < settings[j].Key
	})
	return settings, nil
}

// Sync log operations

func (m *MemoryStore) CreateSyncLog(ctx context.Context, entry *model.SyncLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	m.syncLogs[entry.ID] = entry
	return nil
}

func (m *MemoryStore) LatestSyncLog(ctx context.Context, bankID string) (*model.SyncLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *model.SyncLog
	for _, entry := range m.syncLogs {
		if entry.BankID != bankID {
			continue
		}
		if latest == nil || entry.SyncedAt.After(latest.SyncedAt) {
			latest = entry
		}
	}
	if latest == nil {
		return nil, &NotFoundError{Kind: "sync log", ID: bankID}
	}
	return latest, nil
}
