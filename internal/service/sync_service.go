package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Jiegrein/PersonalBankNote/internal/mail"
	"github.com/Jiegrein/PersonalBankNote/internal/model"
	"github.com/Jiegrein/PersonalBankNote/internal/parser"
	"github.com/Jiegrein/PersonalBankNote/internal/rules"
	"github.com/Jiegrein/PersonalBankNote/internal/store"
)

// firstSyncLookback bounds the initial email pull for a bank that has
// never synced.
const firstSyncLookback = 30 * 24 * time.Hour

// SyncBank pulls new notification emails for one bank, parses them with
// the bank's parser, classifies them through the rule engine, and stores
// the resulting transactions. Emails already ingested (matched by email
// ID) are skipped, so re-running a sync is idempotent.
func (s *FinanceService) SyncBank(ctx context.Context, bankID string) (*model.SyncResult, error) {
	if s.mail == nil {
		return nil, invalidArgument("email sync is not configured")
	}
	if bankID == "" {
		return nil, invalidArgument("missing bankId")
	}

	bank, err := s.GetBank(ctx, bankID)
	if err != nil {
		return nil, err
	}

	// Resume from the last sync, or look back 30 days on the first run.
	since := s.now().Add(-firstSyncLookback)
	if lastSync, logErr := s.store.LatestSyncLog(ctx, bankID); logErr == nil {
		since = lastSync.SyncedAt
	} else if !store.IsNotFound(logErr) {
		return nil, internal("failed to get last sync", logErr)
	}

	emails, err := s.mail.FetchEmails(ctx, bank.EmailFilter, since, mail.DefaultFetchLimit)
	if err != nil {
		return nil, internal("failed to fetch emails", err)
	}

	ruleList, err := s.store.ListRules(ctx)
	if err != nil {
		return nil, internal("failed to list rules", err)
	}

	newCount := 0
	for _, email := range emails {
		seen, dupErr := s.store.HasTransactionForEmail(ctx, bankID, email.ID)
		if dupErr != nil {
			return nil, internal("failed to check email dedupe", dupErr)
		}
		if seen {
			continue
		}

		parsed := parser.Parse(bank.ParserType, email.Content)

		// Classification sees the merchant plus the whole email, so rules
		// can key off either.
		text := parsed.Merchant + " " + email.Subject + " " + email.Content
		category := rules.Apply(text, parsed.Merchant, ruleList, bank.BankType)

		now := s.now()
		tx := &model.Transaction{
			ID:         uuid.New().String(),
			BankID:     bankID,
			EmailID:    email.ID,
			Amount:     parsed.Amount,
			Currency:   parsed.Currency,
			IDRAmount:  parsed.IDRAmount,
			Merchant:   parsed.Merchant,
			Category:   category,
			Date:       email.ReceivedAt,
			RawContent: email.Content,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.store.CreateTransaction(ctx, tx); err != nil {
			return nil, internal("failed to create transaction", err)
		}

		log.Printf("[Sync] new transaction: %s %s (%s)",
			tx.Merchant, model.FormatCurrency(tx.Amount, tx.Currency), tx.Category)

		if archErr := s.archiver.Save(ctx, bankID, email.ID, []byte(email.Content)); archErr != nil {
			// Archival is best-effort; the transaction is already stored.
			log.Printf("[Sync] failed to archive email %s: %v", email.ID, archErr)
		}
		newCount++
	}

	entry := &model.SyncLog{
		ID:         uuid.New().String(),
		BankID:     bankID,
		SyncedAt:   s.now(),
		EmailCount: newCount,
	}
	if err := s.store.CreateSyncLog(ctx, entry); err != nil {
		return nil, internal("failed to record sync", err)
	}

	log.Printf("[Sync] bank=%s emails=%d new=%d", bank.Name, len(emails), newCount)
	return &model.SyncResult{
		EmailsFound:     len(emails),
		NewTransactions: newCount,
	}, nil
}
