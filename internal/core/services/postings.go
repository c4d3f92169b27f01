package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/pos_ledger_engine/internal/apperrors"
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
)

// entryBuilder appends journal entries to a transaction in posting order.
type entryBuilder struct {
	transactionID string
	actor         string
	at            time.Time
	next          int
	entries       []domain.JournalEntry
}

func newEntryBuilder(transactionID string, alreadyPosted int, actor string, at time.Time) *entryBuilder {
	return &entryBuilder{transactionID: transactionID, actor: actor, at: at, next: alreadyPosted + 1}
}

func (b *entryBuilder) add(account string, amount domain.Money, isDebit bool, description string, date *time.Time) {
	entryDate := b.at
	if date != nil {
		entryDate = date.UTC()
	}
	b.entries = append(b.entries, domain.JournalEntry{
		EntryID:       uuid.NewString(),
		TransactionID: b.transactionID,
		Sequence:      b.next,
		AccountType:   account,
		Amount:        amount,
		IsDebit:       isDebit,
		Description:   description,
		EntryDate:     entryDate,
		CreatedBy:     b.actor,
		CreatedAt:     b.at,
	})
	b.next++
}

func (b *entryBuilder) debit(account string, amount domain.Money, description string) {
	b.add(account, amount, true, description, nil)
}

func (b *entryBuilder) credit(account string, amount domain.Money, description string) {
	b.add(account, amount, false, description, nil)
}

// signed posts a positive amount as a debit and a negative one as a credit of its absolute value.
func (b *entryBuilder) signed(account string, amount domain.Money, description string) {
	switch {
	case amount > 0:
		b.debit(account, amount, description)
	case amount < 0:
		b.credit(account, -amount, description)
	}
}

// ensureBalanced checks the double-entry invariant over existing and new entries combined.
func ensureBalanced(existing, added []domain.JournalEntry) error {
	debits, credits, err := domain.SumEntries(append(append([]domain.JournalEntry(nil), existing...), added...))
	if err != nil {
		return fmt.Errorf("summing journal entries: %w", err)
	}
	if debits != credits {
		return fmt.Errorf("%w: debits %d, credits %d", apperrors.ErrImbalancedEntry, debits, credits)
	}
	return nil
}
