package models

import "time"

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	EntryID       string    `db:"entry_id"`
	TransactionID string    `db:"transaction_id"`
	Sequence      int       `db:"sequence"`
	AccountType   string    `db:"account_type"`
	Amount        int64     `db:"amount"` // always positive
	IsDebit       bool      `db:"is_debit"`
	Description   string    `db:"description"`
	EntryDate     time.Time `db:"entry_date"`
	CreatedBy     string    `db:"created_by"`
	CreatedAt     time.Time `db:"created_at"`
}
