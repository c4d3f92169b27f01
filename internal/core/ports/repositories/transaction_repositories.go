package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
)

// TransactionReader defines read operations for ledger transactions
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction with its journal entries in posting order.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionByIDForUpdate is FindTransactionByID that also locks the row until the
	// surrounding unit of work ends.
	FindTransactionByIDForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByBranch retrieves a page of transactions (without entries), newest first.
	ListTransactionsByBranch(ctx context.Context, branchID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for ledger transactions
type TransactionWriter interface {
	// SaveTransaction inserts a new transaction header and any entries it already carries.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// AppendJournalEntries appends entries to an existing transaction. Entries are never
	// replaced or removed.
	AppendJournalEntries(ctx context.Context, transactionID string, entries []domain.JournalEntry) error

	// UpdateTransactionStatus writes txn's status and audit stamps only if the stored status is
	// still expected; otherwise it fails with apperrors.ErrConcurrentModification.
	UpdateTransactionStatus(ctx context.Context, txn domain.Transaction, expected domain.TransactionStatus) error

	// DeleteTransaction removes a transaction and its entries if its stored status is still expected.
	// A transaction recorded by a checkout or by a discrepancy resolution fails with
	// apperrors.ErrImmutableRecord.
	DeleteTransaction(ctx context.Context, transactionID string, expected domain.TransactionStatus, deletedAt time.Time) error
}

// TransactionRepositoryFacade combines transaction read and write operations
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
