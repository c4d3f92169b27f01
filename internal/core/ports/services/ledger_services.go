package services

import (
	"context"

	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	"github.com/SscSPs/pos_ledger_engine/internal/dto"
)

// LedgerReaderSvc defines read operations for ledger transactions
type LedgerReaderSvc interface {
	// GetTransaction retrieves a transaction with its journal entries.
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a page of transactions of a branch.
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResult, error)
}

// LedgerWriterSvc defines write operations for ledger transactions
type LedgerWriterSvc interface {
	// CreateTransaction creates an open transaction without entries.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, actorID string) (*domain.Transaction, error)

	// PostEntries appends journal entries; the transaction must stay balanced.
	PostEntries(ctx context.Context, transactionID string, req dto.PostEntriesRequest, actorID string) (*domain.Transaction, error)

	// TransitionTransaction moves a transaction through its status lifecycle.
	TransitionTransaction(ctx context.Context, transactionID string, newStatus domain.TransactionStatus, actorID string) (*domain.Transaction, error)

	// DeleteTransaction removes a transaction that is not secured.
	DeleteTransaction(ctx context.Context, transactionID string, actorID string) error
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
