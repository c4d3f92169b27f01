package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/pos_ledger_engine/internal/apperrors"
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger_engine/internal/dto"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ledgerService records transactions and their journal entries and drives the status lifecycle.
type ledgerService struct {
	BaseService
	uow     portsrepo.UnitOfWork
	txnRepo portsrepo.TransactionRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(uow portsrepo.UnitOfWork, txnRepo portsrepo.TransactionRepositoryFacade, options ...ServiceOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{uow: uow, txnRepo: txnRepo}
	svc.apply(options)
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *ledgerService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResult, error) {
	if strings.TrimSpace(params.BranchID) == "" {
		return nil, fmt.Errorf("%w: branchId is required", apperrors.ErrValidation)
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	txns, next, err := s.txnRepo.ListTransactionsByBranch(ctx, params.BranchID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("branch_id", params.BranchID))
		return nil, err
	}
	return &dto.ListTransactionsResult{Transactions: txns, NextToken: next}, nil
}

func (s *ledgerService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, actorID string) (*domain.Transaction, error) {
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, req.Type)
	}
	method := req.PaymentMethod
	if method == "" {
		method = domain.PaymentNotSpecified
	}
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, req.PaymentMethod)
	}
	if req.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.BranchID) == "" {
		return nil, fmt.Errorf("%w: branchID is required", apperrors.ErrValidation)
	}

	now := s.now()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		Amount:        req.Amount,
		Type:          req.Type,
		Status:        domain.StatusOpen,
		Description:   strings.TrimSpace(req.Description),
		PaymentMethod: method,
		BranchID:      req.BranchID,
		RegisterID:    req.RegisterID,
		Entries:       []domain.JournalEntry{},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)),
		slog.String("branch_id", txn.BranchID))
	return &txn, nil
}

func (s *ledgerService) PostEntries(ctx context.Context, transactionID string, req dto.PostEntriesRequest, actorID string) (*domain.Transaction, error) {
	if len(req.Entries) == 0 {
		return nil, fmt.Errorf("%w: at least one entry is required", apperrors.ErrValidation)
	}
	for i, e := range req.Entries {
		if strings.TrimSpace(e.AccountType) == "" {
			return nil, fmt.Errorf("%w: entries[%d]: accountType is required", apperrors.ErrValidation, i)
		}
		if e.Amount <= 0 {
			return nil, fmt.Errorf("%w: entries[%d]: amount must be positive", apperrors.ErrValidation, i)
		}
	}

	var posted *domain.Transaction
	err := s.uow.WithinUnitOfWork(ctx, func(ctx context.Context, repos portsrepo.RepositorySet) error {
		txn, err := repos.Transactions().FindTransactionByIDForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if txn.Status != domain.StatusOpen {
			return fmt.Errorf("%w: transaction %s is %s", apperrors.ErrImmutableRecord, transactionID, txn.Status)
		}

		now := s.now()
		builder := newEntryBuilder(txn.TransactionID, len(txn.Entries), actorID, now)
		for _, e := range req.Entries {
			builder.add(strings.TrimSpace(e.AccountType), e.Amount, e.IsDebit, e.Description, e.Date)
		}
		if err := ensureBalanced(txn.Entries, builder.entries); err != nil {
			return err
		}
		if err := repos.Transactions().AppendJournalEntries(ctx, txn.TransactionID, builder.entries); err != nil {
			return err
		}

		txn.Entries = append(txn.Entries, builder.entries...)
		txn.LastUpdatedAt = now
		txn.LastUpdatedBy = actorID
		posted = txn
		return nil
	})
	if err != nil {
		if !isOperatorError(err) {
			s.LogError(ctx, err, "Failed to post journal entries", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Journal entries posted",
		slog.String("transaction_id", transactionID),
		slog.Int("count", len(req.Entries)))
	return posted, nil
}

func (s *ledgerService) TransitionTransaction(ctx context.Context, transactionID string, newStatus domain.TransactionStatus, actorID string) (*domain.Transaction, error) {
	if !newStatus.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, newStatus)
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	from := txn.Status
	if domain.IsNoopTransition(from, newStatus) {
		return txn, nil
	}
	if !domain.CanTransition(from, newStatus) {
		s.Metrics.RecordTransition(string(newStatus), "rejected")
		return nil, &apperrors.InvalidTransitionError{From: string(from), To: string(newStatus)}
	}

	updated := *txn
	updated.ApplyTransition(newStatus, actorID, s.now())
	if err := s.txnRepo.UpdateTransactionStatus(ctx, updated, from); err != nil {
		if errors.Is(err, apperrors.ErrConcurrentModification) {
			s.Metrics.RecordTransition(string(newStatus), "conflict")
			s.LogWarn(ctx, "Transaction status changed concurrently",
				slog.String("transaction_id", transactionID),
				slog.String("expected", string(from)))
		} else {
			s.LogError(ctx, err, "Failed to update transaction status", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}

	s.Metrics.RecordTransition(string(newStatus), "ok")
	s.LogInfo(ctx, "Transaction status changed",
		slog.String("transaction_id", transactionID),
		slog.String("from", string(from)),
		slog.String("to", string(newStatus)))
	return &updated, nil
}

func (s *ledgerService) DeleteTransaction(ctx context.Context, transactionID string, actorID string) error {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if txn.Status == domain.StatusSecure {
		return fmt.Errorf("%w: transaction %s is secure", apperrors.ErrImmutableRecord, transactionID)
	}

	if err := s.txnRepo.DeleteTransaction(ctx, transactionID, txn.Status, s.now()); err != nil {
		if !isOperatorError(err) {
			s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		}
		return err
	}

	s.LogInfo(ctx, "Transaction deleted",
		slog.String("transaction_id", transactionID),
		slog.String("status", string(txn.Status)),
		slog.String("actor_id", actorID))
	return nil
}

// isOperatorError reports errors the caller can act on; they are not logged as failures.
func isOperatorError(err error) bool {
	for _, target := range []error{
		apperrors.ErrValidation,
		apperrors.ErrNotFound,
		apperrors.ErrImbalancedEntry,
		apperrors.ErrInvalidTransition,
		apperrors.ErrImmutableRecord,
		apperrors.ErrInsufficientPayment,
		apperrors.ErrPermissionDenied,
		apperrors.ErrAlreadyOpen,
		apperrors.ErrNotOpen,
		apperrors.ErrConcurrentModification,
		apperrors.ErrDuplicate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
