package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/pos_ledger_engine/internal/apperrors"
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/pos_ledger_engine/internal/models"
	"github.com/SscSPs/pos_ledger_engine/internal/utils/mapping"
	"github.com/SscSPs/pos_ledger_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger transactions and their entries.
func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `
	transaction_id, amount, transaction_type, status, description, payment_method,
	branch_id, register_id, locked_at, locked_by, verified_at, verified_by,
	created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.Amount,
		&m.Type,
		&m.Status,
		&m.Description,
		&m.PaymentMethod,
		&m.BranchID,
		&m.RegisterID,
		&m.LockedAt,
		&m.LockedBy,
		&m.VerifiedAt,
		&m.VerifiedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return r.findTransaction(ctx, transactionID, false)
}

func (r *PgxTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return r.findTransaction(ctx, transactionID, true)
}

func (r *PgxTransactionRepository) findTransaction(ctx context.Context, transactionID string, forUpdate bool) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM ledger_transactions WHERE transaction_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	m, err := scanTransaction(r.DB(ctx).QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction "+transactionID, err)
	}

	entries, err := r.findEntries(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	txn := mapping.ToDomainTransaction(m)
	txn.Entries = entries
	return &txn, nil
}

func (r *PgxTransactionRepository) findEntries(ctx context.Context, transactionID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT entry_id, transaction_id, sequence, account_type, amount, is_debit,
		       description, entry_date, created_by, created_at
		FROM journal_entries
		WHERE transaction_id = $1
		ORDER BY sequence;
	`
	rows, err := r.DB(ctx).Query(ctx, query, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal entries of "+transactionID, err)
	}
	defer rows.Close()

	entries := make([]models.JournalEntry, 0)
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(
			&e.EntryID,
			&e.TransactionID,
			&e.Sequence,
			&e.AccountType,
			&e.Amount,
			&e.IsDebit,
			&e.Description,
			&e.EntryDate,
			&e.CreatedBy,
			&e.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal entries", err)
	}
	return mapping.ToDomainJournalEntrySlice(entries), nil
}

// ListTransactionsByBranch retrieves a page of transaction headers using keyset pagination on
// (created_at, transaction_id).
func (r *PgxTransactionRepository) ListTransactionsByBranch(ctx context.Context, branchID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := []any{branchID}
	query := `SELECT ` + transactionColumns + ` FROM ledger_transactions WHERE branch_id = $1`

	if nextToken != nil && *nextToken != "" {
		cursorAt, cursorID, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid pagination token", apperrors.ErrValidation)
		}
		args = append(args, cursorAt, cursorID)
		query += ` AND (created_at, transaction_id) < ($2, $3)`
	}
	// One extra row tells whether another page exists.
	args = append(args, limit+1)
	query += ` ORDER BY created_at DESC, transaction_id DESC LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.DB(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list transactions of branch "+branchID, err)
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0, limit)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction", err)
		}
		txns = append(txns, mapping.ToDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transactions", err)
	}

	var next *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[limit-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.TransactionID)
		next = &token
	}
	return txns, next, nil
}

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO ledger_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.DB(ctx).Exec(ctx, query,
		m.TransactionID,
		m.Amount,
		m.Type,
		m.Status,
		m.Description,
		m.PaymentMethod,
		m.BranchID,
		m.RegisterID,
		m.LockedAt,
		m.LockedBy,
		m.VerifiedAt,
		m.VerifiedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
		}
		return apperrors.NewAppError(500, "failed to insert transaction "+txn.TransactionID, err)
	}
	return r.insertEntries(ctx, txn.Entries)
}

func (r *PgxTransactionRepository) AppendJournalEntries(ctx context.Context, transactionID string, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := r.insertEntries(ctx, entries); err != nil {
		return err
	}
	query := `
		UPDATE ledger_transactions
		SET last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = $1;
	`
	tag, err := r.DB(ctx).Exec(ctx, query, transactionID, entries[0].CreatedAt, entries[0].CreatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to touch transaction "+transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTransactionRepository) insertEntries(ctx context.Context, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO journal_entries (entry_id, transaction_id, sequence, account_type, amount, is_debit,
		                             description, entry_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, entry := range entries {
		e := mapping.ToModelJournalEntry(entry)
		batch.Queue(query,
			e.EntryID,
			e.TransactionID,
			e.Sequence,
			e.AccountType,
			e.Amount,
			e.IsDebit,
			e.Description,
			e.EntryDate,
			e.CreatedBy,
			e.CreatedAt,
		)
	}

	var results pgx.BatchResults
	if tx, ok := txFromContext(ctx); ok {
		results = tx.SendBatch(ctx, batch)
	} else {
		results = r.Pool.SendBatch(ctx, batch)
	}
	if err := results.Close(); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: journal entry sequence already posted", apperrors.ErrConcurrentModification)
		}
		return apperrors.NewAppError(500, "failed to insert journal entries", err)
	}
	return nil
}

func (r *PgxTransactionRepository) UpdateTransactionStatus(ctx context.Context, txn domain.Transaction, expected domain.TransactionStatus) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE ledger_transactions
		SET status = $2, locked_at = $3, locked_by = $4, verified_at = $5, verified_by = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE transaction_id = $1 AND status = $9;
	`
	tag, err := r.DB(ctx).Exec(ctx, query,
		m.TransactionID,
		m.Status,
		m.LockedAt,
		m.LockedBy,
		m.VerifiedAt,
		m.VerifiedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		string(expected),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of transaction "+txn.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOrChanged(ctx, txn.TransactionID)
	}
	return nil
}

func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string, expected domain.TransactionStatus, _ time.Time) error {
	// journal_entries rows go with ON DELETE CASCADE; settlements and register_sessions
	// references RESTRICT the delete.
	query := `DELETE FROM ledger_transactions WHERE transaction_id = $1 AND status = $2;`
	tag, err := r.DB(ctx).Exec(ctx, query, transactionID, string(expected))
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: transaction %s is referenced by register activity", apperrors.ErrImmutableRecord, transactionID)
		}
		return apperrors.NewAppError(500, "failed to delete transaction "+transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOrChanged(ctx, transactionID)
	}
	return nil
}

// missingOrChanged tells apart a vanished row from one whose status moved under us.
func (r *PgxTransactionRepository) missingOrChanged(ctx context.Context, transactionID string) error {
	var exists bool
	err := r.DB(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ledger_transactions WHERE transaction_id = $1)`, transactionID).Scan(&exists)
	if err != nil {
		return apperrors.NewAppError(500, "failed to check transaction "+transactionID, err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrConcurrentModification
}
