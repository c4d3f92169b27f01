package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/pos_ledger_engine/internal/apperrors"
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/pos_ledger_engine/internal/models"
	"github.com/SscSPs/pos_ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRegisterRepository struct {
	BaseRepository
}

func newPgxRegisterRepository(pool *pgxpool.Pool) *PgxRegisterRepository {
	return &PgxRegisterRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RegisterRepositoryFacade = (*PgxRegisterRepository)(nil)

const sessionColumns = `
	session_id, register_id, branch_id, name, is_open, opened_at, opened_by, closed_at, closed_by,
	opening_balance, current_balance, expected_balance, discrepancies,
	discrepancy_resolution, discrepancy_approved_by, discrepancy_approved_at, discrepancy_notes,
	discrepancy_transaction_id, version, created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxRegisterRepository) FindSessionByID(ctx context.Context, sessionID string) (*domain.Register, error) {
	return r.findSession(ctx, `WHERE session_id = $1`, sessionID)
}

func (r *PgxRegisterRepository) FindLatestSession(ctx context.Context, registerID string) (*domain.Register, error) {
	return r.findSession(ctx, `WHERE register_id = $1 ORDER BY opened_at DESC LIMIT 1`, registerID)
}

func (r *PgxRegisterRepository) FindLatestSessionForUpdate(ctx context.Context, registerID string) (*domain.Register, error) {
	return r.findSession(ctx, `WHERE register_id = $1 ORDER BY opened_at DESC LIMIT 1 FOR UPDATE`, registerID)
}

func (r *PgxRegisterRepository) FindOpenSession(ctx context.Context, registerID string) (*domain.Register, error) {
	return r.findSession(ctx, `WHERE register_id = $1 AND is_open FOR UPDATE`, registerID)
}

func (r *PgxRegisterRepository) findSession(ctx context.Context, where string, id string) (*domain.Register, error) {
	query := `SELECT ` + sessionColumns + ` FROM register_sessions ` + where
	var m models.RegisterSession
	err := r.DB(ctx).QueryRow(ctx, query, id).Scan(
		&m.SessionID,
		&m.RegisterID,
		&m.BranchID,
		&m.Name,
		&m.IsOpen,
		&m.OpenedAt,
		&m.OpenedBy,
		&m.ClosedAt,
		&m.ClosedBy,
		&m.OpeningBalance,
		&m.CurrentBalance,
		&m.ExpectedBalance,
		&m.Discrepancies,
		&m.DiscrepancyResolution,
		&m.DiscrepancyApprovedBy,
		&m.DiscrepancyApprovedAt,
		&m.DiscrepancyNotes,
		&m.DiscrepancyTransactionID,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find register session "+id, err)
	}
	session := mapping.ToDomainRegister(m)
	return &session, nil
}

func (r *PgxRegisterRepository) SaveSession(ctx context.Context, session domain.Register) error {
	m := mapping.ToModelRegisterSession(session)
	query := `
		INSERT INTO register_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
	`
	_, err := r.DB(ctx).Exec(ctx, query,
		m.SessionID,
		m.RegisterID,
		m.BranchID,
		m.Name,
		m.IsOpen,
		m.OpenedAt,
		m.OpenedBy,
		m.ClosedAt,
		m.ClosedBy,
		m.OpeningBalance,
		m.CurrentBalance,
		m.ExpectedBalance,
		m.Discrepancies,
		m.DiscrepancyResolution,
		m.DiscrepancyApprovedBy,
		m.DiscrepancyApprovedAt,
		m.DiscrepancyNotes,
		m.DiscrepancyTransactionID,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		// register_sessions_one_open allows a single open session per register.
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: register %s", apperrors.ErrAlreadyOpen, session.RegisterID)
		}
		return apperrors.NewAppError(500, "failed to insert session of register "+session.RegisterID, err)
	}
	return nil
}

func (r *PgxRegisterRepository) UpdateSession(ctx context.Context, session domain.Register) error {
	m := mapping.ToModelRegisterSession(session)
	query := `
		UPDATE register_sessions
		SET is_open = $2, closed_at = $3, closed_by = $4,
		    current_balance = $5, expected_balance = $6, discrepancies = $7,
		    discrepancy_resolution = $8, discrepancy_approved_by = $9, discrepancy_approved_at = $10,
		    discrepancy_notes = $11, discrepancy_transaction_id = $12,
		    version = $13, last_updated_at = $14, last_updated_by = $15
		WHERE session_id = $1 AND version = $16;
	`
	tag, err := r.DB(ctx).Exec(ctx, query,
		m.SessionID,
		m.IsOpen,
		m.ClosedAt,
		m.ClosedBy,
		m.CurrentBalance,
		m.ExpectedBalance,
		m.Discrepancies,
		m.DiscrepancyResolution,
		m.DiscrepancyApprovedBy,
		m.DiscrepancyApprovedAt,
		m.DiscrepancyNotes,
		m.DiscrepancyTransactionID,
		m.Version,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version-1,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update session "+session.SessionID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.DB(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM register_sessions WHERE session_id = $1)`, session.SessionID).Scan(&exists); err != nil {
			return apperrors.NewAppError(500, "failed to check session "+session.SessionID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrConcurrentModification
	}
	return nil
}
