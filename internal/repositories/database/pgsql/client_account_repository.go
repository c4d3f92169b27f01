package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/pos_ledger_engine/internal/apperrors"
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/pos_ledger_engine/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxClientAccountRepository keeps client store credit and loyalty points. Called inside a
// unit of work it joins that transaction, so charges roll back with the checkout.
type PgxClientAccountRepository struct {
	BaseRepository
}

func newPgxClientAccountRepository(pool *pgxpool.Pool) *PgxClientAccountRepository {
	return &PgxClientAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portssvc.ClientAccountCollaborator = (*PgxClientAccountRepository)(nil)

func (r *PgxClientAccountRepository) HasAvailableCredit(ctx context.Context, clientID string, amount domain.Money) (bool, error) {
	query := `SELECT credit_available FROM client_accounts WHERE client_id = $1;`
	var available int64
	err := r.DB(ctx).QueryRow(ctx, query, clientID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, apperrors.NewAppError(500, "failed to read client credit", err)
	}
	return domain.Money(available) >= amount, nil
}

func (r *PgxClientAccountRepository) PointsBalance(ctx context.Context, clientID string) (int64, error) {
	query := `SELECT points FROM client_accounts WHERE client_id = $1;`
	var points int64
	err := r.DB(ctx).QueryRow(ctx, query, clientID).Scan(&points)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: client %s", apperrors.ErrNotFound, clientID)
		}
		return 0, apperrors.NewAppError(500, "failed to read client points", err)
	}
	return points, nil
}

func (r *PgxClientAccountRepository) ChargeCredit(ctx context.Context, clientID string, amount domain.Money) error {
	query := `
		UPDATE client_accounts
		SET credit_available = credit_available - $2, last_updated_at = now()
		WHERE client_id = $1 AND credit_available >= $2;
	`
	tag, err := r.DB(ctx).Exec(ctx, query, clientID, int64(amount))
	if err != nil {
		return apperrors.NewAppError(500, "failed to charge client credit", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: client %s has insufficient credit", apperrors.ErrValidation, clientID)
	}
	return nil
}

func (r *PgxClientAccountRepository) DeductPoints(ctx context.Context, clientID string, count int64) error {
	query := `
		UPDATE client_accounts
		SET points = points - $2, last_updated_at = now()
		WHERE client_id = $1 AND points >= $2;
	`
	tag, err := r.DB(ctx).Exec(ctx, query, clientID, count)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deduct client points", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: client %s has fewer than %d points", apperrors.ErrValidation, clientID, count)
	}
	return nil
}
