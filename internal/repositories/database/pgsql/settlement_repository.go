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

type PgxSettlementRepository struct {
	BaseRepository
}

func newPgxSettlementRepository(pool *pgxpool.Pool) *PgxSettlementRepository {
	return &PgxSettlementRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SettlementRepository = (*PgxSettlementRepository)(nil)

func (r *PgxSettlementRepository) FindSettlementByKey(ctx context.Context, key string) (*domain.SettlementRecord, error) {
	query := `
		SELECT transaction_id, idempotency_key, register_id, session_id, outcome, created_at
		FROM settlements
		WHERE idempotency_key = $1;
	`
	var m models.Settlement
	err := r.DB(ctx).QueryRow(ctx, query, key).Scan(
		&m.TransactionID,
		&m.IdempotencyKey,
		&m.RegisterID,
		&m.SessionID,
		&m.Outcome,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find settlement", err)
	}
	record, err := mapping.ToDomainSettlement(m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode settlement", err)
	}
	return &record, nil
}

func (r *PgxSettlementRepository) SaveSettlement(ctx context.Context, record domain.SettlementRecord) error {
	m, err := mapping.ToModelSettlement(record)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode settlement", err)
	}
	query := `
		INSERT INTO settlements (transaction_id, idempotency_key, register_id, session_id, outcome, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = r.DB(ctx).Exec(ctx, query,
		m.TransactionID,
		m.IdempotencyKey,
		m.RegisterID,
		m.SessionID,
		string(m.Outcome),
		m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: settlement of transaction %s (key %q)", apperrors.ErrDuplicate, record.TransactionID, record.IdempotencyKey)
		}
		return apperrors.NewAppError(500, "failed to insert settlement", err)
	}
	return nil
}
