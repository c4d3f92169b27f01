package pgsql

import (
	"context"

	"github.com/SscSPs/pos_ledger_engine/internal/apperrors"
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/pos_ledger_engine/internal/core/ports/services"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPermissionRepository answers capability checks from the actor_capabilities table.
type PgxPermissionRepository struct {
	BaseRepository
}

func newPgxPermissionRepository(pool *pgxpool.Pool) *PgxPermissionRepository {
	return &PgxPermissionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portssvc.PermissionChecker = (*PgxPermissionRepository)(nil)

func (r *PgxPermissionRepository) HasPermission(ctx context.Context, actorID string, capability domain.Capability) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM actor_capabilities WHERE actor_id = $1 AND capability = $2);`
	var allowed bool
	if err := r.DB(ctx).QueryRow(ctx, query, actorID, string(capability)).Scan(&allowed); err != nil {
		return false, apperrors.NewAppError(500, "failed to check capability", err)
	}
	return allowed, nil
}
