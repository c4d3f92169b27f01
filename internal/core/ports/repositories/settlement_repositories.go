package repositories

import (
	"context"

	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
)

// SettlementRepository stores applied checkouts, one per sale transaction.
type SettlementRepository interface {
	// FindSettlementByKey returns the record stored under key, or apperrors.ErrNotFound.
	FindSettlementByKey(ctx context.Context, key string) (*domain.SettlementRecord, error)

	// SaveSettlement stores a record; a second record with the same transaction or the same
	// non-empty key fails with apperrors.ErrDuplicate.
	SaveSettlement(ctx context.Context, record domain.SettlementRecord) error
}
