package services

import (
	"context"

	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	"github.com/SscSPs/pos_ledger_engine/internal/dto"
)

// SettlementSvcFacade settles checkout requests and applies them to the ledger and register.
type SettlementSvcFacade interface {
	// Quote settles a request without applying it.
	Quote(ctx context.Context, req dto.CheckoutRequest) (*domain.SettlementOutcome, error)

	// Checkout settles a request and applies it atomically to the ledger and the open
	// register session.
	Checkout(ctx context.Context, registerID string, req dto.CheckoutRequest, actorID string) (*dto.CheckoutResult, error)
}
