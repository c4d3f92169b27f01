package services

import (
	"context"

	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	"github.com/SscSPs/pos_ledger_engine/internal/dto"
)

// RegisterReaderSvc defines read operations for register sessions
type RegisterReaderSvc interface {
	// GetRegister returns the latest session of a register.
	GetRegister(ctx context.Context, registerID string) (*domain.Register, error)
}

// RegisterWriterSvc defines the register session lifecycle
type RegisterWriterSvc interface {
	// OpenRegister starts a new session for the register.
	OpenRegister(ctx context.Context, registerID string, req dto.OpenRegisterRequest, actorID string) (*domain.Register, error)

	// RecordTender adds a tender movement to the open session.
	RecordTender(ctx context.Context, registerID string, method domain.PaymentMethod, amount domain.Money, actorID string) (*domain.Register, error)

	// CloseRegister closes the open session against the counted balances.
	CloseRegister(ctx context.Context, registerID string, counted domain.Balances, actorID string) (*domain.Register, error)
}

// RegisterSvcFacade combines register service interfaces
type RegisterSvcFacade interface {
	RegisterReaderSvc
	RegisterWriterSvc
}

// DiscrepancySvcFacade disposes of a closed register's counting discrepancies.
type DiscrepancySvcFacade interface {
	ResolveDiscrepancy(ctx context.Context, registerID string, req dto.ResolveDiscrepancyRequest, approverID string) (*domain.Register, error)
}
