package services

import (
	"context"

	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
)

// PermissionChecker is the single authorization lookup used by gated operations.
type PermissionChecker interface {
	HasPermission(ctx context.Context, actorID string, capability domain.Capability) (bool, error)
}

// ClientAccountCollaborator exposes a client's store credit and loyalty points.
type ClientAccountCollaborator interface {
	HasAvailableCredit(ctx context.Context, clientID string, amount domain.Money) (bool, error)
	PointsBalance(ctx context.Context, clientID string) (int64, error)
	ChargeCredit(ctx context.Context, clientID string, amount domain.Money) error
	DeductPoints(ctx context.Context, clientID string, count int64) error
}

// PayrollCollaborator receives salary deduction instructions.
type PayrollCollaborator interface {
	SubmitDeduction(ctx context.Context, instruction domain.PayrollInstruction) error
}

// Collaborators groups the external systems the engine consumes.
type Collaborators struct {
	Permissions PermissionChecker
	Clients     ClientAccountCollaborator
	Payroll     PayrollCollaborator
}
