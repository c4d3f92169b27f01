package repositories

import (
	"context"

	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
)

// RegisterReader defines read operations for register sessions
type RegisterReader interface {
	// FindSessionByID returns one session, open or closed, or apperrors.ErrNotFound.
	FindSessionByID(ctx context.Context, sessionID string) (*domain.Register, error)

	// FindLatestSession returns the most recently opened session of a register.
	FindLatestSession(ctx context.Context, registerID string) (*domain.Register, error)

	// FindLatestSessionForUpdate is FindLatestSession that also locks the session row.
	FindLatestSessionForUpdate(ctx context.Context, registerID string) (*domain.Register, error)

	// FindOpenSession returns the open session of a register, or apperrors.ErrNotFound.
	// Inside a unit of work the session row stays locked until it ends.
	FindOpenSession(ctx context.Context, registerID string) (*domain.Register, error)
}

// RegisterWriter defines write operations for register sessions
type RegisterWriter interface {
	// SaveSession inserts a new session. It fails with apperrors.ErrAlreadyOpen if the
	// register already has an open session.
	SaveSession(ctx context.Context, session domain.Register) error

	// UpdateSession persists a session if its stored version equals session.Version-1.
	UpdateSession(ctx context.Context, session domain.Register) error
}

// RegisterRepositoryFacade combines register read and write operations
type RegisterRepositoryFacade interface {
	RegisterReader
	RegisterWriter
}
