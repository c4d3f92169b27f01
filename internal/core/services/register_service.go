package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/pos_ledger_engine/internal/apperrors"
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger_engine/internal/dto"
)

// registerService owns the register session lifecycle. Every mutation of a register runs
// under that register's lock and inside one unit of work.
type registerService struct {
	BaseService
	uow          portsrepo.UnitOfWork
	registerRepo portsrepo.RegisterReader
	locks        *KeyedMutex
}

// NewRegisterService creates a new register session service. locks must be shared with
// every other service that mutates register sessions.
func NewRegisterService(uow portsrepo.UnitOfWork, registerRepo portsrepo.RegisterReader, locks *KeyedMutex, options ...ServiceOption) portssvc.RegisterSvcFacade {
	svc := &registerService{uow: uow, registerRepo: registerRepo, locks: locks}
	svc.apply(options)
	return svc
}

var _ portssvc.RegisterSvcFacade = (*registerService)(nil)

func (s *registerService) GetRegister(ctx context.Context, registerID string) (*domain.Register, error) {
	session, err := s.registerRepo.FindLatestSession(ctx, registerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find register session", slog.String("register_id", registerID))
		}
		return nil, err
	}
	return session, nil
}

func (s *registerService) OpenRegister(ctx context.Context, registerID string, req dto.OpenRegisterRequest, actorID string) (*domain.Register, error) {
	if strings.TrimSpace(registerID) == "" {
		return nil, fmt.Errorf("%w: registerID is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.BranchID) == "" {
		return nil, fmt.Errorf("%w: branchID is required", apperrors.ErrValidation)
	}
	if err := validateBalances("openingBalance", req.OpeningBalance); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(registerID)
	defer unlock()

	var opened *domain.Register
	err := s.uow.WithinUnitOfWork(ctx, func(ctx context.Context, repos portsrepo.RepositorySet) error {
		previous, err := repos.Registers().FindLatestSessionForUpdate(ctx, registerID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
		case err != nil:
			return err
		case previous.IsOpen:
			return fmt.Errorf("%w: register %s (session %s)", apperrors.ErrAlreadyOpen, registerID, previous.SessionID)
		case previous.PendingResolution():
			return fmt.Errorf("%w: session %s of register %s has unresolved discrepancies", apperrors.ErrValidation, previous.SessionID, registerID)
		}

		now := s.now()
		name := strings.TrimSpace(req.Name)
		if name == "" {
			name = registerID
		}
		session := domain.Register{
			SessionID:       uuid.NewString(),
			RegisterID:      registerID,
			BranchID:        req.BranchID,
			Name:            name,
			IsOpen:          true,
			OpenedAt:        now,
			OpenedBy:        actorID,
			OpeningBalance:  req.OpeningBalance.Copy(),
			CurrentBalance:  req.OpeningBalance.Copy(),
			ExpectedBalance: req.OpeningBalance.Copy(),
			Discrepancies:   domain.Balances{},
			Version:         1,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
		if err := repos.Registers().SaveSession(ctx, session); err != nil {
			return err
		}
		opened = &session
		return nil
	})
	if err != nil {
		if !isOperatorError(err) {
			s.LogError(ctx, err, "Failed to open register", slog.String("register_id", registerID))
		}
		return nil, err
	}

	s.Metrics.RecordSessionEvent("open")
	s.LogInfo(ctx, "Register opened",
		slog.String("register_id", registerID),
		slog.String("session_id", opened.SessionID),
		slog.String("opened_by", actorID))
	return opened, nil
}

func (s *registerService) RecordTender(ctx context.Context, registerID string, method domain.PaymentMethod, amount domain.Money, actorID string) (*domain.Register, error) {
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, method)
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: tender amount must not be zero", apperrors.ErrValidation)
	}

	unlock := s.locks.Lock(registerID)
	defer unlock()

	var updated *domain.Register
	err := s.uow.WithinUnitOfWork(ctx, func(ctx context.Context, repos portsrepo.RepositorySet) error {
		session, err := openSession(ctx, repos, registerID)
		if err != nil {
			return err
		}
		if err := session.ApplyTender(method, amount); err != nil {
			return err
		}
		touchSession(session, actorID, s.now())
		if err := repos.Registers().UpdateSession(ctx, *session); err != nil {
			return err
		}
		updated = session
		return nil
	})
	if err != nil {
		if !isOperatorError(err) {
			s.LogError(ctx, err, "Failed to record tender", slog.String("register_id", registerID))
		}
		return nil, err
	}

	s.Metrics.RecordTender(string(method), int64(amount))
	s.LogDebug(ctx, "Tender recorded",
		slog.String("register_id", registerID),
		slog.String("method", string(method)),
		slog.Int64("amount", int64(amount)))
	return updated, nil
}

func (s *registerService) CloseRegister(ctx context.Context, registerID string, counted domain.Balances, actorID string) (*domain.Register, error) {
	if err := validateBalances("counted", counted); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(registerID)
	defer unlock()

	var closed *domain.Register
	err := s.uow.WithinUnitOfWork(ctx, func(ctx context.Context, repos portsrepo.RepositorySet) error {
		session, err := openSession(ctx, repos, registerID)
		if err != nil {
			return err
		}

		discrepancies, err := domain.ComputeDiscrepancies(session.ExpectedBalance, counted)
		if err != nil {
			return err
		}

		now := s.now()
		session.Discrepancies = discrepancies
		session.CurrentBalance = counted.Copy()
		session.IsOpen = false
		session.ClosedAt = &now
		session.ClosedBy = &actorID
		touchSession(session, actorID, now)
		if err := repos.Registers().UpdateSession(ctx, *session); err != nil {
			return err
		}
		closed = session
		return nil
	})
	if err != nil {
		if !isOperatorError(err) {
			s.LogError(ctx, err, "Failed to close register", slog.String("register_id", registerID))
		}
		return nil, err
	}

	s.Metrics.RecordSessionEvent("close")
	for _, m := range closed.Discrepancies.Methods() {
		s.Metrics.RecordDiscrepancy(string(m), int64(closed.Discrepancies[m]))
	}
	if closed.HasDiscrepancies() {
		net, _ := closed.Discrepancies.Total()
		s.LogWarn(ctx, "Register closed with discrepancies",
			slog.String("register_id", registerID),
			slog.String("session_id", closed.SessionID),
			slog.Int64("net", int64(net)))
	} else {
		s.LogInfo(ctx, "Register closed",
			slog.String("register_id", registerID),
			slog.String("session_id", closed.SessionID))
	}
	return closed, nil
}

// openSession loads the open session of a register, mapping absence to apperrors.ErrNotOpen.
func openSession(ctx context.Context, repos portsrepo.RepositorySet, registerID string) (*domain.Register, error) {
	session, err := repos.Registers().FindOpenSession(ctx, registerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: register %s", apperrors.ErrNotOpen, registerID)
		}
		return nil, err
	}
	return session, nil
}

// touchSession bumps the optimistic version and audit stamps of a session about to be written.
func touchSession(session *domain.Register, actorID string, at time.Time) {
	session.Version++
	session.LastUpdatedAt = at
	session.LastUpdatedBy = actorID
}

func validateBalances(field string, balances domain.Balances) error {
	for method, amount := range balances {
		if !method.IsValid() {
			return fmt.Errorf("%w: %s: unknown payment method %q", apperrors.ErrValidation, field, method)
		}
		if amount < 0 {
			return fmt.Errorf("%w: %s.%s must not be negative", apperrors.ErrValidation, field, method)
		}
	}
	return nil
}
