package services

import (
	"context"
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

// discrepancyService disposes of the discrepancies left by a register close.
type discrepancyService struct {
	BaseService
	uow     portsrepo.UnitOfWork
	payroll portssvc.PayrollCollaborator
	locks   *KeyedMutex
}

// NewDiscrepancyService creates the discrepancy resolver. A permission checker must be
// supplied with WithPermissionChecker, otherwise every resolution is denied.
func NewDiscrepancyService(uow portsrepo.UnitOfWork, payroll portssvc.PayrollCollaborator, locks *KeyedMutex, options ...ServiceOption) portssvc.DiscrepancySvcFacade {
	svc := &discrepancyService{uow: uow, payroll: payroll, locks: locks}
	svc.apply(options)
	return svc
}

var _ portssvc.DiscrepancySvcFacade = (*discrepancyService)(nil)

func (s *discrepancyService) ResolveDiscrepancy(ctx context.Context, registerID string, req dto.ResolveDiscrepancyRequest, approverID string) (*domain.Register, error) {
	if !req.Resolution.IsValid() {
		return nil, fmt.Errorf("%w: unknown resolution %q", apperrors.ErrValidation, req.Resolution)
	}
	if err := s.RequireCapability(ctx, approverID, domain.CapabilityApproveDiscrepancy); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(registerID)
	defer unlock()

	var resolved *domain.Register
	err := s.uow.WithinUnitOfWork(ctx, func(ctx context.Context, repos portsrepo.RepositorySet) error {
		session, err := repos.Registers().FindLatestSessionForUpdate(ctx, registerID)
		if err != nil {
			return err
		}
		if err := checkResolvable(session); err != nil {
			return err
		}

		now := s.now()
		var instruction *domain.PayrollInstruction
		switch req.Resolution {
		case domain.ResolutionDeductSalary:
			shortage, err := session.Shortage()
			if err != nil {
				return err
			}
			if shortage <= 0 {
				return fmt.Errorf("%w: session %s has no shortage to deduct", apperrors.ErrValidation, session.SessionID)
			}
			if s.payroll == nil {
				return fmt.Errorf("%w: payroll collaborator not configured", apperrors.ErrInternal)
			}
			instruction = &domain.PayrollInstruction{
				InstructionID: uuid.NewString(),
				RegisterID:    session.RegisterID,
				SessionID:     session.SessionID,
				EmployeeID:    session.OpenedBy,
				Amount:        shortage,
				Reason:        fmt.Sprintf("Register %s shortage", session.RegisterID),
				Notes:         req.Notes,
				ApprovedBy:    approverID,
				IssuedAt:      now,
			}
		case domain.ResolutionEcartCaisse:
			txn, err := varianceTransaction(session, approverID, now)
			if err != nil {
				return err
			}
			if err := ensureBalanced(nil, txn.Entries); err != nil {
				return err
			}
			if err := repos.Transactions().SaveTransaction(ctx, txn); err != nil {
				return err
			}
			session.DiscrepancyTransactionID = &txn.TransactionID
		case domain.ResolutionApproved:
		}

		resolution := req.Resolution
		notes := strings.TrimSpace(req.Notes)
		session.DiscrepancyResolution = &resolution
		session.DiscrepancyApprovedBy = &approverID
		session.DiscrepancyApprovedAt = &now
		session.DiscrepancyNotes = &notes
		touchSession(session, approverID, now)
		if err := repos.Registers().UpdateSession(ctx, *session); err != nil {
			return err
		}

		// Submitted last so that a rejected instruction rolls the resolution back.
		if instruction != nil {
			if err := s.payroll.SubmitDeduction(ctx, *instruction); err != nil {
				return fmt.Errorf("submitting payroll deduction: %w", err)
			}
		}
		resolved = session
		return nil
	})
	if err != nil {
		if !isOperatorError(err) {
			s.LogError(ctx, err, "Failed to resolve discrepancy",
				slog.String("register_id", registerID),
				slog.String("resolution", string(req.Resolution)))
		}
		return nil, err
	}

	s.Metrics.RecordResolution(string(req.Resolution))
	s.LogInfo(ctx, "Register discrepancy resolved",
		slog.String("register_id", registerID),
		slog.String("session_id", resolved.SessionID),
		slog.String("resolution", string(req.Resolution)),
		slog.String("approved_by", approverID))
	return resolved, nil
}

func checkResolvable(session *domain.Register) error {
	switch {
	case session.IsOpen:
		return fmt.Errorf("%w: session %s is still open", apperrors.ErrValidation, session.SessionID)
	case session.DiscrepancyResolution != nil:
		return fmt.Errorf("%w: discrepancies of session %s already resolved as %s",
			apperrors.ErrImmutableRecord, session.SessionID, *session.DiscrepancyResolution)
	case !session.HasDiscrepancies():
		return fmt.Errorf("%w: session %s has no discrepancies", apperrors.ErrValidation, session.SessionID)
	}
	return nil
}

// varianceTransaction builds the cash-variance transaction absorbing a session's
// discrepancies: one balanced pair per affected method.
func varianceTransaction(session *domain.Register, actorID string, now time.Time) (domain.Transaction, error) {
	txnID := uuid.NewString()
	registerID := session.RegisterID
	builder := newEntryBuilder(txnID, 0, actorID, now)

	var gross domain.Money
	dominant, dominantAmount := domain.PaymentNotSpecified, domain.Money(0)
	for _, m := range session.Discrepancies.Methods() {
		delta := session.Discrepancies[m]
		desc := fmt.Sprintf("Ecart de caisse %s, session %s", m, session.SessionID)
		if delta < 0 {
			builder.debit(domain.AccountCashVariance, -delta, desc)
			builder.credit(m.LedgerAccount(), -delta, desc)
		} else {
			builder.debit(m.LedgerAccount(), delta, desc)
			builder.credit(domain.AccountCashVariance, delta, desc)
		}
		var err error
		if gross, err = gross.Add(delta.Abs()); err != nil {
			return domain.Transaction{}, err
		}
		if delta.Abs() > dominantAmount {
			dominant, dominantAmount = m, delta.Abs()
		}
	}

	shortage, err := session.Shortage()
	if err != nil {
		return domain.Transaction{}, err
	}
	txnType := domain.TransactionExpense
	if shortage < 0 {
		txnType = domain.TransactionIncome
	}

	return domain.Transaction{
		TransactionID: txnID,
		Amount:        gross,
		Type:          txnType,
		Status:        domain.StatusOpen,
		Description:   fmt.Sprintf("Ecart de caisse, register %s", registerID),
		PaymentMethod: dominant,
		BranchID:      session.BranchID,
		RegisterID:    &registerID,
		Entries:       builder.entries,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}, nil
}
