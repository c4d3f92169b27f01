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

// settlementService applies settled checkouts to the ledger and the open register session.
type settlementService struct {
	BaseService
	uow        portsrepo.UnitOfWork
	reconciler portssvc.PaymentReconcilerSvc
	clients    portssvc.ClientAccountCollaborator
	locks      *KeyedMutex
	pointValue domain.Money
}

// NewSettlementService creates the checkout service. pointValue is the value of one loyalty
// point in minor units.
func NewSettlementService(
	uow portsrepo.UnitOfWork,
	reconciler portssvc.PaymentReconcilerSvc,
	clients portssvc.ClientAccountCollaborator,
	locks *KeyedMutex,
	pointValue domain.Money,
	options ...ServiceOption,
) portssvc.SettlementSvcFacade {
	svc := &settlementService{
		uow:        uow,
		reconciler: reconciler,
		clients:    clients,
		locks:      locks,
		pointValue: pointValue,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

func (s *settlementService) Quote(ctx context.Context, req dto.CheckoutRequest) (*domain.SettlementOutcome, error) {
	outcome, err := s.settle(ctx, req)
	if err != nil {
		return nil, err
	}
	return &outcome, nil
}

func (s *settlementService) Checkout(ctx context.Context, registerID string, req dto.CheckoutRequest, actorID string) (*dto.CheckoutResult, error) {
	if strings.TrimSpace(registerID) == "" {
		return nil, fmt.Errorf("%w: registerID is required", apperrors.ErrValidation)
	}

	unlock := s.locks.Lock(registerID)
	defer unlock()

	var (
		result  *dto.CheckoutResult
		outcome domain.SettlementOutcome
	)
	err := s.uow.WithinUnitOfWork(ctx, func(ctx context.Context, repos portsrepo.RepositorySet) error {
		if req.IdempotencyKey != "" {
			replay, err := s.replay(ctx, repos, registerID, req.IdempotencyKey)
			if err != nil || replay != nil {
				result = replay
				return err
			}
		}

		var err error
		outcome, err = s.settle(ctx, req)
		if err != nil {
			return err
		}

		session, err := openSession(ctx, repos, registerID)
		if err != nil {
			return err
		}

		now := s.now()
		txn := saleTransaction(session, req, outcome, actorID, now)
		if err := ensureBalanced(nil, txn.Entries); err != nil {
			return fmt.Errorf("sale postings: %w", err)
		}
		if err := repos.Transactions().SaveTransaction(ctx, txn); err != nil {
			return err
		}

		net := outcome.NetTenders()
		for _, m := range net.Methods() {
			if err := session.ApplyTender(m, net[m]); err != nil {
				return err
			}
		}
		touchSession(session, actorID, now)
		if err := repos.Registers().UpdateSession(ctx, *session); err != nil {
			return err
		}

		// Recorded for every checkout: it pins the sale against deletion.
		record := domain.SettlementRecord{
			IdempotencyKey: req.IdempotencyKey,
			TransactionID:  txn.TransactionID,
			RegisterID:     registerID,
			SessionID:      session.SessionID,
			Outcome:        outcome,
			CreatedAt:      now,
		}
		if err := repos.Settlements().SaveSettlement(ctx, record); err != nil {
			return err
		}

		// Client account hooks run last so that a failure rolls back the postings above.
		if err := s.applyClientHooks(ctx, req, outcome); err != nil {
			return err
		}

		result = &dto.CheckoutResult{Transaction: &txn, Session: session, Outcome: outcome}
		return nil
	})
	if err != nil {
		s.Metrics.RecordCheckout(settlementPath(req), "failed")
		if !isOperatorError(err) {
			s.LogError(ctx, err, "Checkout failed", slog.String("register_id", registerID))
		}
		return nil, err
	}

	if result.Replayed {
		s.Metrics.RecordCheckout(settlementPath(req), "replayed")
		s.LogInfo(ctx, "Checkout replayed from idempotency key",
			slog.String("register_id", registerID),
			slog.String("transaction_id", result.Transaction.TransactionID))
		return result, nil
	}

	s.Metrics.RecordCheckout(settlementPath(req), "applied")
	for m, v := range outcome.NetTenders() {
		s.Metrics.RecordTender(string(m), int64(v))
	}
	s.LogInfo(ctx, "Checkout applied",
		slog.String("register_id", registerID),
		slog.String("session_id", result.Session.SessionID),
		slog.String("transaction_id", result.Transaction.TransactionID),
		slog.Int64("amount_due", int64(req.AmountDue)),
		slog.Int64("change", int64(outcome.Change)))
	return result, nil
}

// settle looks up the client's credit and points and runs the reconciler.
func (s *settlementService) settle(ctx context.Context, req dto.CheckoutRequest) (domain.SettlementOutcome, error) {
	sreq := domain.SettlementRequest{
		AmountDue:      req.AmountDue,
		Tendered:       req.Tendered,
		UseStoreCredit: req.UseStoreCredit,
		UsePoints:      req.UsePoints,
		PointValue:     s.pointValue,
	}

	if req.UseStoreCredit || req.UsePoints {
		if req.ClientID == nil || strings.TrimSpace(*req.ClientID) == "" {
			return domain.SettlementOutcome{}, fmt.Errorf("%w: clientID is required for store credit or points", apperrors.ErrValidation)
		}
		if s.clients == nil {
			return domain.SettlementOutcome{}, fmt.Errorf("%w: client account collaborator not configured", apperrors.ErrInternal)
		}
		clientID := *req.ClientID

		if req.UseStoreCredit && req.AmountDue > 0 {
			ok, err := s.clients.HasAvailableCredit(ctx, clientID, req.AmountDue)
			if err != nil {
				return domain.SettlementOutcome{}, fmt.Errorf("checking client credit: %w", err)
			}
			sreq.ClientHasCredit = ok
		}
		if req.UsePoints {
			balance, err := s.clients.PointsBalance(ctx, clientID)
			if err != nil {
				return domain.SettlementOutcome{}, fmt.Errorf("reading client points: %w", err)
			}
			sreq.ClientPointsBalance = balance
		}
	}

	return s.reconciler.Settle(sreq)
}

// replay returns the stored result of an earlier checkout with the same key, or nil when the
// key is new.
func (s *settlementService) replay(ctx context.Context, repos portsrepo.RepositorySet, registerID, key string) (*dto.CheckoutResult, error) {
	record, err := repos.Settlements().FindSettlementByKey(ctx, key)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if record.RegisterID != registerID {
		return nil, fmt.Errorf("%w: idempotency key %q was used for register %s", apperrors.ErrDuplicate, key, record.RegisterID)
	}

	txn, err := repos.Transactions().FindTransactionByID(ctx, record.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("loading replayed transaction %s: %w", record.TransactionID, err)
	}
	session, err := repos.Registers().FindSessionByID(ctx, record.SessionID)
	if err != nil {
		return nil, fmt.Errorf("loading replayed session %s: %w", record.SessionID, err)
	}
	return &dto.CheckoutResult{Transaction: txn, Session: session, Outcome: record.Outcome, Replayed: true}, nil
}

func (s *settlementService) applyClientHooks(ctx context.Context, req dto.CheckoutRequest, outcome domain.SettlementOutcome) error {
	if !outcome.UsedStoreCredit && !(outcome.UsedPoints && outcome.PointsConsumed > 0) {
		return nil
	}
	clientID := *req.ClientID
	if outcome.UsedStoreCredit {
		if err := s.clients.ChargeCredit(ctx, clientID, outcome.StoreCreditCharged); err != nil {
			return fmt.Errorf("charging client credit: %w", err)
		}
	}
	if outcome.UsedPoints && outcome.PointsConsumed > 0 {
		if err := s.clients.DeductPoints(ctx, clientID, outcome.PointsConsumed); err != nil {
			return fmt.Errorf("deducting client points: %w", err)
		}
	}
	return nil
}

// saleTransaction builds the sale transaction and its postings:
// revenue is credited with the amount due and each settlement source is debited.
func saleTransaction(session *domain.Register, req dto.CheckoutRequest, outcome domain.SettlementOutcome, actorID string, now time.Time) domain.Transaction {
	txnID := uuid.NewString()
	registerID := session.RegisterID
	builder := newEntryBuilder(txnID, 0, actorID, now)

	builder.credit(domain.AccountSalesRevenue, req.AmountDue, "Sale")
	if outcome.UsedStoreCredit {
		builder.debit(domain.AccountReceivable, outcome.StoreCreditCharged, "Charged to client account")
	}
	if outcome.UsedPoints && outcome.PointsValue > 0 {
		builder.debit(domain.AccountLoyaltyRedemptions, outcome.PointsValue,
			fmt.Sprintf("%d loyalty points redeemed", outcome.PointsConsumed))
	}
	net := outcome.NetTenders()
	for _, m := range net.Methods() {
		builder.signed(m.LedgerAccount(), net[m], fmt.Sprintf("Tender %s", m))
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "Sale"
	}
	method := outcome.DominantMethod()
	if outcome.UsedStoreCredit {
		method = domain.PaymentNotSpecified
	}

	return domain.Transaction{
		TransactionID: txnID,
		Amount:        req.AmountDue,
		Type:          domain.TransactionSale,
		Status:        domain.StatusOpen,
		Description:   description,
		PaymentMethod: method,
		BranchID:      session.BranchID,
		RegisterID:    &registerID,
		Entries:       builder.entries,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
}

func settlementPath(req dto.CheckoutRequest) string {
	switch {
	case req.UseStoreCredit:
		return "store_credit"
	case req.UsePoints:
		return "points"
	default:
		return "tender"
	}
}
