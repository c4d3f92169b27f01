package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/pos_ledger_engine/internal/apperrors"
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/pos_ledger_engine/internal/utils/pagination"
)

// Store is an in-process repository backend. A unit of work runs against a private copy of
// the data that replaces the shared state only when the work succeeds.
type Store struct {
	mu    sync.Mutex
	state *state
}

type state struct {
	transactions map[string]domain.Transaction
	sessions     map[string][]domain.Register       // by register id, in opening order
	settlements  map[string]domain.SettlementRecord // by transaction id
	settleKeys   map[string]string                  // idempotency key -> transaction id
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{state: &state{
		transactions: make(map[string]domain.Transaction),
		sessions:     make(map[string][]domain.Register),
		settlements:  make(map[string]domain.SettlementRecord),
		settleKeys:   make(map[string]string),
	}}
}

// NewRepositoryProvider exposes the store through the repository ports.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	locked := &lockedRepos{store: store}
	return portsrepo.RepositoryProvider{
		UnitOfWork:   store,
		Transactions: locked,
		Registers:    locked,
		Settlements:  locked,
	}
}

var _ portsrepo.UnitOfWork = (*Store)(nil)

// WithinUnitOfWork runs fn against a copy of the store and publishes the copy if fn succeeds.
// Units of work on one store run one at a time.
func (s *Store) WithinUnitOfWork(ctx context.Context, fn func(ctx context.Context, repos portsrepo.RepositorySet) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	working := s.state.clone()
	if err := fn(ctx, view{st: working}); err != nil {
		return err
	}
	s.state = working
	return nil
}

func (st *state) clone() *state {
	out := &state{
		transactions: make(map[string]domain.Transaction, len(st.transactions)),
		sessions:     make(map[string][]domain.Register, len(st.sessions)),
		settlements:  make(map[string]domain.SettlementRecord, len(st.settlements)),
		settleKeys:   make(map[string]string, len(st.settleKeys)),
	}
	for id, txn := range st.transactions {
		out.transactions[id] = copyTransaction(txn)
	}
	for id, sessions := range st.sessions {
		copied := make([]domain.Register, len(sessions))
		for i, sess := range sessions {
			copied[i] = copySession(sess)
		}
		out.sessions[id] = copied
	}
	for id, rec := range st.settlements {
		out.settlements[id] = rec
	}
	for key, id := range st.settleKeys {
		out.settleKeys[key] = id
	}
	return out
}

func copyTransaction(txn domain.Transaction) domain.Transaction {
	txn.Entries = append([]domain.JournalEntry{}, txn.Entries...)
	return txn
}

func copySession(sess domain.Register) domain.Register {
	sess.OpeningBalance = sess.OpeningBalance.Copy()
	sess.CurrentBalance = sess.CurrentBalance.Copy()
	sess.ExpectedBalance = sess.ExpectedBalance.Copy()
	sess.Discrepancies = sess.Discrepancies.Copy()
	return sess
}

// view implements every repository port directly on a state, without locking.
type view struct {
	st *state
}

var (
	_ portsrepo.RepositorySet               = view{}
	_ portsrepo.TransactionRepositoryFacade = view{}
	_ portsrepo.RegisterRepositoryFacade    = view{}
	_ portsrepo.SettlementRepository        = view{}
)

func (v view) Transactions() portsrepo.TransactionRepositoryFacade { return v }
func (v view) Registers() portsrepo.RegisterRepositoryFacade       { return v }
func (v view) Settlements() portsrepo.SettlementRepository         { return v }

func (v view) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	txn, ok := v.st.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := copyTransaction(txn)
	return &out, nil
}

func (v view) FindTransactionByIDForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return v.FindTransactionByID(ctx, transactionID)
}

func (v view) ListTransactionsByBranch(_ context.Context, branchID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	var cursorAt time.Time
	var cursorID string
	if nextToken != nil && *nextToken != "" {
		at, id, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid pagination token", apperrors.ErrValidation)
		}
		cursorAt, cursorID = at, id
	}

	matched := make([]domain.Transaction, 0)
	for _, txn := range v.st.transactions {
		if txn.BranchID != branchID {
			continue
		}
		if cursorID != "" && !pagination.After(txn.CreatedAt, txn.TransactionID, cursorAt, cursorID) {
			continue
		}
		txn.Entries = nil
		matched = append(matched, txn)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].TransactionID > matched[j].TransactionID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	var next *string
	if len(matched) > limit {
		matched = matched[:limit]
		last := matched[limit-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.TransactionID)
		next = &token
	}
	return matched, next, nil
}

func (v view) SaveTransaction(_ context.Context, txn domain.Transaction) error {
	if _, exists := v.st.transactions[txn.TransactionID]; exists {
		return apperrors.ErrDuplicate
	}
	v.st.transactions[txn.TransactionID] = copyTransaction(txn)
	return nil
}

func (v view) AppendJournalEntries(_ context.Context, transactionID string, entries []domain.JournalEntry) error {
	txn, ok := v.st.transactions[transactionID]
	if !ok {
		return apperrors.ErrNotFound
	}
	txn.Entries = append(append([]domain.JournalEntry{}, txn.Entries...), entries...)
	if len(entries) > 0 {
		txn.LastUpdatedAt = entries[0].CreatedAt
		txn.LastUpdatedBy = entries[0].CreatedBy
	}
	v.st.transactions[transactionID] = txn
	return nil
}

func (v view) UpdateTransactionStatus(_ context.Context, txn domain.Transaction, expected domain.TransactionStatus) error {
	stored, ok := v.st.transactions[txn.TransactionID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if stored.Status != expected {
		return apperrors.ErrConcurrentModification
	}
	stored.Status = txn.Status
	stored.LockedAt, stored.LockedBy = txn.LockedAt, txn.LockedBy
	stored.VerifiedAt, stored.VerifiedBy = txn.VerifiedAt, txn.VerifiedBy
	stored.LastUpdatedAt, stored.LastUpdatedBy = txn.LastUpdatedAt, txn.LastUpdatedBy
	v.st.transactions[txn.TransactionID] = stored
	return nil
}

func (v view) DeleteTransaction(_ context.Context, transactionID string, expected domain.TransactionStatus, _ time.Time) error {
	stored, ok := v.st.transactions[transactionID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if stored.Status != expected {
		return apperrors.ErrConcurrentModification
	}
	if v.referencedByRegister(transactionID) {
		return fmt.Errorf("%w: transaction %s is referenced by register activity", apperrors.ErrImmutableRecord, transactionID)
	}
	delete(v.st.transactions, transactionID)
	return nil
}

// referencedByRegister mirrors the RESTRICT foreign keys of the Postgres schema.
func (v view) referencedByRegister(transactionID string) bool {
	if _, ok := v.st.settlements[transactionID]; ok {
		return true
	}
	for _, sessions := range v.st.sessions {
		for _, sess := range sessions {
			if sess.DiscrepancyTransactionID != nil && *sess.DiscrepancyTransactionID == transactionID {
				return true
			}
		}
	}
	return false
}

func (v view) FindSessionByID(_ context.Context, sessionID string) (*domain.Register, error) {
	for _, sessions := range v.st.sessions {
		for _, sess := range sessions {
			if sess.SessionID == sessionID {
				out := copySession(sess)
				return &out, nil
			}
		}
	}
	return nil, apperrors.ErrNotFound
}

func (v view) FindLatestSession(_ context.Context, registerID string) (*domain.Register, error) {
	sessions := v.st.sessions[registerID]
	if len(sessions) == 0 {
		return nil, apperrors.ErrNotFound
	}
	out := copySession(sessions[len(sessions)-1])
	return &out, nil
}

func (v view) FindLatestSessionForUpdate(ctx context.Context, registerID string) (*domain.Register, error) {
	return v.FindLatestSession(ctx, registerID)
}

func (v view) FindOpenSession(ctx context.Context, registerID string) (*domain.Register, error) {
	latest, err := v.FindLatestSession(ctx, registerID)
	if err != nil {
		return nil, err
	}
	if !latest.IsOpen {
		return nil, apperrors.ErrNotFound
	}
	return latest, nil
}

func (v view) SaveSession(_ context.Context, session domain.Register) error {
	sessions := v.st.sessions[session.RegisterID]
	if n := len(sessions); n > 0 && sessions[n-1].IsOpen {
		return apperrors.ErrAlreadyOpen
	}
	v.st.sessions[session.RegisterID] = append(sessions, copySession(session))
	return nil
}

func (v view) UpdateSession(_ context.Context, session domain.Register) error {
	sessions := v.st.sessions[session.RegisterID]
	for i := range sessions {
		if sessions[i].SessionID != session.SessionID {
			continue
		}
		if sessions[i].Version != session.Version-1 {
			return apperrors.ErrConcurrentModification
		}
		sessions[i] = copySession(session)
		return nil
	}
	return apperrors.ErrNotFound
}

func (v view) FindSettlementByKey(_ context.Context, key string) (*domain.SettlementRecord, error) {
	transactionID, ok := v.st.settleKeys[key]
	if !ok || key == "" {
		return nil, apperrors.ErrNotFound
	}
	rec := v.st.settlements[transactionID]
	return &rec, nil
}

func (v view) SaveSettlement(_ context.Context, record domain.SettlementRecord) error {
	if _, exists := v.st.settlements[record.TransactionID]; exists {
		return apperrors.ErrDuplicate
	}
	if record.IdempotencyKey != "" {
		if _, exists := v.st.settleKeys[record.IdempotencyKey]; exists {
			return apperrors.ErrDuplicate
		}
		v.st.settleKeys[record.IdempotencyKey] = record.TransactionID
	}
	v.st.settlements[record.TransactionID] = record
	return nil
}
