package memory

import (
	"context"
	"time"

	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger_engine/internal/core/ports/repositories"
)

// lockedRepos serves repository calls made outside a unit of work, each under the store lock.
type lockedRepos struct {
	store *Store
}

var (
	_ portsrepo.TransactionRepositoryFacade = (*lockedRepos)(nil)
	_ portsrepo.RegisterRepositoryFacade    = (*lockedRepos)(nil)
	_ portsrepo.SettlementRepository        = (*lockedRepos)(nil)
)

func (r *lockedRepos) view() (view, func()) {
	r.store.mu.Lock()
	return view{st: r.store.state}, r.store.mu.Unlock
}

func (r *lockedRepos) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	v, unlock := r.view()
	defer unlock()
	return v.FindTransactionByID(ctx, transactionID)
}

func (r *lockedRepos) FindTransactionByIDForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return r.FindTransactionByID(ctx, transactionID)
}

func (r *lockedRepos) ListTransactionsByBranch(ctx context.Context, branchID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	v, unlock := r.view()
	defer unlock()
	return v.ListTransactionsByBranch(ctx, branchID, limit, nextToken)
}

func (r *lockedRepos) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	v, unlock := r.view()
	defer unlock()
	return v.SaveTransaction(ctx, txn)
}

func (r *lockedRepos) AppendJournalEntries(ctx context.Context, transactionID string, entries []domain.JournalEntry) error {
	v, unlock := r.view()
	defer unlock()
	return v.AppendJournalEntries(ctx, transactionID, entries)
}

func (r *lockedRepos) UpdateTransactionStatus(ctx context.Context, txn domain.Transaction, expected domain.TransactionStatus) error {
	v, unlock := r.view()
	defer unlock()
	return v.UpdateTransactionStatus(ctx, txn, expected)
}

func (r *lockedRepos) DeleteTransaction(ctx context.Context, transactionID string, expected domain.TransactionStatus, deletedAt time.Time) error {
	v, unlock := r.view()
	defer unlock()
	return v.DeleteTransaction(ctx, transactionID, expected, deletedAt)
}

func (r *lockedRepos) FindLatestSession(ctx context.Context, registerID string) (*domain.Register, error) {
	v, unlock := r.view()
	defer unlock()
	return v.FindLatestSession(ctx, registerID)
}

func (r *lockedRepos) FindLatestSessionForUpdate(ctx context.Context, registerID string) (*domain.Register, error) {
	return r.FindLatestSession(ctx, registerID)
}

func (r *lockedRepos) FindOpenSession(ctx context.Context, registerID string) (*domain.Register, error) {
	v, unlock := r.view()
	defer unlock()
	return v.FindOpenSession(ctx, registerID)
}

func (r *lockedRepos) SaveSession(ctx context.Context, session domain.Register) error {
	v, unlock := r.view()
	defer unlock()
	return v.SaveSession(ctx, session)
}

func (r *lockedRepos) UpdateSession(ctx context.Context, session domain.Register) error {
	v, unlock := r.view()
	defer unlock()
	return v.UpdateSession(ctx, session)
}

func (r *lockedRepos) FindSessionByID(ctx context.Context, sessionID string) (*domain.Register, error) {
	v, unlock := r.view()
	defer unlock()
	return v.FindSessionByID(ctx, sessionID)
}

func (r *lockedRepos) FindSettlementByKey(ctx context.Context, key string) (*domain.SettlementRecord, error) {
	v, unlock := r.view()
	defer unlock()
	return v.FindSettlementByKey(ctx, key)
}

func (r *lockedRepos) SaveSettlement(ctx context.Context, record domain.SettlementRecord) error {
	v, unlock := r.view()
	defer unlock()
	return v.SaveSettlement(ctx, record)
}
