package pgsql

import (
	"context"

	portsrepo "github.com/SscSPs/pos_ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxUnitOfWork runs units of work in one database transaction. The transaction travels in
// the context, so every repository of this package called with that context joins it.
type PgxUnitOfWork struct {
	BaseRepository
	repos portsrepo.RepositorySet
}

func newPgxUnitOfWork(pool *pgxpool.Pool, repos portsrepo.RepositorySet) *PgxUnitOfWork {
	return &PgxUnitOfWork{BaseRepository: BaseRepository{Pool: pool}, repos: repos}
}

var _ portsrepo.UnitOfWork = (*PgxUnitOfWork)(nil)

// WithinUnitOfWork commits if fn succeeds and rolls back otherwise. A nested call joins the
// enclosing transaction.
func (u *PgxUnitOfWork) WithinUnitOfWork(ctx context.Context, fn func(ctx context.Context, repos portsrepo.RepositorySet) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx, u.repos)
	}

	tx, err := u.Begin(ctx)
	if err != nil {
		return err
	}
	defer u.Rollback(ctx, tx) // no-op once committed

	if err := fn(contextWithTx(ctx, tx), u.repos); err != nil {
		return err
	}
	return u.Commit(ctx, tx)
}

// repositorySet hands out the pool-backed repositories; they pick the transaction up from ctx.
type repositorySet struct {
	transactions *PgxTransactionRepository
	registers    *PgxRegisterRepository
	settlements  *PgxSettlementRepository
}

var _ portsrepo.RepositorySet = (*repositorySet)(nil)

func (s *repositorySet) Transactions() portsrepo.TransactionRepositoryFacade { return s.transactions }
func (s *repositorySet) Registers() portsrepo.RegisterRepositoryFacade       { return s.registers }
func (s *repositorySet) Settlements() portsrepo.SettlementRepository         { return s.settlements }
