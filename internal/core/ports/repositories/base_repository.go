package repositories

import "context"

// RepositorySet is the set of repositories visible inside one unit of work. Every read and
// write made through it commits or rolls back together.
type RepositorySet interface {
	Transactions() TransactionRepositoryFacade
	Registers() RegisterRepositoryFacade
	Settlements() SettlementRepository
}

// UnitOfWork runs a function atomically against a RepositorySet.
// If fn returns an error, nothing it wrote becomes visible.
type UnitOfWork interface {
	WithinUnitOfWork(ctx context.Context, fn func(ctx context.Context, repos RepositorySet) error) error
}
