package pgsql

import (
	portsrepo "github.com/SscSPs/pos_ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger_engine/internal/core/ports/services"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres repositories around one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	set := &repositorySet{
		transactions: newPgxTransactionRepository(dbPool),
		registers:    newPgxRegisterRepository(dbPool),
		settlements:  newPgxSettlementRepository(dbPool),
	}

	return portsrepo.RepositoryProvider{
		UnitOfWork:   newPgxUnitOfWork(dbPool, set),
		Transactions: set.transactions,
		Registers:    set.registers,
		Settlements:  set.settlements,
	}
}

// NewCollaborators wires the collaborator tables around one pool.
func NewCollaborators(dbPool *pgxpool.Pool) portssvc.Collaborators {
	return portssvc.Collaborators{
		Permissions: newPgxPermissionRepository(dbPool),
		Clients:     newPgxClientAccountRepository(dbPool),
		Payroll:     newPgxPayrollRepository(dbPool),
	}
}
