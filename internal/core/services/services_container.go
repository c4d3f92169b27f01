package services

import (
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger_engine/internal/platform/config"
	"github.com/SscSPs/pos_ledger_engine/internal/platform/metrics"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, collab portssvc.Collaborators, m *metrics.Metrics) *portssvc.ServiceContainer {
	// Every service that mutates register sessions shares one set of per-register locks.
	registerLocks := NewKeyedMutex()

	common := []ServiceOption{WithMetrics(m), WithPermissionChecker(collab.Permissions)}

	container := &portssvc.ServiceContainer{}
	container.Payments = NewPaymentReconciler()
	container.Ledger = NewLedgerService(repos.UnitOfWork, repos.Transactions, common...)
	container.Registers = NewRegisterService(repos.UnitOfWork, repos.Registers, registerLocks, common...)
	container.Discrepancies = NewDiscrepancyService(repos.UnitOfWork, collab.Payroll, registerLocks, common...)
	container.Settlements = NewSettlementService(
		repos.UnitOfWork,
		container.Payments,
		collab.Clients,
		registerLocks,
		domain.Money(cfg.PointValueMinor),
		common...,
	)

	return container
}
