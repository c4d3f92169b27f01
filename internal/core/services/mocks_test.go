package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger_engine/internal/core/services"
	"github.com/SscSPs/pos_ledger_engine/internal/repositories/database/memory"
	"github.com/stretchr/testify/mock"
)

// --- Mock PermissionChecker ---
type MockPermissionChecker struct {
	mock.Mock
}

var _ portssvc.PermissionChecker = (*MockPermissionChecker)(nil)

func (m *MockPermissionChecker) HasPermission(ctx context.Context, actorID string, capability domain.Capability) (bool, error) {
	args := m.Called(ctx, actorID, capability)
	return args.Bool(0), args.Error(1)
}

// --- Mock PayrollCollaborator ---
type MockPayrollCollaborator struct {
	mock.Mock
}

var _ portssvc.PayrollCollaborator = (*MockPayrollCollaborator)(nil)

func (m *MockPayrollCollaborator) SubmitDeduction(ctx context.Context, instruction domain.PayrollInstruction) error {
	args := m.Called(ctx, instruction)
	return args.Error(0)
}

// --- Mock ClientAccountCollaborator ---
type MockClientAccounts struct {
	mock.Mock
}

var _ portssvc.ClientAccountCollaborator = (*MockClientAccounts)(nil)

func (m *MockClientAccounts) HasAvailableCredit(ctx context.Context, clientID string, amount domain.Money) (bool, error) {
	args := m.Called(ctx, clientID, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockClientAccounts) PointsBalance(ctx context.Context, clientID string) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientAccounts) ChargeCredit(ctx context.Context, clientID string, amount domain.Money) error {
	args := m.Called(ctx, clientID, amount)
	return args.Error(0)
}

func (m *MockClientAccounts) DeductPoints(ctx context.Context, clientID string, count int64) error {
	args := m.Called(ctx, clientID, count)
	return args.Error(0)
}

// --- Engine fixture wired on the in-memory store ---
type engine struct {
	repos         portsrepo.RepositoryProvider
	ledger        portssvc.LedgerSvcFacade
	registers     portssvc.RegisterSvcFacade
	discrepancies portssvc.DiscrepancySvcFacade
	settlements   portssvc.SettlementSvcFacade
}

// fixedClock returns a clock that advances one millisecond per call, so records created in
// sequence keep a stable order.
func fixedClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Millisecond)
		return t
	}
}

func newEngine(perms portssvc.PermissionChecker, payroll portssvc.PayrollCollaborator, clients portssvc.ClientAccountCollaborator) *engine {
	repos := memory.NewRepositoryProvider(memory.NewStore())
	locks := services.NewKeyedMutex()
	opts := []services.ServiceOption{services.WithClock(fixedClock()), services.WithPermissionChecker(perms)}

	return &engine{
		repos:         repos,
		ledger:        services.NewLedgerService(repos.UnitOfWork, repos.Transactions, opts...),
		registers:     services.NewRegisterService(repos.UnitOfWork, repos.Registers, locks, opts...),
		discrepancies: services.NewDiscrepancyService(repos.UnitOfWork, payroll, locks, opts...),
		settlements:   services.NewSettlementService(repos.UnitOfWork, services.NewPaymentReconciler(), clients, locks, 1, opts...),
	}
}

func strPtr(s string) *string {
	return &s
}
