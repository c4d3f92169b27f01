package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/pos_ledger_engine/internal/apperrors"
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/pos_ledger_engine/internal/core/ports/services"
)

// PermissionSet is a static capability table.
type PermissionSet struct {
	mu     sync.RWMutex
	grants map[string]map[domain.Capability]bool
}

// NewPermissionSet creates an empty permission table.
func NewPermissionSet() *PermissionSet {
	return &PermissionSet{grants: make(map[string]map[domain.Capability]bool)}
}

var _ portssvc.PermissionChecker = (*PermissionSet)(nil)

// Grant gives actorID the capability.
func (p *PermissionSet) Grant(actorID string, capability domain.Capability) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.grants[actorID] == nil {
		p.grants[actorID] = make(map[domain.Capability]bool)
	}
	p.grants[actorID][capability] = true
}

func (p *PermissionSet) HasPermission(_ context.Context, actorID string, capability domain.Capability) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.grants[actorID][capability], nil
}

// ClientAccount is a client's store credit limit and loyalty points.
type ClientAccount struct {
	CreditAvailable domain.Money
	Points          int64
}

// ClientAccounts keeps client accounts in memory.
type ClientAccounts struct {
	mu       sync.Mutex
	accounts map[string]ClientAccount
}

// NewClientAccounts creates an empty client account table.
func NewClientAccounts() *ClientAccounts {
	return &ClientAccounts{accounts: make(map[string]ClientAccount)}
}

var _ portssvc.ClientAccountCollaborator = (*ClientAccounts)(nil)

// Put creates or replaces a client account.
func (c *ClientAccounts) Put(clientID string, account ClientAccount) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accounts[clientID] = account
}

// Get returns a client account.
func (c *ClientAccounts) Get(clientID string) (ClientAccount, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	acc, ok := c.accounts[clientID]
	return acc, ok
}

func (c *ClientAccounts) HasAvailableCredit(_ context.Context, clientID string, amount domain.Money) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	acc, ok := c.accounts[clientID]
	return ok && acc.CreditAvailable >= amount, nil
}

func (c *ClientAccounts) PointsBalance(_ context.Context, clientID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	acc, ok := c.accounts[clientID]
	if !ok {
		return 0, fmt.Errorf("%w: client %s", apperrors.ErrNotFound, clientID)
	}
	return acc.Points, nil
}

func (c *ClientAccounts) ChargeCredit(_ context.Context, clientID string, amount domain.Money) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	acc, ok := c.accounts[clientID]
	if !ok {
		return fmt.Errorf("%w: client %s", apperrors.ErrNotFound, clientID)
	}
	if acc.CreditAvailable < amount {
		return fmt.Errorf("%w: client %s has insufficient credit", apperrors.ErrValidation, clientID)
	}
	acc.CreditAvailable -= amount
	c.accounts[clientID] = acc
	return nil
}

func (c *ClientAccounts) DeductPoints(_ context.Context, clientID string, count int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	acc, ok := c.accounts[clientID]
	if !ok {
		return fmt.Errorf("%w: client %s", apperrors.ErrNotFound, clientID)
	}
	if acc.Points < count {
		return fmt.Errorf("%w: client %s has only %d points", apperrors.ErrValidation, clientID, acc.Points)
	}
	acc.Points -= count
	c.accounts[clientID] = acc
	return nil
}

// PayrollLog records submitted payroll instructions.
type PayrollLog struct {
	mu           sync.Mutex
	instructions []domain.PayrollInstruction
}

var _ portssvc.PayrollCollaborator = (*PayrollLog)(nil)

func (p *PayrollLog) SubmitDeduction(_ context.Context, instruction domain.PayrollInstruction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.instructions = append(p.instructions, instruction)
	return nil
}

// Instructions returns the submitted instructions in order.
func (p *PayrollLog) Instructions() []domain.PayrollInstruction {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.PayrollInstruction(nil), p.instructions...)
}
