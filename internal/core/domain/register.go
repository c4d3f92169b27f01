package domain

import (
	"fmt"
	"time"
)

// DiscrepancyResolution is how a closed register's counting discrepancies were disposed of.
type DiscrepancyResolution string

const (
	ResolutionDeductSalary DiscrepancyResolution = "deduct_salary"
	ResolutionEcartCaisse  DiscrepancyResolution = "ecart_caisse"
	ResolutionApproved     DiscrepancyResolution = "approved"
)

// IsValid reports whether r is a known resolution kind.
func (r DiscrepancyResolution) IsValid() bool {
	switch r {
	case ResolutionDeductSalary, ResolutionEcartCaisse, ResolutionApproved:
		return true
	}
	return false
}

// Register is one session of a physical register, from open to close.
// A closed session is kept for audit and never reopened.
type Register struct {
	SessionID       string     `json:"sessionID"`
	RegisterID      string     `json:"registerID"`
	BranchID        string     `json:"branchID"`
	Name            string     `json:"name"`
	IsOpen          bool       `json:"isOpen"`
	OpenedAt        time.Time  `json:"openedAt"`
	OpenedBy        string     `json:"openedBy"`
	ClosedAt        *time.Time `json:"closedAt,omitempty"`
	ClosedBy        *string    `json:"closedBy,omitempty"`
	OpeningBalance  Balances   `json:"openingBalance"`
	CurrentBalance  Balances   `json:"currentBalance"`
	ExpectedBalance Balances   `json:"expectedBalance"`
	Discrepancies   Balances   `json:"discrepancies,omitempty"` // counted - expected, non-zero entries only

	DiscrepancyResolution    *DiscrepancyResolution `json:"discrepancyResolution,omitempty"`
	DiscrepancyApprovedBy    *string                `json:"discrepancyApprovedBy,omitempty"`
	DiscrepancyApprovedAt    *time.Time             `json:"discrepancyApprovedAt,omitempty"`
	DiscrepancyNotes         *string                `json:"discrepancyNotes,omitempty"`
	DiscrepancyTransactionID *string                `json:"discrepancyTransactionID,omitempty"`

	Version int64 `json:"version"`
	AuditFields
}

// HasDiscrepancies reports whether the close produced any mismatch.
func (r *Register) HasDiscrepancies() bool {
	return len(r.Discrepancies) > 0
}

// PendingResolution reports a closed session whose discrepancies were not yet disposed of.
func (r *Register) PendingResolution() bool {
	return !r.IsOpen && r.HasDiscrepancies() && r.DiscrepancyResolution == nil
}

// Reconciled reports whether the session's audit status is complete.
func (r *Register) Reconciled() bool {
	return !r.IsOpen && !r.PendingResolution()
}

// ApplyTender moves both the live and the expected balance of a method. Nothing changes
// when either balance would overflow.
func (r *Register) ApplyTender(method PaymentMethod, amount Money) error {
	current, err := r.CurrentBalance[method].Add(amount)
	if err != nil {
		return fmt.Errorf("current %s balance: %w", method, err)
	}
	expected, err := r.ExpectedBalance[method].Add(amount)
	if err != nil {
		return fmt.Errorf("expected %s balance: %w", method, err)
	}
	if r.CurrentBalance == nil {
		r.CurrentBalance = Balances{}
	}
	if r.ExpectedBalance == nil {
		r.ExpectedBalance = Balances{}
	}
	r.CurrentBalance[method] = current
	r.ExpectedBalance[method] = expected
	return nil
}

// ComputeDiscrepancies returns counted - expected for every payment method, keeping only
// non-zero deltas.
func ComputeDiscrepancies(expected, counted Balances) (Balances, error) {
	out := Balances{}
	for _, m := range PaymentMethods {
		delta, err := counted[m].Sub(expected[m])
		if err != nil {
			return nil, fmt.Errorf("%s discrepancy: %w", m, err)
		}
		if delta != 0 {
			out[m] = delta
		}
	}
	return out, nil
}

// Shortage returns the total missing amount (positive) across methods, net of overages.
func (r *Register) Shortage() (Money, error) {
	net, err := r.Discrepancies.Total()
	if err != nil {
		return 0, err
	}
	return Money(0).Sub(net)
}

// PayrollInstruction asks the payroll collaborator to deduct a register shortage from
// an employee's salary.
type PayrollInstruction struct {
	InstructionID string    `json:"instructionID"`
	RegisterID    string    `json:"registerID"`
	SessionID     string    `json:"sessionID"`
	EmployeeID    string    `json:"employeeID"`
	Amount        Money     `json:"amount"`
	Reason        string    `json:"reason"`
	Notes         string    `json:"notes"`
	ApprovedBy    string    `json:"approvedBy"`
	IssuedAt      time.Time `json:"issuedAt"`
}

// SettlementRecord remembers an applied checkout. IdempotencyKey is empty when the client
// sent none.
type SettlementRecord struct {
	IdempotencyKey string            `json:"idempotencyKey"`
	TransactionID  string            `json:"transactionID"`
	RegisterID     string            `json:"registerID"`
	SessionID      string            `json:"sessionID"`
	Outcome        SettlementOutcome `json:"outcome"`
	CreatedAt      time.Time         `json:"createdAt"`
}
