package domain

import "time"

// TransactionType classifies the monetary movement a transaction records.
type TransactionType string

const (
	TransactionSale     TransactionType = "sale"
	TransactionExpense  TransactionType = "expense"
	TransactionIncome   TransactionType = "income"
	TransactionTransfer TransactionType = "transfer"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionSale, TransactionExpense, TransactionIncome, TransactionTransfer:
		return true
	}
	return false
}

// TransactionStatus is the audit lifecycle state of a transaction.
type TransactionStatus string

const (
	StatusOpen     TransactionStatus = "open"
	StatusLocked   TransactionStatus = "locked"
	StatusVerified TransactionStatus = "verified"
	StatusSecure   TransactionStatus = "secure"
)

// IsValid reports whether s is a known status.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusLocked, StatusVerified, StatusSecure:
		return true
	}
	return false
}

// allowedTransitions lists, per current status, the statuses it may move to.
// open -> open is handled separately as a no-op.
var allowedTransitions = map[TransactionStatus][]TransactionStatus{
	StatusOpen:     {StatusLocked, StatusSecure},
	StatusLocked:   {StatusVerified, StatusSecure},
	StatusVerified: {StatusLocked, StatusSecure},
	StatusSecure:   {},
}

// CanTransition reports whether a transaction in status from may move to status to.
func CanTransition(from, to TransactionStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsNoopTransition reports a transition that is accepted without any mutation.
func IsNoopTransition(from, to TransactionStatus) bool {
	return from == StatusOpen && to == StatusOpen
}

// Transaction is a single monetary movement and the journal entries posted for it.
type Transaction struct {
	TransactionID string            `json:"transactionID"`
	Amount        Money             `json:"amount"`
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	Description   string            `json:"description"`
	PaymentMethod PaymentMethod     `json:"paymentMethod"`
	BranchID      string            `json:"branchID"`
	RegisterID    *string           `json:"registerID,omitempty"` // register the movement went through, if any
	LockedAt      *time.Time        `json:"lockedAt,omitempty"`
	LockedBy      *string           `json:"lockedBy,omitempty"`
	VerifiedAt    *time.Time        `json:"verifiedAt,omitempty"`
	VerifiedBy    *string           `json:"verifiedBy,omitempty"`
	Entries       []JournalEntry    `json:"entries"` // posting order
	AuditFields
}

// Totals returns the debit and credit sums of the posted entries.
func (t *Transaction) Totals() (debits Money, credits Money, err error) {
	return SumEntries(t.Entries)
}

// IsBalanced reports whether debits equal credits.
func (t *Transaction) IsBalanced() bool {
	d, c, err := t.Totals()
	return err == nil && d == c
}

// ApplyTransition sets the new status and stamps the audit fields the lifecycle requires.
func (t *Transaction) ApplyTransition(to TransactionStatus, actor string, at time.Time) {
	t.Status = to
	switch to {
	case StatusLocked:
		t.LockedAt = &at
		t.LockedBy = &actor
	case StatusVerified:
		t.VerifiedAt = &at
		t.VerifiedBy = &actor
	}
	t.LastUpdatedAt = at
	t.LastUpdatedBy = actor
}
