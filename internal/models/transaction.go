package models

import "time"

// Transaction is a row of the ledger_transactions table. Amounts are minor units.
type Transaction struct {
	TransactionID string     `db:"transaction_id"`
	Amount        int64      `db:"amount"`
	Type          string     `db:"transaction_type"`
	Status        string     `db:"status"`
	Description   string     `db:"description"`
	PaymentMethod string     `db:"payment_method"`
	BranchID      string     `db:"branch_id"`
	RegisterID    *string    `db:"register_id"`
	LockedAt      *time.Time `db:"locked_at"`
	LockedBy      *string    `db:"locked_by"`
	VerifiedAt    *time.Time `db:"verified_at"`
	VerifiedBy    *string    `db:"verified_by"`
	AuditFields
}
