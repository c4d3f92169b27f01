package models

import "time"

// Settlement is a row of the settlements table; the outcome is stored as JSONB.
type Settlement struct {
	TransactionID  string    `db:"transaction_id"`
	IdempotencyKey *string   `db:"idempotency_key"`
	RegisterID     string    `db:"register_id"`
	SessionID      string    `db:"session_id"`
	Outcome        []byte    `db:"outcome"`
	CreatedAt      time.Time `db:"created_at"`
}

// PayrollAdjustment is a row of the payroll_adjustments table.
type PayrollAdjustment struct {
	InstructionID string    `db:"instruction_id"`
	RegisterID    string    `db:"register_id"`
	SessionID     string    `db:"session_id"`
	EmployeeID    string    `db:"employee_id"`
	Amount        int64     `db:"amount"`
	Reason        string    `db:"reason"`
	Notes         string    `db:"notes"`
	ApprovedBy    string    `db:"approved_by"`
	IssuedAt      time.Time `db:"issued_at"`
}
