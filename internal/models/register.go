package models

import "time"

// Balances is the JSONB form of per-method amounts.
type Balances map[string]int64

// RegisterSession is a row of the register_sessions table.
type RegisterSession struct {
	SessionID       string     `db:"session_id"`
	RegisterID      string     `db:"register_id"`
	BranchID        string     `db:"branch_id"`
	Name            string     `db:"name"`
	IsOpen          bool       `db:"is_open"`
	OpenedAt        time.Time  `db:"opened_at"`
	OpenedBy        string     `db:"opened_by"`
	ClosedAt        *time.Time `db:"closed_at"`
	ClosedBy        *string    `db:"closed_by"`
	OpeningBalance  Balances   `db:"opening_balance"`
	CurrentBalance  Balances   `db:"current_balance"`
	ExpectedBalance Balances   `db:"expected_balance"`
	Discrepancies   Balances   `db:"discrepancies"`

	DiscrepancyResolution    *string    `db:"discrepancy_resolution"`
	DiscrepancyApprovedBy    *string    `db:"discrepancy_approved_by"`
	DiscrepancyApprovedAt    *time.Time `db:"discrepancy_approved_at"`
	DiscrepancyNotes         *string    `db:"discrepancy_notes"`
	DiscrepancyTransactionID *string    `db:"discrepancy_transaction_id"`

	Version int64 `db:"version"`
	AuditFields
}
