package services

import "github.com/SscSPs/pos_ledger_engine/internal/core/domain"

// PaymentReconcilerSvc turns a checkout request into a settlement outcome. It is pure and
// safe for concurrent use.
type PaymentReconcilerSvc interface {
	Settle(req domain.SettlementRequest) (domain.SettlementOutcome, error)
}
