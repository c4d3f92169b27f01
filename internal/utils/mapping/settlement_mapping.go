package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	"github.com/SscSPs/pos_ledger_engine/internal/models"
)

// ToModelSettlement converts a domain SettlementRecord to a model Settlement
func ToModelSettlement(d domain.SettlementRecord) (models.Settlement, error) {
	outcome, err := json.Marshal(d.Outcome)
	if err != nil {
		return models.Settlement{}, fmt.Errorf("encoding settlement outcome: %w", err)
	}
	var key *string
	if d.IdempotencyKey != "" {
		key = &d.IdempotencyKey
	}
	return models.Settlement{
		TransactionID:  d.TransactionID,
		IdempotencyKey: key,
		RegisterID:     d.RegisterID,
		SessionID:      d.SessionID,
		Outcome:        outcome,
		CreatedAt:      d.CreatedAt,
	}, nil
}

// ToDomainSettlement converts a model Settlement to a domain SettlementRecord
func ToDomainSettlement(m models.Settlement) (domain.SettlementRecord, error) {
	var outcome domain.SettlementOutcome
	if err := json.Unmarshal(m.Outcome, &outcome); err != nil {
		return domain.SettlementRecord{}, fmt.Errorf("decoding settlement outcome: %w", err)
	}
	record := domain.SettlementRecord{
		TransactionID: m.TransactionID,
		RegisterID:    m.RegisterID,
		SessionID:     m.SessionID,
		Outcome:       outcome,
		CreatedAt:     m.CreatedAt,
	}
	if m.IdempotencyKey != nil {
		record.IdempotencyKey = *m.IdempotencyKey
	}
	return record, nil
}

// ToModelPayrollAdjustment converts a domain PayrollInstruction to a model PayrollAdjustment
func ToModelPayrollAdjustment(d domain.PayrollInstruction) models.PayrollAdjustment {
	return models.PayrollAdjustment{
		InstructionID: d.InstructionID,
		RegisterID:    d.RegisterID,
		SessionID:     d.SessionID,
		EmployeeID:    d.EmployeeID,
		Amount:        int64(d.Amount),
		Reason:        d.Reason,
		Notes:         d.Notes,
		ApprovedBy:    d.ApprovedBy,
		IssuedAt:      d.IssuedAt,
	}
}
