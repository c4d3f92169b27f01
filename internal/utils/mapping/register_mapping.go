package mapping

import (
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	"github.com/SscSPs/pos_ledger_engine/internal/models"
)

// ToModelBalances converts domain balances to their JSONB form
func ToModelBalances(d domain.Balances) models.Balances {
	out := make(models.Balances, len(d))
	for m, v := range d {
		out[string(m)] = int64(v)
	}
	return out
}

// ToDomainBalances converts JSONB balances to domain balances
func ToDomainBalances(m models.Balances) domain.Balances {
	out := make(domain.Balances, len(m))
	for method, v := range m {
		out[domain.PaymentMethod(method)] = domain.Money(v)
	}
	return out
}

// ToModelRegisterSession converts a domain Register to a model RegisterSession
func ToModelRegisterSession(d domain.Register) models.RegisterSession {
	var resolution *string
	if d.DiscrepancyResolution != nil {
		r := string(*d.DiscrepancyResolution)
		resolution = &r
	}
	return models.RegisterSession{
		SessionID:                d.SessionID,
		RegisterID:               d.RegisterID,
		BranchID:                 d.BranchID,
		Name:                     d.Name,
		IsOpen:                   d.IsOpen,
		OpenedAt:                 d.OpenedAt,
		OpenedBy:                 d.OpenedBy,
		ClosedAt:                 d.ClosedAt,
		ClosedBy:                 d.ClosedBy,
		OpeningBalance:           ToModelBalances(d.OpeningBalance),
		CurrentBalance:           ToModelBalances(d.CurrentBalance),
		ExpectedBalance:          ToModelBalances(d.ExpectedBalance),
		Discrepancies:            ToModelBalances(d.Discrepancies),
		DiscrepancyResolution:    resolution,
		DiscrepancyApprovedBy:    d.DiscrepancyApprovedBy,
		DiscrepancyApprovedAt:    d.DiscrepancyApprovedAt,
		DiscrepancyNotes:         d.DiscrepancyNotes,
		DiscrepancyTransactionID: d.DiscrepancyTransactionID,
		Version:                  d.Version,
		AuditFields:              ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRegister converts a model RegisterSession to a domain Register
func ToDomainRegister(m models.RegisterSession) domain.Register {
	var resolution *domain.DiscrepancyResolution
	if m.DiscrepancyResolution != nil {
		r := domain.DiscrepancyResolution(*m.DiscrepancyResolution)
		resolution = &r
	}
	return domain.Register{
		SessionID:                m.SessionID,
		RegisterID:               m.RegisterID,
		BranchID:                 m.BranchID,
		Name:                     m.Name,
		IsOpen:                   m.IsOpen,
		OpenedAt:                 m.OpenedAt,
		OpenedBy:                 m.OpenedBy,
		ClosedAt:                 m.ClosedAt,
		ClosedBy:                 m.ClosedBy,
		OpeningBalance:           ToDomainBalances(m.OpeningBalance),
		CurrentBalance:           ToDomainBalances(m.CurrentBalance),
		ExpectedBalance:          ToDomainBalances(m.ExpectedBalance),
		Discrepancies:            ToDomainBalances(m.Discrepancies),
		DiscrepancyResolution:    resolution,
		DiscrepancyApprovedBy:    m.DiscrepancyApprovedBy,
		DiscrepancyApprovedAt:    m.DiscrepancyApprovedAt,
		DiscrepancyNotes:         m.DiscrepancyNotes,
		DiscrepancyTransactionID: m.DiscrepancyTransactionID,
		Version:                  m.Version,
		AuditFields:              ToDomainAuditFields(m.AuditFields),
	}
}
