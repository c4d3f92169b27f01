package mapping

import (
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	"github.com/SscSPs/pos_ledger_engine/internal/models"
)

// ToModelTransaction converts a domain Transaction header to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		Amount:        int64(d.Amount),
		Type:          string(d.Type),
		Status:        string(d.Status),
		Description:   d.Description,
		PaymentMethod: string(d.PaymentMethod),
		BranchID:      d.BranchID,
		RegisterID:    d.RegisterID,
		LockedAt:      d.LockedAt,
		LockedBy:      d.LockedBy,
		VerifiedAt:    d.VerifiedAt,
		VerifiedBy:    d.VerifiedBy,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction without entries
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		Amount:        domain.Money(m.Amount),
		Type:          domain.TransactionType(m.Type),
		Status:        domain.TransactionStatus(m.Status),
		Description:   m.Description,
		PaymentMethod: domain.PaymentMethod(m.PaymentMethod),
		BranchID:      m.BranchID,
		RegisterID:    m.RegisterID,
		LockedAt:      m.LockedAt,
		LockedBy:      m.LockedBy,
		VerifiedAt:    m.VerifiedAt,
		VerifiedBy:    m.VerifiedBy,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:       d.EntryID,
		TransactionID: d.TransactionID,
		Sequence:      d.Sequence,
		AccountType:   d.AccountType,
		Amount:        int64(d.Amount),
		IsDebit:       d.IsDebit,
		Description:   d.Description,
		EntryDate:     d.EntryDate,
		CreatedBy:     d.CreatedBy,
		CreatedAt:     d.CreatedAt,
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:       m.EntryID,
		TransactionID: m.TransactionID,
		Sequence:      m.Sequence,
		AccountType:   m.AccountType,
		Amount:        domain.Money(m.Amount),
		IsDebit:       m.IsDebit,
		Description:   m.Description,
		EntryDate:     m.EntryDate,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}

// ToDomainJournalEntrySlice converts a slice of model entries to domain entries
func ToDomainJournalEntrySlice(ms []models.JournalEntry) []domain.JournalEntry {
	ds := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntry(m)
	}
	return ds
}
