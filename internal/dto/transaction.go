package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/pos_ledger_engine/internal/apperrors"
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest is the service input for creating a ledger transaction.
type CreateTransactionRequest struct {
	Amount        domain.Money
	Type          domain.TransactionType
	Description   string
	PaymentMethod domain.PaymentMethod
	BranchID      string
	RegisterID    *string
}

// CreateTransactionBody is the JSON body for creating a transaction.
type CreateTransactionBody struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Type          string          `json:"type" binding:"required,oneof=sale expense income transfer"`
	Description   string          `json:"description" binding:"required"`
	PaymentMethod string          `json:"paymentMethod" binding:"omitempty,paymentmethod"`
	BranchID      string          `json:"branchID" binding:"required"`
	RegisterID    *string         `json:"registerID"`
}

// ToRequest converts the body into the service input.
func (b CreateTransactionBody) ToRequest(precision int32) (CreateTransactionRequest, error) {
	amount, err := toMoney("amount", b.Amount, precision)
	if err != nil {
		return CreateTransactionRequest{}, err
	}
	method := domain.PaymentMethod(b.PaymentMethod)
	if method == "" {
		method = domain.PaymentNotSpecified
	}
	return CreateTransactionRequest{
		Amount:        amount,
		Type:          domain.TransactionType(b.Type),
		Description:   b.Description,
		PaymentMethod: method,
		BranchID:      b.BranchID,
		RegisterID:    b.RegisterID,
	}, nil
}

// JournalEntryInput is one posting to append to a transaction.
type JournalEntryInput struct {
	AccountType string
	Amount      domain.Money
	IsDebit     bool
	Description string
	Date        *time.Time
}

// PostEntriesRequest is the service input for appending journal entries.
type PostEntriesRequest struct {
	Entries []JournalEntryInput
}

// JournalEntryBody is one posting in a PostEntriesBody.
type JournalEntryBody struct {
	AccountType string          `json:"accountType" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	IsDebit     bool            `json:"isDebit"`
	Description string          `json:"description"`
	Date        *time.Time      `json:"date"`
}

// PostEntriesBody is the JSON body for posting journal entries.
type PostEntriesBody struct {
	Entries []JournalEntryBody `json:"entries" binding:"required,min=1,dive"`
}

// ToRequest converts the body into the service input.
func (b PostEntriesBody) ToRequest(precision int32) (PostEntriesRequest, error) {
	entries := make([]JournalEntryInput, len(b.Entries))
	for i, e := range b.Entries {
		amount, err := toMoney(fmt.Sprintf("entries[%d].amount", i), e.Amount, precision)
		if err != nil {
			return PostEntriesRequest{}, err
		}
		entries[i] = JournalEntryInput{
			AccountType: e.AccountType,
			Amount:      amount,
			IsDebit:     e.IsDebit,
			Description: e.Description,
			Date:        e.Date,
		}
	}
	return PostEntriesRequest{Entries: entries}, nil
}

// TransitionBody is the JSON body for a status transition.
type TransitionBody struct {
	Status string `json:"status" binding:"required,oneof=open locked verified secure"`
}

// ToStatus validates and returns the target status.
func (b TransitionBody) ToStatus() (domain.TransactionStatus, error) {
	status := domain.TransactionStatus(b.Status)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, b.Status)
	}
	return status, nil
}

// ListTransactionsParams holds parameters for listing transactions.
type ListTransactionsParams struct {
	BranchID  string  `form:"branchId" binding:"required"`
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResult is a page of transactions returned by the ledger service.
type ListTransactionsResult struct {
	Transactions []domain.Transaction
	NextToken    *string
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID     string          `json:"entryID"`
	Sequence    int             `json:"sequence"`
	AccountType string          `json:"accountType"`
	Amount      decimal.Decimal `json:"amount"`
	IsDebit     bool            `json:"isDebit"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	CreatedBy   string          `json:"createdBy"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string                 `json:"transactionID"`
	Amount        decimal.Decimal        `json:"amount"`
	Type          string                 `json:"type"`
	Status        string                 `json:"status"`
	Description   string                 `json:"description"`
	PaymentMethod string                 `json:"paymentMethod"`
	BranchID      string                 `json:"branchID"`
	RegisterID    *string                `json:"registerID,omitempty"`
	CreatedBy     string                 `json:"createdBy"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
	LockedAt      *time.Time             `json:"lockedAt,omitempty"`
	LockedBy      *string                `json:"lockedBy,omitempty"`
	VerifiedAt    *time.Time             `json:"verifiedAt,omitempty"`
	VerifiedBy    *string                `json:"verifiedBy,omitempty"`
	TotalDebits   decimal.Decimal        `json:"totalDebits"`
	TotalCredits  decimal.Decimal        `json:"totalCredits"`
	Entries       []JournalEntryResponse `json:"entries"`
}

// ListTransactionsResponse is a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to a TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction, precision int32) TransactionResponse {
	debits, credits, _ := txn.Totals()
	entries := make([]JournalEntryResponse, len(txn.Entries))
	for i, e := range txn.Entries {
		entries[i] = JournalEntryResponse{
			EntryID:     e.EntryID,
			Sequence:    e.Sequence,
			AccountType: e.AccountType,
			Amount:      e.Amount.Decimal(precision),
			IsDebit:     e.IsDebit,
			Description: e.Description,
			Date:        e.EntryDate,
			CreatedBy:   e.CreatedBy,
			CreatedAt:   e.CreatedAt,
		}
	}
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		Amount:        txn.Amount.Decimal(precision),
		Type:          string(txn.Type),
		Status:        string(txn.Status),
		Description:   txn.Description,
		PaymentMethod: string(txn.PaymentMethod),
		BranchID:      txn.BranchID,
		RegisterID:    txn.RegisterID,
		CreatedBy:     txn.CreatedBy,
		CreatedAt:     txn.CreatedAt,
		UpdatedAt:     txn.LastUpdatedAt,
		LockedAt:      txn.LockedAt,
		LockedBy:      txn.LockedBy,
		VerifiedAt:    txn.VerifiedAt,
		VerifiedBy:    txn.VerifiedBy,
		TotalDebits:   debits.Decimal(precision),
		TotalCredits:  credits.Decimal(precision),
		Entries:       entries,
	}
}

// ToListTransactionsResponse converts a result page.
func ToListTransactionsResponse(result *ListTransactionsResult, precision int32) ListTransactionsResponse {
	responses := make([]TransactionResponse, len(result.Transactions))
	for i := range result.Transactions {
		responses[i] = ToTransactionResponse(&result.Transactions[i], precision)
	}
	return ListTransactionsResponse{Transactions: responses, NextToken: result.NextToken}
}
