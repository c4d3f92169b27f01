package dto

import (
	"time"

	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OpenRegisterRequest is the service input for opening a register session.
type OpenRegisterRequest struct {
	Name           string
	BranchID       string
	OpeningBalance domain.Balances
}

// OpenRegisterBody is the JSON body for opening a register.
type OpenRegisterBody struct {
	Name           string                     `json:"name" binding:"required"`
	BranchID       string                     `json:"branchID" binding:"required"`
	OpeningBalance map[string]decimal.Decimal `json:"openingBalance"`
}

// ToRequest converts the body into the service input.
func (b OpenRegisterBody) ToRequest(precision int32) (OpenRegisterRequest, error) {
	opening, err := toBalances("openingBalance", b.OpeningBalance, precision)
	if err != nil {
		return OpenRegisterRequest{}, err
	}
	return OpenRegisterRequest{Name: b.Name, BranchID: b.BranchID, OpeningBalance: opening}, nil
}

// RecordTenderBody is the JSON body for recording a tender movement.
type RecordTenderBody struct {
	Method string          `json:"method" binding:"required,paymentmethod"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ToTender converts the body into a method and amount.
func (b RecordTenderBody) ToTender(precision int32) (domain.PaymentMethod, domain.Money, error) {
	amount, err := toMoney("amount", b.Amount, precision)
	if err != nil {
		return "", 0, err
	}
	return domain.PaymentMethod(b.Method), amount, nil
}

// CloseRegisterBody is the JSON body for closing a register.
type CloseRegisterBody struct {
	Counted map[string]decimal.Decimal `json:"counted"`
}

// ToCounted converts the counted balances.
func (b CloseRegisterBody) ToCounted(precision int32) (domain.Balances, error) {
	return toBalances("counted", b.Counted, precision)
}

// ResolveDiscrepancyRequest is the service input for disposing of register discrepancies.
type ResolveDiscrepancyRequest struct {
	Resolution domain.DiscrepancyResolution
	Notes      string
}

// ResolveDiscrepancyBody is the JSON body for resolving discrepancies.
type ResolveDiscrepancyBody struct {
	Resolution string `json:"resolution" binding:"required,oneof=deduct_salary ecart_caisse approved"`
	Notes      string `json:"notes"`
}

// ToRequest converts the body into the service input.
func (b ResolveDiscrepancyBody) ToRequest() ResolveDiscrepancyRequest {
	return ResolveDiscrepancyRequest{
		Resolution: domain.DiscrepancyResolution(b.Resolution),
		Notes:      b.Notes,
	}
}

// RegisterResponse defines the data returned for a register session.
type RegisterResponse struct {
	SessionID                string                     `json:"sessionID"`
	RegisterID               string                     `json:"registerID"`
	BranchID                 string                     `json:"branchID"`
	Name                     string                     `json:"name"`
	IsOpen                   bool                       `json:"isOpen"`
	Reconciled               bool                       `json:"reconciled"`
	OpenedAt                 time.Time                  `json:"openedAt"`
	OpenedBy                 string                     `json:"openedBy"`
	ClosedAt                 *time.Time                 `json:"closedAt,omitempty"`
	ClosedBy                 *string                    `json:"closedBy,omitempty"`
	OpeningBalance           map[string]decimal.Decimal `json:"openingBalance"`
	CurrentBalance           map[string]decimal.Decimal `json:"currentBalance"`
	ExpectedBalance          map[string]decimal.Decimal `json:"expectedBalance"`
	Discrepancies            map[string]decimal.Decimal `json:"discrepancies,omitempty"`
	DiscrepancyResolution    *string                    `json:"discrepancyResolution,omitempty"`
	DiscrepancyApprovedBy    *string                    `json:"discrepancyApprovedBy,omitempty"`
	DiscrepancyApprovedAt    *time.Time                 `json:"discrepancyApprovedAt,omitempty"`
	DiscrepancyNotes         *string                    `json:"discrepancyNotes,omitempty"`
	DiscrepancyTransactionID *string                    `json:"discrepancyTransactionID,omitempty"`
}

// ToRegisterResponse converts a domain.Register to a RegisterResponse DTO.
func ToRegisterResponse(r *domain.Register, precision int32) RegisterResponse {
	resp := RegisterResponse{
		SessionID:                r.SessionID,
		RegisterID:               r.RegisterID,
		BranchID:                 r.BranchID,
		Name:                     r.Name,
		IsOpen:                   r.IsOpen,
		Reconciled:               r.Reconciled(),
		OpenedAt:                 r.OpenedAt,
		OpenedBy:                 r.OpenedBy,
		ClosedAt:                 r.ClosedAt,
		ClosedBy:                 r.ClosedBy,
		OpeningBalance:           FromBalances(r.OpeningBalance, precision),
		CurrentBalance:           FromBalances(r.CurrentBalance, precision),
		ExpectedBalance:          FromBalances(r.ExpectedBalance, precision),
		DiscrepancyApprovedBy:    r.DiscrepancyApprovedBy,
		DiscrepancyApprovedAt:    r.DiscrepancyApprovedAt,
		DiscrepancyNotes:         r.DiscrepancyNotes,
		DiscrepancyTransactionID: r.DiscrepancyTransactionID,
	}
	if r.HasDiscrepancies() {
		resp.Discrepancies = FromBalances(r.Discrepancies, precision)
	}
	if r.DiscrepancyResolution != nil {
		resolution := string(*r.DiscrepancyResolution)
		resp.DiscrepancyResolution = &resolution
	}
	return resp
}
