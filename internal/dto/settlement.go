package dto

import (
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CheckoutRequest is the service input for settling and applying a sale.
type CheckoutRequest struct {
	AmountDue      domain.Money
	Tendered       domain.Balances
	ClientID       *string
	UseStoreCredit bool
	UsePoints      bool
	Description    string
	IdempotencyKey string
}

// CheckoutBody is the JSON body for a checkout or a quote.
type CheckoutBody struct {
	AmountDue      decimal.Decimal            `json:"amountDue" binding:"required"`
	Tendered       map[string]decimal.Decimal `json:"tendered"`
	ClientID       *string                    `json:"clientID"`
	UseStoreCredit bool                       `json:"useStoreCredit"`
	UsePoints      bool                       `json:"usePoints"`
	Description    string                     `json:"description"`
}

// ToRequest converts the body into the service input.
func (b CheckoutBody) ToRequest(precision int32, idempotencyKey string) (CheckoutRequest, error) {
	amountDue, err := toMoney("amountDue", b.AmountDue, precision)
	if err != nil {
		return CheckoutRequest{}, err
	}
	tendered, err := toBalances("tendered", b.Tendered, precision)
	if err != nil {
		return CheckoutRequest{}, err
	}
	return CheckoutRequest{
		AmountDue:      amountDue,
		Tendered:       tendered,
		ClientID:       b.ClientID,
		UseStoreCredit: b.UseStoreCredit,
		UsePoints:      b.UsePoints,
		Description:    b.Description,
		IdempotencyKey: idempotencyKey,
	}, nil
}

// CheckoutResult is what the settlement service returns for an applied checkout.
type CheckoutResult struct {
	Transaction *domain.Transaction
	Session     *domain.Register
	Outcome     domain.SettlementOutcome
	// Replayed is true when the result comes from an earlier call with the same idempotency key.
	Replayed bool
}

// SettlementOutcomeResponse defines the data returned for a settlement outcome.
type SettlementOutcomeResponse struct {
	Methods            map[string]decimal.Decimal `json:"methods"`
	TotalPaid          decimal.Decimal            `json:"totalPaid"`
	Change             decimal.Decimal            `json:"change"`
	UsedStoreCredit    bool                       `json:"usedStoreCredit"`
	UsedPoints         bool                       `json:"usedPoints"`
	PointsConsumed     int64                      `json:"pointsConsumed"`
	PointsValue        decimal.Decimal            `json:"pointsValue"`
	StoreCreditCharged decimal.Decimal            `json:"storeCreditCharged"`
}

// CheckoutResponse defines the data returned for an applied checkout.
type CheckoutResponse struct {
	Outcome     SettlementOutcomeResponse `json:"outcome"`
	Transaction TransactionResponse       `json:"transaction"`
	SessionID   string                    `json:"sessionID"`
	Replayed    bool                      `json:"replayed"`
}

// ToSettlementOutcomeResponse converts a domain outcome.
func ToSettlementOutcomeResponse(o domain.SettlementOutcome, precision int32) SettlementOutcomeResponse {
	methods := FromBalances(o.Methods, precision)
	if methods == nil {
		methods = map[string]decimal.Decimal{}
	}
	return SettlementOutcomeResponse{
		Methods:            methods,
		TotalPaid:          o.TotalPaid.Decimal(precision),
		Change:             o.Change.Decimal(precision),
		UsedStoreCredit:    o.UsedStoreCredit,
		UsedPoints:         o.UsedPoints,
		PointsConsumed:     o.PointsConsumed,
		PointsValue:        o.PointsValue.Decimal(precision),
		StoreCreditCharged: o.StoreCreditCharged.Decimal(precision),
	}
}

// ToCheckoutResponse converts a checkout result.
func ToCheckoutResponse(r *CheckoutResult, precision int32) CheckoutResponse {
	resp := CheckoutResponse{
		Outcome:     ToSettlementOutcomeResponse(r.Outcome, precision),
		Transaction: ToTransactionResponse(r.Transaction, precision),
		Replayed:    r.Replayed,
	}
	if r.Session != nil {
		resp.SessionID = r.Session.SessionID
	}
	return resp
}
