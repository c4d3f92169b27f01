package services

import (
	"fmt"

	"github.com/SscSPs/pos_ledger_engine/internal/apperrors"
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/pos_ledger_engine/internal/core/ports/services"
)

// paymentReconciler settles checkout requests. It holds no state.
type paymentReconciler struct{}

// NewPaymentReconciler creates the settlement calculator.
func NewPaymentReconciler() portssvc.PaymentReconcilerSvc {
	return paymentReconciler{}
}

var _ portssvc.PaymentReconcilerSvc = paymentReconciler{}

// Settle applies, in order and stopping at the first that applies: store credit, loyalty
// points, standard tender.
func (paymentReconciler) Settle(req domain.SettlementRequest) (domain.SettlementOutcome, error) {
	if err := validateSettlementRequest(req); err != nil {
		return domain.SettlementOutcome{}, err
	}

	if req.UseStoreCredit && req.ClientHasCredit {
		return domain.SettlementOutcome{
			Methods:            domain.Balances{},
			TotalPaid:          req.AmountDue,
			UsedStoreCredit:    true,
			StoreCreditCharged: req.AmountDue,
		}, nil
	}

	totalTendered, err := req.TotalTendered()
	if err != nil {
		return domain.SettlementOutcome{}, fmt.Errorf("tendered total: %w", err)
	}

	if req.UsePoints && req.ClientPointsBalance > 0 {
		pointsNeeded := ceilDiv(int64(req.AmountDue), int64(req.PointValue))
		consumed := min(pointsNeeded, req.ClientPointsBalance)

		if consumed == pointsNeeded {
			return domain.SettlementOutcome{
				Methods:        domain.Balances{},
				TotalPaid:      req.AmountDue,
				UsedPoints:     true,
				PointsConsumed: consumed,
				PointsValue:    req.AmountDue,
			}, nil
		}

		// Fewer points than needed are worth less than the amount due.
		covered, err := req.PointValue.Mul(consumed)
		if err != nil {
			return domain.SettlementOutcome{}, fmt.Errorf("points value: %w", err)
		}
		remaining := req.AmountDue - covered
		if totalTendered < remaining {
			return domain.SettlementOutcome{}, &apperrors.InsufficientPaymentError{Shortfall: int64(remaining - totalTendered)}
		}
		totalPaid, err := totalTendered.Add(covered)
		if err != nil {
			return domain.SettlementOutcome{}, fmt.Errorf("total paid: %w", err)
		}
		return domain.SettlementOutcome{
			Methods:        req.Tendered.Copy(),
			TotalPaid:      totalPaid,
			Change:         totalTendered - remaining,
			UsedPoints:     true,
			PointsConsumed: consumed,
			PointsValue:    covered,
		}, nil
	}

	if totalTendered < req.AmountDue {
		return domain.SettlementOutcome{}, &apperrors.InsufficientPaymentError{Shortfall: int64(req.AmountDue - totalTendered)}
	}
	return domain.SettlementOutcome{
		Methods:   req.Tendered.Copy(),
		TotalPaid: totalTendered,
		Change:    totalTendered - req.AmountDue,
	}, nil
}

func validateSettlementRequest(req domain.SettlementRequest) error {
	if req.AmountDue <= 0 {
		return fmt.Errorf("%w: amountDue must be positive", apperrors.ErrValidation)
	}
	for method, amount := range req.Tendered {
		if !method.IsValid() {
			return fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, method)
		}
		if amount < 0 {
			return fmt.Errorf("%w: tendered %s must not be negative", apperrors.ErrValidation, method)
		}
	}
	if req.UsePoints {
		if req.PointValue <= 0 {
			return fmt.Errorf("%w: point value must be positive", apperrors.ErrValidation)
		}
		if req.ClientPointsBalance < 0 {
			return fmt.Errorf("%w: points balance must not be negative", apperrors.ErrValidation)
		}
	}
	return nil
}

// ceilDiv divides two positive integers rounding up without overflowing near math.MaxInt64.
func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}
