package services_test

import (
	"errors"
	"math"
	"testing"

	"github.com/SscSPs/pos_ledger_engine/internal/apperrors"
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	"github.com/SscSPs/pos_ledger_engine/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentReconciler_Settle(t *testing.T) {
	reconciler := services.NewPaymentReconciler()

	tests := []struct {
		name      string
		req       domain.SettlementRequest
		want      domain.SettlementOutcome
		shortfall int64
	}{
		{
			name: "cash with change",
			req:  domain.SettlementRequest{AmountDue: 5000, Tendered: domain.Balances{domain.PaymentCash: 6000}},
			want: domain.SettlementOutcome{
				Methods:   domain.Balances{domain.PaymentCash: 6000},
				TotalPaid: 6000,
				Change:    1000,
			},
		},
		{
			name: "exact split tender",
			req: domain.SettlementRequest{AmountDue: 5000, Tendered: domain.Balances{
				domain.PaymentCash: 2000, domain.PaymentCard: 3000,
			}},
			want: domain.SettlementOutcome{
				Methods:   domain.Balances{domain.PaymentCash: 2000, domain.PaymentCard: 3000},
				TotalPaid: 5000,
			},
		},
		{
			name:      "standard tender short",
			req:       domain.SettlementRequest{AmountDue: 5000, Tendered: domain.Balances{domain.PaymentCash: 4000}},
			shortfall: 1000,
		},
		{
			name: "fully settled by points",
			req:  domain.SettlementRequest{AmountDue: 5000, UsePoints: true, ClientPointsBalance: 10000, PointValue: 1},
			want: domain.SettlementOutcome{
				Methods:        domain.Balances{},
				TotalPaid:      5000,
				UsedPoints:     true,
				PointsConsumed: 5000,
				PointsValue:    5000,
			},
		},
		{
			name: "points partially cover, tender too small",
			req: domain.SettlementRequest{AmountDue: 5000, UsePoints: true, ClientPointsBalance: 2000, PointValue: 1,
				Tendered: domain.Balances{domain.PaymentCash: 2500}},
			shortfall: 500,
		},
		{
			name: "points partially cover, tender completes with change",
			req: domain.SettlementRequest{AmountDue: 5000, UsePoints: true, ClientPointsBalance: 2000, PointValue: 1,
				Tendered: domain.Balances{domain.PaymentCash: 3500}},
			want: domain.SettlementOutcome{
				Methods:        domain.Balances{domain.PaymentCash: 3500},
				TotalPaid:      5500,
				Change:         500,
				UsedPoints:     true,
				PointsConsumed: 2000,
				PointsValue:    2000,
			},
		},
		{
			name: "points needed round up",
			req:  domain.SettlementRequest{AmountDue: 1001, UsePoints: true, ClientPointsBalance: 1000, PointValue: 5},
			want: domain.SettlementOutcome{
				Methods:        domain.Balances{},
				TotalPaid:      1001,
				UsedPoints:     true,
				PointsConsumed: 201,
				PointsValue:    1001,
			},
		},
		{
			name: "store credit wins over points and tender",
			req: domain.SettlementRequest{AmountDue: 5000, UseStoreCredit: true, ClientHasCredit: true,
				UsePoints: true, ClientPointsBalance: 10000, PointValue: 1,
				Tendered: domain.Balances{domain.PaymentCash: 6000}},
			want: domain.SettlementOutcome{
				Methods:            domain.Balances{},
				TotalPaid:          5000,
				UsedStoreCredit:    true,
				StoreCreditCharged: 5000,
			},
		},
		{
			name: "store credit requested without credit falls back to tender",
			req: domain.SettlementRequest{AmountDue: 5000, UseStoreCredit: true, ClientHasCredit: false,
				Tendered: domain.Balances{domain.PaymentCard: 5000}},
			want: domain.SettlementOutcome{
				Methods:   domain.Balances{domain.PaymentCard: 5000},
				TotalPaid: 5000,
			},
		},
		{
			name: "points requested with empty balance falls back to tender",
			req: domain.SettlementRequest{AmountDue: 5000, UsePoints: true, ClientPointsBalance: 0, PointValue: 1,
				Tendered: domain.Balances{domain.PaymentWave: 5000}},
			want: domain.SettlementOutcome{
				Methods:   domain.Balances{domain.PaymentWave: 5000},
				TotalPaid: 5000,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reconciler.Settle(tt.req)
			if tt.shortfall > 0 {
				var insufficient *apperrors.InsufficientPaymentError
				require.True(t, errors.As(err, &insufficient), "expected InsufficientPaymentError, got %v", err)
				assert.Equal(t, tt.shortfall, insufficient.Shortfall)
				assert.ErrorIs(t, err, apperrors.ErrInsufficientPayment)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaymentReconciler_CoveredNeverDisagreesWithNeeded(t *testing.T) {
	reconciler := services.NewPaymentReconciler()
	for due := domain.Money(1); due <= 250; due++ {
		for _, pv := range []domain.Money{1, 3, 7, 25} {
			out, err := reconciler.Settle(domain.SettlementRequest{AmountDue: due, UsePoints: true, ClientPointsBalance: 1 << 20, PointValue: pv})
			require.NoError(t, err)
			assert.Equal(t, due, out.TotalPaid)
			assert.GreaterOrEqual(t, domain.Money(out.PointsConsumed)*pv, due)
			assert.Less(t, domain.Money(out.PointsConsumed-1)*pv, due, "one point fewer must not cover due=%d pv=%d", due, pv)
		}
	}
}

func TestPaymentReconciler_Overflow(t *testing.T) {
	reconciler := services.NewPaymentReconciler()

	// Three tenders of 2^62 wrap to a small total in int64.
	_, err := reconciler.Settle(domain.SettlementRequest{AmountDue: 100, Tendered: domain.Balances{
		domain.PaymentCash: 1 << 62, domain.PaymentCard: 1 << 62, domain.PaymentBank: 1 << 62,
	}})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrMoneyOverflow)

	// A point worth nearly the whole range still settles without wrapping.
	out, err := reconciler.Settle(domain.SettlementRequest{
		AmountDue: math.MaxInt64, UsePoints: true, ClientPointsBalance: 10, PointValue: math.MaxInt64 - 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.PointsConsumed)
	assert.Equal(t, domain.Money(math.MaxInt64), out.PointsValue)

	// Partial points plus tender whose sum exceeds the range.
	_, err = reconciler.Settle(domain.SettlementRequest{
		AmountDue: math.MaxInt64, UsePoints: true, ClientPointsBalance: 1, PointValue: math.MaxInt64 / 2,
		Tendered: domain.Balances{domain.PaymentCash: math.MaxInt64},
	})
	assert.ErrorIs(t, err, domain.ErrMoneyOverflow)
}

func TestPaymentReconciler_Validation(t *testing.T) {
	reconciler := services.NewPaymentReconciler()

	_, err := reconciler.Settle(domain.SettlementRequest{AmountDue: 0})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = reconciler.Settle(domain.SettlementRequest{AmountDue: 100, Tendered: domain.Balances{domain.PaymentCash: -1}})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = reconciler.Settle(domain.SettlementRequest{AmountDue: 100, Tendered: domain.Balances{"cheque": 100}})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = reconciler.Settle(domain.SettlementRequest{AmountDue: 100, UsePoints: true, ClientPointsBalance: 10, PointValue: 0})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
