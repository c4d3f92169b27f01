package domain_test

import (
	"math"
	"testing"

	"github.com/SscSPs/pos_ledger_engine/internal/apperrors"
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyFromDecimal(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		precision int32
		want      domain.Money
		wantErr   bool
	}{
		{name: "two decimals", amount: "50.00", precision: 2, want: 5000},
		{name: "one decimal", amount: "0.1", precision: 2, want: 10},
		{name: "integer", amount: "12", precision: 2, want: 1200},
		{name: "negative", amount: "-5.25", precision: 2, want: -525},
		{name: "zero precision currency", amount: "1500", precision: 0, want: 1500},
		{name: "sub cent rejected", amount: "0.005", precision: 2, wantErr: true},
		{name: "fraction rejected for zero precision", amount: "10.5", precision: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.MoneyFromDecimal(decimal.RequireFromString(tt.amount), tt.precision)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrSubMinorUnit)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoneyFromDecimal_OutOfRange(t *testing.T) {
	for _, amount := range []string{
		"184467440737095516.17",
		"92233720368547758.08",
		"-92233720368547758.09",
	} {
		_, err := domain.MoneyFromDecimal(decimal.RequireFromString(amount), 2)
		assert.ErrorIs(t, err, domain.ErrMoneyOverflow, amount)
		assert.ErrorIs(t, err, apperrors.ErrValidation, amount)
	}

	got, err := domain.MoneyFromDecimal(decimal.RequireFromString("92233720368547758.07"), 2)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(math.MaxInt64), got)
}

func TestMoney_CheckedArithmetic(t *testing.T) {
	sum, err := domain.Money(2).Add(3)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(5), sum)

	_, err = domain.Money(math.MaxInt64).Add(1)
	assert.ErrorIs(t, err, domain.ErrMoneyOverflow)
	_, err = domain.Money(math.MinInt64).Add(-1)
	assert.ErrorIs(t, err, domain.ErrMoneyOverflow)

	diff, err := domain.Money(2).Sub(5)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(-3), diff)
	_, err = domain.Money(0).Sub(math.MinInt64)
	assert.ErrorIs(t, err, domain.ErrMoneyOverflow)
	_, err = domain.Money(math.MaxInt64).Sub(-1)
	assert.ErrorIs(t, err, domain.ErrMoneyOverflow)

	product, err := domain.Money(250).Mul(4)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(1000), product)
	_, err = domain.Money(1 << 62).Mul(2)
	assert.ErrorIs(t, err, domain.ErrMoneyOverflow)
	_, err = domain.Money(math.MinInt64).Mul(-1)
	assert.ErrorIs(t, err, domain.ErrMoneyOverflow)
}

func TestSumEntries_Overflow(t *testing.T) {
	entries := []domain.JournalEntry{
		{Amount: 1 << 62, IsDebit: true},
		{Amount: 1 << 62, IsDebit: true},
		{Amount: 5},
	}
	_, _, err := domain.SumEntries(entries)
	assert.ErrorIs(t, err, domain.ErrMoneyOverflow)
}

func TestBalances_TotalOverflow(t *testing.T) {
	total, err := domain.Balances{domain.PaymentCash: 100, domain.PaymentCard: -40}.Total()
	require.NoError(t, err)
	assert.Equal(t, domain.Money(60), total)

	_, err = domain.Balances{domain.PaymentCash: math.MaxInt64, domain.PaymentCard: 1}.Total()
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	req := domain.SettlementRequest{Tendered: domain.Balances{
		domain.PaymentCash: 1 << 62, domain.PaymentCard: 1 << 62, domain.PaymentBank: 1 << 62,
	}}
	_, err = req.TotalTendered()
	assert.ErrorIs(t, err, domain.ErrMoneyOverflow)
}

func TestRegister_ApplyTenderOverflowLeavesBalances(t *testing.T) {
	reg := domain.Register{
		CurrentBalance:  domain.Balances{domain.PaymentCash: math.MaxInt64 - 10},
		ExpectedBalance: domain.Balances{domain.PaymentCash: math.MaxInt64 - 10},
	}
	require.NoError(t, reg.ApplyTender(domain.PaymentCash, 10))
	assert.Equal(t, domain.Money(math.MaxInt64), reg.ExpectedBalance[domain.PaymentCash])

	err := reg.ApplyTender(domain.PaymentCash, 1)
	assert.ErrorIs(t, err, domain.ErrMoneyOverflow)
	assert.Equal(t, domain.Money(math.MaxInt64), reg.CurrentBalance[domain.PaymentCash])
	assert.Equal(t, domain.Money(math.MaxInt64), reg.ExpectedBalance[domain.PaymentCash])

	var empty domain.Register
	require.NoError(t, empty.ApplyTender(domain.PaymentCard, 500))
	assert.Equal(t, domain.Balances{domain.PaymentCard: 500}, empty.CurrentBalance)
}

func TestMoney_Decimal(t *testing.T) {
	assert.True(t, decimal.RequireFromString("50.25").Equal(domain.Money(5025).Decimal(2)))
	assert.True(t, decimal.RequireFromString("1500").Equal(domain.Money(1500).Decimal(0)))
	assert.Equal(t, domain.Money(500), domain.Money(-500).Abs())
}

func TestComputeDiscrepancies(t *testing.T) {
	expected := domain.Balances{domain.PaymentCash: 10000, domain.PaymentCard: 2500}
	counted := domain.Balances{domain.PaymentCash: 9500, domain.PaymentCard: 2500, domain.PaymentWave: 300}

	got, err := domain.ComputeDiscrepancies(expected, counted)
	require.NoError(t, err)
	assert.Equal(t, domain.Balances{domain.PaymentCash: -500, domain.PaymentWave: 300}, got)

	none, err := domain.ComputeDiscrepancies(expected, expected.Copy())
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = domain.ComputeDiscrepancies(domain.Balances{domain.PaymentCash: math.MinInt64}, domain.Balances{domain.PaymentCash: 1})
	assert.ErrorIs(t, err, domain.ErrMoneyOverflow)
}

func TestSettlementOutcome_NetTenders(t *testing.T) {
	outcome := domain.SettlementOutcome{
		Methods: domain.Balances{domain.PaymentCash: 6000, domain.PaymentCard: 0},
		Change:  1000,
	}
	assert.Equal(t, domain.Balances{domain.PaymentCash: 5000}, outcome.NetTenders())
	assert.Equal(t, domain.PaymentCash, outcome.DominantMethod())

	cardOverpaid := domain.SettlementOutcome{
		Methods: domain.Balances{domain.PaymentCard: 3000},
		Change:  200,
	}
	assert.Equal(t, domain.Balances{domain.PaymentCard: 3000, domain.PaymentCash: -200}, cardOverpaid.NetTenders())

	assert.Equal(t, domain.PaymentNotSpecified, domain.SettlementOutcome{}.DominantMethod())
}

func TestRegister_PendingResolution(t *testing.T) {
	reg := domain.Register{IsOpen: false, Discrepancies: domain.Balances{domain.PaymentCash: -500}}
	assert.True(t, reg.PendingResolution())
	assert.False(t, reg.Reconciled())
	shortage, err := reg.Shortage()
	require.NoError(t, err)
	assert.Equal(t, domain.Money(500), shortage)

	resolution := domain.ResolutionApproved
	reg.DiscrepancyResolution = &resolution
	assert.False(t, reg.PendingResolution())
	assert.True(t, reg.Reconciled())
}
