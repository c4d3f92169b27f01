package dto

import (
	"errors"
	"fmt"

	"github.com/SscSPs/pos_ledger_engine/internal/apperrors"
	"github.com/SscSPs/pos_ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// toMoney converts a request amount in major units, reporting sub-minor-unit input as a
// validation error.
func toMoney(field string, amount decimal.Decimal, precision int32) (domain.Money, error) {
	m, err := domain.MoneyFromDecimal(amount, precision)
	if errors.Is(err, apperrors.ErrValidation) {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", apperrors.ErrValidation, field, err)
	}
	return m, nil
}

// toBalances converts a method -> major-unit map into domain balances.
func toBalances(field string, in map[string]decimal.Decimal, precision int32) (domain.Balances, error) {
	out := make(domain.Balances, len(in))
	for method, amount := range in {
		pm := domain.PaymentMethod(method)
		if !pm.IsValid() {
			return nil, fmt.Errorf("%w: %s: unknown payment method %q", apperrors.ErrValidation, field, method)
		}
		m, err := toMoney(field+"."+method, amount, precision)
		if err != nil {
			return nil, err
		}
		out[pm] = m
	}
	return out, nil
}

// FromBalances renders domain balances in major units.
func FromBalances(in domain.Balances, precision int32) map[string]decimal.Decimal {
	if in == nil {
		return nil
	}
	out := make(map[string]decimal.Decimal, len(in))
	for method, amount := range in {
		out[string(method)] = amount.Decimal(precision)
	}
	return out
}
