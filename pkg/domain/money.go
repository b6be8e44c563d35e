package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	dErrors "eaglebank/pkg/domain-errors"
)

// DefaultCurrency is the ISO 4217 code all accounts use unless told otherwise.
const DefaultCurrency = "GBP"

// moneyScale is the number of decimal places every Money amount is stored at.
const moneyScale = 2

// Money is a value object pairing a fixed-scale decimal amount with an ISO
// 4217 currency code.
//
// Invariants:
//   - Amount is always stored rescaled to 2 decimal places, rounded half up
//     (on the half, away from zero: 100.125 → 100.13, -100.125 → -100.13)
//   - Binary operations require both operands to share a currency
//
// The zero value is not a valid Money; construct through NewMoney, GBP or Zero.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney builds a Money from an arbitrary-scale decimal, rescaling to two
// places half-up. The currency must be a non-blank ISO 4217 code.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if currency == "" {
		return Money{}, dErrors.New(dErrors.CodeValidation, "currency cannot be empty")
	}
	if len(currency) != 3 {
		return Money{}, dErrors.Newf(dErrors.CodeValidation, "invalid currency code: %q", currency)
	}
	return Money{amount: amount.Round(moneyScale), currency: currency}, nil
}

// MoneyFromString parses a decimal string such as "100.125" into a Money.
func MoneyFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, dErrors.Newf(dErrors.CodeValidation, "invalid amount: %q", amount)
	}
	return NewMoney(d, currency)
}

// GBP builds a Money in the default currency.
func GBP(amount decimal.Decimal) Money {
	return Money{amount: amount.Round(moneyScale), currency: DefaultCurrency}
}

// Zero returns a zero Money in the given currency.
func Zero(currency string) Money {
	return Money{amount: decimal.Zero.Round(moneyScale), currency: currency}
}

// Amount returns the stored two-decimal amount.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the ISO 4217 code.
func (m Money) Currency() string { return m.currency }

// Add returns m + other. Fails when currencies differ.
func (m Money) Add(other Money) (Money, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Sub returns m - other. Fails when currencies differ.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Mul returns m scaled by the given factor, rescaled back to two places.
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor).Round(moneyScale), currency: m.currency}
}

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// GreaterThan reports m > other. Fails when currencies differ.
func (m Money) GreaterThan(other Money) (bool, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.GreaterThan(other.amount), nil
}

// GreaterThanOrEqual reports m >= other. Fails when currencies differ.
func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.GreaterThanOrEqual(other.amount), nil
}

// LessThan reports m < other. Fails when currencies differ.
func (m Money) LessThan(other Money) (bool, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.LessThan(other.amount), nil
}

// Equal reports amount-and-currency equality. Unlike the comparison methods
// it never errors: two amounts in different currencies are simply not equal.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String renders the amount at its stored scale, e.g. "150.00 GBP".
func (m Money) String() string {
	return m.amount.StringFixed(moneyScale) + " " + m.currency
}

func (m Money) assertSameCurrency(other Money) error {
	if m.currency != other.currency {
		return dErrors.Newf(dErrors.CodeValidation,
			"cannot operate on different currencies: %s and %s", m.currency, other.currency)
	}
	return nil
}

// MarshalJSON renders Money as {"amount":"150.00","currency":"GBP"}. Amounts
// are strings to keep clients away from binary floating point.
func (m Money) MarshalJSON() ([]byte, error) {
	return fmt.Appendf(nil, `{"amount":%q,"currency":%q}`,
		m.amount.StringFixed(moneyScale), m.currency), nil
}
