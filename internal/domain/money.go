// internal/domain/money.go
package domain

import (
	"fmt"
	"math"
)

// Money is a non-negative amount in a single currency.
type Money struct {
	Amount   float64
	Currency string
}

// NewMoney validates the amount and the 3-letter currency code.
func NewMoney(amount float64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, fmt.Errorf("%w: money amount cannot be negative", ErrValidation)
	}
	if len(currency) != 3 {
		return Money{}, fmt.Errorf("%w: currency must be a 3-letter code", ErrValidation)
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// Add returns the sum of two amounts in the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: cannot add %s to %s", ErrValidation, other.Currency, m.Currency)
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// Subtract returns the difference; a negative result is rejected.
func (m Money) Subtract(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: cannot subtract %s from %s", ErrValidation, other.Currency, m.Currency)
	}
	result := m.Amount - other.Amount
	if result < 0 {
		return Money{}, fmt.Errorf("%w: result cannot be negative", ErrValidation)
	}
	return Money{Amount: result, Currency: m.Currency}, nil
}

// Multiply scales the amount by a non-negative factor.
func (m Money) Multiply(factor float64) (Money, error) {
	if factor < 0 {
		return Money{}, fmt.Errorf("%w: factor cannot be negative", ErrValidation)
	}
	return Money{Amount: m.Amount * factor, Currency: m.Currency}, nil
}

func (m Money) IsZero() bool { return m.Currency == "" }

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.Amount, m.Currency)
}

// Equal compares amounts to cent precision.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && math.Abs(m.Amount-other.Amount) < 0.005
}
