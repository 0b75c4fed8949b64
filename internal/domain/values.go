// internal/domain/values.go
package domain

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// EmailAddress is a validated email string.
type EmailAddress struct {
	value string
}

func NewEmailAddress(value string) (EmailAddress, error) {
	if value == "" {
		return EmailAddress{}, fmt.Errorf("%w: email address cannot be empty", ErrValidation)
	}
	if !emailPattern.MatchString(value) {
		return EmailAddress{}, fmt.Errorf("%w: invalid email address format", ErrValidation)
	}
	if len(value) > 254 {
		return EmailAddress{}, fmt.Errorf("%w: email address too long", ErrValidation)
	}
	return EmailAddress{value: value}, nil
}

func (e EmailAddress) String() string { return e.value }
func (e EmailAddress) IsZero() bool   { return e.value == "" }

// Progress is a completion percentage in [0, 100], kept to 2 decimal places.
type Progress struct {
	value float64
}

func NewProgress(value float64) (Progress, error) {
	if value < 0 || value > 100 {
		return Progress{}, fmt.Errorf("%w: progress must be between 0 and 100", ErrValidation)
	}
	return Progress{value: math.Round(value*100) / 100}, nil
}

func (p Progress) Value() float64    { return p.value }
func (p Progress) Complete() bool    { return p.value >= 100 }
func (p Progress) Less(o Progress) bool { return p.value < o.value }

// RefundPeriod is a refund window in days.
type RefundPeriod struct {
	Days int
}

func NewRefundPeriod(days int) (RefundPeriod, error) {
	if days < 0 {
		return RefundPeriod{}, fmt.Errorf("%w: refund period cannot be negative", ErrValidation)
	}
	return RefundPeriod{Days: days}, nil
}

// PaymentInfo carries payment method and transaction details.
type PaymentInfo struct {
	PaymentID     string
	Method        string
	TransactionID string
}

func NewPaymentInfo(paymentID, method, transactionID string) (PaymentInfo, error) {
	if paymentID == "" {
		return PaymentInfo{}, fmt.Errorf("%w: payment id must be a non-empty string", ErrValidation)
	}
	if method == "" {
		return PaymentInfo{}, fmt.Errorf("%w: payment method must be a non-empty string", ErrValidation)
	}
	return PaymentInfo{PaymentID: paymentID, Method: method, TransactionID: transactionID}, nil
}

// BoundedText validates a trimmed, non-empty string with a length cap. Titles,
// descriptions, policy names and conditions all share this shape.
func BoundedText(field, value string, max int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%w: %s cannot be empty", ErrValidation, field)
	}
	if len(trimmed) > max {
		return "", fmt.Errorf("%w: %s too long", ErrValidation, field)
	}
	return trimmed, nil
}
