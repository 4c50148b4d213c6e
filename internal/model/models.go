package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusPaid      PaymentStatus = "paid"
	StatusExpired   PaymentStatus = "expired"
	StatusCancelled PaymentStatus = "cancelled"
)

// Terminal reports whether a status admits no further transitions.
func (s PaymentStatus) Terminal() bool {
	return s == StatusPaid || s == StatusExpired || s == StatusCancelled
}

type Customer struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Document string `json:"document,omitempty"`
}

// PaymentRecord is one tracked charge. Status is never advanced by a
// background process; expiry is evaluated against ExpiresAt whenever the
// record is read.
type PaymentRecord struct {
	TransactionID string          `json:"transaction_id"`
	Payload       string          `json:"payload"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	OrderID       string          `json:"order_id"`
	Customer      Customer        `json:"customer"`
	Status        PaymentStatus   `json:"status"`
	ExpiresAt     time.Time       `json:"expires_at"`
	CreatedAt     time.Time       `json:"created_at"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
}

// Expired reports whether a pending record's window has closed at now.
func (r *PaymentRecord) Expired(now time.Time) bool {
	return r.Status == StatusPending && now.After(r.ExpiresAt)
}
