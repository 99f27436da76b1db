// Package transactions exposes the payment ledger read side plus the
// housekeeping that fails abandoned pending payments.
package transactions

import (
	"strings"
	"time"

	"github.com/sportportal/portal/internal/shared"
)

// Status of a payment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Type of a payment.
type Type string

const (
	TypePurchase     Type = "purchase"
	TypeDonation     Type = "donation"
	TypeSubscription Type = "subscription"
)

// ParseStatus accepts any casing.
func ParseStatus(raw string) (Status, bool) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusPending, StatusCompleted, StatusFailed:
		return s, true
	}
	return "", false
}

// ParseType accepts any casing.
func ParseType(raw string) (Type, bool) {
	switch t := Type(strings.ToLower(strings.TrimSpace(raw))); t {
	case TypePurchase, TypeDonation, TypeSubscription:
		return t, true
	}
	return "", false
}

// Transaction is a payment record. Amount is in minor units.
type Transaction struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Amount        int64     `json:"amount"`
	Type          Type      `json:"transaction_type"`
	Status        Status    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	ExternalID    string    `json:"external_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OwnerID is the paying user.
func (t Transaction) OwnerID() int64 { return t.UserID }

// ListFilter narrows List. Zero UserID means every user.
type ListFilter struct {
	UserID int64
	Status Status
	Type   Type
	shared.Window
}
