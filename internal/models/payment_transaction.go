package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment transaction states.
const (
	PaymentStateInitiated = "initiated"
	PaymentStateVerified  = "verified"
	PaymentStateFailed    = "failed"
)

// PaymentTransaction tracks one payment attempt from checkout initiation
// through gateway verification. The reference is the idempotency anchor:
// at most one order is ever recorded per reference.
type PaymentTransaction struct {
	BaseModel
	Reference     string     `gorm:"uniqueIndex" json:"reference"`
	UserID        *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	AmountSubunit int64      `json:"amount_subunit"`
	Currency      string     `json:"currency"`
	Metadata      []byte     `gorm:"type:jsonb" json:"metadata"`
	State         string     `gorm:"type:varchar(20);index" json:"state"`
	GatewayStatus string     `json:"gateway_status"`
	OrderID       *uuid.UUID `gorm:"type:uuid" json:"order_id"`
	VerifiedAt    *time.Time `json:"verified_at"`
}
