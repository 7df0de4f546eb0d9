package models

import "github.com/google/uuid"

// Order records a purchased data bundle. UserID is nil for guest orders,
// which carry GuestEmail/GuestName instead.
type Order struct {
	BaseModel
	UserID           *uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	User             *User       `json:"user,omitempty"`
	GuestEmail       string      `json:"guest_email,omitempty"`
	GuestName        string      `json:"guest_name,omitempty"`
	ProviderName     string      `json:"provider_name"`
	ProviderLogo     string      `json:"provider_logo"`
	ProviderColor    string      `json:"provider_color"`
	BundleID         string      `json:"bundle_id"`
	DataAmount       string      `json:"data_amount"`
	Price            float64     `json:"price"`
	RecipientNumber  string      `json:"recipient_number"`
	PaymentNetwork   string      `json:"payment_network"`
	PaymentReference string      `gorm:"uniqueIndex" json:"payment_reference"`
	Status           OrderStatus `gorm:"type:varchar(20)" json:"status"`
}
