package models

// User represents a registered customer or administrator.
type User struct {
	BaseModel
	Email        string  `gorm:"uniqueIndex" json:"email"`
	FullName     string  `json:"full_name"`
	PasswordHash string  `json:"-"`
	IsAdmin      bool    `json:"is_admin"`
	Orders       []Order `json:"orders,omitempty"`
}
