package models

import "time"

// OneTimeCode is an ephemeral numeric credential proving control of an email
// address. A code is valid while it is unexpired and unused; multiple codes
// for the same email may be outstanding at once.
type OneTimeCode struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"index;size:255;not null"`
	Code      string    `json:"-" gorm:"size:6;not null"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	IsUsed    bool      `json:"is_used" gorm:"not null;default:false"`
}

// TableName returns the database table name for the OneTimeCode model.
func (OneTimeCode) TableName() string {
	return "otps"
}
