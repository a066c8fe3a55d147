// Package models contains data models for the identity service.
package models

import "time"

// User represents a registered account on the storefront side.
// Users are created unverified and may only authenticate once an OTP
// verification has flipped IsVerified.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	UserName     string    `json:"user_name" gorm:"size:100;not null"`
	BusinessName string    `json:"business_name,omitempty" gorm:"size:255"`
	Address      string    `json:"address,omitempty"`
	Phone        string    `json:"phone,omitempty" gorm:"size:50"`
	IsVerified   bool      `json:"is_verified" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// UserUpdate lists the profile fields a user may change. Nil fields are
// left untouched by Apply.
type UserUpdate struct {
	UserName     *string `json:"user_name,omitempty"`
	BusinessName *string `json:"business_name,omitempty"`
	Address      *string `json:"address,omitempty"`
	Phone        *string `json:"phone,omitempty"`
}

// Apply merges the non-nil fields of the update into the user.
func (u *User) Apply(update UserUpdate) {
	if update.UserName != nil {
		u.UserName = *update.UserName
	}
	if update.BusinessName != nil {
		u.BusinessName = *update.BusinessName
	}
	if update.Address != nil {
		u.Address = *update.Address
	}
	if update.Phone != nil {
		u.Phone = *update.Phone
	}
}
