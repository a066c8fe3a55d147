package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Admin roles. Super admins bypass the permission map entirely.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
	RoleModerator  = "moderator"
)

// Capability names used by the permission guard. The map is open-ended so
// new capabilities can be granted without a redeploy.
const (
	PermManageUsers     = "manage_users"
	PermManageEnquiries = "manage_enquiries"
	PermManageCatalog   = "manage_catalog"
	PermManageBlogs     = "manage_blogs"
)

// PermissionMap is a capability name -> granted flag table stored as a JSON
// column.
type PermissionMap map[string]bool

// Value implements driver.Valuer for JSON storage.
func (p PermissionMap) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSON storage.
func (p *PermissionMap) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return errors.New("unsupported permission map column type")
	}
}

// Admin represents a back-office account. Admins live in a separate identity
// space from users: both username and email are unique lookup keys.
type Admin struct {
	ID           int64         `json:"id" gorm:"primaryKey"`
	Username     string        `json:"username" gorm:"uniqueIndex;size:100;not null"`
	Email        string        `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string        `json:"-" gorm:"size:255;not null"`
	FullName     string        `json:"full_name" gorm:"size:255;not null"`
	Role         string        `json:"role" gorm:"size:50;not null;default:admin"`
	IsActive     bool          `json:"is_active" gorm:"not null;default:true"`
	IsSuperAdmin bool          `json:"is_super_admin" gorm:"not null;default:false"`
	Permissions  PermissionMap `json:"permissions" gorm:"type:jsonb"`
	LastLogin    *time.Time    `json:"last_login"`
	CreatedAt    time.Time     `json:"created_at"`
	CreatedBy    *int64        `json:"created_by"`
}

// TableName returns the database table name for the Admin model.
func (Admin) TableName() string {
	return "admins"
}

// HasPermission reports whether the admin holds the named capability.
// Super admins hold every capability regardless of the map.
func (a *Admin) HasPermission(name string) bool {
	if a.IsSuperAdmin {
		return true
	}
	if a.Permissions == nil {
		return false
	}
	return a.Permissions[name]
}

// ValidRole reports whether role is one of the recognised admin roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSuperAdmin, RoleModerator:
		return true
	}
	return false
}

// AdminUpdate lists the mutable admin fields. Nil fields are left untouched
// by Apply.
type AdminUpdate struct {
	Email        *string        `json:"email,omitempty"`
	FullName     *string        `json:"full_name,omitempty"`
	Role         *string        `json:"role,omitempty"`
	IsActive     *bool          `json:"is_active,omitempty"`
	IsSuperAdmin *bool          `json:"is_super_admin,omitempty"`
	Permissions  *PermissionMap `json:"permissions,omitempty"`
}

// Apply merges the non-nil fields of the update into the admin.
func (a *Admin) Apply(update AdminUpdate) {
	if update.Email != nil {
		a.Email = *update.Email
	}
	if update.FullName != nil {
		a.FullName = *update.FullName
	}
	if update.Role != nil {
		a.Role = *update.Role
	}
	if update.IsActive != nil {
		a.IsActive = *update.IsActive
	}
	if update.IsSuperAdmin != nil {
		a.IsSuperAdmin = *update.IsSuperAdmin
	}
	if update.Permissions != nil {
		a.Permissions = *update.Permissions
	}
}
