package models

import (
	"fieldops/internal/lifecycle"
)

// User is the slice of the identity directory the engine needs: who a
// principal is, which role they hold and whether they may still be assigned.
type User struct {
	BaseModel
	Name     string         `gorm:"type:text;not null"          json:"name"`
	Email    string         `gorm:"type:text;uniqueIndex"       json:"email"`
	Role     lifecycle.Role `gorm:"type:text;not null;index"    json:"role"`
	IsActive bool           `gorm:"type:bool;default:true"      json:"isActive"`
}

func (u *User) Principal() lifecycle.Principal {
	return lifecycle.Principal{ID: u.ID, Role: u.Role}
}

// IsAssignableWorker reports whether u may be placed on an order.
func (u *User) IsAssignableWorker() bool {
	return u.IsActive && u.Role == lifecycle.RoleWorker
}
