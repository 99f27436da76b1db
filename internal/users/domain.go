// Package users manages portal accounts: profiles, the superuser-only
// management endpoints and the lookups the auth layer builds on.
package users

import (
	"time"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/shared"
)

// User is a portal account.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	Phone        string     `json:"phone"`
	SportType    string     `json:"sport_type"`
	Location     string     `json:"location"`
	Bio          string     `json:"bio"`
	Role         authz.Role `json:"role"`
	IsSuperuser  bool       `json:"is_superuser"`
	IsActive     bool       `json:"is_active"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// OwnerID makes a profile owned by the account itself.
func (u User) OwnerID() int64 { return u.ID }

// Principal projects the account onto the authorization core.
func (u User) Principal() authz.Principal {
	return authz.Principal{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		Superuser: u.IsSuperuser,
		Active:    u.IsActive,
	}
}

// ListFilter narrows user listings.
type ListFilter struct {
	Role     *authz.Role
	IsActive *bool
	Search   string
	// OnlyID restricts the listing to a single account.
	OnlyID int64
	shared.Window
}

// NewUser is the persisted shape of a created account.
type NewUser struct {
	Email        string
	FullName     string
	Phone        string
	SportType    string
	Location     string
	Bio          string
	PasswordHash string
	Role         authz.Role
	IsSuperuser  bool
	IsActive     bool
}

// Changes lists the columns an update touches. Nil fields are left alone.
type Changes struct {
	Email        *string
	FullName     *string
	Phone        *string
	SportType    *string
	Location     *string
	Bio          *string
	PasswordHash *string
	Role         *authz.Role
	IsSuperuser  *bool
	IsActive     *bool
}

// ProfileInput is what a user may change about themselves.
type ProfileInput struct {
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	FullName  *string `json:"full_name" validate:"omitempty,min=1,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	SportType *string `json:"sport_type" validate:"omitempty,max=100"`
	Location  *string `json:"location" validate:"omitempty,max=255"`
	Bio       *string `json:"bio" validate:"omitempty,max=2000"`
	Password  *string `json:"password" validate:"omitempty,min=8,max=100"`
}

// CreateInput is the superuser create payload.
type CreateInput struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	FullName    string `json:"full_name" validate:"required,min=1,max=255"`
	Phone       string `json:"phone" validate:"omitempty,max=20"`
	SportType   string `json:"sport_type" validate:"omitempty,max=100"`
	Location    string `json:"location" validate:"omitempty,max=255"`
	Bio         string `json:"bio" validate:"omitempty,max=2000"`
	Password    string `json:"password" validate:"required,min=8,max=100"`
	Role        string `json:"role" validate:"omitempty,oneof=admin athlete trainer observer"`
	IsSuperuser bool   `json:"is_superuser"`
	IsActive    *bool  `json:"is_active"`
}

// AdminUpdateInput is the superuser update payload: profile fields plus the
// privileged flags.
type AdminUpdateInput struct {
	ProfileInput
	Role        *string `json:"role" validate:"omitempty,oneof=admin athlete trainer observer"`
	IsSuperuser *bool   `json:"is_superuser"`
	IsActive    *bool   `json:"is_active"`
}
