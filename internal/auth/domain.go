// Package auth issues bearer tokens, resolves them into principals and
// serves the registration and login endpoints.
package auth

import (
	"context"
	"time"

	"github.com/sportportal/portal/internal/users"
)

// UserStore is the slice of the users repository auth depends on.
type UserStore interface {
	Get(ctx context.Context, id int64) (*users.User, error)
	GetByEmail(ctx context.Context, email string) (*users.User, error)
	Create(ctx context.Context, user users.NewUser) (*users.User, error)
	Update(ctx context.Context, id int64, changes users.Changes) (*users.User, error)
}

// Mailer queues outbound mail. jobs.Client satisfies it.
type Mailer interface {
	SendMail(ctx context.Context, to, subject, body string) error
}

// TokenKind separates access and refresh tokens.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
	KindReset   TokenKind = "reset"
)

// TokenPair is returned by login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Claims are the validated contents of a token.
type Claims struct {
	UserID    int64
	Kind      TokenKind
	JTI       string
	ExpiresAt time.Time
}

// RegisterInput is the self-service sign-up payload.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=100"`
	FullName  string `json:"full_name" validate:"required,min=1,max=255"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
	Role      string `json:"role" validate:"omitempty,oneof=athlete trainer observer"`
	SportType string `json:"sport_type" validate:"omitempty,max=100"`
	Location  string `json:"location" validate:"omitempty,max=255"`
}

// LoginInput is the credential payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput carries a refresh token.
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ResetRequestInput starts a password reset.
type ResetRequestInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetConfirmInput completes a password reset.
type ResetConfirmInput struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=100"`
}
