package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/platform/httpx"
	"github.com/sportportal/portal/internal/shared"
	"github.com/sportportal/portal/internal/users"
)

var (
	// ErrRegistrationDisabled is returned when self sign-up is switched off.
	ErrRegistrationDisabled = fmt.Errorf("%w: registration is disabled", httpx.ErrForbidden)
	// ErrEmailTaken is returned for duplicate sign-ups.
	ErrEmailTaken = fmt.Errorf("%w: email already registered", httpx.ErrDuplicate)
	// ErrTokenRevoked is returned for logged-out tokens.
	ErrTokenRevoked = fmt.Errorf("%w: token has been revoked", httpx.ErrUnauthorized)
)

// dummyHash keeps login timing similar for unknown emails.
var dummyHash, _ = users.GeneratePasswordHash("portal-timing-equaliser", bcrypt.MinCost)

// ServiceConfig wires optional collaborators.
type ServiceConfig struct {
	Registration bool
	HashCost     int
	Mailer       Mailer
	Revocations  Revocations
	Logger       *slog.Logger
}

// Service wraps authentication business rules.
type Service struct {
	users        UserStore
	tokens       *TokenIssuer
	mailer       Mailer
	revocations  Revocations
	registration bool
	cost         int
	logger       *slog.Logger
}

// NewService constructs a new Service.
func NewService(store UserStore, tokens *TokenIssuer, cfg ServiceConfig) *Service {
	cost := cfg.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:        store,
		tokens:       tokens,
		mailer:       cfg.Mailer,
		revocations:  cfg.Revocations,
		registration: cfg.Registration,
		cost:         cost,
		logger:       logger,
	}
}

// Register creates an account. Admin cannot be self-assigned and new
// accounts start as observers unless another role is requested.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*users.User, error) {
	if !s.registration {
		return nil, ErrRegistrationDisabled
	}
	role := authz.RoleObserver
	if in.Role != "" {
		parsed, ok := authz.ParseRole(in.Role)
		if !ok || parsed == authz.RoleAdmin {
			return nil, fmt.Errorf("%w: role %q cannot be self-assigned", httpx.ErrValidation, in.Role)
		}
		role = parsed
	}
	hash, err := users.GeneratePasswordHash(in.Password, s.cost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	user, err := s.users.Create(ctx, users.NewUser{
		Email:        normaliseEmail(in.Email),
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        in.Phone,
		SportType:    in.SportType,
		Location:     in.Location,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, httpx.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.mail(ctx, user.Email, "Welcome to the sport portal",
		fmt.Sprintf("Hello %s, your %s account is ready.", user.FullName, user.Role))
	return user, nil
}

// Authenticate validates email/password credentials. Inactive accounts are
// reported as such only after the password matched.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*users.User, error) {
	user, err := s.users.GetByEmail(ctx, normaliseEmail(email))
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			_ = users.CheckPassword(dummyHash, password)
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := users.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInactiveUser
	}
	return user, nil
}

// Login authenticates and issues a token pair.
func (s *Service) Login(ctx context.Context, in LoginInput) (TokenPair, error) {
	user, err := s.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return TokenPair{}, err
	}
	return s.tokens.Pair(user.ID)
}

// Refresh exchanges a refresh token for a new pair, revoking the old one.
func (s *Service) Refresh(ctx context.Context, raw string) (TokenPair, error) {
	claims, err := s.verify(ctx, raw, KindRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	user, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, err
	}
	if s.revocations != nil {
		if err := s.revocations.Revoke(ctx, claims.JTI, claims.ExpiresAt); err != nil {
			return TokenPair{}, fmt.Errorf("auth: revoke refresh token: %w", err)
		}
	}
	return s.tokens.Pair(user.ID)
}

// Resolve turns an access token into the calling user.
func (s *Service) Resolve(ctx context.Context, raw string) (*users.User, Claims, error) {
	claims, err := s.verify(ctx, raw, KindAccess)
	if err != nil {
		return nil, Claims{}, err
	}
	user, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return nil, Claims{}, err
	}
	return user, claims, nil
}

// Logout revokes the presented access token.
func (s *Service) Logout(ctx context.Context, claims Claims) error {
	if s.revocations == nil {
		return nil
	}
	return s.revocations.Revoke(ctx, claims.JTI, claims.ExpiresAt)
}

// RequestPasswordReset queues a reset mail when the account exists. The
// caller always gets the same answer.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, normaliseEmail(email))
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil
		}
		return err
	}
	if !user.IsActive {
		return nil
	}
	token, _, err := s.tokens.Issue(user.ID, KindReset)
	if err != nil {
		return err
	}
	s.mail(ctx, user.Email, "Reset your password", "Use this token to reset your password: "+token)
	return nil
}

// ResetPassword sets a new password using a reset token. Each token works
// once when a revocation store is configured.
func (s *Service) ResetPassword(ctx context.Context, in ResetConfirmInput) error {
	claims, err := s.verify(ctx, in.Token, KindReset)
	if err != nil {
		return err
	}
	user, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return err
	}
	hash, err := users.GeneratePasswordHash(in.NewPassword, s.cost)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}
	if _, err := s.users.Update(ctx, user.ID, users.Changes{PasswordHash: &hash}); err != nil {
		return err
	}
	if s.revocations != nil {
		if err := s.revocations.Revoke(ctx, claims.JTI, claims.ExpiresAt); err != nil {
			s.logger.Warn("revoke reset token", slog.Any("error", err))
		}
	}
	return nil
}

func (s *Service) verify(ctx context.Context, raw string, kind TokenKind) (Claims, error) {
	claims, err := s.tokens.Parse(raw, kind)
	if err != nil {
		return Claims{}, err
	}
	if s.revocations != nil {
		revoked, err := s.revocations.Revoked(ctx, claims.JTI)
		if err != nil {
			return Claims{}, fmt.Errorf("auth: check revocation: %w", err)
		}
		if revoked {
			return Claims{}, ErrTokenRevoked
		}
	}
	return claims, nil
}

func (s *Service) activeUser(ctx context.Context, id int64) (*users.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.ErrInactiveUser
	}
	return user, nil
}

func (s *Service) mail(ctx context.Context, to, subject, body string) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.SendMail(ctx, to, subject, body); err != nil {
		s.logger.Warn("queue mail", slog.String("subject", subject), slog.Any("error", err))
	}
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
