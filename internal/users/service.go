package users

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/platform/httpx"
	"github.com/sportportal/portal/internal/shared"
)

var (
	// ErrSelfLockout blocks a superuser from revoking their own flag.
	ErrSelfLockout = fmt.Errorf("%w: cannot remove your own superuser status", httpx.ErrValidation)
	// ErrDeleteSelf blocks deleting the calling account.
	ErrDeleteSelf = fmt.Errorf("%w: cannot delete yourself", httpx.ErrValidation)
	// ErrDeleteSuperuser blocks deleting another superuser.
	ErrDeleteSuperuser = fmt.Errorf("%w: cannot delete another superuser", httpx.ErrValidation)
)

// AuditRecorder persists privileged changes. *shared.AuditLogger satisfies it.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles account business rules.
type Service struct {
	repo   Repository
	audit  AuditRecorder
	logger *slog.Logger
	cost   int
}

// NewService builds Service instance.
func NewService(repo Repository, audit AuditRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, audit: audit, logger: logger, cost: bcrypt.DefaultCost}
}

// WithHashCost lowers bcrypt cost, for tests.
func (s *Service) WithHashCost(cost int) *Service {
	s.cost = cost
	return s
}

// HashPassword hashes a plain password with the service's bcrypt cost.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := GeneratePasswordHash(password, s.cost)
	if err != nil {
		return "", fmt.Errorf("users: hash password: %w", err)
	}
	return hash, nil
}

// Me returns the caller's own account.
func (s *Service) Me(ctx context.Context, p authz.Principal) (*User, error) {
	return s.repo.Get(ctx, p.ID)
}

// UpdateMe applies profile changes to the caller. Privileged flags are not
// reachable from this path.
func (s *Service) UpdateMe(ctx context.Context, p authz.Principal, in ProfileInput) (*User, error) {
	changes, err := s.profileChanges(in)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, p.ID, changes)
}

// List returns accounts visible to p. Owner-scoped roles only see themselves.
func (s *Service) List(ctx context.Context, p authz.Principal, filter ListFilter) ([]User, int, error) {
	if _, err := authz.Require(p, authz.ResourceUsers, authz.ActionRead); err != nil {
		return nil, 0, err
	}
	if authz.OwnerScoped(p, authz.ResourceUsers) {
		filter.OnlyID = p.ID
	}
	return s.repo.List(ctx, filter)
}

// Get returns one account, enforcing ownership for owner-scoped roles.
func (s *Service) Get(ctx context.Context, p authz.Principal, id int64) (*User, error) {
	return authz.LoadScoped(ctx, s.repo.Get, id, p, authz.ResourceUsers, authz.ActionRead)
}

// Create adds an account. Superuser only.
func (s *Service) Create(ctx context.Context, p authz.Principal, in CreateInput) (*User, error) {
	if _, err := authz.RequireSuperuser(p); err != nil {
		return nil, err
	}
	role := authz.RoleObserver
	if in.Role != "" {
		parsed, ok := authz.ParseRole(in.Role)
		if !ok {
			return nil, fmt.Errorf("%w: unknown role %q", httpx.ErrValidation, in.Role)
		}
		role = parsed
	}
	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	user, err := s.repo.Create(ctx, NewUser{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		FullName:     in.FullName,
		Phone:        in.Phone,
		SportType:    in.SportType,
		Location:     in.Location,
		Bio:          in.Bio,
		PasswordHash: hash,
		Role:         role,
		IsSuperuser:  in.IsSuperuser,
		IsActive:     active,
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, p, "user_created", user.ID, map[string]any{"role": user.Role, "is_superuser": user.IsSuperuser})
	return user, nil
}

// Update changes any account field. Superuser only. A superuser clearing
// their own flag is rejected before anything else is consulted.
func (s *Service) Update(ctx context.Context, p authz.Principal, id int64, in AdminUpdateInput) (*User, error) {
	if p.Superuser && id == p.ID && in.IsSuperuser != nil && !*in.IsSuperuser {
		return nil, ErrSelfLockout
	}
	if _, err := authz.RequireSuperuser(p); err != nil {
		return nil, err
	}

	changes, err := s.profileChanges(in.ProfileInput)
	if err != nil {
		return nil, err
	}
	if in.Role != nil {
		role, ok := authz.ParseRole(*in.Role)
		if !ok {
			return nil, fmt.Errorf("%w: unknown role %q", httpx.ErrValidation, *in.Role)
		}
		changes.Role = &role
	}
	changes.IsSuperuser = in.IsSuperuser
	changes.IsActive = in.IsActive

	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	after, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	if before.Role != after.Role {
		s.record(ctx, p, "role_changed", id, map[string]any{"from": before.Role, "to": after.Role})
	}
	if before.IsSuperuser != after.IsSuperuser {
		s.record(ctx, p, "superuser_changed", id, map[string]any{"from": before.IsSuperuser, "to": after.IsSuperuser})
	}
	if before.IsActive != after.IsActive {
		s.record(ctx, p, "active_changed", id, map[string]any{"from": before.IsActive, "to": after.IsActive})
	}
	return after, nil
}

// Delete removes an account. Superuser only, never self, never another
// superuser.
func (s *Service) Delete(ctx context.Context, p authz.Principal, id int64) error {
	if _, err := authz.RequireSuperuser(p); err != nil {
		return err
	}
	if id == p.ID {
		return ErrDeleteSelf
	}
	target, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if target.IsSuperuser {
		return ErrDeleteSuperuser
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, p, "user_deleted", id, map[string]any{"email": target.Email})
	return nil
}

// Count returns the number of accounts.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) profileChanges(in ProfileInput) (Changes, error) {
	c := Changes{
		FullName:  in.FullName,
		Phone:     in.Phone,
		SportType: in.SportType,
		Location:  in.Location,
		Bio:       in.Bio,
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		c.Email = &email
	}
	if in.Password != nil {
		hash, err := s.HashPassword(*in.Password)
		if err != nil {
			return Changes{}, err
		}
		c.PasswordHash = &hash
	}
	return c, nil
}

func (s *Service) record(ctx context.Context, p authz.Principal, action string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  p.ID,
		Action:   action,
		Entity:   string(authz.ResourceUsers),
		EntityID: id,
		Meta:     meta,
	})
	if err != nil {
		s.logger.Warn("audit user change", slog.String("action", action), slog.Int64("user_id", id), slog.Any("error", err))
	}
}
