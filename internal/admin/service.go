// Package admin is the session-based back office: login for admins and
// superusers, dashboard counters and the capability matrix the console UI
// renders its buttons from.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/platform/httpx"
	"github.com/sportportal/portal/internal/users"
)

// ErrSessionExpired is returned when a console session no longer maps to an
// account allowed in.
var ErrSessionExpired = fmt.Errorf("%w: admin session expired, log in again", httpx.ErrUnauthorized)

// Credentials checks email and password. auth.Service satisfies it.
type Credentials interface {
	Authenticate(ctx context.Context, email, password string) (*users.User, error)
}

// Accounts reloads an account by id.
type Accounts interface {
	Get(ctx context.Context, id int64) (*users.User, error)
}

// Counter reports a table size. Every content service satisfies it.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Tally names a Counter on the dashboard.
type Tally struct {
	Name    string
	Counter Counter
}

// Capability is what the console may offer for one resource.
type Capability struct {
	Resource  authz.Resource `json:"resource"`
	CanView   bool           `json:"can_view"`
	CanCreate bool           `json:"can_create"`
	CanEdit   bool           `json:"can_edit"`
	CanDelete bool           `json:"can_delete"`
	CanExport bool           `json:"can_export"`
}

// Service backs the admin console.
type Service struct {
	credentials Credentials
	accounts    Accounts
	tallies     []Tally
	logger      *slog.Logger
}

// NewService builds Service instance.
func NewService(credentials Credentials, accounts Accounts, tallies []Tally, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{credentials: credentials, accounts: accounts, tallies: tallies, logger: logger}
}

// Login admits active admins and superusers.
func (s *Service) Login(ctx context.Context, email, password string) (authz.Principal, error) {
	user, err := s.credentials.Authenticate(ctx, email, password)
	if err != nil {
		return authz.Principal{}, err
	}
	p := user.Principal()
	if _, err := authz.RequireAdminOrSuperuser(p); err != nil {
		s.logger.Warn("admin console login refused", slog.Int64("user_id", p.ID), slog.String("role", string(p.Role)))
		return authz.Principal{}, err
	}
	return p, nil
}

// Revalidate reloads the account behind a session so demotions and
// deactivations take effect on the next request.
func (s *Service) Revalidate(ctx context.Context, sessionPrincipal authz.Principal) (authz.Principal, error) {
	user, err := s.accounts.Get(ctx, sessionPrincipal.ID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return authz.Principal{}, ErrSessionExpired
		}
		return authz.Principal{}, err
	}
	p := user.Principal()
	if !p.Active {
		return authz.Principal{}, ErrSessionExpired
	}
	if _, err := authz.RequireAdminOrSuperuser(p); err != nil {
		return authz.Principal{}, ErrSessionExpired
	}
	return p, nil
}

// Dashboard counts every registered tally concurrently.
func (s *Service) Dashboard(ctx context.Context) (map[string]int, error) {
	counts := make([]int, len(s.tallies))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range s.tallies {
		g.Go(func() error {
			n, err := t.Counter.Count(gctx)
			if err != nil {
				return fmt.Errorf("admin: count %s: %w", t.Name, err)
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make(map[string]int, len(s.tallies))
	for i, t := range s.tallies {
		out[t.Name] = counts[i]
	}
	return out, nil
}

// Capabilities evaluates the role table for every resource.
func Capabilities(p authz.Principal) []Capability {
	resources := authz.Resources()
	out := make([]Capability, 0, len(resources))
	for _, res := range resources {
		out = append(out, Capability{
			Resource:  res,
			CanView:   authz.Allow(p, res, authz.ActionRead),
			CanCreate: authz.Allow(p, res, authz.ActionCreate),
			CanEdit:   authz.Allow(p, res, authz.ActionUpdate),
			CanDelete: authz.Allow(p, res, authz.ActionDelete),
			CanExport: authz.Allow(p, res, authz.ActionExport),
		})
	}
	return out
}
