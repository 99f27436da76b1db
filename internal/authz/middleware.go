package authz

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sportportal/portal/internal/observability"
	"github.com/sportportal/portal/internal/platform/httpx"
)

// Middleware wires the gates into chi route groups. The principal must
// already be on the request context.
type Middleware struct {
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// Require allows the request through when every action is permitted on resource.
func (m Middleware) Require(resource Resource, actions ...Action) func(http.Handler) http.Handler {
	return m.gate(resource, func(p Principal) error {
		_, err := Require(p, resource, actions...)
		return err
	})
}

// RequireRole allows superusers and the listed roles.
func (m Middleware) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return m.gate("", func(p Principal) error {
		_, err := RequireRole(p, roles...)
		return err
	})
}

// RequireSuperuser allows only superusers.
func (m Middleware) RequireSuperuser() func(http.Handler) http.Handler {
	return m.gate("", func(p Principal) error {
		_, err := RequireSuperuser(p)
		return err
	})
}

// RequireAdminOrSuperuser allows admins and superusers.
func (m Middleware) RequireAdminOrSuperuser() func(http.Handler) http.Handler {
	return m.gate("", func(p Principal) error {
		_, err := RequireAdminOrSuperuser(p)
		return err
	})
}

func (m Middleware) gate(resource Resource, check func(Principal) error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			if err := check(p); err != nil {
				m.Metrics.ObserveAuthz(string(resource), "deny")
				if m.Logger != nil && !errors.Is(err, ErrForbidden) {
					m.Logger.Error("authz gate", slog.Any("error", err))
				}
				httpx.RespondError(w, err)
				return
			}
			m.Metrics.ObserveAuthz(string(resource), "allow")
			next.ServeHTTP(w, r)
		})
	}
}

// Check is the in-handler counterpart of Require for decisions that depend
// on the request body or path. It records the outcome and returns the error
// for the caller to render.
func (m Middleware) Check(p Principal, resource Resource, actions ...Action) error {
	_, err := Require(p, resource, actions...)
	if err != nil {
		m.Metrics.ObserveAuthz(string(resource), "deny")
		return err
	}
	m.Metrics.ObserveAuthz(string(resource), "allow")
	return nil
}
