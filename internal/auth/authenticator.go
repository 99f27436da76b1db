package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/platform/httpx"
)

type claimsContextKey struct{}

// Authenticator resolves bearer tokens into principals.
type Authenticator struct {
	service *Service
	logger  *slog.Logger
}

// NewAuthenticator constructs an Authenticator.
func NewAuthenticator(service *Service, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{service: service, logger: logger}
}

// Require rejects requests without a valid access token and stores the
// caller's principal on the context.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			httpx.RespondError(w, ErrInvalidToken)
			return
		}
		user, claims, err := a.service.Resolve(r.Context(), raw)
		if err != nil {
			if !httpx.IsClientError(err) {
				a.logger.Error("resolve token", slog.Any("error", err))
			}
			httpx.RespondError(w, err)
			return
		}
		ctx := authz.ContextWithPrincipal(r.Context(), user.Principal())
		ctx = context.WithValue(ctx, claimsContextKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the token claims stored by Require.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(claimsContextKey{}).(Claims)
	return c, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
