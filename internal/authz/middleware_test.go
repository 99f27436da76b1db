package authz

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportportal/portal/internal/observability"
	"github.com/sportportal/portal/internal/platform/httpx"
)

func serveWith(mw func(http.Handler) http.Handler, p *Principal) *httptest.ResponseRecorder {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodPost, "/news", nil)
	if p != nil {
		req = req.WithContext(ContextWithPrincipal(req.Context(), *p))
	}
	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)
	return rr
}

func TestMiddlewareRequireWritesForbiddenProblem(t *testing.T) {
	m := Middleware{Metrics: observability.NewMetrics()}
	rr := serveWith(m.Require(ResourceNews, ActionCreate), &Principal{ID: 1, Role: RoleTrainer})

	require.Equal(t, http.StatusForbidden, rr.Code)
	var problem httpx.ProblemDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &problem))
	assert.Equal(t, "you don't have permission to create news", problem.Detail)
}

func TestMiddlewareRequirePassesAllowed(t *testing.T) {
	m := Middleware{}
	rr := serveWith(m.Require(ResourceNews, ActionCreate), &Principal{ID: 1, Role: RoleAdmin})
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestMiddlewareWithoutPrincipalIsUnauthorized(t *testing.T) {
	m := Middleware{}
	rr := serveWith(m.Require(ResourceNews, ActionRead), nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
}

func TestMiddlewareRequireSuperuser(t *testing.T) {
	m := Middleware{}
	assert.Equal(t, http.StatusForbidden, serveWith(m.RequireSuperuser(), &Principal{Role: RoleAdmin}).Code)
	assert.Equal(t, http.StatusNoContent, serveWith(m.RequireSuperuser(), &Principal{Role: RoleObserver, Superuser: true}).Code)
}

func TestMiddlewareRequireRole(t *testing.T) {
	m := Middleware{}
	assert.Equal(t, http.StatusForbidden, serveWith(m.RequireRole(RoleAthlete), &Principal{Role: RoleObserver}).Code)
	assert.Equal(t, http.StatusNoContent, serveWith(m.RequireRole(RoleAthlete), &Principal{Role: RoleAthlete}).Code)
	assert.Equal(t, http.StatusNoContent, serveWith(m.RequireAdminOrSuperuser(), &Principal{Role: RoleAdmin}).Code)
}

func TestMiddlewareCheck(t *testing.T) {
	m := Middleware{}
	assert.NoError(t, m.Check(Principal{Role: RoleAthlete}, ResourceCart, ActionCreate))
	assert.ErrorIs(t, m.Check(Principal{Role: RoleObserver}, ResourceCart, ActionCreate), ErrForbidden)
}
