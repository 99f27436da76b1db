package cart_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/cart"
)

func newRouter(caller authz.Principal) http.Handler {
	handler := cart.NewHandler(nil, cart.NewService(newMemRepo(shop), shop), authz.Middleware{})
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(authz.ContextWithPrincipal(req.Context(), caller)))
		})
	})
	r.Route("/cart", handler.MountRoutes)
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandlerCartFlow(t *testing.T) {
	h := newRouter(buyer)

	require.Equal(t, http.StatusOK, do(h, http.MethodPost, "/cart/add/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodPost, "/cart/add/404", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPut, "/cart/1", `{"quantity":0}`).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodPut, "/cart/1", `{"quantity":5}`).Code)

	rr := do(h, http.MethodGet, "/cart/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"total":1000`)

	assert.Equal(t, http.StatusOK, do(h, http.MethodDelete, "/cart/remove/1", "").Code)
	assert.Contains(t, do(h, http.MethodGet, "/cart/", "").Body.String(), `"items":[]`)
}

func TestHandlerObserverHasNoCart(t *testing.T) {
	h := newRouter(observer)
	assert.Equal(t, http.StatusForbidden, do(h, http.MethodGet, "/cart/", "").Code)
	assert.Equal(t, http.StatusForbidden, do(h, http.MethodPost, "/cart/add/1", "").Code)
}
