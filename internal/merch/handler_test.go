package merch_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/merch"
)

func newRouter(repo *memRepo, caller authz.Principal) http.Handler {
	handler := merch.NewHandler(nil, merch.NewService(repo, nil, nil), authz.Middleware{})
	r := chi.NewRouter()
	r.Route("/merches", func(r chi.Router) {
		handler.MountPublic(r)
		r.Group(func(r chi.Router) {
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					next.ServeHTTP(w, req.WithContext(authz.ContextWithPrincipal(req.Context(), caller)))
				})
			})
			handler.MountRoutes(r)
		})
	})
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandlerCatalogueFilters(t *testing.T) {
	sold := item(2, seller.ID, "Old boots")
	sold.IsAvailable = false
	h := newRouter(newMemRepo(item(1, seller.ID, "Gloves"), sold), observer)

	rr := do(h, http.MethodGet, "/merches/?is_available=true", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"total":1`)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/merches/?is_available=maybe", "").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/merches/2", "").Code)
}

func TestHandlerRivalGetsForbidden(t *testing.T) {
	h := newRouter(newMemRepo(item(1, seller.ID, "Gloves")), rival)
	rr := do(h, http.MethodPut, "/merches/1", `{"stock":0}`)
	require.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "you can only update your own merches")
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodDelete, "/merches/9", "").Code)
}

func TestHandlerCreateValidation(t *testing.T) {
	h := newRouter(newMemRepo(), seller)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/merches/", `{"name":"x","brand":"y","price":0}`).Code)
	assert.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/merches/", `{"name":"x","brand":"y","price":5}`).Code)
	assert.Equal(t, http.StatusForbidden, do(h, http.MethodGet, "/merches/export", "").Code)
}

func TestHandlerAdminExport(t *testing.T) {
	h := newRouter(newMemRepo(item(1, seller.ID, "Gloves")), admin)
	rr := do(h, http.MethodGet, "/merches/export", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "id,name,brand,price,stock,is_available,owner_id,created_at")
	assert.Contains(t, rr.Body.String(), "Gloves")
}
