package news_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/news"
	"github.com/sportportal/portal/internal/platform/httpx"
	"github.com/sportportal/portal/internal/shared"
)

// newRouter mounts the handler like the app router does, with a fake
// authenticator that injects caller when it is non-nil.
func newRouter(repo *memRepo, caller *authz.Principal) http.Handler {
	handler := news.NewHandler(nil, news.NewService(repo, nil, nil), authz.Middleware{})
	authenticate := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if caller == nil {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(authz.ContextWithPrincipal(r.Context(), *caller)))
		})
	}
	r := chi.NewRouter()
	r.Route("/news", func(r chi.Router) {
		handler.MountPublic(r)
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
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

func TestHandlerPublicListAndDetail(t *testing.T) {
	repo := newMemRepo(seedArticle(1, admin.ID, "Boxing gala"), seedArticle(2, admin.ID, "Tennis open"))
	h := newRouter(repo, nil)

	rr := do(h, http.MethodGet, "/news/?search=boxing&limit=5", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var page shared.Page[news.Article]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 5, page.Limit)

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/news/2", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/news/77", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/news/?category=chess", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/news/?limit=500", "").Code)
}

func TestHandlerWritesNeedAuthentication(t *testing.T) {
	h := newRouter(newMemRepo(), nil)
	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodPost, "/news/", `{"title":"t","content":"c"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodGet, "/news/my", "").Code)
}

func TestHandlerTrainerCannotCreate(t *testing.T) {
	h := newRouter(newMemRepo(), &coach)
	rr := do(h, http.MethodPost, "/news/", `{"title":"t","content":"c"}`)
	require.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "you don't have permission to create news")
}

func TestHandlerAdminLifecycle(t *testing.T) {
	repo := newMemRepo()
	h := newRouter(repo, &admin)

	rr := do(h, http.MethodPost, "/news/", `{"title":"Wrestling cup","content":"report","category":"WRESTLING"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created news.Article
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "wrestling-cup", created.Slug)

	assert.Equal(t, http.StatusOK, do(h, http.MethodPut, "/news/1", `{"snippet":"short"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPut, "/news/1", `{"image_url":"not a url"}`).Code)

	rr = do(h, http.MethodGet, "/news/export", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "wrestling-cup")

	rr = do(h, http.MethodPost, "/news/bulk-delete", `{"ids":[1]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"deleted":1}`, rr.Body.String())
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/news/bulk-delete", `{"ids":[]}`).Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodDelete, "/news/1", "").Code)
}
