package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/sportportal/portal/internal/admin"
	"github.com/sportportal/portal/internal/aichat"
	"github.com/sportportal/portal/internal/auth"
	"github.com/sportportal/portal/internal/cart"
	"github.com/sportportal/portal/internal/education"
	"github.com/sportportal/portal/internal/favorites"
	"github.com/sportportal/portal/internal/merch"
	"github.com/sportportal/portal/internal/news"
	"github.com/sportportal/portal/internal/observability"
	"github.com/sportportal/portal/internal/platform/httpx"
	"github.com/sportportal/portal/internal/transactions"
	"github.com/sportportal/portal/internal/users"
	"github.com/sportportal/portal/internal/vacancies"
	"github.com/sportportal/portal/jobs"
)

// RouterParams groups dependencies for building the HTTP router. Nil
// handlers are skipped.
type RouterParams struct {
	Logger        *slog.Logger
	Config        *Config
	Metrics       *observability.Metrics
	Authenticator *auth.Authenticator

	AuthHandler         *auth.Handler
	UsersHandler        *users.Handler
	NewsHandler         *news.Handler
	MerchHandler        *merch.Handler
	CartHandler         *cart.Handler
	FavoritesHandler    *favorites.Handler
	EducationHandler    *education.Handler
	VacanciesHandler    *vacancies.Handler
	AIChatHandler       *aichat.Handler
	TransactionsHandler *transactions.Handler
	AdminHandler        *admin.Handler
	JobHandler          *jobs.Handler
}

// catalogue is a resource with anonymous reads and authenticated writes.
type catalogue interface {
	MountPublic(r chi.Router)
	MountRoutes(r chi.Router)
}

// private is a resource reachable only with a bearer token.
type private interface {
	MountRoutes(r chi.Router)
}

// NewRouter constructs the chi.Router with portal defaults.
func NewRouter(params RouterParams) http.Handler {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusMethodNotAllowed, "Method Not Allowed", r.Method+" is not supported here")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	authn := func(next http.Handler) http.Handler {
		if params.Authenticator == nil {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				httpx.RespondError(w, httpx.ErrUnauthorized)
			})
		}
		return params.Authenticator.Require(next)
	}

	if params.AuthHandler != nil {
		r.Route("/auth", params.AuthHandler.MountRoutes)
	}

	catalogues := []struct {
		path    string
		handler catalogue
		ok      bool
	}{
		{"/news", params.NewsHandler, params.NewsHandler != nil},
		{"/merches", params.MerchHandler, params.MerchHandler != nil},
		{"/education", params.EducationHandler, params.EducationHandler != nil},
		{"/job-vacancies", params.VacanciesHandler, params.VacanciesHandler != nil},
	}
	for _, c := range catalogues {
		if !c.ok {
			continue
		}
		h := c.handler
		r.Route(c.path, func(r chi.Router) {
			h.MountPublic(r)
			r.Group(func(r chi.Router) {
				r.Use(authn)
				h.MountRoutes(r)
			})
		})
	}

	privates := []struct {
		path    string
		handler private
		ok      bool
	}{
		{"/users", params.UsersHandler, params.UsersHandler != nil},
		{"/cart", params.CartHandler, params.CartHandler != nil},
		{"/favorites", params.FavoritesHandler, params.FavoritesHandler != nil},
		{"/ai-buddy", params.AIChatHandler, params.AIChatHandler != nil},
		{"/transactions", params.TransactionsHandler, params.TransactionsHandler != nil},
	}
	for _, p := range privates {
		if !p.ok {
			continue
		}
		h := p.handler
		r.Route(p.path, func(r chi.Router) {
			r.Use(authn)
			h.MountRoutes(r)
		})
	}

	if params.AdminHandler != nil {
		r.Route("/admin", params.AdminHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
