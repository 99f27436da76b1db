package favorites

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/platform/httpx"
)

// Handler serves the favorites endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   authz.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, authz: mw}
}

// MountRoutes registers favorites routes. The caller must install
// authentication. Toggle's create/delete decision depends on stored state,
// so only read is checked up front.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.authz.Require(authz.ResourceFavorites, authz.ActionRead))
	r.Get("/", h.list)
	r.Post("/toggle/{merch_id}", h.toggle)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p, err := authz.PrincipalFromRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	items, err := h.service.List(r.Context(), p)
	if err != nil {
		h.fail(w, "list favorites", err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	p, err := authz.PrincipalFromRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	merchID, err := httpx.IDParam(r, "merch_id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	status, err := h.service.Toggle(r.Context(), p, merchID)
	if err != nil {
		h.fail(w, "toggle favorite", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]Status{"status": status})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
