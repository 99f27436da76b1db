package transactions

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/platform/httpx"
	"github.com/sportportal/portal/internal/shared"
)

// Handler serves the transaction history endpoints.
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

// MountRoutes registers transaction routes. The caller must install
// authentication.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.authz.Require(authz.ResourceTransactions, authz.ActionRead))
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
}

func parseFilter(r *http.Request) (ListFilter, string) {
	q := r.URL.Query()
	var filter ListFilter
	if raw := q.Get("status"); raw != "" {
		s, ok := ParseStatus(raw)
		if !ok {
			return ListFilter{}, "status must be one of pending, completed, failed"
		}
		filter.Status = s
	}
	if raw := q.Get("transaction_type"); raw != "" {
		t, ok := ParseType(raw)
		if !ok {
			return ListFilter{}, "transaction_type must be one of purchase, donation, subscription"
		}
		filter.Type = t
	}
	if raw := q.Get("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return ListFilter{}, "user_id must be a positive integer"
		}
		filter.UserID = id
	}
	return filter, ""
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p, err := authz.PrincipalFromRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	window, err := shared.ParseWindow(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	filter, problem := parseFilter(r)
	if problem != "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", problem)
		return
	}
	filter.Window = window
	items, total, err := h.service.List(r.Context(), p, filter)
	if err != nil {
		h.fail(w, "list transactions", err)
		return
	}
	httpx.JSON(w, http.StatusOK, shared.NewPage(items, total, window))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := authz.PrincipalFromRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	t, err := h.service.Get(r.Context(), p, id)
	if err != nil {
		h.fail(w, "get transaction", err)
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
