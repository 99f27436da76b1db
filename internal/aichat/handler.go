package aichat

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/platform/httpx"
	"github.com/sportportal/portal/internal/shared"
)

// Handler serves the AI buddy endpoints.
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

// MountRoutes registers AI buddy routes. The caller must install
// authentication.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.Require(authz.ResourceAIChats, authz.ActionCreate)).Post("/chat", h.chat)
	r.With(h.authz.Require(authz.ResourceAIChats, authz.ActionRead)).Get("/history", h.history)
}

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	p, err := authz.PrincipalFromRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in MessageInput
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	c, err := h.service.Chat(r.Context(), p, in.Message)
	if err != nil {
		h.fail(w, "ai chat", err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
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
	var userID int64
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		userID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "user_id must be a positive integer")
			return
		}
	}
	items, total, err := h.service.History(r.Context(), p, userID, window)
	if err != nil {
		h.fail(w, "ai chat history", err)
		return
	}
	httpx.JSON(w, http.StatusOK, shared.NewPage(items, total, window))
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
