package cart

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/platform/httpx"
)

// Handler serves the cart endpoints.
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

// MountRoutes registers cart routes. The caller must install authentication.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.Require(authz.ResourceCart, authz.ActionRead)).Get("/", h.view)
	r.With(h.authz.Require(authz.ResourceCart, authz.ActionCreate)).Post("/add/{merch_id}", h.add)
	r.With(h.authz.Require(authz.ResourceCart, authz.ActionUpdate)).Put("/{merch_id}", h.setQuantity)
	r.With(h.authz.Require(authz.ResourceCart, authz.ActionDelete)).Delete("/remove/{merch_id}", h.remove)
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	p, err := authz.PrincipalFromRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	sum, err := h.service.View(r.Context(), p)
	if err != nil {
		h.fail(w, "view cart", err)
		return
	}
	httpx.JSON(w, http.StatusOK, sum)
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
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
	item, err := h.service.Add(r.Context(), p, merchID)
	if err != nil {
		h.fail(w, "add to cart", err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
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
	var in QuantityInput
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.SetQuantity(r.Context(), p, merchID, in.Quantity)
	if err != nil {
		h.fail(w, "update cart", err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
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
	if err := h.service.Remove(r.Context(), p, merchID); err != nil {
		h.fail(w, "remove from cart", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "item removed"})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
