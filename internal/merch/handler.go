package merch

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/platform/httpx"
	"github.com/sportportal/portal/internal/shared"
)

// Handler serves the marketplace endpoints.
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

// MountPublic registers the anonymous catalogue routes.
func (h *Handler) MountPublic(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
}

// MountRoutes registers routes that need an authenticated caller.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.Require(authz.ResourceMerches, authz.ActionRead)).Get("/my", h.mine)
	r.With(h.authz.Require(authz.ResourceMerches, authz.ActionCreate)).Post("/", h.create)
	r.With(h.authz.Require(authz.ResourceMerches, authz.ActionUpdate)).Put("/{id}", h.update)
	r.With(h.authz.Require(authz.ResourceMerches, authz.ActionDelete)).Delete("/{id}", h.delete)
	r.With(h.authz.Require(authz.ResourceMerches, authz.ActionExport)).Get("/export", h.export)
	r.With(h.authz.Require(authz.ResourceMerches, authz.ActionBulkDelete)).Post("/bulk-delete", h.bulkDelete)
}

func parseFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	filter := ListFilter{Search: q.Get("search"), Brand: q.Get("brand")}
	if raw := q.Get("is_available"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return ListFilter{}, err
		}
		filter.IsAvailable = &v
	}
	return filter, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	window, err := shared.ParseWindow(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "is_available must be a boolean")
		return
	}
	filter.Window = window
	items, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.fail(w, "list merches", err)
		return
	}
	httpx.JSON(w, http.StatusOK, shared.NewPage(items, total, window))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get merch", err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) mine(w http.ResponseWriter, r *http.Request) {
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
	items, total, err := h.service.Mine(r.Context(), p, window)
	if err != nil {
		h.fail(w, "list own merches", err)
		return
	}
	httpx.JSON(w, http.StatusOK, shared.NewPage(items, total, window))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	p, err := authz.PrincipalFromRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in CreateInput
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.Create(r.Context(), p, in)
	if err != nil {
		h.fail(w, "create merch", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
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
	var in UpdateInput
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.Update(r.Context(), p, id, in)
	if err != nil {
		h.fail(w, "update merch", err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.service.Delete(r.Context(), p, id); err != nil {
		h.fail(w, "delete merch", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	p, err := authz.PrincipalFromRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "is_available must be a boolean")
		return
	}
	items, err := h.service.Export(r.Context(), p, filter)
	if err != nil {
		h.fail(w, "export merches", err)
		return
	}
	stream, err := shared.NewCSVStream(w, "merches", []string{"id", "name", "brand", "price", "stock", "is_available", "owner_id", "created_at"})
	if err != nil {
		h.logger.Error("export merches", slog.Any("error", err))
		return
	}
	for _, i := range items {
		if err := stream.Row(strconv.FormatInt(i.ID, 10), i.Name, i.Brand, strconv.FormatInt(i.Price, 10),
			strconv.Itoa(i.Stock), strconv.FormatBool(i.IsAvailable), strconv.FormatInt(i.OwnerUserID, 10),
			i.CreatedAt.Format(time.RFC3339)); err != nil {
			h.logger.Error("export merches", slog.Any("error", err))
			return
		}
	}
	if err := stream.Flush(); err != nil {
		h.logger.Error("export merches", slog.Any("error", err))
	}
}

func (h *Handler) bulkDelete(w http.ResponseWriter, r *http.Request) {
	p, err := authz.PrincipalFromRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in shared.BulkDeleteInput
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	n, err := h.service.BulkDelete(r.Context(), p, in.IDs)
	if err != nil {
		h.fail(w, "bulk delete merches", err)
		return
	}
	httpx.JSON(w, http.StatusOK, shared.BulkDeleteResult{Deleted: n})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
