package news

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

// Handler serves the news endpoints.
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

// MountPublic registers the anonymous read routes.
func (h *Handler) MountPublic(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.detail)
}

// MountRoutes registers routes that need an authenticated caller.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.Require(authz.ResourceNews, authz.ActionRead)).Get("/my", h.mine)
	r.With(h.authz.Require(authz.ResourceNews, authz.ActionCreate)).Post("/", h.create)
	r.With(h.authz.Require(authz.ResourceNews, authz.ActionUpdate)).Put("/{id}", h.update)
	r.With(h.authz.Require(authz.ResourceNews, authz.ActionDelete)).Delete("/{id}", h.delete)
	r.With(h.authz.Require(authz.ResourceNews, authz.ActionExport)).Get("/export", h.export)
	r.With(h.authz.Require(authz.ResourceNews, authz.ActionBulkDelete)).Post("/bulk-delete", h.bulkDelete)
}

func parseFilter(r *http.Request) (ListFilter, error) {
	filter := ListFilter{Search: r.URL.Query().Get("search")}
	if raw := r.URL.Query().Get("category"); raw != "" {
		c, ok := ParseCategory(raw)
		if !ok {
			return ListFilter{}, httpx.ErrValidation
		}
		filter.Category = &c
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
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown category")
		return
	}
	filter.Window = window
	items, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.fail(w, "list news", err)
		return
	}
	httpx.JSON(w, http.StatusOK, shared.NewPage(items, total, window))
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	article, err := h.service.Detail(r.Context(), id)
	if err != nil {
		h.fail(w, "get news", err)
		return
	}
	httpx.JSON(w, http.StatusOK, article)
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
		h.fail(w, "list own news", err)
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
	article, err := h.service.Create(r.Context(), p, in)
	if err != nil {
		h.fail(w, "create news", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, article)
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
	article, err := h.service.Update(r.Context(), p, id, in)
	if err != nil {
		h.fail(w, "update news", err)
		return
	}
	httpx.JSON(w, http.StatusOK, article)
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
		h.fail(w, "delete news", err)
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
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown category")
		return
	}
	items, err := h.service.Export(r.Context(), p, filter)
	if err != nil {
		h.fail(w, "export news", err)
		return
	}
	stream, err := shared.NewCSVStream(w, "news", []string{"id", "title", "slug", "category", "views_count", "author_id", "created_at"})
	if err != nil {
		h.logger.Error("export news", slog.Any("error", err))
		return
	}
	for _, a := range items {
		if err := stream.Row(strconv.FormatInt(a.ID, 10), a.Title, a.Slug, string(a.Category),
			strconv.Itoa(a.ViewsCount), strconv.FormatInt(a.AuthorID, 10), a.CreatedAt.Format(time.RFC3339)); err != nil {
			h.logger.Error("export news", slog.Any("error", err))
			return
		}
	}
	if err := stream.Flush(); err != nil {
		h.logger.Error("export news", slog.Any("error", err))
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
		h.fail(w, "bulk delete news", err)
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
