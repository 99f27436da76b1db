package education

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

// Handler serves the directory endpoints.
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
	r.Get("/{id}", h.get)
}

// MountRoutes registers routes that need an authenticated caller.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.Require(authz.ResourceEducation, authz.ActionCreate)).Post("/", h.create)
	r.With(h.authz.Require(authz.ResourceEducation, authz.ActionUpdate)).Put("/{id}", h.update)
	r.With(h.authz.Require(authz.ResourceEducation, authz.ActionDelete)).Delete("/{id}", h.delete)
	r.With(h.authz.Require(authz.ResourceEducation, authz.ActionExport)).Get("/export", h.export)
	r.With(h.authz.Require(authz.ResourceEducation, authz.ActionBulkDelete)).Post("/bulk-delete", h.bulkDelete)
}

func parseFilter(r *http.Request) (ListFilter, string) {
	q := r.URL.Query()
	filter := ListFilter{Search: q.Get("search")}
	if raw := q.Get("region"); raw != "" {
		region, ok := ParseRegion(raw)
		if !ok {
			return ListFilter{}, "unknown region"
		}
		filter.Region = &region
	}
	if raw := q.Get("type"); raw != "" {
		kind := Kind(raw)
		switch kind {
		case KindAcademy, KindFederation, KindSchool, KindClub:
		default:
			return ListFilter{}, "unknown institution type"
		}
		filter.Type = &kind
	}
	return filter, ""
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
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
	items, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.fail(w, "list education", err)
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
	inst, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get education", err)
		return
	}
	httpx.JSON(w, http.StatusOK, inst)
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
	inst, err := h.service.Create(r.Context(), p, in)
	if err != nil {
		h.fail(w, "create education", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inst)
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
	var in Fields
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	inst, err := h.service.Update(r.Context(), p, id, in)
	if err != nil {
		h.fail(w, "update education", err)
		return
	}
	httpx.JSON(w, http.StatusOK, inst)
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
		h.fail(w, "delete education", err)
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
	filter, problem := parseFilter(r)
	if problem != "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", problem)
		return
	}
	items, err := h.service.Export(r.Context(), p, filter)
	if err != nil {
		h.fail(w, "export education", err)
		return
	}
	stream, err := shared.NewCSVStream(w, "education", []string{"id", "name", "region", "type", "phone", "rating", "created_at"})
	if err != nil {
		h.logger.Error("export education", slog.Any("error", err))
		return
	}
	for _, i := range items {
		if err := stream.Row(strconv.FormatInt(i.ID, 10), i.Name, string(i.Region), string(i.Type), i.Phone,
			strconv.FormatFloat(i.Rating, 'f', 1, 64), i.CreatedAt.Format(time.RFC3339)); err != nil {
			h.logger.Error("export education", slog.Any("error", err))
			return
		}
	}
	if err := stream.Flush(); err != nil {
		h.logger.Error("export education", slog.Any("error", err))
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
		h.fail(w, "bulk delete education", err)
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
