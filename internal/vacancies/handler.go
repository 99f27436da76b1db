package vacancies

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

// Handler serves the job board endpoints.
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
	r.With(h.authz.Require(authz.ResourceJobVacancies, authz.ActionCreate)).Post("/", h.create)
	r.With(h.authz.Require(authz.ResourceJobVacancies, authz.ActionUpdate)).Put("/{id}", h.update)
	r.With(h.authz.Require(authz.ResourceJobVacancies, authz.ActionDelete)).Delete("/{id}", h.delete)
	r.With(h.authz.Require(authz.ResourceJobVacancies, authz.ActionExport)).Get("/export", h.export)
	r.With(h.authz.Require(authz.ResourceJobVacancies, authz.ActionBulkDelete)).Post("/bulk-delete", h.bulkDelete)
}

func parseFilter(r *http.Request) (ListFilter, string) {
	q := r.URL.Query()
	filter := ListFilter{Search: q.Get("search"), Location: q.Get("location")}
	if raw := q.Get("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return ListFilter{}, "is_active must be a boolean"
		}
		filter.IsActive = &active
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
		h.fail(w, "list vacancies", err)
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
	v, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get vacancy", err)
		return
	}
	httpx.JSON(w, http.StatusOK, v)
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
	v, err := h.service.Create(r.Context(), p, in)
	if err != nil {
		h.fail(w, "create vacancy", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, v)
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
	v, err := h.service.Update(r.Context(), p, id, in)
	if err != nil {
		h.fail(w, "update vacancy", err)
		return
	}
	httpx.JSON(w, http.StatusOK, v)
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
		h.fail(w, "delete vacancy", err)
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
		h.fail(w, "export vacancies", err)
		return
	}
	stream, err := shared.NewCSVStream(w, "job_vacancies", []string{"id", "title", "company", "location", "salary_range", "is_active", "created_at"})
	if err != nil {
		h.logger.Error("export vacancies", slog.Any("error", err))
		return
	}
	for _, v := range items {
		if err := stream.Row(strconv.FormatInt(v.ID, 10), v.Title, v.Company, v.Location, v.SalaryRange,
			strconv.FormatBool(v.IsActive), v.CreatedAt.Format(time.RFC3339)); err != nil {
			h.logger.Error("export vacancies", slog.Any("error", err))
			return
		}
	}
	if err := stream.Flush(); err != nil {
		h.logger.Error("export vacancies", slog.Any("error", err))
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
		h.fail(w, "bulk delete vacancies", err)
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
