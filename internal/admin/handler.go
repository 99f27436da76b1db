package admin

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/platform/httpx"
	"github.com/sportportal/portal/internal/shared"
)

// Handler serves the admin console API.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	sessions *shared.SessionManager
	csrf     *shared.CSRFManager
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, sessions: sessions, csrf: csrf}
}

// MountRoutes registers the console on r, installing its own session and
// CSRF middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(Sessions(h.sessions, h.logger))
	r.Use(CSRF(h.csrf, h.logger))

	r.Get("/login", h.showLogin)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)

	r.Group(func(r chi.Router) {
		r.Use(h.service.RequireSession)
		r.Get("/session", h.session)
		r.Get("/dashboard", h.dashboard)
		r.Get("/capabilities", h.capabilities)
	})
}

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionView struct {
	UserID    int64      `json:"user_id"`
	Email     string     `json:"email"`
	Role      authz.Role `json:"role"`
	Superuser bool       `json:"is_superuser"`
	CSRFToken string     `json:"csrf_token"`
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	token, err := h.csrf.EnsureToken(sess)
	if err != nil {
		h.fail(w, "issue csrf token", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"csrf_token": token})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := httpx.DecodeValid(r, &form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	p, err := h.service.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		h.fail(w, "admin login", err)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	h.sessions.Rotate(sess)
	sess.Clear()
	sess.Authenticate(p)
	token, err := h.csrf.EnsureToken(sess)
	if err != nil {
		h.fail(w, "issue csrf token", err)
		return
	}
	h.logger.Info("admin console login", slog.Int64("user_id", p.ID))
	httpx.JSON(w, http.StatusOK, view(p, token))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	sess.Clear()
	h.sessions.Destroy(sess)
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	p, err := authz.PrincipalFromRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view(p, shared.SessionFromContext(r.Context()).Get(shared.CSRFSessionKey)))
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.fail(w, "admin dashboard", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"counts": counts})
}

func (h *Handler) capabilities(w http.ResponseWriter, r *http.Request) {
	p, err := authz.PrincipalFromRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"capabilities": Capabilities(p)})
}

func view(p authz.Principal, token string) sessionView {
	return sessionView{UserID: p.ID, Email: p.Email, Role: p.Role, Superuser: p.Superuser, CSRFToken: token}
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
