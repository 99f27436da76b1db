package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/platform/httpx"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger        *slog.Logger
	service       *Service
	authenticator *Authenticator
	loginLimit    func(http.Handler) http.Handler
}

// NewHandler constructs a Handler instance. loginLimit throttles the
// credential endpoints and may be nil.
func NewHandler(logger *slog.Logger, service *Service, authenticator *Authenticator, loginLimit func(http.Handler) http.Handler) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if loginLimit == nil {
		loginLimit = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{logger: logger, service: service, authenticator: authenticator, loginLimit: loginLimit}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.loginLimit)
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Post("/refresh", h.refresh)
		r.Post("/password-reset-request", h.passwordReset)
		r.Post("/password-reset", h.passwordResetConfirm)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authenticator.Require)
		r.Get("/me", h.me)
		r.Post("/logout", h.logout)
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var in RegisterInput
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	user, err := h.service.Register(r.Context(), in)
	if err != nil {
		h.fail(w, "register", err)
		return
	}
	h.logger.Info("user registered", slog.Int64("user_id", user.ID), slog.String("role", string(user.Role)))
	httpx.JSON(w, http.StatusCreated, user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in LoginInput
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	pair, err := h.service.Login(r.Context(), in)
	if err != nil {
		h.fail(w, "login", err)
		return
	}
	httpx.JSON(w, http.StatusOK, pair)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var in RefreshInput
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	pair, err := h.service.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		h.fail(w, "refresh", err)
		return
	}
	httpx.JSON(w, http.StatusOK, pair)
}

func (h *Handler) passwordReset(w http.ResponseWriter, r *http.Request) {
	var in ResetRequestInput
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.RequestPasswordReset(r.Context(), in.Email); err != nil {
		h.logger.Error("password reset request", slog.Any("error", err))
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{
		"message": "if the email is registered, a reset link has been sent",
	})
}

func (h *Handler) passwordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var in ResetConfirmInput
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.ResetPassword(r.Context(), in); err != nil {
		h.fail(w, "password reset", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	p, err := authz.PrincipalFromRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"id":           p.ID,
		"email":        p.Email,
		"role":         p.Role,
		"is_superuser": p.Superuser,
		"is_active":    p.Active,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, ErrInvalidToken)
		return
	}
	if err := h.service.Logout(r.Context(), claims); err != nil {
		h.fail(w, "logout", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "successfully logged out"})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
