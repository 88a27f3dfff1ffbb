package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/club-attendance/internal/application"
)

type adminAuthenticator interface {
	Authenticate(ctx context.Context, params application.AdminLoginParams) (application.AdminSession, error)
}

// AdminHandler issues admin session tokens.
type AdminHandler struct {
	auth      adminAuthenticator
	responder responder
	logger    *slog.Logger
}

func NewAdminHandler(auth adminAuthenticator, logger *slog.Logger) *AdminHandler {
	base := defaultLogger(logger)
	return &AdminHandler{auth: auth, responder: newResponder(base), logger: base}
}

func (h *AdminHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AdminHandler", operation, attrs...)
}

func (h *AdminHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.auth == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateSession", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode admin login", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	session, err := h.auth.Authenticate(r.Context(), application.AdminLoginParams{
		Password:  req.Password,
		ClientKey: clientKey(r),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	setAdminCookie(w, session.Token, session.ExpiresAt)
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, adminLoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

type adminLoginRequest struct {
	Password string `json:"password"`
}

type adminLoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}
