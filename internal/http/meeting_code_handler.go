package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/club-attendance/internal/application"
)

type meetingCodeService interface {
	ActiveCode(ctx context.Context) (application.MeetingCode, bool, error)
	Regenerate(ctx context.Context, principal application.Principal) (application.MeetingCode, error)
}

// MeetingCodeHandler exposes the public code status and the admin code endpoints.
type MeetingCodeHandler struct {
	service   meetingCodeService
	responder responder
	logger    *slog.Logger
}

func NewMeetingCodeHandler(service meetingCodeService, logger *slog.Logger) *MeetingCodeHandler {
	base := defaultLogger(logger)
	return &MeetingCodeHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *MeetingCodeHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "MeetingCodeHandler", operation, attrs...)
}

// Status reports whether a code is active without revealing it.
func (h *MeetingCodeHandler) Status(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	code, ok, err := h.service.ActiveCode(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	resp := codeStatusResponse{Active: ok}
	if ok {
		resp.ExpiresAt = code.ExpiresAt.Format(time.RFC3339)
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

// Current returns the active code to an administrator.
func (h *MeetingCodeHandler) Current(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if !principal.IsAdmin {
		h.responder.handleServiceError(r.Context(), w, application.ErrUnauthorized)
		return
	}

	code, ok, err := h.service.ActiveCode(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if !ok {
		h.responder.handleServiceError(r.Context(), w, application.ErrNoActiveCode)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toMeetingCodeDTO(code))
}

// Regenerate replaces the active code.
func (h *MeetingCodeHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Regenerate", "principal_id", principal.Subject)

	code, err := h.service.Regenerate(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "meeting code regeneration failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toMeetingCodeDTO(code))
}

type codeStatusResponse struct {
	Active    bool   `json:"active"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

type meetingCodeDTO struct {
	Code      string `json:"code"`
	ExpiresAt string `json:"expires_at"`
	// ValidUntil is the expiry in the store's local timestamp format.
	ValidUntil string `json:"valid_until"`
}

func toMeetingCodeDTO(code application.MeetingCode) meetingCodeDTO {
	return meetingCodeDTO{
		Code:       code.Code,
		ExpiresAt:  code.ExpiresAt.Format(time.RFC3339),
		ValidUntil: code.ExpiresAt.Format(application.TimestampLayout),
	}
}
