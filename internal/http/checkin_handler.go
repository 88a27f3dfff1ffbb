package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/club-attendance/internal/application"
)

type checkinService interface {
	CheckInMember(ctx context.Context, params application.MemberCheckinParams) (application.CheckinResult, error)
	CheckInGuest(ctx context.Context, params application.GuestCheckinParams) (application.CheckinResult, error)
}

// CheckinHandler serves member and guest check-in submissions.
type CheckinHandler struct {
	service   checkinService
	responder responder
	logger    *slog.Logger
}

func NewCheckinHandler(service checkinService, logger *slog.Logger) *CheckinHandler {
	base := defaultLogger(logger)
	return &CheckinHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CheckinHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CheckinHandler", operation, attrs...)
}

func (h *CheckinHandler) Member(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req memberCheckinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Member", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode member check-in", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	result, err := h.service.CheckInMember(r.Context(), application.MemberCheckinParams{
		Phone: req.Phone,
		Code:  req.Code,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, checkinResponse{
		Message: "Welcome " + result.Event.Name + "! You have been marked present.",
		Event:   toEventDTO(result.Event),
		Warning: result.Warning,
	})
}

func (h *CheckinHandler) Guest(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req guestCheckinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Guest", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode guest check-in", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	result, err := h.service.CheckInGuest(r.Context(), application.GuestCheckinParams{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Code:  req.Code,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, checkinResponse{
		Message: "Welcome " + result.Event.Name + "! Thank you for joining as a guest.",
		Event:   toEventDTO(result.Event),
		Warning: result.Warning,
	})
}

type memberCheckinRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type guestCheckinRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type eventDTO struct {
	Timestamp string `json:"timestamp"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Code      string `json:"code"`
}

type checkinResponse struct {
	Message string   `json:"message"`
	Event   eventDTO `json:"event"`
	Warning string   `json:"warning,omitempty"`
}

func toEventDTO(event application.AttendanceEvent) eventDTO {
	return eventDTO{
		Timestamp: event.Timestamp.Format(application.TimestampLayout),
		Role:      string(event.Role),
		Name:      event.Name,
		Phone:     event.Phone,
		Code:      event.Code,
	}
}
