package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/club-attendance/internal/application"
)

type flowCodec interface {
	Encode(flow application.Flow) (string, error)
	Decode(token string) (application.Flow, error)
}

// FlowHandler advances the check-in screen flow. The client keeps the signed
// state token and sends it back with every event.
type FlowHandler struct {
	codec     flowCodec
	responder responder
	logger    *slog.Logger
}

func NewFlowHandler(codec flowCodec, logger *slog.Logger) *FlowHandler {
	base := defaultLogger(logger)
	return &FlowHandler{codec: codec, responder: newResponder(base), logger: base}
}

func (h *FlowHandler) Advance(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.codec == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req flowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlerLogger(r.Context(), h.logger, "FlowHandler", "Advance", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode flow event", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	current, err := h.codec.Decode(req.StateToken)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	next, err := current.Apply(application.FlowEvent(req.Event))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	token, err := h.codec.Encode(next)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, flowResponse{
		Step:       string(next.Step),
		Role:       string(next.Role),
		StateToken: token,
	})
}

type flowRequest struct {
	StateToken string `json:"state_token"`
	Event      string `json:"event"`
}

type flowResponse struct {
	Step       string `json:"step"`
	Role       string `json:"role,omitempty"`
	StateToken string `json:"state_token"`
}
