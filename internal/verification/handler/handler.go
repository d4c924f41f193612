// Package handler exposes the verification gate over HTTP. The surface is
// deliberately thin: it translates requests into gate calls and gate errors
// into status codes, nothing more.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sello/internal/provider/models"
	"sello/internal/verification"
	"sello/internal/verification/gate"
	"sello/pkg/platform/sentinel"
)

type Handler struct {
	gate   *gate.Gate
	logger *slog.Logger
}

func New(g *gate.Gate, logger *slog.Logger) *Handler {
	return &Handler{gate: g, logger: logger}
}

// Routes mounts the verification endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/providers/{id}/verification", h.triggerVerification)
	r.Post("/providers/{id}/reverification", h.requestReverification)
	r.Get("/providers/{id}/verdict", h.getVerdict)
}

func (h *Handler) triggerVerification(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.profileID(w, r)
	if !ok {
		return
	}

	if err := h.gate.TriggerVerification(r.Context(), profileID); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusAccepted, map[string]string{
		"status": string(models.StatusPending),
	})
}

func (h *Handler) requestReverification(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.profileID(w, r)
	if !ok {
		return
	}

	if err := h.gate.RequestReverification(r.Context(), profileID); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusAccepted, map[string]string{
		"status": string(models.StatusResubmitted),
	})
}

type verdictResponse struct {
	Status  models.Status         `json:"status"`
	Verdict *verification.Verdict `json:"verdict,omitempty"`
}

func (h *Handler) getVerdict(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.profileID(w, r)
	if !ok {
		return
	}

	status, err := h.gate.Status(r.Context(), profileID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	verdict, found, err := h.gate.GetVerdict(r.Context(), profileID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response := verdictResponse{Status: status}
	if found {
		response.Verdict = &verdict
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *Handler) profileID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid profile id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, sentinel.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, sentinel.ErrCooldownActive), errors.Is(err, sentinel.ErrAttemptsExhausted):
		status = http.StatusTooManyRequests
	case errors.Is(err, sentinel.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError && h.logger != nil {
		h.logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"error", err,
		)
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
