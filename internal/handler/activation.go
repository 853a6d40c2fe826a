package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dkolesnikov/semeinik/internal/service"
)

type ActivationHandler struct {
	activations *service.ActivationService
	logger      *slog.Logger
}

func NewActivationHandler(as *service.ActivationService, logger *slog.Logger) *ActivationHandler {
	return &ActivationHandler{
		activations: as,
		logger:      logger,
	}
}

func (h *ActivationHandler) SendActivationLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	if err := h.activations.SendActivationLink(req.Email); err != nil {
		if !errors.Is(err, service.ErrPersonNotFound) && !errors.Is(err, service.ErrAlreadyActivated) {
			h.logger.Error("send activation link", "error", err)
		}
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *ActivationHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if err := h.activations.Activate(r.PathValue("token")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
