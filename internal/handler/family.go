package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dkolesnikov/semeinik/internal/auth"
	"github.com/dkolesnikov/semeinik/internal/service"
)

type FamilyHandler struct {
	families *service.FamilyService
	logger   *slog.Logger
}

func NewFamilyHandler(fs *service.FamilyService, logger *slog.Logger) *FamilyHandler {
	return &FamilyHandler{
		families: fs,
		logger:   logger,
	}
}

func (h *FamilyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Family name is required")
		return
	}

	family, err := h.families.Create(auth.PersonID(r.Context()), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"familyIdentifier": family.Identifier})
}

func (h *FamilyHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FamilyIdentifier string `json:"familyIdentifier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FamilyIdentifier == "" {
		writeError(w, http.StatusBadRequest, "Family identifier is required")
		return
	}

	if _, err := h.families.Join(auth.PersonID(r.Context()), req.FamilyIdentifier); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *FamilyHandler) Leave(w http.ResponseWriter, r *http.Request) {
	if err := h.families.Leave(auth.PersonID(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
