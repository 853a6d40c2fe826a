package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dkolesnikov/semeinik/internal/service"
)

type AuthHandler struct {
	authService  *service.AuthService
	registration *service.RegistrationService
	logger       *slog.Logger
}

func NewAuthHandler(as *service.AuthService, rs *service.RegistrationService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  as,
		registration: rs,
		logger:       logger,
	}
}

type tokenResponse struct {
	Token string `json:"jwtToken"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	access, cookie, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		h.logFault("login", err)
		writeServiceError(w, err)
		return
	}
	http.SetCookie(w, cookie)
	writeJSON(w, http.StatusOK, tokenResponse{Token: access})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(service.CookieName)
	if err != nil {
		writeServiceError(w, service.ErrMissingCookie)
		return
	}

	access, next, err := h.authService.Refresh(cookie.Value)
	if err != nil {
		h.logFault("refresh", err)
		writeServiceError(w, err)
		return
	}
	http.SetCookie(w, next)
	writeJSON(w, http.StatusOK, tokenResponse{Token: access})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(service.CookieName)
	if err != nil {
		writeServiceError(w, service.ErrMissingCookie)
		return
	}

	expired, err := h.authService.Logout(cookie.Value)
	if err != nil {
		h.logFault("logout", err)
		writeServiceError(w, err)
		return
	}
	http.SetCookie(w, expired)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) RegisterAndCreateFamily(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		FamilyName string `json:"familyName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" || req.FamilyName == "" {
		writeError(w, http.StatusBadRequest, "Email, password and family name are required")
		return
	}

	identifier, err := h.registration.RegisterAndCreateFamily(req.Email, req.Password, req.FamilyName)
	if err != nil {
		h.logFault("register", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"familyIdentifier": identifier})
}

func (h *AuthHandler) RegisterAndJoinFamily(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email            string `json:"email"`
		Password         string `json:"password"`
		FamilyIdentifier string `json:"familyIdentifier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" || req.FamilyIdentifier == "" {
		writeError(w, http.StatusBadRequest, "Email, password and family identifier are required")
		return
	}

	if err := h.registration.RegisterAndJoinFamily(req.Email, req.Password, req.FamilyIdentifier); err != nil {
		h.logFault("register", err)
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *AuthHandler) ExistEmail(w http.ResponseWriter, r *http.Request) {
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

	exists, err := h.registration.EmailExists(req.Email)
	if err != nil {
		h.logFault("exist-email", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

// logFault records failures that are not ordinary domain rejections.
func (h *AuthHandler) logFault(op string, err error) {
	var expired *service.RefreshExpiredError
	if errors.As(err, &expired) {
		return
	}
	switch {
	case errors.Is(err, service.ErrUnknownEmail),
		errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrNotActivated),
		errors.Is(err, service.ErrMissingCookie),
		errors.Is(err, service.ErrInvalidCookie),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrFamilyNotFound):
		return
	}
	h.logger.Error(op, "error", err)
}
