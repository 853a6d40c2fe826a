package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dkolesnikov/semeinik/internal/email"
	"github.com/dkolesnikov/semeinik/internal/handler"
	"github.com/dkolesnikov/semeinik/internal/middleware"
	"github.com/dkolesnikov/semeinik/internal/service"
	"github.com/dkolesnikov/semeinik/internal/store"
	"github.com/dkolesnikov/semeinik/internal/token"
)

type Server struct {
	db           *sql.DB
	authH        *handler.AuthHandler
	activationH  *handler.ActivationHandler
	familyH      *handler.FamilyHandler
	codec        *token.Codec
	personStore  *store.PersonStore
	sessionStore *store.SessionStore
	tokenStore   *store.ActivationTokenStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, codec *token.Codec, emailClient *email.Client, logger *slog.Logger) *Server {
	personStore := store.NewPersonStore(db)
	familyStore := store.NewFamilyStore(db)
	sessionStore := store.NewSessionStore(db)
	tokenStore := store.NewActivationTokenStore(db)

	authSvc := service.NewAuthService(db, personStore, sessionStore, codec)
	activationSvc := service.NewActivationService(db, personStore, tokenStore, emailClient)
	registrationSvc := service.NewRegistrationService(db, personStore, familyStore, activationSvc)
	familySvc := service.NewFamilyService(db, personStore, familyStore)

	return &Server{
		db:           db,
		authH:        handler.NewAuthHandler(authSvc, registrationSvc, logger.With("component", "auth")),
		activationH:  handler.NewActivationHandler(activationSvc, logger.With("component", "activation")),
		familyH:      handler.NewFamilyHandler(familySvc, logger.With("component", "family")),
		codec:        codec,
		personStore:  personStore,
		sessionStore: sessionStore,
		tokenStore:   tokenStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// ActivationTokenStore returns the activation token store for cleanup tasks.
func (s *Server) ActivationTokenStore() *store.ActivationTokenStore {
	return s.tokenStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /auth/login", s.rateLimitedHandler(s.authH.Login))
	mux.HandleFunc("POST /auth/refresh-tokens", s.authH.Refresh)
	mux.HandleFunc("POST /auth/logout", s.authH.Logout)
	mux.HandleFunc("POST /auth/register-person-and-create-family", s.rateLimitedHandler(s.authH.RegisterAndCreateFamily))
	mux.HandleFunc("POST /auth/register-person-and-join-the-family", s.rateLimitedHandler(s.authH.RegisterAndJoinFamily))
	mux.HandleFunc("POST /auth/exist-email", s.authH.ExistEmail)
	mux.HandleFunc("POST /send-activation-link", s.rateLimitedHandler(s.activationH.SendActivationLink))
	mux.HandleFunc("GET /activate/{token}", s.activationH.Activate)
	mux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes
	protected := http.NewServeMux()
	protected.HandleFunc("POST /family", s.familyH.Create)
	protected.HandleFunc("POST /family/join", s.familyH.Join)
	protected.HandleFunc("DELETE /family", s.familyH.Leave)
	mux.Handle("/family", middleware.RequireAuth(protected))
	mux.Handle("/family/", middleware.RequireAuth(protected))

	authenticate := middleware.Authenticate(s.codec, s.personStore)
	return middleware.RequestLogger(s.logger.With("component", "http"))(authenticate(mux))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
