package service

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dkolesnikov/semeinik/internal/model"
	"github.com/dkolesnikov/semeinik/internal/password"
	"github.com/dkolesnikov/semeinik/internal/random"
	"github.com/dkolesnikov/semeinik/internal/store"
	"github.com/dkolesnikov/semeinik/internal/token"
)

const (
	// CookieName is the refresh token carrier cookie.
	CookieName = "refreshToken"

	cookiePath      = "/auth"
	refreshMaxAge   = 15552000 // 180 days, in seconds
	refreshTokenTTL = time.Duration(refreshMaxAge) * time.Second

	// sessionQuota caps concurrent sessions per person. Hitting the cap
	// wipes every session the person owns, not just the oldest.
	sessionQuota = 5

	// refreshSkew is subtracted from a session's expiry before the
	// expiry check, so a token about to lapse is not reissued.
	refreshSkew = time.Minute
)

var (
	ErrUnknownEmail  = errors.New("Invalid email")
	ErrWrongPassword = errors.New("Invalid password")
	ErrNotActivated  = errors.New("Account is not activated")
	ErrMissingCookie = errors.New("Refresh token cookie is missing")
	ErrInvalidCookie = errors.New("Invalid refresh token")
)

// RefreshExpiredError reports the effective expiry instant so clients can
// tell a lapsed session from a bogus one.
type RefreshExpiredError struct {
	ExpiresAt time.Time
}

func (e *RefreshExpiredError) Error() string {
	return fmt.Sprintf("Refresh token expired at %s", e.ExpiresAt.UTC().Format(time.RFC3339))
}

type AuthService struct {
	db       *sql.DB
	people   *store.PersonStore
	sessions *store.SessionStore
	codec    *token.Codec
	now      func() time.Time
}

func NewAuthService(db *sql.DB, people *store.PersonStore, sessions *store.SessionStore, codec *token.Codec) *AuthService {
	return &AuthService{
		db:       db,
		people:   people,
		sessions: sessions,
		codec:    codec,
		now:      time.Now,
	}
}

// Login verifies credentials, opens a session and mints an access token.
// The returned cookie carries the opaque refresh token.
func (s *AuthService) Login(email, pass string) (string, *http.Cookie, error) {
	person, err := s.people.GetByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if person == nil {
		slog.Warn("login failed: unknown email", "email", email)
		return "", nil, ErrUnknownEmail
	}
	if !password.Verify(pass, person.Salt, person.PasswordHash) {
		slog.Warn("login failed: wrong password", "person_id", person.ID)
		return "", nil, ErrWrongPassword
	}
	if !person.Activated {
		return "", nil, ErrNotActivated
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	sess, err := s.createSession(s.sessions.WithTx(tx), person.ID)
	if err != nil {
		return "", nil, err
	}
	if err := tx.Commit(); err != nil {
		return "", nil, fmt.Errorf("commit tx: %w", err)
	}

	access, err := s.codec.Issue(person.ID, person.Email, person.Role, person.FamilyID)
	if err != nil {
		return "", nil, err
	}
	return access, newRefreshCookie(sess.RefreshToken), nil
}

// Refresh consumes the presented refresh token and rotates the session.
// The presented session is deleted even when it turns out to be expired;
// that deletion commits before the expiry error is reported.
func (s *AuthService) Refresh(refreshToken string) (string, *http.Cookie, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	sessions := s.sessions.WithTx(tx)
	sess, err := sessions.GetByRefreshToken(refreshToken)
	if err != nil {
		return "", nil, err
	}
	if sess == nil {
		return "", nil, ErrInvalidCookie
	}
	if err := sessions.Delete(sess.ID); err != nil {
		return "", nil, err
	}

	safeExpiry := sess.ExpiresAt.Add(-refreshSkew)
	if s.now().After(safeExpiry) {
		if err := tx.Commit(); err != nil {
			return "", nil, fmt.Errorf("commit tx: %w", err)
		}
		return "", nil, &RefreshExpiredError{ExpiresAt: safeExpiry}
	}

	next, err := s.createSession(sessions, sess.PersonID)
	if err != nil {
		return "", nil, err
	}
	person, err := s.people.WithTx(tx).GetByID(sess.PersonID)
	if err != nil {
		return "", nil, err
	}
	if person == nil {
		return "", nil, ErrInvalidCookie
	}
	if err := tx.Commit(); err != nil {
		return "", nil, fmt.Errorf("commit tx: %w", err)
	}

	access, err := s.codec.Issue(person.ID, person.Email, person.Role, person.FamilyID)
	if err != nil {
		return "", nil, err
	}
	return access, newRefreshCookie(next.RefreshToken), nil
}

// Logout deletes the session for the presented token. Deleting an already
// absent session is not an error.
func (s *AuthService) Logout(refreshToken string) (*http.Cookie, error) {
	if err := s.sessions.DeleteByRefreshToken(refreshToken); err != nil {
		return nil, err
	}
	return expiredRefreshCookie(), nil
}

// createSession enforces the per-person quota, allocates a fresh refresh
// token and inserts the session. Must run inside the caller's transaction.
func (s *AuthService) createSession(sessions *store.SessionStore, personID int64) (*model.Session, error) {
	n, err := sessions.CountByPersonID(personID)
	if err != nil {
		return nil, err
	}
	if n >= sessionQuota {
		if err := sessions.DeleteByPersonID(personID); err != nil {
			return nil, err
		}
	}
	value, err := random.Token(sessions.ExistsRefreshToken)
	if err != nil {
		return nil, err
	}
	return sessions.Create(personID, value, s.now().Add(refreshTokenTTL))
}

func newRefreshCookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     cookiePath,
		HttpOnly: true,
		MaxAge:   refreshMaxAge,
	}
}

func expiredRefreshCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     cookiePath,
		HttpOnly: true,
		MaxAge:   -1,
	}
}
