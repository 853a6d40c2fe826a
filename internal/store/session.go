package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dkolesnikov/semeinik/internal/model"
)

type SessionStore struct {
	db DBTX
}

func NewSessionStore(db DBTX) *SessionStore {
	return &SessionStore{db: db}
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *SessionStore) WithTx(tx *sql.Tx) *SessionStore {
	return &SessionStore{db: tx}
}

func scanSession(scanner interface{ Scan(...any) error }) (*model.Session, error) {
	var sess model.Session
	err := scanner.Scan(&sess.ID, &sess.RefreshToken, &sess.PersonID,
		&sess.IssuedAt, &sess.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

const sessionCols = `id, refresh_token, person_id, issued_at, expires_at`

func (s *SessionStore) Create(personID int64, refreshToken string, expiresAt time.Time) (*model.Session, error) {
	result, err := s.db.Exec(
		`INSERT INTO sessions (refresh_token, person_id, expires_at) VALUES (?, ?, ?)`,
		refreshToken, personID, expiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *SessionStore) GetByID(id int64) (*model.Session, error) {
	row := s.db.QueryRow(`SELECT `+sessionCols+` FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// GetByRefreshToken returns the session even when it is already past its
// expiry; callers decide what an expired session means.
func (s *SessionStore) GetByRefreshToken(refreshToken string) (*model.Session, error) {
	row := s.db.QueryRow(`SELECT `+sessionCols+` FROM sessions WHERE refresh_token = ?`, refreshToken)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session by refresh token: %w", err)
	}
	return sess, nil
}

func (s *SessionStore) ExistsRefreshToken(refreshToken string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions WHERE refresh_token = ?`, refreshToken).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count sessions by refresh token: %w", err)
	}
	return n > 0, nil
}

func (s *SessionStore) CountByPersonID(personID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions WHERE person_id = ?`, personID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sessions by person: %w", err)
	}
	return n, nil
}

func (s *SessionStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) DeleteByRefreshToken(refreshToken string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE refresh_token = ?`, refreshToken)
	if err != nil {
		return fmt.Errorf("delete session by refresh token: %w", err)
	}
	return nil
}

func (s *SessionStore) DeleteByPersonID(personID int64) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE person_id = ?`, personID)
	if err != nil {
		return fmt.Errorf("delete sessions by person: %w", err)
	}
	return nil
}

func (s *SessionStore) DeleteExpired() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM sessions WHERE expires_at <= datetime('now')`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
