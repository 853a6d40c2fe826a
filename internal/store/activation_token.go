package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dkolesnikov/semeinik/internal/model"
)

type ActivationTokenStore struct {
	db DBTX
}

func NewActivationTokenStore(db DBTX) *ActivationTokenStore {
	return &ActivationTokenStore{db: db}
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *ActivationTokenStore) WithTx(tx *sql.Tx) *ActivationTokenStore {
	return &ActivationTokenStore{db: tx}
}

func scanActivationToken(scanner interface{ Scan(...any) error }) (*model.ActivationToken, error) {
	var at model.ActivationToken
	err := scanner.Scan(&at.ID, &at.Token, &at.PersonID, &at.IssuedAt, &at.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &at, nil
}

const activationTokenCols = `id, token, person_id, issued_at, expires_at`

// Replace drops any token the person already holds and issues a new one,
// so at most one activation token exists per person.
func (s *ActivationTokenStore) Replace(personID int64, token string, expiresAt time.Time) (*model.ActivationToken, error) {
	_, err := s.db.Exec(`DELETE FROM activation_tokens WHERE person_id = ?`, personID)
	if err != nil {
		return nil, fmt.Errorf("delete old activation token: %w", err)
	}
	result, err := s.db.Exec(
		`INSERT INTO activation_tokens (token, person_id, expires_at) VALUES (?, ?, ?)`,
		token, personID, expiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert activation token: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ActivationTokenStore) GetByID(id int64) (*model.ActivationToken, error) {
	row := s.db.QueryRow(`SELECT `+activationTokenCols+` FROM activation_tokens WHERE id = ?`, id)
	at, err := scanActivationToken(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get activation token: %w", err)
	}
	return at, nil
}

// GetByToken returns the token row even when it is already past its expiry;
// callers report expiry separately from absence.
func (s *ActivationTokenStore) GetByToken(token string) (*model.ActivationToken, error) {
	row := s.db.QueryRow(`SELECT `+activationTokenCols+` FROM activation_tokens WHERE token = ?`, token)
	at, err := scanActivationToken(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get activation token by token: %w", err)
	}
	return at, nil
}

func (s *ActivationTokenStore) GetByPersonID(personID int64) (*model.ActivationToken, error) {
	row := s.db.QueryRow(`SELECT `+activationTokenCols+` FROM activation_tokens WHERE person_id = ?`, personID)
	at, err := scanActivationToken(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get activation token by person: %w", err)
	}
	return at, nil
}

func (s *ActivationTokenStore) ExistsToken(token string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM activation_tokens WHERE token = ?`, token).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count activation tokens: %w", err)
	}
	return n > 0, nil
}

func (s *ActivationTokenStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM activation_tokens WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete activation token: %w", err)
	}
	return nil
}

func (s *ActivationTokenStore) DeleteExpired() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM activation_tokens WHERE expires_at <= datetime('now')`)
	if err != nil {
		return 0, fmt.Errorf("delete expired activation tokens: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
