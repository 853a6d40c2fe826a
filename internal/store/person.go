package store

import (
	"database/sql"
	"fmt"

	"github.com/dkolesnikov/semeinik/internal/model"
)

type PersonStore struct {
	db DBTX
}

func NewPersonStore(db DBTX) *PersonStore {
	return &PersonStore{db: db}
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *PersonStore) WithTx(tx *sql.Tx) *PersonStore {
	return &PersonStore{db: tx}
}

func scanPerson(scanner interface{ Scan(...any) error }) (*model.Person, error) {
	var p model.Person
	err := scanner.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.Salt, &p.Role,
		&p.Activated, &p.FamilyID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

const personCols = `id, email, password_hash, salt, role, activated, family_id, created_at, updated_at`

func (s *PersonStore) Create(email, passwordHash, salt string, familyID *int64) (*model.Person, error) {
	result, err := s.db.Exec(
		`INSERT INTO people (email, password_hash, salt, family_id) VALUES (?, ?, ?, ?)`,
		email, passwordHash, salt, familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert person: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *PersonStore) GetByID(id int64) (*model.Person, error) {
	row := s.db.QueryRow(`SELECT `+personCols+` FROM people WHERE id = ?`, id)
	p, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	return p, nil
}

func (s *PersonStore) GetByEmail(email string) (*model.Person, error) {
	row := s.db.QueryRow(`SELECT `+personCols+` FROM people WHERE email = ?`, email)
	p, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get person by email: %w", err)
	}
	return p, nil
}

func (s *PersonStore) ExistsEmail(email string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM people WHERE email = ?`, email).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count people by email: %w", err)
	}
	return n > 0, nil
}

func (s *PersonStore) ExistsSalt(salt string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM people WHERE salt = ?`, salt).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count people by salt: %w", err)
	}
	return n > 0, nil
}

func (s *PersonStore) SetActivated(id int64) error {
	_, err := s.db.Exec(
		`UPDATE people SET activated = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("activate person: %w", err)
	}
	return nil
}

// SetFamily assigns or clears (nil) the person's family.
func (s *PersonStore) SetFamily(id int64, familyID *int64) error {
	_, err := s.db.Exec(
		`UPDATE people SET family_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		familyID, id,
	)
	if err != nil {
		return fmt.Errorf("set person family: %w", err)
	}
	return nil
}

func (s *PersonStore) CountByFamilyID(familyID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM people WHERE family_id = ?`, familyID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count people by family: %w", err)
	}
	return n, nil
}

func (s *PersonStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM people WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	return nil
}
