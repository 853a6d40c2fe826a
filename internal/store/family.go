package store

import (
	"database/sql"
	"fmt"

	"github.com/dkolesnikov/semeinik/internal/model"
)

type FamilyStore struct {
	db DBTX
}

func NewFamilyStore(db DBTX) *FamilyStore {
	return &FamilyStore{db: db}
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *FamilyStore) WithTx(tx *sql.Tx) *FamilyStore {
	return &FamilyStore{db: tx}
}

func scanFamily(scanner interface{ Scan(...any) error }) (*model.Family, error) {
	var f model.Family
	err := scanner.Scan(&f.ID, &f.Identifier, &f.Name, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

const familyCols = `id, family_identifier, name, created_at`

func (s *FamilyStore) Create(identifier, name string) (*model.Family, error) {
	result, err := s.db.Exec(
		`INSERT INTO families (family_identifier, name) VALUES (?, ?)`,
		identifier, name,
	)
	if err != nil {
		return nil, fmt.Errorf("insert family: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *FamilyStore) GetByID(id int64) (*model.Family, error) {
	row := s.db.QueryRow(`SELECT `+familyCols+` FROM families WHERE id = ?`, id)
	f, err := scanFamily(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get family: %w", err)
	}
	return f, nil
}

func (s *FamilyStore) GetByIdentifier(identifier string) (*model.Family, error) {
	row := s.db.QueryRow(`SELECT `+familyCols+` FROM families WHERE family_identifier = ?`, identifier)
	f, err := scanFamily(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get family by identifier: %w", err)
	}
	return f, nil
}

func (s *FamilyStore) ExistsIdentifier(identifier string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM families WHERE family_identifier = ?`, identifier).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count families by identifier: %w", err)
	}
	return n > 0, nil
}

func (s *FamilyStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM families WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete family: %w", err)
	}
	return nil
}
