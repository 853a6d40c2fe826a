package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkolesnikov/semeinik/internal/model"
	"github.com/dkolesnikov/semeinik/internal/random"
	"github.com/dkolesnikov/semeinik/internal/store"
)

var (
	ErrAlreadyInFamily = errors.New("Person already belongs to a family")
	ErrNoFamily        = errors.New("Person does not belong to a family")
)

type FamilyService struct {
	db       *sql.DB
	people   *store.PersonStore
	families *store.FamilyStore
}

func NewFamilyService(db *sql.DB, people *store.PersonStore, families *store.FamilyStore) *FamilyService {
	return &FamilyService{
		db:       db,
		people:   people,
		families: families,
	}
}

// Create founds a new family for a person who has none.
func (s *FamilyService) Create(personID int64, name string) (*model.Family, error) {
	person, err := s.people.GetByID(personID)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, ErrPersonNotFound
	}
	if person.FamilyID != nil {
		return nil, ErrAlreadyInFamily
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	families := s.families.WithTx(tx)
	identifier, err := random.FamilyIdentifier(families.ExistsIdentifier)
	if err != nil {
		return nil, err
	}
	family, err := families.Create(identifier, name)
	if err != nil {
		return nil, err
	}
	if err := s.people.WithTx(tx).SetFamily(personID, &family.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return family, nil
}

// Join puts a family-less person into the family with the given public
// identifier.
func (s *FamilyService) Join(personID int64, identifier string) (*model.Family, error) {
	person, err := s.people.GetByID(personID)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, ErrPersonNotFound
	}
	if person.FamilyID != nil {
		return nil, ErrAlreadyInFamily
	}
	family, err := s.families.GetByIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}
	if err := s.people.SetFamily(personID, &family.ID); err != nil {
		return nil, err
	}
	return family, nil
}

// Leave detaches the person from their family. The family itself is
// removed once its last member leaves.
func (s *FamilyService) Leave(personID int64) error {
	person, err := s.people.GetByID(personID)
	if err != nil {
		return err
	}
	if person == nil {
		return ErrPersonNotFound
	}
	if person.FamilyID == nil {
		return ErrNoFamily
	}
	familyID := *person.FamilyID

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	people := s.people.WithTx(tx)
	if err := people.SetFamily(personID, nil); err != nil {
		return err
	}
	remaining, err := people.CountByFamilyID(familyID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		if err := s.families.WithTx(tx).Delete(familyID); err != nil {
			return err
		}
	}
	return tx.Commit()
}
