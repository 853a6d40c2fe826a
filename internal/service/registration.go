package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkolesnikov/semeinik/internal/model"
	"github.com/dkolesnikov/semeinik/internal/password"
	"github.com/dkolesnikov/semeinik/internal/random"
	"github.com/dkolesnikov/semeinik/internal/store"
)

var (
	ErrEmailTaken     = errors.New("Email is already taken")
	ErrFamilyNotFound = errors.New("Family not found")
)

type RegistrationService struct {
	db          *sql.DB
	people      *store.PersonStore
	families    *store.FamilyStore
	activations *ActivationService
}

func NewRegistrationService(db *sql.DB, people *store.PersonStore, families *store.FamilyStore, activations *ActivationService) *RegistrationService {
	return &RegistrationService{
		db:          db,
		people:      people,
		families:    families,
		activations: activations,
	}
}

// RegisterAndCreateFamily creates an unactivated person together with a
// brand new family, mails the activation link and returns the family's
// join identifier.
func (s *RegistrationService) RegisterAndCreateFamily(email, pass, familyName string) (string, error) {
	taken, err := s.people.ExistsEmail(email)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrEmailTaken
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	families := s.families.WithTx(tx)
	identifier, err := random.FamilyIdentifier(families.ExistsIdentifier)
	if err != nil {
		return "", err
	}
	family, err := families.Create(identifier, familyName)
	if err != nil {
		return "", err
	}
	person, err := s.createPerson(tx, email, pass, &family.ID)
	if err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit tx: %w", err)
	}

	if err := s.activations.SendActivationLink(person.Email); err != nil {
		return "", err
	}
	return family.Identifier, nil
}

// RegisterAndJoinFamily creates an unactivated person inside an existing
// family, looked up by its public identifier, and mails the activation link.
func (s *RegistrationService) RegisterAndJoinFamily(email, pass, familyIdentifier string) error {
	taken, err := s.people.ExistsEmail(email)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}
	family, err := s.families.GetByIdentifier(familyIdentifier)
	if err != nil {
		return err
	}
	if family == nil {
		return ErrFamilyNotFound
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	person, err := s.createPerson(tx, email, pass, &family.ID)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return s.activations.SendActivationLink(person.Email)
}

func (s *RegistrationService) EmailExists(email string) (bool, error) {
	return s.people.ExistsEmail(email)
}

func (s *RegistrationService) createPerson(tx *sql.Tx, email, pass string, familyID *int64) (*model.Person, error) {
	people := s.people.WithTx(tx)
	salt, err := random.Salt(people.ExistsSalt)
	if err != nil {
		return nil, err
	}
	hash, err := password.Hash(pass, salt)
	if err != nil {
		return nil, err
	}
	return people.Create(email, hash, salt, familyID)
}
