package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dkolesnikov/semeinik/internal/email"
	"github.com/dkolesnikov/semeinik/internal/random"
	"github.com/dkolesnikov/semeinik/internal/store"
)

const activationTokenTTL = 24 * time.Hour

var (
	ErrMalformedToken    = errors.New("Wrong UUID format")
	ErrTokenNotFound     = errors.New("Activation token not found")
	ErrActivationExpired = errors.New("Activation token expired")
	ErrPersonNotFound    = errors.New("Person not found")
	ErrAlreadyActivated  = errors.New("Account is already activated")
)

type ActivationService struct {
	db     *sql.DB
	people *store.PersonStore
	tokens *store.ActivationTokenStore
	mailer *email.Client
	now    func() time.Time
}

func NewActivationService(db *sql.DB, people *store.PersonStore, tokens *store.ActivationTokenStore, mailer *email.Client) *ActivationService {
	return &ActivationService{
		db:     db,
		people: people,
		tokens: tokens,
		mailer: mailer,
		now:    time.Now,
	}
}

// Activate consumes the token and flips the owning person to activated.
// Expired tokens fail without activating anyone; the row itself is left
// for the reaper.
func (s *ActivationService) Activate(tokenString string) error {
	if _, err := uuid.Parse(tokenString); err != nil {
		return ErrMalformedToken
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	tokens := s.tokens.WithTx(tx)
	at, err := tokens.GetByToken(tokenString)
	if err != nil {
		return err
	}
	if at == nil {
		return ErrTokenNotFound
	}
	if s.now().After(at.ExpiresAt) {
		return ErrActivationExpired
	}

	if err := s.people.WithTx(tx).SetActivated(at.PersonID); err != nil {
		return err
	}
	if err := tokens.Delete(at.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// SendActivationLink issues a fresh activation token for the address and
// mails the link. A token the person already holds is superseded. The mail
// goes out only after the token is durably stored.
func (s *ActivationService) SendActivationLink(emailAddr string) error {
	person, err := s.people.GetByEmail(emailAddr)
	if err != nil {
		return err
	}
	if person == nil {
		return ErrPersonNotFound
	}
	if person.Activated {
		return ErrAlreadyActivated
	}

	value, err := s.issueToken(person.ID)
	if err != nil {
		return err
	}
	return s.mailer.SendActivationLink(person.Email, value)
}

// issueToken allocates and stores an activation token in its own
// transaction and returns the token value.
func (s *ActivationService) issueToken(personID int64) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	tokens := s.tokens.WithTx(tx)
	value, err := random.Token(tokens.ExistsToken)
	if err != nil {
		return "", err
	}
	if _, err := tokens.Replace(personID, value, s.now().Add(activationTokenTTL)); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit tx: %w", err)
	}
	return value, nil
}
