package store

import (
	"database/sql"
	"testing"

	"github.com/dkolesnikov/semeinik/internal/database"
	"github.com/dkolesnikov/semeinik/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestPerson(t *testing.T, people *PersonStore, email string) *model.Person {
	t.Helper()
	person, err := people.Create(email, "hash-"+email, "salt-"+email, nil)
	if err != nil {
		t.Fatalf("create person: %v", err)
	}
	return person
}

func TestPersonCreateAndGet(t *testing.T) {
	people := NewPersonStore(setupTestDB(t))

	created := createTestPerson(t, people, "alice@example.com")
	if created.Activated {
		t.Error("new person should not be activated")
	}
	if created.Role != "ROLE_USER" {
		t.Errorf("Role = %q, want %q", created.Role, "ROLE_USER")
	}
	if created.FamilyID != nil {
		t.Errorf("FamilyID = %v, want nil", created.FamilyID)
	}

	byEmail, err := people.GetByEmail("alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail == nil || byEmail.ID != created.ID {
		t.Errorf("GetByEmail = %+v, want id %d", byEmail, created.ID)
	}

	missing, err := people.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown email, got %+v", missing)
	}
}

func TestPersonEmailUnique(t *testing.T) {
	people := NewPersonStore(setupTestDB(t))

	createTestPerson(t, people, "alice@example.com")
	if _, err := people.Create("alice@example.com", "h", "other-salt", nil); err == nil {
		t.Error("expected uniqueness violation for duplicate email")
	}
}

func TestPersonExistsEmail(t *testing.T) {
	people := NewPersonStore(setupTestDB(t))

	createTestPerson(t, people, "alice@example.com")

	exists, err := people.ExistsEmail("alice@example.com")
	if err != nil {
		t.Fatalf("exists email: %v", err)
	}
	if !exists {
		t.Error("expected exists = true for known email")
	}
	exists, err = people.ExistsEmail("bob@example.com")
	if err != nil {
		t.Fatalf("exists email: %v", err)
	}
	if exists {
		t.Error("expected exists = false for unknown email")
	}
}

func TestPersonExistsSalt(t *testing.T) {
	people := NewPersonStore(setupTestDB(t))

	createTestPerson(t, people, "alice@example.com")

	exists, err := people.ExistsSalt("salt-alice@example.com")
	if err != nil {
		t.Fatalf("exists salt: %v", err)
	}
	if !exists {
		t.Error("expected exists = true for used salt")
	}
}

func TestPersonSetActivated(t *testing.T) {
	people := NewPersonStore(setupTestDB(t))

	person := createTestPerson(t, people, "alice@example.com")
	if err := people.SetActivated(person.ID); err != nil {
		t.Fatalf("set activated: %v", err)
	}

	got, err := people.GetByID(person.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Activated {
		t.Error("expected activated = true")
	}
}

func TestPersonSetFamily(t *testing.T) {
	db := setupTestDB(t)
	people := NewPersonStore(db)
	families := NewFamilyStore(db)

	person := createTestPerson(t, people, "alice@example.com")
	family, err := families.Create("AbCd1234", "Smiths")
	if err != nil {
		t.Fatalf("create family: %v", err)
	}

	if err := people.SetFamily(person.ID, &family.ID); err != nil {
		t.Fatalf("set family: %v", err)
	}
	got, _ := people.GetByID(person.ID)
	if got.FamilyID == nil || *got.FamilyID != family.ID {
		t.Errorf("FamilyID = %v, want %d", got.FamilyID, family.ID)
	}

	if err := people.SetFamily(person.ID, nil); err != nil {
		t.Fatalf("clear family: %v", err)
	}
	got, _ = people.GetByID(person.ID)
	if got.FamilyID != nil {
		t.Errorf("FamilyID = %v, want nil after clearing", got.FamilyID)
	}
}
