package store

import (
	"testing"
	"time"
)

func TestSessionCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	people := NewPersonStore(db)
	sessions := NewSessionStore(db)

	person := createTestPerson(t, people, "alice@example.com")
	expiry := time.Now().Add(time.Hour).UTC()

	created, err := sessions.Create(person.ID, "token-1", expiry)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if created.PersonID != person.ID {
		t.Errorf("PersonID = %d, want %d", created.PersonID, person.ID)
	}
	if created.IssuedAt.IsZero() {
		t.Error("IssuedAt should be set")
	}

	got, err := sessions.GetByRefreshToken("token-1")
	if err != nil {
		t.Fatalf("get by refresh token: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Errorf("GetByRefreshToken = %+v, want id %d", got, created.ID)
	}

	missing, err := sessions.GetByRefreshToken("unknown")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown token, got %+v", missing)
	}
}

func TestSessionGetReturnsExpiredRows(t *testing.T) {
	db := setupTestDB(t)
	people := NewPersonStore(db)
	sessions := NewSessionStore(db)

	person := createTestPerson(t, people, "alice@example.com")
	if _, err := sessions.Create(person.ID, "stale", time.Now().Add(-time.Hour).UTC()); err != nil {
		t.Fatalf("create session: %v", err)
	}

	got, err := sessions.GetByRefreshToken("stale")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expired session must still be returned by lookup")
	}
}

func TestSessionTokenUnique(t *testing.T) {
	db := setupTestDB(t)
	people := NewPersonStore(db)
	sessions := NewSessionStore(db)

	alice := createTestPerson(t, people, "alice@example.com")
	bob := createTestPerson(t, people, "bob@example.com")

	expiry := time.Now().Add(time.Hour).UTC()
	if _, err := sessions.Create(alice.ID, "same-token", expiry); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := sessions.Create(bob.ID, "same-token", expiry); err == nil {
		t.Error("expected uniqueness violation for duplicate refresh token")
	}
}

func TestSessionCountAndDeleteByPerson(t *testing.T) {
	db := setupTestDB(t)
	people := NewPersonStore(db)
	sessions := NewSessionStore(db)

	alice := createTestPerson(t, people, "alice@example.com")
	bob := createTestPerson(t, people, "bob@example.com")

	expiry := time.Now().Add(time.Hour).UTC()
	for _, token := range []string{"a1", "a2", "a3"} {
		if _, err := sessions.Create(alice.ID, token, expiry); err != nil {
			t.Fatalf("create session: %v", err)
		}
	}
	if _, err := sessions.Create(bob.ID, "b1", expiry); err != nil {
		t.Fatalf("create session: %v", err)
	}

	n, err := sessions.CountByPersonID(alice.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}

	if err := sessions.DeleteByPersonID(alice.ID); err != nil {
		t.Fatalf("delete by person: %v", err)
	}
	n, _ = sessions.CountByPersonID(alice.ID)
	if n != 0 {
		t.Errorf("count after delete = %d, want 0", n)
	}
	n, _ = sessions.CountByPersonID(bob.ID)
	if n != 1 {
		t.Errorf("bob's count = %d, want 1", n)
	}
}

func TestSessionDeleteByRefreshTokenIdempotent(t *testing.T) {
	db := setupTestDB(t)
	people := NewPersonStore(db)
	sessions := NewSessionStore(db)

	person := createTestPerson(t, people, "alice@example.com")
	if _, err := sessions.Create(person.ID, "token-1", time.Now().Add(time.Hour).UTC()); err != nil {
		t.Fatalf("create session: %v", err)
	}

	if err := sessions.DeleteByRefreshToken("token-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := sessions.DeleteByRefreshToken("token-1"); err != nil {
		t.Fatalf("second delete should not fail: %v", err)
	}
}

func TestSessionDeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	people := NewPersonStore(db)
	sessions := NewSessionStore(db)

	person := createTestPerson(t, people, "alice@example.com")
	if _, err := sessions.Create(person.ID, "stale", time.Now().Add(-time.Hour).UTC()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := sessions.Create(person.ID, "fresh", time.Now().Add(time.Hour).UTC()); err != nil {
		t.Fatalf("create: %v", err)
	}

	n, err := sessions.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}

	if got, _ := sessions.GetByRefreshToken("fresh"); got == nil {
		t.Error("fresh session should survive the reaper")
	}
}
