package random

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func never(string) (bool, error) { return false, nil }

func TestTokenIsUUID(t *testing.T) {
	value, err := Token(never)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if _, err := uuid.Parse(value); err != nil {
		t.Errorf("Token() = %q, not a UUID: %v", value, err)
	}
}

func TestAllocateRetriesOnCollision(t *testing.T) {
	calls := 0
	exists := func(string) (bool, error) {
		calls++
		return calls < 3, nil
	}

	if _, err := Token(exists); err != nil {
		t.Fatalf("token: %v", err)
	}
	if calls != 3 {
		t.Errorf("existence probes = %d, want 3", calls)
	}
}

func TestAllocateExhausted(t *testing.T) {
	always := func(string) (bool, error) { return true, nil }

	if _, err := Token(always); !errors.Is(err, ErrExhausted) {
		t.Errorf("err = %v, want ErrExhausted", err)
	}
}

func TestAllocateProbeError(t *testing.T) {
	probeErr := errors.New("db down")
	failing := func(string) (bool, error) { return false, probeErr }

	if _, err := Token(failing); !errors.Is(err, probeErr) {
		t.Errorf("err = %v, want probe error", err)
	}
}

func TestSalt(t *testing.T) {
	a, err := Salt(never)
	if err != nil {
		t.Fatalf("salt: %v", err)
	}
	b, err := Salt(never)
	if err != nil {
		t.Fatalf("salt: %v", err)
	}
	if a == b {
		t.Error("two salts should not be equal")
	}
	if len(a) == 0 {
		t.Error("salt should not be empty")
	}
}

func TestFamilyIdentifier(t *testing.T) {
	id, err := FamilyIdentifier(never)
	if err != nil {
		t.Fatalf("family identifier: %v", err)
	}
	if len(id) != identifierLength {
		t.Errorf("len = %d, want %d", len(id), identifierLength)
	}
	for _, r := range id {
		ok := (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !ok {
			t.Errorf("identifier %q contains %q", id, r)
		}
	}
}
