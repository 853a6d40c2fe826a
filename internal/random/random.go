package random

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	identifierChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	identifierLength = 8
	saltBytes        = 32
	maxAttempts      = 10
)

// ErrExhausted is returned when every generation attempt collided. With
// 128-bit values this indicates a broken existence probe, not bad luck.
var ErrExhausted = errors.New("random: allocation attempts exhausted")

// allocate generates candidates until exists reports a free one. Only the
// generation is retried: the check and any later insert are not atomic, so a
// concurrent allocation of the same value still fails on the storage
// uniqueness constraint and is surfaced by the caller, never retried here.
func allocate(gen func() (string, error), exists func(string) (bool, error)) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		value, err := gen()
		if err != nil {
			return "", err
		}
		taken, err := exists(value)
		if err != nil {
			return "", err
		}
		if !taken {
			return value, nil
		}
	}
	return "", ErrExhausted
}

// Token allocates an opaque UUID token not known to the existence probe.
// Used for refresh tokens and activation tokens.
func Token(exists func(string) (bool, error)) (string, error) {
	return allocate(func() (string, error) { return uuid.NewString(), nil }, exists)
}

// Salt allocates a unique base64-encoded 32-byte salt.
func Salt(exists func(string) (bool, error)) (string, error) {
	return allocate(func() (string, error) {
		b := make([]byte, saltBytes)
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("generate salt: %w", err)
		}
		return base64.StdEncoding.EncodeToString(b), nil
	}, exists)
}

// FamilyIdentifier allocates an unused 8-character alphanumeric join code.
func FamilyIdentifier(exists func(string) (bool, error)) (string, error) {
	return allocate(func() (string, error) {
		buf := make([]byte, identifierLength)
		for i := range buf {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(identifierChars))))
			if err != nil {
				return "", fmt.Errorf("generate identifier: %w", err)
			}
			buf[i] = identifierChars[n.Int64()]
		}
		return string(buf), nil
	}, exists)
}
