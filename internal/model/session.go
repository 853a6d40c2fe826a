package model

import "time"

// Session binds an opaque refresh token to a person. The token value is
// unique across all sessions.
type Session struct {
	ID           int64     `json:"id"`
	RefreshToken string    `json:"-"`
	PersonID     int64     `json:"person_id"`
	IssuedAt     time.Time `json:"issued_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ActivationToken is a one-time email confirmation secret. A person holds at
// most one at any time; issuing a new one supersedes the old.
type ActivationToken struct {
	ID        int64     `json:"id"`
	Token     string    `json:"-"`
	PersonID  int64     `json:"person_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
