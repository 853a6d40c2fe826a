package model

import "time"

// Person is a registered account. PasswordHash is bcrypt over the password
// concatenated with Salt; Salt is unique per person.
type Person struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	Role         string    `json:"role"`
	Activated    bool      `json:"activated"`
	FamilyID     *int64    `json:"family_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
