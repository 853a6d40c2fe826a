package model

import "time"

// Family groups people. Identifier is the 8-character join code shared
// out-of-band with new members.
type Family struct {
	ID         int64     `json:"id"`
	Identifier string    `json:"family_identifier"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}
