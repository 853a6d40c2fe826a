package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Fixed protocol markers. Tokens minted for another subject or issuer are
// rejected even when the signature checks out.
const (
	subject = "Person details"
	issuer  = "Semeinik"

	lifetime = 30 * time.Minute
)

var (
	// ErrInvalidToken covers bad signatures, wrong algorithms and garbage input.
	ErrInvalidToken = errors.New("invalid jwt token")
	// ErrTokenExpired is returned for tokens past their expiry.
	ErrTokenExpired = errors.New("jwt token expired")
	// ErrClaimMismatch is returned when subject or issuer differ from the
	// protocol constants.
	ErrClaimMismatch = errors.New("jwt token subject or issuer mismatch")
)

// Claims carries the identity assertions embedded in an access token.
type Claims struct {
	PersonID int64  `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	FamilyID *int64 `json:"familyId"`
	jwt.RegisteredClaims
}

// Codec signs and verifies access tokens with a symmetric key. It is
// stateless and safe for concurrent use.
type Codec struct {
	key []byte
	now func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{key: []byte(secret), now: time.Now}
}

// Issue mints a signed access token valid for 30 minutes.
func (c *Codec) Issue(personID int64, email, role string, familyID *int64) (string, error) {
	now := c.now()
	claims := Claims{
		PersonID: personID,
		Email:    email,
		Role:     role,
		FamilyID: familyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

// Verify parses and validates a token string and returns its claims.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return c.key, nil
	}, jwt.WithSubject(subject), jwt.WithIssuer(issuer), jwt.WithTimeFunc(c.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenInvalidSubject), errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, ErrClaimMismatch
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
