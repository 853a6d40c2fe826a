package middleware

import (
	"net/http"
	"strings"

	"github.com/dkolesnikov/semeinik/internal/auth"
	"github.com/dkolesnikov/semeinik/internal/store"
	"github.com/dkolesnikov/semeinik/internal/token"
)

const bearerPrefix = "Bearer "

// Authenticate verifies the access token on requests that carry one and
// populates AuthContext. Requests without a Bearer header pass through
// anonymously; a present but bad token is rejected outright.
func Authenticate(codec *token.Codec, people *store.PersonStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := codec.Verify(strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				http.Error(w, "Invalid jwt token", http.StatusUnauthorized)
				return
			}

			person, err := people.GetByEmail(claims.Email)
			if err != nil || person == nil {
				http.Error(w, "Invalid jwt token", http.StatusUnauthorized)
				return
			}

			ac := auth.AuthContext{
				PersonID: person.ID,
				Email:    person.Email,
				Role:     person.Role,
				FamilyID: person.FamilyID,
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that did not authenticate.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.FromContext(r.Context()); !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin checks that the authenticated person has the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsAdmin(r.Context()) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
