package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/bucketdrop/service/internal/auth"
	"github.com/bucketdrop/service/internal/response"
	"github.com/rs/zerolog/log"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

// SubjectKey is the context key for the authenticated token subject.
const SubjectKey contextKey = "subject"

// Subject returns the token subject stored by RequireAuth, if any.
func Subject(ctx context.Context) string {
	s, _ := ctx.Value(SubjectKey).(string)
	return s
}

// RequireAuth returns middleware that validates a Bearer JWT on mutating
// requests and injects its subject into the request context. Safe methods
// pass through. An empty secret disables the check entirely.
func RequireAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if jwtSecret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "authorization header required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Unauthorized(w, "invalid authorization header format")
				return
			}

			subject, err := auth.Verify(jwtSecret, parts[1])
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected bearer token")
				response.Unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
