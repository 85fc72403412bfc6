// Package auth reads the operator identity from an HS256 bearer token.
// Handlers pass the subject explicitly as the author of every write.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoOperator = errors.New("operator identity is required")

type ctxKey struct{}

// Middleware rejects requests without a valid token signed with secret and
// stores the token subject in the request context.
func Middleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			subject, err := Verify(secret, raw)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOperator(r.Context(), subject)))
		})
	}
}

// HeaderMiddleware trusts the X-Operator header. It is only mounted when no
// JWT secret is configured outside production.
func HeaderMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := strings.TrimSpace(r.Header.Get("X-Operator"))
		next.ServeHTTP(w, r.WithContext(WithOperator(r.Context(), subject)))
	})
}

// Verify checks the token signature and expiry and returns its subject.
func Verify(secret []byte, raw string) (string, error) {
	var claims jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", ErrNoOperator
	}

	return subject, nil
}

// Sign issues a token for subject valid for ttl. washctl uses it to mint
// operator tokens.
func Sign(secret []byte, subject string, ttl time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

func WithOperator(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, ctxKey{}, subject)
}

// Operator returns the subject stored by Middleware, or "".
func Operator(ctx context.Context) string {
	s, _ := ctx.Value(ctxKey{}).(string)
	return s
}
