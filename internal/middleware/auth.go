package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apierr "github.com/harrygamon/Socials/internal/errors"
	"github.com/harrygamon/Socials/internal/httputil"
)

type contextKey string

const userIDKey contextKey = "user_id"

// Auth verifies the Bearer token and stores the caller's user id in the
// request context. Token issuance lives in the external auth service;
// this middleware only resolves identity.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.RespondError(w, apierr.Unauthorized("authorization header required"))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				httputil.RespondError(w, apierr.Unauthorized("invalid authorization header format"))
				return
			}

			userID, err := parseToken(parts[1], secret)
			if err != nil {
				httputil.RespondError(w, apierr.Unauthorized("invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID extracts the authenticated caller's id from the context.
// Zero means unauthenticated.
func UserID(ctx context.Context) uint64 {
	id, _ := ctx.Value(userIDKey).(uint64)
	return id
}

func parseToken(raw, secret string) (uint64, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return 0, err
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(sub, 10, 64)
}

// IssueToken signs a token for a user id. Used by the seed tool and tests;
// production tokens come from the auth collaborator sharing the secret.
func IssueToken(userID uint64, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
