package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kunjshukla/ain/internal/models"
	"github.com/kunjshukla/ain/internal/utils"
)

// SessionTokenClaims are the claims carried by interview access tokens.
type SessionTokenClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// RequireAuth validates a Bearer token on REST routes. An empty secret
// disables auth entirely (local development).
func RequireAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(secret) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			token, err := extractToken(r.Header.Get("Authorization"))
			if err != nil {
				utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
					Code:    "unauthorized",
					Message: err.Error(),
				})
				return
			}

			if _, err := ValidateSessionToken(token, secret); err != nil {
				utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
					Code:    "invalid_token",
					Message: "Invalid or expired token",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ValidateSessionToken parses and verifies a token and returns its claims.
func ValidateSessionToken(tokenString string, secret []byte) (*SessionTokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	return token.Claims.(*SessionTokenClaims), nil
}

func extractToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", errors.New("invalid authorization header format")
	}
	return authHeader[len("Bearer "):], nil
}
