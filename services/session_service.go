package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ember_server/apperr"
)

// SessionClaims is the payload of the signed session cookie. The token
// carries no authority by itself: the username is re-resolved against the
// user store on every authenticated request.
type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionService issues and verifies the opaque session credential.
type SessionService struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionService creates a SessionService signing with the given secret.
func NewSessionService(secret string) *SessionService {
	return &SessionService{secret: []byte(secret), ttl: 24 * time.Hour}
}

// Issue signs a session token for the username.
func (s *SessionService) Issue(username string) (string, error) {
	claims := &SessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks the token signature and claims and returns the embedded
// username. Malformed, tampered and expired tokens are all reported as a
// missing credential.
func (s *SessionService) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrMissingCredential, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || claims.Username == "" {
		return "", apperr.ErrMissingCredential
	}
	return claims.Username, nil
}
