package devserver

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// accessTokenExpiry is deliberately long; this server backs local
// development, not production.
const accessTokenExpiry = 24 * time.Hour

// Predefined token errors.
var (
	ErrInvalidToken = errors.New("invalid access token")
	ErrTokenExpired = errors.New("access token has expired")
)

// TokenIssuer creates and validates the HS256 access tokens handed out by
// the login endpoint.
type TokenIssuer struct {
	signingKey []byte
}

// NewTokenIssuer creates a token issuer with the given signing key.
func NewTokenIssuer(signingKey string) *TokenIssuer {
	return &TokenIssuer{signingKey: []byte(signingKey)}
}

// Generate creates an access token for the given user id.
func (t *TokenIssuer) Generate(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    "medinv-devserver",
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenExpiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.signingKey)
}

// Verify validates a token and returns the user id it was issued for.
func (t *TokenIssuer) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return t.signingKey, nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
