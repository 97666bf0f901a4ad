package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"riveros/internal/core"
)

// CookieName is the session cookie carrying the signed identity token.
const CookieName = "riveros_token"

// TokenTTL bounds how long a signed session stays valid.
const TokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid session token")

// Claims embeds the signed-in identity into the token so request handling
// never has to call the backend to resolve the user again.
type Claims struct {
	jwt.RegisteredClaims
	Email      string `json:"email"`
	Name       string `json:"name"`
	Vessel     string `json:"vessel"`
	VesselAbbr string `json:"vesselAbbr"`
}

// TokenManager signs and verifies session tokens with a shared HMAC secret.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

func NewTokenManager(secret []byte) *TokenManager {
	return &TokenManager{secret: secret, now: time.Now}
}

func (m *TokenManager) Sign(id core.Identity) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		Email:      id.Email,
		Name:       id.Name,
		Vessel:     id.Vessel,
		VesselAbbr: id.VesselAbbr,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Verify parses a session token and returns the identity it carries.
func (m *TokenManager) Verify(tokenString string) (core.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now() }))
	if err != nil {
		return core.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return core.Identity{}, ErrInvalidToken
	}

	return core.Identity{
		Email:      claims.Email,
		Name:       claims.Name,
		Vessel:     claims.Vessel,
		VesselAbbr: claims.VesselAbbr,
	}, nil
}
