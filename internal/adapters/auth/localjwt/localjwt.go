// Package localjwt emite y verifica tokens HS256 propios (AUTH_MODE=jwt).
package localjwt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-records/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

const MinSecretLen = 16

type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type claims struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func New(secret, issuer string, ttl time.Duration) (*Manager, error) {
	if len(secret) < MinSecretLen {
		return nil, errors.New("localjwt: secret must be at least 16 characters")
	}
	if ttl <= 0 {
		return nil, errors.New("localjwt: ttl must be positive")
	}
	return &Manager{
		secret: []byte(secret),
		issuer: strings.TrimSpace(issuer),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (m *Manager) UseClock(now func() time.Time) {
	if now != nil {
		m.now = now
	}
}

func (m *Manager) Issue(_ context.Context, c auth.Claims) (auth.Token, error) {
	if strings.TrimSpace(c.UserID) == "" {
		return auth.Token{}, errors.New("localjwt: claims without user id")
	}
	now := m.now()
	exp := now.Add(m.ttl)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: c.Username,
		Email:    c.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.UserID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return auth.Token{}, fmt.Errorf("localjwt: sign: %w", err)
	}
	return auth.Token{Value: signed, ExpiresAt: exp.UTC().Truncate(time.Second)}, nil
}

// Verify exige HS256, el issuer configurado y exp.
func (m *Manager) Verify(_ context.Context, token string) (auth.Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || strings.TrimSpace(c.Subject) == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}
	return auth.Claims{UserID: c.Subject, Username: c.Username, Email: c.Email}, nil
}
