// Package odin verifica tokens contra el IAM externo Odin.
package odin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-records/internal/platform/httpclient"
	"pet-records/internal/ports/auth"
)

const (
	verifyPath          = "/v1/tokens/verify"
	DefaultAPIKeyHeader = "X-Api-Key"
)

var (
	ErrNotConfigured = errors.New("odin verifier not configured")
	ErrUpstream      = errors.New("odin upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string

	// Vacío => X-Api-Key.
	APIKeyHeader string

	Timeout   time.Duration
	Transport http.RoundTripper
}

// Verifier implementa auth.AuthVerifier.
type Verifier struct {
	http *httpclient.Client
}

func NewVerifier(cfg Config) (*Verifier, error) {
	base, key := strings.TrimSpace(cfg.BaseURL), strings.TrimSpace(cfg.APIKey)
	if base == "" || key == "" {
		return nil, ErrNotConfigured
	}
	header := strings.TrimSpace(cfg.APIKeyHeader)
	if header == "" {
		header = DefaultAPIKeyHeader
	}

	c, err := httpclient.New(httpclient.Options{
		BaseURL:   base,
		Timeout:   cfg.Timeout,
		Headers:   map[string]string{header: key},
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("odin: %w", err)
	}
	return &Verifier{http: c}, nil
}

type verifyResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.http == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	var out verifyResponse
	err := v.http.DoJSON(ctx, http.MethodPost, verifyPath,
		map[string]string{"Authorization": "Bearer " + token},
		map[string]string{"token": token}, &out)
	if err != nil {
		switch httpclient.StatusOf(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return auth.Claims{}, auth.ErrInvalidToken
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	uid := strings.TrimSpace(out.UserID)
	if uid == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing user_id", ErrUpstream)
	}
	return auth.Claims{
		UserID:   uid,
		Username: strings.TrimSpace(out.Username),
		Email:    strings.TrimSpace(out.Email),
	}, nil
}
