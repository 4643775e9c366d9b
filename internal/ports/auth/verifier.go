package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken lo devuelven los verifiers ante tokens inválidos o vencidos.
var ErrInvalidToken = errors.New("invalid token")

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer emite tokens propios (modo jwt).
type TokenIssuer interface {
	Issue(ctx context.Context, c Claims) (Token, error)
}
