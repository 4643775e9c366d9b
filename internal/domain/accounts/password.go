package accounts

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const DefaultCost = 12

var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// Passwords hashea y verifica con bcrypt. El costo se inyecta para que los
// tests usen bcrypt.MinCost.
type Passwords struct {
	cost int
}

func NewPasswords(cost int) *Passwords {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Passwords{cost: cost}
}

func (p *Passwords) Hash(plain string) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), p.cost)
	if err != nil {
		return "", fmt.Errorf("accounts: hash password: %w", err)
	}
	return string(h), nil
}

// Verify devuelve false ante cualquier discrepancia, incluido un hash corrupto.
func (p *Passwords) Verify(hash, plain string) bool {
	if hash == "" || len(plain) > MaxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
