package auth

import (
	"strings"
	"time"
)

// Claims representa la información extraída del token.
type Claims struct {
	UserID   string
	Username string
	Email    string
}

// Handle es el identificador visible del usuario (username, o el id si el
// proveedor no informa username).
func (c Claims) Handle() string {
	if u := strings.TrimSpace(c.Username); u != "" {
		return u
	}
	return c.UserID
}

// Token es un bearer token emitido por un TokenIssuer.
type Token struct {
	Value     string
	ExpiresAt time.Time
}
