package profiles

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("profile not found")

type Repository interface {
	// GetOrCreate inserta un perfil vacío si no existe (atómico).
	GetOrCreate(ctx context.Context, userID string) (Profile, error)
	Update(ctx context.Context, p Profile) error
}
