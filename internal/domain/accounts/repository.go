package accounts

import (
	"context"
	"errors"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	// Delete borra el usuario junto con su perfil y sus mascotas (y con ellas
	// todos los registros).
	Delete(ctx context.Context, id string) error
}
