package taxonomy

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("taxonomy: not found")
	ErrDuplicateName = errors.New("taxonomy: name already exists")
	ErrUnknownType   = errors.New("taxonomy: unknown pet type")
)

type Repository interface {
	// ListTypes devuelve todos los tipos con sus especies anidadas.
	ListTypes(ctx context.Context) ([]PetType, error)
	GetType(ctx context.Context, id string) (PetType, error)
	FindTypeByName(ctx context.Context, name string) (PetType, error)

	// ListSpecies devuelve sólo las especies del tipo; tipo desconocido => vacío.
	ListSpecies(ctx context.Context, typeID string) ([]PetSpecies, error)
	GetSpecies(ctx context.Context, id string) (PetSpecies, error)
	FindSpeciesByName(ctx context.Context, name string) (PetSpecies, error)

	CreateType(ctx context.Context, t PetType) error
	CreateSpecies(ctx context.Context, s PetSpecies) error

	// DeleteType borra también sus especies; las mascotas quedan sin tipo/especie.
	DeleteType(ctx context.Context, id string) error
	// DeleteSpecies deja las mascotas que la referencian sin especie.
	DeleteSpecies(ctx context.Context, id string) error
}
