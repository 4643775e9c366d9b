package pets

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("pet not found")

	// La referencia a la taxonomía dejó de existir al momento de escribir.
	ErrUnknownPetType    = errors.New("pet type does not exist")
	ErrUnknownPetSpecies = errors.New("pet species does not exist")
)

// Repository siempre filtra por dueño: una mascota ajena no existe.
type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	Delete(ctx context.Context, ownerUserID, id string) error
	GetOwned(ctx context.Context, ownerUserID, id string) (Pet, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error)
}
