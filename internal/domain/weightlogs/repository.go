package weightlogs

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("weight log not found")

// Repository: toda lectura va unida a pets para filtrar por dueño.
type Repository interface {
	// ListByPet ordena por recorded_at desc (más nuevo primero).
	ListByPet(ctx context.Context, ownerUserID, petID string) ([]WeightLog, error)
	Create(ctx context.Context, l WeightLog) error
	GetOwned(ctx context.Context, ownerUserID, petID, id string) (WeightLog, error)
	Update(ctx context.Context, l WeightLog) error
	Delete(ctx context.Context, ownerUserID, petID, id string) error
}
