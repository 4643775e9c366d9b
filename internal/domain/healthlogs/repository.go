package healthlogs

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("health log not found")

type Repository interface {
	// ListByPet ordena por created_at desc.
	ListByPet(ctx context.Context, ownerUserID, petID string) ([]HealthLog, error)
	Create(ctx context.Context, l HealthLog) error
	GetOwned(ctx context.Context, ownerUserID, petID, id string) (HealthLog, error)
	Update(ctx context.Context, l HealthLog) error
	Delete(ctx context.Context, ownerUserID, petID, id string) error
}
