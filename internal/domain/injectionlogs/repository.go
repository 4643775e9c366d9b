package injectionlogs

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("injection log not found")

type Repository interface {
	// ListByPet ordena por injection_date desc.
	ListByPet(ctx context.Context, ownerUserID, petID string) ([]InjectionLog, error)
	Create(ctx context.Context, l InjectionLog) error
	GetOwned(ctx context.Context, ownerUserID, petID, id string) (InjectionLog, error)
	Update(ctx context.Context, l InjectionLog) error
	Delete(ctx context.Context, ownerUserID, petID, id string) error
}
