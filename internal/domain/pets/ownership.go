package pets

import (
	"context"
	"errors"
	"strings"

	"pet-records/internal/platform/apperror"
)

// IsOwner es el predicado de autorización previo a cualquier mutación.
func IsOwner(p Pet, userID string) bool {
	userID = strings.TrimSpace(userID)
	return userID != "" && p.OwnerUserID == userID
}

// Guard resuelve (mascota, dueño) en una sola búsqueda. Lo usan los módulos de
// logs para no importar pets.Service (evita ciclos pets <-> logs).
type Guard struct {
	repo Repository
}

func NewGuard(repo Repository) *Guard {
	return &Guard{repo: repo}
}

// EnsureOwned devuelve NotFound tanto si la mascota no existe como si es de
// otro usuario.
func (g *Guard) EnsureOwned(ctx context.Context, ownerUserID, petID string) error {
	ownerUserID, petID = strings.TrimSpace(ownerUserID), strings.TrimSpace(petID)
	if ownerUserID == "" || petID == "" {
		return apperror.NotFound("pet")
	}

	p, err := g.repo.GetOwned(ctx, ownerUserID, petID)
	if errors.Is(err, ErrNotFound) {
		return apperror.NotFound("pet")
	}
	if err != nil {
		return err
	}
	if !IsOwner(p, ownerUserID) {
		return apperror.NotFound("pet")
	}
	return nil
}
