package memory

import (
	"context"
	"errors"
	"sort"
	"time"

	"pet-records/internal/domain/healthlogs"
	"pet-records/internal/domain/injectionlogs"
	"pet-records/internal/domain/weightlogs"
)

var errLogExists = errors.New("log already exists")

// newestFirst ordena por key desc y, a igual key, por inserción desc.
func newestFirst[T any](recs []record[T], key func(T) time.Time) []T {
	sort.Slice(recs, func(i, j int) bool {
		a, b := key(recs[i].v), key(recs[j].v)
		if !a.Equal(b) {
			return a.After(b)
		}
		return recs[i].seq > recs[j].seq
	})
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.v)
	}
	return out
}

// ---- weight ----

type weightRepo struct {
	s *Store
}

func (r weightRepo) ListByPet(ctx context.Context, ownerUserID, petID string) ([]weightlogs.WeightLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, ok := r.s.ownedPet(ownerUserID, petID); !ok {
		return []weightlogs.WeightLog{}, nil
	}
	recs := make([]record[weightlogs.WeightLog], 0)
	for _, rec := range r.s.weights {
		if rec.v.PetID == petID {
			recs = append(recs, rec)
		}
	}
	return newestFirst(recs, func(l weightlogs.WeightLog) time.Time { return l.RecordedAt }), nil
}

func (r weightRepo) Create(ctx context.Context, l weightlogs.WeightLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[l.PetID]; !ok {
		return weightlogs.ErrNotFound
	}
	if _, exists := r.s.weights[l.ID]; exists {
		return errLogExists
	}
	r.s.weights[l.ID] = record[weightlogs.WeightLog]{seq: r.s.next(), v: l}
	return nil
}

func (r weightRepo) GetOwned(ctx context.Context, ownerUserID, petID, id string) (weightlogs.WeightLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.weights[id]
	if !ok || rec.v.PetID != petID {
		return weightlogs.WeightLog{}, weightlogs.ErrNotFound
	}
	if _, ok := r.s.ownedPet(ownerUserID, petID); !ok {
		return weightlogs.WeightLog{}, weightlogs.ErrNotFound
	}
	return rec.v, nil
}

func (r weightRepo) Update(ctx context.Context, l weightlogs.WeightLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.weights[l.ID]
	if !ok || rec.v.PetID != l.PetID {
		return weightlogs.ErrNotFound
	}
	l.CreatedAt = rec.v.CreatedAt
	rec.v = l
	r.s.weights[l.ID] = rec
	return nil
}

func (r weightRepo) Delete(ctx context.Context, ownerUserID, petID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.weights[id]
	if !ok || rec.v.PetID != petID {
		return weightlogs.ErrNotFound
	}
	if _, ok := r.s.ownedPet(ownerUserID, petID); !ok {
		return weightlogs.ErrNotFound
	}
	delete(r.s.weights, id)
	return nil
}

// ---- health ----

type healthRepo struct {
	s *Store
}

func (r healthRepo) ListByPet(ctx context.Context, ownerUserID, petID string) ([]healthlogs.HealthLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, ok := r.s.ownedPet(ownerUserID, petID); !ok {
		return []healthlogs.HealthLog{}, nil
	}
	recs := make([]record[healthlogs.HealthLog], 0)
	for _, rec := range r.s.health {
		if rec.v.PetID == petID {
			recs = append(recs, rec)
		}
	}
	return newestFirst(recs, func(l healthlogs.HealthLog) time.Time { return l.CreatedAt }), nil
}

func (r healthRepo) Create(ctx context.Context, l healthlogs.HealthLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[l.PetID]; !ok {
		return healthlogs.ErrNotFound
	}
	if _, exists := r.s.health[l.ID]; exists {
		return errLogExists
	}
	r.s.health[l.ID] = record[healthlogs.HealthLog]{seq: r.s.next(), v: l}
	return nil
}

func (r healthRepo) GetOwned(ctx context.Context, ownerUserID, petID, id string) (healthlogs.HealthLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.health[id]
	if !ok || rec.v.PetID != petID {
		return healthlogs.HealthLog{}, healthlogs.ErrNotFound
	}
	if _, ok := r.s.ownedPet(ownerUserID, petID); !ok {
		return healthlogs.HealthLog{}, healthlogs.ErrNotFound
	}
	return rec.v, nil
}

// Update conserva created_at.
func (r healthRepo) Update(ctx context.Context, l healthlogs.HealthLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.health[l.ID]
	if !ok || rec.v.PetID != l.PetID {
		return healthlogs.ErrNotFound
	}
	l.CreatedAt = rec.v.CreatedAt
	rec.v = l
	r.s.health[l.ID] = rec
	return nil
}

func (r healthRepo) Delete(ctx context.Context, ownerUserID, petID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.health[id]
	if !ok || rec.v.PetID != petID {
		return healthlogs.ErrNotFound
	}
	if _, ok := r.s.ownedPet(ownerUserID, petID); !ok {
		return healthlogs.ErrNotFound
	}
	delete(r.s.health, id)
	return nil
}

// ---- injection ----

type injectionRepo struct {
	s *Store
}

func (r injectionRepo) ListByPet(ctx context.Context, ownerUserID, petID string) ([]injectionlogs.InjectionLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, ok := r.s.ownedPet(ownerUserID, petID); !ok {
		return []injectionlogs.InjectionLog{}, nil
	}
	recs := make([]record[injectionlogs.InjectionLog], 0)
	for _, rec := range r.s.injection {
		if rec.v.PetID == petID {
			recs = append(recs, rec)
		}
	}
	return newestFirst(recs, func(l injectionlogs.InjectionLog) time.Time { return l.InjectionDate }), nil
}

func (r injectionRepo) Create(ctx context.Context, l injectionlogs.InjectionLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[l.PetID]; !ok {
		return injectionlogs.ErrNotFound
	}
	if _, exists := r.s.injection[l.ID]; exists {
		return errLogExists
	}
	r.s.injection[l.ID] = record[injectionlogs.InjectionLog]{seq: r.s.next(), v: l}
	return nil
}

func (r injectionRepo) GetOwned(ctx context.Context, ownerUserID, petID, id string) (injectionlogs.InjectionLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.injection[id]
	if !ok || rec.v.PetID != petID {
		return injectionlogs.InjectionLog{}, injectionlogs.ErrNotFound
	}
	if _, ok := r.s.ownedPet(ownerUserID, petID); !ok {
		return injectionlogs.InjectionLog{}, injectionlogs.ErrNotFound
	}
	return rec.v, nil
}

func (r injectionRepo) Update(ctx context.Context, l injectionlogs.InjectionLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.injection[l.ID]
	if !ok || rec.v.PetID != l.PetID {
		return injectionlogs.ErrNotFound
	}
	l.CreatedAt = rec.v.CreatedAt
	rec.v = l
	r.s.injection[l.ID] = rec
	return nil
}

func (r injectionRepo) Delete(ctx context.Context, ownerUserID, petID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.injection[id]
	if !ok || rec.v.PetID != petID {
		return injectionlogs.ErrNotFound
	}
	if _, ok := r.s.ownedPet(ownerUserID, petID); !ok {
		return injectionlogs.ErrNotFound
	}
	delete(r.s.injection, id)
	return nil
}
