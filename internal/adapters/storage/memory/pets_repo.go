package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"pet-records/internal/domain/pets"
)

type petRepo struct {
	s *Store
}

func (r petRepo) Create(ctx context.Context, p pets.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.s.pets[p.ID]; exists {
		return errors.New("pet already exists")
	}
	if err := r.s.checkPetRefs(p); err != nil {
		return err
	}
	r.s.pets[p.ID] = record[pets.Pet]{seq: r.s.next(), v: p}
	return nil
}

// Update no cambia el dueño ni created_at.
func (r petRepo) Update(ctx context.Context, p pets.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.pets[p.ID]
	if !ok || rec.v.OwnerUserID != p.OwnerUserID {
		return pets.ErrNotFound
	}
	if err := r.s.checkPetRefs(p); err != nil {
		return err
	}
	p.CreatedAt = rec.v.CreatedAt
	rec.v = p
	r.s.pets[p.ID] = rec
	return nil
}

func (r petRepo) Delete(ctx context.Context, ownerUserID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.ownedPet(ownerUserID, id); !ok {
		return pets.ErrNotFound
	}
	r.s.deletePet(id)
	return nil
}

func (r petRepo) GetOwned(ctx context.Context, ownerUserID, id string) (pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.ownedPet(ownerUserID, id)
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return r.s.withNames(p), nil
}

func (r petRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	recs := make([]record[pets.Pet], 0)
	for _, rec := range r.s.pets {
		if ownerUserID != "" && rec.v.OwnerUserID == ownerUserID {
			recs = append(recs, rec)
		}
	}
	// created_at asc; seq desempata.
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.v.CreatedAt.Equal(b.v.CreatedAt) {
			return a.v.CreatedAt.Before(b.v.CreatedAt)
		}
		return a.seq < b.seq
	})

	out := make([]pets.Pet, 0, len(recs))
	for _, rec := range recs {
		out = append(out, r.s.withNames(rec.v))
	}
	return out, nil
}

// withNames resuelve los nombres de tipo/especie; referencias colgantes
// quedan en nil. Requiere s.mu tomado.
func (s *Store) withNames(p pets.Pet) pets.Pet {
	p.PetTypeName, p.PetSpeciesName = "", ""
	if p.PetTypeID != nil {
		if t, ok := s.types[*p.PetTypeID]; ok {
			p.PetTypeName = t.v.Name
		} else {
			p.PetTypeID = nil
		}
	}
	if p.PetSpeciesID != nil {
		if sp, ok := s.species[*p.PetSpeciesID]; ok {
			p.PetSpeciesName = sp.v.Name
		} else {
			p.PetSpeciesID = nil
		}
	}
	return p
}

// checkPetRefs emula la FK de pets a la taxonomía. Requiere el lock tomado.
func (s *Store) checkPetRefs(p pets.Pet) error {
	if p.PetTypeID != nil {
		if _, ok := s.types[*p.PetTypeID]; !ok {
			return pets.ErrUnknownPetType
		}
	}
	if p.PetSpeciesID != nil {
		if _, ok := s.species[*p.PetSpeciesID]; !ok {
			return pets.ErrUnknownPetSpecies
		}
	}
	return nil
}
