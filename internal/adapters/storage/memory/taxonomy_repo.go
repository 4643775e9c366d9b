package memory

import (
	"context"
	"sort"

	"pet-records/internal/domain/taxonomy"
)

type taxonomyRepo struct {
	s *Store
}

func (r taxonomyRepo) ListTypes(ctx context.Context) ([]taxonomy.PetType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	recs := make([]record[taxonomy.PetType], 0, len(r.s.types))
	for _, rec := range r.s.types {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	out := make([]taxonomy.PetType, 0, len(recs))
	for _, rec := range recs {
		t := rec.v
		t.Species = r.s.speciesOf(t.ID)
		out = append(out, t)
	}
	return out, nil
}

func (r taxonomyRepo) GetType(ctx context.Context, id string) (taxonomy.PetType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.types[id]
	if !ok {
		return taxonomy.PetType{}, taxonomy.ErrNotFound
	}
	t := rec.v
	t.Species = r.s.speciesOf(t.ID)
	return t, nil
}

func (r taxonomyRepo) FindTypeByName(ctx context.Context, name string) (taxonomy.PetType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rec := range r.s.types {
		if rec.v.Name == name {
			t := rec.v
			t.Species = r.s.speciesOf(t.ID)
			return t, nil
		}
	}
	return taxonomy.PetType{}, taxonomy.ErrNotFound
}

func (r taxonomyRepo) ListSpecies(ctx context.Context, typeID string) ([]taxonomy.PetSpecies, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.speciesOf(typeID), nil
}

func (r taxonomyRepo) GetSpecies(ctx context.Context, id string) (taxonomy.PetSpecies, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.species[id]
	if !ok {
		return taxonomy.PetSpecies{}, taxonomy.ErrNotFound
	}
	return rec.v, nil
}

func (r taxonomyRepo) FindSpeciesByName(ctx context.Context, name string) (taxonomy.PetSpecies, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rec := range r.s.species {
		if rec.v.Name == name {
			return rec.v, nil
		}
	}
	return taxonomy.PetSpecies{}, taxonomy.ErrNotFound
}

func (r taxonomyRepo) CreateType(ctx context.Context, t taxonomy.PetType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, rec := range r.s.types {
		if rec.v.Name == t.Name || rec.v.ID == t.ID {
			return taxonomy.ErrDuplicateName
		}
	}
	t.Species = nil
	r.s.types[t.ID] = record[taxonomy.PetType]{seq: r.s.next(), v: t}
	return nil
}

func (r taxonomyRepo) CreateSpecies(ctx context.Context, sp taxonomy.PetSpecies) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.types[sp.PetTypeID]; !ok {
		return taxonomy.ErrUnknownType
	}
	for _, rec := range r.s.species {
		if rec.v.Name == sp.Name || rec.v.ID == sp.ID {
			return taxonomy.ErrDuplicateName
		}
	}
	r.s.species[sp.ID] = record[taxonomy.PetSpecies]{seq: r.s.next(), v: sp}
	return nil
}

func (r taxonomyRepo) DeleteType(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.types[id]; !ok {
		return taxonomy.ErrNotFound
	}
	delete(r.s.types, id)
	for sid, rec := range r.s.species {
		if rec.v.PetTypeID == id {
			r.s.deleteSpecies(sid)
		}
	}
	for pid, rec := range r.s.pets {
		if rec.v.PetTypeID != nil && *rec.v.PetTypeID == id {
			rec.v.PetTypeID = nil
			r.s.pets[pid] = rec
		}
	}
	return nil
}

func (r taxonomyRepo) DeleteSpecies(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.species[id]; !ok {
		return taxonomy.ErrNotFound
	}
	r.s.deleteSpecies(id)
	return nil
}

// deleteSpecies borra y deja en NULL las mascotas que la referencian.
// Requiere s.mu en escritura.
func (s *Store) deleteSpecies(id string) {
	delete(s.species, id)
	for pid, rec := range s.pets {
		if rec.v.PetSpeciesID != nil && *rec.v.PetSpeciesID == id {
			rec.v.PetSpeciesID = nil
			s.pets[pid] = rec
		}
	}
}

// speciesOf requiere s.mu tomado. Siempre devuelve un slice no nil.
func (s *Store) speciesOf(typeID string) []taxonomy.PetSpecies {
	if typeID == "" {
		return []taxonomy.PetSpecies{}
	}
	recs := make([]record[taxonomy.PetSpecies], 0)
	for _, rec := range s.species {
		if rec.v.PetTypeID == typeID {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	out := make([]taxonomy.PetSpecies, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.v)
	}
	return out
}
