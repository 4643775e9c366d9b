// Package memory implementa todos los repositorios en memoria (modo dev y
// tests). Un único Store con un RWMutex emula las cascadas y los
// ON DELETE SET NULL del esquema de Postgres.
package memory

import (
	"sync"

	"pet-records/internal/domain/accounts"
	"pet-records/internal/domain/healthlogs"
	"pet-records/internal/domain/injectionlogs"
	"pet-records/internal/domain/pets"
	"pet-records/internal/domain/profiles"
	"pet-records/internal/domain/taxonomy"
	"pet-records/internal/domain/weightlogs"
)

type record[T any] struct {
	seq uint64
	v   T
}

type Store struct {
	mu  sync.RWMutex
	seq uint64

	users     map[string]record[accounts.User]
	profiles  map[string]profiles.Profile
	types     map[string]record[taxonomy.PetType]
	species   map[string]record[taxonomy.PetSpecies]
	pets      map[string]record[pets.Pet]
	weights   map[string]record[weightlogs.WeightLog]
	health    map[string]record[healthlogs.HealthLog]
	injection map[string]record[injectionlogs.InjectionLog]
}

func New() *Store {
	return &Store{
		users:     make(map[string]record[accounts.User]),
		profiles:  make(map[string]profiles.Profile),
		types:     make(map[string]record[taxonomy.PetType]),
		species:   make(map[string]record[taxonomy.PetSpecies]),
		pets:      make(map[string]record[pets.Pet]),
		weights:   make(map[string]record[weightlogs.WeightLog]),
		health:    make(map[string]record[healthlogs.HealthLog]),
		injection: make(map[string]record[injectionlogs.InjectionLog]),
	}
}

// next requiere s.mu tomado en escritura.
func (s *Store) next() uint64 {
	s.seq++
	return s.seq
}

func (s *Store) Users() accounts.Repository              { return usersRepo{s} }
func (s *Store) Profiles() profiles.Repository           { return profilesRepo{s} }
func (s *Store) Taxonomy() taxonomy.Repository           { return taxonomyRepo{s} }
func (s *Store) Pets() pets.Repository                   { return petRepo{s} }
func (s *Store) PetStats() pets.StatsReader              { return statsReader{s} }
func (s *Store) WeightLogs() weightlogs.Repository       { return weightRepo{s} }
func (s *Store) HealthLogs() healthlogs.Repository       { return healthRepo{s} }
func (s *Store) InjectionLogs() injectionlogs.Repository { return injectionRepo{s} }

// ownedPet requiere s.mu tomado.
func (s *Store) ownedPet(ownerUserID, petID string) (pets.Pet, bool) {
	rec, ok := s.pets[petID]
	if !ok || ownerUserID == "" || rec.v.OwnerUserID != ownerUserID {
		return pets.Pet{}, false
	}
	return rec.v, true
}

// deletePet borra la mascota y sus logs. Requiere s.mu en escritura.
func (s *Store) deletePet(id string) {
	delete(s.pets, id)
	for k, r := range s.weights {
		if r.v.PetID == id {
			delete(s.weights, k)
		}
	}
	for k, r := range s.health {
		if r.v.PetID == id {
			delete(s.health, k)
		}
	}
	for k, r := range s.injection {
		if r.v.PetID == id {
			delete(s.injection, k)
		}
	}
}
