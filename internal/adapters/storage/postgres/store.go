package postgres

import (
	"database/sql"

	"pet-records/internal/domain/accounts"
	"pet-records/internal/domain/healthlogs"
	"pet-records/internal/domain/injectionlogs"
	"pet-records/internal/domain/pets"
	"pet-records/internal/domain/profiles"
	"pet-records/internal/domain/taxonomy"
	"pet-records/internal/domain/weightlogs"
)

// Store agrupa los repositorios sobre un mismo *sql.DB.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Users() accounts.Repository              { return &UsersRepo{db: s.db} }
func (s *Store) Profiles() profiles.Repository           { return &ProfilesRepo{db: s.db} }
func (s *Store) Taxonomy() taxonomy.Repository           { return &TaxonomyRepo{db: s.db} }
func (s *Store) Pets() pets.Repository                   { return NewPetsRepo(s.db) }
func (s *Store) PetStats() pets.StatsReader              { return &StatsRepo{db: s.db} }
func (s *Store) WeightLogs() weightlogs.Repository       { return &WeightLogsRepo{db: s.db} }
func (s *Store) HealthLogs() healthlogs.Repository       { return &HealthLogsRepo{db: s.db} }
func (s *Store) InjectionLogs() injectionlogs.Repository { return &InjectionLogsRepo{db: s.db} }
