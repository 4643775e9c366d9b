// Package storage arma el juego de repositorios según DB_DSN.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"pet-records/internal/adapters/storage/memory"
	"pet-records/internal/adapters/storage/postgres"
	"pet-records/internal/domain/accounts"
	"pet-records/internal/domain/healthlogs"
	"pet-records/internal/domain/injectionlogs"
	"pet-records/internal/domain/pets"
	"pet-records/internal/domain/profiles"
	"pet-records/internal/domain/taxonomy"
	"pet-records/internal/domain/weightlogs"
)

type Repositories struct {
	Users         accounts.Repository
	Profiles      profiles.Repository
	Taxonomy      taxonomy.Repository
	Pets          pets.Repository
	PetStats      pets.StatsReader
	WeightLogs    weightlogs.Repository
	HealthLogs    healthlogs.Repository
	InjectionLogs injectionlogs.Repository

	// Backend es "memory" o "postgres" (logs).
	Backend string
	close   func() error
}

func (r Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

type source interface {
	Users() accounts.Repository
	Profiles() profiles.Repository
	Taxonomy() taxonomy.Repository
	Pets() pets.Repository
	PetStats() pets.StatsReader
	WeightLogs() weightlogs.Repository
	HealthLogs() healthlogs.Repository
	InjectionLogs() injectionlogs.Repository
}

func from(src source, backend string, closeFn func() error) Repositories {
	return Repositories{
		Users:         src.Users(),
		Profiles:      src.Profiles(),
		Taxonomy:      src.Taxonomy(),
		Pets:          src.Pets(),
		PetStats:      src.PetStats(),
		WeightLogs:    src.WeightLogs(),
		HealthLogs:    src.HealthLogs(),
		InjectionLogs: src.InjectionLogs(),
		Backend:       backend,
		close:         closeFn,
	}
}

func Memory() Repositories {
	return from(memory.New(), "memory", nil)
}

func Postgres(db *sql.DB) Repositories {
	return from(postgres.New(db), "postgres", db.Close)
}

// Open: dsn vacío => memoria. Con dsn abre Postgres y, si migrate, aplica las
// migraciones embebidas.
func Open(ctx context.Context, dsn string, migrate bool) (Repositories, error) {
	if dsn == "" {
		return Memory(), nil
	}
	db, err := postgres.Open(dsn)
	if err != nil {
		return Repositories{}, fmt.Errorf("storage: open postgres: %w", err)
	}
	if migrate {
		if _, err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return Repositories{}, fmt.Errorf("storage: migrate: %w", err)
		}
	}
	return Postgres(db), nil
}
