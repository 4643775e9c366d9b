package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"pet-records/internal/domain/accounts"
	"pet-records/internal/domain/healthlogs"
	"pet-records/internal/domain/pets"
	"pet-records/internal/domain/taxonomy"
	"pet-records/internal/domain/weightlogs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	got := splitStatements("-- comentario; con punto y coma\nCREATE TABLE a (x INT);\n\n  CREATE INDEX i ON a (x);\n")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE INDEX i ON a (x)"}, got)
}

func TestLoadMigrations_Embedded(t *testing.T) {
	ms, err := loadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, ms)
	assert.Equal(t, "001", ms[0].version)
	assert.Contains(t, ms[0].sql, "CREATE TABLE IF NOT EXISTS pets")
}

// Requiere una base descartable: TEST_DB_DSN=postgres://... go test ./...
func openTestDB(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	db, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = Migrate(context.Background(), db)
	require.NoError(t, err)
	again, err := Migrate(context.Background(), db)
	require.NoError(t, err)
	assert.Empty(t, again, "migrations apply once")
	return New(db)
}

func TestIntegration_PetLifecycle(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	suffix := uuid.NewString()[:8]
	now := time.Now().UTC().Truncate(time.Microsecond)

	typeID, speciesID := uuid.NewString(), uuid.NewString()
	require.NoError(t, s.Taxonomy().CreateType(ctx, taxonomy.PetType{ID: typeID, Name: "type-" + suffix}))
	require.NoError(t, s.Taxonomy().CreateSpecies(ctx, taxonomy.PetSpecies{ID: speciesID, Name: "sp-" + suffix, PetTypeID: typeID}))
	assert.ErrorIs(t, s.Taxonomy().CreateType(ctx, taxonomy.PetType{ID: uuid.NewString(), Name: "type-" + suffix}), taxonomy.ErrDuplicateName)
	assert.ErrorIs(t, s.Taxonomy().CreateSpecies(ctx, taxonomy.PetSpecies{ID: uuid.NewString(), Name: "x-" + suffix, PetTypeID: "missing"}), taxonomy.ErrUnknownType)

	owner := "owner-" + suffix
	p := pets.Pet{
		ID: uuid.NewString(), OwnerUserID: owner, Name: "Milo",
		PetTypeID: &typeID, PetSpeciesID: &speciesID,
		Gender: pets.GenderMale, BirthDay: time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.Pets().Create(ctx, p))

	stale := p
	stale.ID, stale.PetSpeciesID = uuid.NewString(), strPtr("gone-"+suffix)
	assert.ErrorIs(t, s.Pets().Create(ctx, stale), pets.ErrUnknownPetSpecies)
	stale.PetTypeID, stale.PetSpeciesID = strPtr("gone-"+suffix), nil
	assert.ErrorIs(t, s.Pets().Create(ctx, stale), pets.ErrUnknownPetType)

	got, err := s.Pets().GetOwned(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "type-"+suffix, got.PetTypeName)
	assert.Equal(t, p.BirthDay, got.BirthDay)
	_, err = s.Pets().GetOwned(ctx, "intruder", p.ID)
	assert.ErrorIs(t, err, pets.ErrNotFound)

	w := weightlogs.WeightLog{ID: uuid.NewString(), PetID: p.ID, WeightKg: decimal.RequireFromString("71.00"), RecordedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), CreatedAt: now}
	require.NoError(t, s.WeightLogs().Create(ctx, w))
	require.NoError(t, s.HealthLogs().Create(ctx, healthlogs.HealthLog{ID: uuid.NewString(), PetID: p.ID, Topic: "t", Content: "c", Action: healthlogs.ActionNormal, CreatedAt: now}))
	assert.ErrorIs(t, s.WeightLogs().Create(ctx, weightlogs.WeightLog{ID: uuid.NewString(), PetID: "missing", RecordedAt: now, CreatedAt: now}), weightlogs.ErrNotFound)

	stats, err := s.PetStats().StatsFor(ctx, []string{p.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, stats[p.ID].OpenHealthCases)
	require.NotNil(t, stats[p.ID].LastWeight)
	assert.True(t, decimal.RequireFromString("71").Equal(stats[p.ID].LastWeight.WeightKg))

	list, err := s.WeightLogs().ListByPet(ctx, "intruder", p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, s.Taxonomy().DeleteType(ctx, typeID))
	got, err = s.Pets().GetOwned(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PetTypeID)
	assert.Nil(t, got.PetSpeciesID)

	require.NoError(t, s.Pets().Delete(ctx, owner, p.ID))
	_, err = s.WeightLogs().GetOwned(ctx, owner, p.ID, w.ID)
	assert.ErrorIs(t, err, weightlogs.ErrNotFound)
}

func TestIntegration_DeleteUserCascades(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	u := accounts.User{ID: uuid.NewString(), Username: "user-" + uuid.NewString()[:8], PasswordHash: "x", CreatedAt: now}
	require.NoError(t, s.Users().Create(ctx, u))
	assert.ErrorIs(t, s.Users().Create(ctx, accounts.User{ID: uuid.NewString(), Username: u.Username, PasswordHash: "x", CreatedAt: now}), accounts.ErrDuplicateUsername)

	_, err := s.Profiles().GetOrCreate(ctx, u.ID)
	require.NoError(t, err)
	p := pets.Pet{ID: uuid.NewString(), OwnerUserID: u.ID, Name: "Kuro", Gender: pets.GenderFemale, BirthDay: now, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Pets().Create(ctx, p))

	require.NoError(t, s.Users().Delete(ctx, u.ID))
	list, err := s.Pets().ListByOwner(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.ErrorIs(t, s.Users().Delete(ctx, u.ID), accounts.ErrNotFound)
}

func strPtr(s string) *string { return &s }
