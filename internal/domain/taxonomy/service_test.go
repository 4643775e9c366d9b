package taxonomy

import (
	"context"
	"errors"
	"testing"

	"pet-records/internal/platform/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	types   []PetType
	species []PetSpecies
}

func (r *testRepo) ListTypes(ctx context.Context) ([]PetType, error) {
	out := make([]PetType, 0, len(r.types))
	for _, t := range r.types {
		t.Species, _ = r.ListSpecies(ctx, t.ID)
		out = append(out, t)
	}
	return out, nil
}

func (r *testRepo) GetType(ctx context.Context, id string) (PetType, error) {
	for _, t := range r.types {
		if t.ID == id {
			t.Species, _ = r.ListSpecies(ctx, id)
			return t, nil
		}
	}
	return PetType{}, ErrNotFound
}

func (r *testRepo) FindTypeByName(_ context.Context, name string) (PetType, error) {
	for _, t := range r.types {
		if t.Name == name {
			return t, nil
		}
	}
	return PetType{}, ErrNotFound
}

func (r *testRepo) ListSpecies(_ context.Context, typeID string) ([]PetSpecies, error) {
	out := []PetSpecies{}
	for _, s := range r.species {
		if s.PetTypeID == typeID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *testRepo) GetSpecies(_ context.Context, id string) (PetSpecies, error) {
	for _, s := range r.species {
		if s.ID == id {
			return s, nil
		}
	}
	return PetSpecies{}, ErrNotFound
}

func (r *testRepo) FindSpeciesByName(_ context.Context, name string) (PetSpecies, error) {
	for _, s := range r.species {
		if s.Name == name {
			return s, nil
		}
	}
	return PetSpecies{}, ErrNotFound
}

func (r *testRepo) CreateType(ctx context.Context, t PetType) error {
	if _, err := r.FindTypeByName(ctx, t.Name); err == nil {
		return ErrDuplicateName
	}
	r.types = append(r.types, t)
	return nil
}

func (r *testRepo) CreateSpecies(ctx context.Context, s PetSpecies) error {
	if _, err := r.FindSpeciesByName(ctx, s.Name); err == nil {
		return ErrDuplicateName
	}
	if _, err := r.GetType(ctx, s.PetTypeID); err != nil {
		return ErrUnknownType
	}
	r.species = append(r.species, s)
	return nil
}

func (r *testRepo) DeleteType(_ context.Context, id string) error {
	for i, t := range r.types {
		if t.ID == id {
			r.types = append(r.types[:i], r.types[i+1:]...)
			kept := r.species[:0]
			for _, s := range r.species {
				if s.PetTypeID != id {
					kept = append(kept, s)
				}
			}
			r.species = kept
			return nil
		}
	}
	return ErrNotFound
}

func (r *testRepo) DeleteSpecies(_ context.Context, id string) error {
	for i, s := range r.species {
		if s.ID == id {
			r.species = append(r.species[:i], r.species[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// -------------------------
// Tests
// -------------------------

func TestListSpecies_CascadingFilter(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&testRepo{})

	cat, err := svc.CreateType(ctx, "貓貓")
	require.NoError(t, err)
	dog, err := svc.CreateType(ctx, "狗狗")
	require.NoError(t, err)

	_, err = svc.CreateSpecies(ctx, cat.ID, "波斯貓")
	require.NoError(t, err)
	_, err = svc.CreateSpecies(ctx, cat.ID, "暹羅貓")
	require.NoError(t, err)
	_, err = svc.CreateSpecies(ctx, dog.ID, "柴犬")
	require.NoError(t, err)

	none, err := svc.ListSpecies(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none, "no type id must never list every species")

	cats, err := svc.ListSpecies(ctx, cat.ID)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	for _, s := range cats {
		assert.Equal(t, cat.ID, s.PetTypeID)
	}

	unknown, err := svc.ListSpecies(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestGetSpecies_MustBelongToType(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&testRepo{})

	cat, _ := svc.CreateType(ctx, "貓貓")
	dog, _ := svc.CreateType(ctx, "狗狗")
	shiba, err := svc.CreateSpecies(ctx, dog.ID, "柴犬")
	require.NoError(t, err)

	got, err := svc.GetSpecies(ctx, dog.ID, shiba.ID)
	require.NoError(t, err)
	assert.Equal(t, "柴犬", got.Name)

	_, err = svc.GetSpecies(ctx, cat.ID, shiba.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&testRepo{})

	_, err := svc.CreateType(ctx, "  ")
	assert.Contains(t, apperror.FieldsOf(err), "name")

	_, err = svc.CreateType(ctx, "這是一個非常非常非常非常非常非常非常非常非常非常非常非常非常非常非常非常非常非常非常非常非常非常非常非常非常長的名字")
	assert.Contains(t, apperror.FieldsOf(err), "name")

	_, err = svc.CreateType(ctx, "小鳥")
	require.NoError(t, err)
	_, err = svc.CreateType(ctx, "小鳥")
	assert.Equal(t, []string{"pet type with this name already exists."}, apperror.FieldsOf(err)["name"])

	_, err = svc.CreateSpecies(ctx, "nope", "鸚鵡")
	assert.Contains(t, apperror.FieldsOf(err), "pet_type")
}

func TestSeedDefaults_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := &testRepo{}
	svc := NewService(repo)

	n, err := svc.SeedDefaults(ctx)
	require.NoError(t, err)

	want := 0
	for _, e := range DefaultCatalog {
		want += 1 + len(e.Species)
	}
	assert.Equal(t, want, n)

	n, err = svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	types, err := svc.ListTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, len(DefaultCatalog))
	assert.Equal(t, "貓貓", types[0].Name)
	assert.Len(t, types[0].Species, 4)
}

func TestDeleteType_NotFound(t *testing.T) {
	svc := NewService(&testRepo{})
	err := svc.DeleteType(context.Background(), "x")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}
