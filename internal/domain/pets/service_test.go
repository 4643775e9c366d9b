package pets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"pet-records/internal/domain/taxonomy"
	"pet-records/internal/platform/apperror"
	"pet-records/internal/ports/blobstore"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Fakes
// -------------------------

type testRepo struct {
	byID map[string]Pet

	// writeErr hace fallar Create/Update.
	writeErr error
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Pet{}} }

func (r *testRepo) Create(_ context.Context, p Pet) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(_ context.Context, p Pet) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(_ context.Context, owner, id string) error {
	p, ok := r.byID[id]
	if !ok || p.OwnerUserID != owner {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetOwned(_ context.Context, owner, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok || p.OwnerUserID != owner {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) ListByOwner(_ context.Context, owner string) ([]Pet, error) {
	out := []Pet{}
	for _, p := range r.byID {
		if p.OwnerUserID == owner {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type testTaxonomy struct{}

var catalog = map[string]taxonomy.PetSpecies{
	"persian": {ID: "persian", Name: "波斯貓", PetTypeID: "cat"},
	"shiba":   {ID: "shiba", Name: "柴犬", PetTypeID: "dog"},
}

func (testTaxonomy) GetType(_ context.Context, id string) (taxonomy.PetType, error) {
	switch id {
	case "cat":
		return taxonomy.PetType{ID: "cat", Name: "貓貓"}, nil
	case "dog":
		return taxonomy.PetType{ID: "dog", Name: "狗狗"}, nil
	}
	return taxonomy.PetType{}, taxonomy.ErrNotFound
}

func (testTaxonomy) GetSpecies(_ context.Context, id string) (taxonomy.PetSpecies, error) {
	sp, ok := catalog[id]
	if !ok {
		return taxonomy.PetSpecies{}, taxonomy.ErrNotFound
	}
	return sp, nil
}

type testStats map[string]Stats

func (s testStats) StatsFor(_ context.Context, ids []string) (map[string]Stats, error) {
	out := map[string]Stats{}
	for _, id := range ids {
		if st, ok := s[id]; ok {
			out[id] = st
		}
	}
	return out, nil
}

type testBlobs struct {
	puts    []string
	deletes []string
}

func (b *testBlobs) Put(_ context.Context, folder, filename string, r io.Reader) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	key := folder + "/" + filename
	b.puts = append(b.puts, key)
	return key, nil
}

func (b *testBlobs) Delete(_ context.Context, key string) error {
	b.deletes = append(b.deletes, key)
	return nil
}

func (b *testBlobs) URL(key string) string {
	if key == "" {
		return ""
	}
	return "/media/" + key
}

func ptr[T any](v T) *T { return &v }

func date(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

var owner = Owner{ID: "owner-1", Username: "ana"}

func newTestService(stats testStats) (*Service, *testBlobs) {
	blobs := &testBlobs{}
	svc := NewService(newTestRepo(), testTaxonomy{}, stats, blobs)
	svc.UseClock(func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) })
	return svc, blobs
}

func validInput() Input {
	return Input{
		Name:         ptr("Milo"),
		PetTypeID:    ptr("cat"),
		PetSpeciesID: ptr("persian"),
		BirthDay:     date("2020-06-15"),
	}
}

// -------------------------
// Tests
// -------------------------

func TestCreate_DefaultsAndProjection(t *testing.T) {
	svc, _ := newTestService(testStats{})
	ctx := context.Background()

	v, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	assert.Equal(t, "ana", v.Owner)
	assert.Equal(t, 3, v.Age, "birthday 06-15 not reached on 06-01")
	assert.Equal(t, GenderMale, v.Gender)
	assert.Equal(t, "公", v.GenderDisplay)
	assert.Equal(t, NotSterilisedLabel, v.SterilisedDisplay)
	assert.Equal(t, "貓貓", *v.PetType)
	assert.Equal(t, "波斯貓", *v.PetSpecies)
	assert.Equal(t, "2020-06-15", v.BirthDay)
	assert.Nil(t, v.Photo)
	assert.Nil(t, v.LastWeight)
	assert.Nil(t, v.NextInjectionDate)
	assert.Zero(t, v.TrackingLogCount)
	assert.Equal(t, "", v.FavoriteFoodDisplay)
}

func TestCreate_RequiredAndChoices(t *testing.T) {
	svc, _ := newTestService(testStats{})

	_, err := svc.Create(context.Background(), owner, Input{
		Gender:       ptr("X"),
		FavoriteFood: ptr("KFC"),
	})
	require.True(t, errors.Is(err, apperror.ErrValidation))

	fields := apperror.FieldsOf(err)
	for _, f := range []string{"name", "birth_day", "pet_type_id", "pet_species_id", "gender", "favorite_food"} {
		assert.Contains(t, fields, f)
	}
	assert.Equal(t, []string{`"X" is not a valid choice.`}, fields["gender"])
}

func TestCreate_TaxonomyReferences(t *testing.T) {
	svc, _ := newTestService(testStats{})
	ctx := context.Background()

	in := validInput()
	in.PetSpeciesID = ptr("shiba")
	_, err := svc.Create(ctx, owner, in)
	assert.Equal(t, []string{"Species does not belong to the selected pet type."}, apperror.FieldsOf(err)["pet_species_id"])

	in = validInput()
	in.PetTypeID = ptr("fish")
	_, err = svc.Create(ctx, owner, in)
	assert.Equal(t, []string{`Invalid pk "fish" - object does not exist.`}, apperror.FieldsOf(err)["pet_type_id"])
}

func TestGet_ForeignPetIsNotFound(t *testing.T) {
	svc, _ := newTestService(testStats{})
	ctx := context.Background()

	v, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	_, err = svc.Get(ctx, Owner{ID: "intruder"}, v.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	_, err = svc.Update(ctx, Owner{ID: "intruder"}, v.ID, Input{Name: ptr("Mine")}, true)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	err = svc.Delete(ctx, Owner{ID: "intruder"}, v.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	_, err = svc.Get(ctx, owner, v.ID)
	assert.NoError(t, err, "pet survives the intruder's delete")
}

func TestUpdate_PatchIsPartialPutIsFull(t *testing.T) {
	svc, _ := newTestService(testStats{})
	ctx := context.Background()

	v, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	patched, err := svc.Update(ctx, owner, v.ID, Input{Sterilised: ptr(true), FavoriteFood: ptr("RC")}, true)
	require.NoError(t, err)
	assert.Equal(t, "Milo", patched.Name)
	assert.Equal(t, SterilisedLabel, patched.SterilisedDisplay)
	assert.Equal(t, "皇家", patched.FavoriteFoodDisplay)

	_, err = svc.Update(ctx, owner, v.ID, Input{Name: ptr("Momo")}, false)
	assert.Contains(t, apperror.FieldsOf(err), "birth_day")

	// Cambiar sólo el tipo deja la especie actual fuera de lugar.
	_, err = svc.Update(ctx, owner, v.ID, Input{PetTypeID: ptr("dog")}, true)
	assert.Contains(t, apperror.FieldsOf(err), "pet_species_id")

	moved, err := svc.Update(ctx, owner, v.ID, Input{PetTypeID: ptr("dog"), PetSpeciesID: ptr("shiba")}, true)
	require.NoError(t, err)
	assert.Equal(t, "柴犬", *moved.PetSpecies)
}

func TestProjection_UsesStats(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	v, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	svc.stats = testStats{v.ID: {
		OpenHealthCases:   2,
		LastWeight:        &WeightSnapshot{WeightKg: decimal.RequireFromString("71.00"), RecordedAt: *date("2024-03-01")},
		LastInjectionDate: date("2024-01-01"),
	}}

	items, err := svc.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, items, 1)

	got := items[0]
	assert.Equal(t, 2, got.TrackingLogCount)
	require.NotNil(t, got.NextInjectionDate)
	assert.Equal(t, "2024-01-31", *got.NextInjectionDate)
	require.NotNil(t, got.LastWeight)
	assert.Equal(t, 71.0, got.LastWeight.WeightKg)
	assert.Equal(t, "2024-03-01", got.LastWeight.RecordedAt)
}

func TestPhoto_MustBeImage(t *testing.T) {
	svc, blobs := newTestService(testStats{})
	ctx := context.Background()

	in := validInput()
	in.Photo = &blobstore.File{Name: "notes.txt", Reader: strings.NewReader("just text")}
	_, err := svc.Create(ctx, owner, in)
	assert.Contains(t, apperror.FieldsOf(err), "photo")
	assert.Empty(t, blobs.puts)

	in = validInput()
	in.Photo = &blobstore.File{Name: "milo.png", Reader: bytes.NewReader([]byte("\x89PNG\r\n\x1a\n0000"))}
	v, err := svc.Create(ctx, owner, in)
	require.NoError(t, err)
	require.NotNil(t, v.Photo)
	assert.Equal(t, "/media/pet_photos/milo.png", *v.Photo)

	cleared, err := svc.Update(ctx, owner, v.ID, Input{ClearPhoto: true}, true)
	require.NoError(t, err)
	assert.Nil(t, cleared.Photo)
}

func TestIsOwner(t *testing.T) {
	p := Pet{OwnerUserID: "u1"}
	assert.True(t, IsOwner(p, "u1"))
	assert.False(t, IsOwner(p, "u2"))
	assert.False(t, IsOwner(Pet{}, ""))
}

func TestCreate_ReadErrorsReportedWithValidation(t *testing.T) {
	svc, _ := newTestService(testStats{})

	readErr := apperror.NewValidation()
	readErr.Add("sterilised", "Must be a valid boolean.")
	readErr.Add("birth_day", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")

	_, err := svc.Create(context.Background(), owner, Input{Gender: ptr("Z"), FieldErrors: readErr.Err()})
	require.True(t, errors.Is(err, apperror.ErrValidation))

	fields := apperror.FieldsOf(err)
	for _, f := range []string{"sterilised", "gender", "name", "birth_day", "pet_type_id", "pet_species_id"} {
		assert.Contains(t, fields, f)
	}
	assert.Len(t, fields["birth_day"], 1, "a field that failed to parse is not also reported as missing")
}

func TestWriteFailure_DiscardsUploadedPhoto(t *testing.T) {
	repo := newTestRepo()
	blobs := &testBlobs{}
	svc := NewService(repo, testTaxonomy{}, testStats{}, blobs)
	ctx := context.Background()

	png := func() *blobstore.File {
		return &blobstore.File{Name: "milo.png", Reader: bytes.NewReader([]byte("\x89PNG\r\n\x1a\n0000"))}
	}

	v, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	repo.writeErr = errors.New("disk full")
	in := validInput()
	in.Photo = png()
	_, err = svc.Create(ctx, owner, in)
	require.Error(t, err)
	require.Len(t, blobs.puts, 1)
	assert.Equal(t, blobs.puts, blobs.deletes)

	_, err = svc.Update(ctx, owner, v.ID, Input{Photo: png()}, true)
	require.Error(t, err)
	assert.Len(t, blobs.deletes, 2)

	// Una actualización sin foto nueva no borra nada.
	_, err = svc.Update(ctx, owner, v.ID, Input{Memo: ptr("x")}, true)
	require.Error(t, err)
	assert.Len(t, blobs.deletes, 2)
}

func TestWriteFailure_VanishedTaxonomyIsFieldError(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, testTaxonomy{}, testStats{}, &testBlobs{})
	ctx := context.Background()

	repo.writeErr = fmt.Errorf("insert: %w", ErrUnknownPetSpecies)
	_, err := svc.Create(ctx, owner, validInput())
	require.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Contains(t, apperror.FieldsOf(err), "pet_species_id")

	repo.writeErr = ErrUnknownPetType
	_, err = svc.Create(ctx, owner, validInput())
	require.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Contains(t, apperror.FieldsOf(err), "pet_type_id")
}
