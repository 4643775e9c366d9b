package weightlogs

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"pet-records/internal/platform/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ownedPet struct{ owner, pet string }

// testGuard conoce qué mascota es de quién.
type testGuard map[ownedPet]bool

func (g testGuard) EnsureOwned(_ context.Context, owner, pet string) error {
	if !g[ownedPet{owner, pet}] {
		return apperror.NotFound("pet")
	}
	return nil
}

type testRepo struct {
	guard testGuard
	rows  map[string]WeightLog
}

func (r *testRepo) ListByPet(_ context.Context, owner, pet string) ([]WeightLog, error) {
	out := []WeightLog{}
	if !r.guard[ownedPet{owner, pet}] {
		return out, nil
	}
	for _, l := range r.rows {
		if l.PetID == pet {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	return out, nil
}

func (r *testRepo) Create(_ context.Context, l WeightLog) error {
	r.rows[l.ID] = l
	return nil
}

func (r *testRepo) GetOwned(_ context.Context, owner, pet, id string) (WeightLog, error) {
	l, ok := r.rows[id]
	if !ok || l.PetID != pet || !r.guard[ownedPet{owner, pet}] {
		return WeightLog{}, ErrNotFound
	}
	return l, nil
}

func (r *testRepo) Update(_ context.Context, l WeightLog) error {
	r.rows[l.ID] = l
	return nil
}

func (r *testRepo) Delete(ctx context.Context, owner, pet, id string) error {
	if _, err := r.GetOwned(ctx, owner, pet, id); err != nil {
		return err
	}
	delete(r.rows, id)
	return nil
}

func newTestService() *Service {
	guard := testGuard{{"owner-1", "pet-1"}: true, {"owner-2", "pet-2"}: true}
	svc := NewService(&testRepo{guard: guard, rows: map[string]WeightLog{}}, guard)
	svc.UseClock(func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) })
	return svc
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func day(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func TestCreate_DefaultsRecordedAtToToday(t *testing.T) {
	svc := newTestService()

	l, err := svc.Create(context.Background(), "owner-1", "pet-1", Input{WeightKg: dec("4.5")})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", l.RecordedAt.Format("2006-01-02"))
	assert.Equal(t, "4.50", l.WeightKg.StringFixed(2))
}

func TestCreate_ForeignPetIsNotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.Create(context.Background(), "owner-1", "pet-2", Input{WeightKg: dec("4.5")})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	items, err := svc.List(context.Background(), "owner-1", "pet-2")
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = svc.List(context.Background(), "owner-1", "")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestList_NewestRecordedFirst(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "owner-1", "pet-1", Input{WeightKg: dec("70.5"), RecordedAt: day("2024-01-01")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "owner-1", "pet-1", Input{WeightKg: dec("71.0"), RecordedAt: day("2024-03-01")})
	require.NoError(t, err)

	items, err := svc.List(ctx, "owner-1", "pet-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "71.00", items[0].WeightKg.StringFixed(2))
}

func TestValidateWeight(t *testing.T) {
	cases := map[string]string{
		"70.50":   "",
		"999.99":  "",
		"-3.2":    "",
		"70.500":  "",
		"70.505":  "Ensure that there are no more than 2 decimal places.",
		"1000":    "Ensure that there are no more than 5 digits in total.",
		"1000.00": "Ensure that there are no more than 5 digits in total.",
	}
	for in, want := range cases {
		assert.Equal(t, want, ValidateWeight(decimal.RequireFromString(in)), in)
	}
}

func TestUpdate_PutRequiresWeight(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	l, err := svc.Create(ctx, "owner-1", "pet-1", Input{WeightKg: dec("5")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "owner-1", "pet-1", l.ID, Input{RecordedAt: day("2024-05-01")}, false)
	assert.Contains(t, apperror.FieldsOf(err), "weight_kg")

	got, err := svc.Update(ctx, "owner-1", "pet-1", l.ID, Input{RecordedAt: day("2024-05-01")}, true)
	require.NoError(t, err)
	assert.Equal(t, "5.00", got.WeightKg.StringFixed(2))

	_, err = svc.Update(ctx, "owner-2", "pet-1", l.ID, Input{WeightKg: dec("1")}, true)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	assert.True(t, errors.Is(svc.Delete(ctx, "owner-2", "pet-1", l.ID), apperror.ErrNotFound))
	assert.NoError(t, svc.Delete(ctx, "owner-1", "pet-1", l.ID))
}
