package healthlogs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"testing"
	"time"

	"pet-records/internal/platform/apperror"
	"pet-records/internal/ports/blobstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testGuard struct{ owner, pet string }

func (g testGuard) EnsureOwned(_ context.Context, owner, pet string) error {
	if owner != g.owner || pet != g.pet {
		return apperror.NotFound("pet")
	}
	return nil
}

type testRepo struct {
	guard    testGuard
	rows     map[string]HealthLog
	writeErr error
}

func (r *testRepo) ListByPet(ctx context.Context, owner, pet string) ([]HealthLog, error) {
	out := []HealthLog{}
	if r.guard.EnsureOwned(ctx, owner, pet) != nil {
		return out, nil
	}
	for _, l := range r.rows {
		if l.PetID == pet {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *testRepo) Create(_ context.Context, l HealthLog) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	r.rows[l.ID] = l
	return nil
}

func (r *testRepo) GetOwned(ctx context.Context, owner, pet, id string) (HealthLog, error) {
	l, ok := r.rows[id]
	if !ok || l.PetID != pet || r.guard.EnsureOwned(ctx, owner, pet) != nil {
		return HealthLog{}, ErrNotFound
	}
	return l, nil
}

func (r *testRepo) Update(_ context.Context, l HealthLog) error {
	if r.writeErr != nil {
		return r.writeErr
	}
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

type testBlobs struct{}

func (testBlobs) Put(_ context.Context, folder, name string, r io.Reader) (string, error) {
	_, err := io.Copy(io.Discard, r)
	return folder + "/" + name, err
}

func (testBlobs) Delete(context.Context, string) error { return nil }

// recordingBlobs registra las keys borradas.
type recordingBlobs struct {
	testBlobs
	deletes []string
}

func (b *recordingBlobs) Delete(_ context.Context, key string) error {
	b.deletes = append(b.deletes, key)
	return nil
}

func (testBlobs) URL(key string) string {
	if key == "" {
		return ""
	}
	return "/media/" + key
}

func ptr[T any](v T) *T { return &v }

func newTestService() *Service {
	guard := testGuard{owner: "owner-1", pet: "pet-1"}
	svc := NewService(&testRepo{guard: guard, rows: map[string]HealthLog{}}, guard, testBlobs{})
	svc.UseClock(func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) })
	return svc
}

func validInput() Input {
	return Input{Topic: ptr("嘔吐"), Content: ptr("早上吐了兩次"), Action: ptr("OBSERVATE")}
}

func TestCreate_DefaultsOpenCase(t *testing.T) {
	svc := newTestService()

	l, err := svc.Create(context.Background(), "owner-1", "pet-1", validInput())
	require.NoError(t, err)
	assert.False(t, l.CaseClosed)
	assert.Equal(t, ActionObservation, l.Action)
	assert.Equal(t, "觀察", Actions.Label(l.Action))
	assert.Equal(t, "", svc.PhotoURL(l))
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService()

	_, err := svc.Create(context.Background(), "owner-1", "pet-1", Input{Topic: ptr(""), Action: ptr("PANIC")})
	fields := apperror.FieldsOf(err)
	assert.Equal(t, []string{"This field may not be blank."}, fields["topic"])
	assert.Equal(t, []string{"This field is required."}, fields["content"])
	assert.Equal(t, []string{`"PANIC" is not a valid choice.`}, fields["action"])
}

func TestCreate_ForeignPet(t *testing.T) {
	svc := newTestService()

	_, err := svc.Create(context.Background(), "owner-2", "pet-1", validInput())
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	items, err := svc.List(context.Background(), "owner-2", "pet-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpdate_CaseCanBeReopened(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	l, err := svc.Create(ctx, "owner-1", "pet-1", validInput())
	require.NoError(t, err)
	created := l.CreatedAt

	svc.UseClock(func() time.Time { return created.Add(48 * time.Hour) })

	closed, err := svc.Update(ctx, "owner-1", "pet-1", l.ID, Input{CaseClosed: ptr(true)}, true)
	require.NoError(t, err)
	assert.True(t, closed.CaseClosed)

	reopened, err := svc.Update(ctx, "owner-1", "pet-1", l.ID, Input{CaseClosed: ptr(false)}, true)
	require.NoError(t, err)
	assert.False(t, reopened.CaseClosed)
	assert.Equal(t, created, reopened.CreatedAt, "created_at is immutable")

	_, err = svc.Update(ctx, "owner-1", "pet-1", l.ID, Input{CaseClosed: ptr(true)}, false)
	assert.Contains(t, apperror.FieldsOf(err), "topic")
}

func TestPhotoRecords(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	in := validInput()
	in.PhotoRecords = &blobstore.File{Name: "x.txt", Reader: bytes.NewReader([]byte("plain"))}
	_, err := svc.Create(ctx, "owner-1", "pet-1", in)
	assert.Contains(t, apperror.FieldsOf(err), "photo_records")

	in = validInput()
	in.PhotoRecords = &blobstore.File{Name: "x.gif", Reader: bytes.NewReader([]byte("GIF89a......"))}
	l, err := svc.Create(ctx, "owner-1", "pet-1", in)
	require.NoError(t, err)
	assert.Equal(t, "/media/health_log_photos/x.gif", svc.PhotoURL(l))
}

func TestWriteFailure_DiscardsPhotoRecords(t *testing.T) {
	guard := testGuard{owner: "owner-1", pet: "pet-1"}
	repo := &testRepo{guard: guard, rows: map[string]HealthLog{}}
	blobs := &recordingBlobs{}
	svc := NewService(repo, guard, blobs)
	ctx := context.Background()

	l, err := svc.Create(ctx, "owner-1", "pet-1", validInput())
	require.NoError(t, err)

	repo.writeErr = errors.New("connection reset")
	in := validInput()
	in.PhotoRecords = &blobstore.File{Name: "x.png", Reader: bytes.NewReader([]byte("\x89PNG\r\n\x1a\n0000"))}
	_, err = svc.Create(ctx, "owner-1", "pet-1", in)
	require.Error(t, err)
	assert.Equal(t, []string{"health_log_photos/x.png"}, blobs.deletes)

	in.PhotoRecords = &blobstore.File{Name: "y.png", Reader: bytes.NewReader([]byte("\x89PNG\r\n\x1a\n0000"))}
	_, err = svc.Update(ctx, "owner-1", "pet-1", l.ID, in, true)
	require.Error(t, err)
	assert.Equal(t, []string{"health_log_photos/x.png", "health_log_photos/y.png"}, blobs.deletes)
}

func TestCreate_ReadErrorsReportedWithValidation(t *testing.T) {
	svc := newTestService()

	readErr := apperror.Invalid("case_closed", "Must be a valid boolean.")
	_, err := svc.Create(context.Background(), "owner-1", "pet-1", Input{Action: ptr("PANIC"), FieldErrors: readErr})
	require.True(t, errors.Is(err, apperror.ErrValidation))

	fields := apperror.FieldsOf(err)
	for _, f := range []string{"case_closed", "topic", "content", "action"} {
		assert.Contains(t, fields, f)
	}
}
