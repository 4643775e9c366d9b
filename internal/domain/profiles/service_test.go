package profiles

import (
	"context"
	"testing"

	"pet-records/internal/platform/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	byUser  map[string]Profile
	creates int
}

func (r *testRepo) GetOrCreate(_ context.Context, userID string) (Profile, error) {
	if p, ok := r.byUser[userID]; ok {
		return p, nil
	}
	r.creates++
	p := Profile{UserID: userID}
	r.byUser[userID] = p
	return p, nil
}

func (r *testRepo) Update(_ context.Context, p Profile) error {
	if _, ok := r.byUser[p.UserID]; !ok {
		return ErrNotFound
	}
	r.byUser[p.UserID] = p
	return nil
}

func ptr(s string) *string { return &s }

func TestGet_LazilyCreatesBlankProfile(t *testing.T) {
	repo := &testRepo{byUser: map[string]Profile{}}
	svc := NewService(repo)

	p, err := svc.Get(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, Profile{UserID: "u-1"}, p)

	_, err = svc.Get(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.creates)
}

func TestUpdate_PutRequiresOwnerName(t *testing.T) {
	svc := NewService(&testRepo{byUser: map[string]Profile{}})
	ctx := context.Background()

	_, err := svc.Update(ctx, "u-1", Input{OwnerAddress: ptr("台北市")}, false)
	assert.Equal(t, []string{"This field is required."}, apperror.FieldsOf(err)["owner_name"])

	p, err := svc.Update(ctx, "u-1", Input{OwnerAddress: ptr("台北市")}, true)
	require.NoError(t, err)
	assert.Equal(t, "台北市", p.OwnerAddress)

	p, err = svc.Update(ctx, "u-1", Input{OwnerName: ptr("王小明")}, false)
	require.NoError(t, err)
	assert.Equal(t, "王小明", p.OwnerName)
	assert.Equal(t, "台北市", p.OwnerAddress, "PUT keeps fields it does not send")
}

func TestUpdate_NoUser(t *testing.T) {
	svc := NewService(&testRepo{byUser: map[string]Profile{}})
	_, err := svc.Update(context.Background(), " ", Input{}, true)
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
}
