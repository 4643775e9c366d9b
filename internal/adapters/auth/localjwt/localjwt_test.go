package localjwt

import (
	"context"
	"testing"
	"time"

	"pet-records/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef-test"

func TestNew_RejectsShortSecret(t *testing.T) {
	_, err := New("short", "pet-records", time.Hour)
	assert.Error(t, err)

	_, err = New(secret, "pet-records", 0)
	assert.Error(t, err)
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	m, err := New(secret, "pet-records", time.Hour)
	require.NoError(t, err)
	ctx := context.Background()

	tok, err := m.Issue(ctx, auth.Claims{UserID: "u-1", Username: "alice"})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Value)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, 5*time.Second)

	c, err := m.Verify(ctx, tok.Value)
	require.NoError(t, err)
	assert.Equal(t, auth.Claims{UserID: "u-1", Username: "alice"}, c)
}

func TestVerify_Expired(t *testing.T) {
	m, err := New(secret, "pet-records", time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.UseClock(func() time.Time { return issuedAt })
	tok, err := m.Issue(ctx, auth.Claims{UserID: "u-1"})
	require.NoError(t, err)

	m.UseClock(func() time.Time { return issuedAt.Add(2 * time.Minute) })
	_, err = m.Verify(ctx, tok.Value)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_RejectsForeignTokens(t *testing.T) {
	m, err := New(secret, "pet-records", time.Hour)
	require.NoError(t, err)
	ctx := context.Background()

	other, err := New("another-secret-0123", "pet-records", time.Hour)
	require.NoError(t, err)
	tok, err := other.Issue(ctx, auth.Claims{UserID: "u-1"})
	require.NoError(t, err)
	_, err = m.Verify(ctx, tok.Value)
	assert.ErrorIs(t, err, auth.ErrInvalidToken, "wrong signature")

	otherIssuer, err := New(secret, "someone-else", time.Hour)
	require.NoError(t, err)
	tok, err = otherIssuer.Issue(ctx, auth.Claims{UserID: "u-1"})
	require.NoError(t, err)
	_, err = m.Verify(ctx, tok.Value)
	assert.ErrorIs(t, err, auth.ErrInvalidToken, "wrong issuer")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "u-1", Issuer: "pet-records"})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Verify(ctx, raw)
	assert.ErrorIs(t, err, auth.ErrInvalidToken, "alg none")

	_, err = m.Verify(ctx, "not.a.jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestIssue_RequiresUserID(t *testing.T) {
	m, err := New(secret, "", time.Hour)
	require.NoError(t, err)
	_, err = m.Issue(context.Background(), auth.Claims{Username: "nobody"})
	assert.Error(t, err)
}
