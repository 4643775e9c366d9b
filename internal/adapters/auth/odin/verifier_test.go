package odin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-records/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeOdin(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != verifyPath || r.Header.Get("X-Api-Key") != "key-1" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		var in struct {
			Token string `json:"token"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)

		w.Header().Set("Content-Type", "application/json")
		switch in.Token {
		case "good":
			_, _ = w.Write([]byte(`{"user_id":" u-7 ","username":"carla","email":"c@example.com"}`))
		case "anon":
			_, _ = w.Write([]byte(`{"user_id":""}`))
		case "boom":
			http.Error(w, "oops", http.StatusBadGateway)
		default:
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}
	}))
}

func TestVerify(t *testing.T) {
	ts := fakeOdin(t)
	defer ts.Close()

	v, err := NewVerifier(Config{BaseURL: ts.URL, APIKey: "key-1"})
	require.NoError(t, err)
	ctx := context.Background()

	c, err := v.Verify(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, auth.Claims{UserID: "u-7", Username: "carla", Email: "c@example.com"}, c)

	_, err = v.Verify(ctx, "expired")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = v.Verify(ctx, "  ")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = v.Verify(ctx, "anon")
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = v.Verify(ctx, "boom")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestVerify_WrongAPIKeyIsInvalidToken(t *testing.T) {
	ts := fakeOdin(t)
	defer ts.Close()

	v, err := NewVerifier(Config{BaseURL: ts.URL, APIKey: "wrong"})
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), "good")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestNewVerifier_RequiresConfig(t *testing.T) {
	_, err := NewVerifier(Config{BaseURL: "http://iam"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
