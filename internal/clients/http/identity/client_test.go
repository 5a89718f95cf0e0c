package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerify_ForwardsBearerAndDecodesNumericID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/verify", r.URL.Path)
		require.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id": 1234567890123, "email": "alice@example.com"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	user, err := client.Verify(context.Background(), "token-1")
	require.NoError(t, err)
	require.Equal(t, "1234567890123", user.ID)
	require.Equal(t, "alice@example.com", user.Email)
}

func TestVerify_StringID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": "u-7", "email": "bob@example.com"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	user, err := client.Verify(context.Background(), "token")
	require.NoError(t, err)
	require.Equal(t, "u-7", user.ID)
}

func TestVerify_RejectedToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	_, err = client.Verify(context.Background(), "expired")
	require.ErrorIs(t, err, ErrInvalidCredential)

	_, err = client.Verify(context.Background(), " ")
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerify_ServerErrorIsNotACredentialRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	_, err = client.Verify(context.Background(), "token")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidCredential)
}
