package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCheckAvailability_SendsBatchAndDecodes(t *testing.T) {
	var received []int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/products/check-availability", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"availability":{
			"1":{"available":true,"stock":15,"name":"Laptop","price":799.99},
			"2":{"available":false,"stock":0,"name":null,"price":null}}}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL+"/api", server.Client())
	require.NoError(t, err)

	result, err := client.CheckAvailability(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, received)

	require.True(t, result[1].Available)
	require.Equal(t, 15, result[1].Stock)
	require.Equal(t, "Laptop", *result[1].Name)
	require.True(t, result[1].Price.Valid)
	require.Equal(t, "799.99", result[1].Price.Decimal.String())

	require.False(t, result[2].Available)
	require.Nil(t, result[2].Name)
	require.False(t, result[2].Price.Valid)

	_, ok := result[3]
	require.False(t, ok)
}

func TestCheckAvailability_NonOKIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"database unavailable"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	_, err = client.CheckAvailability(context.Background(), []int64{1})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	require.Equal(t, "database unavailable", statusErr.Message)
}

func TestAdjustStock_PostsSignedDelta(t *testing.T) {
	var path string
	var body map[string]int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"product_id":42,"new_stock":8}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	require.NoError(t, client.AdjustStock(context.Background(), 42, -2))
	require.Equal(t, "/products/42/stock", path)
	require.Equal(t, -2, body["quantity"])
}

func TestAdjustStock_RejectionIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Insufficient stock"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	err = client.AdjustStock(context.Background(), 1, -100)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	require.Equal(t, "Insufficient stock", statusErr.Message)
}

func TestAdjustStock_TimeoutIsError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client, err := NewClient(server.URL, &http.Client{Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	require.Error(t, client.AdjustStock(context.Background(), 1, -1))
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ", nil)
	require.Error(t, err)
}
