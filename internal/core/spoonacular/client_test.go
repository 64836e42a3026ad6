package spoonacular

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"recipe-cost/internal/core/pricing"
	"recipe-cost/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.SpoonacularConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		Timeout:    2 * time.Second,
		RetryCount: 2,
		RetryWait:  time.Millisecond,
	})
}

func TestClient_Lookup(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/food/ingredients/search":
			assert.Equal(t, "chicken breast", r.URL.Query().Get("query"))
			assert.Equal(t, "1", r.URL.Query().Get("number"))
			_, _ = w.Write([]byte(`{"results":[{"id":5062,"name":"chicken breast"}],"totalResults":1}`))
		case "/food/ingredients/5062/information":
			assert.Equal(t, "908", r.URL.Query().Get("amount"))
			assert.Equal(t, "grams", r.URL.Query().Get("unit"))
			_, _ = w.Write([]byte(`{"id":5062,"name":"chicken breast","estimatedCost":{"value":1054.6,"unit":"US Cents"}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	lookup, err := client.Lookup(context.Background(), "chicken breast", 908, "grams")

	require.NoError(t, err)
	assert.Equal(t, pricing.Lookup{ID: 5062, Name: "chicken breast", CostCents: 1054.6}, lookup)
}

func TestClient_Lookup_NoResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	_, err := client.Lookup(context.Background(), "unobtainium", 1, "")

	assert.ErrorIs(t, err, pricing.ErrNoResults)
}

func TestClient_Lookup_NoCost(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/food/ingredients/search" {
			_, _ = w.Write([]byte(`{"results":[{"id":1,"name":"water"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"name":"water"}`))
	})

	_, err := client.Lookup(context.Background(), "water", 1, "")

	assert.ErrorIs(t, err, pricing.ErrNoCost)
}

func TestClient_Lookup_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusPaymentRequired)
	})

	_, err := client.Lookup(context.Background(), "egg", 1, "")

	require.Error(t, err)
	assert.NotErrorIs(t, err, pricing.ErrNoResults)
	assert.Contains(t, err.Error(), "unexpected status 402")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Lookup_RetriesServerErrors(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/food/ingredients/search" && atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if r.URL.Path == "/food/ingredients/search" {
			_, _ = w.Write([]byte(`{"results":[{"id":9,"name":"egg"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":9,"name":"egg","estimatedCost":{"value":25,"unit":"US Cents"}}`))
	})

	lookup, err := client.Lookup(context.Background(), "egg", 1, "")

	require.NoError(t, err)
	assert.Equal(t, 25.0, lookup.CostCents)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Lookup_MalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	})

	_, err := client.Lookup(context.Background(), "egg", 1, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed response")
}

func TestClient_Lookup_SearchResultWithoutID(t *testing.T) {
	var infoCalls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/food/ingredients/search" {
			_, _ = w.Write([]byte(`{"results":[{"name":"mystery"}]}`))
			return
		}
		atomic.AddInt32(&infoCalls, 1)
		_, _ = w.Write([]byte(`{"id":0,"estimatedCost":{"value":100,"unit":"US Cents"}}`))
	})

	_, err := client.Lookup(context.Background(), "mystery", 1, "")

	require.Error(t, err)
	assert.NotErrorIs(t, err, pricing.ErrNoResults)
	assert.Contains(t, err.Error(), "malformed response: missing id")
	assert.Equal(t, int32(0), atomic.LoadInt32(&infoCalls))
}

func TestClient_Lookup_NegativeCost(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/food/ingredients/search" {
			_, _ = w.Write([]byte(`{"results":[{"id":7,"name":"salt"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":7,"estimatedCost":{"value":-250,"unit":"US Cents"}}`))
	})

	_, err := client.Lookup(context.Background(), "salt", 1, "")

	require.Error(t, err)
	assert.NotErrorIs(t, err, pricing.ErrNoCost)
	assert.Contains(t, err.Error(), "negative cost")

	est := pricing.NewEstimator(pricing.EstimatorConfig{}, client)
	res := est.Estimate(context.Background(), "salt", pricing.Normalized{Amount: 1})
	assert.Equal(t, pricing.Unavailable, res.Status)
}

func TestClient_FeedsEstimator(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/food/ingredients/search" {
			_, _ = w.Write([]byte(`{"results":[{"id":3,"name":"flour"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":3,"estimatedCost":{"value":200,"unit":"US Cents"}}`))
	})
	est := pricing.NewEstimator(pricing.EstimatorConfig{}, client)

	res := est.Estimate(context.Background(), "flour", pricing.Normalized{Amount: 454, Unit: pricing.UnitGrams})

	assert.Equal(t, pricing.Found, res.Status)
	assert.Equal(t, "2.60", res.Price.StringFixed(2))
}
