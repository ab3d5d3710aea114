package fetcher

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonmodel/internal/errors"
	"github.com/mcncl/jsonmodel/internal/models"
)

func newTestClient(cacheSize int) *Client {
	return New(Options{
		Timeout:   5 * time.Second,
		CacheSize: cacheSize,
		CacheTTL:  time.Minute,
		Logger:    zerolog.Nop(),
	})
}

func TestFetch_SendsHeadersAndToken(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"id": 1, "name": "widget"}`))
	}))
	defer srv.Close()

	ir, err := newTestClient(0).Fetch(context.Background(), srv.URL, RequestOptions{
		Headers:   map[string]string{"X-Api-Key": "abc"},
		AuthToken: "secret",
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "abc", got.Get("X-Api-Key"))
	assert.Equal(t, "Bearer secret", got.Get("Authorization"))

	obj, ok := ir.Root.(*models.JSONObject)
	require.True(t, ok)
	key, _ := obj.FirstKey()
	assert.Equal(t, "id", key)
	assert.Equal(t, 2, obj.Len())
}

func TestFetch_NoTokenNoAuthorization(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestClient(0).Fetch(context.Background(), srv.URL, RequestOptions{})
	require.NoError(t, err)
	assert.Empty(t, auth)
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(0).Fetch(context.Background(), srv.URL, RequestOptions{})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrHTTPStatus))
	assert.Equal(t, errors.ErrorTypeFetch, errors.TypeOf(err))
	assert.Contains(t, err.Error(), "status 404")
}

func TestFetch_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(0).Fetch(context.Background(), srv.URL, RequestOptions{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeParsing, errors.TypeOf(err))
}

func TestFetch_ConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(0).Fetch(context.Background(), url, RequestOptions{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeFetch, errors.TypeOf(err))
}

func TestFetch_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(0).Fetch(ctx, srv.URL, RequestOptions{})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, context.Canceled))
}

func TestFetch_BodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"pad": "`))
		_, _ = w.Write([]byte(strings.Repeat("x", MaxBodySize)))
		_, _ = w.Write([]byte(`"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(0).FetchBytes(context.Background(), srv.URL, RequestOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestFetch_Cache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("Authorization") == "Bearer bad" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))
	defer srv.Close()

	client := newTestClient(8)
	ctx := context.Background()

	_, err := client.Fetch(ctx, srv.URL, RequestOptions{})
	require.NoError(t, err)
	_, err = client.Fetch(ctx, srv.URL, RequestOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "second fetch is served from the cache")

	_, err = client.Fetch(ctx, srv.URL, RequestOptions{AuthToken: "other"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "a different token is a different entry")

	for i := 0; i < 2; i++ {
		_, err = client.Fetch(ctx, srv.URL, RequestOptions{AuthToken: "bad"})
		require.Error(t, err)
	}
	assert.Equal(t, int32(4), hits.Load(), "failures are not cached")
}

func TestFetch_CacheExpires(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))
	defer srv.Close()

	client := New(Options{CacheSize: 8, CacheTTL: 20 * time.Millisecond, Logger: zerolog.Nop()})
	ctx := context.Background()

	_, err := client.Fetch(ctx, srv.URL, RequestOptions{})
	require.NoError(t, err)
	time.Sleep(60 * time.Millisecond)
	_, err = client.Fetch(ctx, srv.URL, RequestOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "expired entries are fetched again")
}

func TestFetch_CacheDisabled(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(0)
	for i := 0; i < 3; i++ {
		_, err := client.Fetch(context.Background(), srv.URL, RequestOptions{})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), hits.Load())
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"api.example.com/users", "https://api.example.com/users"},
		{"http://localhost:8080/x", "http://localhost:8080/x"},
		{"https://example.com", "https://example.com"},
		{"HTTPS://example.com", "HTTPS://example.com"},
		{"  example.com  ", "https://example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.in))
		})
	}
}

func TestParseHeaders(t *testing.T) {
	headers, err := ParseHeaders([]string{"Accept: application/json", "X-Trace:abc:def", "X-Empty:"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Accept":  "application/json",
		"X-Trace": "abc:def",
		"X-Empty": "",
	}, headers)

	for _, bad := range []string{"no-colon", ": value", "Bad Key: v"} {
		_, err := ParseHeaders([]string{bad})
		require.Error(t, err, bad)
		assert.True(t, stderrors.Is(err, errors.ErrMalformedHeader))
		assert.Equal(t, errors.ErrorTypeInput, errors.TypeOf(err))
	}
}
