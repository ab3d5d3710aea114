package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonmodel/internal/errors"
	"github.com/mcncl/jsonmodel/internal/fetcher"
	"github.com/mcncl/jsonmodel/internal/models"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	opts.Logger = zerolog.Nop()
	if opts.RootName == "" {
		opts.RootName = "Model"
	}
	if opts.Fetcher == nil {
		opts.Fetcher = fetcher.New(fetcher.Options{Timeout: 5 * time.Second, Logger: zerolog.Nop()})
	}
	srv := httptest.NewServer(New(opts).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/v1/generate", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestLanguages(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, err := http.Get(srv.URL + "/v1/languages")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	infos := decode[[]LanguageInfo](t, resp)
	require.Len(t, infos, 3)
	assert.Equal(t, LanguageInfo{
		Language:  models.TypeScript,
		Extension: ".ts",
		Styles:    []string{models.StyleNone, models.StyleClassTransformer, models.StyleTypeOnly},
	}, infos[0])
	assert.Equal(t, models.Dart, infos[1].Language)
	assert.Equal(t, ".kt", infos[2].Extension)
}

func TestGenerate_Document(t *testing.T) {
	srv := newTestServer(t, Options{Defaults: models.DefaultOptions()})

	resp := postJSON(t, srv, `{
		"document": {"id": 1, "name": "Ada"},
		"language": "kotlin",
		"root_name": "user",
		"options": {"null_safety": false, "package": "io.acme"}
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[models.Output](t, resp)
	assert.Equal(t, "User", out.FileName)
	assert.Equal(t, `package io.acme

data class User(
    val id: Int,
    val name: String
)
`, out.Code)
}

func TestGenerate_DefaultsApply(t *testing.T) {
	srv := newTestServer(t, Options{
		RootName: "Payload",
		Defaults: models.GenerationOptions{NullSafety: true, SerializationStyle: models.StyleTypeOnly},
	})

	resp := postJSON(t, srv, `{"document": {"id": 1}, "language": "ts"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[models.Output](t, resp)
	assert.Equal(t, "PayloadModel", out.FileName)
	assert.Contains(t, out.Code, "export interface Payload {")
	assert.Contains(t, out.Code, "id?: number")
}

func TestGenerate_URL(t *testing.T) {
	var gotAuth, gotKey string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("X-Api-Key")
		switch r.URL.Path {
		case "/user":
			_, _ = w.Write([]byte(`{"user_name": "ada"}`))
		case "/html":
			_, _ = w.Write([]byte(`<html>`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer upstream.Close()

	srv := newTestServer(t, Options{
		Defaults:  models.DefaultOptions(),
		Headers:   map[string]string{"X-Api-Key": "configured"},
		AuthToken: "default-token",
	})

	resp := postJSON(t, srv, `{"url": "`+upstream.URL+`/user", "language": "dart", "auth_token": "override"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[models.Output](t, resp)
	assert.Contains(t, out.Code, "String? userName;")
	assert.Equal(t, "Bearer override", gotAuth)
	assert.Equal(t, "configured", gotKey)

	q := url.Values{}
	q.Set("url", upstream.URL+"/user")
	q.Set("language", "typescript")
	q.Set("style", models.StyleClassTransformer)
	q.Set("constructor", "false")
	q.Add("header", "X-Api-Key: from-query")
	q.Set("unknown", "ignored")
	getResp, err := http.Get(srv.URL + "/v1/generate?" + q.Encode())
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	out = decode[models.Output](t, getResp)
	assert.Contains(t, out.Code, "@Expose({ name: 'user_name' })")
	assert.NotContains(t, out.Code, "constructor")
	assert.Equal(t, "Bearer default-token", gotAuth)
	assert.Equal(t, "from-query", gotKey)

	resp = postJSON(t, srv, `{"url": "`+upstream.URL+`/fail", "language": "dart"}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	resp = postJSON(t, srv, `{"url": "`+upstream.URL+`/html", "language": "dart"}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body := decode[ErrorBody](t, resp)
	assert.Equal(t, errors.ErrorTypeFetch, body.Error.Type)
}

func TestGenerate_Errors(t *testing.T) {
	srv := newTestServer(t, Options{Defaults: models.DefaultOptions()})

	tests := []struct {
		name    string
		body    string
		status  int
		errType errors.ErrorType
		detail  string
	}{
		{"malformed body", `{"document":`, http.StatusBadRequest, errors.ErrorTypeInput, ""},
		{"unknown field", `{"document": {}, "language": "dart", "extra": 1}`, http.StatusBadRequest, errors.ErrorTypeInput, ""},
		{"missing language", `{"document": {}}`, http.StatusBadRequest, errors.ErrorTypeInput, "language"},
		{"missing input", `{"language": "dart"}`, http.StatusBadRequest, errors.ErrorTypeInput, "document"},
		{"both inputs", `{"document": {}, "url": "example.com", "language": "dart"}`, http.StatusBadRequest, errors.ErrorTypeInput, "document"},
		{"unsupported language", `{"document": {}, "language": "go"}`, http.StatusBadRequest, errors.ErrorTypeOptions, ""},
		{"style of another language", `{"document": {}, "language": "dart", "options": {"serialization_style": "Gson"}}`, http.StatusBadRequest, errors.ErrorTypeOptions, ""},
		{"invalid document", `{"document": "{", "language": "dart"}`, http.StatusUnprocessableEntity, errors.ErrorTypeStructure, ""},
		{"empty array", `{"document": [], "language": "dart"}`, http.StatusUnprocessableEntity, errors.ErrorTypeStructure, ""},
		{"primitive", `{"document": 42, "language": "kotlin"}`, http.StatusUnprocessableEntity, errors.ErrorTypeStructure, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)

			body := decode[ErrorBody](t, resp)
			assert.Equal(t, tt.errType, body.Error.Type)
			assert.NotEmpty(t, body.Error.Message)
			if tt.detail != "" {
				assert.Contains(t, body.Error.Details, tt.detail)
			}
		})
	}
}

func TestGenerateQuery_Errors(t *testing.T) {
	srv := newTestServer(t, Options{Defaults: models.DefaultOptions()})

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"missing url", "language=dart", http.StatusBadRequest},
		{"bad bool", "url=example.com&language=dart&constructor=maybe", http.StatusBadRequest},
		{"malformed header", "url=example.com&language=dart&header=nocolon", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/v1/generate?" + tt.query)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, err := http.Post(srv.URL+"/v1/languages", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServer_StartShutdown(t *testing.T) {
	s := New(Options{Addr: "127.0.0.1:0", Logger: zerolog.Nop()})

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start()
	}()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
