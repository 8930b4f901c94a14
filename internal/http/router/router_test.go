package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/students-demo/students-api/internal/http/middleware"
	"github.com/students-demo/students-api/internal/storage"
	"github.com/students-demo/students-api/internal/storage/memory"
	"github.com/students-demo/students-api/internal/types"
)

func newServer(t *testing.T, s storage.Storage, baseURL string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(s, baseURL, slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(srv.Close)
	return srv
}

func send(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func TestLifecycle(t *testing.T) {
	srv := newServer(t, memory.New(), "")

	resp, body := send(t, http.MethodPost, srv.URL+"/students",
		`{"firstName":"Ada","lastName":"Lovelace","department":"SOE","level":300}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "/students/1", resp.Header.Get("Location"))
	assert.NotEmpty(t, resp.Header.Get(middleware.HeaderRequestID))

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["id"])

	resp, body = send(t, http.MethodPut, srv.URL+"/students/1", `{"level":400}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data = body["data"].(map[string]any)
	assert.Equal(t, float64(400), data["level"])
	assert.Equal(t, "Ada", data["firstName"])

	resp, body = send(t, http.MethodDelete, srv.URL+"/students/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Student deleted successfully", body["message"])
	assert.Nil(t, body["data"])

	resp, body = send(t, http.MethodGet, srv.URL+"/students/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Could not find student 1", body["error"])
}

func TestBaseURLLinks(t *testing.T) {
	srv := newServer(t, memory.New(), "http://api.example.test")

	resp, body := send(t, http.MethodPost, srv.URL+"/students",
		`{"firstName":"Ada","lastName":"Lovelace","department":"SOE","level":300}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "http://api.example.test/students/1", resp.Header.Get("Location"))

	links := body["data"].(map[string]any)["_links"].(map[string]any)
	assert.Equal(t, "http://api.example.test/students", links["students"].(map[string]any)["href"])
}

func TestHome(t *testing.T) {
	srv := newServer(t, memory.New(), "")

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(raw), "Welcome to the Student API!"))
}

func TestUnknownPathIsNotHome(t *testing.T) {
	srv := newServer(t, memory.New(), "")

	resp, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// panickingStore blows up inside a handler to exercise the global fallback.
type panickingStore struct {
	storage.Storage
}

func (panickingStore) FindAll(context.Context) ([]types.Student, error) {
	panic("storage exploded")
}

func TestPanicBecomesUnexpectedError(t *testing.T) {
	var buf bytes.Buffer
	srv := httptest.NewServer(New(panickingStore{memory.New()}, "", slog.New(slog.NewTextHandler(&buf, nil))))
	defer srv.Close()

	resp, body := send(t, http.MethodGet, srv.URL+"/students", "")

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "An unexpected error occurred", body["error"])
	assert.Equal(t, "storage exploded", body["details"])
	assert.NotContains(t, body["details"], "goroutine")

	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "status=500")
}
