package loader

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchDownloadsAndCaches(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte("\x00asm\x01\x00\x00\x00"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	l := New(
		WithReleaseURL(srv.URL+"/luau-runtime.wasm"),
		WithHTTPClient(srv.Client()),
		WithCacheDir(dir),
	)

	data, err := l.fetch()
	require.NoError(t, err)
	assert.Equal(t, []byte("\x00asm\x01\x00\x00\x00"), data)

	cached, err := os.ReadFile(filepath.Join(dir, "luau-runtime.wasm"))
	require.NoError(t, err)
	assert.Equal(t, data, cached)

	_, err = l.fetch()
	require.NoError(t, err)
	assert.Equal(t, int32(1), requests.Load(), "second fetch must hit the cache")
}

func TestFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer srv.Close()

	l := New(
		WithReleaseURL(srv.URL+"/luau-runtime.wasm"),
		WithHTTPClient(srv.Client()),
		WithCacheDir(t.TempDir()),
	)

	_, err := l.fetch()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestPrefetchReturnsCachePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("\x00asm"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	l := New(
		WithReleaseURL(srv.URL+"/luau-runtime.wasm"),
		WithHTTPClient(srv.Client()),
		WithCacheDir(dir),
	)

	path, err := l.Prefetch()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "luau-runtime.wasm"), path)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
