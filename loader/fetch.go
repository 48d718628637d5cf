package loader

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// fetch returns the runtime module bytes, downloading the release asset
// into the disk cache on first use.
func (l *Loader) fetch() ([]byte, error) {
	path := l.cachePath()
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}

	resp, err := l.client.Get(l.url)
	if err != nil {
		return nil, fmt.Errorf("fetch module: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch module: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch module: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
		// Cache failures are not load failures; next start just re-downloads.
		_ = os.WriteFile(path, data, 0o644)
	}

	return data, nil
}

// Prefetch downloads the runtime module into the disk cache without
// instantiating it, and returns the cached file path.
func (l *Loader) Prefetch() (string, error) {
	if _, err := l.fetch(); err != nil {
		return "", &LoadError{URL: l.url, Err: err}
	}
	return l.cachePath(), nil
}

func (l *Loader) cachePath() string {
	dir := l.cacheDir
	if dir == "" {
		dir = defaultCacheDir()
	}
	return filepath.Join(dir, filepath.Base(l.url))
}

func defaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "luaubridge")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "luaubridge")
	}
	return filepath.Join(os.TempDir(), "luaubridge-cache")
}
