package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes objects below a root directory. It doubles as an
// http.Handler serving those files.
type LocalStore struct {
	root    string
	baseURL string
}

func NewLocal(root, baseURL string) (*LocalStore, error) {
	if root == "" {
		root = "storage"
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage/local: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage/local: mkdir root: %w", err)
	}
	return &LocalStore{
		root:    abs,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// path resolves key under root and rejects keys that escape it.
func (d *LocalStore) path(key string) (string, error) {
	full := filepath.Join(d.root, filepath.FromSlash(key))
	if full != d.root && !strings.HasPrefix(full, d.root+string(filepath.Separator)) {
		return "", fmt.Errorf("storage/local: key %q escapes root", key)
	}
	return full, nil
}

func (d *LocalStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	full, err := d.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("storage/local: mkdir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("storage/local: create %s: %w", key, err)
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(body, size+1))
	if err != nil {
		return "", fmt.Errorf("storage/local: write %s: %w", key, err)
	}
	if n != size {
		_ = os.Remove(full)
		return "", fmt.Errorf("storage/local: write %s: got %d bytes, want %d", key, n, size)
	}

	return publicURL(d.baseURL, filepath.ToSlash(key)), nil
}

func (d *LocalStore) Delete(ctx context.Context, key string) error {
	full, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage/local: delete %s: %w", key, err)
	}
	return nil
}

// ServeHTTP serves stored files; mount it with http.StripPrefix.
func (d *LocalStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	http.FileServer(http.Dir(d.root)).ServeHTTP(w, r)
}
