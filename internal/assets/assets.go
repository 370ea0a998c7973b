package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Uploader stores an uploaded image and returns its publicly reachable URL.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, filename string) (string, error)
}

// storageKey builds a date-partitioned object key with a fresh uuid, keeping
// the original extension so the URL stays browser-friendly.
func storageKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	d := time.Now()
	return fmt.Sprintf("prompts/%d/%02d/%v%s", d.Year(), d.Month(), uuid.New(), ext)
}

// LocalStore writes uploads to a directory on disk. The router serves the
// directory at /uploads/, so the returned URL is baseURL + /uploads/ + key.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates a LocalStore rooted at dir.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload copies the image to disk and returns its served URL.
func (s *LocalStore) Upload(_ context.Context, r io.Reader, filename string) (string, error) {
	key := storageKey(filename)
	path := filepath.Join(s.dir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", err
	}

	return s.baseURL + "/uploads/" + key, nil
}

// Dir returns the directory the store writes to, for the static file server.
func (s *LocalStore) Dir() string {
	return s.dir
}
