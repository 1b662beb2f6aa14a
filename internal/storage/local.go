package storage

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9а-яА-ЯёЁ\s\-_]`)

// LocalStore keeps blobs as files under a single directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the upload directory if needed and returns a store
// rooted there.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes the content under a collision-resistant name derived from the
// original filename.
func (s *LocalStore) Save(content io.Reader, originalName string) (string, int64, error) {
	path := filepath.Join(s.dir, uniqueName(originalName))

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create blob file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, content)
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("failed to write blob file: %w", err)
	}

	return path, written, nil
}

func (s *LocalStore) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (s *LocalStore) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (s *LocalStore) Delete(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob file: %w", err)
	}
	return nil
}

// uniqueName builds "<safe-base>-<timestamp>-<rand><ext>" like the upload
// layer this store replaces.
func uniqueName(originalName string) string {
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(filepath.Base(originalName), ext)

	safe := unsafeNameChars.ReplaceAllString(base, "_")
	safe = strings.Join(strings.Fields(safe), "_")
	if runes := []rune(safe); len(runes) > 100 {
		safe = string(runes[:100])
	}
	if safe == "" {
		safe = "file"
	}

	return fmt.Sprintf("%s-%d-%d%s", safe, time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
}
