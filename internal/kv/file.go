package kv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"luna/internal/fsutil"
)

const dataFilePerm = 0o600

var validKey = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)

// FileStore keeps one JSON file per key in a directory, e.g.
// ~/.luna/notification_settings.json. Every write keeps a .bak copy of the
// value it replaces.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory the store writes to.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("kv: invalid key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Get returns the stored bytes for key.
func (s *FileStore) Get(key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return data, nil
}

// Put atomically replaces the value of key.
func (s *FileStore) Put(key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	fsutil.KeepBackup(path, dataFilePerm)
	return fsutil.WriteFileAtomic(path, value, dataFilePerm)
}

// Delete removes key and its backup. Deleting a missing key is not an error.
func (s *FileStore) Delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	for _, p := range []string{path, path + ".bak"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Previous returns the value key held before its last write.
func (s *FileStore) Previous(key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path + ".bak")
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// Close is a no-op; files are closed after every operation.
func (s *FileStore) Close() error {
	return nil
}

// keyForFile maps a file name inside the store directory back to its key.
// Temp files and backups yield ok=false.
func keyForFile(name string) (string, bool) {
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
		return "", false
	}
	key := strings.TrimSuffix(name, ".json")
	return key, validKey.MatchString(key)
}

var (
	_ Store     = (*FileStore)(nil)
	_ Recoverer = (*FileStore)(nil)
)
