package session

import (
	"errors"
	"os"
)

// Store persists the serialized session blob under a single key, the
// way the device keeps it. Read returns os.ErrNotExist when nothing
// has been stored yet.
type Store interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Clear() error
}

type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Read() ([]byte, error) {
	return os.ReadFile(s.Path)
}

func (s *FileStore) Write(data []byte) error {
	return os.WriteFile(s.Path, data, 0o600)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
