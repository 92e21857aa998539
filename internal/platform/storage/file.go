package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps one JSON document per namespace under a directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "./data/storage"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Get(_ context.Context, namespace, key string) (string, error) {
	if err := validNamespace(namespace); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read(namespace)
	if err != nil {
		return "", err
	}
	value, ok := values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *FileStore) Set(_ context.Context, namespace, key, value string) error {
	if err := validNamespace(namespace); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read(namespace)
	if err != nil {
		return err
	}
	values[key] = value
	return s.write(namespace, values)
}

func (s *FileStore) Delete(_ context.Context, namespace, key string) error {
	if err := validNamespace(namespace); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read(namespace)
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	if len(values) == 0 {
		if err := os.Remove(s.path(namespace)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove storage file: %w", err)
		}
		return nil
	}
	return s.write(namespace, values)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) path(namespace string) string {
	return filepath.Join(s.dir, namespace+".json")
}

func (s *FileStore) read(namespace string) (map[string]string, error) {
	data, err := os.ReadFile(s.path(namespace))
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read storage file: %w", err)
	}
	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode storage file: %w", err)
	}
	return values, nil
}

// write replaces the namespace file through a rename so readers never see a partial document.
func (s *FileStore) write(namespace string, values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode storage file: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, namespace+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp storage file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write storage file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close storage file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(namespace)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
