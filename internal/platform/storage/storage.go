package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"mesaYaMenu/internal/config"
)

var (
	ErrNotFound         = errors.New("storage key not found")
	ErrInvalidNamespace = errors.New("invalid storage namespace")
)

// Store is a durable string key/value store partitioned by namespace, one
// namespace per browser device.
type Store interface {
	Get(ctx context.Context, namespace, key string) (string, error)
	Set(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error
	Close() error
}

var namespacePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

func validNamespace(namespace string) error {
	if !namespacePattern.MatchString(namespace) {
		return fmt.Errorf("%w: %q", ErrInvalidNamespace, namespace)
	}
	return nil
}

// Open builds the store selected by configuration.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.StorageDriverPostgres:
		store, err := NewPostgresStore(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageDriverFile, "":
		store, err := NewFileStore(cfg.Directory)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
