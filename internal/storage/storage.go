/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package storage

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("key not found")

	Backends = []string{"file", "sqlite"}
)

// Store is a durable key/value store for console state.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}

type Config struct {
	Backend string
	Path    string
}

func NewStore(config *Config) (Store, error) {
	switch config.Backend {
	case "file":
		return NewFileStore(config.Path)
	case "sqlite":
		return NewSQLiteStore(config.Path)
	}

	return nil, fmt.Errorf("invalid store backend specified: %q", config.Backend)
}
