/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]Store {
	dir := t.TempDir()

	file, err := NewStore(&Config{Backend: "file", Path: filepath.Join(dir, "files")})
	require.NoError(t, err)

	db, err := NewStore(&Config{Backend: "sqlite", Path: filepath.Join(dir, "store.db")})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = file.Close()
		_ = db.Close()
	})

	return map[string]Store{"file": file, "sqlite": db}
}

func getReturnsErrNotFoundForMissingKey(t *testing.T) {
	for name, store := range openStores(t) {
		_, err := store.Get("missing")
		assert.ErrorIs(t, err, ErrNotFound, name)
	}
}

func putThenGetReturnsValue(t *testing.T) {
	for name, store := range openStores(t) {
		require.NoError(t, store.Put("flowconsole.events", []byte(`["a"]`)), name)
		require.NoError(t, store.Put("flowconsole.events", []byte(`["a","b"]`)), name)

		value, err := store.Get("flowconsole.events")
		assert.NoError(t, err, name)
		assert.Equal(t, `["a","b"]`, string(value), name)
	}
}

func deleteRemovesKey(t *testing.T) {
	for name, store := range openStores(t) {
		require.NoError(t, store.Put("k", []byte("v")), name)
		require.NoError(t, store.Delete("k"), name)
		require.NoError(t, store.Delete("k"), name)

		_, err := store.Get("k")
		assert.ErrorIs(t, err, ErrNotFound, name)
	}
}

func newStoreReturnsErrorForUnknownBackend(t *testing.T) {
	store, err := NewStore(&Config{Backend: "redis"})
	assert.Nil(t, store)
	assert.EqualError(t, err, "invalid store backend specified: \"redis\"")
}

func newFileStoreReturnsErrorForEmptyPath(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestStorage(t *testing.T) {
	t.Run("storage.Get returns ErrNotFound for missing key", getReturnsErrNotFoundForMissingKey)
	t.Run("storage.Put then Get returns value", putThenGetReturnsValue)
	t.Run("storage.Delete removes key", deleteRemovesKey)
	t.Run("storage.NewStore returns error for unknown backend", newStoreReturnsErrorForUnknownBackend)
	t.Run("storage.NewFileStore returns error for empty path", newFileStoreReturnsErrorForEmptyPath)
}
