/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package buffer

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/tschaefer/flowconsole/internal/storage"
)

// StoreKey is the key holding the persisted event lines.
const StoreKey = "flowconsole.events"

// Persister mirrors buffer contents to a durable store. Storage failures are
// logged and never returned.
type Persister struct {
	Store storage.Store
	Key   string
	Cap   int
}

func NewPersister(store storage.Store, capacity int) *Persister {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &Persister{Store: store, Key: StoreKey, Cap: capacity}
}

// LoadPersisted returns the stored lines. Absent, malformed or oversized
// content yields an empty slice.
func (p *Persister) LoadPersisted() []string {
	if p == nil || p.Store == nil {
		return []string{}
	}

	data, err := p.Store.Get(p.Key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("Failed to read persisted events.", "key", p.Key, "error", err)
		}
		return []string{}
	}

	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		slog.Warn("Discarding malformed persisted events.", "key", p.Key, "error", err)
		return []string{}
	}
	if len(lines) > p.Cap {
		slog.Warn("Discarding oversized persisted events.", "key", p.Key, "count", len(lines))
		return []string{}
	}
	if lines == nil {
		return []string{}
	}

	return lines
}

// Persist writes the last Cap lines.
func (p *Persister) Persist(lines []string) {
	if p == nil || p.Store == nil {
		return
	}

	data, err := json.Marshal(Tail(lines, p.Cap))
	if err != nil {
		slog.Warn("Failed to encode events for persistence.", "error", err)
		return
	}

	if err := p.Store.Put(p.Key, data); err != nil {
		slog.Warn("Failed to persist events.", "key", p.Key, "error", err)
	}
}
