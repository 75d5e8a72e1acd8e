// Package ingest turns the files written by the external scrape pipeline
// into name records for the identity engine. Each file kind has a source
// adapter; adapters register themselves so the CLI can list and select them.
package ingest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/podiumstats/rostermatch/pkg/identity"
)

// Source reads raw name records with provenance from one scraped file kind.
type Source interface {
	// ID returns the unique identifier of this source (e.g. "team-files").
	ID() string
	// Description returns a human-readable description.
	Description() string
	// Load reads every record from the file at path.
	Load(ctx context.Context, path string) ([]identity.Record, error)
}

var (
	registryMu sync.RWMutex
	sources    = make(map[string]Source)
)

// Register adds a source to the global registry.
func Register(s Source) {
	registryMu.Lock()
	defer registryMu.Unlock()
	sources[s.ID()] = s
}

// Get returns a registered source by ID, or an error if not found.
func Get(id string) (Source, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := sources[id]
	if !ok {
		return nil, fmt.Errorf("unknown record source: %q", id)
	}
	return s, nil
}

// All returns all registered sources sorted by ID.
func All() []Source {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make([]Source, 0, len(sources))
	for _, s := range sources {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result
}
