// Package catalog provides the registry of playable samples.
package catalog

import (
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/osa030/samplebox/internal/domain/sample"
)

var (
	ErrSampleNotFound  = errors.New("sample not found")
	ErrDuplicateSample = errors.New("duplicate sample id")
	ErrEmptyID         = errors.New("empty sample id")
)

// Entry is a sample registered under an id.
type Entry struct {
	ID         string
	Descriptor sample.Descriptor
}

// Registry holds sample descriptors with thread-safe access.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates a registry from entries.
func New(entries []Entry) (*Registry, error) {
	r := &Registry{
		entries: make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		if err := r.Add(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers a sample. Ids are case-insensitive.
func (r *Registry) Add(e Entry) error {
	id := normalizeID(e.ID)
	if id == "" {
		return errors.Wrapf(ErrEmptyID, "sample %q", e.Descriptor.Title)
	}
	if err := e.Descriptor.Validate(); err != nil {
		return errors.Wrapf(err, "sample %s", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; ok {
		return errors.Wrapf(ErrDuplicateSample, "%s", id)
	}
	e.ID = id
	r.entries[id] = e
	return nil
}

// Get retrieves a sample descriptor by id.
func (r *Registry) Get(id string) (sample.Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[normalizeID(id)]
	if !ok {
		return sample.Descriptor{}, errors.Wrapf(ErrSampleNotFound, "%s", id)
	}
	return e.Descriptor, nil
}

// List returns all entries sorted by id.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Count returns the number of samples.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
