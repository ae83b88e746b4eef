// Package registry holds the catalog of calculators, keyed by their stable ids.
//
// A Registry is filled once during start-up and then frozen. After Freeze it is
// read-only. Every method is safe for concurrent use.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rshade/mazerion/internal/calc"
)

// Factory builds a fresh calculator instance.
type Factory func() calc.Calculator

// Entry is one registration: a stable id and the factory that builds it.
type Entry struct {
	ID      string
	Factory Factory
}

// Registry is an append-only catalog of calculator factories.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	index   map[string]int
	frozen  bool
}

// New returns an empty, writable Registry.
func New() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register appends an entry. Duplicate ids are not rejected: the first
// registration keeps answering Get, and Duplicates reports the shadowed ones.
// Register panics on an empty id, a nil factory, or once the registry has
// been frozen.
func (r *Registry) Register(id string, factory Factory) {
	if strings.TrimSpace(id) == "" {
		panic("registry: Register with empty id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		panic(fmt.Sprintf("registry: Register(%q) after Freeze", id))
	}
	if factory == nil {
		panic(fmt.Sprintf("registry: nil factory for %q", id))
	}
	if _, exists := r.index[id]; !exists {
		r.index[id] = len(r.entries)
	}
	r.entries = append(r.entries, Entry{ID: id, Factory: factory})
}

// Freeze marks the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Get builds the calculator registered under id.
// A miss is reported through the boolean, not as an error.
func (r *Registry) Get(id string) (calc.Calculator, bool) {
	r.mu.RLock()
	i, ok := r.index[id]
	var factory Factory
	if ok {
		factory = r.entries[i].Factory
	}
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return factory(), true
}

// ListIDs returns every registered id in registration order.
func (r *Registry) ListIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, len(r.entries))
	for i, e := range r.entries {
		ids[i] = e.ID
	}
	return ids
}

// All builds one calculator per registered entry, in registration order.
func (r *Registry) All() []calc.Calculator {
	r.mu.RLock()
	entries := r.entries
	r.mu.RUnlock()

	out := make([]calc.Calculator, len(entries))
	for i, e := range entries {
		out[i] = e.Factory()
	}
	return out
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Duplicates returns ids registered more than once, sorted.
func (r *Registry) Duplicates() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int, len(r.entries))
	for _, e := range r.entries {
		counts[e.ID]++
	}
	var dups []string
	for id, n := range counts {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Strings(dups)
	return dups
}

// ByCategory groups calculators by category. Within a category, calculators
// keep registration order.
func (r *Registry) ByCategory() map[string][]calc.Calculator {
	out := make(map[string][]calc.Calculator)
	for _, c := range r.All() {
		out[c.Category()] = append(out[c.Category()], c)
	}
	return out
}

// InCategory returns the calculators in category, in registration order.
func (r *Registry) InCategory(category string) []calc.Calculator {
	var out []calc.Calculator
	for _, c := range r.All() {
		if strings.EqualFold(c.Category(), category) {
			out = append(out, c)
		}
	}
	return out
}

// Search returns calculators whose id, name, or description contains term,
// ignoring case. An empty term matches everything.
func (r *Registry) Search(term string) []calc.Calculator {
	needle := strings.ToLower(strings.TrimSpace(term))
	var out []calc.Calculator
	for _, c := range r.All() {
		if needle == "" ||
			strings.Contains(strings.ToLower(c.ID()), needle) ||
			strings.Contains(strings.ToLower(c.Name()), needle) ||
			strings.Contains(strings.ToLower(c.Description()), needle) {
			out = append(out, c)
		}
	}
	return out
}
