package boq

import (
	"fmt"
	"iter"
	"strings"
	"sync"
)

// Filter narrows a registry listing. Empty fields match everything.
type Filter struct {
	Status   Status
	Priority Priority
	Search   string
}

func (f Filter) matches(b BOQ) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.Priority != "" && b.Priority != f.Priority {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		return strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Project.Name), q) ||
			strings.Contains(strings.ToLower(b.Description), q)
	}
	return true
}

// Stats summarises the registry.
type Stats struct {
	Total            int            `json:"total"`
	ByStatus         map[Status]int `json:"by_status"`
	TotalFinalAmount int64          `json:"total_final_amount"`
}

// Registry is an in-memory store of BOQ snapshots keyed by id. Stored values
// are replaced whole, never edited, so returned snapshots stay valid after
// later writes. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	order []string
	boqs  map[string]BOQ
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		boqs: make(map[string]BOQ),
	}
}

// Insert stores a new BOQ.
func (r *Registry) Insert(b BOQ) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.boqs[b.ID]; exists {
		return fmt.Errorf("%w: boq %s already exists", ErrConflict, b.ID)
	}
	r.boqs[b.ID] = b
	r.order = append(r.order, b.ID)
	return nil
}

// Replace swaps the stored snapshot for b.
func (r *Registry) Replace(b BOQ) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.boqs[b.ID]; !exists {
		return fmt.Errorf("%w: boq %s", ErrNotFound, b.ID)
	}
	r.boqs[b.ID] = b
	return nil
}

// ReplaceIfVersion swaps the stored snapshot for b only while the stored
// version still equals expected, the version the caller read before
// computing b.
func (r *Registry) ReplaceIfVersion(b BOQ, expected int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.boqs[b.ID]
	if !exists {
		return fmt.Errorf("%w: boq %s", ErrNotFound, b.ID)
	}
	if current.Version != expected {
		return fmt.Errorf("%w: boq %s is at version %d, expected %d", ErrConflict, b.ID, current.Version, expected)
	}
	r.boqs[b.ID] = b
	return nil
}

// Get returns the stored snapshot.
func (r *Registry) Get(id string) (BOQ, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, exists := r.boqs[id]
	if !exists {
		return BOQ{}, fmt.Errorf("%w: boq %s", ErrNotFound, id)
	}
	return b, nil
}

// List yields the BOQs matching f in insertion order. Snapshots are read as
// the sequence advances.
func (r *Registry) List(f Filter) iter.Seq[BOQ] {
	return func(yield func(BOQ) bool) {
		r.mu.RLock()
		ids := append([]string(nil), r.order...)
		r.mu.RUnlock()

		for _, id := range ids {
			r.mu.RLock()
			b, exists := r.boqs[id]
			r.mu.RUnlock()
			if !exists || !f.matches(b) {
				continue
			}
			if !yield(b) {
				return
			}
		}
	}
}

// Len returns the number of stored BOQs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.boqs)
}

// AggregateStats counts BOQs by status and sums their final amounts.
func (r *Registry) AggregateStats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{ByStatus: make(map[Status]int, len(Statuses))}
	for _, s := range Statuses {
		stats.ByStatus[s] = 0
	}
	for _, b := range r.boqs {
		stats.Total++
		stats.ByStatus[b.Status]++
		stats.TotalFinalAmount += b.FinalAmount
	}
	return stats
}
