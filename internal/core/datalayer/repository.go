package datalayer

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when an Update/Delete predicate matches no record.
var ErrNotFound = errors.New("datalayer: no record matches predicate")

// Repository is an in-memory stand-in for the reference-data collaborator
// of section 6: a typed, predicate-queryable store for one Record model.
// A production deployment swaps this for a gorm.io/gorm-backed
// implementation of the same interface (see Store); the in-memory form
// is the test double used throughout the core and its own tests.
type Repository[M Record] struct {
	mu      sync.RWMutex
	records []M
}

// NewRepository returns a Repository pre-populated with seed.
func NewRepository[M Record](seed ...M) *Repository[M] {
	records := make([]M, len(seed))
	copy(records, seed)
	return &Repository[M]{records: records}
}

// Select returns every record matching pred, in insertion order. A zero
// Expression matches every record.
func (r *Repository[M]) Select(pred Expression[M]) []M {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]M, 0, len(r.records))
	for _, record := range r.records {
		if pred.Evaluate(record) {
			matches = append(matches, record)
		}
	}
	return matches
}

// SelectOne returns the first record matching pred, or false if none do.
func (r *Repository[M]) SelectOne(pred Expression[M]) (M, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, record := range r.records {
		if pred.Evaluate(record) {
			return record, true
		}
	}
	var zero M
	return zero, false
}

// Insert appends a new record.
func (r *Repository[M]) Insert(record M) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
}

// Update replaces every record matching pred with apply(record), returning
// the count of records touched. ErrNotFound is returned, alongside a zero
// count, if nothing matched.
func (r *Repository[M]) Update(pred Expression[M], apply func(M) M) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	touched := 0
	for i, record := range r.records {
		if pred.Evaluate(record) {
			r.records[i] = apply(record)
			touched++
		}
	}
	if touched == 0 {
		return 0, ErrNotFound
	}
	return touched, nil
}

// Delete removes every record matching pred, returning the count removed.
func (r *Repository[M]) Delete(pred Expression[M]) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.records[:0:0]
	removed := 0
	for _, record := range r.records {
		if pred.Evaluate(record) {
			removed++
			continue
		}
		kept = append(kept, record)
	}
	r.records = kept
	return removed
}

// Len reports how many records the repository currently holds.
func (r *Repository[M]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
