package memory

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

// table is a mutex-guarded row set that remembers insertion order.
type table[T any] struct {
	name  string
	mu    sync.RWMutex
	ids   []string
	items map[string]T
}

func newTable[T any](name string) *table[T] {
	return &table[T]{name: name, items: make(map[string]T)}
}

func (t *table[T]) notFound() error {
	return apperrors.NotFound(apperrors.TableDisplayName(t.name) + " tidak ditemukan")
}

// insert stores v under a new id unless conflicts reports a clash with an existing row.
// set receives the new id before v is stored.
func (t *table[T]) insert(v T, set func(*T, string), conflicts func(*T) bool) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if conflicts != nil {
		for _, id := range t.ids {
			existing := t.items[id]
			if conflicts(&existing) {
				var zero T
				return zero, false
			}
		}
	}
	id := uuid.NewString()
	set(&v, id)
	t.ids = append(t.ids, id)
	t.items[id] = v
	return v, true
}

func (t *table[T]) get(id string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.items[id]
	if !ok {
		return v, t.notFound()
	}
	return v, nil
}

// update applies fn to the row under id. fn returns an error to abort without changes.
func (t *table[T]) update(id string, fn func(*T) error) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.items[id]
	if !ok {
		return v, t.notFound()
	}
	if err := fn(&v); err != nil {
		var zero T
		return zero, err
	}
	t.items[id] = v
	return v, nil
}

// othersMatch reports whether a row other than id satisfies match. Caller holds mu.
func (t *table[T]) othersMatch(id string, match func(*T) bool) bool {
	for _, other := range t.ids {
		if other == id {
			continue
		}
		v := t.items[other]
		if match(&v) {
			return true
		}
	}
	return false
}

func (t *table[T]) remove(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.items[id]; !ok {
		return t.notFound()
	}
	delete(t.items, id)
	t.ids = slices.DeleteFunc(t.ids, func(s string) bool { return s == id })
	return nil
}

// newestFirst returns copies of the rows accepted by match, most recently inserted first.
func (t *table[T]) newestFirst(match func(*T) bool) []*T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*T, 0, len(t.ids))
	for i := len(t.ids) - 1; i >= 0; i-- {
		v := t.items[t.ids[i]]
		if match == nil || match(&v) {
			out = append(out, &v)
		}
	}
	return out
}

// page slices rows by offset and limit.
func page[T any](rows []*T, limit, offset int) []*T {
	if offset >= len(rows) {
		return []*T{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
