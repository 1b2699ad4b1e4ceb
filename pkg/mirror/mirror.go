// Package mirror keeps the last records a backend returned: the current
// list, the record being viewed and a by-id cache with expiry.
package mirror

import (
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Record is anything with a numeric backend id.
type Record interface {
	RecordID() int
}

// Status is the request state of a mirror.
type Status struct {
	Loading bool   `json:"is_loading"`
	Error   string `json:"error,omitempty"`
	Empty   bool   `json:"is_empty"`
	Count   int    `json:"count"`
}

type Mirror[T Record] struct {
	mu      sync.RWMutex
	items   []T
	current *T
	loading int
	lastErr string

	cache *cache.Cache
}

// New creates a mirror whose cached records expire after ttl.
func New[T Record](ttl time.Duration) *Mirror[T] {
	return &Mirror[T]{cache: cache.New(ttl, 2*ttl)}
}

func key(id int) string { return strconv.Itoa(id) }

// SetItems replaces the list.
func (m *Mirror[T]) SetItems(items []T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append([]T(nil), items...)
	for _, it := range items {
		m.cache.Set(key(it.RecordID()), it, cache.DefaultExpiration)
	}
}

func (m *Mirror[T]) Items() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]T(nil), m.items...)
}

// SetCurrent marks item as the record being viewed.
func (m *Mirror[T]) SetCurrent(item T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = &item
	m.cache.Set(key(item.RecordID()), item, cache.DefaultExpiration)
}

func (m *Mirror[T]) Current() (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		var zero T
		return zero, false
	}
	return *m.current, true
}

func (m *Mirror[T]) ClearCurrent() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
}

// Cached returns the last known copy of a record.
func (m *Mirror[T]) Cached(id int) (T, bool) {
	if v, ok := m.cache.Get(key(id)); ok {
		return v.(T), true
	}
	var zero T
	return zero, false
}

// Add inserts a new record at the front, or at the back when prepend is false.
func (m *Mirror[T]) Add(item T, prepend bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prepend {
		m.items = append([]T{item}, m.items...)
	} else {
		m.items = append(m.items, item)
	}
	m.cache.Set(key(item.RecordID()), item, cache.DefaultExpiration)
}

// Replace swaps the listed copy of item and the current one when ids match.
func (m *Mirror[T]) Replace(item T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := item.RecordID()
	for i := range m.items {
		if m.items[i].RecordID() == id {
			m.items[i] = item
			break
		}
	}
	if m.current != nil && (*m.current).RecordID() == id {
		m.current = &item
	}
	m.cache.Set(key(id), item, cache.DefaultExpiration)
}

// Remove drops a record everywhere.
func (m *Mirror[T]) Remove(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.items[:0:0]
	for _, it := range m.items {
		if it.RecordID() != id {
			kept = append(kept, it)
		}
	}
	m.items = kept
	if m.current != nil && (*m.current).RecordID() == id {
		m.current = nil
	}
	m.cache.Delete(key(id))
}

// Begin marks a request in flight and clears the last error.
func (m *Mirror[T]) Begin() {
	m.mu.Lock()
	m.loading++
	m.lastErr = ""
	m.mu.Unlock()
}

// End closes a request started with Begin, recording msg when non-empty.
func (m *Mirror[T]) End(msg string) {
	m.mu.Lock()
	if m.loading > 0 {
		m.loading--
	}
	m.lastErr = msg
	m.mu.Unlock()
}

func (m *Mirror[T]) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Status{
		Loading: m.loading > 0,
		Error:   m.lastErr,
		Empty:   len(m.items) == 0,
		Count:   len(m.items),
	}
}
