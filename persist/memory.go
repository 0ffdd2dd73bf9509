package persist

import (
	"context"
	"sync"
)

// MemoryStore keeps sketches in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Item
	next  uint64
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Item)}
}

func (m *MemoryStore) Put(_ context.Context, item Item) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	item.Index = m.next
	m.items[item.ID] = item
	return item, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	return it, nil
}

func (m *MemoryStore) IncrementViews(_ context.Context, id string) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	it.Views++
	m.items[id] = it
	return it, nil
}

func (m *MemoryStore) List(_ context.Context, category Category, offset, limit int) ([]Item, int, error) {
	m.mu.RLock()
	all := make([]Item, 0, len(m.items))
	for _, it := range m.items {
		all = append(all, it)
	}
	m.mu.RUnlock()
	page, total := selectGallery(all, category, offset, limit)
	return page, total, nil
}

func (m *MemoryStore) SetFeatured(_ context.Context, id string, featured bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return ErrNotFound
	}
	it.Featured = featured
	m.items[id] = it
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
