package storage

import "sync"

// LayerStorer keeps the digests of retained tree levels. A level is stored
// as one contiguous slice of equally sized digests.
type LayerStorer interface {
	Put(level int, digests []byte)
	// Get returns the digests of the level and whether the level is stored.
	// Callers must not modify the returned slice.
	Get(level int) ([]byte, bool)
	Delete(level int)
}

var _ LayerStorer = &InMemoryLayerStore{}

// InMemoryLayerStore is a LayerStorer backed by a map.
// It is safe for concurrent use.
type InMemoryLayerStore struct {
	mu     sync.RWMutex
	layers map[int][]byte
	// bytes is the total size of all stored digests.
	bytes int
}

func NewInMemoryLayerStore() *InMemoryLayerStore {
	return &InMemoryLayerStore{
		layers: make(map[int][]byte),
	}
}

func (i *InMemoryLayerStore) Put(level int, digests []byte) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if prev, present := i.layers[level]; present {
		i.bytes -= len(prev)
	}
	i.layers[level] = digests
	i.bytes += len(digests)
}

func (i *InMemoryLayerStore) Get(level int) ([]byte, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	d, ok := i.layers[level]
	return d, ok
}

func (i *InMemoryLayerStore) Delete(level int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if prev, present := i.layers[level]; present {
		i.bytes -= len(prev)
		delete(i.layers, level)
	}
}

// Count returns the number of stored levels.
func (i *InMemoryLayerStore) Count() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.layers)
}

// Bytes returns the total size of all stored digests.
func (i *InMemoryLayerStore) Bytes() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.bytes
}
