package storage

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryLayerStore(t *testing.T) {
	s := NewInMemoryLayerStore()

	_, ok := s.Get(0)
	require.False(t, ok)

	s.Put(0, make([]byte, 64))
	s.Put(1, make([]byte, 32))
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, 96, s.Bytes())

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Len(t, got, 32)

	// Overwriting replaces the accounted size.
	s.Put(1, make([]byte, 16))
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, 80, s.Bytes())

	s.Delete(0)
	_, ok = s.Get(0)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, 16, s.Bytes())

	// Deleting a missing level is a no-op.
	s.Delete(7)
	assert.Equal(t, 1, s.Count())
}

func TestInMemoryLayerStore_concurrent(t *testing.T) {
	s := NewInMemoryLayerStore()

	var wg sync.WaitGroup
	for level := 0; level < 32; level++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Put(level, make([]byte, level))
			_, ok := s.Get(level)
			assert.True(t, ok)
		}()
	}
	wg.Wait()

	assert.Equal(t, 32, s.Count())
	assert.Equal(t, 31*32/2, s.Bytes())
}
