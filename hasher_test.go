package lmt

import (
	"encoding/binary"
	"errors"
	"hash/fnv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fnvHasher is a small Hasher for tests inside the package, where the real
// hasher packages cannot be imported.
type fnvHasher struct {
	inputSize int
	calls     *atomic.Int64
}

func newFNVHasher(inputSize int) fnvHasher {
	return fnvHasher{inputSize: inputSize, calls: new(atomic.Int64)}
}

func (fnvHasher) Name() string     { return "fnv32a" }
func (h fnvHasher) InputSize() int { return h.inputSize }
func (fnvHasher) Size() int        { return 4 }

func (h fnvHasher) Hash(in, out []byte) error {
	n, err := ValidateBatch(h, in, out)
	if err != nil {
		return err
	}
	h.calls.Add(1)
	for i := 0; i < n; i++ {
		f := fnv.New32a()
		_, _ = f.Write(in[i*h.inputSize : (i+1)*h.inputSize])
		binary.BigEndian.PutUint32(out[i*4:], f.Sum32())
	}
	return nil
}

var errBoom = errors.New("boom")

type failingHasher struct{ fnvHasher }

func (failingHasher) Hash(_, _ []byte) error { return errBoom }

func TestValidateBatch(t *testing.T) {
	h := newFNVHasher(6)

	n, err := ValidateBatch(h, make([]byte, 18), make([]byte, 12))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = ValidateBatch(h, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = ValidateBatch(h, make([]byte, 17), make([]byte, 12))
	assert.ErrorIs(t, err, ErrInvalidBatch)

	_, err = ValidateBatch(h, make([]byte, 18), make([]byte, 16))
	assert.ErrorIs(t, err, ErrInvalidBatch)

	_, err = ValidateBatch(newFNVHasher(0), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidBatch)
}

func TestHashOne(t *testing.T) {
	h := newFNVHasher(3)

	d, err := HashOne(h, []byte("abc"))
	require.NoError(t, err)
	f := fnv.New32a()
	_, _ = f.Write([]byte("abc"))
	assert.Equal(t, f.Sum(nil), d)

	_, err = HashOne(h, []byte("abcd"))
	assert.ErrorIs(t, err, ErrInvalidBatch)

	assert.Panics(t, func() { MustHashOne(h, []byte("ab")) })
}

func TestParallelHasher(t *testing.T) {
	const n = 4096
	h := newFNVHasher(8)
	in := make([]byte, n*8)
	for i := range in {
		in[i] = byte(i * 31)
	}

	want := make([]byte, n*4)
	require.NoError(t, h.Hash(in, want))

	for _, workers := range []int{0, 1, 2, 3, 7, 16, 64} {
		got := make([]byte, n*4)
		require.NoError(t, NewParallelHasher(h, workers).Hash(in, got), "workers: %d", workers)
		assert.Equal(t, want, got, "workers: %d", workers)
	}
}

func TestParallelHasher_smallBatchIsSerial(t *testing.T) {
	h := newFNVHasher(8)
	p := NewParallelHasher(h, 8)

	out := make([]byte, (minRecordsPerWorker+1)*4)
	require.NoError(t, p.Hash(make([]byte, (minRecordsPerWorker+1)*8), out))
	assert.Equal(t, int64(1), h.calls.Load())
}

func TestParallelHasher_wrapping(t *testing.T) {
	h := newFNVHasher(8)
	p := NewParallelHasher(NewParallelHasher(h, 2), 4)

	assert.Equal(t, h, p.Unwrap())
	assert.Equal(t, h.Name(), p.Name())
	assert.Equal(t, h.InputSize(), p.InputSize())
	assert.Equal(t, h.Size(), p.Size())
}

func TestParallelHasher_errors(t *testing.T) {
	p := NewParallelHasher(failingHasher{newFNVHasher(8)}, 4)

	err := p.Hash(make([]byte, 4096*8), make([]byte, 4096*4))
	assert.ErrorIs(t, err, errBoom)

	err = p.Hash(make([]byte, 7), make([]byte, 4))
	assert.ErrorIs(t, err, ErrInvalidBatch)
}
