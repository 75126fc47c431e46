// Package lmttest contains test helpers shared by lmt.Hasher implementations.
package lmttest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/lmt"
)

// HasherFactory returns a fresh Hasher under test.
type HasherFactory func() lmt.Hasher

// TestHasherCompliance checks the batching contract every lmt.Hasher must
// honour.
func TestHasherCompliance(t *testing.T, f HasherFactory) {
	t.Run("sizes are positive", func(t *testing.T) {
		t.Parallel()

		h := f()
		require.Positive(t, h.InputSize())
		require.Positive(t, h.Size())
		require.NotEmpty(t, h.Name())
	})

	t.Run("hash is deterministic", func(t *testing.T) {
		t.Parallel()

		h := f()
		in := records(h.InputSize(), 3)

		out01 := make([]byte, 3*h.Size())
		require.NoError(t, h.Hash(in, out01))

		out02 := make([]byte, 3*h.Size())
		require.NoError(t, h.Hash(in, out02))

		require.Equal(t, out01, out02)
	})

	t.Run("batch matches single records", func(t *testing.T) {
		t.Parallel()

		h := f()
		const n = 17
		in := records(h.InputSize(), n)

		batch := make([]byte, n*h.Size())
		require.NoError(t, h.Hash(in, batch))

		for i := 0; i < n; i++ {
			one, err := lmt.HashOne(h, in[i*h.InputSize():(i+1)*h.InputSize()])
			require.NoError(t, err)
			require.Equal(t, one, batch[i*h.Size():(i+1)*h.Size()], "record %d", i)
		}
	})

	t.Run("parallel hasher matches batch", func(t *testing.T) {
		t.Parallel()

		h := f()
		const n = 2048
		in := records(h.InputSize(), n)

		want := make([]byte, n*h.Size())
		require.NoError(t, h.Hash(in, want))

		got := make([]byte, n*h.Size())
		require.NoError(t, lmt.NewParallelHasher(h, 4).Hash(in, got))

		require.Equal(t, want, got)
	})

	t.Run("distinct records give distinct digests", func(t *testing.T) {
		t.Parallel()

		h := f()
		in := records(h.InputSize(), 2)

		out := make([]byte, 2*h.Size())
		require.NoError(t, h.Hash(in, out))
		require.False(t, bytes.Equal(out[:h.Size()], out[h.Size():]))
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		t.Parallel()

		h := f()
		require.NoError(t, h.Hash(nil, nil))
	})

	t.Run("misaligned input is rejected", func(t *testing.T) {
		t.Parallel()

		h := f()
		in := records(h.InputSize(), 2)
		in = append(in, 0xFF)
		out := make([]byte, 2*h.Size())
		require.ErrorIs(t, h.Hash(in, out), lmt.ErrInvalidBatch)
	})

	t.Run("short output is rejected", func(t *testing.T) {
		t.Parallel()

		h := f()
		in := records(h.InputSize(), 2)
		out := make([]byte, 2*h.Size()-1)
		require.ErrorIs(t, h.Hash(in, out), lmt.ErrInvalidBatch)
	})
}

// records returns n distinct records of size bytes each.
func records(size, n int) []byte {
	out := make([]byte, size*n)
	for i := range out {
		out[i] = byte(i * 7)
	}
	for r := 0; r < n; r++ {
		out[r*size] = byte(r)
	}
	return out
}
