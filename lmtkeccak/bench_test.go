package lmtkeccak_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/celestiaorg/lmt"
	"github.com/celestiaorg/lmt/lmtkeccak"
)

// BenchmarkHash hashes many copies of the same record in one batch, with and
// without a worker pool.
func BenchmarkHash(b *testing.B) {
	const records = 1 << 14
	for _, size := range []int{32, 64, 136} {
		h := lmtkeccak.New(size)
		in := bytes.Repeat(bytes.Repeat([]byte{0x5A}, size), records)
		out := make([]byte, records*lmtkeccak.HashSize)

		b.Run(fmt.Sprintf("serial/%d", size), func(b *testing.B) {
			b.SetBytes(int64(len(in)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := h.Hash(in, out); err != nil {
					b.Fatal(err)
				}
			}
		})

		p := lmt.NewParallelHasher(h, 0)
		b.Run(fmt.Sprintf("parallel/%d", size), func(b *testing.B) {
			b.SetBytes(int64(len(in)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := p.Hash(in, out); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
