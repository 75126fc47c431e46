// Package lmtsha256 provides SHA-256 hashing capabilities.
//
// The compressor hashes 64-byte records (two SHA-256 digests) and hands
// whole batches to gohashtree, which hashes several chunks per call with
// vector instructions where the CPU has them.
package lmtsha256

import (
	sha256 "github.com/minio/sha256-simd"
	"github.com/prysmaticlabs/gohashtree"

	"github.com/celestiaorg/lmt"
)

const (
	HashSize  = sha256.Size
	chunkSize = 32
)

var (
	_ lmt.Hasher = Hasher{}
	_ lmt.Hasher = Compressor{}
)

// Hasher hashes records of InputSize bytes one at a time.
type Hasher struct {
	inputSize int
}

func New(inputSize int) Hasher {
	return Hasher{inputSize: inputSize}
}

func (Hasher) Name() string { return "sha256" }

func (h Hasher) InputSize() int { return h.inputSize }

func (Hasher) Size() int { return HashSize }

func (h Hasher) Hash(in, out []byte) error {
	n, err := lmt.ValidateBatch(h, in, out)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		sum := sha256.Sum256(in[i*h.inputSize : (i+1)*h.inputSize])
		copy(out[i*HashSize:], sum[:])
	}
	return nil
}

// Compressor hashes pairs of SHA-256 digests. Its output equals
// Hasher{64} record for record.
type Compressor struct{}

func NewCompressor() Compressor {
	return Compressor{}
}

func (Compressor) Name() string { return "sha256" }

func (Compressor) InputSize() int { return 2 * HashSize }

func (Compressor) Size() int { return HashSize }

func (c Compressor) Hash(in, out []byte) error {
	n, err := lmt.ValidateBatch(c, in, out)
	if err != nil || n == 0 {
		return err
	}

	chunks := make([][32]byte, 2*n)
	for i := range chunks {
		copy(chunks[i][:], in[i*chunkSize:(i+1)*chunkSize])
	}
	digests := make([][32]byte, n)
	if err := gohashtree.Hash(digests, chunks); err != nil {
		return err
	}
	for i := range digests {
		copy(out[i*HashSize:], digests[i][:])
	}
	return nil
}
