// Package lmtblake2s provides an unkeyed BLAKE2s-256 hashing capability.
package lmtblake2s

import (
	"fmt"

	"golang.org/x/crypto/blake2s"

	"github.com/celestiaorg/lmt"
)

const HashSize = blake2s.Size

var _ lmt.Hasher = Hasher{}

// Hasher hashes records of InputSize bytes to 32-byte BLAKE2s digests.
type Hasher struct {
	inputSize int
}

func New(inputSize int) Hasher {
	return Hasher{inputSize: inputSize}
}

// NewCompressor returns a Hasher over two concatenated digests of
// childSize bytes each.
func NewCompressor(childSize int) Hasher {
	return New(2 * childSize)
}

func (Hasher) Name() string { return "blake2s256" }

func (h Hasher) InputSize() int { return h.inputSize }

func (Hasher) Size() int { return HashSize }

func (h Hasher) Hash(in, out []byte) error {
	n, err := lmt.ValidateBatch(h, in, out)
	if err != nil {
		return err
	}
	d, err := blake2s.New256(nil)
	if err != nil {
		return fmt.Errorf("failed to create blake2s hash: %w", err)
	}
	for i := 0; i < n; i++ {
		d.Reset()
		_, _ = d.Write(in[i*h.inputSize : (i+1)*h.inputSize])
		d.Sum(out[i*HashSize : i*HashSize])
	}
	return nil
}
