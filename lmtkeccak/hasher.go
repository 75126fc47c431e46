// Package lmtkeccak provides a Keccak-256 hashing capability, the legacy
// (pre-NIST padding) variant used by Ethereum.
package lmtkeccak

import (
	"golang.org/x/crypto/sha3"

	"github.com/celestiaorg/lmt"
)

const HashSize = 32

var _ lmt.Hasher = Hasher{}

// Hasher hashes records of InputSize bytes to 32-byte Keccak-256 digests.
type Hasher struct {
	inputSize int
}

// New returns a Hasher for records of inputSize bytes.
func New(inputSize int) Hasher {
	return Hasher{inputSize: inputSize}
}

// NewCompressor returns a Hasher that compresses two Keccak-256 digests.
func NewCompressor() Hasher {
	return New(2 * HashSize)
}

func (Hasher) Name() string { return "keccak256" }

func (h Hasher) InputSize() int { return h.inputSize }

func (Hasher) Size() int { return HashSize }

func (h Hasher) Hash(in, out []byte) error {
	n, err := lmt.ValidateBatch(h, in, out)
	if err != nil {
		return err
	}
	d := sha3.NewLegacyKeccak256()
	for i := 0; i < n; i++ {
		d.Reset()
		_, _ = d.Write(in[i*h.inputSize : (i+1)*h.inputSize])
		d.Sum(out[i*HashSize : i*HashSize])
	}
	return nil
}
