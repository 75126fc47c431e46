package lmt

import (
	"errors"
	"fmt"
)

var ErrInvalidBatch = errors.New("invalid hash batch")

// Hasher is a hashing capability assigned to one level of the tree.
//
// Hash is batched: in is split into len(in)/InputSize() records and the
// digest of record i is written to out[i*Size():(i+1)*Size()]. Batching must
// be observably equivalent to hashing every record on its own.
//
// Hasher implementations must be safe to call concurrently.
type Hasher interface {
	// Name identifies the algorithm, e.g. "keccak256".
	// It is part of the schedule fingerprint, so it has to be stable.
	Name() string
	// InputSize returns the size in bytes of one input record.
	InputSize() int
	// Size returns the size in bytes of one output digest.
	Size() int
	// Hash writes the digest of every record in in to out.
	Hash(in, out []byte) error
}

// ValidateBatch checks that in and out are aligned to the record sizes of h
// and returns the number of records. Hasher implementations call it first
// thing in Hash.
func ValidateBatch(h Hasher, in, out []byte) (int, error) {
	inSize, outSize := h.InputSize(), h.Size()
	if inSize <= 0 || outSize <= 0 {
		return 0, fmt.Errorf("%w: %s has non-positive record size (in: %d, out: %d)", ErrInvalidBatch, h.Name(), inSize, outSize)
	}
	if len(in)%inSize != 0 {
		return 0, fmt.Errorf("%w: input length %d is not a multiple of %d", ErrInvalidBatch, len(in), inSize)
	}
	n := len(in) / inSize
	if len(out) != n*outSize {
		return 0, fmt.Errorf("%w: got output length: %v, want: %v", ErrInvalidBatch, len(out), n*outSize)
	}
	return n, nil
}

// HashOne hashes a single record with h and returns a fresh digest.
func HashOne(h Hasher, in []byte) ([]byte, error) {
	out := make([]byte, h.Size())
	if err := h.Hash(in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// MustHashOne is a wrapper around HashOne that panics if an error is
// encountered.
func MustHashOne(h Hasher, in []byte) []byte {
	res, err := HashOne(h, in)
	if err != nil {
		panic(err)
	}
	return res
}
