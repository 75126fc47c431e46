package lmt

import (
	"encoding/binary"
	"fmt"

	sha256 "github.com/minio/sha256-simd"
)

// ScheduleIDSize is the size of a schedule fingerprint.
const ScheduleIDSize = sha256.Size

// OddPolicy decides what a lone trailing node at a level is paired with.
type OddPolicy uint8

const (
	// ZeroOdd pairs a lone node with an all-zero digest of the level's size.
	ZeroOdd OddPolicy = iota
	// DuplicateOdd pairs a lone node with a copy of itself. The root then
	// does not pin down the leaf count: a proof for the last leaf of an odd
	// level verifies just as well as a proof for a duplicate leaf after it.
	DuplicateOdd
)

func (p OddPolicy) String() string {
	switch p {
	case ZeroOdd:
		return "zero"
	case DuplicateOdd:
		return "duplicate"
	default:
		return fmt.Sprintf("OddPolicy(%d)", uint8(p))
	}
}

// Schedule assigns a Hasher to every level of a tree: layer 0 hashes leaf
// chunks, layer L >= 1 compresses pairs of level L-1 digests.
// A Schedule is immutable and safe for concurrent use.
type Schedule struct {
	layers    []Hasher
	oddPolicy OddPolicy
	id        []byte
}

type scheduleOptions struct {
	oddPolicy OddPolicy
}

type ScheduleOption func(*scheduleOptions)

// WithOddPolicy sets how lone trailing nodes are paired (default ZeroOdd).
func WithOddPolicy(p OddPolicy) ScheduleOption {
	return func(opts *scheduleOptions) {
		opts.oddPolicy = p
	}
}

// NewSchedule returns a schedule for a tree of height len(layers)-1.
// Every compression layer must consume exactly two digests of the level below.
func NewSchedule(layers []Hasher, setters ...ScheduleOption) (*Schedule, error) {
	opts := scheduleOptions{oddPolicy: ZeroOdd}
	for _, setter := range setters {
		setter(&opts)
	}
	if opts.oddPolicy != ZeroOdd && opts.oddPolicy != DuplicateOdd {
		return nil, fmt.Errorf("%w: unknown odd policy %v", ErrConfig, opts.oddPolicy)
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: schedule needs at least a leaf layer", ErrConfig)
	}
	for i, h := range layers {
		if h == nil {
			return nil, fmt.Errorf("%w: layer %d has no hasher", ErrConfig, i)
		}
		if h.InputSize() <= 0 || h.Size() <= 0 {
			return nil, fmt.Errorf("%w: layer %d (%s) has non-positive sizes", ErrConfig, i, h.Name())
		}
		if i == 0 {
			continue
		}
		if got, want := h.InputSize(), 2*layers[i-1].Size(); got != want {
			return nil, fmt.Errorf("%w: layer %d (%s) input size: got: %v, want: %v", ErrConfig, i, h.Name(), got, want)
		}
	}

	s := &Schedule{
		layers:    append([]Hasher(nil), layers...),
		oddPolicy: opts.oddPolicy,
	}
	s.id = s.fingerprint()
	return s, nil
}

// UniformSchedule uses leaf for level 0 and node for all height levels above.
func UniformSchedule(leaf, node Hasher, height int, setters ...ScheduleOption) (*Schedule, error) {
	if height < 0 {
		return nil, fmt.Errorf("%w: negative height %d", ErrConfig, height)
	}
	layers := make([]Hasher, 0, height+1)
	layers = append(layers, leaf)
	for i := 0; i < height; i++ {
		layers = append(layers, node)
	}
	return NewSchedule(layers, setters...)
}

// fingerprint hashes every layer's name and sizes together with the odd policy.
func (s *Schedule) fingerprint() []byte {
	h := sha256.New()
	var scratch [binary.MaxVarintLen64]byte
	for _, l := range s.layers {
		name := l.Name()
		n := binary.PutUvarint(scratch[:], uint64(len(name)))
		_, _ = h.Write(scratch[:n])
		_, _ = h.Write([]byte(name))
		n = binary.PutUvarint(scratch[:], uint64(l.InputSize()))
		_, _ = h.Write(scratch[:n])
		n = binary.PutUvarint(scratch[:], uint64(l.Size()))
		_, _ = h.Write(scratch[:n])
	}
	_, _ = h.Write([]byte{byte(s.oddPolicy)})
	return h.Sum(nil)
}

// Len returns the number of layers, i.e. Height()+1.
func (s *Schedule) Len() int {
	return len(s.layers)
}

// Height returns the height of trees built with this schedule.
func (s *Schedule) Height() int {
	return len(s.layers) - 1
}

// Layer returns the hasher of the given level.
func (s *Schedule) Layer(level int) Hasher {
	return s.layers[level]
}

// LeafSize returns the leaf chunk size, the input size of layer 0.
func (s *Schedule) LeafSize() int {
	return s.layers[0].InputSize()
}

// DigestSize returns the digest size at the given level.
func (s *Schedule) DigestSize(level int) int {
	return s.layers[level].Size()
}

func (s *Schedule) OddPolicy() OddPolicy {
	return s.oddPolicy
}

// ID returns the schedule fingerprint. Trees and proofs carry it so a
// verifier can detect a schedule that differs from the one used to build.
func (s *Schedule) ID() []byte {
	return append([]byte(nil), s.id...)
}

// WithParallelism returns a copy of s whose layers are wrapped in
// ParallelHashers. The fingerprint is unchanged since digests are identical.
func (s *Schedule) WithParallelism(workers int) *Schedule {
	if workers <= 1 {
		return s
	}
	layers := make([]Hasher, len(s.layers))
	for i, l := range s.layers {
		layers[i] = NewParallelHasher(l, workers)
	}
	return &Schedule{layers: layers, oddPolicy: s.oddPolicy, id: s.id}
}
