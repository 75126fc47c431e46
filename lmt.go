package lmt

import (
	"fmt"
	"io"
	"log/slog"
	"math/bits"

	"github.com/bits-and-blooms/bitset"

	"github.com/celestiaorg/lmt/storage"
)

// PaddingPolicy decides how a short final leaf chunk is handled.
type PaddingPolicy uint8

const (
	// ZeroPadding zero-fills the final chunk up to the leaf size.
	ZeroPadding PaddingPolicy = iota
	// NoPadding rejects inputs whose length is not a multiple of the leaf size.
	NoPadding
)

func (p PaddingPolicy) String() string {
	switch p {
	case ZeroPadding:
		return "zero"
	case NoPadding:
		return "none"
	default:
		return fmt.Sprintf("PaddingPolicy(%d)", uint8(p))
	}
}

type Options struct {
	Padding PaddingPolicy
	// MinStoredLayer is the lowest level kept after the root is computed.
	// Proofs need every level below the root, so anything above 0 trades
	// the ability to prove for memory.
	MinStoredLayer int
	// Parallelism is the number of workers each level's batch is split
	// across. Values <= 1 hash sequentially.
	Parallelism int
	LayerStore  storage.LayerStorer
	Logger      *slog.Logger
}

type Option func(*Options)

// WithPadding sets the padding policy for the final leaf (default ZeroPadding).
func WithPadding(p PaddingPolicy) Option {
	return func(opts *Options) {
		opts.Padding = p
	}
}

// MinStoredLayer sets the lowest level retained in the built tree (default 0).
func MinStoredLayer(level int) Option {
	return func(opts *Options) {
		opts.MinStoredLayer = level
	}
}

// Parallelism sets how many workers hash each level (default 1).
func Parallelism(workers int) Option {
	return func(opts *Options) {
		opts.Parallelism = workers
	}
}

// WithLayerStore sets where retained levels are kept
// (default an in-memory store owned by the tree).
func WithLayerStore(store storage.LayerStorer) Option {
	return func(opts *Options) {
		opts.LayerStore = store
	}
}

// WithLogger sets the logger used for build diagnostics (default discards).
func WithLogger(log *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = log
	}
}

// Tree is a built layered Merkle tree. It is safe for concurrent proof
// generation; DiscardBelow must not run concurrently with other methods.
type Tree struct {
	schedule *Schedule

	// input is referenced, not copied; callers must not modify it while
	// the tree is in use.
	input     []byte
	numLeaves int
	height    int
	padding   PaddingPolicy

	minStoredLayer int
	store          storage.LayerStorer
	// retained has bit L set if level L is in store.
	retained *bitset.BitSet

	root []byte
	log  *slog.Logger
}

// Height returns ceil(log2(numLeaves)), the number of levels above the leaves.
func Height(numLeaves int) int {
	if numLeaves <= 1 {
		return 0
	}
	return bits.Len(uint(numLeaves - 1))
}

// levelWidth returns the number of digests at the given level.
func levelWidth(numLeaves, level int) int {
	w := numLeaves
	for i := 0; i < level; i++ {
		w = (w + 1) / 2
	}
	return w
}

// Build hashes input into a tree using schedule. The leaf size is the input
// size of the schedule's layer 0, and the schedule must have exactly
// Height(numLeaves)+1 layers.
func Build(input []byte, schedule *Schedule, setters ...Option) (*Tree, error) {
	opts := &Options{
		Padding:     ZeroPadding,
		Parallelism: 1,
	}
	for _, setter := range setters {
		setter(opts)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.LayerStore == nil {
		opts.LayerStore = storage.NewInMemoryLayerStore()
	}

	if schedule == nil {
		return nil, fmt.Errorf("%w: nil schedule", ErrConfig)
	}
	if len(input) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrConfig)
	}
	leafSize := schedule.LeafSize()
	switch opts.Padding {
	case ZeroPadding:
	case NoPadding:
		if len(input)%leafSize != 0 {
			return nil, fmt.Errorf("%w: input length %d is not a multiple of leaf size %d", ErrConfig, len(input), leafSize)
		}
	default:
		return nil, fmt.Errorf("%w: unknown padding policy %v", ErrConfig, opts.Padding)
	}

	numLeaves := (len(input) + leafSize - 1) / leafSize
	height := Height(numLeaves)
	if got, want := schedule.Len(), height+1; got != want {
		return nil, fmt.Errorf("%w: schedule length for %d leaves: got: %v, want: %v", ErrConfig, numLeaves, got, want)
	}
	if opts.MinStoredLayer < 0 || opts.MinStoredLayer > height {
		return nil, fmt.Errorf("%w: min stored layer %d outside [0, %d]", ErrConfig, opts.MinStoredLayer, height)
	}

	t := &Tree{
		schedule:       schedule,
		input:          input,
		numLeaves:      numLeaves,
		height:         height,
		padding:        opts.Padding,
		minStoredLayer: opts.MinStoredLayer,
		store:          opts.LayerStore,
		retained:       bitset.New(uint(height + 1)),
		log:            opts.Logger.With("leaves", numLeaves, "height", height),
	}
	if err := t.build(schedule.WithParallelism(opts.Parallelism)); err != nil {
		return nil, err
	}
	return t, nil
}

// build computes the levels strictly in order; only pairs within one level
// are hashed together in a batch.
func (t *Tree) build(s *Schedule) error {
	level, err := hashLeaves(s.Layer(0), t.input, t.numLeaves)
	if err != nil {
		return fmt.Errorf("failed to hash leaves: %w", err)
	}
	t.keep(0, level)

	for l := 1; l <= t.height; l++ {
		level, err = compressLevel(s.Layer(l), level, s.DigestSize(l-1), s.OddPolicy())
		if err != nil {
			return fmt.Errorf("failed to compute level %d: %w", l, err)
		}
		t.keep(l, level)
	}

	t.root = level
	t.log.Debug(
		"Built tree",
		"root", fmt.Sprintf("%x", t.root),
		"retained_levels", t.retained.Count(),
	)
	return nil
}

func (t *Tree) keep(level int, digests []byte) {
	// The root is always kept, whatever the min stored layer.
	if level < t.minStoredLayer && level != t.height {
		t.log.Debug("Discarded level", "level", level, "width", levelWidth(t.numLeaves, level))
		return
	}
	t.store.Put(level, digests)
	t.retained.Set(uint(level))
	t.log.Debug("Stored level", "level", level, "width", levelWidth(t.numLeaves, level))
}

// DiscardBelow releases every retained level below level from the layer
// store and raises the tree's min stored layer to match. The root is never
// released. Levels already discarded are skipped.
func (t *Tree) DiscardBelow(level int) error {
	if level < 0 || level > t.height {
		return fmt.Errorf("%w: min stored layer %d outside [0, %d]", ErrConfig, level, t.height)
	}
	for l := 0; l < level && l < t.height; l++ {
		if !t.retained.Test(uint(l)) {
			continue
		}
		t.store.Delete(l)
		t.retained.Clear(uint(l))
		t.log.Debug("Discarded level", "level", l, "width", levelWidth(t.numLeaves, l))
	}
	if level > t.minStoredLayer {
		t.minStoredLayer = level
	}
	return nil
}

// Root returns the tree's root digest.
func (t *Tree) Root() []byte {
	return append([]byte(nil), t.root...)
}

func (t *Tree) Height() int {
	return t.height
}

func (t *Tree) NumLeaves() int {
	return t.numLeaves
}

func (t *Tree) LeafSize() int {
	return t.schedule.LeafSize()
}

func (t *Tree) Padding() PaddingPolicy {
	return t.padding
}

func (t *Tree) MinStoredLayer() int {
	return t.minStoredLayer
}

// Schedule returns the schedule the tree was built with.
func (t *Tree) Schedule() *Schedule {
	return t.schedule
}

// Retains reports whether the given level is still stored.
func (t *Tree) Retains(level int) bool {
	return level >= 0 && level <= t.height && t.retained.Test(uint(level))
}

// CanProve reports whether every level a proof may need is retained.
func (t *Tree) CanProve() bool {
	for l := 0; l < t.height; l++ {
		if !t.Retains(l) {
			return false
		}
	}
	return true
}

// Layer returns the digests of a retained level, concatenated.
// The returned slice must not be modified.
func (t *Tree) Layer(level int) ([]byte, error) {
	if level < 0 || level > t.height {
		return nil, fmt.Errorf("%w: level %d outside [0, %d]", ErrConfig, level, t.height)
	}
	if !t.retained.Test(uint(level)) {
		return nil, fmt.Errorf("%w: level %d (min stored layer %d)", ErrLayerNotRetained, level, t.minStoredLayer)
	}
	digests, ok := t.store.Get(level)
	if !ok {
		return nil, fmt.Errorf("%w: level %d missing from layer store", ErrLayerNotRetained, level)
	}
	return digests, nil
}

// Leaf returns a copy of the leaf chunk at index, padded to the leaf size.
func (t *Tree) Leaf(index int) ([]byte, error) {
	if index < 0 || index >= t.numLeaves {
		return nil, fmt.Errorf("%w: got: %v, want: [0, %v)", ErrIndexOutOfRange, index, t.numLeaves)
	}
	leafSize := t.LeafSize()
	start := index * leafSize
	end := start + leafSize
	if end > len(t.input) {
		end = len(t.input)
	}
	chunk := make([]byte, leafSize)
	copy(chunk, t.input[start:end])
	return chunk, nil
}

// Verify checks proof against the tree's own schedule.
func (t *Tree) Verify(proof Proof) (bool, error) {
	return Verify(proof, t.schedule)
}
