package lmt

import (
	"bytes"
	"crypto/subtle"
	"fmt"
)

// Proof is an inclusion proof for one leaf. It carries everything a
// verifier needs; it keeps no reference to the tree it came from.
type Proof struct {
	// leaf is the padded leaf chunk, exactly what the verifier re-hashes.
	leaf []byte
	// index of the opened leaf.
	index int
	// numLeaves of the tree; fixes the height and which levels have a
	// lone node, so pruned entries can be reconstructed.
	numLeaves int
	root      []byte
	pruned    bool
	// path holds the transmitted sibling digests from the leaf level up.
	// Pruned proofs omit the siblings of lone nodes.
	path       [][]byte
	scheduleID []byte
}

// Leaf returns a copy of the opened leaf chunk and its index.
func (proof Proof) Leaf() ([]byte, int) {
	return cloneBytes(proof.leaf), proof.index
}

// Index returns the claimed leaf index. Under ZeroOdd a verified proof
// places the leaf at its real index. Under DuplicateOdd the index is not
// authenticated: the last leaf of an odd level also verifies at the index
// after it, given a matching NumLeaves.
func (proof Proof) Index() int {
	return proof.index
}

// NumLeaves returns the claimed leaf count of the tree. The root does not
// commit to it: under ZeroOdd a wrong count can only place an existing leaf
// at its own index, under DuplicateOdd it can also open a leaf past the end.
func (proof Proof) NumLeaves() int {
	return proof.numLeaves
}

// Root returns the root the proof was generated against.
func (proof Proof) Root() []byte {
	return cloneBytes(proof.root)
}

// IsPruned returns true if siblings the verifier can recompute were omitted.
func (proof Proof) IsPruned() bool {
	return proof.pruned
}

// Path returns the transmitted sibling digests, leaf level first.
func (proof Proof) Path() [][]byte {
	return clonePath(proof.path)
}

// ScheduleID returns the fingerprint of the schedule the tree was built with.
func (proof Proof) ScheduleID() []byte {
	return cloneBytes(proof.scheduleID)
}

// Height returns the number of levels verification walks through.
// It can be larger than len(Path()) for pruned proofs.
func (proof Proof) Height() int {
	return Height(proof.numLeaves)
}

// Equal reports whether both proofs carry identical fields.
func (proof Proof) Equal(other Proof) bool {
	if proof.index != other.index || proof.numLeaves != other.numLeaves || proof.pruned != other.pruned {
		return false
	}
	if !bytes.Equal(proof.leaf, other.leaf) || !bytes.Equal(proof.root, other.root) || !bytes.Equal(proof.scheduleID, other.scheduleID) {
		return false
	}
	if len(proof.path) != len(other.path) {
		return false
	}
	for i := range proof.path {
		if !bytes.Equal(proof.path[i], other.path[i]) {
			return false
		}
	}
	return true
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

func clonePath(path [][]byte) [][]byte {
	out := make([][]byte, len(path))
	for i, p := range path {
		out[i] = cloneBytes(p)
	}
	return out
}

// expectedPathLen returns how many siblings a proof for index transmits.
func expectedPathLen(index, numLeaves int, pruned bool) int {
	height := Height(numLeaves)
	if !pruned {
		return height
	}
	n := 0
	for l, width := 0, numLeaves; l < height; l++ {
		if !isLone(index, width) {
			n++
		}
		index /= 2
		width = (width + 1) / 2
	}
	return n
}

// Prove returns an inclusion proof for the leaf at index. A pruned proof
// omits the sibling of every lone node on the path, since the verifier
// derives it from the odd policy.
func (t *Tree) Prove(index int, pruned bool) (Proof, error) {
	leaf, err := t.Leaf(index)
	if err != nil {
		return Proof{}, err
	}

	policy := t.schedule.OddPolicy()
	path := make([][]byte, 0, expectedPathLen(index, t.numLeaves, pruned))
	idx, width := index, t.numLeaves
	for l := 0; l < t.height; l++ {
		lone := isLone(idx, width)
		switch {
		case lone && pruned:
		case lone && policy == ZeroOdd:
			path = append(path, make([]byte, t.schedule.DigestSize(l)))
		default:
			digests, err := t.Layer(l)
			if err != nil {
				return Proof{}, fmt.Errorf("failed to prove leaf %d: %w", index, err)
			}
			size := t.schedule.DigestSize(l)
			sib := idx ^ 1
			if lone {
				sib = idx
			}
			path = append(path, append([]byte(nil), digests[sib*size:(sib+1)*size]...))
		}
		idx /= 2
		width = (width + 1) / 2
	}

	return Proof{
		leaf:       leaf,
		index:      index,
		numLeaves:  t.numLeaves,
		root:       t.Root(),
		pruned:     pruned,
		path:       path,
		scheduleID: t.schedule.ID(),
	}, nil
}

// ProveMany returns one proof per index, in the same order.
func (t *Tree) ProveMany(indices []int, pruned bool) ([]Proof, error) {
	proofs := make([]Proof, len(indices))
	for i, index := range indices {
		p, err := t.Prove(index, pruned)
		if err != nil {
			return nil, err
		}
		proofs[i] = p
	}
	return proofs, nil
}

// Verify recomputes the root from the proof's leaf and path using schedule
// and compares it with the proof's root.
//
// It returns false for a well-formed proof that does not hash to its root,
// and an error wrapping ErrSchemaMismatch for a proof whose shape does not
// fit the schedule. Hasher failures are returned as is.
func Verify(proof Proof, schedule *Schedule) (bool, error) {
	if err := validateShape(proof, schedule); err != nil {
		return false, err
	}

	cur, err := HashOne(schedule.Layer(0), proof.leaf)
	if err != nil {
		return false, fmt.Errorf("failed to hash leaf %d: %w", proof.index, err)
	}

	policy := schedule.OddPolicy()
	path := proof.path
	idx, width := proof.index, proof.numLeaves
	pair := make([]byte, 0, 2*len(cur))
	for l := 0; l < schedule.Height(); l++ {
		var sib []byte
		if proof.pruned && isLone(idx, width) {
			sib = oddSibling(policy, cur)
		} else {
			sib, path = path[0], path[1:]
		}

		pair = pair[:0]
		if idx%2 == 0 {
			pair = append(append(pair, cur...), sib...)
		} else {
			pair = append(append(pair, sib...), cur...)
		}
		if cur, err = HashOne(schedule.Layer(l+1), pair); err != nil {
			return false, fmt.Errorf("failed to compress level %d: %w", l+1, err)
		}
		idx /= 2
		width = (width + 1) / 2
	}

	return subtle.ConstantTimeCompare(cur, proof.root) == 1, nil
}

// validateShape checks every size and count of proof against schedule
// before any hashing happens.
func validateShape(proof Proof, schedule *Schedule) error {
	if schedule == nil {
		return fmt.Errorf("%w: nil schedule", ErrSchemaMismatch)
	}
	if !bytes.Equal(proof.scheduleID, schedule.id) {
		return fmt.Errorf("%w: schedule id: got: %x, want: %x", ErrSchemaMismatch, proof.scheduleID, schedule.id)
	}
	if proof.numLeaves <= 0 {
		return fmt.Errorf("%w: proof for a tree of %d leaves", ErrSchemaMismatch, proof.numLeaves)
	}
	if proof.index < 0 || proof.index >= proof.numLeaves {
		return fmt.Errorf("%w: leaf index %d outside [0, %d)", ErrSchemaMismatch, proof.index, proof.numLeaves)
	}
	height := Height(proof.numLeaves)
	if got, want := schedule.Len(), height+1; got != want {
		return fmt.Errorf("%w: schedule length: got: %v, want: %v", ErrSchemaMismatch, got, want)
	}
	if got, want := len(proof.leaf), schedule.LeafSize(); got != want {
		return fmt.Errorf("%w: leaf size: got: %v, want: %v", ErrSchemaMismatch, got, want)
	}
	if got, want := len(proof.root), schedule.DigestSize(height); got != want {
		return fmt.Errorf("%w: root size: got: %v, want: %v", ErrSchemaMismatch, got, want)
	}
	if got, want := len(proof.path), expectedPathLen(proof.index, proof.numLeaves, proof.pruned); got != want {
		return fmt.Errorf("%w: path length: got: %v, want: %v", ErrSchemaMismatch, got, want)
	}

	p := 0
	idx, width := proof.index, proof.numLeaves
	for l := 0; l < height; l++ {
		if !(proof.pruned && isLone(idx, width)) {
			if got, want := len(proof.path[p]), schedule.DigestSize(l); got != want {
				return fmt.Errorf("%w: path entry %d (level %d) size: got: %v, want: %v", ErrSchemaMismatch, p, l, got, want)
			}
			p++
		}
		idx /= 2
		width = (width + 1) / 2
	}
	return nil
}
