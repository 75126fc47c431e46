package lmt

// hashLeaves computes level 0. Full chunks are hashed straight out of input
// in one batch; only a short final chunk is copied and zero-padded.
func hashLeaves(h Hasher, input []byte, numLeaves int) ([]byte, error) {
	leafSize, size := h.InputSize(), h.Size()
	out := make([]byte, numLeaves*size)

	full := len(input) / leafSize
	if full > 0 {
		if err := h.Hash(input[:full*leafSize], out[:full*size]); err != nil {
			return nil, err
		}
	}
	if full < numLeaves {
		last := make([]byte, leafSize)
		copy(last, input[full*leafSize:])
		if err := h.Hash(last, out[full*size:]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// compressLevel pairs the digests of level left to right and compresses
// every pair with h. A lone trailing digest is paired per policy.
func compressLevel(h Hasher, level []byte, childSize int, policy OddPolicy) ([]byte, error) {
	count := len(level) / childSize
	pairs := (count + 1) / 2
	out := make([]byte, pairs*h.Size())

	even := count &^ 1
	if even > 0 {
		// Adjacent digests in level already form the left||right inputs.
		if err := h.Hash(level[:even*childSize], out[:(even/2)*h.Size()]); err != nil {
			return nil, err
		}
	}
	if count%2 == 1 {
		lone := level[even*childSize:]
		pair := make([]byte, 0, 2*childSize)
		pair = append(pair, lone...)
		pair = append(pair, oddSibling(policy, lone)...)
		if err := h.Hash(pair, out[(even/2)*h.Size():]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// isLone reports whether the node at index is the unpaired last node of a
// level holding width nodes.
func isLone(index, width int) bool {
	return index%2 == 0 && index == width-1
}

// oddSibling returns the digest a lone node is paired with.
func oddSibling(policy OddPolicy, node []byte) []byte {
	if policy == ZeroOdd {
		return make([]byte, len(node))
	}
	return append([]byte(nil), node...)
}
