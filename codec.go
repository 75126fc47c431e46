package lmt

import (
	"encoding"
	"fmt"
	"math"

	"github.com/gogo/protobuf/proto"

	"github.com/celestiaorg/lmt/pb"
)

var (
	_ encoding.BinaryMarshaler   = Proof{}
	_ encoding.BinaryUnmarshaler = (*Proof)(nil)
)

// ToProto converts the proof into its wire message. The message owns
// copies of every byte slice.
func (proof Proof) ToProto() *pb.Proof {
	return &pb.Proof{
		LeafIndex:  uint64(proof.index),
		Root:       cloneBytes(proof.root),
		Pruned:     proof.pruned,
		Path:       clonePath(proof.path),
		NumLeaves:  uint64(proof.numLeaves),
		Leaf:       cloneBytes(proof.leaf),
		ScheduleId: cloneBytes(proof.scheduleID),
	}
}

// ProofFromProto converts a wire message back into a Proof. Only the
// integer ranges are checked here; Verify checks the shape.
func ProofFromProto(m *pb.Proof) (Proof, error) {
	if m == nil {
		return Proof{}, fmt.Errorf("%w: nil proof message", ErrSchemaMismatch)
	}
	if m.NumLeaves > math.MaxInt || m.LeafIndex > math.MaxInt {
		return Proof{}, fmt.Errorf("%w: leaf index %d or leaf count %d overflows int", ErrSchemaMismatch, m.LeafIndex, m.NumLeaves)
	}
	return Proof{
		leaf:       cloneBytes(m.Leaf),
		index:      int(m.LeafIndex),
		numLeaves:  int(m.NumLeaves),
		root:       cloneBytes(m.Root),
		pruned:     m.Pruned,
		path:       clonePath(m.Path),
		scheduleID: cloneBytes(m.ScheduleId),
	}, nil
}

// MarshalBinary encodes the proof as a pb.Proof protobuf message.
func (proof Proof) MarshalBinary() ([]byte, error) {
	return proto.Marshal(proof.ToProto())
}

// UnmarshalBinary decodes a proof written by MarshalBinary.
func (proof *Proof) UnmarshalBinary(data []byte) error {
	var m pb.Proof
	if err := proto.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	p, err := ProofFromProto(&m)
	if err != nil {
		return err
	}
	*proof = p
	return nil
}
