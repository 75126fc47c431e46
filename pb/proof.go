// Package pb holds the protobuf wire message for lmt proofs (see proof.proto).
//
// Proof carries only protobuf struct tags; gogo/protobuf encodes it through
// its table-driven reflection codec, which writes fields in field-number
// order and omits zero proto3 scalars.
package pb

import (
	"github.com/gogo/protobuf/proto"
)

type Proof struct {
	LeafIndex  uint64   `protobuf:"varint,1,opt,name=leaf_index,json=leafIndex,proto3" json:"leaf_index,omitempty"`
	Root       []byte   `protobuf:"bytes,2,opt,name=root,proto3" json:"root,omitempty"`
	Pruned     bool     `protobuf:"varint,3,opt,name=pruned,proto3" json:"pruned,omitempty"`
	Path       [][]byte `protobuf:"bytes,4,rep,name=path,proto3" json:"path,omitempty"`
	NumLeaves  uint64   `protobuf:"varint,5,opt,name=num_leaves,json=numLeaves,proto3" json:"num_leaves,omitempty"`
	Leaf       []byte   `protobuf:"bytes,6,opt,name=leaf,proto3" json:"leaf,omitempty"`
	ScheduleId []byte   `protobuf:"bytes,7,opt,name=schedule_id,json=scheduleId,proto3" json:"schedule_id,omitempty"`
}

var _ proto.Message = (*Proof)(nil)

func init() {
	proto.RegisterType((*Proof)(nil), "lmt.pb.Proof")
}

func (m *Proof) Reset()         { *m = Proof{} }
func (m *Proof) String() string { return proto.CompactTextString(m) }
func (*Proof) ProtoMessage()    {}
