package lmt

import "errors"

var (
	// ErrConfig is returned when the schedule, leaf size, padding or
	// retention settings do not fit the input. It is never worth retrying.
	ErrConfig = errors.New("invalid tree configuration")
	// ErrIndexOutOfRange is returned for a leaf index outside [0, NumLeaves).
	ErrIndexOutOfRange = errors.New("leaf index out of range")
	// ErrLayerNotRetained is returned when a proof needs a level that was
	// discarded because it lies below the tree's minimum stored layer.
	ErrLayerNotRetained = errors.New("tree level not retained")
	// ErrSchemaMismatch is returned when a proof and a schedule have
	// incompatible shapes, or when a proof cannot be decoded.
	ErrSchemaMismatch = errors.New("proof does not match schedule")
)
