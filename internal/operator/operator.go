// Package operator implements operator descriptors and their lifecycle:
// create stamps an identity and validates capability support, setup
// validates the problem and plans its execution, run dispatches the plan
// through the parallel engine.
package operator

import (
	"errors"

	"github.com/born-ml/microkernels/internal/kernel"
	"github.com/born-ml/microkernels/internal/transpose"
)

// Lifecycle and validation failures. All returned errors wrap one of these
// sentinels; match with errors.Is.
var (
	// ErrUninitialized is returned when no capability table was supplied.
	ErrUninitialized = errors.New("capability table not initialized")
	// ErrUnsupportedHardware is returned when the capability table lacks
	// the datatype family an operator needs.
	ErrUnsupportedHardware = errors.New("data type not supported by capability table")
	// ErrInvalidParameter is returned for malformed shapes, permutations,
	// strides, buffers or operator-type mismatches.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInvalidState is returned by Run on an operator that is not set up.
	ErrInvalidState = errors.New("operator is not ready to run")
)

// State is the lifecycle state of an operator descriptor.
type State uint8

// Lifecycle states. A failed setup forces StateInvalid before returning, so
// a stale descriptor can never run with inconsistent parameters.
const (
	StateUninitialized State = iota
	StateInvalid
	StateSkip // valid setup with a zero-extent dimension; run is a no-op
	StateReady
)

// Type identifies the operator kind a descriptor was created as.
type Type uint8

// Operator types.
const (
	TypeInvalid Type = iota
	TypeTransposeX8
	TypeTransposeX16
	TypeTransposeX32
	TypeTransposeXX
	TypeDepthToSpaceNCHW2NHWCX32
	TypeDepthToSpaceNHWCX8
	TypeDepthToSpaceNHWCX16
	TypeDepthToSpaceNHWCX32
	TypeSpaceToDepthNHWCX8
	TypeSpaceToDepthNHWCX16
	TypeSpaceToDepthNHWCX32
)

// String returns a human-readable operator type name.
func (t Type) String() string {
	switch t {
	case TypeTransposeX8:
		return "transpose_nd_x8"
	case TypeTransposeX16:
		return "transpose_nd_x16"
	case TypeTransposeX32:
		return "transpose_nd_x32"
	case TypeTransposeXX:
		return "transpose_nd_xx"
	case TypeDepthToSpaceNCHW2NHWCX32:
		return "depth_to_space_nchw2nhwc_x32"
	case TypeDepthToSpaceNHWCX8:
		return "depth_to_space_nhwc_x8"
	case TypeDepthToSpaceNHWCX16:
		return "depth_to_space_nhwc_x16"
	case TypeDepthToSpaceNHWCX32:
		return "depth_to_space_nhwc_x32"
	case TypeSpaceToDepthNHWCX8:
		return "space_to_depth_nhwc_x8"
	case TypeSpaceToDepthNHWCX16:
		return "space_to_depth_nhwc_x16"
	case TypeSpaceToDepthNHWCX32:
		return "space_to_depth_nhwc_x32"
	default:
		return "invalid"
	}
}

// DataType is the element width class of a transpose-family operator.
type DataType int

// Element width classes.
const (
	X8 DataType = iota
	X16
	X32
)

// Size returns the element width in bytes.
func (dt DataType) Size() int {
	switch dt {
	case X8:
		return 1
	case X16:
		return 2
	case X32:
		return 4
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the width class.
func (dt DataType) String() string {
	switch dt {
	case X8:
		return "x8"
	case X16:
		return "x16"
	case X32:
		return "x32"
	default:
		return "unknown"
	}
}

func (dt DataType) family() kernel.Flags {
	switch dt {
	case X8:
		return kernel.X8
	case X16:
		return kernel.X16
	default:
		return kernel.X32
	}
}

// Operator is an operator descriptor. It is owned exclusively by its caller
// from creation on; concurrent setup or run calls on the same descriptor
// must be serialized by the caller.
type Operator struct {
	typ   Type
	flags uint32
	state State
	caps  *kernel.Table

	// Derived-operator parameters (depth-to-space, space-to-depth).
	channels          int
	inputPixelStride  int
	outputPixelStride int
	blockSize         int

	// Compute context, valid only in StateReady. The plan's Variant tag
	// discriminates which kernel arm consumes it.
	plan transpose.Plan
	x    []byte
	y    []byte
}

// Type returns the operator's type tag.
func (op *Operator) Type() Type { return op.typ }

// State returns the operator's lifecycle state.
func (op *Operator) State() State { return op.state }

// Flags returns the flags the operator was created with.
func (op *Operator) Flags() uint32 { return op.flags }

// Plan exposes the execution plan of a ready operator for inspection.
func (op *Operator) Plan() transpose.Plan { return op.plan }
