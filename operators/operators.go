// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package operators provides the public API for the microkernels operator
// library: hardware-aware N-dimensional transpose and the pixel-shuffle
// layout transforms derived from it.
//
// All operators are planned against an immutable capability table built
// once from the detected CPU:
//
//	caps := operators.NewCapabilities()
//	err := operators.RunTranspose(caps, operators.X32, 0, input, output,
//		[]int{2, 3, 4}, []int{2, 0, 1})
//
// Retained operators follow a create/setup/run lifecycle:
//
//	op, err := operators.NewTranspose(caps, operators.X8, 0)
//	err = op.SetupTranspose(input, output, shape, perm)
//	err = op.Run()
package operators

import (
	"log/slog"

	"github.com/born-ml/microkernels/internal/kernel"
	"github.com/born-ml/microkernels/internal/operator"
)

// Capabilities is the immutable per-process capability table: tile sizes
// and kernel selections for the CPU detected at construction time.
type Capabilities = kernel.Table

// CapabilityOption configures capability table construction.
type CapabilityOption = kernel.Option

// FamilySet is a bitmask of datatype families enabled in a table.
type FamilySet = kernel.Flags

// Datatype families.
const (
	FamilyX8  = kernel.X8
	FamilyX16 = kernel.X16
	FamilyX32 = kernel.X32
	FamilyXX  = kernel.XX
	// AllFamilies enables every datatype family.
	AllFamilies = kernel.AllFamilies
)

// NewCapabilities detects CPU features and builds the capability table.
func NewCapabilities(opts ...CapabilityOption) *Capabilities {
	return kernel.NewTable(opts...)
}

// WithFamilies restricts a capability table to the given datatype families.
func WithFamilies(f FamilySet) CapabilityOption {
	return kernel.WithFamilies(f)
}

// WithWorkers overrides the number of goroutines used to run operators.
func WithWorkers(n int) CapabilityOption {
	return kernel.WithWorkers(n)
}

// DataType is the element width class of a transpose-family operator.
type DataType = operator.DataType

// Element width classes.
const (
	X8  DataType = operator.X8
	X16 DataType = operator.X16
	X32 DataType = operator.X32
)

// Operator is an operator descriptor owned by its caller across the
// create/setup/run lifecycle.
type Operator = operator.Operator

// State is the lifecycle state of an operator descriptor.
type State = operator.State

// Lifecycle states.
const (
	StateUninitialized State = operator.StateUninitialized
	StateInvalid       State = operator.StateInvalid
	StateSkip          State = operator.StateSkip
	StateReady         State = operator.StateReady
)

// Error sentinels; returned errors wrap these and match with errors.Is.
var (
	ErrUninitialized       = operator.ErrUninitialized
	ErrUnsupportedHardware = operator.ErrUnsupportedHardware
	ErrInvalidParameter    = operator.ErrInvalidParameter
	ErrInvalidState        = operator.ErrInvalidState
)

// SetLogger installs the logger that receives operator diagnostics.
func SetLogger(l *slog.Logger) {
	operator.SetLogger(l)
}

// NewTranspose creates an N-dimensional transpose operator for a fixed
// element width class.
func NewTranspose(caps *Capabilities, dt DataType, flags uint32) (*Operator, error) {
	return operator.NewTranspose(caps, dt, flags)
}

// NewTransposeND creates a transpose operator for arbitrary element widths
// and optional explicit strides; configure it with SetupTransposeND.
func NewTransposeND(caps *Capabilities, flags uint32) (*Operator, error) {
	return operator.NewTransposeND(caps, flags)
}

// RunTranspose creates, sets up and runs a transpose in one call.
func RunTranspose(caps *Capabilities, dt DataType, flags uint32, input, output []byte, shape, perm []int) error {
	return operator.RunTranspose(caps, dt, flags, input, output, shape, perm)
}

// RunTransposeND is the one-shot form of the arbitrary-width transpose.
func RunTransposeND(caps *Capabilities, flags uint32, input, output []byte, shape, perm, inStride, outStride []int, elementSize int) error {
	return operator.RunTransposeND(caps, flags, input, output, shape, perm, inStride, outStride, elementSize)
}

// NewDepthToSpaceNHWC creates a depth-to-space operator on NHWC layouts.
func NewDepthToSpaceNHWC(caps *Capabilities, dt DataType,
	outputChannels, inputChannelStride, outputChannelStride, blockSize int, flags uint32) (*Operator, error) {
	return operator.NewDepthToSpaceNHWC(caps, dt,
		outputChannels, inputChannelStride, outputChannelStride, blockSize, flags)
}

// NewDepthToSpaceNCHW2NHWC creates a depth-to-space operator reading NCHW
// and writing NHWC, for 4-byte elements.
func NewDepthToSpaceNCHW2NHWC(caps *Capabilities,
	outputChannels, inputChannelStride, outputChannelStride, blockSize int, flags uint32) (*Operator, error) {
	return operator.NewDepthToSpaceNCHW2NHWC(caps,
		outputChannels, inputChannelStride, outputChannelStride, blockSize, flags)
}

// NewSpaceToDepthNHWC creates a space-to-depth operator on NHWC layouts.
func NewSpaceToDepthNHWC(caps *Capabilities, dt DataType,
	inputChannels, inputChannelStride, outputChannelStride, blockSize int, flags uint32) (*Operator, error) {
	return operator.NewSpaceToDepthNHWC(caps, dt,
		inputChannels, inputChannelStride, outputChannelStride, blockSize, flags)
}
