package operator

import (
	"fmt"

	"github.com/born-ml/microkernels/internal/kernel"
	"github.com/born-ml/microkernels/internal/transpose"
)

// NewTranspose creates an N-dimensional transpose operator for the given
// element width class. The capability table must support the class.
func NewTranspose(caps *kernel.Table, dt DataType, flags uint32) (*Operator, error) {
	op := &Operator{}
	if err := initTranspose(op, caps, transposeType(dt), dt.family(), flags); err != nil {
		return nil, err
	}
	return op, nil
}

// NewTransposeND creates a transpose operator for arbitrary element widths,
// set up with SetupTransposeND. It requires the variable-size kernel family.
func NewTransposeND(caps *kernel.Table, flags uint32) (*Operator, error) {
	op := &Operator{}
	if err := initTranspose(op, caps, TypeTransposeXX, kernel.XX, flags); err != nil {
		return nil, err
	}
	return op, nil
}

func transposeType(dt DataType) Type {
	switch dt {
	case X8:
		return TypeTransposeX8
	case X16:
		return TypeTransposeX16
	default:
		return TypeTransposeX32
	}
}

// initTranspose stamps identity and flags on a zeroed descriptor. Split out
// of NewTranspose so one-shot helpers can reuse it on a stack descriptor.
func initTranspose(op *Operator, caps *kernel.Table, typ Type, family kernel.Flags, flags uint32) error {
	if caps == nil {
		logger.Error("failed to create operator: no capability table", "type", typ.String())
		return fmt.Errorf("create %s: %w", typ, ErrUninitialized)
	}
	if !caps.Supports(family) {
		logger.Error("failed to create operator: data type family not supported", "type", typ.String())
		return fmt.Errorf("create %s: %w", typ, ErrUnsupportedHardware)
	}
	op.caps = caps
	op.typ = typ
	op.flags = flags
	op.state = StateInvalid
	return nil
}

// SetupTranspose configures the operator for the given problem. Strides are
// implicit: both tensors are packed row-major in their own axis orders.
// shape is the input shape; perm maps output axis position to input axis.
//
// A zero extent anywhere in shape is not an error: setup succeeds and the
// operator enters the skip state, making Run a no-op.
func (op *Operator) SetupTranspose(input, output []byte, shape, perm []int) error {
	var dt DataType
	switch op.typ {
	case TypeTransposeX8:
		dt = X8
	case TypeTransposeX16:
		dt = X16
	case TypeTransposeX32:
		dt = X32
	default:
		return op.typeMismatch("transpose_nd")
	}
	return op.setupTransposeND(input, output, shape, perm, nil, nil, dt.Size())
}

// SetupTransposeND configures a TransposeND operator with an explicit
// element size and optional element strides. Nil strides mean packed
// row-major layouts; explicit strides may describe padded layouts but must
// be nested and end in 1.
func (op *Operator) SetupTransposeND(input, output []byte, shape, perm, inStride, outStride []int, elementSize int) error {
	if op.typ != TypeTransposeXX {
		return op.typeMismatch(TypeTransposeXX.String())
	}
	return op.setupTransposeND(input, output, shape, perm, inStride, outStride, elementSize)
}

func (op *Operator) typeMismatch(expected string) error {
	logger.Error("failed to setup operator: operator type mismatch",
		"expected", expected, "got", op.typ.String())
	return fmt.Errorf("setup: operator type mismatch (expected %s, got %s): %w",
		expected, op.typ, ErrInvalidParameter)
}

// invalidf logs a setup diagnostic and returns the matching invalid
// parameter error. The operator is already in StateInvalid at call sites.
func (op *Operator) invalidf(format string, a ...any) error {
	msg := "setup " + op.typ.String() + ": " + fmt.Sprintf(format, a...)
	logger.Error("failed to setup operator", "type", op.typ.String(), "detail", msg)
	return fmt.Errorf("%s: %w", msg, ErrInvalidParameter)
}

// setupTransposeND is the shared setup path for all transpose-family
// operators, including the generated depth-to-space and space-to-depth
// permutations. It validates eagerly, then normalizes, plans and selects.
func (op *Operator) setupTransposeND(input, output []byte, shape, perm, inStride, outStride []int, elementSize int) error {
	// No partial configuration survives a failed setup.
	op.state = StateInvalid

	rank := len(shape)
	if rank == 0 {
		return op.invalidf("rank must be non-zero")
	}
	if rank > transpose.MaxDims {
		return op.invalidf("rank %d exceeds maximum %d", rank, transpose.MaxDims)
	}
	if len(perm) != rank {
		return op.invalidf("permutation has %d entries for rank %d", len(perm), rank)
	}
	if elementSize <= 0 {
		return op.invalidf("element size must be positive, got %d", elementSize)
	}

	for i := 0; i < rank; i++ {
		if perm[i] < 0 || perm[i] >= rank {
			return op.invalidf("permutation entry %d out of range [0, %d)", perm[i], rank)
		}
	}
	for i := 0; i < rank-1; i++ {
		for j := i + 1; j < rank; j++ {
			if perm[i] == perm[j] {
				return op.invalidf("duplicate permutation entry %d", perm[i])
			}
		}
	}

	if inStride != nil {
		if len(inStride) != rank {
			return op.invalidf("input stride has %d entries for rank %d", len(inStride), rank)
		}
		if inStride[rank-1] != 1 {
			return op.invalidf("input stride of the innermost axis must be 1, got %d", inStride[rank-1])
		}
		for i := rank - 1; i > 0; i-- {
			if inStride[i-1] < inStride[i]*shape[i] {
				return op.invalidf("input stride %d of axis %d overlaps the %d elements below it",
					inStride[i-1], i-1, inStride[i]*shape[i])
			}
		}
	}
	if outStride != nil {
		if len(outStride) != rank {
			return op.invalidf("output stride has %d entries for rank %d", len(outStride), rank)
		}
		if outStride[rank-1] != 1 {
			return op.invalidf("output stride of the innermost axis must be 1, got %d", outStride[rank-1])
		}
		for i := rank - 1; i > 0; i-- {
			if outStride[i-1] < outStride[i]*shape[perm[i]] {
				return op.invalidf("output stride %d of axis %d overlaps the %d elements below it",
					outStride[i-1], i-1, outStride[i]*shape[perm[i]])
			}
		}
	}

	// A zero-extent dimension short-circuits to a successful no-op run.
	for i := 0; i < rank; i++ {
		if shape[i] == 0 {
			op.state = StateSkip
			return nil
		}
		if shape[i] < 0 {
			return op.invalidf("negative extent %d at axis %d", shape[i], i)
		}
	}

	if need := inputSpanBytes(shape, inStride, elementSize); len(input) < need {
		return op.invalidf("input buffer holds %d bytes, layout needs %d", len(input), need)
	}
	if need := outputSpanBytes(shape, perm, outStride, elementSize); len(output) < need {
		return op.invalidf("output buffer holds %d bytes, layout needs %d", len(output), need)
	}

	n := transpose.Normalize(elementSize, perm, shape, inStride, outStride)
	op.plan = transpose.Select(n, op.caps)
	op.x = input
	op.y = output
	op.state = StateReady
	return nil
}

// inputSpanBytes returns the byte span addressed by the input layout.
func inputSpanBytes(shape, stride []int, e int) int {
	if stride == nil {
		n := 1
		for _, d := range shape {
			n *= d
		}
		return n * e
	}
	n := 1
	for i, d := range shape {
		n += (d - 1) * stride[i]
	}
	return n * e
}

// outputSpanBytes returns the byte span addressed by the output layout.
func outputSpanBytes(shape, perm, stride []int, e int) int {
	n := 1
	if stride == nil {
		for _, d := range shape {
			n *= d
		}
		return n * e
	}
	for j := range shape {
		n += (shape[perm[j]] - 1) * stride[j]
	}
	return n * e
}

// RunTranspose creates, sets up and runs a transpose in one call for
// callers that do not retain the operator. The descriptor lives on the
// stack for the duration of the call.
func RunTranspose(caps *kernel.Table, dt DataType, flags uint32, input, output []byte, shape, perm []int) error {
	var op Operator
	if err := initTranspose(&op, caps, transposeType(dt), dt.family(), flags); err != nil {
		return err
	}
	if err := op.SetupTranspose(input, output, shape, perm); err != nil {
		return err
	}
	return op.Run()
}

// RunTransposeND is the one-shot form of the arbitrary-width transpose.
func RunTransposeND(caps *kernel.Table, flags uint32, input, output []byte, shape, perm, inStride, outStride []int, elementSize int) error {
	var op Operator
	if err := initTranspose(&op, caps, TypeTransposeXX, kernel.XX, flags); err != nil {
		return err
	}
	if err := op.SetupTransposeND(input, output, shape, perm, inStride, outStride, elementSize); err != nil {
		return err
	}
	return op.Run()
}
