// Package kernel provides the transpose micro-kernels and the capability
// table that selects tile sizes for them based on detected CPU features.
package kernel

import (
	"github.com/born-ml/microkernels/internal/parallel"
)

// ConstKernel transposes a blockHeight x blockWidth tile of fixed-width
// elements. Input rows are contiguous runs of elements: element (h, w) is
// read at x[h*inRowStride + w*E] and written at y[w*outRowStride + h*E],
// where E is the family's element width in bytes.
type ConstKernel func(x, y []byte, inRowStride, outRowStride, blockWidth, blockHeight int)

// VariableKernel transposes a blockHeight x blockWidth tile of elements of
// arbitrary width, with explicit per-element strides for padded layouts.
// Element (h, w) is read at x[h*inRowStride + w*inElemStride] and written at
// y[w*outRowStride + h*outElemStride], copying elementSize bytes.
type VariableKernel func(x, y []byte, inRowStride, outRowStride, inElemStride, outElemStride, elementSize, blockWidth, blockHeight int)

// CopyKernel copies len(x) contiguous bytes from x to y.
type CopyKernel func(y, x []byte)

// Flags is a bitmask of datatype families enabled in a capability table.
type Flags uint32

// Datatype families.
const (
	X8 Flags = 1 << iota // 1-byte elements
	X16                  // 2-byte elements
	X32                  // 4-byte elements
	XX                   // arbitrary element width
)

// AllFamilies enables every datatype family.
const AllFamilies = X8 | X16 | X32 | XX

// Family describes the fixed-width transpose kernel for one element size.
type Family struct {
	TileSize int // square tile edge, in elements
	Const    ConstKernel
}

// VariableFamily describes the arbitrary-width transpose kernel.
type VariableFamily struct {
	TileSize int
	Variable VariableKernel
}

// Table is the process capability table: per element-size class, the tile
// size and kernel selected for the CPU detected at construction time.
// A Table is immutable after NewTable returns and is passed explicitly to
// operator constructors rather than read from global state.
type Table struct {
	X8  Family
	X16 Family
	X32 Family
	XX  VariableFamily

	Copy     CopyKernel
	CopyTile int // bytes per tile for the contiguous-copy path

	VectorName  string // detected ISA class, for diagnostics
	VectorWidth int    // vector register width in bytes

	Parallel parallel.Config

	families Flags
}

// Option configures a capability table under construction.
type Option func(*Table)

// WithFamilies restricts the table to the given datatype families.
// Operators requiring a disabled family fail at create time.
func WithFamilies(f Flags) Option {
	return func(t *Table) { t.families = f }
}

// WithWorkers overrides the number of goroutines used by the execution
// engine when running operators planned against this table.
func WithWorkers(n int) Option {
	return func(t *Table) {
		t.Parallel.NumWorkers = n
		t.Parallel.Enabled = n > 1
	}
}

// NewTable detects CPU features and builds the capability table.
//
// Example:
//
//	caps := kernel.NewTable()
//	op, err := operator.NewTranspose(caps, operator.X32, 0)
func NewTable(opts ...Option) *Table {
	name, width := detectVector()

	t := &Table{
		X8:          Family{TileSize: tileFor(width, 1), Const: transpose8},
		X16:         Family{TileSize: tileFor(width, 2), Const: transpose16},
		X32:         Family{TileSize: tileFor(width, 4), Const: transpose32},
		XX:          VariableFamily{TileSize: variableTile, Variable: transposev},
		Copy:        copyBytes,
		CopyTile:    copyTile,
		VectorName:  name,
		VectorWidth: width,
		Parallel:    parallel.DefaultConfig(),
		families:    AllFamilies,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Supports reports whether every family in f is enabled.
func (t *Table) Supports(f Flags) bool {
	return t != nil && t.families&f == f
}

// Families returns the enabled datatype families.
func (t *Table) Families() Flags {
	if t == nil {
		return 0
	}
	return t.families
}
