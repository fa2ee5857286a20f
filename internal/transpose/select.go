package transpose

import (
	"github.com/born-ml/microkernels/internal/kernel"
)

// ShapeTag identifies the fixed-rank parallelization shape of a plan.
// All multi-dimensional shapes tile over their last two dimensions.
type ShapeTag uint8

// Parallelization shapes.
const (
	Shape1D ShapeTag = iota + 1
	Shape2D
	Shape3D
	Shape4D
	Shape5D
	Shape6D
)

// Variant identifies which kernel arm of the plan is active.
type Variant uint8

// Kernel variants.
const (
	VariantCopy     Variant = iota + 1 // rank-1 contiguous byte copy
	VariantConst                       // fixed element width, contiguous rows
	VariantVariable                    // arbitrary width or padded rows
)

// Plan is the self-describing compute descriptor produced at setup time and
// consumed by the execution engine: a parallelization shape, per-loop ranges
// and byte strides, tile sizes and the resolved kernel reference. The
// Variant tag doubles as the discriminator for which kernel field is live.
type Plan struct {
	Tag     ShapeTag
	Variant Variant
	Rank    int

	Range     [MaxDims]int // loop extents, final loop order
	InStride  [MaxDims]int // input byte strides, final loop order
	OutStride [MaxDims]int // output byte strides, final loop order
	Tile      [2]int       // tile extents for the last two loops

	ElementSize int

	Const    kernel.ConstKernel
	Variable kernel.VariableKernel
	Copy     kernel.CopyKernel
}

// Select maps a normalized problem to its execution plan: element size picks
// the kernel family and tile shape from the capability table, rank picks the
// parallelization shape.
//
// Rank 1 is a plain contiguous byte copy: normalization has folded the whole
// tensor into the element size, so Range[0] is the byte count. Ranks 2
// through 6 tile over the last two loops. Rank above MaxDims is unreachable;
// the bound is enforced before normalization.
func Select(n Normalized, caps *kernel.Table) Plan {
	p := Plan{Rank: n.Rank, ElementSize: n.ElementSize}

	if n.Rank == 1 {
		p.Tag = Shape1D
		p.Variant = VariantCopy
		p.Range[0] = n.ElementSize
		p.Tile[0] = caps.CopyTile
		p.Copy = caps.Copy
		return p
	}

	p.Range, p.InStride, p.OutStride = orderLoops(&n)

	var fam kernel.Family
	var have bool
	switch n.ElementSize {
	case 1:
		fam, have = caps.X8, caps.Supports(kernel.X8)
	case 2:
		fam, have = caps.X16, caps.Supports(kernel.X16)
	case 4:
		fam, have = caps.X32, caps.Supports(kernel.X32)
	}

	// The const-size kernel assumes rows of exactly ElementSize-wide packed
	// elements. Element-size folding against a padded outer stride breaks
	// that, so such layouts take the variable-size path.
	if have &&
		p.InStride[n.Rank-2] == n.ElementSize &&
		p.OutStride[n.Rank-1] == n.ElementSize {
		p.Variant = VariantConst
		p.Const = fam.Const
		p.Tile = [2]int{fam.TileSize, fam.TileSize}
	} else {
		p.Variant = VariantVariable
		p.Variable = caps.XX.Variable
		p.Tile = [2]int{caps.XX.TileSize, caps.XX.TileSize}
	}

	switch n.Rank {
	case 2:
		p.Tag = Shape2D
	case 3:
		p.Tag = Shape3D
	case 4:
		p.Tag = Shape4D
	case 5:
		p.Tag = Shape5D
	case 6:
		p.Tag = Shape6D
	default:
		panic("transpose: normalized rank out of range")
	}
	return p
}
