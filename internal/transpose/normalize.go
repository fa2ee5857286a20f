// Package transpose implements the N-dimensional transpose core: it
// canonicalizes an arbitrary strided permutation problem into a minimal-rank
// equivalent, orders the loops for contiguous memory access, and selects the
// micro-kernel and parallelization shape that execute it.
package transpose

// MaxDims is the maximum tensor rank the transpose core accepts.
const MaxDims = 6

// Normalized is the canonical reduced-rank form of a transpose problem.
// Shape and InStride are indexed by (renumbered) input axis, Perm and
// OutStride by output position. Strides are byte strides; ElementSize is
// the atomic unit moved per element after contiguous folding.
type Normalized struct {
	Rank        int
	ElementSize int
	Perm        [MaxDims]int
	Shape       [MaxDims]int
	InStride    [MaxDims]int
	OutStride   [MaxDims]int
}

// axisRun is one output position of the problem during normalization.
// Strides are still in elements of the original element size.
type axisRun struct {
	src    int // input axis index
	extent int
	in     int // input stride of src
	out    int // output stride of this position
}

// Normalize reduces a transpose problem to its minimal-rank equivalent.
//
// Adjacent axes that are contiguous in both layouts and kept adjacent by
// the permutation collapse into one logical axis; size-1 axes vanish; a
// shared innermost contiguous axis folds into the element size. In the
// best case an N-D transpose reduces to 2-D, or to a rank-1 contiguous
// copy whose element size is the whole tensor.
//
// inStride and outStride are element strides; either may be nil, meaning
// the packed row-major layout of the respective axis order. The caller is
// responsible for validating rank bounds, the permutation bijection and
// stride legality beforehand.
func Normalize(elementSize int, perm, shape, inStride, outStride []int) Normalized {
	rank := len(shape)

	var inBuf, outBuf [MaxDims]int
	if inStride == nil {
		inStride = packedStrides(inBuf[:rank], shape)
	}
	if outStride == nil {
		out := outBuf[:rank]
		out[rank-1] = 1
		for j := rank - 2; j >= 0; j-- {
			out[j] = out[j+1] * shape[perm[j+1]]
		}
		outStride = out
	}

	// Collect surviving axes in output order, dropping size-1 axes.
	var runBuf [MaxDims]axisRun
	runs := runBuf[:0]
	for j := 0; j < rank; j++ {
		a := perm[j]
		if shape[a] == 1 {
			continue
		}
		runs = append(runs, axisRun{src: a, extent: shape[a], in: inStride[a], out: outStride[j]})
	}

	// Coalesce output-adjacent pairs that are also input-adjacent and
	// contiguous in both layouts. The nested-layout stride invariant
	// guarantees the contiguity equalities fail whenever another surviving
	// axis sits between the pair in input order.
	for j := len(runs) - 1; j > 0; j-- {
		hi, lo := runs[j-1], runs[j]
		if hi.src < lo.src && hi.in == lo.in*lo.extent && hi.out == lo.out*lo.extent {
			runs[j-1] = axisRun{src: lo.src, extent: hi.extent * lo.extent, in: lo.in, out: lo.out}
			runs = append(runs[:j], runs[j+1:]...)
		}
	}

	// Fold the innermost axis into the element size when it is innermost in
	// both layouts. Widths other than 1/2/4 bytes are carried as explicit
	// byte counts and routed to the variable-size kernel by the selector.
	//
	// The two-axis case keeps its innermost axis explicit: the rank-1 plan
	// is a plain contiguous copy, and a lone surviving axis after folding is
	// always strided (a contiguous pair would have coalesced above).
	e := elementSize
	if n := len(runs); n > 0 && n != 2 {
		last := runs[n-1]
		if last.src == maxSrc(runs) && last.in == 1 && last.out == 1 {
			e *= last.extent
			runs = runs[:n-1]
		}
	}

	if len(runs) == 0 {
		// Fully contiguous: a rank-1 copy of e bytes.
		return Normalized{
			Rank:        1,
			ElementSize: e,
			Shape:       [MaxDims]int{1},
			InStride:    [MaxDims]int{e},
			OutStride:   [MaxDims]int{e},
		}
	}

	if len(runs) == 1 {
		// A lone surviving axis is strided on at least one side, or it
		// would have folded above. The rank-1 plan is a plain contiguous
		// copy, so pad the run with a unit inner axis and let the 2-D
		// kernels honor its strides.
		r := runs[0]
		return Normalized{
			Rank:        2,
			ElementSize: e,
			Perm:        [MaxDims]int{0, 1},
			Shape:       [MaxDims]int{r.extent, 1},
			InStride:    [MaxDims]int{r.in * elementSize, e},
			OutStride:   [MaxDims]int{r.out * elementSize, e},
		}
	}

	n := Normalized{Rank: len(runs), ElementSize: e}
	for j, r := range runs {
		axis := rankOfSrc(runs, r.src)
		n.Perm[j] = axis
		n.Shape[axis] = r.extent
		n.InStride[axis] = r.in * elementSize
		n.OutStride[j] = r.out * elementSize
	}
	return n
}

// packedStrides fills dst with row-major strides for shape.
func packedStrides(dst, shape []int) []int {
	dst[len(shape)-1] = 1
	for i := len(shape) - 2; i >= 0; i-- {
		dst[i] = dst[i+1] * shape[i+1]
	}
	return dst
}

func maxSrc(runs []axisRun) int {
	m := runs[0].src
	for _, r := range runs[1:] {
		if r.src > m {
			m = r.src
		}
	}
	return m
}

// rankOfSrc renumbers an input axis to its position among surviving axes.
func rankOfSrc(runs []axisRun, src int) int {
	n := 0
	for _, r := range runs {
		if r.src < src {
			n++
		}
	}
	return n
}
