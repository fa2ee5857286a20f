package transpose

// orderLoops computes the loop order for a normalized problem and reorders
// its ranges and strides to match.
//
// The loop order starts as the normalized permutation. The innermost loop
// then already walks the output's contiguous axis; the axis that maps to the
// input's innermost index is swapped into the second-to-last position so the
// 2-D tiled micro-kernels consume a contiguous input run and produce a
// contiguous output run per invocation. Output strides travel with the swap
// because they are indexed by loop position.
//
// Returns ranges, input strides and output strides indexed by final loop
// position.
func orderLoops(n *Normalized) (ranges, in, out [MaxDims]int) {
	rank := n.Rank

	var loop [MaxDims]int
	copy(loop[:rank], n.Perm[:rank])
	out = n.OutStride

	if rank > 1 {
		for i := 0; i < rank-2; i++ {
			if loop[i] == rank-1 {
				loop[i], loop[rank-2] = loop[rank-2], loop[i]
				out[i], out[rank-2] = out[rank-2], out[i]
				break
			}
		}
	}

	ranges = n.Shape
	in = n.InStride
	reorder(ranges[:rank], loop[:rank])
	reorder(in[:rank], loop[:rank])
	return ranges, in, out
}

// reorder permutes array in place so array[i] = old array[order[i]].
// Loop order changes here have dramatic performance implications.
func reorder(array, order []int) {
	var tmp [MaxDims]int
	copy(tmp[:], array)
	for i, o := range order {
		array[i] = tmp[o]
	}
}
