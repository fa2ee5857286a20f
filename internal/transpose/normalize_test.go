package transpose

import "testing"

func assertNormalized(t *testing.T, got, want Normalized) {
	t.Helper()
	if got.Rank != want.Rank {
		t.Fatalf("Rank = %d, want %d", got.Rank, want.Rank)
	}
	if got.ElementSize != want.ElementSize {
		t.Errorf("ElementSize = %d, want %d", got.ElementSize, want.ElementSize)
	}
	for i := 0; i < want.Rank; i++ {
		if got.Perm[i] != want.Perm[i] {
			t.Errorf("Perm[%d] = %d, want %d", i, got.Perm[i], want.Perm[i])
		}
		if got.Shape[i] != want.Shape[i] {
			t.Errorf("Shape[%d] = %d, want %d", i, got.Shape[i], want.Shape[i])
		}
		if got.InStride[i] != want.InStride[i] {
			t.Errorf("InStride[%d] = %d, want %d", i, got.InStride[i], want.InStride[i])
		}
		if got.OutStride[i] != want.OutStride[i] {
			t.Errorf("OutStride[%d] = %d, want %d", i, got.OutStride[i], want.OutStride[i])
		}
	}
}

func TestNormalizeContiguousIdentity(t *testing.T) {
	// An identity permutation on packed layouts collapses to a single
	// contiguous copy covering the whole tensor.
	n := Normalize(4, []int{0, 1, 2}, []int{2, 3, 4}, nil, nil)
	assertNormalized(t, n, Normalized{
		Rank:        1,
		ElementSize: 96,
		Shape:       [MaxDims]int{1},
		InStride:    [MaxDims]int{96},
		OutStride:   [MaxDims]int{96},
	})
}

func TestNormalize2DTranspose(t *testing.T) {
	// A plain matrix transpose cannot reduce; strides come back in bytes.
	n := Normalize(4, []int{1, 0}, []int{2, 3}, nil, nil)
	assertNormalized(t, n, Normalized{
		Rank:        2,
		ElementSize: 4,
		Perm:        [MaxDims]int{1, 0},
		Shape:       [MaxDims]int{2, 3},
		InStride:    [MaxDims]int{12, 4},
		OutStride:   [MaxDims]int{8, 4},
	})
}

func TestNormalizeUnitAxesAndMerge(t *testing.T) {
	// Size-1 axes vanish; the survivors [4] and [5] are contiguous and
	// order-preserved, so they merge and then fold into one 80-byte copy.
	n := Normalize(4, []int{1, 3, 0, 2}, []int{1, 4, 1, 5}, nil, nil)
	assertNormalized(t, n, Normalized{
		Rank:        1,
		ElementSize: 80,
		Shape:       [MaxDims]int{1},
		InStride:    [MaxDims]int{80},
		OutStride:   [MaxDims]int{80},
	})
}

func TestNormalizeCoalesceAdjacentAxes(t *testing.T) {
	// perm [2, 0, 1] keeps axes 0 and 1 adjacent and contiguous in both
	// layouts, so [3, 4, 5] reduces to a [12, 5] problem.
	n := Normalize(1, []int{2, 0, 1}, []int{3, 4, 5}, nil, nil)
	assertNormalized(t, n, Normalized{
		Rank:        2,
		ElementSize: 1,
		Perm:        [MaxDims]int{1, 0},
		Shape:       [MaxDims]int{12, 5},
		InStride:    [MaxDims]int{5, 1},
		OutStride:   [MaxDims]int{12, 1},
	})
}

func TestNormalizeFoldsInnermostIntoElementSize(t *testing.T) {
	// Axis 2 stays innermost on both sides of perm [1, 0, 2], so its extent
	// folds into the element size, leaving a [2, 3] transpose of 8-byte
	// units. 8 is not a fixed kernel width; the selector routes it to the
	// variable-size kernel.
	n := Normalize(2, []int{1, 0, 2}, []int{2, 3, 4}, nil, nil)
	assertNormalized(t, n, Normalized{
		Rank:        2,
		ElementSize: 8,
		Perm:        [MaxDims]int{1, 0},
		Shape:       [MaxDims]int{2, 3},
		InStride:    [MaxDims]int{24, 8},
		OutStride:   [MaxDims]int{16, 8},
	})
}

func TestNormalizePaddedIdentityKeepsRank2(t *testing.T) {
	// A padded input row stride blocks both coalescing and the rank-1 copy:
	// the problem must stay rank 2 so the row stride is honored.
	n := Normalize(4, []int{0, 1}, []int{2, 3}, []int{4, 1}, nil)
	assertNormalized(t, n, Normalized{
		Rank:        2,
		ElementSize: 4,
		Perm:        [MaxDims]int{0, 1},
		Shape:       [MaxDims]int{2, 3},
		InStride:    [MaxDims]int{16, 4},
		OutStride:   [MaxDims]int{12, 4},
	})
}

func TestNormalizePaddedStridesBlockCoalescing(t *testing.T) {
	// Same transpose as TestNormalize2DTranspose but with a padded input:
	// strides scale to bytes and nothing reduces.
	n := Normalize(4, []int{1, 0}, []int{2, 3}, []int{4, 1}, []int{2, 1})
	assertNormalized(t, n, Normalized{
		Rank:        2,
		ElementSize: 4,
		Perm:        [MaxDims]int{1, 0},
		Shape:       [MaxDims]int{2, 3},
		InStride:    [MaxDims]int{16, 4},
		OutStride:   [MaxDims]int{8, 4},
	})
}

func TestNormalizeLoneStridedAxisKeepsRank2(t *testing.T) {
	// Dropping the size-1 axis leaves a single axis with stride 2 on both
	// sides. That is not a contiguous copy; the run is padded with a unit
	// inner axis so its strides survive into the plan.
	n := Normalize(1, []int{0, 1}, []int{5, 1}, []int{2, 1}, []int{2, 1})
	assertNormalized(t, n, Normalized{
		Rank:        2,
		ElementSize: 1,
		Perm:        [MaxDims]int{0, 1},
		Shape:       [MaxDims]int{5, 1},
		InStride:    [MaxDims]int{2, 1},
		OutStride:   [MaxDims]int{2, 1},
	})
}

func TestNormalizeAllUnitAxes(t *testing.T) {
	n := Normalize(2, []int{1, 0}, []int{1, 1}, nil, nil)
	assertNormalized(t, n, Normalized{
		Rank:        1,
		ElementSize: 2,
		Shape:       [MaxDims]int{1},
		InStride:    [MaxDims]int{2},
		OutStride:   [MaxDims]int{2},
	})
}
