package kernel

import "unsafe"

// transpose8 transposes a tile of 1-byte elements.
func transpose8(x, y []byte, inRowStride, outRowStride, blockWidth, blockHeight int) {
	for h := 0; h < blockHeight; h++ {
		row := x[h*inRowStride:]
		for w := 0; w < blockWidth; w++ {
			y[w*outRowStride+h] = row[w]
		}
	}
}

// transpose16 transposes a tile of 2-byte elements.
func transpose16(x, y []byte, inRowStride, outRowStride, blockWidth, blockHeight int) {
	for h := 0; h < blockHeight; h++ {
		row := x[h*inRowStride:]
		base := h * 2
		for w := 0; w < blockWidth; w++ {
			dst := w*outRowStride + base
			src := w * 2
			y[dst] = row[src]
			y[dst+1] = row[src+1]
		}
	}
}

// transpose32 transposes a tile of 4-byte elements. When both row strides
// and both buffers are word aligned the tile is moved as uint32 words.
func transpose32(x, y []byte, inRowStride, outRowStride, blockWidth, blockHeight int) {
	if inRowStride%4 == 0 && outRowStride%4 == 0 && aligned4(x) && aligned4(y) {
		transpose32Words(x, y, inRowStride/4, outRowStride/4, blockWidth, blockHeight)
		return
	}
	for h := 0; h < blockHeight; h++ {
		row := x[h*inRowStride:]
		base := h * 4
		for w := 0; w < blockWidth; w++ {
			copy(y[w*outRowStride+base:w*outRowStride+base+4], row[w*4:w*4+4])
		}
	}
}

// transpose32Words is the aligned fast path with strides in words.
func transpose32Words(x, y []byte, inRowStride, outRowStride, blockWidth, blockHeight int) {
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation; alignment checked by caller
	xs := unsafe.Slice((*uint32)(unsafe.Pointer(&x[0])), (blockHeight-1)*inRowStride+blockWidth)
	//nolint:gosec
	ys := unsafe.Slice((*uint32)(unsafe.Pointer(&y[0])), (blockWidth-1)*outRowStride+blockHeight)
	for h := 0; h < blockHeight; h++ {
		row := xs[h*inRowStride:]
		for w := 0; w < blockWidth; w++ {
			ys[w*outRowStride+h] = row[w]
		}
	}
}

func aligned4(b []byte) bool {
	return uintptr(unsafe.Pointer(&b[0]))%4 == 0
}

// transposev transposes a tile of elements of arbitrary width, honoring
// explicit element strides so padded layouts work.
func transposev(x, y []byte, inRowStride, outRowStride, inElemStride, outElemStride, elementSize, blockWidth, blockHeight int) {
	for h := 0; h < blockHeight; h++ {
		for w := 0; w < blockWidth; w++ {
			src := h*inRowStride + w*inElemStride
			dst := w*outRowStride + h*outElemStride
			copy(y[dst:dst+elementSize], x[src:src+elementSize])
		}
	}
}

// copyBytes is the contiguous-copy kernel used by the rank-1 path.
func copyBytes(y, x []byte) {
	copy(y, x)
}
