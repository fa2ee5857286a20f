package kernel

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

const (
	variableTile = 8
	copyTile     = 1024
)

// detectVector maps the host CPU to an ISA class and vector width in bytes.
// The width only drives tile sizing; the kernels themselves are portable.
func detectVector() (name string, width int) {
	switch runtime.GOARCH {
	case "amd64":
		switch {
		case cpu.X86.HasAVX512F:
			return "avx512", 64
		case cpu.X86.HasAVX2:
			return "avx2", 32
		default:
			// SSE2 is the amd64 baseline.
			return "sse2", 16
		}
	case "arm64":
		switch {
		case cpu.ARM64.HasSVE:
			return "sve", 16
		case cpu.ARM64.HasASIMD:
			return "neon", 16
		default:
			return "scalar", 8
		}
	default:
		return "scalar", 8
	}
}

// tileFor sizes a square transpose tile so one row fills a vector register,
// clamped to keep the working set cache resident.
func tileFor(vectorWidth, elementSize int) int {
	t := vectorWidth / elementSize
	if t < 4 {
		return 4
	}
	if t > 32 {
		return 32
	}
	return t
}
