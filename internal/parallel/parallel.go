// Package parallel provides the tiled parallel-for engine that executes
// operator compute plans.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum work items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 16,
	}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinChunkSize {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, 1)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

func tiles(n, t int) int {
	return (n + t - 1) / t
}

// For1DTile1D invokes f once per tile over [0, n), passing the tile start
// and its clamped extent.
func For1DTile1D(n, tile int, f func(i, c int), cfg Config) {
	if n <= 0 {
		return
	}
	if tile <= 0 {
		tile = 1
	}
	For(tiles(n, tile), func(t int) {
		i := t * tile
		f(i, min(tile, n-i))
	}, cfg)
}

// For2DTile2D iterates a 2-D index space tiled along both dimensions.
// f receives the tile origin (i0, i1) and the clamped tile extents.
func For2DTile2D(n0, n1, t0, t1 int, f func(i0, i1, c0, c1 int), cfg Config) {
	if n0 <= 0 || n1 <= 0 {
		return
	}
	m0, m1 := tiles(n0, t0), tiles(n1, t1)
	For(m0*m1, func(t int) {
		a0, a1 := t/m1, t%m1
		i0, i1 := a0*t0, a1*t1
		f(i0, i1, min(t0, n0-i0), min(t1, n1-i1))
	}, cfg)
}

// For3DTile2D iterates a 3-D index space, tiling the last two dimensions.
func For3DTile2D(n0, n1, n2, t1, t2 int, f func(i0, i1, i2, c1, c2 int), cfg Config) {
	if n0 <= 0 || n1 <= 0 || n2 <= 0 {
		return
	}
	m1, m2 := tiles(n1, t1), tiles(n2, t2)
	For(n0*m1*m2, func(t int) {
		i0 := t / (m1 * m2)
		r := t % (m1 * m2)
		i1, i2 := (r/m2)*t1, (r%m2)*t2
		f(i0, i1, i2, min(t1, n1-i1), min(t2, n2-i2))
	}, cfg)
}

// For4DTile2D iterates a 4-D index space, tiling the last two dimensions.
func For4DTile2D(n0, n1, n2, n3, t2, t3 int, f func(i0, i1, i2, i3, c2, c3 int), cfg Config) {
	if n0 <= 0 || n1 <= 0 || n2 <= 0 || n3 <= 0 {
		return
	}
	m2, m3 := tiles(n2, t2), tiles(n3, t3)
	For(n0*n1*m2*m3, func(t int) {
		i0 := t / (n1 * m2 * m3)
		r := t % (n1 * m2 * m3)
		i1 := r / (m2 * m3)
		r %= m2 * m3
		i2, i3 := (r/m3)*t2, (r%m3)*t3
		f(i0, i1, i2, i3, min(t2, n2-i2), min(t3, n3-i3))
	}, cfg)
}

// For5DTile2D iterates a 5-D index space, tiling the last two dimensions.
func For5DTile2D(n0, n1, n2, n3, n4, t3, t4 int, f func(i0, i1, i2, i3, i4, c3, c4 int), cfg Config) {
	if n0 <= 0 || n1 <= 0 || n2 <= 0 || n3 <= 0 || n4 <= 0 {
		return
	}
	m3, m4 := tiles(n3, t3), tiles(n4, t4)
	For(n0*n1*n2*m3*m4, func(t int) {
		i0 := t / (n1 * n2 * m3 * m4)
		r := t % (n1 * n2 * m3 * m4)
		i1 := r / (n2 * m3 * m4)
		r %= n2 * m3 * m4
		i2 := r / (m3 * m4)
		r %= m3 * m4
		i3, i4 := (r/m4)*t3, (r%m4)*t4
		f(i0, i1, i2, i3, i4, min(t3, n3-i3), min(t4, n4-i4))
	}, cfg)
}

// For6DTile2D iterates a 6-D index space, tiling the last two dimensions.
func For6DTile2D(n0, n1, n2, n3, n4, n5, t4, t5 int, f func(i0, i1, i2, i3, i4, i5, c4, c5 int), cfg Config) {
	if n0 <= 0 || n1 <= 0 || n2 <= 0 || n3 <= 0 || n4 <= 0 || n5 <= 0 {
		return
	}
	m4, m5 := tiles(n4, t4), tiles(n5, t5)
	For(n0*n1*n2*n3*m4*m5, func(t int) {
		i0 := t / (n1 * n2 * n3 * m4 * m5)
		r := t % (n1 * n2 * n3 * m4 * m5)
		i1 := r / (n2 * n3 * m4 * m5)
		r %= n2 * n3 * m4 * m5
		i2 := r / (n3 * m4 * m5)
		r %= n3 * m4 * m5
		i3 := r / (m4 * m5)
		r %= m4 * m5
		i4, i5 := (r/m5)*t4, (r%m5)*t5
		f(i0, i1, i2, i3, i4, i5, min(t4, n4-i4), min(t5, n5-i5))
	}, cfg)
}
