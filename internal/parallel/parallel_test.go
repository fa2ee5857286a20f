package parallel

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func TestFor_Sequential(t *testing.T) {
	cfg := Config{Enabled: false}

	var counter int64
	For(100, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != 100 {
		t.Errorf("Expected 100, got %d", counter)
	}
}

func TestFor_SmallChunk(t *testing.T) {
	// Test that small work units fall back to sequential.
	cfg := DefaultConfig()

	var counter int64
	n := cfg.MinChunkSize - 1

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func TestFor1DTile1D(t *testing.T) {
	for _, cfg := range []Config{DefaultConfig(), {Enabled: false}} {
		n, tile := 103, 10
		covered := make([]int32, n)

		For1DTile1D(n, tile, func(i, c int) {
			if c <= 0 || c > tile {
				t.Errorf("tile extent %d at %d out of range", c, i)
			}
			for k := i; k < i+c; k++ {
				atomic.AddInt32(&covered[k], 1)
			}
		}, cfg)

		for k, v := range covered {
			if v != 1 {
				t.Errorf("index %d visited %d times", k, v)
			}
		}
	}
}

func TestFor1DTile1D_Empty(t *testing.T) {
	called := false
	For1DTile1D(0, 8, func(_, _ int) { called = true }, DefaultConfig())
	if called {
		t.Error("callback invoked for empty range")
	}
}

func TestFor2DTile2D(t *testing.T) {
	n0, n1, t0, t1 := 7, 11, 3, 4
	covered := make([]int32, n0*n1)
	var mu sync.Mutex

	For2DTile2D(n0, n1, t0, t1, func(i0, i1, c0, c1 int) {
		mu.Lock()
		defer mu.Unlock()
		for a := i0; a < i0+c0; a++ {
			for b := i1; b < i1+c1; b++ {
				covered[a*n1+b]++
			}
		}
	}, DefaultConfig())

	for k, v := range covered {
		if v != 1 {
			t.Errorf("index %d visited %d times", k, v)
		}
	}
}

func TestFor6DTile2D(t *testing.T) {
	// Only the last two dimensions tile; the leading four are unit-step.
	dims := [6]int{2, 3, 2, 3, 5, 7}
	total := 1
	for _, d := range dims {
		total *= d
	}
	covered := make([]int32, total)

	For6DTile2D(dims[0], dims[1], dims[2], dims[3], dims[4], dims[5], 2, 3,
		func(i0, i1, i2, i3, i4, i5, c4, c5 int) {
			for a := i4; a < i4+c4; a++ {
				for b := i5; b < i5+c5; b++ {
					idx := ((((i0*dims[1]+i1)*dims[2]+i2)*dims[3]+i3)*dims[4]+a)*dims[5] + b
					atomic.AddInt32(&covered[idx], 1)
				}
			}
		}, DefaultConfig())

	for k, v := range covered {
		if v != 1 {
			t.Errorf("index %d visited %d times", k, v)
		}
	}
}

func BenchmarkFor2DTile2D(b *testing.B) {
	cfg := DefaultConfig()
	n0, n1 := 256, 256

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For2DTile2D(n0, n1, 16, 16, func(i0, i1, c0, c1 int) {
				atomic.AddInt64(&sum, int64(c0*c1))
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfgSeq := cfg
		cfgSeq.Enabled = false
		for i := 0; i < b.N; i++ {
			var sum int64
			For2DTile2D(n0, n1, 16, 16, func(i0, i1, c0, c1 int) {
				atomic.AddInt64(&sum, int64(c0*c1))
			}, cfgSeq)
		}
	})
}
