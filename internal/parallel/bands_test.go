package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		height   int
		segments int
		want     [][2]int
	}{
		{"even", 8, 4, [][2]int{{0, 2}, {2, 4}, {4, 6}, {6, 8}}},
		{"remainder goes last", 10, 3, [][2]int{{0, 3}, {3, 6}, {6, 10}}},
		{"single", 7, 1, [][2]int{{0, 7}}},
		{"one row each", 3, 3, [][2]int{{0, 1}, {1, 2}, {2, 3}}},
		{"empty", 0, 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.height, tt.segments)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Split(%d, %d) mismatch (-want +got):\n%s", tt.height, tt.segments, diff)
			}
		})
	}
}

func TestSegments(t *testing.T) {
	procs := runtime.GOMAXPROCS(0)

	if got := Segments(100, 100, 1<<16); got != 1 {
		t.Errorf("small job: Segments = %d, want 1", got)
	}
	if got := Segments(0, 100, 1<<16); got != 0 {
		t.Errorf("empty job: Segments = %d, want 0", got)
	}
	if got := Segments(4096, 2, 1); got != min(2, procs) {
		t.Errorf("two rows: Segments = %d, want %d", got, min(2, procs))
	}
	if got := Segments(4096, 4096, 1<<16); got != min(256, procs) {
		t.Errorf("large job: Segments = %d, want %d", got, min(256, procs))
	}
}

func TestBands_CoversEveryRowOnce(t *testing.T) {
	const w, h = 1024, 777
	hits := make([]atomic.Int32, h)

	Bands(w, h, 4096, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			hits[y].Add(1)
		}
	})

	for y := range hits {
		if n := hits[y].Load(); n != 1 {
			t.Fatalf("row %d visited %d times, want 1", y, n)
		}
	}
}

func TestBands_SmallRunsInline(t *testing.T) {
	calls := 0
	Bands(10, 10, 1<<16, func(y0, y1 int) {
		calls++
		if y0 != 0 || y1 != 10 {
			t.Errorf("band = [%d, %d), want [0, 10)", y0, y1)
		}
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
