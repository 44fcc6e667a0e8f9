package vision

import (
	"bytes"
	"errors"
	"testing"
)

// blockCanvas builds a light background with a solid dark block at (x0, y0).
func blockCanvas(width, height, x0, y0, blockW, blockH int) *Canvas {
	c := NewCanvas(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x >= x0 && x < x0+blockW && y >= y0 && y < y0+blockH {
				c.Set(x, y, 30, 40, 50)
			} else {
				c.Set(x, y, 200, 210, 220)
			}
		}
	}
	return c
}

func TestSegmentSolidBlockExact(t *testing.T) {
	c := blockCanvas(120, 120, 10, 10, 50, 50)
	mask, err := NewSegmenter().Segment(c, Point2D{X: 20, Y: 20}, 50)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if got := mask.CountSet(); got != 2500 {
		t.Errorf("mask covers %d pixels, want 2500", got)
	}
	cases := []struct {
		x, y int
		want bool
	}{
		{10, 10, true},
		{59, 59, true},
		{10, 59, true},
		{59, 10, true},
		{9, 10, false},
		{60, 59, false},
		{35, 9, false},
		{35, 60, false},
	}
	for _, tc := range cases {
		if mask.At(tc.x, tc.y) != tc.want {
			t.Errorf("mask.At(%d,%d) = %v, want %v", tc.x, tc.y, mask.At(tc.x, tc.y), tc.want)
		}
	}
}

func TestSegmentIdempotent(t *testing.T) {
	c := blockCanvas(80, 80, 5, 5, 30, 30)
	s := NewSegmenter()
	m1, err := s.Segment(c, Point2D{X: 10, Y: 10}, 50)
	if err != nil {
		t.Fatalf("first Segment failed: %v", err)
	}
	m2, err := s.Segment(c, Point2D{X: 10, Y: 10}, 50)
	if err != nil {
		t.Fatalf("second Segment failed: %v", err)
	}
	if !bytes.Equal(m1.Bits, m2.Bits) {
		t.Error("same seed and tolerance produced different masks")
	}
}

func TestSegmentToleranceMonotonic(t *testing.T) {
	// Horizontal gradient: red grows by 5 per column
	c := NewCanvas(52, 8)
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			c.Set(x, y, uint8(x*5), 100, 100)
		}
	}
	s := NewSegmenter()
	seed := Point2D{X: 26, Y: 4}
	small, err := s.Segment(c, seed, 20)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	big, err := s.Segment(c, seed, 60)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	for i := range small.Bits {
		if small.Bits[i] != 0 && big.Bits[i] == 0 {
			t.Fatalf("pixel %d selected at tolerance 20 but not at 60", i)
		}
	}
	if small.CountSet() >= big.CountSet() {
		t.Errorf("tolerance 20 selected %d pixels, tolerance 60 selected %d", small.CountSet(), big.CountSet())
	}
}

func TestSegmentComparesToSeedNotNeighbor(t *testing.T) {
	// Adjacent columns differ by 10, well within tolerance, but the fill must
	// stop where the distance to the seed color itself exceeds the tolerance
	c := NewCanvas(11, 3)
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			c.Set(x, y, uint8(x*10), 0, 0)
		}
	}
	mask, err := NewSegmenter().Segment(c, Point2D{X: 5, Y: 1}, 25)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	// Seed red = 50, admitted range is [25, 75], i.e. columns 3..7
	for x := 0; x < 11; x++ {
		want := x >= 3 && x <= 7
		if mask.At(x, 1) != want {
			t.Errorf("column %d: selected = %v, want %v", x, mask.At(x, 1), want)
		}
	}
}

func TestSegmentSeedOutOfBounds(t *testing.T) {
	c := blockCanvas(40, 40, 0, 0, 10, 10)
	s := NewSegmenter()
	seeds := []Point2D{
		{X: -1, Y: 5},
		{X: 5, Y: -0.5},
		{X: 40, Y: 5},
		{X: 5, Y: 1e9},
	}
	for _, seed := range seeds {
		_, err := s.Segment(c, seed, 50)
		var segErr *SegmentationError
		if !errors.As(err, &segErr) {
			t.Fatalf("seed %+v: expected SegmentationError, got %v", seed, err)
		}
		if segErr.Reason != ReasonSeedOutOfBounds {
			t.Errorf("seed %+v: reason = %q, want %q", seed, segErr.Reason, ReasonSeedOutOfBounds)
		}
	}
}

func TestSegmentFractionalSeedFloored(t *testing.T) {
	// Seed (10.9, 10.9) must hit pixel (10, 10) inside the block
	c := blockCanvas(40, 40, 10, 10, 5, 5)
	mask, err := NewSegmenter().Segment(c, Point2D{X: 10.9, Y: 10.9}, 50)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if got := mask.CountSet(); got != 25 {
		t.Errorf("mask covers %d pixels, want 25", got)
	}
}

func TestSegmentToleranceRange(t *testing.T) {
	c := blockCanvas(10, 10, 0, 0, 5, 5)
	for _, tol := range []int{-1, 256} {
		_, err := NewSegmenter().Segment(c, Point2D{X: 2, Y: 2}, tol)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("tolerance %d: expected ValidationError, got %v", tol, err)
		}
	}
}

func TestMaskOrAccumulates(t *testing.T) {
	// Two disconnected dark blocks on one canvas
	c := NewCanvas(60, 20)
	for y := 0; y < 20; y++ {
		for x := 0; x < 60; x++ {
			switch {
			case x >= 2 && x < 12 && y >= 2 && y < 12:
				c.Set(x, y, 10, 10, 10)
			case x >= 40 && x < 50 && y >= 5 && y < 15:
				c.Set(x, y, 10, 10, 10)
			default:
				c.Set(x, y, 240, 240, 240)
			}
		}
	}
	s := NewSegmenter()
	m1, err := s.Segment(c, Point2D{X: 5, Y: 5}, 30)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	m2, err := s.Segment(c, Point2D{X: 45, Y: 10}, 30)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if err := m1.Or(m2); err != nil {
		t.Fatalf("Or failed: %v", err)
	}
	if got := m1.CountSet(); got != 200 {
		t.Errorf("union covers %d pixels, want 200", got)
	}

	if err := m1.Or(NewMask(10, 10)); err == nil {
		t.Error("expected error for mismatched mask dimensions")
	}
}
