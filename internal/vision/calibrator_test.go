package vision

import (
	"errors"
	"math"
	"testing"
)

func TestCalibrateOutputDimensions(t *testing.T) {
	cases := []struct {
		name       string
		realWidth  float64
		realHeight float64
		wantWidth  int
	}{
		{"wide wall", 2.0, 1.6, 1000},
		{"square wall", 3.0, 3.0, 800},
		{"classic ratio", 4.0, 3.0, 1067},
		{"tall wall", 1.0, 2.0, 400},
	}

	quad := Quad{
		{X: 10, Y: 20},
		{X: 900, Y: 40},
		{X: 880, Y: 700},
		{X: 30, Y: 680},
	}
	c := NewCalibrator()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := c.Calibrate(quad, tc.realWidth, tc.realHeight)
			if err != nil {
				t.Fatalf("Calibrate failed: %v", err)
			}
			if res.OutputWidth != tc.wantWidth {
				t.Errorf("OutputWidth = %d, want %d", res.OutputWidth, tc.wantWidth)
			}
			if res.OutputHeight != OutputHeight {
				t.Errorf("OutputHeight = %d, want %d", res.OutputHeight, OutputHeight)
			}
			// Output aspect must match the real-world aspect within rounding
			gotAspect := float64(res.OutputWidth) / float64(res.OutputHeight)
			wantAspect := tc.realWidth / tc.realHeight
			if math.Abs(gotAspect-wantAspect) > 1.0/OutputHeight {
				t.Errorf("aspect = %v, want %v", gotAspect, wantAspect)
			}
		})
	}
}

func TestCalibrateMapsCornersExactly(t *testing.T) {
	quad := Quad{
		{X: 120, Y: 80},
		{X: 980, Y: 140},
		{X: 940, Y: 760},
		{X: 90, Y: 700},
	}
	res, err := NewCalibrator().Calibrate(quad, 3.0, 2.0)
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}
	if res.H[8] != 1 {
		t.Errorf("H[8] = %v, want 1", res.H[8])
	}

	want := [4][2]float64{
		{0, 0},
		{float64(res.OutputWidth), 0},
		{float64(res.OutputWidth), float64(res.OutputHeight)},
		{0, float64(res.OutputHeight)},
	}
	for i, p := range quad {
		gx, gy, ok := res.Apply(p.X, p.Y)
		if !ok {
			t.Fatalf("corner %d: zero denominator", i)
		}
		if math.Abs(gx-want[i][0]) > 1e-6 || math.Abs(gy-want[i][1]) > 1e-6 {
			t.Errorf("corner %d mapped to (%v, %v), want (%v, %v)", i, gx, gy, want[i][0], want[i][1])
		}
	}
}

func TestCalibrateIdentityForMatchingRect(t *testing.T) {
	// A quad that already is the destination rectangle must yield the identity
	quad := Quad{
		{X: 0, Y: 0},
		{X: 1000, Y: 0},
		{X: 1000, Y: 800},
		{X: 0, Y: 800},
	}
	res, err := NewCalibrator().Calibrate(quad, 2.0, 1.6)
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}
	identity := [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	for i := range identity {
		if math.Abs(res.H[i]-identity[i]) > 1e-9 {
			t.Errorf("H[%d] = %v, want %v", i, res.H[i], identity[i])
		}
	}
}

func TestCalibrateDegenerateQuad(t *testing.T) {
	cases := []struct {
		name string
		quad Quad
	}{
		{"collinear corners", Quad{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 20, Y: 20}, {X: 30, Y: 30}}},
		{"duplicate corner", Quad{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 100, Y: 80}, {X: 0, Y: 80}}},
		{"all corners equal", Quad{{X: 5, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 5}}},
	}
	c := NewCalibrator()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Calibrate(tc.quad, 1.0, 1.0)
			if err == nil {
				t.Fatal("expected error for degenerate quad")
			}
			var calErr *CalibrationError
			if !errors.As(err, &calErr) {
				t.Fatalf("expected CalibrationError, got %T: %v", err, err)
			}
			if calErr.Reason != ReasonDegenerateQuad {
				t.Errorf("reason = %q, want %q", calErr.Reason, ReasonDegenerateQuad)
			}
		})
	}
}

func TestCalibrateRejectsBadInput(t *testing.T) {
	valid := Quad{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 80}, {X: 0, Y: 80}}
	c := NewCalibrator()

	cases := []struct {
		name   string
		quad   Quad
		width  float64
		height float64
	}{
		{"zero width", valid, 0, 1},
		{"negative height", valid, 2, -1},
		{"nan width", valid, math.NaN(), 1},
		{"infinite height", valid, 2, math.Inf(1)},
		{"non-finite corner", Quad{{X: math.Inf(1), Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 80}, {X: 0, Y: 80}}, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Calibrate(tc.quad, tc.width, tc.height)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}
