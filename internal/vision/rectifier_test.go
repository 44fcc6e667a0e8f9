package vision

import "testing"

// gradientCanvas builds a canvas where every pixel encodes its own coordinates.
func gradientCanvas(width, height int) *Canvas {
	c := NewCanvas(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c.Set(x, y, uint8(x%256), uint8(y%256), uint8((x+y)%256))
		}
	}
	return c
}

// uniformCanvas builds a canvas filled with a single color.
func uniformCanvas(width, height int, r, g, b uint8) *Canvas {
	c := NewCanvas(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c.Set(x, y, r, g, b)
		}
	}
	return c
}

func TestRectifyIdentity(t *testing.T) {
	src := gradientCanvas(1000, 800)
	quad := Quad{
		{X: 0, Y: 0},
		{X: 1000, Y: 0},
		{X: 1000, Y: 800},
		{X: 0, Y: 800},
	}
	calib, err := NewCalibrator().Calibrate(quad, 2.0, 1.6)
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}
	out, err := NewRectifier().Rectify(src, calib)
	if err != nil {
		t.Fatalf("Rectify failed: %v", err)
	}
	if out.Width != src.Width || out.Height != src.Height {
		t.Fatalf("output %dx%d, want %dx%d", out.Width, out.Height, src.Width, src.Height)
	}
	mismatches := 0
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			r1, g1, b1 := src.At(x, y)
			r2, g2, b2 := out.At(x, y)
			if r1 != r2 || g1 != g2 || b1 != b2 {
				mismatches++
			}
		}
	}
	if mismatches > 0 {
		t.Errorf("identity rectification changed %d pixels", mismatches)
	}
}

func TestRectifyMatchesDirectUpscale(t *testing.T) {
	// Full-frame quad with a 10x upscale: every 10th destination pixel lands
	// exactly on an integer source pixel
	src := gradientCanvas(100, 80)
	quad := Quad{
		{X: 0, Y: 0},
		{X: 100, Y: 0},
		{X: 100, Y: 80},
		{X: 0, Y: 80},
	}
	calib, err := NewCalibrator().Calibrate(quad, 2.0, 1.6)
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}
	if calib.OutputWidth != 1000 || calib.OutputHeight != 800 {
		t.Fatalf("output %dx%d, want 1000x800", calib.OutputWidth, calib.OutputHeight)
	}
	out, err := NewRectifier().Rectify(src, calib)
	if err != nil {
		t.Fatalf("Rectify failed: %v", err)
	}
	mismatches := 0
	for v := 0; v < out.Height; v += 10 {
		for u := 0; u < out.Width; u += 10 {
			wantR, wantG, wantB := src.At(u/10, v/10)
			gotR, gotG, gotB := out.At(u, v)
			if wantR != gotR || wantG != gotG || wantB != gotB {
				mismatches++
			}
		}
	}
	if mismatches > 0 {
		t.Errorf("%d grid pixels differ from the source", mismatches)
	}
}

func TestRectifyOutOfBoundsSentinel(t *testing.T) {
	// The quad sticks out 20px beyond the top-left image corner, so the left
	// part of the output has no source pixels behind it
	src := uniformCanvas(50, 50, 100, 150, 200)
	quad := Quad{
		{X: -20, Y: -20},
		{X: 30, Y: -20},
		{X: 30, Y: 30},
		{X: -20, Y: 30},
	}
	calib, err := NewCalibrator().Calibrate(quad, 1.0, 1.0)
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}
	out, err := NewRectifier().Rectify(src, calib)
	if err != nil {
		t.Fatalf("Rectify failed: %v", err)
	}

	// Source x = u/16 - 20, so the image starts at u = 320
	cases := []struct {
		u, v      int
		wantBlack bool
	}{
		{0, 0, true},
		{319, 400, true},
		{400, 200, true},
		{340, 400, false},
		{700, 700, false},
	}
	for _, tc := range cases {
		r, g, b := out.At(tc.u, tc.v)
		if tc.wantBlack {
			if r != 0 || g != 0 || b != 0 {
				t.Errorf("pixel (%d,%d) = (%d,%d,%d), want black sentinel", tc.u, tc.v, r, g, b)
			}
		} else {
			if r != 100 || g != 150 || b != 200 {
				t.Errorf("pixel (%d,%d) = (%d,%d,%d), want source color", tc.u, tc.v, r, g, b)
			}
		}
	}
}

func TestValidMaskExcludesSentinelRegion(t *testing.T) {
	// Same geometry as the sentinel test: source pixels exist only where
	// u/16 - 20 lands inside [0, 49], i.e. columns and rows 320..799
	quad := Quad{
		{X: -20, Y: -20},
		{X: 30, Y: -20},
		{X: 30, Y: 30},
		{X: -20, Y: 30},
	}
	calib, err := NewCalibrator().Calibrate(quad, 1.0, 1.0)
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}
	valid, err := NewRectifier().ValidMask(calib, 50, 50)
	if err != nil {
		t.Fatalf("ValidMask failed: %v", err)
	}

	if got := valid.CountSet(); got != 480*480 {
		t.Errorf("valid pixel count = %d, want %d", got, 480*480)
	}
	for _, tc := range []struct {
		u, v int
		want bool
	}{
		{0, 0, false},
		{319, 400, false},
		{400, 200, false},
		{320, 320, true},
		{799, 799, true},
	} {
		if got := valid.At(tc.u, tc.v); got != tc.want {
			t.Errorf("valid(%d,%d) = %v, want %v", tc.u, tc.v, got, tc.want)
		}
	}
}

func TestRectifyRejectsEmptySource(t *testing.T) {
	quad := Quad{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	calib, err := NewCalibrator().Calibrate(quad, 1.0, 1.0)
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}
	if _, err := NewRectifier().Rectify(nil, calib); err == nil {
		t.Error("expected error for nil source canvas")
	}
	if _, err := NewRectifier().Rectify(NewCanvas(10, 10), nil); err == nil {
		t.Error("expected error for nil calibration")
	}
}
