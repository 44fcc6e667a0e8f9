package vision

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func TestCanvasCloneIndependent(t *testing.T) {
	orig := NewCanvas(4, 4)
	orig.Set(1, 1, 10, 20, 30)
	dup := orig.Clone()
	dup.Set(1, 1, 200, 200, 200)
	r, g, b := orig.At(1, 1)
	if r != 10 || g != 20 || b != 30 {
		t.Errorf("clone mutation leaked into the original: (%d,%d,%d)", r, g, b)
	}
}

func TestCanvasFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(2, 1, color.NRGBA{R: 9, G: 8, B: 7, A: 255})
	c := CanvasFromImage(img)
	if c.Width != 3 || c.Height != 2 {
		t.Fatalf("canvas %dx%d, want 3x2", c.Width, c.Height)
	}
	r, g, b := c.At(2, 1)
	if r != 9 || g != 8 || b != 7 {
		t.Errorf("pixel = (%d,%d,%d), want (9,8,7)", r, g, b)
	}
}

func TestCanvasToImageRoundTrip(t *testing.T) {
	c := NewCanvas(5, 4)
	c.Set(3, 2, 1, 2, 3)
	c.Set(0, 0, 250, 128, 64)
	back := CanvasFromImage(c.ToImage())
	if !bytes.Equal(c.Pix, back.Pix) {
		t.Error("round trip through NRGBA changed pixel data")
	}
}

func TestOverlayMaskBlends(t *testing.T) {
	c := uniformCanvas(4, 4, 100, 100, 100)
	m := NewMask(4, 4)
	m.Set(2, 2)
	out := OverlayMask(c, m)

	// Unmasked pixels stay untouched
	r, g, b := out.At(0, 0)
	if r != 100 || g != 100 || b != 100 {
		t.Errorf("unmasked pixel = (%d,%d,%d), want (100,100,100)", r, g, b)
	}
	// Masked pixel blends 70% of itself with 30% pure green
	r, g, b = out.At(2, 2)
	if r != 70 || g != 147 || b != 70 {
		t.Errorf("masked pixel = (%d,%d,%d), want (70,147,70)", r, g, b)
	}
	// The source canvas itself must stay unchanged
	r, g, b = c.At(2, 2)
	if r != 100 || g != 100 || b != 100 {
		t.Errorf("overlay mutated the source: (%d,%d,%d)", r, g, b)
	}
}

func TestCutoutMaskAlpha(t *testing.T) {
	c := uniformCanvas(3, 3, 50, 60, 70)
	m := NewMask(3, 3)
	m.Set(1, 1)
	img := CutoutMask(c, m)

	inside := img.NRGBAAt(1, 1)
	if inside.A != 255 || inside.R != 50 || inside.G != 60 || inside.B != 70 {
		t.Errorf("masked pixel = %+v, want opaque (50,60,70)", inside)
	}
	outside := img.NRGBAAt(0, 2)
	if outside.A != 0 {
		t.Errorf("unmasked pixel alpha = %d, want 0", outside.A)
	}
}

func TestMaskAndIntersects(t *testing.T) {
	a := NewMask(3, 3)
	a.Set(0, 0)
	a.Set(1, 1)
	b := NewMask(3, 3)
	b.Set(1, 1)
	b.Set(2, 2)

	if err := a.And(b); err != nil {
		t.Fatalf("And failed: %v", err)
	}
	if got := a.CountSet(); got != 1 {
		t.Errorf("count after And = %d, want 1", got)
	}
	if !a.At(1, 1) || a.At(0, 0) || a.At(2, 2) {
		t.Error("And kept the wrong pixels")
	}
	if err := a.And(NewMask(2, 2)); err == nil {
		t.Error("expected error for dimension mismatch")
	}
}

func TestMaskCoveragePercent(t *testing.T) {
	m := NewMask(10, 10)
	for x := 0; x < 10; x++ {
		m.Set(x, 0)
	}
	if got := m.CoveragePercent(); got != 10 {
		t.Errorf("coverage = %v, want 10", got)
	}
	if got := m.CountSet(); got != 10 {
		t.Errorf("count = %d, want 10", got)
	}
}
