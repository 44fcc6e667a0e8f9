package vision

import (
	"errors"
	"math"
	"testing"
)

func fptr(v float64) *float64 { return &v }

func TestItemAreaShapes(t *testing.T) {
	a := NewAccountant()
	cases := []struct {
		name    string
		item    DeselectionItem
		want    float64
		wantErr bool
	}{
		{"rect double", DeselectionItem{Shape: ShapeRect, Count: 2, Length: fptr(2.0), Breadth: fptr(1.5), Unit: "m"}, 6.0, false},
		{"circle", DeselectionItem{Shape: ShapeCircle, Count: 1, Diameter: fptr(2.0), Unit: "m"}, math.Pi, false},
		{"irregular triple", DeselectionItem{Shape: ShapeIrregular, Count: 3, Area: fptr(3.3), Unit: "m"}, 9.9, false},
		{"rect missing breadth", DeselectionItem{Shape: ShapeRect, Count: 1, Length: fptr(2.0), Unit: "m"}, 0, true},
		{"circle missing diameter", DeselectionItem{Shape: ShapeCircle, Count: 1, Unit: "m"}, 0, true},
		{"irregular missing area", DeselectionItem{Shape: ShapeIrregular, Count: 1, Unit: "m"}, 0, true},
		{"zero count", DeselectionItem{Shape: ShapeRect, Count: 0, Length: fptr(1), Breadth: fptr(1), Unit: "m"}, 0, true},
		{"negative length", DeselectionItem{Shape: ShapeRect, Count: 1, Length: fptr(-2), Breadth: fptr(1), Unit: "m"}, 0, true},
		{"unknown shape", DeselectionItem{Shape: "blob", Count: 1, Unit: "m"}, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := a.ItemArea(tc.item)
			if tc.wantErr {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ItemArea failed: %v", err)
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("area = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSummarizeCemented(t *testing.T) {
	// 1000x800 canvas of a 2x1.6 surface: each pixel covers 0.002x0.002
	mask := NewMask(1000, 800)
	for y := 0; y < 400; y++ {
		for x := 0; x < 250; x++ {
			mask.Set(x, y)
		}
	}
	sum, err := NewAccountant().Summarize(SummaryInput{
		CanvasWidth:  1000,
		CanvasHeight: 800,
		RealWidth:    2,
		RealHeight:   1.6,
		CementedMask: mask,
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if sum.DeselectArea != 0 || sum.EffectiveDeselectArea != 0 {
		t.Errorf("deselect areas = %v/%v, want 0/0", sum.DeselectArea, sum.EffectiveDeselectArea)
	}
	if math.Abs(sum.UsableArea-3.2) > 1e-9 {
		t.Errorf("usable = %v, want 3.2", sum.UsableArea)
	}
	if sum.CementedArea == nil || math.Abs(*sum.CementedArea-0.4) > 1e-9 {
		t.Errorf("cemented area = %v, want 0.4", sum.CementedArea)
	}
	if sum.CementedPercent == nil || math.Abs(*sum.CementedPercent-12.5) > 1e-9 {
		t.Errorf("cemented percent = %v, want 12.5", sum.CementedPercent)
	}
	if sum.MaskCoveragePercent == nil || math.Abs(*sum.MaskCoveragePercent-12.5) > 1e-9 {
		t.Errorf("mask coverage = %v, want 12.5", sum.MaskCoveragePercent)
	}
	if sum.SortKey != sum.UsableArea {
		t.Errorf("sort key = %v, want %v", sum.SortKey, sum.UsableArea)
	}
	if len(sum.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", sum.Warnings)
	}
}

func TestSummarizeNaiveSumPolicy(t *testing.T) {
	sum, err := NewAccountant().Summarize(SummaryInput{
		CanvasWidth:  800,
		CanvasHeight: 800,
		RealWidth:    3,
		RealHeight:   3,
		Deselections: []DeselectionItem{
			{Shape: ShapeRect, Count: 1, Length: fptr(1), Breadth: fptr(1), Unit: "m"},
			{Shape: ShapeRect, Count: 1, Length: fptr(1), Breadth: fptr(1), Unit: "m"},
		},
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	// Overlapping items are not deduplicated, the sum stays naive
	if sum.DeselectArea != 2 {
		t.Errorf("deselect area = %v, want 2", sum.DeselectArea)
	}
	if sum.EffectiveDeselectArea != sum.DeselectArea {
		t.Errorf("effective = %v, want the naive sum %v", sum.EffectiveDeselectArea, sum.DeselectArea)
	}
	if math.Abs(sum.UsableArea-7) > 1e-9 {
		t.Errorf("usable = %v, want 7", sum.UsableArea)
	}
	if sum.CementedArea != nil || sum.CementedPercent != nil || sum.MaskCoveragePercent != nil {
		t.Error("mask-derived fields must stay unset without a mask")
	}
}

func TestSummarizeUsableClamped(t *testing.T) {
	mask := NewMask(400, 300)
	mask.Set(1, 1)
	sum, err := NewAccountant().Summarize(SummaryInput{
		CanvasWidth:  400,
		CanvasHeight: 300,
		RealWidth:    4,
		RealHeight:   3,
		Deselections: []DeselectionItem{
			{Shape: ShapeIrregular, Count: 1, Area: fptr(15), Unit: "m"},
		},
		CementedMask: mask,
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if sum.UsableArea != 0 {
		t.Errorf("usable = %v, want clamped 0", sum.UsableArea)
	}
	if len(sum.Warnings) == 0 {
		t.Error("expected a clamp warning")
	}
	if sum.CementedPercent != nil {
		t.Errorf("cemented percent = %v, want unset when usable is 0", *sum.CementedPercent)
	}
	if sum.CementedArea == nil {
		t.Error("cemented area must still be computed")
	}
	if sum.SortKey != 0 {
		t.Errorf("sort key = %v, want 0", sum.SortKey)
	}
}

func TestSummarizeCementedPercentClamped(t *testing.T) {
	// Full mask over a surface that is almost entirely deselected
	mask := NewMask(100, 100)
	for i := range mask.Bits {
		mask.Bits[i] = 1
	}
	sum, err := NewAccountant().Summarize(SummaryInput{
		CanvasWidth:  100,
		CanvasHeight: 100,
		RealWidth:    2,
		RealHeight:   2,
		Deselections: []DeselectionItem{
			{Shape: ShapeIrregular, Count: 1, Area: fptr(3.9), Unit: "m"},
		},
		CementedMask: mask,
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if sum.CementedPercent == nil || *sum.CementedPercent != 100 {
		t.Errorf("cemented percent = %v, want clamped 100", sum.CementedPercent)
	}
	if len(sum.Warnings) == 0 {
		t.Error("expected a clamp warning")
	}
}

func TestSummarizeMixedUnits(t *testing.T) {
	_, err := NewAccountant().Summarize(SummaryInput{
		CanvasWidth:  800,
		CanvasHeight: 800,
		RealWidth:    3,
		RealHeight:   3,
		Deselections: []DeselectionItem{
			{Shape: ShapeRect, Count: 1, Length: fptr(1), Breadth: fptr(1), Unit: "m"},
			{Shape: ShapeRect, Count: 1, Length: fptr(10), Breadth: fptr(10), Unit: "ft"},
		},
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for mixed units, got %v", err)
	}
}

func TestSummarizeMaskDimensionMismatch(t *testing.T) {
	_, err := NewAccountant().Summarize(SummaryInput{
		CanvasWidth:  800,
		CanvasHeight: 600,
		RealWidth:    4,
		RealHeight:   3,
		CementedMask: NewMask(10, 10),
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for mask mismatch, got %v", err)
	}
}

func TestSummarizeScaleDivergenceWarning(t *testing.T) {
	// Canvas aspect 1:1 against real aspect 2:1 makes per-axis scales diverge
	sum, err := NewAccountant().Summarize(SummaryInput{
		CanvasWidth:  100,
		CanvasHeight: 100,
		RealWidth:    2,
		RealHeight:   1,
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if len(sum.Warnings) == 0 {
		t.Error("expected a scale divergence warning")
	}
}
