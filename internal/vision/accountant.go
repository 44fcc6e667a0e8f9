package vision

import (
	"fmt"
	"math"
)

// Формы вычитаемых областей
const (
	ShapeRect      = "rect"
	ShapeCircle    = "circle"
	ShapeIrregular = "irregular"
)

// DeselectionItem объявленная пользователем область, исключаемая из полезной
// площади: окно, дверь, колонна. Обязательные размеры зависят от формы
type DeselectionItem struct {
	Shape    string   `json:"shape"`
	Count    int      `json:"count"`
	Length   *float64 `json:"length,omitempty"`
	Breadth  *float64 `json:"breadth,omitempty"`
	Diameter *float64 `json:"diameter,omitempty"`
	Area     *float64 `json:"area,omitempty"`
	Unit     string   `json:"unit"`
}

// AreaSummary сводка площадей поверхности. Все поля пересчитываются вместе
// и сохраняются как единое целое
type AreaSummary struct {
	MaskCoveragePercent   *float64 `json:"mask_coverage_percent,omitempty"`
	DeselectArea          float64  `json:"deselect_area"`
	EffectiveDeselectArea float64  `json:"effective_deselect_area"`
	UsableArea            float64  `json:"usable_area"`
	CementedArea          *float64 `json:"cemented_area,omitempty"`
	CementedPercent       *float64 `json:"cemented_percent,omitempty"`
	SortKey               float64  `json:"sort_key"`
	Warnings              []string `json:"warnings,omitempty"`
}

// SummaryInput входные данные расчета сводки. CementedMask необязательна
type SummaryInput struct {
	CanvasWidth  int
	CanvasHeight int
	RealWidth    float64
	RealHeight   float64
	Deselections []DeselectionItem
	CementedMask *Mask
}

// Accountant переводит маски и объявленные размеры в реальные площади
type Accountant struct{}

// NewAccountant создает новый калькулятор площадей
func NewAccountant() *Accountant {
	return &Accountant{}
}

// ItemArea площадь одного элемента по его форме с учетом количества
func (a *Accountant) ItemArea(item DeselectionItem) (float64, error) {
	if item.Count < 1 {
		return 0, &ValidationError{Field: "count", Reason: "must be at least 1"}
	}
	switch item.Shape {
	case ShapeRect:
		if item.Length == nil || item.Breadth == nil {
			return 0, &ValidationError{Field: "length/breadth", Reason: "required for rect"}
		}
		if *item.Length <= 0 || *item.Breadth <= 0 {
			return 0, &ValidationError{Field: "length/breadth", Reason: "must be positive"}
		}
		return *item.Length * *item.Breadth * float64(item.Count), nil
	case ShapeCircle:
		if item.Diameter == nil {
			return 0, &ValidationError{Field: "diameter", Reason: "required for circle"}
		}
		if *item.Diameter <= 0 {
			return 0, &ValidationError{Field: "diameter", Reason: "must be positive"}
		}
		radius := *item.Diameter / 2
		return math.Pi * radius * radius * float64(item.Count), nil
	case ShapeIrregular:
		if item.Area == nil {
			return 0, &ValidationError{Field: "area", Reason: "required for irregular"}
		}
		if *item.Area < 0 {
			return 0, &ValidationError{Field: "area", Reason: "must not be negative"}
		}
		return *item.Area * float64(item.Count), nil
	default:
		return 0, &ValidationError{Field: "shape", Reason: fmt.Sprintf("unknown shape %q", item.Shape)}
	}
}

// Summarize собирает полную сводку площадей. Противоречия данных не роняют
// расчет: отрицательные остатки и проценты сверх сотни гасятся в предупреждения
func (a *Accountant) Summarize(input SummaryInput) (*AreaSummary, error) {
	if input.CanvasWidth < 1 || input.CanvasHeight < 1 {
		return nil, &ValidationError{Field: "canvas", Reason: "canvas dimensions must be positive"}
	}
	if !(input.RealWidth > 0) || !(input.RealHeight > 0) {
		return nil, &ValidationError{Field: "real_width/real_height", Reason: "must be positive"}
	}
	if input.CementedMask != nil &&
		(input.CementedMask.Width != input.CanvasWidth || input.CementedMask.Height != input.CanvasHeight) {
		return nil, &ValidationError{Field: "cemented_mask", Reason: "mask dimensions must match canvas"}
	}

	summary := &AreaSummary{}

	// Масштабы по осям совпадают по построению холста, расхождение сверх
	// процента означает несогласованные входные данные
	scaleX := input.RealWidth / float64(input.CanvasWidth)
	scaleY := input.RealHeight / float64(input.CanvasHeight)
	if relDiff(scaleX, scaleY) > 0.01 {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("per-axis scales diverge: %.6g vs %.6g", scaleX, scaleY))
	}

	var unit string
	for i, item := range input.Deselections {
		if i == 0 {
			unit = item.Unit
		} else if item.Unit != unit {
			return nil, &ValidationError{Field: "unit", Reason: "mixed units across deselection items"}
		}
		area, err := a.ItemArea(item)
		if err != nil {
			return nil, err
		}
		summary.DeselectArea += area
	}

	// Перекрытия между элементами не вычитаются, сумма наивная
	summary.EffectiveDeselectArea = summary.DeselectArea

	totalArea := input.RealWidth * input.RealHeight
	usable := totalArea - summary.EffectiveDeselectArea
	if usable < 0 {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("deselected area %.4g exceeds surface area %.4g, usable area clamped to 0",
				summary.EffectiveDeselectArea, totalArea))
		usable = 0
	}
	summary.UsableArea = usable

	if input.CementedMask != nil {
		coverage := input.CementedMask.CoveragePercent()
		summary.MaskCoveragePercent = &coverage

		cemented := float64(input.CementedMask.CountSet()) * scaleX * scaleY
		summary.CementedArea = &cemented

		if summary.UsableArea > 0 {
			percent := cemented / summary.UsableArea * 100
			if percent > 100 {
				summary.Warnings = append(summary.Warnings,
					fmt.Sprintf("cemented area %.4g exceeds usable area %.4g, percent clamped to 100",
						cemented, summary.UsableArea))
				percent = 100
			}
			summary.CementedPercent = &percent
		} else {
			summary.Warnings = append(summary.Warnings,
				"usable area is 0, cemented percent left unset")
		}
	}

	summary.SortKey = summary.UsableArea
	return summary, nil
}

// relDiff относительная разница двух величин
func relDiff(a, b float64) float64 {
	m := math.Max(math.Abs(a), math.Abs(b))
	if m == 0 {
		return 0
	}
	return math.Abs(a-b) / m
}
