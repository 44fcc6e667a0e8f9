package vision

import "math"

// Допуск на дрожание плавающей точки у границ источника
const edgeEps = 1e-7

// Rectifier выпрямляет перспективу: переносит область между четырьмя углами
// источника на прямоугольный холст
type Rectifier struct{}

// NewRectifier создает новый ректификатор
func NewRectifier() *Rectifier {
	return &Rectifier{}
}

// Rectify строит выпрямленный холст обратным отображением: для каждого пикселя
// назначения вычисляется дробная точка источника и берется билинейная выборка.
// Точки за пределами источника остаются черными
func (r *Rectifier) Rectify(src *Canvas, calib *CalibrationResult) (*Canvas, error) {
	if src == nil || src.Width < 1 || src.Height < 1 {
		return nil, &ValidationError{Field: "canvas", Reason: "source canvas is empty"}
	}
	if calib == nil || calib.OutputWidth < 1 || calib.OutputHeight < 1 {
		return nil, &ValidationError{Field: "calibration", Reason: "calibration result is required"}
	}

	// Обратная матрица через адъюгату: проективное применение не зависит
	// от общего масштаба, поэтому деление на определитель не требуется
	inv := adjugate(calib.H)

	out := NewCanvas(calib.OutputWidth, calib.OutputHeight)
	maxX := float64(src.Width - 1)
	maxY := float64(src.Height - 1)

	for v := 0; v < out.Height; v++ {
		for u := 0; u < out.Width; u++ {
			sx, sy, ok := applyHomography(inv, float64(u), float64(v))
			if !ok {
				continue
			}
			if sx < 0 && sx >= -edgeEps {
				sx = 0
			}
			if sy < 0 && sy >= -edgeEps {
				sy = 0
			}
			if sx > maxX && sx <= maxX+edgeEps {
				sx = maxX
			}
			if sy > maxY && sy <= maxY+edgeEps {
				sy = maxY
			}
			if sx < 0 || sy < 0 || sx > maxX || sy > maxY {
				continue
			}
			cr, cg, cb := bilinear(src, sx, sy)
			out.Set(u, v, cr, cg, cb)
		}
	}
	return out, nil
}

// ValidMask отмечает пиксели холста, за которыми стоит источник. Пиксели
// черного ограждения, чья точка источника лежит вне кадра, остаются
// невыбранными и не должны участвовать в пиксельном подсчете площадей
func (r *Rectifier) ValidMask(calib *CalibrationResult, srcWidth, srcHeight int) (*Mask, error) {
	if srcWidth < 1 || srcHeight < 1 {
		return nil, &ValidationError{Field: "canvas", Reason: "source dimensions must be positive"}
	}
	if calib == nil || calib.OutputWidth < 1 || calib.OutputHeight < 1 {
		return nil, &ValidationError{Field: "calibration", Reason: "calibration result is required"}
	}

	inv := adjugate(calib.H)
	mask := NewMask(calib.OutputWidth, calib.OutputHeight)
	maxX := float64(srcWidth - 1)
	maxY := float64(srcHeight - 1)

	for v := 0; v < mask.Height; v++ {
		for u := 0; u < mask.Width; u++ {
			sx, sy, ok := applyHomography(inv, float64(u), float64(v))
			if !ok {
				continue
			}
			if sx < -edgeEps || sy < -edgeEps || sx > maxX+edgeEps || sy > maxY+edgeEps {
				continue
			}
			mask.Set(u, v)
		}
	}
	return mask, nil
}

// bilinear взвешенное среднее четырех ближайших пикселей источника
func bilinear(c *Canvas, x, y float64) (uint8, uint8, uint8) {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 > c.Width-1 {
		x1 = c.Width - 1
	}
	if y1 > c.Height-1 {
		y1 = c.Height - 1
	}
	fx := x - float64(x0)
	fy := y - float64(y0)

	r00, g00, b00 := c.At(x0, y0)
	r10, g10, b10 := c.At(x1, y0)
	r01, g01, b01 := c.At(x0, y1)
	r11, g11, b11 := c.At(x1, y1)

	w00 := (1 - fx) * (1 - fy)
	w10 := fx * (1 - fy)
	w01 := (1 - fx) * fy
	w11 := fx * fy

	r := w00*float64(r00) + w10*float64(r10) + w01*float64(r01) + w11*float64(r11)
	g := w00*float64(g00) + w10*float64(g10) + w01*float64(g01) + w11*float64(g11)
	b := w00*float64(b00) + w10*float64(b10) + w01*float64(b01) + w11*float64(b11)

	return clamp8(r), clamp8(g), clamp8(b)
}

// adjugate транспонированная матрица алгебраических дополнений 3x3
func adjugate(h [9]float64) [9]float64 {
	return [9]float64{
		h[4]*h[8] - h[5]*h[7],
		h[2]*h[7] - h[1]*h[8],
		h[1]*h[5] - h[2]*h[4],
		h[5]*h[6] - h[3]*h[8],
		h[0]*h[8] - h[2]*h[6],
		h[2]*h[3] - h[0]*h[5],
		h[3]*h[7] - h[4]*h[6],
		h[1]*h[6] - h[0]*h[7],
		h[0]*h[4] - h[1]*h[3],
	}
}

// clamp8 приводит значение к диапазону канала с округлением
func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
