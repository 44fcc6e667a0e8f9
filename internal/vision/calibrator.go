package vision

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// OutputHeight фиксированная высота выпрямленного холста в пикселях
const OutputHeight = 800

// Point2D точка в пиксельных координатах изображения
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Quad четыре угла поверхности в порядке: левый верхний, правый верхний,
// правый нижний, левый нижний
type Quad [4]Point2D

// CalibrationResult перспективная матрица и размеры выпрямленного холста.
// Матрица хранится построчно, масштаб закреплен условием H[8] == 1
type CalibrationResult struct {
	H            [9]float64
	OutputWidth  int
	OutputHeight int
}

// Apply переводит точку источника в координаты выпрямленного холста
func (cr *CalibrationResult) Apply(x, y float64) (float64, float64, bool) {
	return applyHomography(cr.H, x, y)
}

// Calibrator вычисляет перспективное преобразование по четырем углам поверхности
type Calibrator struct{}

// NewCalibrator создает новый калибратор
func NewCalibrator() *Calibrator {
	return &Calibrator{}
}

// Calibrate строит матрицу, отображающую каждый угол источника точно в
// соответствующий угол прямоугольника назначения. Высота назначения
// фиксирована, ширина выводится из реального соотношения сторон
func (c *Calibrator) Calibrate(quad Quad, realWidth, realHeight float64) (*CalibrationResult, error) {
	if !(realWidth > 0) || math.IsInf(realWidth, 0) {
		return nil, &ValidationError{Field: "real_width", Reason: "must be positive and finite"}
	}
	if !(realHeight > 0) || math.IsInf(realHeight, 0) {
		return nil, &ValidationError{Field: "real_height", Reason: "must be positive and finite"}
	}
	for _, p := range quad {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return nil, &ValidationError{Field: "corners", Reason: "coordinates must be finite"}
		}
	}

	aspect := realWidth / realHeight
	outputWidth := int(math.Round(OutputHeight * aspect))
	if outputWidth < 1 {
		return nil, &ValidationError{Field: "real_width", Reason: "aspect ratio collapses output width to zero"}
	}

	dst := [4]Point2D{
		{X: 0, Y: 0},
		{X: float64(outputWidth), Y: 0},
		{X: float64(outputWidth), Y: float64(OutputHeight)},
		{X: 0, Y: float64(OutputHeight)},
	}

	// Система 8x8: по два уравнения на каждое соответствие углов
	A := mat.NewDense(8, 8, nil)
	B := mat.NewVecDense(8, nil)
	for i := 0; i < 4; i++ {
		sx, sy := quad[i].X, quad[i].Y
		dx, dy := dst[i].X, dst[i].Y
		r := 2 * i

		A.Set(r, 0, sx)
		A.Set(r, 1, sy)
		A.Set(r, 2, 1)
		A.Set(r, 6, -sx*dx)
		A.Set(r, 7, -sy*dx)
		B.SetVec(r, dx)

		A.Set(r+1, 3, sx)
		A.Set(r+1, 4, sy)
		A.Set(r+1, 5, 1)
		A.Set(r+1, 6, -sx*dy)
		A.Set(r+1, 7, -sy*dy)
		B.SetVec(r+1, dy)
	}

	var h mat.VecDense
	if err := h.SolveVec(A, B); err != nil {
		// Совпадающие или коллинеарные углы дают вырожденную систему
		return nil, &CalibrationError{Reason: ReasonDegenerateQuad}
	}

	result := &CalibrationResult{
		OutputWidth:  outputWidth,
		OutputHeight: OutputHeight,
	}
	for i := 0; i < 8; i++ {
		result.H[i] = h.AtVec(i)
	}
	result.H[8] = 1
	return result, nil
}

// applyHomography применяет матрицу к точке, false при нулевом знаменателе
func applyHomography(h [9]float64, x, y float64) (float64, float64, bool) {
	denom := h[6]*x + h[7]*y + h[8]
	if math.Abs(denom) < 1e-12 {
		return 0, 0, false
	}
	return (h[0]*x + h[1]*y + h[2]) / denom, (h[3]*x + h[4]*y + h[5]) / denom, true
}
