package vision

import "fmt"

// Причины ошибок калибровки и сегментации
const (
	ReasonDegenerateQuad  = "degenerate_quad"
	ReasonSeedOutOfBounds = "seed_out_of_bounds"
)

// ValidationError ошибка валидации входных данных, отклоняется до начала вычислений
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// CalibrationError ошибка решения перспективной матрицы
type CalibrationError struct {
	Reason string
}

func (e *CalibrationError) Error() string {
	return fmt.Sprintf("calibration failed: %s", e.Reason)
}

// SegmentationError ошибка выращивания области
type SegmentationError struct {
	Reason string
}

func (e *SegmentationError) Error() string {
	return fmt.Sprintf("segmentation failed: %s", e.Reason)
}

// DecodeError ошибка декодирования исходных пиксельных данных
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
