package vision

import "math"

// Segmenter выращивает связную область от точки затравки по цветовой близости
type Segmenter struct{}

// NewSegmenter создает новый сегментатор
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// Segment выполняет 4-связную заливку: пиксель входит в область, если по
// каждому каналу отличается от исходного цвета затравки не более чем на
// tolerance. Сравнение всегда идет с цветом затравки, не с соседом
func (s *Segmenter) Segment(canvas *Canvas, seed Point2D, tolerance int) (*Mask, error) {
	if canvas == nil || canvas.Width < 1 || canvas.Height < 1 {
		return nil, &ValidationError{Field: "canvas", Reason: "canvas is empty"}
	}
	if tolerance < 0 || tolerance > 255 {
		return nil, &ValidationError{Field: "tolerance", Reason: "must be within 0..255"}
	}

	sx := int(math.Floor(seed.X))
	sy := int(math.Floor(seed.Y))
	if !canvas.InBounds(sx, sy) {
		return nil, &SegmentationError{Reason: ReasonSeedOutOfBounds}
	}

	seedR, seedG, seedB := canvas.At(sx, sy)
	mask := NewMask(canvas.Width, canvas.Height)

	// Явный рабочий список вместо рекурсии
	type cell struct{ x, y int }
	stack := []cell{{sx, sy}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !canvas.InBounds(p.x, p.y) || mask.At(p.x, p.y) {
			continue
		}
		r, g, b := canvas.At(p.x, p.y)
		if absDiff(r, seedR) > tolerance || absDiff(g, seedG) > tolerance || absDiff(b, seedB) > tolerance {
			continue
		}
		mask.Set(p.x, p.y)

		stack = append(stack,
			cell{p.x + 1, p.y},
			cell{p.x - 1, p.y},
			cell{p.x, p.y + 1},
			cell{p.x, p.y - 1},
		)
	}

	return mask, nil
}

// absDiff модуль разности значений канала
func absDiff(a, b uint8) int {
	if a > b {
		return int(a) - int(b)
	}
	return int(b) - int(a)
}
