package vision

import "image"

// Mask бинарная сетка выбранных пикселей, конгруэнтная холсту
type Mask struct {
	Width  int
	Height int
	Bits   []uint8
}

// NewMask создает пустую маску заданного размера
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Bits:   make([]uint8, width*height),
	}
}

// At сообщает, выбран ли пиксель
func (m *Mask) At(x, y int) bool {
	return m.Bits[y*m.Width+x] != 0
}

// Set помечает пиксель выбранным
func (m *Mask) Set(x, y int) {
	m.Bits[y*m.Width+x] = 1
}

// Clone возвращает независимую копию маски
func (m *Mask) Clone() *Mask {
	dup := NewMask(m.Width, m.Height)
	copy(dup.Bits, m.Bits)
	return dup
}

// Or объединяет маску с другой маской той же размерности
func (m *Mask) Or(other *Mask) error {
	if other.Width != m.Width || other.Height != m.Height {
		return &ValidationError{Field: "mask", Reason: "dimensions mismatch"}
	}
	for i, b := range other.Bits {
		if b != 0 {
			m.Bits[i] = 1
		}
	}
	return nil
}

// And оставляет выбранными только пиксели, выбранные в обеих масках
func (m *Mask) And(other *Mask) error {
	if other.Width != m.Width || other.Height != m.Height {
		return &ValidationError{Field: "mask", Reason: "dimensions mismatch"}
	}
	for i, b := range other.Bits {
		if b == 0 {
			m.Bits[i] = 0
		}
	}
	return nil
}

// CountSet количество выбранных пикселей
func (m *Mask) CountSet() int {
	n := 0
	for _, b := range m.Bits {
		if b != 0 {
			n++
		}
	}
	return n
}

// CoveragePercent доля выбранных пикселей от всей маски в процентах
func (m *Mask) CoveragePercent() float64 {
	total := m.Width * m.Height
	if total == 0 {
		return 0
	}
	return float64(m.CountSet()) / float64(total) * 100
}

// OverlayMask подсвечивает выбранную область зеленым: 70% исходного цвета
// плюс 30% чистого зеленого, остальные пиксели не меняются
func OverlayMask(c *Canvas, m *Mask) *Canvas {
	out := c.Clone()
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.At(x, y) {
				continue
			}
			r, g, b := c.At(x, y)
			out.Set(x, y,
				clamp8(float64(r)*0.7),
				clamp8(float64(g)*0.7+255*0.3),
				clamp8(float64(b)*0.7))
		}
	}
	return out
}

// CutoutMask возвращает RGBA изображение, где альфа-канал повторяет маску:
// выбранные пиксели непрозрачны, остальные полностью прозрачны
func CutoutMask(c *Canvas, m *Mask) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.Width, c.Height))
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			r, g, b := c.At(x, y)
			i := y*img.Stride + x*4
			img.Pix[i+0] = r
			img.Pix[i+1] = g
			img.Pix[i+2] = b
			if m.At(x, y) {
				img.Pix[i+3] = 255
			}
		}
	}
	return img
}
