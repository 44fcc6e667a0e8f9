package vision

import (
	"image"

	"github.com/disintegration/imaging"
)

// Canvas пиксельная сетка RGB, 3 байта на пиксель, построчно сверху вниз
type Canvas struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewCanvas создает черный холст заданного размера
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// CanvasFromImage копирует декодированное изображение в холст, отбрасывая альфа-канал
func CanvasFromImage(img image.Image) *Canvas {
	nrgba := imaging.Clone(img)
	c := NewCanvas(nrgba.Bounds().Dx(), nrgba.Bounds().Dy())
	for y := 0; y < c.Height; y++ {
		srcRow := nrgba.Pix[y*nrgba.Stride:]
		dstRow := c.Pix[y*c.Width*3:]
		for x := 0; x < c.Width; x++ {
			dstRow[x*3+0] = srcRow[x*4+0]
			dstRow[x*3+1] = srcRow[x*4+1]
			dstRow[x*3+2] = srcRow[x*4+2]
		}
	}
	return c
}

// ToImage переводит холст в непрозрачное NRGBA изображение для кодирования
func (c *Canvas) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.Width, c.Height))
	for y := 0; y < c.Height; y++ {
		srcRow := c.Pix[y*c.Width*3:]
		dstRow := img.Pix[y*img.Stride:]
		for x := 0; x < c.Width; x++ {
			dstRow[x*4+0] = srcRow[x*3+0]
			dstRow[x*4+1] = srcRow[x*3+1]
			dstRow[x*4+2] = srcRow[x*3+2]
			dstRow[x*4+3] = 255
		}
	}
	return img
}

// Clone возвращает независимую копию холста
func (c *Canvas) Clone() *Canvas {
	dup := NewCanvas(c.Width, c.Height)
	copy(dup.Pix, c.Pix)
	return dup
}

// At возвращает цвет пикселя, координаты должны быть в границах
func (c *Canvas) At(x, y int) (r, g, b uint8) {
	i := (y*c.Width + x) * 3
	return c.Pix[i], c.Pix[i+1], c.Pix[i+2]
}

// Set устанавливает цвет пикселя, координаты должны быть в границах
func (c *Canvas) Set(x, y int, r, g, b uint8) {
	i := (y*c.Width + x) * 3
	c.Pix[i] = r
	c.Pix[i+1] = g
	c.Pix[i+2] = b
}

// InBounds проверяет попадание координат в границы холста
func (c *Canvas) InBounds(x, y int) bool {
	return x >= 0 && x < c.Width && y >= 0 && y < c.Height
}
