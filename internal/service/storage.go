package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"draw-size-go/internal/vision"
)

// Суффиксы файлов хранилища
const (
	fileSuffixOriginal    = "original"
	fileSuffixTransformed = "transformed"
)

// saveCanvas кодирует холст в JPEG файл хранилища вида {id}_{suffix}.jpg
func saveCanvas(storageDir, imageID, suffix string, c *vision.Canvas) (string, error) {
	if err := os.MkdirAll(storageDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}
	path := filepath.Join(storageDir, fmt.Sprintf("%s_%s.jpg", imageID, suffix))
	if err := imaging.Save(c.ToImage(), path, imaging.JPEGQuality(90)); err != nil {
		return "", fmt.Errorf("failed to save image file: %w", err)
	}
	return path, nil
}

// loadCanvas читает файл хранилища в холст
func loadCanvas(path string) (*vision.Canvas, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	return vision.CanvasFromImage(img), nil
}

// encodeDataURL кодирует изображение в data URL для передачи клиенту
func encodeDataURL(img image.Image, format imaging.Format) (string, error) {
	var buf bytes.Buffer
	var opts []imaging.EncodeOption
	mime := "image/png"
	if format == imaging.JPEG {
		mime = "image/jpeg"
		opts = append(opts, imaging.JPEGQuality(90))
	}
	if err := imaging.Encode(&buf, img, format, opts...); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}
