package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

var ErrNotPNG = errors.New("frame must be a PNG image")

// Zone - прямоугольник на рамке, куда вписывается фото
type Zone struct {
	X      int
	Y      int
	Width  int
	Height int
	Circle bool
}

// Processor накладывает рамки кампании на фото участников
type Processor struct {
	maxPhotoPixels int
}

// NewProcessor creates a new image processor
func NewProcessor(maxPhotoPixels int) *Processor {
	if maxPhotoPixels <= 0 {
		maxPhotoPixels = 40_000_000
	}
	return &Processor{maxPhotoPixels: maxPhotoPixels}
}

// DecodeFrame проверяет, что рамка - PNG, и возвращает ее размеры
func (p *Processor) DecodeFrame(reader io.Reader) (image.Image, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if format != "png" {
		return nil, ErrNotPNG
	}
	return img, nil
}

// DecodePhoto принимает PNG или JPEG.
// Размер проверяется по заголовку до полной распаковки.
func (p *Processor) DecodePhoto(data []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width*cfg.Height > p.maxPhotoPixels {
		return nil, fmt.Errorf("photo is too large: %dx%d", cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Compose вписывает фото в зону (с обрезкой по центру) и кладет рамку поверх
func (p *Processor) Compose(frame, photo image.Image, zone Zone) *image.RGBA {
	bounds := frame.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	target := image.Rect(zone.X, zone.Y, zone.X+zone.Width, zone.Y+zone.Height).Intersect(dst.Bounds())
	if !target.Empty() {
		src := coverCrop(photo.Bounds(), target.Dx(), target.Dy())
		scaled := image.NewRGBA(image.Rect(0, 0, target.Dx(), target.Dy()))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), photo, src, draw.Src, nil)

		var mask image.Image
		if zone.Circle {
			mask = &circleMask{w: target.Dx(), h: target.Dy()}
		}
		draw.DrawMask(dst, target, scaled, image.Point{}, mask, image.Point{}, draw.Over)
	}

	draw.Draw(dst, dst.Bounds(), frame, bounds.Min, draw.Over)
	return dst
}

// EncodePNG кодирует результат
func (p *Processor) EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// coverCrop выбирает центральную часть src с пропорциями w:h
func coverCrop(src image.Rectangle, w, h int) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw == 0 || sh == 0 || w == 0 || h == 0 {
		return src
	}

	// сравниваем sw/sh и w/h без float
	if sw*h > sh*w {
		cw := sh * w / h
		x0 := src.Min.X + (sw-cw)/2
		return image.Rect(x0, src.Min.Y, x0+cw, src.Max.Y)
	}
	ch := sw * h / w
	y0 := src.Min.Y + (sh-ch)/2
	return image.Rect(src.Min.X, y0, src.Max.X, y0+ch)
}

// circleMask - эллипс, вписанный в w x h
type circleMask struct {
	w, h int
}

func (m *circleMask) ColorModel() color.Model { return color.AlphaModel }

func (m *circleMask) Bounds() image.Rectangle { return image.Rect(0, 0, m.w, m.h) }

func (m *circleMask) At(x, y int) color.Color {
	rx, ry := float64(m.w)/2, float64(m.h)/2
	dx := (float64(x) + 0.5 - rx) / rx
	dy := (float64(y) + 0.5 - ry) / ry
	if dx*dx+dy*dy <= 1 {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}
