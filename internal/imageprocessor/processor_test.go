package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// рамка 100x100: красная, с прозрачным окном 20..80
func testFrame() *image.RGBA {
	frame := solid(100, 100, color.RGBA{R: 255, A: 255})
	for y := 20; y < 80; y++ {
		for x := 20; x < 80; x++ {
			frame.Set(x, y, color.RGBA{})
		}
	}
	return frame
}

func TestProcessor_ComposePutsPhotoUnderFrame(t *testing.T) {
	p := NewProcessor(0)
	photo := solid(300, 200, color.RGBA{B: 255, A: 255})

	out := p.Compose(testFrame(), photo, Zone{X: 20, Y: 20, Width: 60, Height: 60})

	assert.Equal(t, image.Rect(0, 0, 100, 100), out.Bounds())
	// рамка сверху
	r, _, b, _ := out.At(5, 5).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), b)
	// в окне фото
	r, _, b, _ = out.At(50, 50).RGBA()
	assert.Equal(t, uint32(0), r)
	assert.Equal(t, uint32(0xffff), b)
}

func TestProcessor_CircleZoneLeavesCornersEmpty(t *testing.T) {
	p := NewProcessor(0)
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100)) // полностью прозрачная
	photo := solid(50, 50, color.RGBA{G: 255, A: 255})

	out := p.Compose(frame, photo, Zone{X: 0, Y: 0, Width: 100, Height: 100, Circle: true})

	_, _, _, a := out.At(1, 1).RGBA()
	assert.Equal(t, uint32(0), a)
	_, g, _, _ := out.At(50, 50).RGBA()
	assert.Equal(t, uint32(0xffff), g)
}

func TestProcessor_DecodeFrameRequiresPNG(t *testing.T) {
	p := NewProcessor(0)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testFrame()))
	img, err := p.DecodeFrame(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())

	_, err = p.DecodeFrame(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestProcessor_DecodePhotoRejectsHugeImages(t *testing.T) {
	p := NewProcessor(100)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(20, 20, color.White)))
	_, err := p.DecodePhoto(buf.Bytes())
	assert.Error(t, err)
}

func TestCoverCrop(t *testing.T) {
	// широкое фото в квадрат - режем по ширине
	assert.Equal(t, image.Rect(50, 0, 250, 200), coverCrop(image.Rect(0, 0, 300, 200), 60, 60))
	// высокое фото в квадрат - режем по высоте
	assert.Equal(t, image.Rect(0, 50, 200, 250), coverCrop(image.Rect(0, 0, 200, 300), 60, 60))
}
