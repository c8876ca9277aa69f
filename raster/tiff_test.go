package raster

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/tiff"
)

func encodeGray16TIFF(t *testing.T, w, h int, value func(x, y int) uint16) []byte {
	img := image.NewGray16(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray16(x, y, color.Gray16{Y: value(x, y)})
		}
	}
	var buf bytes.Buffer
	err := tiff.Encode(&buf, img, nil)
	assert.Nil(t, err, "Expected TIFF encoding not to error: %v", err)
	return buf.Bytes()
}

func TestDecodeBandTIFF_Gray16(t *testing.T) {
	// Mock: an 8x4 gradient like a downsampled band file
	data := encodeGray16TIFF(t, 8, 4, func(x, y int) uint16 {
		return uint16(y*8193 + x*1024)
	})

	// Tested code
	grid, err := DecodeBandTIFF(bytes.NewReader(data))

	// Asserts
	assert.Nil(t, err, "Expected decoding not to error: %v", err)
	assert.Equal(t, 8, grid.W)
	assert.Equal(t, 4, grid.H)
	assert.Equal(t, float64(0), grid.At(0, 0))
	assert.Equal(t, float64(3*8193+7*1024), grid.At(7, 3))
}

func TestDecodeBandTIFF_Gray8(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(1, 1, color.Gray{Y: 200})
	var buf bytes.Buffer
	assert.Nil(t, tiff.Encode(&buf, img, nil))

	grid, err := DecodeBandTIFF(&buf)

	assert.Nil(t, err)
	assert.Equal(t, float64(200), grid.At(1, 1))
}

func TestDecodeBandTIFF_RejectsColorImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	var buf bytes.Buffer
	assert.Nil(t, tiff.Encode(&buf, img, nil))

	_, err := DecodeBandTIFF(&buf)

	assert.NotNil(t, err, "Expected an RGBA TIFF to be rejected")
	assert.Contains(t, err.Error(), "unsupported band sample format")
}

func TestDecodeBandTIFF_Garbage(t *testing.T) {
	_, err := DecodeBandTIFF(bytes.NewReader([]byte("not a tiff at all")))
	assert.NotNil(t, err)
}
