// Package codec decodes uploaded images and derives bounded-size JPEG
// thumbnails from them. All operations work on in-memory rasters scoped to
// a single pipeline invocation.
package codec

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// MIMEType is the content type of every encoded thumbnail.
const MIMEType = "image/jpeg"

// jpegQuality is fixed so that identical rasters encode to identical bytes.
const jpegQuality = 85

// Codec turns original image bytes into thumbnail bytes. Construct with New.
type Codec struct {
	quality int
}

func New() *Codec {
	return &Codec{quality: jpegQuality}
}

// Decode parses raw bytes into a raster. Corrupt or unsupported input
// returns an error.
func (c *Codec) Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Normalize converts any raster (paletted, gray, alpha-carrying) into the
// full-color NRGBA model the JPEG encoder accepts. Total: never fails.
func (c *Codec) Normalize(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// Fit scales img so that neither dimension exceeds maxW×maxH, preserving
// aspect ratio: the long edge lands exactly on its bound, the short edge is
// rounded to the nearest pixel with a floor of 1. Images already within
// bounds are returned at their native size; the codec never upscales.
// Total: any raster is resizable.
func (c *Codec) Fit(img image.Image, maxW, maxH int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 || maxW <= 0 || maxH <= 0 {
		return &image.NRGBA{}
	}
	if w <= maxW && h <= maxH {
		return imaging.Clone(img)
	}

	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	newW := int(math.Max(1, math.Round(float64(w)*scale)))
	newH := int(math.Max(1, math.Round(float64(h)*scale)))

	return imaging.Resize(img, newW, newH, imaging.Lanczos)
}

// EncodeJPEG re-encodes the raster in the fixed interchange format.
func (c *Codec) EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(c.quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
