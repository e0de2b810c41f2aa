// Package postprocess resamples intermediate compositing buffers.
package postprocess

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// ScaleBy resizes img by factor. Each output dimension is rounded to the
// nearest pixel and never drops below one.
func ScaleBy(img *image.RGBA, factor float64) *image.RGBA {
	b := img.Bounds()
	w := int(math.Round(float64(b.Dx()) * factor))
	h := int(math.Round(float64(b.Dy()) * factor))
	return ScaleTo(img, max(w, 1), max(h, 1))
}

// ScaleTo resizes img to exactly w×h with CatmullRom filtering. The buffer
// is premultiplied, so transparent edges do not pick up dark halos.
// The result has a zero origin.
func ScaleTo(img *image.RGBA, w, h int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h && b.Min == (image.Point{}) {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// ToRGBA returns img as a zero-origin *image.RGBA, copying only when needed.
func ToRGBA(img image.Image) *image.RGBA {
	if r, ok := img.(*image.RGBA); ok && r.Bounds().Min == (image.Point{}) {
		return r
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
