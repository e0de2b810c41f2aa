package postprocess

import (
	"image"
	"image/color"
	"testing"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 255 / w), uint8(y * 255 / h), 90, 255})
		}
	}
	return img
}

func TestScaleRoundTripDimensions(t *testing.T) {
	sizes := [][2]int{{360, 640}, {361, 641}, {99, 37}, {1, 1}, {7, 3}}
	for _, sz := range sizes {
		for _, k := range []float64{2, 1.5} {
			src := gradient(sz[0], sz[1])
			up := ScaleBy(ScaleBy(src, 1/k), k)
			dw := up.Bounds().Dx() - sz[0]
			dh := up.Bounds().Dy() - sz[1]
			if dw < -1 || dw > 1 || dh < -1 || dh > 1 {
				t.Errorf("%dx%d by %v: round trip %v", sz[0], sz[1], k, up.Bounds())
			}
		}

		// Restoring to the source size is always exact.
		for _, k := range []float64{2, 3, 1.5, 4} {
			src := gradient(sz[0], sz[1])
			down := ScaleBy(src, 1/k)
			exact := ScaleTo(down, sz[0], sz[1])
			if exact.Bounds() != src.Bounds() {
				t.Errorf("%dx%d by %v: ScaleTo gave %v", sz[0], sz[1], k, exact.Bounds())
			}
		}
	}
}

func TestScaleByEvenSizesExact(t *testing.T) {
	src := gradient(360, 640)
	up := ScaleBy(ScaleBy(src, 0.5), 2)
	if up.Bounds() != src.Bounds() {
		t.Errorf("round trip = %v, want %v", up.Bounds(), src.Bounds())
	}
}

func TestScaleByNeverEmpty(t *testing.T) {
	if b := ScaleBy(gradient(3, 3), 0.01).Bounds(); b.Dx() != 1 || b.Dy() != 1 {
		t.Errorf("bounds = %v, want 1x1", b)
	}
}

func TestScaleToSameSizeNoCopy(t *testing.T) {
	src := gradient(10, 10)
	if ScaleTo(src, 10, 10) != src {
		t.Error("same-size ScaleTo should return the input")
	}
}

func TestScalePreservesSolidColor(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for i := range src.Pix {
		src.Pix[i] = 200
	}
	out := ScaleTo(ScaleBy(src, 0.5), 20, 20)
	c := out.RGBAAt(10, 10)
	for _, v := range []uint8{c.R, c.G, c.B, c.A} {
		if v < 199 || v > 201 {
			t.Fatalf("solid color drifted to %v", c)
		}
	}
}

func TestToRGBANormalizesOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 15, 25))
	src.SetNRGBA(5, 5, color.NRGBA{255, 0, 0, 255})
	out := ToRGBA(src)
	if out.Bounds() != image.Rect(0, 0, 10, 20) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if c := out.RGBAAt(0, 0); c != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("origin pixel = %v", c)
	}

	same := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if ToRGBA(same) != same {
		t.Error("zero-origin RGBA should pass through")
	}
}
