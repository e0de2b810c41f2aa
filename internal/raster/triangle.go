package raster

import (
	"image"
	"image/color"
	"math"
)

// screenVertex is a vertex after projection: pixel position, NDC depth and
// the perspective-divided attributes.
type screenVertex struct {
	x, y, z float64
	invW    float64
	uw, vw  float64 // u/w, v/w
}

// srgbToLinear decodes 8-bit sRGB.
var srgbToLinear [256]float64

func init() {
	for i := range srgbToLinear {
		c := float64(i) / 255
		if c <= 0.04045 {
			srgbToLinear[i] = c / 12.92
		} else {
			srgbToLinear[i] = math.Pow((c+0.055)/1.055, 2.4)
		}
	}
}

func linearToSRGB(v float64) uint8 {
	if v <= 0.0031308 {
		return clamp255(v * 12.92 * 255)
	}
	return clamp255((1.055*math.Pow(v, 1/2.4) - 0.055) * 255)
}

// rasterizeTriangle fills one projected triangle with depth testing. Texture
// coordinates are interpolated perspective-correctly; shade scales the
// color in linear light.
//
// This is the hot path: no allocations inside the pixel loop.
func rasterizeTriangle(fb *FrameBuffer, v0, v1, v2 screenVertex, tex *image.NRGBA, base color.NRGBA, shade float64) {
	det := (v1.y-v2.y)*(v0.x-v2.x) + (v2.x-v1.x)*(v0.y-v2.y)
	if det > -1e-12 && det < 1e-12 {
		return
	}
	invDet := 1.0 / det

	minX := max(int(math.Floor(min(v0.x, v1.x, v2.x))), 0)
	maxX := min(int(math.Ceil(max(v0.x, v1.x, v2.x))), fb.Width-1)
	minY := max(int(math.Floor(min(v0.y, v1.y, v2.y))), 0)
	maxY := min(int(math.Ceil(max(v0.y, v1.y, v2.y))), fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Precompute edge deltas
	dy12 := v1.y - v2.y
	dx21 := v2.x - v1.x
	dy20 := v2.y - v0.y
	dx02 := v0.x - v2.x

	// Flat color in linear light, used when there is no texture.
	flatR := linearToSRGB(srgbToLinear[base.R] * shade)
	flatG := linearToSRGB(srgbToLinear[base.G] * shade)
	flatB := linearToSRGB(srgbToLinear[base.B] * shade)

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - v2.y
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - v2.x
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*v0.z + w1*v1.z + w2*v2.z
			idx := rowOff + sx
			if z >= fb.Depth[idx] || z < -1 || z > 1 {
				continue
			}

			cr, cg, cb, ca := flatR, flatG, flatB, base.A
			if tex != nil {
				iw := w0*v0.invW + w1*v1.invW + w2*v2.invW
				u := (w0*v0.uw + w1*v1.uw + w2*v2.uw) / iw
				v := (w0*v0.vw + w1*v1.vw + w2*v2.vw) / iw
				var tr, tg, tb uint8
				tr, tg, tb, ca = SampleTexture(tex, u, v, false)
				cr = linearToSRGB(srgbToLinear[tr] * shade)
				cg = linearToSRGB(srgbToLinear[tg] * shade)
				cb = linearToSRGB(srgbToLinear[tb] * shade)
			}
			// Skip transparent texels
			if ca < 8 {
				continue
			}
			fb.Depth[idx] = z

			p := idx * 4
			fb.Color[p] = cr
			fb.Color[p+1] = cg
			fb.Color[p+2] = cb
			fb.Color[p+3] = 255
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
