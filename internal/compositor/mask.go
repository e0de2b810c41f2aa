package compositor

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"filter-portal/internal/geom"
)

// ErrMask is returned when a crop polygon cannot be rendered to a mask.
var ErrMask = errors.New("compositor: cannot render mask")

// Origin is the pixel row order of a camera frame.
type Origin int

const (
	// TopLeft frames store the top row first, matching image-space polygons.
	TopLeft Origin = iota
	// BottomLeft frames store the bottom row first; polygons are mirrored
	// vertically before they are rasterized.
	BottomLeft
)

func (o Origin) String() string {
	if o == BottomLeft {
		return "bottom-left"
	}
	return "top-left"
}

// Mask rasterizes poly into an anti-aliased coverage mask of the given size.
// The returned mask belongs to the compositor's buffer cache and is only
// valid until the next ClearCaches.
func (c *Compositor) Mask(poly geom.Polygon, size image.Point, origin Origin) (*image.Alpha, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("%w: empty canvas %v", ErrMask, size)
	}
	if len(poly) < 3 {
		return nil, fmt.Errorf("%w: %d vertices", ErrMask, len(poly))
	}
	if !poly.IsFinite() {
		return nil, fmt.Errorf("%w: non-finite vertex", ErrMask)
	}

	w, h := float64(size.X), float64(size.Y)
	if origin == BottomLeft {
		poly = poly.FlipY(h)
	}
	// Projected corners can sit thousands of pixels off-canvas; clip first so
	// the float32 rasterizer only sees canvas-sized coordinates.
	poly = poly.ClipRect(geom.Rect{Min: geom.Pt(-1, -1), Max: geom.Pt(w+1, h+1)})

	dst := c.cache.alphaBuf(image.Rect(0, 0, size.X, size.Y))
	if len(poly) < 3 {
		return dst, nil
	}

	r := vector.NewRasterizer(size.X, size.Y)
	r.DrawOp = draw.Src
	r.MoveTo(float32(poly[0].X), float32(poly[0].Y))
	for _, p := range poly[1:] {
		r.LineTo(float32(p.X), float32(p.Y))
	}
	r.ClosePath()
	r.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst, nil
}
