package portal

import "filter-portal/internal/geom"

// ShapeMode records how a CropShape was built.
type ShapeMode int

const (
	// ShapeDirect connects the four projected corners.
	ShapeDirect ShapeMode = iota
	// ShapeFallback anchors the polygon at the top viewport corners because
	// the portal's near edge is off-screen.
	ShapeFallback
)

func (m ShapeMode) String() string {
	switch m {
	case ShapeDirect:
		return "direct"
	case ShapeFallback:
		return "fallback"
	}
	return "unknown"
}

// CropShape is the closed polygon masking the portal's silhouette.
type CropShape struct {
	Polygon geom.Polygon
	Mode    ShapeMode
}

// BuildCropShape turns a projected quad into a crop polygon. It reports
// ok=false when a corner could not be projected.
//
// The fallback applies when the bottom corners sit above the viewport's
// bottom edge while no corner lies inside the viewport: connecting the raw
// corners would then produce an inverted or self-intersecting shape.
func BuildCropShape(q Quad, viewport geom.Size) (CropShape, bool) {
	if !q.IsFinite() {
		return CropShape{}, false
	}

	control := viewport.Rect()
	anyInside := false
	for _, p := range q.Points() {
		if control.Contains(p) {
			anyInside = true
			break
		}
	}

	if q.MaxRight.Y < viewport.H && q.Min.Y < viewport.H && !anyInside {
		return CropShape{
			Polygon: geom.Polygon{
				geom.Pt(0, 0),
				geom.Pt(viewport.W, 0),
				q.MaxRight,
				q.Min,
			},
			Mode: ShapeFallback,
		}, true
	}

	return CropShape{
		Polygon: geom.Polygon{q.MinLeft, q.Max, q.MaxRight, q.Min},
		Mode:    ShapeDirect,
	}, true
}
