package portal

import (
	"filter-portal/internal/camera"
	"filter-portal/internal/geom"
)

// Quad is the portal's four corners projected into the camera image.
type Quad struct {
	MinLeft  geom.Point // local (min.x, max.y): top-left
	Max      geom.Point // top-right
	MaxRight geom.Point // local (max.x, min.y): bottom-right
	Min      geom.Point // bottom-left
}

// Points returns the corners in polygon order.
func (q Quad) Points() [4]geom.Point {
	return [4]geom.Point{q.MinLeft, q.Max, q.MaxRight, q.Min}
}

// IsFinite reports whether every corner projected to a finite point.
func (q Quad) IsFinite() bool {
	for _, p := range q.Points() {
		if !p.IsFinite() {
			return false
		}
	}
	return true
}

// Project maps the portal's corners through the camera for the viewport.
// The camera must be non-nil; callers without a point of view skip the frame
// instead.
func Project(pose Pose, cam *camera.Camera, viewport geom.Size) Quad {
	w := pose.WorldCorners()
	return Quad{
		MinLeft:  cam.ProjectPoint(w[0], viewport),
		Max:      cam.ProjectPoint(w[1], viewport),
		MaxRight: cam.ProjectPoint(w[2], viewport),
		Min:      cam.ProjectPoint(w[3], viewport),
	}
}
