package portal

import (
	"filter-portal/internal/camera"
	"filter-portal/internal/geom"
)

// IsVisible reports whether the portal rectangle intersects the camera's
// view frustum.
func IsVisible(pose Pose, cam *camera.Camera, viewport geom.Size) bool {
	corners := pose.WorldCorners()
	return cam.Frustum(viewport).IntersectsHull(corners[:])
}

// IsFrameBiggerThanCamera reports whether the crop polygon covers all four
// viewport corners, i.e. the portal's edges are not visible in the frame.
func IsFrameBiggerThanCamera(shape CropShape, viewport geom.Size) bool {
	for _, c := range viewport.Rect().Corners() {
		if !shape.Polygon.Contains(c) {
			return false
		}
	}
	return true
}
