package engine

import (
	"image"

	"filter-portal/internal/camera"
	"filter-portal/internal/compositor"
)

// Tracking is the world-tracking quality reported with a frame.
type Tracking int

const (
	TrackingNormal Tracking = iota
	// TrackingLimited frames are still composited; the pose may drift.
	TrackingLimited
	// TrackingNotAvailable frames are skipped.
	TrackingNotAvailable
)

func (t Tracking) String() string {
	switch t {
	case TrackingNormal:
		return "normal"
	case TrackingLimited:
		return "limited"
	case TrackingNotAvailable:
		return "not-available"
	}
	return "unknown"
}

// Frame is one camera frame handed to ProcessFrame. The viewport is the
// image's size.
type Frame struct {
	Image    image.Image
	Camera   *camera.Camera // nil when the session has no point of view
	Tracking Tracking
	Origin   compositor.Origin
}
