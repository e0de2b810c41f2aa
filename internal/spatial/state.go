// Package spatial tracks which side of the portal the viewer occupies.
//
// The side cannot be read off the projection near the portal plane (it
// degenerates as the camera approaches it), so a crossing is inferred from
// proximity plus full-frame coverage, with separate enter and exit distances
// to stop the state flickering at the boundary.
package spatial

import (
	"errors"
	"fmt"
	"math"
)

// Default hysteresis distances in meters.
const (
	DefaultEnter = 0.1
	DefaultExit  = 0.2
)

// ErrThresholds is returned when the enter distance is not strictly below
// the exit distance.
var ErrThresholds = errors.New("spatial: enter threshold must be below exit threshold")

// Thresholds are the enter/exit distances from the portal plane.
type Thresholds struct {
	Enter float64
	Exit  float64
}

// DefaultThresholds returns {0.1, 0.2}.
func DefaultThresholds() Thresholds {
	return Thresholds{Enter: DefaultEnter, Exit: DefaultExit}
}

// Validate checks 0 < Enter < Exit.
func (t Thresholds) Validate() error {
	if !(t.Enter > 0) || !(t.Enter < t.Exit) {
		return fmt.Errorf("%w: enter=%g exit=%g", ErrThresholds, t.Enter, t.Exit)
	}
	return nil
}

// State is the per-feed spatial state carried from frame to frame.
// The zero value is Outside/Stable.
type State struct {
	PortalVisible         bool // portal intersects the camera frustum
	FrameBiggerThanCamera bool // crop polygon covers the whole viewport
	InFilteredSide        bool
	DidEnterPortal        bool // crossing in progress; side frozen until exit
}

// Phase names the logical state.
type Phase int

const (
	OutsideStable Phase = iota
	InsideStable
	Transitioning
)

func (p Phase) String() string {
	switch p {
	case OutsideStable:
		return "outside"
	case InsideStable:
		return "inside"
	case Transitioning:
		return "transitioning"
	}
	return "unknown"
}

// Phase collapses the two flags into the logical state.
func (s State) Phase() Phase {
	switch {
	case s.DidEnterPortal:
		return Transitioning
	case s.InFilteredSide:
		return InsideStable
	default:
		return OutsideStable
	}
}

// Step advances the side/transition flags for one frame. deltaZ is the
// camera's signed distance from the portal plane; only its magnitude is
// used. The visibility and containment fields of s must already hold this
// frame's values.
func Step(s State, deltaZ float64, th Thresholds) State {
	d := math.Abs(deltaZ)

	if s.DidEnterPortal {
		if d > th.Exit {
			s.DidEnterPortal = false
		}
		return s
	}

	if s.PortalVisible && s.FrameBiggerThanCamera && d < th.Enter {
		s.InFilteredSide = !s.InFilteredSide
		s.DidEnterPortal = true
	}
	return s
}
