// Package portal turns a placed portal rectangle and the current camera into
// the 2D crop shape used for compositing, and classifies how the portal sits
// in the frame.
package portal

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"filter-portal/internal/mathutil"
)

// DefaultWidth and DefaultHeight are the extent of a freshly placed portal,
// in meters.
const (
	DefaultWidth  = 0.5
	DefaultHeight = 0.9
)

// ErrInvalidExtent is returned for a non-positive portal width or height.
var ErrInvalidExtent = errors.New("portal: extent must be positive")

// Pose is the placed portal: a vertical rectangle in the XY plane of its
// local frame, centered on Position and rotated about +Y only.
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Width       float64
	Height      float64
}

// NewPose validates the extent and reduces the orientation to yaw so the
// portal always stands upright.
func NewPose(pos mgl64.Vec3, orientation mgl64.Quat, width, height float64) (Pose, error) {
	if !(width > 0) || !(height > 0) {
		return Pose{}, fmt.Errorf("%w: %gx%g", ErrInvalidExtent, width, height)
	}
	return Pose{
		Position:    pos,
		Orientation: mathutil.YawOnly(orientation),
		Width:       width,
		Height:      height,
	}, nil
}

// Scaled returns the pose with its extent multiplied by factor.
func (p Pose) Scaled(factor float64) (Pose, error) {
	return NewPose(p.Position, p.Orientation, p.Width*factor, p.Height*factor)
}

// Model returns the local → world transform.
func (p Pose) Model() mgl64.Mat4 {
	t := mgl64.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z())
	return t.Mul4(p.Orientation.Mat4())
}

// BoundingBox returns the local min and max corners (Z = 0).
func (p Pose) BoundingBox() (lo, hi mgl64.Vec3) {
	hw, hh := p.Width/2, p.Height/2
	return mgl64.Vec3{-hw, -hh, 0}, mgl64.Vec3{hw, hh, 0}
}

// LocalCorners returns the four local corners in quad order:
// MinLeft (min.x, max.y), Max, MaxRight (max.x, min.y), Min.
func (p Pose) LocalCorners() [4]mgl64.Vec3 {
	lo, hi := p.BoundingBox()
	return [4]mgl64.Vec3{
		{lo.X(), hi.Y(), 0},
		hi,
		{hi.X(), lo.Y(), 0},
		lo,
	}
}

// WorldCorners returns LocalCorners transformed into world space.
func (p Pose) WorldCorners() [4]mgl64.Vec3 {
	m := p.Model()
	var out [4]mgl64.Vec3
	for i, c := range p.LocalCorners() {
		out[i] = mgl64.TransformCoordinate(c, m)
	}
	return out
}

// Normal returns the world-space facing direction (local +Z).
func (p Pose) Normal() mgl64.Vec3 {
	return p.Orientation.Rotate(mgl64.Vec3{0, 0, 1})
}

// DepthOffset returns the signed distance of a world point from the portal
// plane, measured along the portal normal. It generalises the world-space
// point.z − position.z, which it equals for an unrotated portal.
func (p Pose) DepthOffset(point mgl64.Vec3) float64 {
	return point.Sub(p.Position).Dot(p.Normal())
}
