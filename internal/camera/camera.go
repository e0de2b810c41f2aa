// Package camera models the per-frame point of view delivered by the AR
// session: a pinhole camera with a rigid pose and a perspective projection.
// The camera looks down its local -Z axis with +Y up (OpenGL convention).
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"filter-portal/internal/geom"
	"filter-portal/internal/mathutil"
)

// Default intrinsics, close to a phone's wide camera in portrait.
const (
	DefaultFovY = 60 * math.Pi / 180
	DefaultNear = 0.001
	DefaultFar  = 1000
)

// Camera is a point of view valid for a single frame.
type Camera struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat // camera → world rotation
	FovY        float64    // vertical field of view, radians
	Near        float64
	Far         float64
}

// New returns a camera at pos with the given orientation and default
// intrinsics.
func New(pos mgl64.Vec3, orientation mgl64.Quat) *Camera {
	return &Camera{
		Position:    pos,
		Orientation: orientation.Normalize(),
		FovY:        DefaultFovY,
		Near:        DefaultNear,
		Far:         DefaultFar,
	}
}

// LookAt returns a camera at eye oriented toward target with +Y as up.
func LookAt(eye, target mgl64.Vec3) *Camera {
	return New(eye, lookRotation(eye, target))
}

func lookRotation(eye, target mgl64.Vec3) mgl64.Quat {
	fwd := target.Sub(eye)
	if fwd.Len() < 1e-12 {
		return mgl64.QuatIdent()
	}
	up := mgl64.Vec3{0, 1, 0}
	// Looking straight up or down: any horizontal up vector works.
	if fwd.Normalize().Cross(up).Len() < 1e-9 {
		up = mgl64.Vec3{0, 0, -1}
	}
	f := fwd.Normalize()
	right := f.Cross(up).Normalize()
	camUp := right.Cross(f)
	return mathutil.QuatFromBasis(right, camUp, f.Mul(-1))
}

// Forward returns the world-space viewing direction.
func (c *Camera) Forward() mgl64.Vec3 {
	return c.Orientation.Rotate(mgl64.Vec3{0, 0, -1})
}

// View returns the world → camera matrix.
func (c *Camera) View() mgl64.Mat4 {
	p := c.Position
	return c.Orientation.Inverse().Mat4().Mul4(mgl64.Translate3D(-p.X(), -p.Y(), -p.Z()))
}

// Projection returns the perspective matrix for a viewport. The viewport's
// aspect ratio drives the horizontal field of view, which is how a portrait
// display crops the sensor image.
func (c *Camera) Projection(viewport geom.Size) mgl64.Mat4 {
	aspect := 1.0
	if viewport.H > 0 {
		aspect = viewport.W / viewport.H
	}
	return mgl64.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// ViewProjection returns Projection × View.
func (c *Camera) ViewProjection(viewport geom.Size) mgl64.Mat4 {
	return c.Projection(viewport).Mul4(c.View())
}

// ProjectPoint maps a world-space point to image coordinates (origin
// top-left, Y down) for the viewport. Points behind the camera are mirrored
// through the center of projection, as the platform projector does; points
// on the camera plane yield non-finite coordinates.
func (c *Camera) ProjectPoint(world mgl64.Vec3, viewport geom.Size) geom.Point {
	w := int(math.Round(viewport.W))
	h := int(math.Round(viewport.H))
	win := mgl64.Project(world, c.View(), c.Projection(viewport), 0, 0, w, h)
	return geom.Pt(win.X(), float64(h)-win.Y())
}

// Frustum returns the six clip planes for the viewport.
func (c *Camera) Frustum(viewport geom.Size) Frustum {
	return NewFrustumFromMatrix(c.ViewProjection(viewport))
}

// DepthOf returns the distance of a world point in front of the camera
// along its viewing direction (negative when behind).
func (c *Camera) DepthOf(world mgl64.Vec3) float64 {
	return world.Sub(c.Position).Dot(c.Forward())
}
