package camera

import "github.com/go-gl/mathgl/mgl64"

// Plane is the half-space Normal·p + D >= 0.
type Plane struct {
	Normal mgl64.Vec3
	D      float64
}

// Normalize scales the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Mul(1 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = inside (same side as the normal).
func (p Plane) DistanceToPoint(pt mgl64.Vec3) float64 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six inward-facing clip planes of a view volume.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// NewFrustumFromMatrix extracts the planes of a view-projection matrix
// (Gribb/Hartmann). mgl64 matrices are column-major, so row i is
// m[i], m[i+4], m[i+8], m[i+12].
func NewFrustumFromMatrix(m mgl64.Mat4) Frustum {
	row := func(i int) [4]float64 {
		return [4]float64{m[i], m[i+4], m[i+8], m[i+12]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	plane := func(a, b [4]float64, sign float64) Plane {
		return Plane{
			Normal: mgl64.Vec3{a[0] + sign*b[0], a[1] + sign*b[1], a[2] + sign*b[2]},
			D:      a[3] + sign*b[3],
		}
	}

	var f Frustum
	f.Planes[FrustumLeft] = plane(r3, r0, 1)
	f.Planes[FrustumRight] = plane(r3, r0, -1)
	f.Planes[FrustumBottom] = plane(r3, r1, 1)
	f.Planes[FrustumTop] = plane(r3, r1, -1)
	f.Planes[FrustumNear] = plane(r3, r2, 1)
	f.Planes[FrustumFar] = plane(r3, r2, -1)
	for i := range f.Planes {
		f.Planes[i].Normalize()
	}
	return f
}

// ContainsPoint reports whether a point is inside all six planes.
func (f Frustum) ContainsPoint(p mgl64.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsHull reports whether the convex hull of pts may overlap the
// frustum. It rejects only when every point is outside the same plane, so
// large shapes straddling a frustum corner are conservatively accepted.
func (f Frustum) IntersectsHull(pts []mgl64.Vec3) bool {
	if len(pts) == 0 {
		return false
	}
	for i := range f.Planes {
		outside := 0
		for _, p := range pts {
			if f.Planes[i].DistanceToPoint(p) < 0 {
				outside++
			}
		}
		if outside == len(pts) {
			return false
		}
	}
	return true
}
