package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// YawOnly reduces an orientation to its rotation about the vertical (+Y)
// axis by dropping the X and Z quaternion components and renormalizing.
// A quaternion with no yaw component (pure pitch/roll by 180°) maps to
// identity.
func YawOnly(q mgl64.Quat) mgl64.Quat {
	w, y := q.W, q.V[1]
	l := math.Sqrt(w*w + y*y)
	if l < 1e-12 {
		return mgl64.QuatIdent()
	}
	return mgl64.Quat{W: w / l, V: mgl64.Vec3{0, y / l, 0}}
}

// YawQuat returns a rotation of a radians about +Y.
func YawQuat(a float64) mgl64.Quat {
	return mgl64.QuatRotate(a, mgl64.Vec3{0, 1, 0})
}

// Yaw returns the rotation angle about +Y in radians.
func Yaw(q mgl64.Quat) float64 {
	y := YawOnly(q)
	return 2 * math.Atan2(y.V[1], y.W)
}

// QuatFromBasis converts an orthonormal right-handed basis (the columns of a
// rotation matrix) into a quaternion.
func QuatFromBasis(x, y, z mgl64.Vec3) mgl64.Quat {
	m00, m01, m02 := x[0], y[0], z[0]
	m10, m11, m12 := x[1], y[1], z[1]
	m20, m21, m22 := x[2], y[2], z[2]

	var q mgl64.Quat
	switch trace := m00 + m11 + m22; {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = mgl64.Quat{W: 0.25 / s, V: mgl64.Vec3{(m21 - m12) * s, (m02 - m20) * s, (m10 - m01) * s}}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = mgl64.Quat{W: (m21 - m12) / s, V: mgl64.Vec3{0.25 * s, (m01 + m10) / s, (m02 + m20) / s}}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = mgl64.Quat{W: (m02 - m20) / s, V: mgl64.Vec3{(m01 + m10) / s, 0.25 * s, (m12 + m21) / s}}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = mgl64.Quat{W: (m10 - m01) / s, V: mgl64.Vec3{(m02 + m20) / s, (m12 + m21) / s, 0.25 * s}}
	}
	return q.Normalize()
}
