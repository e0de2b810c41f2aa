// Package raster renders a synthetic camera feed: a small textured room
// seen through a camera.Camera, drawn with a z-buffered triangle
// rasterizer. It stands in for a live AR session when running scene
// scripts.
package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"filter-portal/internal/camera"
	"filter-portal/internal/geom"
)

// Triangle is one world-space face. UVs address Texture with (0,0) at the
// top-left texel; without a texture the face is Color.
type Triangle struct {
	V       [3]mgl64.Vec3
	UV      [3]mgl64.Vec2
	Color   color.NRGBA
	Texture *image.NRGBA
}

// Scene is a list of faces lit by one directional light.
type Scene struct {
	Triangles  []Triangle
	Background color.NRGBA
	Light      mgl64.Vec3 // direction towards the light
	Ambient    float64
}

// AddQuad appends the quad a-b-c-d (a top-left, then clockwise) as two
// triangles. tex may be nil.
func (s *Scene) AddQuad(a, b, c, d mgl64.Vec3, col color.NRGBA, tex *image.NRGBA) {
	uv := [4]mgl64.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	s.Triangles = append(s.Triangles,
		Triangle{V: [3]mgl64.Vec3{a, b, c}, UV: [3]mgl64.Vec2{uv[0], uv[1], uv[2]}, Color: col, Texture: tex},
		Triangle{V: [3]mgl64.Vec3{a, c, d}, UV: [3]mgl64.Vec2{uv[0], uv[2], uv[3]}, Color: col, Texture: tex},
	)
}

// Render draws the scene as seen by cam into a width×height image.
func Render(s *Scene, cam *camera.Camera, width, height int) *image.NRGBA {
	fb := NewFrameBuffer(width, height)
	fb.Fill(s.Background)

	viewport := geom.Size{W: float64(width), H: float64(height)}
	vp := cam.ViewProjection(viewport)
	light := s.Light
	if light.Len() > 0 {
		light = light.Normalize()
	}

	var clipped [9]clipVertex
	for i := range s.Triangles {
		tri := &s.Triangles[i]

		n := tri.V[1].Sub(tri.V[0]).Cross(tri.V[2].Sub(tri.V[0]))
		if n.Len() < 1e-12 {
			continue
		}
		shade := s.Ambient + (1-s.Ambient)*math.Abs(n.Normalize().Dot(light))

		var in [3]clipVertex
		for k := 0; k < 3; k++ {
			in[k] = clipVertex{
				pos: vp.Mul4x1(tri.V[k].Vec4(1)),
				uv:  tri.UV[k],
			}
		}
		poly := clipNear(in[:], clipped[:0])
		if len(poly) < 3 {
			continue
		}

		var sv [9]screenVertex
		for k, cv := range poly {
			sv[k] = toScreen(cv, viewport)
		}
		for k := 1; k+1 < len(poly); k++ {
			rasterizeTriangle(fb, sv[0], sv[k], sv[k+1], tri.Texture, tri.Color, shade)
		}
	}
	return fb.Image()
}

// clipVertex is a vertex in clip space.
type clipVertex struct {
	pos mgl64.Vec4
	uv  mgl64.Vec2
}

// clipNear clips a convex polygon against the near plane (z + w >= 0) and
// appends the result to out. Surviving vertices have w >= near > 0.
func clipNear(in []clipVertex, out []clipVertex) []clipVertex {
	dist := func(v clipVertex) float64 { return v.pos.Z() + v.pos.W() }
	prev := in[len(in)-1]
	dPrev := dist(prev)
	for _, cur := range in {
		dCur := dist(cur)
		if (dPrev >= 0) != (dCur >= 0) {
			t := dPrev / (dPrev - dCur)
			out = append(out, clipVertex{
				pos: prev.pos.Add(cur.pos.Sub(prev.pos).Mul(t)),
				uv:  prev.uv.Add(cur.uv.Sub(prev.uv).Mul(t)),
			})
		}
		if dCur >= 0 {
			out = append(out, cur)
		}
		prev, dPrev = cur, dCur
	}
	return out
}

// toScreen divides by w and maps NDC to pixels with Y down, matching
// camera.ProjectPoint.
func toScreen(v clipVertex, viewport geom.Size) screenVertex {
	invW := 1 / v.pos.W()
	return screenVertex{
		x:    (v.pos.X()*invW + 1) * 0.5 * viewport.W,
		y:    (1 - v.pos.Y()*invW) * 0.5 * viewport.H,
		z:    v.pos.Z() * invW,
		invW: invW,
		uw:   v.uv.X() * invW,
		vw:   v.uv.Y() * invW,
	}
}
