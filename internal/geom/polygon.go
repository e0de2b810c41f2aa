package geom

import "math"

// boundaryEps is the distance (in pixels) within which a point is treated as
// lying on a polygon edge.
const boundaryEps = 1e-9

// Polygon is an implicitly closed list of vertices.
type Polygon []Point

// Contains reports whether p lies inside the polygon using the non-zero
// winding rule. Points on an edge or vertex count as inside.
func (poly Polygon) Contains(p Point) bool {
	n := len(poly)
	if n < 3 {
		return false
	}

	winding := 0
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]

		if onSegment(a, b, p) {
			return true
		}

		// Sunday's winding number: count signed upward/downward crossings.
		if a.Y <= p.Y {
			if b.Y > p.Y && cross(a, b, p) > 0 {
				winding++
			}
		} else if b.Y <= p.Y && cross(a, b, p) < 0 {
			winding--
		}
	}
	return winding != 0
}

// Area returns the signed shoelace area. Positive when the vertices run
// clockwise on screen (Y down).
func (poly Polygon) Area() float64 {
	n := len(poly)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Bounds returns the smallest rectangle holding every vertex. Max is
// inclusive of the extreme vertices.
func (poly Polygon) Bounds() Rect {
	if len(poly) == 0 {
		return Rect{}
	}
	r := Rect{Min: poly[0], Max: poly[0]}
	for _, p := range poly[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

// IsFinite reports whether every vertex is finite.
func (poly Polygon) IsFinite() bool {
	for _, p := range poly {
		if !p.IsFinite() {
			return false
		}
	}
	return true
}

// FlipY mirrors the polygon vertically inside a canvas of the given height.
func (poly Polygon) FlipY(height float64) Polygon {
	out := make(Polygon, len(poly))
	for i, p := range poly {
		out[i] = Point{p.X, height - p.Y}
	}
	return out
}

// cross returns the z component of (b-a) × (p-a): positive when p is left of
// the directed edge a→b in a Y-up frame.
func cross(a, b, p Point) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (p.X-a.X)*(b.Y-a.Y)
}

func onSegment(a, b, p Point) bool {
	if math.Abs(cross(a, b, p)) > boundaryEps*math.Max(1, math.Hypot(b.X-a.X, b.Y-a.Y)) {
		return false
	}
	return p.X >= math.Min(a.X, b.X)-boundaryEps && p.X <= math.Max(a.X, b.X)+boundaryEps &&
		p.Y >= math.Min(a.Y, b.Y)-boundaryEps && p.Y <= math.Max(a.Y, b.Y)+boundaryEps
}

// ClipRect clips the polygon to r (Sutherland-Hodgman). The filled region
// inside r is unchanged; vertices far outside r are pulled onto its edges.
func (poly Polygon) ClipRect(r Rect) Polygon {
	out := poly
	edges := [4]struct {
		inside func(Point) bool
		cut    func(a, b Point) Point
	}{
		{func(p Point) bool { return p.X >= r.Min.X }, func(a, b Point) Point { return atX(a, b, r.Min.X) }},
		{func(p Point) bool { return p.X <= r.Max.X }, func(a, b Point) Point { return atX(a, b, r.Max.X) }},
		{func(p Point) bool { return p.Y >= r.Min.Y }, func(a, b Point) Point { return atY(a, b, r.Min.Y) }},
		{func(p Point) bool { return p.Y <= r.Max.Y }, func(a, b Point) Point { return atY(a, b, r.Max.Y) }},
	}
	for _, e := range edges {
		if len(out) == 0 {
			break
		}
		in := out
		out = make(Polygon, 0, len(in)+4)
		prev := in[len(in)-1]
		for _, cur := range in {
			switch curIn, prevIn := e.inside(cur), e.inside(prev); {
			case curIn && prevIn:
				out = append(out, cur)
			case curIn:
				out = append(out, e.cut(prev, cur), cur)
			case prevIn:
				out = append(out, e.cut(prev, cur))
			}
			prev = cur
		}
	}
	return out
}

func atX(a, b Point, x float64) Point {
	t := (x - a.X) / (b.X - a.X)
	return Point{x, a.Y + t*(b.Y-a.Y)}
}

func atY(a, b Point, y float64) Point {
	t := (y - a.Y) / (b.Y - a.Y)
	return Point{a.X + t*(b.X-a.X), y}
}
