package geom

import (
	"math"
	"testing"
)

func TestPolygonContains(t *testing.T) {
	square := Polygon{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"center", Pt(5, 5), true},
		{"outside right", Pt(11, 5), false},
		{"outside above", Pt(5, -0.5), false},
		{"on edge", Pt(10, 5), true},
		{"on vertex", Pt(0, 0), true},
		{"opposite vertex", Pt(10, 10), true},
	}
	for _, tt := range tests {
		if got := square.Contains(tt.p); got != tt.want {
			t.Errorf("%s: Contains(%v) = %v, want %v", tt.name, tt.p, got, tt.want)
		}
	}
}

func TestPolygonContainsIndependentOfWinding(t *testing.T) {
	cw := Polygon{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}
	ccw := Polygon{Pt(0, 10), Pt(10, 10), Pt(10, 0), Pt(0, 0)}
	for _, p := range []Point{Pt(3, 3), Pt(9.9, 0.1), Pt(-1, 5)} {
		if cw.Contains(p) != ccw.Contains(p) {
			t.Errorf("winding changes result for %v", p)
		}
	}
}

func TestPolygonContainsQuad(t *testing.T) {
	// A perspective-skewed quad like a projected portal.
	quad := Polygon{Pt(100, 50), Pt(300, 80), Pt(290, 400), Pt(110, 420)}
	if !quad.Contains(Pt(200, 200)) {
		t.Error("expected interior point to be contained")
	}
	if quad.Contains(Pt(200, 55)) {
		t.Error("expected point above slanted top edge to be outside")
	}
}

func TestPolygonDegenerate(t *testing.T) {
	if (Polygon{Pt(0, 0), Pt(1, 1)}).Contains(Pt(0, 0)) {
		t.Error("two-point polygon must not contain anything")
	}
}

func TestPolygonArea(t *testing.T) {
	square := Polygon{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}
	if a := square.Area(); math.Abs(a-100) > 1e-9 {
		t.Errorf("Area = %v, want 100", a)
	}
	rev := Polygon{Pt(0, 10), Pt(10, 10), Pt(10, 0), Pt(0, 0)}
	if a := rev.Area(); math.Abs(a+100) > 1e-9 {
		t.Errorf("reversed Area = %v, want -100", a)
	}
}

func TestPolygonFlipY(t *testing.T) {
	p := Polygon{Pt(1, 2), Pt(3, 8)}.FlipY(10)
	if p[0] != Pt(1, 8) || p[1] != Pt(3, 2) {
		t.Errorf("FlipY = %v", p)
	}
}

func TestRectContainsHalfOpen(t *testing.T) {
	r := Size{W: 4, H: 3}.Rect()
	if !r.Contains(Pt(0, 0)) {
		t.Error("Min corner should be inside")
	}
	if r.Contains(Pt(4, 1)) || r.Contains(Pt(1, 3)) {
		t.Error("Max edges should be outside")
	}
}

func TestPointIsFinite(t *testing.T) {
	if !Pt(1, 2).IsFinite() {
		t.Error("finite point reported non-finite")
	}
	if Pt(math.Inf(1), 0).IsFinite() || Pt(0, math.NaN()).IsFinite() {
		t.Error("non-finite point reported finite")
	}
}

func TestPolygonClipRect(t *testing.T) {
	r := Size{W: 10, H: 10}.Rect()

	big := Polygon{Pt(-100, -100), Pt(300, -100), Pt(100, 300)}
	if a := math.Abs(big.ClipRect(r).Area()); math.Abs(a-100) > 1e-9 {
		t.Errorf("covering triangle clipped area = %v, want 100", a)
	}

	half := Polygon{Pt(5, -50), Pt(50, -50), Pt(50, 50), Pt(5, 50)}
	if a := math.Abs(half.ClipRect(r).Area()); math.Abs(a-50) > 1e-9 {
		t.Errorf("half clipped area = %v, want 50", a)
	}

	outside := Polygon{Pt(20, 20), Pt(30, 20), Pt(30, 30)}
	if got := outside.ClipRect(r); len(got) != 0 {
		t.Errorf("outside polygon clipped to %v", got)
	}
}
