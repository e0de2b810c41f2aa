package engine

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"filter-portal/internal/camera"
	"filter-portal/internal/compositor"
	"filter-portal/internal/portal"
	"filter-portal/internal/spatial"
)

var orange = color.RGBA{200, 40, 90, 255}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func at(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func isGray(c color.RGBA) bool {
	d := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	return d(c.R, c.G) <= 3 && d(c.G, c.B) <= 3
}

func newEngine(t *testing.T, filterIndex int) *Engine {
	t.Helper()
	opts := DefaultOptions()
	opts.FilterIndex = filterIndex
	e, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

// placeAtOrigin places a portal centered on the world origin facing +Z.
func placeAtOrigin(t *testing.T, e *Engine) {
	t.Helper()
	hit := mgl64.Vec3{0, -portal.DefaultHeight * PlacementLift, 0}
	if _, err := e.PlacePortal(hit, mgl64.QuatIdent()); err != nil {
		t.Fatal(err)
	}
}

func viewFrom(z float64) *camera.Camera {
	return camera.LookAt(mgl64.Vec3{0, 0, z}, mgl64.Vec3{0, 0, z - 1})
}

func frame(cam *camera.Camera) Frame {
	return Frame{Image: solid(90, 160, orange), Camera: cam}
}

func TestSkippedFrames(t *testing.T) {
	e := newEngine(t, 0)
	placeAtOrigin(t, e)

	tests := []struct {
		name string
		f    Frame
		want error
	}{
		{"no camera", Frame{Image: solid(4, 4, orange)}, ErrNoPointOfView},
		{"no tracking", Frame{Image: solid(4, 4, orange), Camera: viewFrom(2), Tracking: TrackingNotAvailable}, ErrTrackingUnavailable},
		{"no pixels", Frame{Camera: viewFrom(2)}, ErrEmptyFrame},
	}
	for _, tt := range tests {
		out, _, err := e.ProcessFrame(tt.f)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
		if out != nil {
			t.Errorf("%s: skipped frame produced output", tt.name)
		}
	}
	if st := e.State(); st != (spatial.State{}) {
		t.Errorf("skipped frames changed state: %+v", st)
	}
}

func TestNoPortalPassesThrough(t *testing.T) {
	e := newEngine(t, 0)
	f := frame(viewFrom(2))
	out, rep, err := e.ProcessFrame(f)
	if err != nil {
		t.Fatal(err)
	}
	if out != f.Image {
		t.Error("frame not passed through")
	}
	if rep.Placed {
		t.Error("report claims a placed portal")
	}
}

func TestGrayscaleCropFromTwoMeters(t *testing.T) {
	e := newEngine(t, 0)
	placeAtOrigin(t, e)

	out, rep, err := e.ProcessFrame(frame(viewFrom(2)))
	if err != nil {
		t.Fatal(err)
	}
	if rep.Case != compositor.CaseEdgesVisible || rep.State.InFilteredSide {
		t.Fatalf("report = %+v, want edges-visible from outside", rep)
	}
	if rep.Filter != "noir" || !rep.Placed || rep.ShapeMode != portal.ShapeDirect {
		t.Errorf("report = %+v", rep)
	}
	if px := at(out, 45, 80); !isGray(px) {
		t.Errorf("portal center = %v, want gray", px)
	}
	if px := at(out, 1, 1); px != orange {
		t.Errorf("frame corner = %v, want %v", px, orange)
	}
}

func TestCloseApproachEntersPortal(t *testing.T) {
	e := newEngine(t, 0)
	placeAtOrigin(t, e)

	if _, rep, _ := e.ProcessFrame(frame(viewFrom(2))); rep.State.InFilteredSide {
		t.Fatal("started on the filtered side")
	}

	out, rep, err := e.ProcessFrame(frame(viewFrom(0.05)))
	if err != nil {
		t.Fatal(err)
	}
	if !rep.Visible || !rep.State.FrameBiggerThanCamera {
		t.Fatalf("close up not classified as filling the frame: %+v", rep)
	}
	if !rep.State.DidEnterPortal || !rep.State.InFilteredSide {
		t.Fatalf("state = %+v, want crossing into the filtered side", rep.State)
	}
	if px := at(out, 45, 80); !isGray(px) {
		t.Errorf("crossing frame pixel = %v, want filtered", px)
	}

	_, rep, _ = e.ProcessFrame(frame(viewFrom(0.3)))
	if rep.State.Phase() != spatial.InsideStable {
		t.Errorf("after backing off: %v, want inside", rep.State.Phase())
	}
}

func TestResetMidTransition(t *testing.T) {
	e := newEngine(t, 0)
	placeAtOrigin(t, e)
	e.ProcessFrame(frame(viewFrom(0.05)))
	if e.State().Phase() != spatial.Transitioning {
		t.Fatalf("setup: phase %v", e.State().Phase())
	}

	e.Reset()
	if st := e.State(); st != (spatial.State{}) || st.Phase() != spatial.OutsideStable {
		t.Errorf("after reset: %+v", st)
	}
	if _, ok := e.Portal(); ok {
		t.Error("portal survived reset")
	}
	f := frame(viewFrom(0.05))
	if out, _, _ := e.ProcessFrame(f); out != f.Image {
		t.Error("frame after reset not passed through")
	}
}

func TestPlacementResetsState(t *testing.T) {
	e := newEngine(t, 0)
	placeAtOrigin(t, e)
	first, _ := e.Portal()
	e.ProcessFrame(frame(viewFrom(0.05)))

	id, err := e.PlacePortal(mgl64.Vec3{1, 0, -3}, tiltedOrientation())
	if err != nil {
		t.Fatal(err)
	}
	if e.State() != (spatial.State{}) {
		t.Errorf("state not reset on placement: %+v", e.State())
	}
	p, _ := e.Portal()
	if p.Position.ApproxEqual(first.Position) {
		t.Error("portal did not move")
	}
	if want := portal.DefaultHeight * PlacementLift; p.Position.Y() != want {
		t.Errorf("center y = %v, want %v", p.Position.Y(), want)
	}
	if q := p.Orientation; q.V.X() != 0 || q.V.Z() != 0 {
		t.Errorf("portal not upright: %v", q)
	}
	if _, rep, _ := e.ProcessFrame(frame(viewFrom(2))); rep.PlacementID != id {
		t.Errorf("report id %v, want %v", rep.PlacementID, id)
	}
}

// tiltedOrientation is a camera orientation with pitch and roll as well as yaw.
func tiltedOrientation() mgl64.Quat {
	return mgl64.AnglesToQuat(0.3, 0.7, -0.2, mgl64.XYZ)
}

func TestScalePortalRequiresVisibility(t *testing.T) {
	e := newEngine(t, 0)
	placeAtOrigin(t, e)

	if e.ScalePortal(2) {
		t.Error("scaled before the portal was seen")
	}

	e.ProcessFrame(frame(viewFrom(2)))
	if !e.ScalePortal(2) {
		t.Fatal("scale ignored while visible")
	}
	p, _ := e.Portal()
	if p.Width != 2*portal.DefaultWidth || p.Height != 2*portal.DefaultHeight {
		t.Errorf("extent = %vx%v", p.Width, p.Height)
	}
	for _, f := range []float64{0, -1} {
		if e.ScalePortal(f) {
			t.Errorf("ScalePortal(%v) accepted", f)
		}
	}

	// Looking away hides the portal.
	e.ProcessFrame(Frame{Image: solid(90, 160, orange), Camera: camera.LookAt(mgl64.Vec3{0, 0, 2}, mgl64.Vec3{0, 0, 5})})
	if e.ScalePortal(2) {
		t.Error("scaled while hidden")
	}
}

func TestFilterSelection(t *testing.T) {
	e := newEngine(t, DefaultOptions().FilterIndex)
	if e.FilterIndex() != 4 {
		t.Errorf("default filter = %d", e.FilterIndex())
	}
	n := e.Catalog().Len()
	for i := 0; i < n; i++ {
		e.CycleFilter()
	}
	if e.FilterIndex() != 4 {
		t.Errorf("full cycle ended at %d", e.FilterIndex())
	}
	if err := e.SetFilter(n); !errors.Is(err, ErrFilterIndex) {
		t.Errorf("SetFilter(%d) = %v", n, err)
	}
	if err := e.SetFilter(1); err != nil || e.FilterIndex() != 1 {
		t.Errorf("SetFilter(1) = %v, index %d", err, e.FilterIndex())
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	bad := []func(*Options){
		func(o *Options) { o.FilterIndex = 99 },
		func(o *Options) { o.Thresholds = spatial.Thresholds{Enter: 0.3, Exit: 0.2} },
		func(o *Options) { o.PortalWidth = 0 },
	}
	for i, mutate := range bad {
		opts := DefaultOptions()
		mutate(&opts)
		if _, err := New(opts); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestBuffersClearedUnlessRetained(t *testing.T) {
	for _, retain := range []bool{false, true} {
		opts := DefaultOptions()
		opts.FilterIndex = 0
		opts.RetainBuffers = retain
		e, err := New(opts)
		if err != nil {
			t.Fatal(err)
		}
		placeAtOrigin(t, e)
		e.ProcessFrame(frame(viewFrom(2)))
		if got := e.comp.CachedBuffers() > 0; got != retain {
			t.Errorf("retain=%v: cached buffers present = %v", retain, got)
		}
	}
}
