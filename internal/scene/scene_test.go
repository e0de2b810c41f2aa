package scene

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const walk = `
name: walk-through
viewport: {width: 90, height: 160}
camera: {fov_y: 65}
source:
  kind: room
  image: photo.png
filter: noir
steps:
  - camera: {position: [0, 1.4, 3], look_at: [0, 1.35, 0]}
    actions:
      - place: {hit: [0, 0, 0]}
  - camera: {position: [0, 1.4, 1], look_at: [0, 1.35, -2]}
    frames: 4
    actions:
      - cycle_filter: true
      - scale: 1.2
  - camera: {position: [0, 1.4, 1]}
    drop_pose: true
  - camera: {position: [0, 1.4, 1], yaw: 90}
    tracking: limited
    actions:
      - set_filter: edges
      - reset: true
`

func TestParseYAML(t *testing.T) {
	s, err := Parse([]byte(walk), ".yaml")
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "walk-through" || s.Viewport.Width != 90 || s.Source.Kind != SourceRoom || s.Origin != "top-left" {
		t.Errorf("header = %+v", s)
	}
	if len(s.Steps) != 4 {
		t.Fatalf("steps = %d", len(s.Steps))
	}
	kinds := []string{}
	for _, st := range s.Steps {
		for _, a := range st.Actions {
			kinds = append(kinds, a.Kind())
		}
	}
	want := []string{"place", "cycle_filter", "scale", "set_filter", "reset"}
	if len(kinds) != len(want) {
		t.Fatalf("actions = %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("action %d = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestParseJSON(t *testing.T) {
	src := `{"viewport": {"width": 4, "height": 8}, "source": {"kind": "image", "image": "a.png"},
		"steps": [{"camera": {"position": [0, 0, 1]}}]}`
	s, err := Parse([]byte(src), ".json")
	if err != nil {
		t.Fatal(err)
	}
	if s.Source.Kind != SourceImage || s.ImagePath() != "a.png" {
		t.Errorf("source = %+v", s.Source)
	}
}

func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"no viewport":     "steps: [{camera: {position: [0,0,0]}}]",
		"no steps":        "viewport: {width: 1, height: 1}",
		"bad source":      "viewport: {width: 1, height: 1}\nsource: {kind: video}\nsteps: [{}]",
		"image w/o path":  "viewport: {width: 1, height: 1}\nsource: {kind: image}\nsteps: [{}]",
		"two actions":     "viewport: {width: 1, height: 1}\nsteps: [{actions: [{reset: true, cycle_filter: true}]}]",
		"empty action":    "viewport: {width: 1, height: 1}\nsteps: [{actions: [{}]}]",
		"bad tracking":    "viewport: {width: 1, height: 1}\nsteps: [{tracking: lost}]",
		"bad origin":      "viewport: {width: 1, height: 1}\norigin: center\nsteps: [{}]",
		"negative frames": "viewport: {width: 1, height: 1}\nsteps: [{frames: -2}]",
	}
	for name, src := range tests {
		if _, err := Parse([]byte(src), ".yaml"); !errors.Is(err, ErrScene) {
			t.Errorf("%s: err = %v, want ErrScene", name, err)
		}
	}
	if _, err := Parse([]byte("viewport: [1"), ".yaml"); err == nil {
		t.Error("malformed YAML accepted")
	}
}

func TestFramesInterpolate(t *testing.T) {
	s, err := Parse([]byte(walk), ".yaml")
	if err != nil {
		t.Fatal(err)
	}
	frames := s.Frames()
	if len(frames) != 1+4+1+1 {
		t.Fatalf("frames = %d", len(frames))
	}

	if len(frames[0].Actions) != 1 || len(frames[1].Actions) != 2 || len(frames[2].Actions) != 0 {
		t.Error("actions not attached to each step's first frame only")
	}

	// Step 1 moves z from 3 to 1 over four frames.
	for k, want := range []float64{2.5, 2, 1.5, 1} {
		if got := frames[1+k].Pose.Position[2]; math.Abs(got-want) > 1e-12 {
			t.Errorf("frame %d z = %v, want %v", 1+k, got, want)
		}
	}
	if frames[5].Pose.LookAt != nil || !frames[5].DropPose {
		t.Errorf("look-at to angles should snap: %+v", frames[5])
	}
	if frames[6].Tracking != "limited" {
		t.Errorf("tracking = %q", frames[6].Tracking)
	}
}

func TestNewCamera(t *testing.T) {
	s := &Scene{Camera: Intrinsics{FovY: 90, Near: 0.01}}

	cam := s.NewCamera(Pose{Position: [3]float64{0, 1, 0}, Yaw: 90})
	if f := cam.Forward(); f.Sub(mgl64.Vec3{-1, 0, 0}).Len() > 1e-9 {
		t.Errorf("yaw 90 forward = %v, want -X", f)
	}
	if math.Abs(cam.FovY-math.Pi/2) > 1e-12 || cam.Near != 0.01 {
		t.Errorf("intrinsics = %v / %v", cam.FovY, cam.Near)
	}

	target := [3]float64{0, 1, -5}
	cam = s.NewCamera(Pose{Position: [3]float64{0, 1, 0}, LookAt: &target})
	if f := cam.Forward(); f.Sub(mgl64.Vec3{0, 0, -1}).Len() > 1e-9 {
		t.Errorf("look-at forward = %v", f)
	}
}

func TestLoadResolvesRelativeImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "walk.yaml")
	if err := os.WriteFile(path, []byte(walk), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.ImagePath(); got != filepath.Join(dir, "photo.png") {
		t.Errorf("ImagePath = %q", got)
	}
}
