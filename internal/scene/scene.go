// Package scene parses scene scripts: a viewport, a camera feed source and
// a list of camera poses with portal actions, replayed frame by frame
// against an engine.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"filter-portal/internal/camera"
	"filter-portal/internal/mathutil"
)

// ErrScene is returned for scripts that parse but do not make sense.
var ErrScene = errors.New("scene: invalid script")

// Source kinds.
const (
	SourceRoom  = "room"
	SourceImage = "image"
)

// Scene is one parsed script.
type Scene struct {
	Name     string     `yaml:"name" json:"name"`
	Viewport Viewport   `yaml:"viewport" json:"viewport"`
	Camera   Intrinsics `yaml:"camera" json:"camera"`
	Origin   string     `yaml:"origin" json:"origin"` // top-left (default) or bottom-left
	Source   Source     `yaml:"source" json:"source"`
	Filter   string     `yaml:"filter" json:"filter"`
	Steps    []Step     `yaml:"steps" json:"steps"`

	// dir is the script's directory; relative image paths resolve against it.
	dir string
}

// Viewport is the frame size in pixels.
type Viewport struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Intrinsics override the default camera model. Zero fields keep defaults.
type Intrinsics struct {
	FovY float64 `yaml:"fov_y" json:"fov_y"` // degrees
	Near float64 `yaml:"near" json:"near"`
	Far  float64 `yaml:"far" json:"far"`
}

// Source describes where frames come from. A room source renders the
// synthetic room (with Image, if set, on its back wall); an image source
// uses Image as every frame.
type Source struct {
	Kind  string `yaml:"kind" json:"kind"`
	Image string `yaml:"image" json:"image"`
	Room  *Room  `yaml:"room" json:"room"`
}

// Room overrides the synthetic room's extent in meters.
type Room struct {
	Width  float64 `yaml:"width" json:"width"`
	Depth  float64 `yaml:"depth" json:"depth"`
	Height float64 `yaml:"height" json:"height"`
}

// Step is one keyframe. The camera moves from the previous step's pose to
// this one over Frames frames; actions run before the first of them.
type Step struct {
	Camera   Pose     `yaml:"camera" json:"camera"`
	Frames   int      `yaml:"frames" json:"frames"`
	Tracking string   `yaml:"tracking" json:"tracking"` // normal, limited, not-available
	DropPose bool     `yaml:"drop_pose" json:"drop_pose"`
	Actions  []Action `yaml:"actions" json:"actions"`
}

// Pose is a camera position with either a look-at target or yaw/pitch
// angles in degrees.
type Pose struct {
	Position [3]float64  `yaml:"position" json:"position"`
	LookAt   *[3]float64 `yaml:"look_at" json:"look_at"`
	Yaw      float64     `yaml:"yaw" json:"yaw"`
	Pitch    float64     `yaml:"pitch" json:"pitch"`
}

// Action is a single portal interaction. Exactly one field is set.
type Action struct {
	Place       *Place  `yaml:"place" json:"place"`
	Scale       float64 `yaml:"scale" json:"scale"`
	CycleFilter bool    `yaml:"cycle_filter" json:"cycle_filter"`
	SetFilter   string  `yaml:"set_filter" json:"set_filter"`
	Reset       bool    `yaml:"reset" json:"reset"`
}

// Place is a tap on a detected plane at Hit.
type Place struct {
	Hit [3]float64 `yaml:"hit" json:"hit"`
}

// Kind names the action for logs and manifests.
func (a Action) Kind() string {
	switch {
	case a.Place != nil:
		return "place"
	case a.Scale != 0:
		return "scale"
	case a.CycleFilter:
		return "cycle_filter"
	case a.SetFilter != "":
		return "set_filter"
	case a.Reset:
		return "reset"
	}
	return ""
}

func (a Action) count() int {
	n := 0
	for _, set := range []bool{a.Place != nil, a.Scale != 0, a.CycleFilter, a.SetFilter != "", a.Reset} {
		if set {
			n++
		}
	}
	return n
}

// Load reads a YAML or JSON (by extension) scene script.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	s, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	s.dir = filepath.Dir(path)
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes a script. ext selects JSON for ".json" and YAML otherwise.
func Parse(data []byte, ext string) (*Scene, error) {
	var s Scene
	var err error
	if strings.EqualFold(ext, ".json") {
		err = json.Unmarshal(data, &s)
	} else {
		err = yaml.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if s.Source.Kind == "" {
		s.Source.Kind = SourceRoom
	}
	if s.Origin == "" {
		s.Origin = "top-left"
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the script for structural problems.
func (s *Scene) Validate() error {
	if s.Viewport.Width <= 0 || s.Viewport.Height <= 0 {
		return fmt.Errorf("%w: viewport %dx%d", ErrScene, s.Viewport.Width, s.Viewport.Height)
	}
	switch s.Source.Kind {
	case SourceRoom:
	case SourceImage:
		if s.Source.Image == "" {
			return fmt.Errorf("%w: image source without a path", ErrScene)
		}
	default:
		return fmt.Errorf("%w: unknown source kind %q", ErrScene, s.Source.Kind)
	}
	if s.Origin != "top-left" && s.Origin != "bottom-left" {
		return fmt.Errorf("%w: origin %q", ErrScene, s.Origin)
	}
	if s.Camera.FovY < 0 || s.Camera.FovY >= 180 {
		return fmt.Errorf("%w: fov_y %v", ErrScene, s.Camera.FovY)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrScene)
	}
	for i, st := range s.Steps {
		if st.Frames < 0 {
			return fmt.Errorf("%w: step %d: negative frame count", ErrScene, i)
		}
		switch st.Tracking {
		case "", "normal", "limited", "not-available":
		default:
			return fmt.Errorf("%w: step %d: tracking %q", ErrScene, i, st.Tracking)
		}
		for j, a := range st.Actions {
			if a.count() != 1 {
				return fmt.Errorf("%w: step %d action %d: want exactly one action, got %d", ErrScene, i, j, a.count())
			}
			if a.Scale < 0 {
				return fmt.Errorf("%w: step %d action %d: negative scale", ErrScene, i, j)
			}
		}
	}
	return nil
}

// ImagePath returns the source image path resolved against the script's
// directory, or "" when there is none.
func (s *Scene) ImagePath() string {
	if s.Source.Image == "" || filepath.IsAbs(s.Source.Image) || s.dir == "" {
		return s.Source.Image
	}
	return filepath.Join(s.dir, s.Source.Image)
}

// NewCamera builds a camera at pose p with the scene's intrinsics.
func (s *Scene) NewCamera(p Pose) *camera.Camera {
	pos := mgl64.Vec3(p.Position)
	var cam *camera.Camera
	if p.LookAt != nil {
		cam = camera.LookAt(pos, mgl64.Vec3(*p.LookAt))
	} else {
		yaw := mathutil.YawQuat(mgl64.DegToRad(p.Yaw))
		pitch := mgl64.QuatRotate(mgl64.DegToRad(p.Pitch), mgl64.Vec3{1, 0, 0})
		cam = camera.New(pos, yaw.Mul(pitch))
	}
	if s.Camera.FovY > 0 {
		cam.FovY = s.Camera.FovY * math.Pi / 180
	}
	if s.Camera.Near > 0 {
		cam.Near = s.Camera.Near
	}
	if s.Camera.Far > 0 {
		cam.Far = s.Camera.Far
	}
	return cam
}
