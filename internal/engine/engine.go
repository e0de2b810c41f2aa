// Package engine is the per-frame handler of one camera feed. It owns the
// placed portal, the spatial state and the selected filter, and runs the
// project → crop → classify → step → composite pipeline for every frame.
package engine

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"filter-portal/internal/compositor"
	"filter-portal/internal/filter"
	"filter-portal/internal/geom"
	"filter-portal/internal/mathutil"
	"filter-portal/internal/portal"
	"filter-portal/internal/spatial"
)

var (
	// ErrNoPointOfView is returned when a frame arrives without a camera.
	ErrNoPointOfView = errors.New("engine: no point of view")
	// ErrTrackingUnavailable is returned for frames without world tracking.
	ErrTrackingUnavailable = errors.New("engine: tracking not available")
	// ErrEmptyFrame is returned for frames without pixels.
	ErrEmptyFrame = errors.New("engine: empty frame")
	// ErrFilterIndex is returned by SetFilter for an index outside the catalog.
	ErrFilterIndex = errors.New("engine: filter index out of range")
)

// PlacementLift is how far above the tapped point, in portal heights, a new
// portal is centered.
const PlacementLift = 1.5

// Options configures an Engine.
type Options struct {
	Thresholds   spatial.Thresholds
	Catalog      *filter.Catalog // nil selects filter.DefaultCatalog
	FilterIndex  int
	PortalWidth  float64
	PortalHeight float64

	// RetainBuffers keeps the compositor's intermediate buffers between
	// frames instead of clearing them after each one.
	RetainBuffers bool

	Logger *slog.Logger
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		Thresholds:   spatial.DefaultThresholds(),
		FilterIndex:  filter.DefaultIndex,
		PortalWidth:  portal.DefaultWidth,
		PortalHeight: portal.DefaultHeight,
	}
}

// Report describes how a frame was handled.
type Report struct {
	Seq         int
	Placed      bool
	PlacementID uuid.UUID
	Visible     bool
	Case        compositor.Case
	State       spatial.State
	Shape       bool
	ShapeMode   portal.ShapeMode
	DeltaZ      float64
	Filter      string
	FilterIndex int
}

// Engine processes the frames of one feed. It is not safe for concurrent
// use; give every feed its own Engine.
type Engine struct {
	opts    Options
	catalog *filter.Catalog
	machine *spatial.Machine
	comp    *compositor.Compositor
	logger  *slog.Logger

	pose        *portal.Pose
	placementID uuid.UUID
	filterIndex int
	lastVisible bool
	seq         int
}

// New validates opts and returns an engine with no portal placed.
func New(opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = filter.DefaultCatalog()
	}
	if _, ok := catalog.At(opts.FilterIndex); !ok {
		return nil, fmt.Errorf("%w: %d of %d", ErrFilterIndex, opts.FilterIndex, catalog.Len())
	}
	if !(opts.PortalWidth > 0) || !(opts.PortalHeight > 0) {
		return nil, fmt.Errorf("engine: %w: %gx%g", portal.ErrInvalidExtent, opts.PortalWidth, opts.PortalHeight)
	}
	machine, err := spatial.NewMachine(opts.Thresholds, logger)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	return &Engine{
		opts:        opts,
		catalog:     catalog,
		machine:     machine,
		comp:        compositor.New(logger),
		logger:      logger,
		filterIndex: opts.FilterIndex,
	}, nil
}

// ProcessFrame composites one frame. Skipped frames return an error and no
// image; the caller keeps showing the previous output.
func (e *Engine) ProcessFrame(f Frame) (image.Image, Report, error) {
	e.seq++
	rep := e.baseReport()

	if f.Image == nil || f.Image.Bounds().Empty() {
		return nil, rep, ErrEmptyFrame
	}
	if f.Camera == nil {
		return nil, rep, ErrNoPointOfView
	}
	if f.Tracking == TrackingNotAvailable {
		return nil, rep, ErrTrackingUnavailable
	}

	if e.pose == nil {
		e.lastVisible = false
		rep.Case = compositor.CaseFallthrough
		return f.Image, rep, nil
	}

	b := f.Image.Bounds()
	viewport := geom.Size{W: float64(b.Dx()), H: float64(b.Dy())}

	quad := portal.Project(*e.pose, f.Camera, viewport)
	shape, ok := portal.BuildCropShape(quad, viewport)
	visible := portal.IsVisible(*e.pose, f.Camera, viewport)
	bigger := ok && portal.IsFrameBiggerThanCamera(shape, viewport)
	deltaZ := e.pose.DepthOffset(f.Camera.Position)

	st := e.machine.Observe(visible, bigger, deltaZ)
	e.lastVisible = visible

	var shp *portal.CropShape
	if ok {
		shp = &shape
	}
	spec, _ := e.catalog.At(e.filterIndex)
	out := e.comp.Composite(f.Image, f.Origin, shp, spec, st)
	if !e.opts.RetainBuffers {
		e.comp.ClearCaches()
	}

	rep.Visible = visible
	rep.Case = compositor.Decide(st, ok)
	rep.State = st
	rep.Shape = ok
	rep.ShapeMode = shape.Mode
	rep.DeltaZ = deltaZ

	e.logger.Debug("frame",
		"seq", e.seq,
		"case", rep.Case.String(),
		"phase", st.Phase().String(),
		"tracking", f.Tracking.String(),
		"delta_z", deltaZ,
	)
	return out, rep, nil
}

func (e *Engine) baseReport() Report {
	spec, _ := e.catalog.At(e.filterIndex)
	return Report{
		Seq:         e.seq,
		Placed:      e.pose != nil,
		PlacementID: e.placementID,
		State:       e.machine.State(),
		Filter:      spec.Name,
		FilterIndex: e.filterIndex,
	}
}

// PlacePortal spawns a new portal above hit, facing the camera's heading.
// Any previous portal is released and the spatial state starts over.
func (e *Engine) PlacePortal(hit mgl64.Vec3, cameraOrientation mgl64.Quat) (uuid.UUID, error) {
	h := e.opts.PortalHeight
	center := hit.Add(mgl64.Vec3{0, h * PlacementLift, 0})
	pose, err := portal.NewPose(center, cameraOrientation, e.opts.PortalWidth, h)
	if err != nil {
		return uuid.Nil, fmt.Errorf("engine: place portal: %w", err)
	}
	return e.SetPortal(pose), nil
}

// SetPortal installs pose directly and resets the spatial state.
func (e *Engine) SetPortal(pose portal.Pose) uuid.UUID {
	e.pose = &pose
	e.placementID = uuid.New()
	e.lastVisible = false
	e.machine.Reset()
	e.logger.Info("portal placed",
		"id", e.placementID.String(),
		"x", pose.Position.X(), "y", pose.Position.Y(), "z", pose.Position.Z(),
		"yaw_deg", mgl64.RadToDeg(mathutil.Yaw(pose.Orientation)),
		"width", pose.Width, "height", pose.Height,
	)
	return e.placementID
}

// ScalePortal multiplies the portal's extent by factor. Like the pinch
// gesture it only acts while the portal was visible on the last frame; it
// reports whether the portal changed.
func (e *Engine) ScalePortal(factor float64) bool {
	if e.pose == nil || !e.lastVisible || !(factor > 0) {
		return false
	}
	scaled, err := e.pose.Scaled(factor)
	if err != nil {
		return false
	}
	e.pose = &scaled
	return true
}

// Portal returns the placed portal.
func (e *Engine) Portal() (portal.Pose, bool) {
	if e.pose == nil {
		return portal.Pose{}, false
	}
	return *e.pose, true
}

// Reset removes the portal and returns to Outside/Stable.
func (e *Engine) Reset() {
	if e.pose != nil {
		e.logger.Info("portal removed", "id", e.placementID.String())
	}
	e.pose = nil
	e.placementID = uuid.Nil
	e.lastVisible = false
	e.machine.Reset()
	e.comp.ClearCaches()
}

// State returns the current spatial state.
func (e *Engine) State() spatial.State {
	return e.machine.State()
}

// SetFilter selects catalog entry i.
func (e *Engine) SetFilter(i int) error {
	if _, ok := e.catalog.At(i); !ok {
		return fmt.Errorf("%w: %d of %d", ErrFilterIndex, i, e.catalog.Len())
	}
	e.filterIndex = i
	return nil
}

// CycleFilter advances to the next catalog entry, wrapping around, and
// returns the new index.
func (e *Engine) CycleFilter() int {
	e.filterIndex = e.catalog.Next(e.filterIndex)
	return e.filterIndex
}

// FilterIndex returns the selected catalog entry.
func (e *Engine) FilterIndex() int {
	return e.filterIndex
}

// Catalog returns the engine's filter catalog.
func (e *Engine) Catalog() *filter.Catalog {
	return e.catalog
}
