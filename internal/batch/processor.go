// Package batch replays scene scripts through the portal engine on a worker
// pool and writes every composited frame to disk.
package batch

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"filter-portal/internal/camera"
	"filter-portal/internal/compositor"
	"filter-portal/internal/engine"
	"filter-portal/internal/filter"
	"filter-portal/internal/frameio"
	"filter-portal/internal/postprocess"
	"filter-portal/internal/raster"
	"filter-portal/internal/scene"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir     string
	Encoder       frameio.Encoder
	Engine        engine.Options // template; every scene gets its own engine
	DefaultFilter string
	Sources       frameio.Resolver
	Workers       int
	Logger        *slog.Logger
}

// Result holds the outcome of replaying one scene.
type Result struct {
	Scene   string
	Frames  []FrameRecord
	Skipped int
	Success bool
	Error   string
}

// ErrDuplicateScene is reported for a scene whose name, and therefore output
// directory, is already taken by an earlier scene in the same run.
var ErrDuplicateScene = errors.New("batch: duplicate scene name")

// Run processes all scenes using a worker pool. Scene names key the output
// directories, so a repeated name fails every scene after the first.
func Run(cfg Config, scenes []*scene.Scene) []Result {
	total := len(scenes)
	results := make([]Result, total)

	var pending []int
	seen := make(map[string]int, total)
	for i, sc := range scenes {
		if j, ok := seen[sc.Name]; ok {
			results[i] = Result{Scene: sc.Name, Error: fmt.Sprintf("%v: %q (also scene %d)", ErrDuplicateScene, sc.Name, j)}
			continue
		}
		seen[sc.Name] = i
		pending = append(pending, i)
	}
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					fmt.Printf("  [%d/%d] %.1f scenes/sec\n", p, total, float64(p)/elapsed)
				}
			}
		}
	}()

	workers := max(cfg.Workers, 1)
	sceneChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range sceneChan {
				results[idx] = RunScene(cfg, scenes[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for _, i := range pending {
		sceneChan <- i
	}
	close(sceneChan)

	wg.Wait()
	close(done)

	return results
}

// RunScene replays one scene with a fresh engine.
func RunScene(cfg Config, sc *scene.Scene) Result {
	res := Result{Scene: sc.Name}
	fail := func(err error) Result {
		res.Error = err.Error()
		return res
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("scene", sc.Name)

	opts := cfg.Engine
	opts.Logger = logger
	if opts.Catalog == nil {
		opts.Catalog = filter.DefaultCatalog()
	}
	name := sc.Filter
	if name == "" {
		name = cfg.DefaultFilter
	}
	if name != "" {
		i, ok := opts.Catalog.Lookup(name)
		if !ok {
			return fail(fmt.Errorf("unknown filter %q", name))
		}
		opts.FilterIndex = i
	}

	eng, err := engine.New(opts)
	if err != nil {
		return fail(err)
	}
	feed, err := newFeed(cfg, sc)
	if err != nil {
		return fail(err)
	}

	origin := compositor.TopLeft
	if sc.Origin == "bottom-left" {
		origin = compositor.BottomLeft
	}

	var last image.Image
	for _, fp := range sc.Frames() {
		cam := sc.NewCamera(fp.Pose)

		var actions []string
		for _, a := range fp.Actions {
			if err := apply(eng, a, cam.Orientation); err != nil {
				return fail(fmt.Errorf("frame %d: %w", fp.Index, err))
			}
			actions = append(actions, a.Kind())
		}

		src := feed.frame(cam)
		f := engine.Frame{
			Image:    src,
			Camera:   cam,
			Tracking: parseTracking(fp.Tracking),
			Origin:   origin,
		}
		if fp.DropPose {
			f.Camera = nil
		}
		if origin == compositor.BottomLeft {
			f.Image = flipRows(src)
		}

		out, rep, err := eng.ProcessFrame(f)
		rec := newRecord(fp, rep, actions)
		switch {
		case errors.Is(err, engine.ErrNoPointOfView), errors.Is(err, engine.ErrTrackingUnavailable):
			// The display keeps the previous output.
			rec.Skipped = err.Error()
			res.Skipped++
			out = last
			if out == nil {
				out = f.Image
			}
		case err != nil:
			return fail(fmt.Errorf("frame %d: %w", fp.Index, err))
		}
		last = out

		if origin == compositor.BottomLeft {
			out = flipRows(out)
		}
		rec.Image = filepath.Join(sc.Name, fmt.Sprintf("frame_%04d.%s", fp.Index, cfg.Encoder.Format.Ext()))
		if err := cfg.Encoder.WriteFile(filepath.Join(cfg.OutputDir, rec.Image), out); err != nil {
			return fail(err)
		}
		res.Frames = append(res.Frames, rec)
	}

	res.Success = true
	return res
}

func apply(eng *engine.Engine, a scene.Action, camOrientation mgl64.Quat) error {
	switch a.Kind() {
	case "place":
		_, err := eng.PlacePortal(mgl64.Vec3(a.Place.Hit), camOrientation)
		return err
	case "scale":
		eng.ScalePortal(a.Scale)
	case "cycle_filter":
		eng.CycleFilter()
	case "set_filter":
		i, ok := eng.Catalog().Lookup(a.SetFilter)
		if !ok {
			return fmt.Errorf("unknown filter %q", a.SetFilter)
		}
		return eng.SetFilter(i)
	case "reset":
		eng.Reset()
	}
	return nil
}

func parseTracking(s string) engine.Tracking {
	switch s {
	case "limited":
		return engine.TrackingLimited
	case "not-available":
		return engine.TrackingNotAvailable
	}
	return engine.TrackingNormal
}

// feed produces the camera image for a pose.
type feed struct {
	room   *raster.Scene
	still  *image.RGBA
	width  int
	height int
}

func newFeed(cfg Config, sc *scene.Scene) (*feed, error) {
	f := &feed{width: sc.Viewport.Width, height: sc.Viewport.Height}

	var photo *image.NRGBA
	if path := sc.ImagePath(); path != "" {
		if cfg.Sources == nil {
			return nil, fmt.Errorf("no source resolver for %s", path)
		}
		img, err := cfg.Sources.Resolve(path)
		if err != nil {
			return nil, err
		}
		photo = img
	}

	switch sc.Source.Kind {
	case scene.SourceImage:
		f.still = postprocess.ScaleTo(postprocess.ToRGBA(photo), f.width, f.height)
	default:
		room := raster.DefaultRoom()
		if r := sc.Source.Room; r != nil {
			if r.Width > 0 {
				room.Width = r.Width
			}
			if r.Depth > 0 {
				room.Depth = r.Depth
			}
			if r.Height > 0 {
				room.Height = r.Height
			}
		}
		room.Photo = photo
		f.room = room.Scene()
	}
	return f, nil
}

func (f *feed) frame(cam *camera.Camera) image.Image {
	if f.still != nil {
		return f.still
	}
	return raster.Render(f.room, cam, f.width, f.height)
}

// flipRows returns img with its rows in reverse order, converting between
// top-left and bottom-left pixel origins.
func flipRows(img image.Image) *image.RGBA {
	src := postprocess.ToRGBA(img)
	b := src.Bounds()
	dst := image.NewRGBA(b)
	row := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+row], src.Pix[(b.Dy()-1-y)*src.Stride:][:row])
	}
	return dst
}
