// Package compositor turns one camera frame into the displayed image: it
// decides which regions receive the active filter, masks the portal's crop
// polygon and layers the filtered and unfiltered renderings.
//
// Composite never fails. A filter that cannot run leaves the frame
// unfiltered, and a crop polygon that cannot be masked degrades to an
// unmasked layer, so the feed keeps moving.
package compositor

import (
	"image"
	"log/slog"

	"golang.org/x/image/draw"

	"filter-portal/internal/filter"
	"filter-portal/internal/portal"
	"filter-portal/internal/postprocess"
	"filter-portal/internal/spatial"
)

// Case is the branch of the compositing decision tree taken for a frame.
type Case int

const (
	// CaseEdgesVisible: the portal's outline is on screen and the frame is
	// split along the crop polygon.
	CaseEdgesVisible Case = iota + 1
	// CaseFillsFrame: the portal covers the whole frame outside a crossing.
	CaseFillsFrame
	// CaseFallthrough: portal hidden, mid-crossing, or no crop shape.
	CaseFallthrough
)

func (c Case) String() string {
	switch c {
	case CaseEdgesVisible:
		return "edges-visible"
	case CaseFillsFrame:
		return "fills-frame"
	case CaseFallthrough:
		return "fallthrough"
	}
	return "none"
}

// Decide picks the decision-tree branch for a frame.
func Decide(st spatial.State, haveShape bool) Case {
	switch {
	case st.PortalVisible && !st.FrameBiggerThanCamera && haveShape:
		return CaseEdgesVisible
	case st.PortalVisible && st.FrameBiggerThanCamera && !st.DidEnterPortal:
		return CaseFillsFrame
	default:
		return CaseFallthrough
	}
}

// Compositor renders frames for one feed. Not safe for concurrent use.
type Compositor struct {
	cache  bufferCache
	logger *slog.Logger
}

// New returns a compositor. A nil logger discards output.
func New(logger *slog.Logger) *Compositor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Compositor{logger: logger}
}

// ClearCaches releases every intermediate buffer.
func (c *Compositor) ClearCaches() {
	c.cache.reset()
}

// CachedBuffers returns the number of buffers currently retained.
func (c *Compositor) CachedBuffers() int {
	return c.cache.size()
}

// Composite renders frame according to the spatial state. shape is nil when
// no crop polygon could be built this frame. The result never aliases the
// compositor's cache; it may be frame itself when nothing is filtered. The
// result always has frame's bounds.
func (c *Compositor) Composite(frame image.Image, origin Origin, shape *portal.CropShape, spec filter.Spec, st spatial.State) image.Image {
	if frame == nil || frame.Bounds().Empty() || spec.IsIdentity() {
		return frame
	}

	switch Decide(st, shape != nil) {
	case CaseEdgesVisible:
		return rebase(c.split(frame, origin, shape, spec, st.InFilteredSide), frame)
	default:
		if !st.InFilteredSide {
			return frame
		}
		filtered, err := c.filtered(postprocess.ToRGBA(frame), spec)
		if err != nil {
			c.logger.Warn("filter failed, passing frame through", "filter", spec.Name, "err", err)
			return frame
		}
		return rebase(c.detach(filtered), frame)
	}
}

// rebase moves a zero-origin working image onto frame's bounds. Only the
// rectangle changes; the pixel layout is the same.
func rebase(img image.Image, frame image.Image) image.Image {
	off := frame.Bounds().Min
	r, ok := img.(*image.RGBA)
	if !ok || r == frame || off == (image.Point{}) {
		return img
	}
	r.Rect = r.Rect.Add(off)
	return r
}

// split handles the edges-visible case. Outside the filtered side the crop
// shows the filtered world over the plain frame; inside, the crop is a
// window back to the plain frame laid over the filtered one.
func (c *Compositor) split(frame image.Image, origin Origin, shape *portal.CropShape, spec filter.Spec, inside bool) image.Image {
	src := postprocess.ToRGBA(frame)
	b := src.Bounds()

	filtered, err := c.filtered(src, spec)
	if err != nil {
		c.logger.Warn("filter failed, passing frame through", "filter", spec.Name, "err", err)
		return frame
	}

	var mask image.Image
	if m, err := c.Mask(shape.Polygon, b.Size(), origin); err != nil {
		c.logger.Warn("crop mask failed, using unmasked layer", "mode", shape.Mode.String(), "err", err)
	} else {
		mask = m
	}

	var base, layer *image.RGBA
	if inside {
		base, layer = filtered, src
	} else {
		base, layer = src, filtered
	}
	out := image.NewRGBA(b)
	draw.Draw(out, b, base, b.Min, draw.Src)
	draw.DrawMask(out, b, layer, b.Min, mask, b.Min, draw.Over)
	return out
}

// filtered runs spec over the whole of src: optional downsample, filter,
// background fill, then resample back to src's size. The result may be a
// cached buffer.
func (c *Compositor) filtered(src *image.RGBA, spec filter.Spec) (*image.RGBA, error) {
	b := src.Bounds()

	in := src
	if spec.RequiresScaling {
		in = postprocess.ScaleBy(src, 1/spec.ScaleFactor)
	}

	out, err := spec.Apply(in)
	if err != nil {
		return nil, err
	}

	if spec.RequiresBackgroundFill {
		fb := out.Bounds()
		bg := c.cache.rgbaBuf(fb)
		draw.Draw(bg, fb, image.NewUniform(spec.Background), image.Point{}, draw.Src)
		draw.Draw(bg, fb, out, fb.Min, draw.Over)
		out = bg
	}

	if spec.RequiresScaling {
		out = postprocess.ScaleTo(out, b.Dx(), b.Dy())
	}
	return out, nil
}

// detach copies img out of the cache when the cache owns it.
func (c *Compositor) detach(img *image.RGBA) *image.RGBA {
	if !c.cache.owns(img) {
		return img
	}
	cp := image.NewRGBA(img.Rect)
	copy(cp.Pix, img.Pix)
	return cp
}
