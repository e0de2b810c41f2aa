// Package filter defines the catalog of image operators applied to the
// filtered side of the portal.
//
// Each operator kind is its own type with typed parameters; parameter
// problems surface once, when the catalog is built, instead of on every
// frame.
package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/disintegration/gift"
)

// ErrInvalidParam is returned by Validate for out-of-range parameters.
var ErrInvalidParam = errors.New("filter: invalid parameter")

// Kind identifies an operator type.
type Kind int

const (
	KindIdentity Kind = iota
	KindNoir
	KindColorClamp
	KindEdges
	KindPosterize
	KindInvert
	KindLineOverlay
)

func (k Kind) String() string {
	switch k {
	case KindIdentity:
		return "identity"
	case KindNoir:
		return "noir"
	case KindColorClamp:
		return "color-clamp"
	case KindEdges:
		return "edges"
	case KindPosterize:
		return "posterize"
	case KindInvert:
		return "invert"
	case KindLineOverlay:
		return "line-overlay"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Operator is one image-processing operator with its parameters.
type Operator interface {
	Kind() Kind
	Validate() error
	// Filters returns the gift pipeline implementing the operator.
	Filters() []gift.Filter
}

// Identity leaves the image untouched.
type Identity struct{}

func (Identity) Kind() Kind             { return KindIdentity }
func (Identity) Validate() error        { return nil }
func (Identity) Filters() []gift.Filter { return nil }

// Noir is a high-contrast black and white treatment.
type Noir struct {
	Contrast float32 // percent, -100..100
}

func (Noir) Kind() Kind { return KindNoir }

func (n Noir) Validate() error {
	if n.Contrast < -100 || n.Contrast > 100 {
		return fmt.Errorf("%w: noir contrast %v", ErrInvalidParam, n.Contrast)
	}
	return nil
}

func (n Noir) Filters() []gift.Filter {
	return []gift.Filter{gift.Grayscale(), gift.Contrast(n.Contrast)}
}

// ColorClamp clamps each RGBA component into [Min, Max].
type ColorClamp struct {
	Min [4]float32
	Max [4]float32
}

func (ColorClamp) Kind() Kind { return KindColorClamp }

func (c ColorClamp) Validate() error {
	for i := 0; i < 4; i++ {
		if c.Min[i] < 0 || c.Max[i] > 1 || c.Min[i] > c.Max[i] {
			return fmt.Errorf("%w: color clamp component %d range [%v, %v]", ErrInvalidParam, i, c.Min[i], c.Max[i])
		}
	}
	return nil
}

func (c ColorClamp) Filters() []gift.Filter {
	lo, hi := c.Min, c.Max
	return []gift.Filter{gift.ColorFunc(func(r0, g0, b0, a0 float32) (r, g, b, a float32) {
		return clampf(r0, lo[0], hi[0]), clampf(g0, lo[1], hi[1]), clampf(b0, lo[2], hi[2]), clampf(a0, lo[3], hi[3])
	})}
}

// Edges highlights edges with a Sobel operator scaled by Intensity.
type Edges struct {
	Intensity float32
}

func (Edges) Kind() Kind { return KindEdges }

func (e Edges) Validate() error {
	if !(e.Intensity > 0) {
		return fmt.Errorf("%w: edge intensity %v", ErrInvalidParam, e.Intensity)
	}
	return nil
}

func (e Edges) Filters() []gift.Filter {
	k := e.Intensity
	return []gift.Filter{
		gift.Sobel(),
		gift.ColorFunc(func(r0, g0, b0, a0 float32) (r, g, b, a float32) {
			return clampf(r0*k, 0, 1), clampf(g0*k, 0, 1), clampf(b0*k, 0, 1), a0
		}),
	}
}

// Posterize reduces every color channel to Levels values.
type Posterize struct {
	Levels int
}

func (Posterize) Kind() Kind { return KindPosterize }

func (p Posterize) Validate() error {
	if p.Levels < 2 || p.Levels > 256 {
		return fmt.Errorf("%w: posterize levels %d", ErrInvalidParam, p.Levels)
	}
	return nil
}

func (p Posterize) Filters() []gift.Filter {
	steps := float64(p.Levels - 1)
	q := func(v float32) float32 {
		return float32(math.Round(float64(v)*steps) / steps)
	}
	return []gift.Filter{gift.ColorFunc(func(r0, g0, b0, a0 float32) (r, g, b, a float32) {
		return q(r0), q(g0), q(b0), a0
	})}
}

// Invert negates the color channels.
type Invert struct{}

func (Invert) Kind() Kind             { return KindInvert }
func (Invert) Validate() error        { return nil }
func (Invert) Filters() []gift.Filter { return []gift.Filter{gift.Invert()} }

// LineOverlay renders a pencil-line sketch: noise reduction, edge detection,
// then a threshold that keeps strong edges as opaque black and punches every
// other pixel out to transparent.
type LineOverlay struct {
	NoiseLevel    float32 // noise reduction strength, 0..1
	Sharpness     float32 // unsharp amount applied after noise reduction
	EdgeIntensity float32
	Threshold     float32 // 0..1
	Contrast      float32 // slope applied to edge strength before thresholding
}

func (LineOverlay) Kind() Kind { return KindLineOverlay }

func (l LineOverlay) Validate() error {
	switch {
	case l.NoiseLevel < 0 || l.NoiseLevel > 1:
		return fmt.Errorf("%w: line overlay noise level %v", ErrInvalidParam, l.NoiseLevel)
	case l.Sharpness < 0:
		return fmt.Errorf("%w: line overlay sharpness %v", ErrInvalidParam, l.Sharpness)
	case !(l.EdgeIntensity > 0):
		return fmt.Errorf("%w: line overlay edge intensity %v", ErrInvalidParam, l.EdgeIntensity)
	case l.Threshold < 0 || l.Threshold > 1:
		return fmt.Errorf("%w: line overlay threshold %v", ErrInvalidParam, l.Threshold)
	case !(l.Contrast > 0):
		return fmt.Errorf("%w: line overlay contrast %v", ErrInvalidParam, l.Contrast)
	}
	return nil
}

func (l LineOverlay) Filters() []gift.Filter {
	var fs []gift.Filter
	if l.NoiseLevel > 0 {
		// 0.02 (the usual setting) maps to a one pixel blur.
		fs = append(fs, gift.GaussianBlur(l.NoiseLevel*50))
	}
	if l.Sharpness > 0 {
		fs = append(fs, gift.UnsharpMask(1, l.Sharpness, 0))
	}
	intensity, threshold, contrast := l.EdgeIntensity, l.Threshold, l.Contrast
	fs = append(fs,
		gift.Grayscale(),
		gift.Sobel(),
		gift.ColorFunc(func(r0, g0, b0, a0 float32) (r, g, b, a float32) {
			v := (r0*intensity-0.5)*contrast + 0.5
			if v > threshold {
				return 0, 0, 0, 1
			}
			return 0, 0, 0, 0
		}),
	)
	return fs
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
