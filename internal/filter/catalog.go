package filter

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/gift"
)

// ErrNoOutput is returned when an operator produces an empty image.
var ErrNoOutput = errors.New("filter: operator produced no output")

// DefaultIndex is the catalog entry selected when a feed starts.
const DefaultIndex = 4

// Spec is one catalog entry.
type Spec struct {
	Name string
	Op   Operator

	// RequiresScaling marks operators whose result depends on resolution.
	// The input is shrunk by 1/ScaleFactor before filtering and the result
	// enlarged back, keeping edge thickness stable across frame sizes.
	RequiresScaling bool
	ScaleFactor     float64

	// RequiresBackgroundFill marks operators that leave transparent pixels.
	// Their output is composited over Background before it reaches the scene.
	RequiresBackgroundFill bool
	Background             color.NRGBA
}

// Validate checks the operator parameters and the scaling settings.
func (s Spec) Validate() error {
	if s.Op == nil {
		return fmt.Errorf("%w: %q has no operator", ErrInvalidParam, s.Name)
	}
	if err := s.Op.Validate(); err != nil {
		return fmt.Errorf("filter %q: %w", s.Name, err)
	}
	if s.RequiresScaling && !(s.ScaleFactor >= 1) {
		return fmt.Errorf("%w: %q scale factor %v", ErrInvalidParam, s.Name, s.ScaleFactor)
	}
	return nil
}

// IsIdentity reports whether the operator leaves images untouched.
func (s Spec) IsIdentity() bool {
	return s.Op != nil && s.Op.Kind() == KindIdentity
}

// Build assembles the gift pipeline for the operator.
func (s Spec) Build() (*gift.GIFT, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return gift.New(s.Op.Filters()...), nil
}

// Apply runs the operator over src and returns a new image with src's
// bounds.
func (s Spec) Apply(src image.Image) (*image.RGBA, error) {
	g, err := s.Build()
	if err != nil {
		return nil, err
	}
	b := g.Bounds(src.Bounds())
	if b.Empty() {
		return nil, fmt.Errorf("filter %q: %w", s.Name, ErrNoOutput)
	}
	dst := image.NewRGBA(b.Sub(b.Min).Add(src.Bounds().Min))
	g.Draw(dst, src)
	return dst, nil
}

// Catalog is the ordered, index-addressable filter table.
type Catalog struct {
	specs []Spec
}

// NewCatalog validates every entry up front.
func NewCatalog(specs ...Spec) (*Catalog, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: empty catalog", ErrInvalidParam)
	}
	for i, s := range specs {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
	}
	out := make([]Spec, len(specs))
	copy(out, specs)
	return &Catalog{specs: out}, nil
}

// DefaultSpecs returns the stock filter table.
func DefaultSpecs() []Spec {
	return []Spec{
		{Name: "noir", Op: Noir{Contrast: 20}},
		{Name: "color-clamp", Op: ColorClamp{
			Min: [4]float32{0.4, 0.2, 0.4, 0},
			Max: [4]float32{1, 0.4, 1, 1},
		}},
		{Name: "edges", Op: Edges{Intensity: 1}, RequiresScaling: true, ScaleFactor: 2},
		{Name: "posterize", Op: Posterize{Levels: 6}},
		{Name: "invert", Op: Invert{}},
		{
			Name: "line-overlay",
			Op: LineOverlay{
				NoiseLevel:    0.02,
				Sharpness:     0.6,
				EdgeIntensity: 1,
				Threshold:     0.2,
				Contrast:      1,
			},
			RequiresScaling:        true,
			ScaleFactor:            2,
			RequiresBackgroundFill: true,
			Background:             color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		},
	}
}

// DefaultCatalog returns the stock catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultSpecs()...)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.specs)
}

// At returns entry i.
func (c *Catalog) At(i int) (Spec, bool) {
	if i < 0 || i >= len(c.specs) {
		return Spec{}, false
	}
	return c.specs[i], true
}

// Next returns the index after i, wrapping to 0.
func (c *Catalog) Next(i int) int {
	if i < 0 || i >= len(c.specs)-1 {
		return 0
	}
	return i + 1
}

// Lookup finds an entry by name.
func (c *Catalog) Lookup(name string) (int, bool) {
	for i, s := range c.specs {
		if s.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Names lists entry names in order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.specs))
	for i, s := range c.specs {
		names[i] = s.Name
	}
	return names
}
