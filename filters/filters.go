package filters

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"

	"golang.org/x/text/cases"

	"go-stylize/fonts"
)

var (
	ErrUnknownEffect = errors.New("unknown effect")
	ErrInvalidParam  = errors.New("invalid effect parameter")
)

// Filter rewrites img in place. frameIndex is the position of img in a
// sequence; still images pass 0. Implementations must be safe for concurrent
// use on different images.
type Filter interface {
	Filter(img *image.RGBA, frameIndex int) error
}

type FilterFunc func(img *image.RGBA, frameIndex int) error

func (f FilterFunc) Filter(img *image.RGBA, frameIndex int) error {
	return f(img, frameIndex)
}

// Params is the union of every effect's options. Each effect reads only
// the fields it needs.
type Params struct {
	// Radius is the blur radius and the oil painting neighbourhood radius.
	Radius float64
	// Workers bounds blur parallelism; 0 uses every CPU.
	Workers int

	// Average is the block size of the pixel effect.
	Average int

	// Intensity is the noise amplitude.
	Intensity float64
	Seed      uint64
	// Levels is the number of oil painting intensity levels.
	Levels int

	Amplitude float64
	Frequency float64
	Phase     float64

	Color     string
	Tolerance int

	Text    string
	Scale   int
	Orderly bool
	Edges   bool

	Overlay *image.RGBA
	Opacity float64
}

func DefaultParams() Params {
	return Params{
		Average:   10,
		Intensity: 25,
		Levels:    255,
		Amplitude: 10,
		Frequency: 0.03,
		Color:     "#ffffff00",
		Tolerance: 25,
		Text:      string(fonts.DEFAULT_CHARACTERS),
		Scale:     10,
		Opacity:   0.9,
	}
}

type Factory func(p Params) (Filter, error)

// Registry maps effect names to factories. Names are compared after case
// folding.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	names     map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		names:     make(map[string]string),
	}
}

func foldName(name string) string {
	return cases.Fold().String(name)
}

func (r *Registry) Register(name string, f Factory) {
	key := foldName(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[key] = f
	r.names[key] = name
}

func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[foldName(name)]
	return f, ok
}

func (r *Registry) New(name string, p Params) (Filter, error) {
	f, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}
	filter, err := f(p)
	if err != nil {
		return nil, fmt.Errorf("effect %s: %w", name, err)
	}
	return filter, nil
}

// Names lists the registered effects in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.names))
	for _, n := range r.names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Effects holds every built-in effect.
var Effects = NewRegistry()

func init() {
	Effects.Register("blur", newBlurFilter)
	Effects.Register("texty", newTextyFilter)
	Effects.Register("grayscale", newGrayscaleFilter)
	Effects.Register("leca", newLecaFilter)
	Effects.Register("pixel", newPixelFilter)
	Effects.Register("oil", newOilFilter)
	Effects.Register("mixed", newMixedFilter)
	Effects.Register("rmcolor", newRmColorFilter)
	Effects.Register("comic", newComicFilter)
	Effects.Register("ripple", newRippleFilter)
	Effects.Register("noise", newNoiseFilter)
}

func New(name string, p Params) (Filter, error) {
	return Effects.New(name, p)
}

// Chain applies filters in order and stops at the first error.
type Chain []Filter

func (c Chain) Filter(img *image.RGBA, frameIndex int) error {
	for _, f := range c {
		if err := f.Filter(img, frameIndex); err != nil {
			return err
		}
	}
	return nil
}

// forEachPixel calls fn with the Pix offset of every pixel in img.
func forEachPixel(img *image.RGBA, fn func(i int)) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			fn(i)
			i += 4
		}
	}
}
