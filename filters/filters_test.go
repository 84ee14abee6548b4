package filters

import (
	"errors"
	"image"
	"image/color"
	"math"
	"slices"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 255 / max(1, w-1)), uint8(y * 255 / max(1, h-1)), 128, 255})
		}
	}
	return img
}

func TestRegistryNames(t *testing.T) {
	want := []string{"blur", "comic", "grayscale", "leca", "mixed", "noise", "oil", "pixel", "ripple", "rmcolor", "texty"}
	if got := Effects.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestRegistryLookupFoldsCase(t *testing.T) {
	for _, name := range []string{"grayscale", "GrayScale", "GRAYSCALE"} {
		if _, ok := Effects.Lookup(name); !ok {
			t.Errorf("Lookup(%q) not found", name)
		}
	}
}

func TestRegistryUnknownEffect(t *testing.T) {
	_, err := New("sepia", DefaultParams())
	if !errors.Is(err, ErrUnknownEffect) {
		t.Errorf("error = %v, want ErrUnknownEffect", err)
	}
}

func TestRegistryInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		effect string
		mutate func(p *Params)
	}{
		{"blur without radius", "blur", func(p *Params) {}},
		{"blur radius too large", "blur", func(p *Params) { p.Radius = 300 }},
		{"pixel zero block", "pixel", func(p *Params) { p.Average = 0 }},
		{"oil negative radius", "oil", func(p *Params) { p.Radius = -2 }},
		{"oil NaN radius", "oil", func(p *Params) { p.Radius = math.NaN() }},
		{"oil infinite radius", "oil", func(p *Params) { p.Radius = math.Inf(1) }},
		{"ripple NaN amplitude", "ripple", func(p *Params) { p.Amplitude = math.NaN() }},
		{"ripple infinite amplitude", "ripple", func(p *Params) { p.Amplitude = math.Inf(-1) }},
		{"ripple infinite frequency", "ripple", func(p *Params) { p.Frequency = math.Inf(1) }},
		{"ripple NaN phase", "ripple", func(p *Params) { p.Phase = math.NaN() }},
		{"oil zero levels", "oil", func(p *Params) { p.Levels = 0 }},
		{"rmcolor bad color", "rmcolor", func(p *Params) { p.Color = "#12" }},
		{"rmcolor tolerance", "rmcolor", func(p *Params) { p.Tolerance = 300 }},
		{"noise negative", "noise", func(p *Params) { p.Intensity = -1 }},
		{"texty empty charset", "texty", func(p *Params) { p.Text = "" }},
		{"texty zero scale", "texty", func(p *Params) { p.Scale = 0 }},
		{"mixed without overlay", "mixed", func(p *Params) {}},
		{"mixed opacity", "mixed", func(p *Params) { p.Overlay = solid(1, 1, color.RGBA{}); p.Opacity = 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			if _, err := New(tt.effect, p); !errors.Is(err, ErrInvalidParam) {
				t.Errorf("error = %v, want ErrInvalidParam", err)
			}
		})
	}
}

func TestDefaultParamsBuildEveryEffect(t *testing.T) {
	p := DefaultParams()
	p.Radius = 2
	p.Overlay = solid(4, 4, color.RGBA{0, 0, 255, 255})

	for _, name := range Effects.Names() {
		f, err := New(name, p)
		if err != nil {
			t.Errorf("New(%q): %v", name, err)
			continue
		}
		img := gradient(24, 16)
		if err := f.Filter(img, 0); err != nil {
			t.Errorf("%s.Filter: %v", name, err)
		}
	}
}

func TestChainStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	chain := Chain{
		FilterFunc(func(*image.RGBA, int) error { calls++; return nil }),
		FilterFunc(func(*image.RGBA, int) error { calls++; return boom }),
		FilterFunc(func(*image.RGBA, int) error { calls++; return nil }),
	}

	if err := chain.Filter(solid(1, 1, color.RGBA{}), 0); !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}
