package filters

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func TestPixelFilterBlocks(t *testing.T) {
	img := gradient(5, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			c := img.RGBAAt(x, y)
			c.A = 100
			img.SetRGBA(x, y, c)
		}
	}
	src := image.NewRGBA(img.Rect)
	copy(src.Pix, img.Pix)

	f := &PixelFilter{Average: 2}
	if err := f.Filter(img, 0); err != nil {
		t.Fatal(err)
	}

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			want := src.RGBAAt(x/2*2, y/2*2)
			want.A = 255
			if got := img.RGBAAt(x, y); got != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestOilFilterFlatImage(t *testing.T) {
	img := solid(6, 5, color.RGBA{40, 80, 120, 90})
	f := &OilFilter{Radius: 2, Levels: 255}
	if err := f.Filter(img, 0); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 6; x++ {
			if got := img.RGBAAt(x, y); got != (color.RGBA{40, 80, 120, 255}) {
				t.Fatalf("pixel (%d,%d) = %v, want {40 80 120 255}", x, y, got)
			}
		}
	}
}

func TestOilFilterRemovesOutlier(t *testing.T) {
	img := solid(5, 5, color.RGBA{10, 10, 10, 255})
	img.SetRGBA(2, 2, color.RGBA{200, 200, 200, 255})

	f := &OilFilter{Radius: 1, Levels: 255}
	if err := f.Filter(img, 0); err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(2, 2); got != (color.RGBA{10, 10, 10, 255}) {
		t.Errorf("outlier = %v, want the dominant color", got)
	}
}

func TestOilFilterHugeRadiusCoversImage(t *testing.T) {
	p := DefaultParams()
	p.Radius = 1e12
	f, err := New("oil", p)
	if err != nil {
		t.Fatal(err)
	}

	img := solid(4, 4, color.RGBA{10, 10, 10, 255})
	img.SetRGBA(3, 3, color.RGBA{200, 200, 200, 255})
	if err := f.Filter(img, 0); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := img.RGBAAt(x, y); got != (color.RGBA{10, 10, 10, 255}) {
				t.Fatalf("pixel (%d,%d) = %v, want the dominant color", x, y, got)
			}
		}
	}
}

func TestOilFilterDefaultRadius(t *testing.T) {
	f, err := New("oil", DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if oil := f.(*OilFilter); oil.Radius != 4 || oil.Levels != 255 {
		t.Errorf("oil = %+v, want radius 4 and 255 levels", oil)
	}
}

func TestRippleZeroAmplitudeIsIdentity(t *testing.T) {
	img := gradient(16, 12)
	want := bytes.Clone(img.Pix)

	f := &RippleFilter{Amplitude: 0, Frequency: 0.3, Speed: 0.2}
	if err := f.Filter(img, 5); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(img.Pix, want) {
		t.Error("zero amplitude ripple changed the image")
	}
}

func TestRippleMovesWithFrames(t *testing.T) {
	f := &RippleFilter{Amplitude: 3, Frequency: 0.3, Speed: 0.2}

	a, b := gradient(32, 32), gradient(32, 32)
	alpha := make([]uint8, 0, 32*32)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			c := a.RGBAAt(x, y)
			c.A = uint8(x * 7)
			a.SetRGBA(x, y, c)
			b.SetRGBA(x, y, c)
			alpha = append(alpha, c.A)
		}
	}

	if err := f.Filter(a, 0); err != nil {
		t.Fatal(err)
	}
	if err := f.Filter(b, 1); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a.Pix, b.Pix) {
		t.Error("frames 0 and 1 rippled identically")
	}
	for i, want := range alpha {
		if got := a.Pix[i*4+3]; got != want {
			t.Fatalf("alpha of pixel %d = %d, want %d", i, got, want)
		}
	}
}

func TestBilinearSamples(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{0, 100, 200, 255})
	img.SetRGBA(1, 0, color.RGBA{100, 200, 0, 255})

	tests := []struct {
		x, y    float64
		r, g, b uint8
	}{
		{0, 0, 0, 100, 200},
		{0.5, 0, 50, 150, 100},
		{1, 0, 100, 200, 0},
		{-4, 3, 0, 100, 200},
		{9, 0, 100, 200, 0},
	}
	for _, tt := range tests {
		r, g, b := bilinear(img, tt.x, tt.y)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("bilinear(%v, %v) = (%d,%d,%d), want (%d,%d,%d)", tt.x, tt.y, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}
