package filters

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func TestMixedFilterOpacity(t *testing.T) {
	base := solid(4, 4, color.RGBA{0, 0, 0, 255})
	overlay := solid(4, 4, color.RGBA{255, 255, 255, 255})

	f := &MixedFilter{Overlay: overlay, Opacity: 0.9}
	if err := f.Filter(base, 0); err != nil {
		t.Fatal(err)
	}

	got := base.RGBAAt(1, 1)
	if got.R < 229 || got.R > 231 || got.R != got.G || got.G != got.B || got.A != 255 {
		t.Errorf("blended pixel = %v, want ~{230 230 230 255}", got)
	}
}

func TestMixedFilterStretchesOverlay(t *testing.T) {
	base := solid(8, 6, color.RGBA{0, 0, 0, 255})
	overlay := solid(2, 2, color.RGBA{0, 0, 255, 255})

	f := &MixedFilter{Overlay: overlay, Opacity: 1}
	if err := f.Filter(base, 0); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			if got := base.RGBAAt(x, y); got != (color.RGBA{0, 0, 255, 255}) {
				t.Fatalf("pixel (%d,%d) = %v, want opaque blue", x, y, got)
			}
		}
	}
}

func TestMixedFilterTransparentOverlay(t *testing.T) {
	base := gradient(5, 5)
	want := bytes.Clone(base.Pix)

	f := &MixedFilter{Overlay: image.NewRGBA(base.Rect), Opacity: 0.9}
	if err := f.Filter(base, 0); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(base.Pix, want) {
		t.Error("transparent overlay changed the base image")
	}
}

func TestBlurFilterSmoothsAndKeepsAlpha(t *testing.T) {
	p := DefaultParams()
	p.Radius = 3.7
	p.Workers = 2
	f, err := New("blur", p)
	if err != nil {
		t.Fatal(err)
	}
	if r := f.(*BlurFilter).Radius; r != 3 {
		t.Fatalf("radius = %d, want 3", r)
	}

	img := solid(9, 9, color.RGBA{0, 0, 0, 200})
	img.SetRGBA(4, 4, color.RGBA{255, 255, 255, 200})
	if err := f.Filter(img, 0); err != nil {
		t.Fatal(err)
	}

	center := img.RGBAAt(4, 4)
	if center.R == 0 || center.R == 255 {
		t.Errorf("center = %v, want partially blurred", center)
	}
	if img.RGBAAt(3, 4).R == 0 {
		t.Error("neighbour of the bright pixel stayed black")
	}
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 200 {
			t.Fatalf("alpha at byte %d = %d, want 200", i, img.Pix[i])
		}
	}
}
