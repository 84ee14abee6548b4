package filters

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// MixedFilter composites Overlay over the image with the overlay's alpha
// scaled by Opacity. An overlay of a different size is stretched to fit.
type MixedFilter struct {
	Overlay *image.RGBA
	Opacity float64
}

func newMixedFilter(p Params) (Filter, error) {
	if p.Overlay == nil {
		return nil, fmt.Errorf("%w: mixed needs an overlay image", ErrInvalidParam)
	}
	if !(p.Opacity >= 0 && p.Opacity <= 1) {
		return nil, fmt.Errorf("%w: opacity %v outside [0, 1]", ErrInvalidParam, p.Opacity)
	}
	return &MixedFilter{Overlay: p.Overlay, Opacity: p.Opacity}, nil
}

func (f *MixedFilter) Filter(img *image.RGBA, frameIndex int) error {
	b := img.Bounds()
	overlay := f.Overlay
	if overlay.Bounds().Size() != b.Size() {
		scaled := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), overlay, overlay.Bounds(), draw.Src, nil)
		overlay = scaled
	}

	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(f.Opacity * 255))})
	draw.DrawMask(img, b, overlay, overlay.Bounds().Min, mask, image.Point{}, draw.Over)
	return nil
}
