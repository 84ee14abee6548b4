package filters

import (
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"

	"go-stylize/helpers"
)

type GrayscaleFilter struct{}

func newGrayscaleFilter(Params) (Filter, error) {
	return &GrayscaleFilter{}, nil
}

func (f *GrayscaleFilter) Filter(img *image.RGBA, frameIndex int) error {
	forEachPixel(img, func(i int) {
		r := float64(img.Pix[i+0])
		g := float64(img.Pix[i+1])
		b := float64(img.Pix[i+2])

		gray := uint8(0.2989*r + 0.587*g + 0.114*b)
		img.Pix[i+0] = gray
		img.Pix[i+1] = gray
		img.Pix[i+2] = gray
	})
	return nil
}

// LecaFilter mutes saturation and then stretches contrast around mid-gray,
// a look borrowed from Leica film presets.
type LecaFilter struct {
	Saturation float64
	Contrast   float64
}

func newLecaFilter(Params) (Filter, error) {
	return &LecaFilter{Saturation: 0.5, Contrast: 1.2}, nil
}

func (f *LecaFilter) Filter(img *image.RGBA, frameIndex int) error {
	forEachPixel(img, func(i int) {
		r := float64(img.Pix[i+0])
		g := float64(img.Pix[i+1])
		b := float64(img.Pix[i+2])

		gray := 0.2989*r + 0.587*g + 0.114*b
		for c, v := range [3]float64{r, g, b} {
			v = gray + f.Saturation*(v-gray)
			img.Pix[i+c] = helpers.RoundUINT8((v-128)*f.Contrast + 128)
		}
	})
	return nil
}

// ComicFilter flattens the image to its channel mean and then tints it
// warm by scaling each channel.
type ComicFilter struct {
	Gains [3]float64
}

func newComicFilter(Params) (Filter, error) {
	return &ComicFilter{Gains: [3]float64{1.5, 1.2, 0.8}}, nil
}

func (f *ComicFilter) Filter(img *image.RGBA, frameIndex int) error {
	forEachPixel(img, func(i int) {
		sum := int(img.Pix[i+0]) + int(img.Pix[i+1]) + int(img.Pix[i+2])
		gray := float64(helpers.RoundUINT8(float64(sum) / 3))
		for c := range 3 {
			img.Pix[i+c] = helpers.RoundUINT8(gray * f.Gains[c])
		}
	})
	return nil
}

// NoiseFilter adds uniform noise in [-Intensity/2, Intensity/2) to each color
// channel. The noise pattern depends only on Seed and the frame index.
type NoiseFilter struct {
	Intensity float64
	Seed      uint64
}

func newNoiseFilter(p Params) (Filter, error) {
	if p.Intensity < 0 {
		return nil, fmt.Errorf("%w: noise intensity %v is negative", ErrInvalidParam, p.Intensity)
	}
	return &NoiseFilter{Intensity: p.Intensity, Seed: p.Seed}, nil
}

func (f *NoiseFilter) Filter(img *image.RGBA, frameIndex int) error {
	rng := rand.New(rand.NewPCG(f.Seed, uint64(frameIndex)))
	forEachPixel(img, func(i int) {
		for c := range 3 {
			offset := (rng.Float64() - 0.5) * f.Intensity
			img.Pix[i+c] = helpers.RoundUINT8(float64(img.Pix[i+c]) + offset)
		}
	})
	return nil
}

// RmColorFilter replaces near-white pixels, those whose channels all exceed
// 255-Tolerance, with Replacement.
type RmColorFilter struct {
	Replacement color.RGBA
	Tolerance   int
}

func newRmColorFilter(p Params) (Filter, error) {
	c, err := helpers.ParseHexColor(p.Color)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParam, err)
	}
	if p.Tolerance < 0 || p.Tolerance > 255 {
		return nil, fmt.Errorf("%w: tolerance %d outside [0, 255]", ErrInvalidParam, p.Tolerance)
	}
	// The canvas is alpha-premultiplied.
	replacement := color.RGBAModel.Convert(c).(color.RGBA)
	return &RmColorFilter{Replacement: replacement, Tolerance: p.Tolerance}, nil
}

func (f *RmColorFilter) Filter(img *image.RGBA, frameIndex int) error {
	threshold := uint8(255 - f.Tolerance)
	forEachPixel(img, func(i int) {
		if img.Pix[i+0] > threshold && img.Pix[i+1] > threshold && img.Pix[i+2] > threshold {
			c := f.Replacement
			img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
		}
	})
	return nil
}
