package filters

import (
	"fmt"
	"image"

	"go-stylize/blur"
)

// BlurFilter runs the stack blur over the whole image.
type BlurFilter struct {
	Radius int
	engine *blur.Engine
}

func newBlurFilter(p Params) (Filter, error) {
	radius, err := blur.ParseRadius(p.Radius)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParam, err)
	}
	engine := blur.New()
	if p.Workers > 0 {
		engine = blur.New(blur.WithWorkers(p.Workers))
	}
	return &BlurFilter{Radius: radius, engine: engine}, nil
}

func (f *BlurFilter) Filter(img *image.RGBA, frameIndex int) error {
	return f.engine.BlurImage(img, f.Radius)
}
