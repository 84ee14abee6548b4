package filters

import (
	"fmt"
	"image"
	"math"

	"go-stylize/helpers"
)

// PixelFilter paints Average×Average blocks with the color of each block's
// top-left pixel.
type PixelFilter struct {
	Average int
}

func newPixelFilter(p Params) (Filter, error) {
	if p.Average < 1 {
		return nil, fmt.Errorf("%w: pixel block size %d must be positive", ErrInvalidParam, p.Average)
	}
	return &PixelFilter{Average: p.Average}, nil
}

func (f *PixelFilter) Filter(img *image.RGBA, frameIndex int) error {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += f.Average {
		for x := b.Min.X; x < b.Max.X; x += f.Average {
			i := img.PixOffset(x, y)
			r, g, bl := img.Pix[i], img.Pix[i+1], img.Pix[i+2]

			block := image.Rect(x, y, x+f.Average, y+f.Average).Intersect(b)
			for by := block.Min.Y; by < block.Max.Y; by++ {
				j := img.PixOffset(block.Min.X, by)
				for bx := block.Min.X; bx < block.Max.X; bx++ {
					img.Pix[j], img.Pix[j+1], img.Pix[j+2], img.Pix[j+3] = r, g, bl, 255
					j += 4
				}
			}
		}
	}
	return nil
}

// OilFilter is a mode filter: every pixel takes the mean color of the most
// common intensity level in its (2*Radius+1)² neighbourhood.
type OilFilter struct {
	Radius int
	Levels int
}

const maxOilRadius = 1 << 20

func newOilFilter(p Params) (Filter, error) {
	if math.IsNaN(p.Radius) || math.IsInf(p.Radius, 0) {
		return nil, fmt.Errorf("%w: oil radius %v is not finite", ErrInvalidParam, p.Radius)
	}
	// Any radius past maxOilRadius already covers the whole image.
	radius := int(max(-1, min(p.Radius, maxOilRadius)))
	if radius == 0 {
		radius = 4
	}
	if radius < 0 {
		return nil, fmt.Errorf("%w: oil radius %d is negative", ErrInvalidParam, radius)
	}
	if p.Levels < 1 || p.Levels > 255 {
		return nil, fmt.Errorf("%w: oil levels %d outside [1, 255]", ErrInvalidParam, p.Levels)
	}
	return &OilFilter{Radius: radius, Levels: p.Levels}, nil
}

type oilBucket struct {
	count   int
	r, g, b int
}

func (f *OilFilter) Filter(img *image.RGBA, frameIndex int) error {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	src := helpers.CopyImage(img)
	levels := make([]int, w*h)
	for y := 0; y < h; y++ {
		i := src.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			avg := (float64(src.Pix[i]) + float64(src.Pix[i+1]) + float64(src.Pix[i+2])) / 3
			levels[y*w+x] = int(math.Round(avg * float64(f.Levels) / 255))
			i += 4
		}
	}

	buckets := make([]oilBucket, f.Levels+1)
	span := func(n int) int { return min(n, 2*f.Radius+1) }
	touched := make([]int, 0, min(span(w)*span(h), f.Levels+1))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for _, lvl := range touched {
				buckets[lvl] = oilBucket{}
			}
			touched = touched[:0]

			for yy := max(0, y-f.Radius); yy <= min(h-1, y+f.Radius); yy++ {
				for xx := max(0, x-f.Radius); xx <= min(w-1, x+f.Radius); xx++ {
					lvl := levels[yy*w+xx]
					if buckets[lvl].count == 0 {
						touched = append(touched, lvl)
					}
					i := src.PixOffset(b.Min.X+xx, b.Min.Y+yy)
					bk := &buckets[lvl]
					bk.count++
					bk.r += int(src.Pix[i])
					bk.g += int(src.Pix[i+1])
					bk.b += int(src.Pix[i+2])
				}
			}

			// Ties go to the darkest level.
			best := touched[0]
			for _, lvl := range touched[1:] {
				c, bc := buckets[lvl].count, buckets[best].count
				if c > bc || (c == bc && lvl < best) {
					best = lvl
				}
			}

			bk := buckets[best]
			i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			img.Pix[i+0] = uint8(bk.r / bk.count)
			img.Pix[i+1] = uint8(bk.g / bk.count)
			img.Pix[i+2] = uint8(bk.b / bk.count)
			img.Pix[i+3] = 255
		}
	}
	return nil
}

// RippleFilter displaces pixels along sine waves. The wave phase advances by
// Speed radians per frame.
type RippleFilter struct {
	Amplitude float64
	Frequency float64
	Phase     float64
	Speed     float64
}

func newRippleFilter(p Params) (Filter, error) {
	for _, v := range []float64{p.Amplitude, p.Frequency, p.Phase} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: ripple amplitude, frequency and phase must be finite", ErrInvalidParam)
		}
	}
	return &RippleFilter{
		Amplitude: p.Amplitude,
		Frequency: p.Frequency,
		Phase:     p.Phase,
		Speed:     0.2,
	}, nil
}

func (f *RippleFilter) Filter(img *image.RGBA, frameIndex int) error {
	b := img.Bounds()
	if b.Empty() {
		return nil
	}
	src := helpers.CopyImage(img)
	t := f.Phase + float64(frameIndex)*f.Speed

	for y := 0; y < b.Dy(); y++ {
		dy := math.Sin(float64(y)*f.Frequency+t) * f.Amplitude
		for x := 0; x < b.Dx(); x++ {
			dx := math.Sin(float64(x)*f.Frequency+t) * f.Amplitude

			r, g, bl := bilinear(src, float64(x)+dx, float64(y)+dy)
			i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			img.Pix[i+0] = r
			img.Pix[i+1] = g
			img.Pix[i+2] = bl
		}
	}
	return nil
}

// bilinear samples the color channels of img at the fractional position
// (x, y), relative to img's origin and clamped into the image.
func bilinear(img *image.RGBA, x, y float64) (r, g, b uint8) {
	bounds := img.Bounds()
	x = math.Min(math.Max(x, 0), float64(bounds.Dx()-1))
	y = math.Min(math.Max(y, 0), float64(bounds.Dy()-1))

	x0, y0 := math.Floor(x), math.Floor(y)
	x1, y1 := math.Ceil(x), math.Ceil(y)
	fx, fy := x-x0, y-y0

	at := func(px, py float64) int {
		return img.PixOffset(bounds.Min.X+int(px), bounds.Min.Y+int(py))
	}
	i00, i01 := at(x0, y0), at(x1, y0)
	i10, i11 := at(x0, y1), at(x1, y1)

	channel := func(c int) uint8 {
		v := (1-fx)*(1-fy)*float64(img.Pix[i00+c]) +
			fx*(1-fy)*float64(img.Pix[i01+c]) +
			(1-fx)*fy*float64(img.Pix[i10+c]) +
			fx*fy*float64(img.Pix[i11+c])
		return helpers.RoundUINT8(v)
	}
	return channel(0), channel(1), channel(2)
}
