// Package blur implements the stack blur: a separable approximation of a
// Gaussian blur whose per-pixel cost does not depend on the radius.
//
// The kernel weights each sample by radius+1-|offset|, a triangle, and the
// two passes (rows, then columns) compose into a pyramid that looks close
// to a Gaussian. Only R, G and B are blurred; alpha is left as it is.
package blur

import (
	"errors"
	"fmt"
	"image"
	"math"
	"runtime"
	"sync"
)

var (
	ErrInvalidRadius = errors.New("blur: invalid radius")
	ErrBufferSize    = errors.New("blur: buffer size mismatch")
)

// Engine runs stack blurs, splitting each pass over a number of workers.
// An Engine holds no per-call state and may be shared between goroutines.
type Engine struct {
	workers int
}

type Option func(*Engine)

// WithWorkers sets how many goroutines share each pass. Values below one
// run the blur on the calling goroutine.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = New()

// StackBlur blurs a tightly packed RGBA buffer in place.
// len(pix) must equal width*height*4.
func StackBlur(pix []uint8, width, height, radius int) error {
	return defaultEngine.Blur(pix, width, height, radius)
}

// StackBlurImage blurs img in place, honouring its stride.
func StackBlurImage(img *image.RGBA, radius int) error {
	return defaultEngine.BlurImage(img, radius)
}

// ParseRadius turns a user supplied radius into a kernel radius, truncating
// the fractional part.
func ParseRadius(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v is not finite", ErrInvalidRadius, v)
	}
	r := math.Trunc(v)
	if r < 1 || r > MaxRadius {
		return 0, fmt.Errorf("%w: %v outside [1, %d]", ErrInvalidRadius, v, MaxRadius)
	}
	return int(r), nil
}

func validateRadius(radius int) error {
	if radius < 1 || radius > MaxRadius {
		return fmt.Errorf("%w: %d outside [1, %d]", ErrInvalidRadius, radius, MaxRadius)
	}
	return nil
}

// Blur blurs a tightly packed RGBA buffer in place. Nothing is written when
// an error is returned.
func (e *Engine) Blur(pix []uint8, width, height, radius int) error {
	if err := validateRadius(radius); err != nil {
		return err
	}
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrBufferSize, width, height)
	}
	if height > 0 && width > math.MaxInt/4/height {
		return fmt.Errorf("%w: %dx%d overflows the buffer length", ErrBufferSize, width, height)
	}
	if want := width * height * 4; len(pix) != want {
		return fmt.Errorf("%w: got %d bytes, want %d for %dx%d", ErrBufferSize, len(pix), want, width, height)
	}
	e.run(pix, width, height, width*4, radius)
	return nil
}

// BlurImage blurs img in place. Sub-images are supported; pixels outside
// img.Rect are neither read nor written.
func (e *Engine) BlurImage(img *image.RGBA, radius int) error {
	if err := validateRadius(radius); err != nil {
		return err
	}
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrBufferSize)
	}
	width, height := img.Rect.Dx(), img.Rect.Dy()
	if width == 0 || height == 0 {
		return nil
	}
	if img.Stride < width*4 {
		return fmt.Errorf("%w: stride %d shorter than row of %d pixels", ErrBufferSize, img.Stride, width)
	}
	if need := (height-1)*img.Stride + width*4; len(img.Pix) < need {
		return fmt.Errorf("%w: got %d bytes, need %d", ErrBufferSize, len(img.Pix), need)
	}
	e.run(img.Pix, width, height, img.Stride, radius)
	return nil
}

func (e *Engine) run(pix []uint8, width, height, stride, radius int) {
	if width == 0 || height == 0 {
		return
	}
	k := newKernel(radius)

	e.split(height, func(lo, hi int) {
		q := newRing(radius)
		for y := lo; y < hi; y++ {
			k.sweep(pix, y*stride, 4, width, q)
		}
	})

	e.split(width, func(lo, hi int) {
		q := newRing(radius)
		for x := lo; x < hi; x++ {
			k.sweep(pix, x*4, stride, height, q)
		}
	})
}

// split hands disjoint, contiguous ranges of [0, n) to the workers and
// waits for all of them.
func (e *Engine) split(n int, fn func(lo, hi int)) {
	workers := min(e.workers, n)
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(lo, hi)
		}()
	}
	wg.Wait()
}
