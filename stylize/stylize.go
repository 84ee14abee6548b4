// Package stylize keeps a fixed-size canvas and draws stylized images onto
// it. Each effect loads its source image scaled to the canvas, runs one
// filter from the registry over it and composites the result over whatever
// the canvas already holds.
package stylize

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-stylize/filters"

	"golang.org/x/image/draw"
)

var (
	ErrInvalidSize       = errors.New("stylize: canvas size must be positive")
	ErrMissingSource     = errors.New("stylize: effect has no source image")
	ErrUnsupportedFormat = errors.New("stylize: unsupported output format")
)

// Effect describes one draw call. Overlay is only read by the mixed effect.
type Effect struct {
	Type    string
	Source  string
	Overlay string
	Params  filters.Params
}

type Stylize struct {
	canvas  *image.RGBA
	loader  *Loader
	logger  *slog.Logger
	workers int
}

type Option func(*Stylize)

func WithLogger(l *slog.Logger) Option {
	return func(s *Stylize) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(s *Stylize) {
		if c != nil {
			s.loader = &Loader{Client: c}
		}
	}
}

// WithWorkers sets the worker count used by the blur effect when the effect
// params leave it at zero.
func WithWorkers(n int) Option {
	return func(s *Stylize) { s.workers = n }
}

func New(width, height int, opts ...Option) (*Stylize, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	s := &Stylize{
		canvas: image.NewRGBA(image.Rect(0, 0, width, height)),
		loader: defaultLoader,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// LoadImage loads src scaled to the canvas size.
func (s *Stylize) LoadImage(ctx context.Context, src string) (*image.RGBA, error) {
	b := s.canvas.Bounds()
	return s.loader.Load(ctx, src, b.Dx(), b.Dy())
}

// LoadEffect renders e and draws it over the canvas. The canvas is left
// untouched when any step fails.
func (s *Stylize) LoadEffect(ctx context.Context, e Effect) error {
	if e.Source == "" {
		return ErrMissingSource
	}
	start := time.Now()

	p := e.Params
	if p.Workers == 0 {
		p.Workers = s.workers
	}
	if e.Overlay != "" {
		overlay, err := s.LoadImage(ctx, e.Overlay)
		if err != nil {
			return fmt.Errorf("failed to load overlay: %w", err)
		}
		p.Overlay = overlay
	}

	f, err := filters.New(e.Type, p)
	if err != nil {
		return err
	}

	img, err := s.LoadImage(ctx, e.Source)
	if err != nil {
		return fmt.Errorf("failed to load source: %w", err)
	}
	if err := f.Filter(img, 0); err != nil {
		return fmt.Errorf("%s: %w", e.Type, err)
	}

	draw.Draw(s.canvas, s.canvas.Bounds(), img, image.Point{}, draw.Over)

	s.logger.Debug("effect drawn", "effect", e.Type, "source", e.Source, "elapsed", time.Since(start))
	return nil
}

// Canvas returns the live canvas. Callers must not keep it across a Clear.
func (s *Stylize) Canvas() *image.RGBA {
	return s.canvas
}

func (s *Stylize) Clear() {
	clear(s.canvas.Pix)
}

// Save encodes the canvas as PNG or JPEG depending on the file extension.
func (s *Stylize) Save(path string) (err error) {
	var encode func(f *os.File) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		encode = func(f *os.File) error { return png.Encode(f, s.canvas) }
	case ".jpg", ".jpeg":
		encode = func(f *os.File) error { return jpeg.Encode(f, s.canvas, &jpeg.Options{Quality: 95}) }
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := encode(f); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	s.logger.Info("canvas saved", "path", path)
	return nil
}
