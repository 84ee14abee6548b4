package stylize

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/anthonynsimon/bild/clone"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrFetch = errors.New("stylize: fetch failed")

// Loader opens images from local paths or http(s) URLs.
type Loader struct {
	Client *http.Client
}

var defaultLoader = &Loader{Client: http.DefaultClient}

// LoadImage loads src and scales it to width×height. A zero width or height
// keeps the decoded size.
func LoadImage(ctx context.Context, src string, width, height int) (*image.RGBA, error) {
	return defaultLoader.Load(ctx, src, width, height)
}

func (l *Loader) Load(ctx context.Context, src string, width, height int) (*image.RGBA, error) {
	rc, err := l.open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", src, err)
	}
	return fit(img, width, height), nil
}

func (l *Loader) open(ctx context.Context, src string) (io.ReadCloser, error) {
	if !isURL(src) {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("failed to open image: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %s", ErrFetch, src, resp.Status)
	}
	return resp.Body, nil
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// fit converts img to RGBA at the origin, resampling with Catmull-Rom when
// the size differs.
func fit(img image.Image, width, height int) *image.RGBA {
	b := img.Bounds()
	if width <= 0 || height <= 0 || (width == b.Dx() && height == b.Dy()) {
		out := clone.AsRGBA(img)
		if out.Rect.Min != (image.Point{}) {
			out.Rect = out.Rect.Sub(out.Rect.Min)
		}
		return out
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}
