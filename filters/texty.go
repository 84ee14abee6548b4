package filters

import (
	"fmt"
	"image"
	"image/color"

	"go-stylize/filters/edge"
	"go-stylize/fonts"
)

const EDGE_THRESHOLD = 80.0

var edgeColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}

// TextyFilter redraws the image as a grid of glyphs. Each Scale×Scale cell
// becomes one character in the cell's average color; cells not covered by
// the glyph turn transparent.
type TextyFilter struct {
	Charset []rune
	Scale   int
	// Orderly cycles through Charset instead of choosing by brightness.
	Orderly bool
	// Edges draws line glyphs in red over cells with strong Sobel edges.
	Edges bool
}

func newTextyFilter(p Params) (Filter, error) {
	charset := []rune(p.Text)
	if len(charset) == 0 {
		return nil, fmt.Errorf("%w: texty needs at least one character", ErrInvalidParam)
	}
	if p.Scale < 1 {
		return nil, fmt.Errorf("%w: texty scale %d must be positive", ErrInvalidParam, p.Scale)
	}
	fonts.Preload(charset, p.Scale)
	return &TextyFilter{Charset: charset, Scale: p.Scale, Orderly: p.Orderly, Edges: p.Edges}, nil
}

func (f *TextyFilter) Filter(img *image.RGBA, frameIndex int) error {
	bounds := img.Bounds()

	var edges *edge.EdgeMap
	if f.Edges {
		var solver edge.EdgeSolver = &edge.SobelEdgeDetector{}
		edges = solver.FindEdges(img)
	}

	next := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y += f.Scale {
		for x := bounds.Min.X; x < bounds.Max.X; x += f.Scale {
			rect := image.Rect(x, y, x+f.Scale, y+f.Scale)
			gray, clr := quantizeRect(img, rect.Intersect(bounds))

			if edges != nil {
				avgMag, avgDir := edge.QuantizeBasedOnEdges(rect, edges, EDGE_THRESHOLD)
				if avgMag >= EDGE_THRESHOLD {
					fonts.RenderChar(fonts.PickCharOnAngle(avgDir), img, rect, edgeColor)
					continue
				}
			}

			var char rune
			if f.Orderly {
				next = (next + 1) % len(f.Charset)
				char = f.Charset[next]
			} else {
				char = fonts.PickCharOnLuminance(f.Charset, gray/255)
			}
			fonts.RenderChar(char, img, rect, clr)
		}
	}
	return nil
}

// quantizeRect returns the mean of the channel means over rect and the mean
// color, made opaque.
func quantizeRect(img *image.RGBA, rect image.Rectangle) (float32, color.RGBA) {
	var sumR, sumG, sumB int
	var pixCount int
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		i := img.PixOffset(rect.Min.X, y)
		for x := rect.Min.X; x < rect.Max.X; x++ {
			sumR += int(img.Pix[i+0])
			sumG += int(img.Pix[i+1])
			sumB += int(img.Pix[i+2])
			pixCount++
			i += 4
		}
	}
	if pixCount == 0 {
		return 0, color.RGBA{A: 255}
	}

	avgR := sumR / pixCount
	avgG := sumG / pixCount
	avgB := sumB / pixCount

	gray := float32(avgR+avgG+avgB) / 3
	return gray, color.RGBA{R: uint8(avgR), G: uint8(avgG), B: uint8(avgB), A: 255}
}
