package edge

import (
	"image"
	"math"

	"go-stylize/helpers"
)

type Edge struct {
	Magnitude float64
	Direction float64
}

// EdgeMap holds one Edge per pixel of Rect, row-major.
type EdgeMap struct {
	Rect  image.Rectangle
	Edges []Edge
}

func NewEdgeMap(rect image.Rectangle) *EdgeMap {
	return &EdgeMap{Rect: rect, Edges: make([]Edge, rect.Dx()*rect.Dy())}
}

func (m *EdgeMap) At(x, y int) (Edge, bool) {
	if !(image.Point{X: x, Y: y}).In(m.Rect) {
		return Edge{}, false
	}
	return m.Edges[(y-m.Rect.Min.Y)*m.Rect.Dx()+(x-m.Rect.Min.X)], true
}

func (m *EdgeMap) Set(x, y int, e Edge) {
	m.Edges[(y-m.Rect.Min.Y)*m.Rect.Dx()+(x-m.Rect.Min.X)] = e
}

type EdgeSolver interface {
	FindEdges(img *image.RGBA) *EdgeMap
}

// QuantizeBasedOnEdges finds the average magnitude and angle of the edges in
// rect whose magnitude reaches threshold.
func QuantizeBasedOnEdges(rect image.Rectangle, edges *EdgeMap, threshold float64) (avgMag, avgDir float64) {
	bounds := rect.Intersect(edges.Rect)

	sumSin, sumCos := 0.0, 0.0
	sumMag := 0.0
	var count int

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			edge, _ := edges.At(x, y)
			if edge.Magnitude < threshold {
				continue
			}

			sumMag += edge.Magnitude
			sumSin += math.Sin(edge.Direction)
			sumCos += math.Cos(edge.Direction)
			count++
		}
	}

	if count == 0 {
		return 0, 0 // no edges strong enough in this block
	}

	avgMag = sumMag / float64(count)
	avgDir = math.Atan2(sumSin, sumCos)

	return avgMag, avgDir
}

// Luminance returns the Rec. 709 luma of the pixel at (x, y), clamping the
// coordinates into the image.
func Luminance(img *image.RGBA, x, y int) int {
	b := img.Rect
	i := img.PixOffset(helpers.ClampInt(x, b.Min.X, b.Max.X-1), helpers.ClampInt(y, b.Min.Y, b.Max.Y-1))
	r, g, bl := float64(img.Pix[i]), float64(img.Pix[i+1]), float64(img.Pix[i+2])
	return helpers.ClampUINT8(int(0.2126*r + 0.7152*g + 0.0722*bl))
}

// GetPatchForXY constructs the 3x3 luminance patch centred on (x, y), row by
// row. Samples outside the image repeat the nearest edge pixel.
func GetPatchForXY(img *image.RGBA, x, y int) [9]int {
	var patch [9]int
	currIndex := 0
	for y1 := y - 1; y1 < y+2; y1++ {
		for x1 := x - 1; x1 < x+2; x1++ {
			patch[currIndex] = Luminance(img, x1, y1)
			currIndex++
		}
	}

	return patch
}
