package edge

import (
	"go-stylize/helpers"
	"image"
	"math"
)

var (
	sobelX = [9]int{-1, 0, 1, -2, 0, 2, -1, 0, 1}
	sobelY = [9]int{-1, -2, -1, 0, 0, 0, 1, 2, 1}
)

type SobelEdgeDetector struct{}

func (d *SobelEdgeDetector) FindEdges(img *image.RGBA) *EdgeMap {
	bounds := img.Bounds()
	edges := NewEdgeMap(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			patch := GetPatchForXY(img, x, y)

			Gx := float64(helpers.DotProduct(patch, sobelX))
			Gy := float64(helpers.DotProduct(patch, sobelY))

			edges.Set(x, y, Edge{
				Magnitude: math.Sqrt(Gx*Gx + Gy*Gy),
				Direction: math.Atan2(Gy, Gx),
			})
		}
	}

	return edges
}
