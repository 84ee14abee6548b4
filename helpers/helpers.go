package helpers

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/clone"
)

var ErrInvalidHexColor = errors.New("invalid hex color")

func ClampUINT8(val int) int {
	if val < 0 {
		return 0
	}
	if val > 255 {
		return 255
	}

	return val
}

// RoundUINT8 rounds v to the nearest integer and clamps it to a channel value.
func RoundUINT8(v float64) uint8 {
	r := math.Round(v)
	switch {
	case math.IsNaN(r) || r <= 0:
		return 0
	case r >= 255:
		return 255
	}
	return uint8(r)
}

func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func DotProduct(m1, m2 [9]int) int {
	sum := 0
	for i := range 9 {
		sum += m1[i] * m2[i]
	}
	return sum
}

// CopyImage returns an RGBA copy of src with the same bounds.
func CopyImage(src image.Image) *image.RGBA {
	return clone.AsRGBA(src)
}

// ParseHexColor parses #RRGGBB or #RRGGBBAA (the leading # is optional).
// Six-digit colors are opaque.
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w %q: want 6 or 8 hex digits", ErrInvalidHexColor, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w %q: %w", ErrInvalidHexColor, s, err)
	}

	if len(hex) == 6 {
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
