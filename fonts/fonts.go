package fonts

import (
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var DEFAULT_CHARACTERS = []rune("@%#*+=-:. ")
var EDGE_CHARACTERS = [4]rune{'/', '-', '\\', '|'}

type spriteKey struct {
	size int
	char rune
}

var (
	spriteMu    sync.RWMutex
	spriteCache = make(map[spriteKey]*image.Alpha)
)

// RenderChar draws char into dstRect of dst in clr. Pixels not covered by
// the glyph become transparent.
func RenderChar(char rune, dst *image.RGBA, dstRect image.Rectangle, clr color.Color) {
	size := min(dstRect.Dx(), dstRect.Dy())
	if size <= 0 {
		return
	}
	mask := Sprite(char, size)
	draw.DrawMask(dst, dstRect, image.NewUniform(clr), image.Point{}, mask, image.Point{}, draw.Src)
}

// Sprite returns the size×size coverage mask of char, rendering and caching
// it on first use. The returned mask must not be modified.
func Sprite(char rune, size int) *image.Alpha {
	key := spriteKey{size: size, char: char}

	spriteMu.RLock()
	sprite, ok := spriteCache[key]
	spriteMu.RUnlock()
	if ok {
		return sprite
	}

	sprite = renderSprite(char, size)

	spriteMu.Lock()
	if cached, ok := spriteCache[key]; ok {
		sprite = cached
	} else {
		spriteCache[key] = sprite
	}
	spriteMu.Unlock()
	return sprite
}

// renderSprite draws the glyph with the fixed 7x13 face and scales the cell
// to size×size.
func renderSprite(char rune, size int) *image.Alpha {
	face := basicfont.Face7x13
	glyph := image.NewAlpha(image.Rect(0, 0, face.Width, face.Height))
	d := font.Drawer{Dst: glyph, Src: image.Opaque, Face: face, Dot: fixed.P(0, face.Ascent)}
	d.DrawString(string(char))

	sprite := image.NewAlpha(image.Rect(0, 0, size, size))
	draw.ApproxBiLinear.Scale(sprite, sprite.Bounds(), glyph, glyph.Bounds(), draw.Src, nil)
	return sprite
}

// PickCharOnLuminance maps luminance in [0, 1] onto charset, darkest first.
func PickCharOnLuminance(charset []rune, luminance float32) rune {
	if len(charset) == 0 {
		return ' '
	}
	luminance = max(0, min(1, luminance))
	index := int(luminance * float32(len(charset)-1))
	return charset[index]
}

func PickCharOnAngle(angle float64) rune {
	angleDeg := angle * 180 / math.Pi
	if angleDeg < 0 {
		angleDeg += 180
	}

	switch {
	case angleDeg >= 22.5 && angleDeg < 67.5:
		return '/'
	case angleDeg >= 67.5 && angleDeg < 112.5:
		return '-'
	case angleDeg >= 112.5 && angleDeg < 157.5:
		return '\\'
	default:
		return '|'
	}
}

// Preload renders every rune of charset and the edge glyphs at size so that
// later frames only hit the cache.
func Preload(charset []rune, size int) {
	for _, char := range charset {
		Sprite(char, size)
	}
	for _, char := range EDGE_CHARACTERS {
		Sprite(char, size)
	}
}
