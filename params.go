package main

import (
	"github.com/spf13/pflag"

	"go-stylize/filters"
)

// bindParams registers one flag per effect option, defaulting to p.
func bindParams(fs *pflag.FlagSet, p *filters.Params) {
	fs.Float64Var(&p.Radius, "radius", p.Radius, "Blur radius (1-254) or oil painting radius")
	fs.IntVar(&p.Workers, "workers", p.Workers, "Blur worker goroutines (0 = all CPUs)")
	fs.IntVar(&p.Average, "average", p.Average, "Pixel block size")
	fs.Float64Var(&p.Intensity, "intensity", p.Intensity, "Noise intensity")
	fs.Uint64Var(&p.Seed, "seed", p.Seed, "Noise seed")
	fs.IntVar(&p.Levels, "levels", p.Levels, "Oil painting intensity levels")
	fs.Float64Var(&p.Amplitude, "amplitude", p.Amplitude, "Ripple amplitude in pixels")
	fs.Float64Var(&p.Frequency, "frequency", p.Frequency, "Ripple frequency")
	fs.Float64Var(&p.Phase, "phase", p.Phase, "Ripple phase")
	fs.StringVar(&p.Color, "color", p.Color, "rmcolor replacement colour (#rrggbb or #rrggbbaa)")
	fs.IntVar(&p.Tolerance, "tolerance", p.Tolerance, "rmcolor tolerance (0-255)")
	fs.StringVar(&p.Text, "text", p.Text, "texty character set, darkest first")
	fs.IntVar(&p.Scale, "scale", p.Scale, "texty cell size in pixels")
	fs.BoolVar(&p.Orderly, "orderly", p.Orderly, "texty cycles through the character set")
	fs.BoolVar(&p.Edges, "edges", p.Edges, "texty draws Sobel edge glyphs")
	fs.Float64Var(&p.Opacity, "opacity", p.Opacity, "mixed overlay opacity (0-1)")
}
