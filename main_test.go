package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"go-stylize/filters"
	"go-stylize/stylize"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestEffectsCommand(t *testing.T) {
	got := strings.Fields(execute(t, "effects", "--log-level", "error"))
	want := filters.Effects.Names()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("effects = %v, want %v", got, want)
	}
}

func TestApplyCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")

	src := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	src.SetNRGBA(0, 0, color.NRGBA{100, 150, 200, 255})
	f, err := os.Create(in)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	execute(t, "apply", "--log-level", "error", "--in", in, "--out", out, "--effect", "grayscale")

	img, err := stylize.LoadImage(context.Background(), out, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 4 {
		t.Fatalf("output size = %v, want 6x4", img.Bounds())
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{140, 140, 140, 255}) {
		t.Errorf("pixel = %v, want {140 140 140 255}", got)
	}
}

func TestBindParamsParsesFlags(t *testing.T) {
	p := filters.DefaultParams()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	bindParams(fs, &p)
	if err := fs.Parse([]string{"--radius", "7.5", "--text", "ab", "--edges"}); err != nil {
		t.Fatal(err)
	}
	if p.Radius != 7.5 || p.Text != "ab" || !p.Edges || p.Scale != 10 {
		t.Errorf("params = %+v", p)
	}
}

func TestFolding(t *testing.T) {
	if !foldedIs("MIXED", "mixed") || foldedIs("mix", "mixed") {
		t.Error("foldedIs does not fold case")
	}
}
