// Package video streams the frames of a video through ffmpeg, hands them to
// a pool of processors and reassembles the processed frames in order.
package video

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/anthonynsimon/bild/clone"
)

var ErrProbe = errors.New("video: ffprobe failed")

// FrameProcessor receives every decoded frame exactly once. Process is called
// from several goroutines at the same time.
type FrameProcessor interface {
	Process(frame *image.RGBA, index int) error
}

type ProcessorFunc func(frame *image.RGBA, index int) error

func (f ProcessorFunc) Process(frame *image.RGBA, index int) error { return f(frame, index) }

type job struct {
	img   *image.RGBA
	index int
}

// FrameCount asks ffprobe for the number of packets in the first video
// stream.
func FrameCount(ctx context.Context, path string) (int, error) {
	out, err := exec.CommandContext(ctx, "ffprobe", "-v", "error", "-select_streams", "v:0", "-count_packets",
		"-show_entries", "stream=nb_read_packets", "-of", "csv=p=0", path).Output()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrProbe, err)
	}
	return parseFrameCount(out)
}

func parseFrameCount(out []byte) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("%w: frame count %q: %w", ErrProbe, out, err)
	}
	return n, nil
}

// FrameRate returns the average frame rate of the first video stream.
func FrameRate(ctx context.Context, path string) (float64, error) {
	out, err := exec.CommandContext(ctx, "ffprobe", "-v", "error", "-select_streams", "v:0",
		"-show_entries", "stream=avg_frame_rate", "-of", "csv=p=0", path).Output()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrProbe, err)
	}
	return parseRate(out)
}

// parseRate reads ffprobe rates such as "30000/1001" or "25".
func parseRate(out []byte) (float64, error) {
	s := strings.TrimSpace(string(out))
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: frame rate %q: %w", ErrProbe, s, err)
	}
	if !found {
		return n, nil
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("%w: frame rate %q", ErrProbe, s)
	}
	return n / d, nil
}

type DecodeOptions struct {
	// Start and Duration select a window of the input; zero means the whole
	// video.
	Start    time.Duration
	Duration time.Duration
	// Workers defaults to runtime.NumCPU().
	Workers int
	Logger  *slog.Logger
}

func (o DecodeOptions) args(path string) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-hwaccel", "auto"}
	if o.Start > 0 {
		args = append(args, "-ss", formatSeconds(o.Start))
	}
	if o.Duration > 0 {
		args = append(args, "-t", formatSeconds(o.Duration))
	}
	return append(args, "-i", path, "-f", "image2pipe", "-vcodec", "png", "-")
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// Decode pipes the frames of path through processor and returns how many
// frames were decoded. The first processor error stops decoding.
func Decode(ctx context.Context, path string, processor FrameProcessor, opts DecodeOptions) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "ffmpeg", opts.args(path)...)
	cmd.Stderr = &stderr
	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return 0, err
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	frames, runErr := run(ctx, cancel, bufio.NewReader(pipe), processor, opts)

	// Drain so ffmpeg is not blocked on a full pipe when we stopped early.
	io.Copy(io.Discard, pipe)
	waitErr := cmd.Wait()

	switch {
	case runErr != nil:
		return frames, runErr
	case waitErr != nil:
		return frames, fmt.Errorf("ffmpeg: %w: %s", waitErr, strings.TrimSpace(stderr.String()))
	}
	return frames, nil
}

// run decodes a concatenated PNG stream from r and fans the frames out to
// the worker pool.
func run(ctx context.Context, cancel context.CancelFunc, r io.Reader, processor FrameProcessor, opts DecodeOptions) (int, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	concurrency := opts.Workers
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	jobs := make(chan job, 8)
	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if ctx.Err() != nil {
					continue
				}
				if err := processor.Process(j.img, j.index); err != nil {
					fail(fmt.Errorf("frame %d: %w", j.index, err))
				}
			}
		}()
	}

	currentFrame := 0
	start := time.Now()
decode:
	for {
		img, err := png.Decode(r)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			if ctx.Err() == nil {
				fail(fmt.Errorf("frame %d: %w", currentFrame, err))
			}
			break
		}

		select {
		case jobs <- job{img: asRGBA(img), index: currentFrame}:
		case <-ctx.Done():
			break decode
		}
		currentFrame++
	}
	close(jobs)
	wg.Wait()

	if firstErr == nil && ctx.Err() != nil {
		firstErr = ctx.Err()
	}
	logger.Info("decode finished", "frames", currentFrame, "workers", concurrency, "elapsed", time.Since(start))
	return currentFrame, firstErr
}

func asRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	return clone.AsRGBA(img)
}
