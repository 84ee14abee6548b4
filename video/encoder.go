package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

var ErrFrameGap = errors.New("video: frames missing from output")

type EncodeOptions struct {
	// FPS defaults to 30.
	FPS    float64
	CRF    int
	Preset string
	Logger *slog.Logger
}

func (o EncodeOptions) args(path string) []string {
	fps := o.FPS
	if fps <= 0 {
		fps = 30
	}
	crf := o.CRF
	if crf <= 0 {
		crf = 18
	}
	preset := o.Preset
	if preset == "" {
		preset = "slow"
	}
	return []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-r", strconv.FormatFloat(fps, 'f', -1, 64),
		"-i", "-",
		"-c:v", "libx264",
		"-pix_fmt", "yuv444p",
		"-crf", strconv.Itoa(crf),
		"-preset", preset,
		"-x264-params", "aq-mode=3:aq-strength=1.2:chroma_qp_offset=-2",
		path,
	}
}

type frame struct {
	img   image.Image
	index int
}

// reorderBuffer holds frames that arrived ahead of the next expected index.
type reorderBuffer struct {
	next    int
	pending map[int]image.Image
}

func newReorderBuffer() *reorderBuffer {
	return &reorderBuffer{pending: make(map[int]image.Image)}
}

// push stores img and emits every frame that is now contiguous with the
// frames already emitted.
func (b *reorderBuffer) push(index int, img image.Image, emit func(image.Image) error) error {
	if index < b.next {
		return fmt.Errorf("video: frame %d submitted twice", index)
	}
	b.pending[index] = img
	for {
		img, ok := b.pending[b.next]
		if !ok {
			return nil
		}
		delete(b.pending, b.next)
		b.next++
		if err := emit(img); err != nil {
			return err
		}
	}
}

// Encoder writes frames submitted in any order to a PNG stream in index
// order, starting at index 0.
type Encoder struct {
	w      io.WriteCloser
	wait   func() error
	frames chan frame
	done   chan struct{}
	logger *slog.Logger

	closeOnce sync.Once
	err       error
	written   int
	buffered  int
}

// NewEncoder starts ffmpeg encoding H.264 into path.
func NewEncoder(ctx context.Context, path string, opts EncodeOptions) (*Encoder, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "ffmpeg", opts.args(path)...)
	cmd.Stderr = &stderr
	pipe, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	wait := func() error {
		if err := cmd.Wait(); err != nil {
			return fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return nil
	}
	return newEncoder(pipe, wait, opts.Logger), nil
}

func newEncoder(w io.WriteCloser, wait func() error, logger *slog.Logger) *Encoder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Encoder{
		w:      w,
		wait:   wait,
		frames: make(chan frame, 8),
		done:   make(chan struct{}),
		logger: logger,
	}
	go e.loop()
	return e
}

func (e *Encoder) loop() {
	defer close(e.done)
	buf := newReorderBuffer()
	emit := func(img image.Image) error {
		if err := png.Encode(e.w, img); err != nil {
			return fmt.Errorf("failed to encode frame %d: %w", e.written, err)
		}
		e.written++
		return nil
	}

	for f := range e.frames {
		if e.err != nil {
			// Keep draining so Submit never blocks after a failure.
			continue
		}
		if err := buf.push(f.index, f.img, emit); err != nil {
			e.err = err
			e.logger.Error("encoder stopped", "frame", f.index, "err", err)
		}
	}
	e.buffered = len(buf.pending)
}

// Submit queues a frame. It is safe to call from several goroutines but
// must not be called after Close.
func (e *Encoder) Submit(img image.Image, index int) {
	e.frames <- frame{img: img, index: index}
}

// Close flushes the queue, closes the stream and waits for the encoder
// process. Frames stuck behind a missing index are reported as ErrFrameGap.
func (e *Encoder) Close() error {
	var err error
	e.closeOnce.Do(func() {
		close(e.frames)
		<-e.done

		err = e.err
		if err == nil && e.buffered > 0 {
			err = fmt.Errorf("%w: %d frames waiting after frame %d", ErrFrameGap, e.buffered, e.written)
		}
		if cerr := e.w.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if e.wait != nil {
			if werr := e.wait(); err == nil {
				err = werr
			}
		}
		e.logger.Info("encode finished", "frames", e.written)
	})
	return err
}

// Written reports how many frames reached the stream. Valid after Close.
func (e *Encoder) Written() int {
	return e.written
}
