package main

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/spf13/cobra"

	"go-stylize/filters"
	"go-stylize/stylize"
	"go-stylize/video"
)

// FrameRouter runs the effect chain over each decoded frame and forwards the
// result to the encoder.
type FrameRouter struct {
	filter  filters.Filter
	encoder *video.Encoder
}

func (r *FrameRouter) Process(img *image.RGBA, currentFrame int) error {
	if err := r.filter.Filter(img, currentFrame); err != nil {
		return err
	}
	r.encoder.Submit(img, currentFrame)
	return nil
}

var videoOpts = struct {
	in, out, overlay string
	effects          []string
	start, duration  time.Duration
	fps              float64
	crf              int
	preset           string
	params           filters.Params
}{params: filters.DefaultParams()}

var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "Apply effects to every frame of a video",
	Long: `Decodes a video with ffmpeg, runs the effect chain over every frame in
parallel and re-encodes the frames in order as H.264.`,
	RunE: runVideo,
}

func init() {
	f := videoCmd.Flags()
	f.StringVar(&videoOpts.in, "in", "", "Input video path (required)")
	f.StringVar(&videoOpts.out, "out", "output.mp4", "Output video path")
	f.StringVar(&videoOpts.overlay, "overlay", "", "Overlay image for the mixed effect")
	f.StringSliceVar(&videoOpts.effects, "effect", nil, "Effect to apply, repeatable (see 'effects')")
	f.DurationVar(&videoOpts.start, "start", 0, "Seek to this offset before decoding")
	f.DurationVar(&videoOpts.duration, "duration", 0, "Decode at most this much video (0 = all)")
	f.Float64Var(&videoOpts.fps, "fps", 0, "Output frame rate (0 = probe the input)")
	f.IntVar(&videoOpts.crf, "crf", 18, "x264 constant rate factor")
	f.StringVar(&videoOpts.preset, "preset", "slow", "x264 preset")
	bindParams(f, &videoOpts.params)

	videoCmd.MarkFlagRequired("in")
	videoCmd.MarkFlagRequired("effect")
	rootCmd.AddCommand(videoCmd)
}

func runVideo(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()

	params := videoOpts.params
	if videoOpts.overlay != "" {
		overlay, err := stylize.LoadImage(ctx, videoOpts.overlay, 0, 0)
		if err != nil {
			return fmt.Errorf("failed to load overlay: %w", err)
		}
		params.Overlay = overlay
	}

	var chain filters.Chain
	for _, name := range videoOpts.effects {
		f, err := filters.New(name, params)
		if err != nil {
			return err
		}
		chain = append(chain, f)
	}

	fps := videoOpts.fps
	if fps <= 0 {
		fps, err = video.FrameRate(ctx, videoOpts.in)
		if err != nil {
			logger.Warn("Falling back to 30 fps", "err", err)
			fps = 30
		}
	}
	if total, err := video.FrameCount(ctx, videoOpts.in); err == nil {
		logger.Info("Probed input", "path", videoOpts.in, "frames", total, "fps", fps)
	}

	encoder, err := video.NewEncoder(ctx, videoOpts.out, video.EncodeOptions{
		FPS:    fps,
		CRF:    videoOpts.crf,
		Preset: videoOpts.preset,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	router := &FrameRouter{filter: chain, encoder: encoder}
	frames, decodeErr := video.Decode(ctx, videoOpts.in, router, video.DecodeOptions{
		Start:    videoOpts.start,
		Duration: videoOpts.duration,
		Logger:   logger,
	})
	closeErr := encoder.Close()
	if err := errors.Join(decodeErr, closeErr); err != nil {
		return err
	}

	elapsed := time.Since(start)
	logger.Info("Video complete", "frames", frames, "elapsed", elapsed)
	fmt.Printf("Wrote %s (%d frames, %.1f frames/sec)\n", videoOpts.out, frames, float64(frames)/elapsed.Seconds())
	return nil
}
