package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "go-stylize",
	Short: "Apply image effects to pictures and videos",
	Long: `go-stylize runs stack blur, ASCII text, oil painting, ripple and other
effects over still images or, through ffmpeg, over every frame of a video.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var level slog.Level
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			return fmt.Errorf("unknown log level: %s", logLevel)
		}

		opts := &slog.HandlerOptions{Level: level}
		var handler slog.Handler
		switch logFormat {
		case "json":
			handler = slog.NewJSONHandler(os.Stdout, opts)
		case "text":
			handler = slog.NewTextHandler(os.Stdout, opts)
		default:
			return fmt.Errorf("unknown log format: %s", logFormat)
		}
		logger = slog.New(handler)
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
}
