// Command oxyviewer renders a scene file, either interactively in a window or headless into PNG files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
)

type options struct {
	scenePath string
	out       string
	headless  bool
	frames    int
	width     int
	height    int
	vsync     bool
	profile   bool
}

func run() error {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	var opts options
	fs.StringVar(&opts.scenePath, "scene", "", "the scene file to view (may also be given as the first argument)")
	fs.BoolVar(&opts.headless, "headless", false, "render to PNG with the software renderer instead of opening a window")
	fs.StringVar(&opts.out, "out", "frame.png", "headless output file, or the output directory when -frames > 1")
	fs.IntVar(&opts.frames, "frames", 1, "headless turntable frame count, evenly spaced around the target")
	fs.IntVar(&opts.width, "width", 1280, "image or window width in pixels")
	fs.IntVar(&opts.height, "height", 720, "image or window height in pixels")
	fs.BoolVar(&opts.vsync, "vsync", true, "synchronize presentation with the display")
	fs.BoolVar(&opts.profile, "profile", false, "log frame rate, memory and sorting statistics every second")
	logLevel := fs.String("log-level", "warn", "log level (debug, info, warn, error)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}
	if opts.scenePath == "" {
		opts.scenePath = fs.Arg(0)
	}
	if opts.scenePath == "" {
		return errors.New("no scene file given")
	}
	if opts.width <= 0 || opts.height <= 0 {
		return fmt.Errorf("invalid size %dx%d", opts.width, opts.height)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", *logLevel, err)
	}
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	s, err := scene.LoadFile(opts.scenePath)
	if err != nil {
		return err
	}
	s.Projection().SetAspect(float32(opts.width) / float32(opts.height))

	if opts.headless {
		return renderHeadless(s, opts, os.Stderr)
	}
	return runInteractive(s, opts)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "oxyviewer: %v\n", err)
		os.Exit(1)
	}
}
