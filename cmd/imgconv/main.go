// Command imgconv converts Base64 image data URIs to binary image files.
//
// Usage:
//
//	imgconv -in photo.b64 -out photo.png
//	imgconv -in photo.jpg -raw -format tiff -out photo.tif
//	imgconv -in photo.b64 -info
//	imgconv -watch inbox -outdir converted
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gogpu/imgconv"
	"github.com/gogpu/imgconv/internal/config"
	"github.com/gogpu/imgconv/internal/watch"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		input      = flag.String("in", "-", "input file, - for stdin")
		output     = flag.String("out", "-", "output file, - for stdout")
		format     = flag.String("format", "", "output format: png, jpeg, gif, bmp, tiff")
		quality    = flag.Int("quality", 0, "JPEG quality (1-100)")
		backend    = flag.String("backend", "", "surface backend: image, gg")
		maxPixels  = flag.Int64("max-pixels", 0, "largest accepted image in pixels, -1 for no limit")
		raw        = flag.Bool("raw", false, "input is raw image bytes, not a data URI")
		info       = flag.Bool("info", false, "print image dimensions and format, then exit")
		watchDir   = flag.String("watch", "", "convert files dropped into this directory")
		outDir     = flag.String("outdir", "", "output directory for -watch")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "imgconv: %v\n", err)
		os.Exit(2)
	}

	// Flags given on the command line override the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			cfg.Format = *format
		case "quality":
			cfg.Quality = *quality
		case "backend":
			cfg.Backend = *backend
		case "max-pixels":
			cfg.MaxPixels = *maxPixels
		case "watch":
			cfg.Watch.Dir = *watchDir
		case "outdir":
			cfg.OutputDir = *outDir
		case "v":
			if *verbose {
				cfg.LogLevel = "debug"
			}
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "imgconv: %v\n", err)
		os.Exit(2)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	imgconv.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := imgconv.NewConverter(
		imgconv.WithFormat(cfg.OutputFormat(), cfg.Quality),
		imgconv.WithSurfaceBackend(cfg.Backend),
		imgconv.WithMaxPixels(cfg.MaxPixels),
		imgconv.WithLogger(logger),
	)

	switch {
	case cfg.Watch.Dir != "":
		err = runWatch(ctx, c, cfg, logger)
	case *info:
		err = runInfo(ctx, c, *input, *raw, os.Stdout)
	default:
		err = runConvert(ctx, c, *input, *output, *raw)
	}
	if err != nil {
		logger.Error("imgconv failed", "err", err)
		stop()
		os.Exit(1)
	}
}

// loadState reads the input into an ImageState.
func loadState(path string, raw bool) (*imgconv.ImageState, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	name := filepath.Base(path)
	if path == "-" {
		name = "stdin"
	}

	state := imgconv.NewImageState()
	if raw {
		state.LoadBytes(name, data)
	} else {
		state.Set(strings.TrimSpace(string(data)), name)
	}
	return state, nil
}

func runConvert(ctx context.Context, c *imgconv.Converter, in, out string, raw bool) error {
	state, err := loadState(in, raw)
	if err != nil {
		return err
	}

	blob, err := c.ConvertState(ctx, state)
	if err != nil {
		return err
	}

	if out == "-" {
		_, err = blob.WriteTo(os.Stdout)
		return err
	}
	return os.WriteFile(out, blob.Bytes(), 0o644)
}

func runInfo(ctx context.Context, c *imgconv.Converter, in string, raw bool, w io.Writer) error {
	state, err := loadState(in, raw)
	if err != nil {
		return err
	}
	if !state.ImageLoaded() {
		return imgconv.ErrNoImage
	}

	img, err := c.Decode(ctx, state.Image())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\t%s\t%s\n", state.Filename(), imgconv.Measure(img), img.Format())
	return err
}

func runWatch(ctx context.Context, c *imgconv.Converter, cfg *config.Config, logger *slog.Logger) error {
	outDir := cfg.OutputDirectory()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ext := cfg.OutputFormat().Extension()
	w, err := watch.New(cfg.Watch.Dir, watch.ConvertHandler(c, outDir, ext),
		watch.WithExtensions(cfg.Watch.Extensions...),
		watch.WithDebounce(cfg.Watch.Debounce),
		watch.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
