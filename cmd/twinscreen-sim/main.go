// Command twinscreen-sim runs a scene through the UI engine on the software
// rasterizer and writes the final frame of each screen as PNG.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/agiangrant/twinscreen"
	"github.com/agiangrant/twinscreen/backend/raster"
	"github.com/agiangrant/twinscreen/backend/scripted"
	"github.com/agiangrant/twinscreen/retained"
)

const version = "0.1.0"

type options struct {
	config  string
	scene   string
	input   string
	out     string
	icons   string
	sheet   string
	linger  time.Duration
	verbose bool
}

func main() {
	var opts options
	fs := flag.NewFlagSet("twinscreen-sim", flag.ExitOnError)
	fs.StringVar(&opts.config, "config", "twinscreen.toml", "Configuration file")
	fs.StringVar(&opts.scene, "scene", "", "Scene file (required)")
	fs.StringVar(&opts.input, "input", "", "Input script; without one the scene is drawn once")
	fs.StringVar(&opts.out, "out", "out", "Directory for the PNG frames")
	fs.StringVar(&opts.icons, "icons", "", "Directory of raw title icons")
	fs.StringVar(&opts.sheet, "sheet", "", "PNG sprite sheet of 48x48 cells")
	fs.DurationVar(&opts.linger, "linger", 250*time.Millisecond, "Time to keep running after the script ends")
	fs.BoolVar(&opts.verbose, "v", false, "Log per-frame diagnostics")
	showVersion := fs.Bool("version", false, "Print version information")
	fs.Usage = func() { printUsage(fs) }
	fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("twinscreen-sim version %s\n", version)
		return
	}
	if opts.scene == "" {
		printUsage(fs)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	retained.SetLogger(logger)

	cfg, err := twinscreen.LoadConfig(opts.config)
	if err != nil {
		return err
	}
	scene, err := LoadScene(opts.scene)
	if err != nil {
		return err
	}

	var input *scripted.Input
	if opts.input != "" {
		input, err = scripted.Load(opts.input)
	} else {
		input, err = scripted.Compile(scripted.Script{Slider: cfg.Stereo.InitialSlider})
	}
	if err != nil {
		return err
	}

	var rasterOpts raster.Options
	if opts.sheet != "" {
		rasterOpts.Sprites, err = raster.LoadSheet(opts.sheet, raster.SpriteSize)
		if err != nil {
			return err
		}
	}
	gfx, err := raster.New(rasterOpts)
	if err != nil {
		return fmt.Errorf("failed to create rasterizer: %w", err)
	}
	defer gfx.Close()

	app, err := newSceneApp(scene, func(target retained.NodeID, ev retained.Event) {
		logger.Info("event", "target", target, "event", ev)
	})
	if err != nil {
		return err
	}

	var engineOpts []twinscreen.Option
	if opts.icons != "" {
		engineOpts = append(engineOpts,
			twinscreen.WithIconLoader(dirIcons{root: opts.icons}),
			twinscreen.WithPreload(func(uint64) bool { return true }),
		)
	}
	loop, err := twinscreen.New(cfg, gfx, input, app, engineOpts...)
	if err != nil {
		return err
	}
	defer loop.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, input.Duration()+opts.linger)
	defer cancel()

	handoff, err := loop.Run(ctx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	stats := loop.Stats()
	logger.Info("finished", "frames", stats.Frames, "solves", stats.Solves, "wakes", stats.Wakes)
	if handoff != nil {
		fmt.Printf("launch %016x on %s\n", handoff.TitleID, handoff.Media)
	}

	if err := gfx.SavePNGs(opts.out); err != nil {
		return err
	}
	fmt.Printf("Wrote frames to %s\n", opts.out)
	return nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintln(os.Stderr, `twinscreen-sim - run a scene on the software rasterizer

Usage: twinscreen-sim -scene <file> [options]

Options:`)
	fs.PrintDefaults()
	fmt.Fprintln(os.Stderr, `
Examples:
  twinscreen-sim -scene menu.toml                     Draw one frame of menu.toml
  twinscreen-sim -scene menu.toml -input taps.toml    Replay taps and save the last frame
  twinscreen-sim -scene menu.toml -icons ./icons -v   Load title icons with debug logging`)
}
