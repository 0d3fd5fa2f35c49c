package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/tmpim/chessprite"
)

func main() {
	// .env is optional; defaults below read the environment.
	_ = godotenv.Load()

	cfg := chessprite.DefaultConfig()

	var themes, sets, variants string
	flag.StringVar(&cfg.PiecesDir, "pieces", cfg.PiecesDir, "set the piece set directory ({set}/{code}.svg)")
	flag.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "set the output directory")
	flag.StringVar(&themes, "themes", "", "comma separated themes to render (default all)")
	flag.StringVar(&sets, "sets", "", "comma separated piece sets to render (default all)")
	flag.StringVar(&variants, "variants", strings.Join(cfg.Variants, ","), "comma separated variants to render")
	flag.StringVar(&cfg.Renderer, "renderer", cfg.Renderer, "set the SVG renderer (resvg or native)")
	flag.StringVar(&cfg.ResvgPath, "resvg", cfg.ResvgPath, "set the path of the resvg binary")
	flag.StringVar(&cfg.ResourcesDir, "resources", "", "set the resvg resources directory")
	flag.StringVar(&cfg.NumeralsDir, "numerals", "", "load numeral images 1.png to 8.png from this directory instead of drawing them")
	flag.Float64Var(&cfg.Zoom, "zoom", cfg.Zoom, "render at this scale before downsampling")
	flag.IntVar(&cfg.MaxColors, "colors", cfg.MaxColors, "set the maximum palette size")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "set the number of sprites rendered concurrently")
	flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "set the timeout of a single render")
	verbose := flag.Bool("v", false, "enable debug logging")

	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintln(out, "Usage: chessprite [options]")
		fmt.Fprintln(out, "")
		fmt.Fprintln(out, "chessprite renders a GIF sprite sheet for every board theme and piece set,")
		fmt.Fprintln(out, "plus a crazyhouse pocket sheet for every piece set.")
		fmt.Fprintln(out, "")
		fmt.Fprintln(out, "Environment:")
		fmt.Fprintf(out, "  %s, %s, %s, %s and %s provide defaults,\n",
			chessprite.EnvPieces, chessprite.EnvOutput, chessprite.EnvResvg,
			chessprite.EnvWorkers, chessprite.EnvRenderer)
		fmt.Fprintln(out, "  and may be set in a .env file.")
		fmt.Fprintln(out, "")
		fmt.Fprintln(out, "Options:")
		flag.PrintDefaults()
	}

	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if flag.NArg() > 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg.Themes = chessprite.SplitList(themes)
	cfg.Sets = chessprite.SplitList(sets)
	cfg.Variants = chessprite.SplitList(variants)

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.WithError(err).Fatal("failed to create output directory")
	}

	batch, err := cfg.NewBatch(log)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()

	summary, err := batch.Run(ctx)
	if err != nil {
		log.WithError(err).Fatal("batch aborted")
	}

	for _, f := range summary.Skipped {
		log.WithField("job", f.Job.Name()).WithError(f.Err).Error("skipped")
	}
	for _, f := range summary.Failed {
		log.WithField("job", f.Job.Name()).WithError(f.Err).Error("failed")
	}

	log.WithFields(logrus.Fields{
		"written":  len(summary.Written),
		"failed":   len(summary.Failed),
		"skipped":  len(summary.Skipped),
		"duration": time.Since(start).Round(time.Millisecond),
	}).Info("done")

	if !summary.OK() {
		os.Exit(1)
	}
}
