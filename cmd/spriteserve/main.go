package main

import (
	"flag"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/tmpim/chessprite"
)

func main() {
	_ = godotenv.Load()

	cfg := chessprite.DefaultConfig()

	addr := flag.String("addr", ":9999", "set the listen address")
	flag.StringVar(&cfg.PiecesDir, "pieces", cfg.PiecesDir, "set the piece set directory ({set}/{code}.svg)")
	flag.StringVar(&cfg.Renderer, "renderer", cfg.Renderer, "set the SVG renderer (resvg or native)")
	flag.StringVar(&cfg.ResvgPath, "resvg", cfg.ResvgPath, "set the path of the resvg binary")
	flag.StringVar(&cfg.ResourcesDir, "resources", "", "set the resvg resources directory")
	flag.StringVar(&cfg.NumeralsDir, "numerals", "", "load numeral images from this directory instead of drawing them")
	flag.Float64Var(&cfg.Zoom, "zoom", cfg.Zoom, "render at this scale before downsampling")
	flag.IntVar(&cfg.MaxColors, "colors", cfg.MaxColors, "set the maximum palette size")
	flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "set the timeout of a single render")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	batch, err := cfg.NewBatch(log)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	e := newServer(batch, log)
	log.WithField("addr", *addr).Info("spriteserve: listening")
	log.Fatal(e.Start(*addr))
}
