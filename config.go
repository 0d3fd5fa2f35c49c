package chessprite

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tmpim/chessprite/raster"
)

// Environment variables providing configuration defaults.
const (
	EnvPieces   = "CHESSPRITE_PIECES"
	EnvOutput   = "CHESSPRITE_OUTPUT"
	EnvResvg    = "CHESSPRITE_RESVG"
	EnvWorkers  = "CHESSPRITE_WORKERS"
	EnvRenderer = "CHESSPRITE_RENDERER"
)

// Config is the user facing configuration of a batch, as read from the
// command line and the environment.
type Config struct {
	PiecesDir    string
	OutputDir    string
	NumeralsDir  string
	Renderer     string
	ResvgPath    string
	ResourcesDir string

	Themes   []string
	Sets     []string
	Variants []string

	Zoom      float64
	Timeout   time.Duration
	Workers   int
	MaxColors int
}

// DefaultConfig returns the defaults, overridden by the environment.
func DefaultConfig() Config {
	c := Config{
		PiecesDir: "piece",
		OutputDir: "sprites",
		Renderer:  "resvg",
		ResvgPath: "resvg",
		Variants:  []string{Standard.String(), Crazyhouse.String()},
		Zoom:      2,
		Timeout:   DefaultRenderTimeout,
		Workers:   1,
		MaxColors: DefaultMaxColors,
	}

	if v := os.Getenv(EnvPieces); v != "" {
		c.PiecesDir = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvResvg); v != "" {
		c.ResvgPath = v
	}
	if v := os.Getenv(EnvRenderer); v != "" {
		c.Renderer = v
	}
	if v, err := strconv.Atoi(os.Getenv(EnvWorkers)); err == nil && v > 0 {
		c.Workers = v
	}

	return c
}

// SplitList splits a comma separated flag value, dropping empty items.
func SplitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// NewRenderer returns the renderer named by the configuration.
func (c *Config) NewRenderer() (Renderer, error) {
	switch c.Renderer {
	case "resvg":
		return &raster.Resvg{Path: c.ResvgPath, ResourcesDir: c.ResourcesDir}, nil
	case "native":
		return raster.Native{}, nil
	}
	return nil, fmt.Errorf("chessprite: unknown renderer %q", c.Renderer)
}

// NewBatch builds a batch from the configuration. Theme and set names are
// checked against the catalogs; empty lists select the whole catalog.
func (c *Config) NewBatch(log logrus.FieldLogger) (*Batch, error) {
	if c.PiecesDir == "" {
		return nil, errors.New("chessprite: piece directory must be specified")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	themes := Themes
	if len(c.Themes) > 0 {
		themes = nil
		for _, name := range c.Themes {
			theme, ok := ThemeByName(name)
			if !ok {
				return nil, fmt.Errorf("chessprite: unknown theme %q", name)
			}
			themes = append(themes, theme)
		}
	}

	sets := PieceSets
	if len(c.Sets) > 0 {
		for _, name := range c.Sets {
			if !IsPieceSet(name) {
				return nil, fmt.Errorf("chessprite: unknown piece set %q", name)
			}
		}
		sets = c.Sets
	}

	var variants []Variant
	for _, name := range c.Variants {
		v, err := ParseVariant(name)
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}

	renderer, err := c.NewRenderer()
	if err != nil {
		return nil, err
	}

	var numerals *Numerals
	if c.NumeralsDir != "" {
		numerals, err = LoadNumerals(os.DirFS(c.NumeralsDir))
	} else {
		numerals, err = DrawNumerals(DefaultNumeralSize)
	}
	if err != nil {
		return nil, err
	}

	return &Batch{
		Loader:     NewLoader(os.DirFS(c.PiecesDir), log),
		Crazyhouse: CrazyhouseLayout{Numerals: numerals},
		Rasterizer: &Rasterizer{
			Renderer: renderer,
			Zoom:     c.Zoom,
			Timeout:  c.Timeout,
			Log:      log,
		},
		Options: Options{
			Themes:    themes,
			PieceSets: sets,
			Variants:  variants,
			OutputDir: c.OutputDir,
			Workers:   c.Workers,
			MaxColors: c.MaxColors,
			Log:       log,
		},
	}, nil
}
