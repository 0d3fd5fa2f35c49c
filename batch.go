package chessprite

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Variant is the kind of sprite sheet a job produces.
type Variant uint8

// Possible variants.
const (
	Standard Variant = iota
	Crazyhouse
)

func (v Variant) String() string {
	if v == Crazyhouse {
		return "crazyhouse"
	}
	return "standard"
}

// ParseVariant parses the name returned by Variant.String.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "standard":
		return Standard, nil
	case "crazyhouse":
		return Crazyhouse, nil
	}
	return 0, fmt.Errorf("chessprite: unknown variant %q", s)
}

// SpriteExt is the extension of written sprites.
const SpriteExt = ".gif"

// Job is one sprite sheet to produce.
type Job struct {
	Variant Variant
	// Theme is unused by crazyhouse jobs.
	Theme Theme
	Set   string
}

// Name returns the base name of the job's output, e.g. "brown-cburnett".
func (j Job) Name() string {
	if j.Variant == Crazyhouse {
		return "crazyhouse-" + j.Set
	}
	return j.Theme.Name + "-" + j.Set
}

// FileName returns the output file name of the job.
func (j Job) FileName() string {
	return j.Name() + SpriteExt
}

func (j Job) fields() logrus.Fields {
	f := logrus.Fields{
		"job":     j.Name(),
		"set":     j.Set,
		"variant": j.Variant.String(),
	}
	if j.Variant == Standard {
		f["theme"] = j.Theme.Name
	}
	return f
}

// ParseJob parses an output name such as "brown-cburnett" or
// "crazyhouse-staunty" back into a job. Theme and set must be in the
// catalogs.
func ParseJob(name string) (Job, error) {
	for i := 0; i < len(name); i++ {
		if name[i] != '-' {
			continue
		}

		prefix, set := name[:i], name[i+1:]
		if !IsPieceSet(set) {
			continue
		}
		if prefix == "crazyhouse" {
			return Job{Variant: Crazyhouse, Set: set}, nil
		}
		if theme, ok := ThemeByName(prefix); ok {
			return Job{Variant: Standard, Theme: theme, Set: set}, nil
		}
	}
	return Job{}, fmt.Errorf("chessprite: unknown sprite %q", name)
}

// Jobs returns every job of the catalogs given, grouped by piece set: the
// standard sheets of each theme, then the crazyhouse sheet.
func Jobs(themes []Theme, sets []string, variants []Variant) []Job {
	var standard, crazyhouse bool
	for _, v := range variants {
		standard = standard || v == Standard
		crazyhouse = crazyhouse || v == Crazyhouse
	}

	var jobs []Job
	for _, set := range sets {
		if standard {
			for _, theme := range themes {
				jobs = append(jobs, Job{Variant: Standard, Theme: theme, Set: set})
			}
		}
		if crazyhouse {
			jobs = append(jobs, Job{Variant: Crazyhouse, Set: set})
		}
	}
	return jobs
}

// Options configures a batch.
type Options struct {
	Themes    []Theme
	PieceSets []string
	Variants  []Variant

	OutputDir string
	Workers   int
	MaxColors int

	Log logrus.FieldLogger
}

// DefaultOptions renders every catalog entry sequentially into dir.
func DefaultOptions(dir string) Options {
	return Options{
		Themes:    Themes,
		PieceSets: PieceSets,
		Variants:  []Variant{Standard, Crazyhouse},
		OutputDir: dir,
		Workers:   1,
		MaxColors: DefaultMaxColors,
	}
}

func (o *Options) validate() error {
	if o.OutputDir == "" {
		return errors.New("chessprite: Batch: output directory must be specified")
	}
	if o.Workers < 1 {
		return errors.New("chessprite: Batch: workers must be at least 1")
	}
	if o.MaxColors < 2 || o.MaxColors > 256 {
		return errors.New("chessprite: Batch: max colors must be within 2 and 256")
	}
	if len(o.Variants) == 0 {
		return errors.New("chessprite: Batch: at least one variant must be specified")
	}
	return nil
}

// Failure is a job that did not produce output.
type Failure struct {
	Job Job
	Err error
}

// Summary reports the outcome of a batch, in job order.
type Summary struct {
	Written []string
	// Failed jobs hit a RenderError.
	Failed []Failure
	// Skipped jobs depend on a piece set that failed to load.
	Skipped []Failure
}

// OK reports whether every job succeeded.
func (s *Summary) OK() bool {
	return len(s.Failed) == 0 && len(s.Skipped) == 0
}

// Batch renders sprite sheets for the cartesian product of themes, piece
// sets and variants.
type Batch struct {
	Loader     *Loader
	Board      BoardLayout
	Crazyhouse CrazyhouseLayout
	Rasterizer *Rasterizer
	Options    Options
}

// Render produces the sprite of a single job without writing it.
func (b *Batch) Render(ctx context.Context, job Job) (*Sprite, error) {
	set, err := b.Loader.Load(job.Set)
	if err != nil {
		return nil, err
	}

	var scene *Scene
	switch job.Variant {
	case Standard:
		scene, err = b.Board.Compose(job.Theme, set)
	case Crazyhouse:
		scene, err = b.Crazyhouse.Compose(set)
	default:
		err = fmt.Errorf("chessprite: Render: unknown variant %d", job.Variant)
	}
	if err != nil {
		return nil, err
	}

	img, err := b.Rasterizer.Submit(ctx, scene)
	if err != nil {
		return nil, err
	}

	maxColors := b.Options.MaxColors
	if maxColors == 0 {
		maxColors = DefaultMaxColors
	}
	return Quantize(img, maxColors)
}

type jobResult struct {
	index int
	job   Job
	err   error
}

// Run renders and writes every job. Load and render failures are collected
// in the summary; any other error stops the batch and is returned.
func (b *Batch) Run(ctx context.Context) (*Summary, error) {
	if err := b.Options.validate(); err != nil {
		return nil, err
	}
	if b.Loader == nil || b.Rasterizer == nil {
		return nil, errors.New("chessprite: Batch: loader and rasterizer must be specified")
	}

	log := b.Options.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	jobs := Jobs(b.Options.Themes, b.Options.PieceSets, b.Options.Variants)
	log.WithField("jobs", len(jobs)).Info("starting batch")

	var mu sync.Mutex
	var results []jobResult
	var written []jobResult

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.Options.Workers)

	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			jobLog := log.WithFields(job.fields())

			err := b.runJob(gctx, job)

			var loadErr *LoadError
			var renderErr *RenderError
			switch {
			case err == nil:
				jobLog.Info("sprite written")
				mu.Lock()
				written = append(written, jobResult{index: i, job: job})
				mu.Unlock()
				return nil
			case errors.As(err, &loadErr):
				jobLog.WithError(err).Warn("piece set failed to load, skipping")
			case errors.As(err, &renderErr):
				jobLog.WithError(err).Warn("render failed, skipping")
			default:
				jobLog.WithError(err).Error("job failed")
				return err
			}

			mu.Lock()
			results = append(results, jobResult{index: i, job: job, err: err})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(written, func(i, j int) bool { return written[i].index < written[j].index })
	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })

	summary := new(Summary)
	for _, r := range written {
		summary.Written = append(summary.Written, r.job.FileName())
	}
	for _, r := range results {
		var loadErr *LoadError
		if errors.As(r.err, &loadErr) {
			summary.Skipped = append(summary.Skipped, Failure{Job: r.job, Err: r.err})
		} else {
			summary.Failed = append(summary.Failed, Failure{Job: r.job, Err: r.err})
		}
	}

	log.WithFields(logrus.Fields{
		"written": len(summary.Written),
		"failed":  len(summary.Failed),
		"skipped": len(summary.Skipped),
	}).Info("batch finished")

	return summary, nil
}

func (b *Batch) runJob(ctx context.Context, job Job) error {
	sprite, err := b.Render(ctx, job)
	if err != nil {
		return err
	}
	return WriteSprite(b.Options.OutputDir, job.FileName(), sprite)
}
