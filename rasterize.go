package chessprite

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"time"

	"github.com/disintegration/gift"
	"github.com/sirupsen/logrus"
)

// Renderer turns an SVG document into a PNG bitmap scaled by zoom.
type Renderer interface {
	Render(ctx context.Context, svg []byte, zoom float64) ([]byte, error)
}

// DefaultRenderTimeout bounds a single renderer call.
const DefaultRenderTimeout = 30 * time.Second

// Rasterizer submits scenes to a renderer. Scenes are rendered at Zoom times
// their size and scaled back down, which smooths piece edges.
type Rasterizer struct {
	Renderer Renderer
	Zoom     float64
	Timeout  time.Duration
	Log      logrus.FieldLogger
}

func (r *Rasterizer) validate() error {
	if r.Renderer == nil {
		return errors.New("chessprite: Rasterizer: renderer must be specified")
	}
	if r.Zoom < 0 {
		return errors.New("chessprite: Rasterizer: zoom cannot be negative")
	}
	if r.Timeout < 0 {
		return errors.New("chessprite: Rasterizer: timeout cannot be negative")
	}
	return nil
}

// Submit renders the scene and returns a bitmap of exactly the scene's size.
// Every failure is reported as a *RenderError.
func (r *Rasterizer) Submit(ctx context.Context, scene *Scene) (image.Image, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	zoom := r.Zoom
	if zoom == 0 {
		zoom = 1
	}
	timeout := r.Timeout
	if timeout == 0 {
		timeout = DefaultRenderTimeout
	}
	log := r.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	fail := func(err error) (image.Image, error) {
		return nil, &RenderError{Scene: scene.Name, Err: err}
	}

	svg, err := scene.MarshalSVG()
	if err != nil {
		return fail(err)
	}

	renderCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	data, err := r.Renderer.Render(renderCtx, svg, zoom)
	if err != nil {
		if errors.Is(renderCtx.Err(), context.DeadlineExceeded) {
			return fail(fmt.Errorf("timed out after %v: %w", timeout, err))
		}
		return fail(err)
	}
	log.WithFields(logrus.Fields{
		"scene":    scene.Name,
		"svg":      len(svg),
		"png":      len(data),
		"duration": time.Since(start),
	}).Debug("scene rendered")

	if len(data) == 0 {
		return fail(errors.New("renderer returned no data"))
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return fail(fmt.Errorf("decode bitmap: %w", err))
	}

	size := scene.Size()
	want := image.Pt(int(math.Round(float64(size.X)*zoom)), int(math.Round(float64(size.Y)*zoom)))
	if got := img.Bounds().Size(); got != want {
		return fail(fmt.Errorf("bitmap is %v, want %v", got, want))
	}

	if want == size {
		return img, nil
	}

	filter := gift.New(gift.Resize(size.X, size.Y, gift.LanczosResampling))
	dst := image.NewNRGBA(filter.Bounds(img.Bounds()))
	filter.Draw(dst, img)

	return dst, nil
}
