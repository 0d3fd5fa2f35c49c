// Package raster provides renderers turning SVG documents into PNG bitmaps.
package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

// Resvg renders through the resvg command line tool.
type Resvg struct {
	// Path of the resvg binary; "resvg" is looked up in PATH when empty.
	Path string
	// ResourcesDir resolves relative references inside the document.
	ResourcesDir string
}

func (r *Resvg) args(zoom float64) []string {
	var args []string
	if r.ResourcesDir != "" {
		args = append(args, "--resources-dir", r.ResourcesDir)
	}
	if zoom != 1 {
		args = append(args, "--zoom", strconv.FormatFloat(zoom, 'f', -1, 64))
	}
	// read the document from stdin, write PNG to stdout
	return append(args, "-", "-c")
}

// Render runs resvg once with svg on stdin and returns its PNG output. The
// process is killed when ctx is done.
func (r *Resvg) Render(ctx context.Context, svg []byte, zoom float64) ([]byte, error) {
	if zoom <= 0 {
		return nil, fmt.Errorf("resvg: bad zoom %v", zoom)
	}

	path := r.Path
	if path == "" {
		path = "resvg"
	}

	cmd := exec.CommandContext(ctx, path, r.args(zoom)...)
	cmd.Stdin = bytes.NewReader(svg)

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if stderr.Len() == 0 {
			return nil, fmt.Errorf("resvg: %w", err)
		}
		return nil, fmt.Errorf("resvg: %w; output: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}

	if stdout.Len() == 0 {
		return nil, errors.New("resvg: empty output")
	}

	return stdout.Bytes(), nil
}
