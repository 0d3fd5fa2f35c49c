package chessprite

import "fmt"

// LoadError is returned when a piece set cannot be loaded. Every job that
// uses the set is skipped.
type LoadError struct {
	Set   string
	Piece string
	Err   error
}

func (e *LoadError) Error() string {
	if e.Piece == "" {
		return fmt.Sprintf("chessprite: load piece set %q: %v", e.Set, e.Err)
	}
	return fmt.Sprintf("chessprite: load piece set %q: %s: %v", e.Set, e.Piece, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// RenderError is returned when a scene could not be rasterized. It only
// fails the job the scene belongs to.
type RenderError struct {
	Scene string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("chessprite: render %s: %v", e.Scene, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
