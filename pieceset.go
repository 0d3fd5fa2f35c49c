package chessprite

import (
	"bytes"
	"errors"
	"io/fs"
	"path"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// PieceSet is the namespaced definitions of all 12 pieces of a set. It is
// read-only once loaded.
type PieceSet struct {
	Name string
	defs ByPiece[*PieceDef]
}

// Def returns the definition of p.
func (s *PieceSet) Def(p Piece) *PieceDef {
	return s.defs.Get(p)
}

type loadResult struct {
	set *PieceSet
	err error
}

// Loader loads piece sets from a directory tree laid out as
// {set}/{code}.svg, and memoizes the result of every set it was asked for.
// It is safe for concurrent use; concurrent first requests for a set share a
// single parse.
type Loader struct {
	fsys fs.FS
	size int
	log  logrus.FieldLogger

	group  singleflight.Group
	mu     sync.RWMutex
	sets   map[string]loadResult
	parses atomic.Int64
}

// NewLoader returns a loader reading piece files from fsys. A nil logger
// uses the logrus standard logger.
func NewLoader(fsys fs.FS, log logrus.FieldLogger) *Loader {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Loader{
		fsys: fsys,
		size: SquareSize,
		log:  log,
		sets: make(map[string]loadResult),
	}
}

func (l *Loader) cached(name string) (loadResult, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.sets[name]
	return r, ok
}

// Load returns the piece set with the given name. Failures are returned as
// *LoadError and are memoized like successes.
func (l *Loader) Load(name string) (*PieceSet, error) {
	if r, ok := l.cached(name); ok {
		return r.set, r.err
	}

	v, _, _ := l.group.Do(name, func() (interface{}, error) {
		// a previous flight may have finished between the check above and Do
		if r, ok := l.cached(name); ok {
			return r, nil
		}

		set, err := l.parse(name)
		r := loadResult{set: set}
		if err != nil {
			r.err = err
		}

		l.mu.Lock()
		l.sets[name] = r
		l.mu.Unlock()

		return r, nil
	})

	r := v.(loadResult)
	return r.set, r.err
}

// Parses returns how many piece sets have actually been parsed.
func (l *Loader) Parses() int64 {
	return l.parses.Load()
}

func (l *Loader) parse(name string) (*PieceSet, *LoadError) {
	l.parses.Add(1)
	log := l.log.WithField("set", name)
	log.Debug("parsing piece set")

	if name == "" || !fs.ValidPath(name) || path.Base(name) != name {
		return nil, &LoadError{Set: name, Err: errors.New("invalid piece set name")}
	}

	set := &PieceSet{Name: name}
	for _, p := range AllPieces {
		data, err := fs.ReadFile(l.fsys, path.Join(name, p.Code()+".svg"))
		if err != nil {
			return nil, &LoadError{Set: name, Piece: p.Code(), Err: err}
		}

		def, err := namespacePiece(bytes.NewReader(data), p, l.size)
		if err != nil {
			return nil, &LoadError{Set: name, Piece: p.Code(), Err: err}
		}

		set.defs.Set(p, def)
	}

	log.WithField("pieces", NumPieces).Debug("piece set parsed")
	return set, nil
}
