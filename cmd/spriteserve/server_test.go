package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/gif"
	"image/png"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"testing"
	"testing/fstest"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmpim/chessprite"
)

var rootSize = regexp.MustCompile(`width="(\d+)" height="(\d+)"`)

// blankRenderer returns a transparent bitmap of the document's size.
type blankRenderer struct {
	err error
}

func (b blankRenderer) Render(ctx context.Context, svg []byte, zoom float64) ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}

	m := rootSize.FindSubmatch(svg)
	if m == nil {
		return nil, errors.New("no size")
	}
	w, _ := strconv.Atoi(string(m[1]))
	h, _ := strconv.Atoi(string(m[2]))

	var buf bytes.Buffer
	err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, int(float64(w)*zoom), int(float64(h)*zoom))))
	return buf.Bytes(), err
}

func testServer(t *testing.T, renderer chessprite.Renderer) http.Handler {
	t.Helper()

	fsys := make(fstest.MapFS)
	for _, p := range chessprite.AllPieces {
		fsys["cburnett/"+p.Code()+".svg"] = &fstest.MapFile{
			Data: []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="45" height="45"><path class="a" d="M0 0 L45 45"/></svg>`),
		}
	}

	numerals, err := chessprite.DrawNumerals(chessprite.DefaultNumeralSize)
	require.NoError(t, err)

	log, _ := test.NewNullLogger()
	batch := &chessprite.Batch{
		Loader:     chessprite.NewLoader(fsys, log),
		Crazyhouse: chessprite.CrazyhouseLayout{Numerals: numerals},
		Rasterizer: &chessprite.Rasterizer{Renderer: renderer, Zoom: 1, Log: log},
		Options:    chessprite.DefaultOptions(t.TempDir()),
	}

	return newServer(batch, log)
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestCatalog(t *testing.T) {
	rec := get(testServer(t, blankRenderer{}), "/catalog")
	require.Equal(t, http.StatusOK, rec.Code)

	var cat catalog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cat))
	assert.Len(t, cat.Themes, len(chessprite.Themes))
	assert.Equal(t, catalogTheme{Name: "blue", Light: "#dee3e6", Dark: "#8ca2ad"}, cat.Themes[0])
	assert.Equal(t, chessprite.PieceSets, cat.Sets)
	assert.Equal(t, []string{"standard", "crazyhouse"}, cat.Variants)
}

func TestSprite(t *testing.T) {
	h := testServer(t, blankRenderer{})

	for path, size := range map[string]image.Point{
		"/sprites/brown-cburnett.gif":      image.Pt(720, 720),
		"/sprites/crazyhouse-cburnett.gif": image.Pt(720, 810),
	} {
		rec := get(h, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "image/gif", rec.Header().Get("Content-Type"))

		cfg, err := gif.DecodeConfig(rec.Body)
		require.NoError(t, err)
		assert.Equal(t, size, image.Pt(cfg.Width, cfg.Height), path)
	}
}

func TestSpriteErrors(t *testing.T) {
	h := testServer(t, blankRenderer{})

	assert.Equal(t, http.StatusNotFound, get(h, "/sprites/orange-cburnett.gif").Code)
	assert.Equal(t, http.StatusNotFound, get(h, "/sprites/brown-cburnett.png").Code)
	assert.Equal(t, http.StatusNotFound, get(h, "/sprites/brown-nope.gif").Code)

	// staunty is in the catalog but has no files
	assert.Equal(t, http.StatusUnprocessableEntity, get(h, "/sprites/brown-staunty.gif").Code)

	failing := testServer(t, blankRenderer{err: errors.New("resvg: exit status 1")})
	assert.Equal(t, http.StatusBadGateway, get(failing, "/sprites/brown-cburnett.gif").Code)
}
