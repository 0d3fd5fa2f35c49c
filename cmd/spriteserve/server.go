package main

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"github.com/sirupsen/logrus"
	"github.com/tmpim/chessprite"
)

type catalogTheme struct {
	Name  string `json:"name"`
	Light string `json:"light"`
	Dark  string `json:"dark"`
}

type catalog struct {
	Themes   []catalogTheme `json:"themes"`
	Sets     []string       `json:"sets"`
	Variants []string       `json:"variants"`
}

func newCatalog() *catalog {
	c := &catalog{
		Sets:     chessprite.PieceSets,
		Variants: []string{chessprite.Standard.String(), chessprite.Crazyhouse.String()},
	}
	for _, t := range chessprite.Themes {
		c.Themes = append(c.Themes, catalogTheme{
			Name:  t.Name,
			Light: t.Light.Hex(),
			Dark:  t.Dark.Hex(),
		})
	}
	return c
}

func newServer(batch *chessprite.Batch, log logrus.FieldLogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	cat := newCatalog()

	e.GET("/catalog", func(c echo.Context) error {
		return c.JSON(http.StatusOK, cat)
	})

	e.GET("/sprites/:name", func(c echo.Context) error {
		name := c.Param("name")
		if !strings.HasSuffix(name, chessprite.SpriteExt) {
			return echo.NewHTTPError(http.StatusNotFound, "unknown sprite")
		}

		job, err := chessprite.ParseJob(strings.TrimSuffix(name, chessprite.SpriteExt))
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}

		sprite, err := batch.Render(c.Request().Context(), job)
		var loadErr *chessprite.LoadError
		var renderErr *chessprite.RenderError
		switch {
		case errors.As(err, &loadErr):
			log.WithField("job", job.Name()).WithError(err).Warn("piece set failed to load")
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		case errors.As(err, &renderErr):
			log.WithField("job", job.Name()).WithError(err).Warn("render failed")
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		case err != nil:
			return err
		}

		var buf bytes.Buffer
		if err := sprite.Encode(&buf); err != nil {
			return err
		}

		return c.Blob(http.StatusOK, "image/gif", buf.Bytes())
	})

	return e
}
