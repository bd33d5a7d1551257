package folio

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
)

// apiError is the error body of every /api/ response.
type apiError struct {
	StatusCode    int    `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
}

type collectionResponse struct {
	Collection string          `json:"collection"`
	Entries    []content.Entry `json:"entries"`
}

func (a *App) handleContentList(c echo.Context) error {
	name := c.Param("collection")
	if _, ok := content.Lookup(name); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Collection not found")
	}
	entries, err := a.Content.Entries(name)
	if err != nil {
		return err
	}
	out := make([]content.Entry, len(entries))
	for i, e := range entries {
		e.Body = ""
		out[i] = e
	}
	return c.JSON(http.StatusOK, collectionResponse{Collection: name, Entries: out})
}

func (a *App) handleContentEntry(c echo.Context) error {
	name := c.Param("collection")
	if _, ok := content.Lookup(name); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Collection not found")
	}
	entry, err := a.Content.Entry(name, c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Page not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, entry)
}

func (a *App) handleSitemap(c echo.Context) error {
	lib, err := a.Content.Library()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, lib)
}

func (a *App) handleFeed(c echo.Context) error {
	entries, err := a.Content.Entries("blog")
	if err != nil {
		return err
	}
	return a.renderRSS(c, entries)
}

func (a *App) handleRobots(c echo.Context) error {
	file := filepath.Join(a.Config.PublicDir, "robots.txt")
	if _, err := os.Stat(file); err == nil {
		return c.File(file)
	}
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s\n", fileURL(a.Config.URL, "sitemap.xml"))
	return c.String(http.StatusOK, body)
}

func isAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		he = echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}
	code := he.Code
	msg, ok := he.Message.(string)
	if !ok || msg == "" {
		msg = http.StatusText(code)
	}

	if code >= 500 {
		cause := err
		if he.Internal != nil {
			cause = he.Internal
		}
		c.Logger().Errorf("server error: %s %s -> %d: %v", c.Request().Method, c.Request().URL.Path, code, cause)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	if isAPIPath(c.Request().URL.Path) {
		_ = c.JSON(code, apiError{StatusCode: code, StatusMessage: msg})
		return
	}
	switch {
	case code == http.StatusNotFound:
		a.renderNotFound(c)
	case code >= 500:
		_ = RenderStatus(c, code, a.Views.ServerError())
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
	}
}

// renderNotFound serves the prebuilt 404 page, falling back to the templ view.
func (a *App) renderNotFound(c echo.Context) {
	if page, err := os.ReadFile(filepath.Join(a.Config.PublicDir, "404.html")); err == nil {
		_ = c.HTMLBlob(http.StatusNotFound, page)
		return
	}
	_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
}
