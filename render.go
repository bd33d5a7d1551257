package folio

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ErrorViews holds the templ components rendered for pages the prebuilt
// site does not provide.
type ErrorViews struct {
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

func defaultErrorViews(siteName string) ErrorViews {
	return ErrorViews{
		NotFound: func() templ.Component {
			return errorPage(siteName, "Page not found", "The page you are looking for does not exist.")
		},
		ServerError: func() templ.Component {
			return errorPage(siteName, "Something went wrong", "Please try again later.")
		},
	}
}

func errorPage(siteName, title, detail string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!doctype html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+templ.EscapeString(title+" | "+siteName)+`</title></head>`+
			`<body><main><h1>`+templ.EscapeString(title)+`</h1><p>`+templ.EscapeString(detail)+
			`</p><p><a href="/">Back to home</a></p></main></body></html>`)
		return err
	})
}
