package folio

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/contact"
)

func (a *App) handleContact(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest).SetInternal(err)
	}

	res, err := a.Contact.Submit(c.Request().Context(), body)
	if err != nil {
		var cerr *contact.Error
		if errors.As(err, &cerr) {
			return echo.NewHTTPError(cerr.Status, cerr.Message).SetInternal(cerr)
		}
		return err
	}
	if res.Outcome == contact.OutcomeShadowBlocked {
		c.Logger().Warnf("contact: shadow blocked submission from %s", c.RealIP())
	}
	return c.JSON(http.StatusOK, res)
}
