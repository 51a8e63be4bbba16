package common

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HTTPErrorHandler renders every error as {"detail": ...}. Errors that are
// not *echo.HTTPError are logged and hidden behind a 500.
func HTTPErrorHandler(loggerInstance *zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !errors.As(err, &he) {
			loggerInstance.Err(err).
				Str("method", c.Request().Method).
				Str("URI", c.Request().RequestURI).
				Msg("unhandled error")
			he = echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		} else if he.Internal != nil {
			loggerInstance.Debug().Err(he.Internal).Int("status", he.Code).Msg("request failed")
		}

		detail := he.Message
		if detail == nil {
			detail = http.StatusText(he.Code)
		}

		var renderErr error
		if c.Request().Method == http.MethodHead {
			renderErr = c.NoContent(he.Code)
		} else {
			renderErr = c.JSON(he.Code, map[string]interface{}{"detail": detail})
		}
		if renderErr != nil {
			loggerInstance.Err(renderErr).Msg("unable to render error response")
		}
	}
}
