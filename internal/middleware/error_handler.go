package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"gymdesk/internal/membership"
	"gymdesk/internal/session"
	"gymdesk/internal/store"
)

// CustomErrorHandler creates the JSON error handler for Echo. Domain
// errors keep their kind on the way out so callers can tell a missing
// record from a stale write from a backend outage.
func CustomErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Something went wrong. Please try again later."

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		code = he.Code
		if msg, ok := he.Message.(string); ok && msg != "" {
			message = msg
		}
	case errors.Is(err, store.ErrNotFound):
		code = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, store.ErrStaleWrite):
		code = http.StatusConflict
		message = err.Error()
	case errors.Is(err, store.ErrUnavailable):
		code = http.StatusServiceUnavailable
		message = err.Error()
	case errors.Is(err, membership.ErrInvalidDate), errors.Is(err, membership.ErrInvalidPlan):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, session.ErrUnauthenticated):
		code = http.StatusUnauthorized
		message = err.Error()
	}

	c.Logger().Error(err)

	if c.Response().Committed {
		return
	}

	resp := map[string]interface{}{
		"error": message,
		"code":  code,
	}
	if jsonErr := c.JSON(code, resp); jsonErr != nil {
		c.Logger().Error(jsonErr)
	}
}
