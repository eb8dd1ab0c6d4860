package wishwall

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequestError carries an HTTP status and a caller-facing message. Handlers
// return it for every expected failure; the central error handler turns it
// into a JSON {"error": ...} payload on /api/ paths.
type RequestError struct {
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *RequestError) Unwrap() error { return e.Err }

func errBadRequest(msg string) *RequestError {
	return &RequestError{Status: http.StatusBadRequest, Message: msg}
}

func errUnauthorized(msg string) *RequestError {
	return &RequestError{Status: http.StatusUnauthorized, Message: msg}
}

func errForbidden(msg string) *RequestError {
	return &RequestError{Status: http.StatusForbidden, Message: msg}
}

func errPageNotFound() *RequestError {
	return &RequestError{Status: http.StatusNotFound, Message: "Birthday page not found"}
}

func errGreetingNotFound() *RequestError {
	return &RequestError{Status: http.StatusNotFound, Message: "Greeting not found"}
}

func errInternal(msg string, err error) *RequestError {
	return &RequestError{Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// httpErrorHandler renders JSON errors for API routes and the styled
// 404/500 pages everywhere else.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := "Internal server error"

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		status = reqErr.Status
		msg = reqErr.Message
	} else if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		}
	}
	if status >= 500 {
		a.log.Error("server error", "method", c.Request().Method, "path", c.Request().URL.Path, "err", err)
	}

	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		_ = c.JSON(status, map[string]string{"error": msg})
		return
	}
	switch {
	case status == http.StatusNotFound:
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	case status >= 500:
		_ = RenderStatus(c, status, a.Views.ServerError())
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
	}
}
