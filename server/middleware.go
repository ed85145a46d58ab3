package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RequestRecorder observes served requests
type RequestRecorder interface {
	RecordRequest(route, method string, status int, latency time.Duration)
}

// Recover returns recovery middleware.
func Recover(l zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					perr, ok := r.(error)
					if !ok {
						perr = fmt.Errorf("%v", r)
					}
					l.Error().Err(perr).Bytes("stack", debug.Stack()).Msg("panic recovered")
					err = c.JSON(http.StatusInternalServerError, APIResponse{
						Status:  http.StatusInternalServerError,
						Message: http.StatusText(http.StatusInternalServerError),
					})
				}
			}()
			return next(c)
		}
	}
}

// RequestLogging logs every request and records it when a recorder is set. Errors returned by
// handlers are resolved first so the logged status is the one sent to the client.
func RequestLogging(l zerolog.Logger, rec RequestRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			latency := time.Since(start)
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			event := l.Info()
			if res.Status >= http.StatusInternalServerError {
				event = l.Error().Err(err)
			}
			event.Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("route", route).
				Int("status", res.Status).
				Int64("bytes", res.Size).
				Dur("latency", latency).
				Msg("http request")

			if rec != nil {
				rec.RecordRequest(route, req.Method, res.Status, latency)
			}
			return nil
		}
	}
}
