package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-directory/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps every directory error (unknown user, wrong password, existing
//     user) to 401 with the same message, so callers cannot tell them apart.
//   - Logs every error before responding; unexpected errors are logged with
//     their cause and rendered as a generic 500.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors and schema failures raised by handlers.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		log.Warn().
			Err(he.Internal).
			Int("status", he.Code).
			Str("path", c.Path()).
			Msg(msg)
		return he.Code, msg
	}

	var de *domain.DirectoryError
	if errors.As(err, &de) {
		log.Warn().
			Str("email", de.Email).
			Str("path", c.Path()).
			Msg(de.Error())
		return http.StatusUnauthorized, "invalid credentials"
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
