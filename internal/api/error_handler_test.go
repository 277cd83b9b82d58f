package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-directory/internal/core/domain"
)

func TestResolveError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"user exists", domain.UserExists("a@x.com"), http.StatusUnauthorized, "invalid credentials"},
		{"user not found", domain.UserNotFound("a@x.com"), http.StatusUnauthorized, "invalid credentials"},
		{"incorrect password", domain.IncorrectPassword("a@x.com"), http.StatusUnauthorized, "invalid credentials"},
		{"wrapped directory error", pkgerrors.Wrap(domain.UserExists("a@x.com"), "create directory record"), http.StatusUnauthorized, "invalid credentials"},
		{"schema", echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials: email is required"), http.StatusUnauthorized, "Invalid credentials: email is required"},
		{"remote fault", errors.New("dial tcp: timeout"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/create-user", nil), httptest.NewRecorder())

			code, msg := resolveError(tc.err, zerolog.Nop(), c)
			if code != tc.code || msg != tc.msg {
				t.Fatalf("got %d %q, want %d %q", code, msg, tc.code, tc.msg)
			}
		})
	}
}
