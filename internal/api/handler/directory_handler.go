package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-directory/internal/core/credentials"
	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

// DirectoryHandler exposes sign-up and log-in over form posts. Errors are
// returned to Echo and mapped to responses by the central error handler.
type DirectoryHandler struct {
	directory   ports.DirectoryService
	redirectURL string
}

func NewDirectoryHandler(directory ports.DirectoryService, redirectURL string) *DirectoryHandler {
	if redirectURL == "" {
		redirectURL = "/"
	}
	return &DirectoryHandler{directory: directory, redirectURL: redirectURL}
}

// SignUp registers a new user and redirects.
//
// @Summary      Register a new user
// @Tags         directory
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        email     formData  string  true  "Email address"
// @Param        password  formData  string  true  "Base64 encoded password"
// @Success      303
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/create-user [post]
func (h *DirectoryHandler) SignUp(c echo.Context) error {
	creds, err := bindCredentials(c)
	if err != nil {
		return err
	}

	if _, err := h.directory.SignUp(c.Request().Context(), creds); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, h.redirectURL)
}

// LogIn checks credentials and redirects. It does not issue a session.
//
// @Summary      Log in
// @Tags         directory
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        email     formData  string  true  "Email address"
// @Param        password  formData  string  true  "Base64 encoded password"
// @Success      303
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/log-in [post]
func (h *DirectoryHandler) LogIn(c echo.Context) error {
	creds, err := bindCredentials(c)
	if err != nil {
		return err
	}

	if _, err := h.directory.LogIn(c.Request().Context(), creds); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, h.redirectURL)
}

// bindCredentials parses and validates the form before anything downstream
// sees it, then decodes the password.
func bindCredentials(c echo.Context) (domain.Credentials, error) {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return domain.Credentials{}, echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials: malformed form body").SetInternal(err)
	}
	if err := c.Validate(&req); err != nil {
		return domain.Credentials{}, echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials: "+err.Error())
	}
	return credentials.FromTransport(req.transport()), nil
}
