package handler

import "github.com/99minutos/user-directory/internal/core/domain"

// credentialsRequest is the form body of the sign-up and log-in routes. The
// password arrives transport-encoded.
type credentialsRequest struct {
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required,transport_encoded"`
}

func (r credentialsRequest) transport() domain.TransportCredentials {
	return domain.TransportCredentials{Email: r.Email, EncodedPassword: r.Password}
}

type errorResponse struct {
	Error string `json:"error"`
}
