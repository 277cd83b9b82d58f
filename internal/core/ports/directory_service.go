package ports

import (
	"context"

	"github.com/99minutos/user-directory/internal/core/domain"
)

type DirectoryService interface {
	LogIn(ctx context.Context, creds domain.Credentials) (*domain.UserRecord, error)
	SignUp(ctx context.Context, creds domain.Credentials) (*domain.UserRecord, error)
}
