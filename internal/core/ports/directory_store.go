package ports

import (
	"context"

	"github.com/99minutos/user-directory/internal/core/domain"
)

// DirectoryStore is the remote table backing the user directory.
type DirectoryStore interface {
	// FetchAll reads every row, projected to email, password hash and
	// creation timestamp.
	FetchAll(ctx context.Context) ([]domain.UserRecord, error)
	// Create inserts one row and returns it as stored.
	Create(ctx context.Context, record domain.UserRecord) (*domain.UserRecord, error)
}
