package driving

import (
	"context"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
)

// UserService manages local accounts
type UserService interface {
	// Register creates a new account; ErrAlreadyExists when the email is taken
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)

	// Get retrieves a user by ID
	Get(ctx context.Context, id string) (*domain.User, error)
}
