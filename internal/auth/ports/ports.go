package ports

import (
	"context"

	"farmstand/internal/auth/domain"
	"farmstand/pkg/pagination"
)

// ListFilter narrows a user listing
type ListFilter struct {
	Role   string
	Active *bool
	Page   pagination.Params
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uint) (*domain.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update updates an existing user
	Update(ctx context.Context, user *domain.User) error

	// List retrieves users matching the filter, newest first, with the total count
	List(ctx context.Context, filter ListFilter) ([]*domain.User, int64, error)
}

// TokenIssuer defines the interface for issuing bearer tokens
type TokenIssuer interface {
	// Generate issues a signed token for a user
	Generate(userID uint, role string) (string, error)
}
