// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/avtokontrol/avtokontrol/internal/model"
)

// UserRepository provides access to accounts and their profiles.
type UserRepository interface {
	// Create inserts a new user together with its profile row in one transaction.
	Create(ctx context.Context, u *model.User, p *model.Profile) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail loads a user by email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// GetProfile loads the profile for a user ID.
	GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	// UpdateProfile rewrites mutable profile fields.
	UpdateProfile(ctx context.Context, p *model.Profile) error
}
