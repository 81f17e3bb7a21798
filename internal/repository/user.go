package repository

import (
	"context"

	"mentorlink/internal/model"
)

// UserRepository defines data access for user accounts.
type UserRepository interface {
	// Create inserts a new user record. Returns ErrDuplicate when the email
	// is already taken.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByID returns a user by ID.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail returns a user by email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// UpdateRole changes a user's role. Returns sql.ErrNoRows when the user
	// does not exist.
	UpdateRole(ctx context.Context, id string, role model.Role) error

	// List returns a page of users, optionally restricted to one role.
	List(ctx context.Context, role string, pq PageQuery) (*PageResult[model.User], error)
}
