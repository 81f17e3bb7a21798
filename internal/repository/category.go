package repository

import (
	"context"

	"mentorlink/internal/model"
)

// CategoryRepository defines data access for document categories.
type CategoryRepository interface {
	// Create inserts a new category. Returns ErrDuplicate when the name is taken.
	Create(ctx context.Context, c *model.Category) (*model.Category, error)

	// FindByID returns a category by ID.
	FindByID(ctx context.Context, id string) (*model.Category, error)

	// List returns all categories ordered by name.
	List(ctx context.Context) ([]model.Category, error)

	// Update changes a category's name and description.
	// Returns sql.ErrNoRows when the row does not exist.
	Update(ctx context.Context, c *model.Category) error

	// Delete removes a category by ID. Documents referencing it fall back to
	// no category via the schema's ON DELETE SET NULL.
	Delete(ctx context.Context, id string) error
}
