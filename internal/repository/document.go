package repository

import (
	"context"
	"time"

	"mentorlink/internal/model"
)

// DocumentFilter narrows document listings. Zero values mean no restriction.
// Search matches the file name case-insensitively as a substring; the date
// bounds are inclusive.
type DocumentFilter struct {
	Search      string
	CategoryID  string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here — strictly persistence operations.
//
// Reads are hydrated: they join in the owner's full name and the category
// name so callers never fetch those separately. Reads are also scoped by the
// Viewer; a row outside the viewer's scope behaves as if it did not exist.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a hydrated document visible to the viewer.
	// Returns sql.ErrNoRows when the row is missing or out of scope.
	FindByID(ctx context.Context, id string, v Viewer) (*model.Document, error)

	// List returns a hydrated page of documents visible to the viewer,
	// newest first, with the total row count for the same scope and filter.
	List(ctx context.Context, v Viewer, f DocumentFilter, pq PageQuery) (*PageResult[model.Document], error)

	// UpdateMeta changes the owner-editable fields of a pending document.
	// Returns sql.ErrNoRows when no row matched id, owner, and pending status.
	UpdateMeta(ctx context.Context, id, ownerID string, categoryID, description *string) error

	// Review records a verdict on a pending document. The status guard is in
	// the query itself so concurrent reviews cannot double-apply.
	// Returns sql.ErrNoRows when no row matched id and pending status.
	Review(ctx context.Context, id, reviewerID string, status model.DocumentStatus, feedback *string) error

	// Resubmit returns a rejected document to pending and clears the verdict.
	// Returns sql.ErrNoRows when no row matched id, owner, and rejected status.
	Resubmit(ctx context.Context, id, ownerID string) error

	// Delete removes a document by ID. It returns nil if the row was deleted
	// or did not exist.
	Delete(ctx context.Context, id string) error
}
