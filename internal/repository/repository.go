// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) and hold strictly
// persistence logic.
package repository

import (
	"errors"

	"mentorlink/internal/model"
)

// ErrDuplicate is returned when an insert collides with a uniqueness
// constraint, such as a taken email or an existing mentor/student pair.
var ErrDuplicate = errors.New("duplicate row")

// Viewer identifies who is asking. Scoped queries narrow their results to
// the rows this identity is allowed to see: students their own documents,
// mentors the documents of their assigned students, admins everything.
type Viewer struct {
	UserID string
	Role   model.Role
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
