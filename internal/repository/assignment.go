package repository

import (
	"context"

	"mentorlink/internal/model"
)

// AssignmentRepository defines data access for mentor/student assignments.
type AssignmentRepository interface {
	// Create links a mentor to a student. Returns ErrDuplicate when the pair
	// already exists.
	Create(ctx context.Context, a *model.Assignment) (*model.Assignment, error)

	// Delete removes an assignment by ID. Returns sql.ErrNoRows when no such
	// assignment exists.
	Delete(ctx context.Context, id string) error

	// ListByMentor returns the assignments of one mentor with mentor and
	// student names hydrated.
	ListByMentor(ctx context.Context, mentorID string) ([]model.Assignment, error)

	// StudentsForMentor returns the student accounts assigned to a mentor.
	StudentsForMentor(ctx context.Context, mentorID string) ([]model.User, error)

	// StudentIDsForMentor returns just the student IDs assigned to a mentor.
	// The feed uses this to scope a mentor's subscription.
	StudentIDsForMentor(ctx context.Context, mentorID string) ([]string, error)
}
