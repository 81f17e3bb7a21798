package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mentorlink/internal/model"
	"mentorlink/internal/repository"
)

// AssignmentService manages which students a mentor supervises.
type AssignmentService interface {
	// Assign links a mentor to a student after checking both accounts exist
	// and carry the expected roles.
	Assign(ctx context.Context, mentorID, studentID string) (*model.Assignment, error)

	// Unassign removes an assignment by ID.
	Unassign(ctx context.Context, id string) error

	// ListByMentor returns a mentor's assignments, names hydrated.
	ListByMentor(ctx context.Context, mentorID string) ([]model.Assignment, error)

	// Students returns the student accounts assigned to a mentor.
	Students(ctx context.Context, mentorID string) ([]model.User, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	users       repository.UserRepository
}

// NewAssignmentService constructs a new AssignmentService.
func NewAssignmentService(assignments repository.AssignmentRepository, users repository.UserRepository) AssignmentService {
	return &assignmentService{assignments: assignments, users: users}
}

func (s *assignmentService) Assign(ctx context.Context, mentorID, studentID string) (*model.Assignment, error) {
	if mentorID == "" || studentID == "" {
		return nil, ErrIDRequired
	}
	if mentorID == studentID {
		return nil, fmt.Errorf("%w: a user cannot mentor themselves", ErrValidation)
	}

	mentor, err := s.lookup(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	if mentor.Role != model.RoleMentor {
		return nil, ErrNotMentor
	}
	student, err := s.lookup(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.Role != model.RoleStudent {
		return nil, ErrNotStudent
	}

	a := &model.Assignment{
		ID:        uuid.New().String(),
		MentorID:  mentorID,
		StudentID: studentID,
		CreatedAt: time.Now().UTC(),
	}
	stored, err := s.assignments.Create(ctx, a)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAssignmentExists
		}
		return nil, err
	}
	stored.MentorName = mentor.FullName
	stored.StudentName = student.FullName
	return stored, nil
}

func (s *assignmentService) Unassign(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := s.assignments.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAssignmentNotFound
		}
		return err
	}
	return nil
}

func (s *assignmentService) ListByMentor(ctx context.Context, mentorID string) ([]model.Assignment, error) {
	if mentorID == "" {
		return nil, ErrIDRequired
	}
	return s.assignments.ListByMentor(ctx, mentorID)
}

func (s *assignmentService) Students(ctx context.Context, mentorID string) ([]model.User, error) {
	if mentorID == "" {
		return nil, ErrIDRequired
	}
	return s.assignments.StudentsForMentor(ctx, mentorID)
}

func (s *assignmentService) lookup(ctx context.Context, id string) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
