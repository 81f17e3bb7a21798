package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mentorlink/internal/model"
	"mentorlink/internal/repository"
)

// UserListResult is the service-level DTO for paginated users.
type UserListResult struct {
	Items []model.User `json:"data"`
	Total int          `json:"total"`
}

// UserService exposes account lookups and admin account management.
type UserService interface {
	// Get returns a user by ID.
	Get(ctx context.Context, id string) (*model.User, error)

	// List returns users, optionally restricted to one role.
	List(ctx context.Context, role string, limit, offset int) (*UserListResult, error)

	// ChangeRole sets a user's role and returns the updated account.
	ChangeRole(ctx context.Context, id string, role model.Role) (*model.User, error)
}

type userService struct {
	users repository.UserRepository
}

// NewUserService constructs a new UserService.
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) List(ctx context.Context, role string, limit, offset int) (*UserListResult, error) {
	if role != "" && !model.Role(role).IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.users.List(ctx, role, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &UserListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *userService) ChangeRole(ctx context.Context, id string, role model.Role) (*model.User, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}
