package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"

	"mentorlink/internal/model"
	"mentorlink/internal/repository"
	repoMocks "mentorlink/internal/repository/mocks"
)

func TestUserService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewUserService(mUsers)

		mUsers.On("FindByID", ctx, "user-1").Return(&model.User{ID: "user-1"}, nil)

		u, err := svc.Get(ctx, "user-1")

		assert.NoError(t, err)
		assert.Equal(t, "user-1", u.ID)
	})

	t.Run("missing user", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewUserService(mUsers)

		mUsers.On("FindByID", ctx, "ghost").Return(nil, sql.ErrNoRows)

		_, err := svc.Get(ctx, "ghost")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		svc := NewUserService(new(repoMocks.MockUserRepository))

		_, err := svc.Get(ctx, "")

		assert.ErrorIs(t, err, ErrIDRequired)
	})
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("role filter with defaults", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewUserService(mUsers)

		mUsers.On("List", ctx, "mentor", repository.PageQuery{Limit: 10, Offset: 0}).
			Return(&repository.PageResult[model.User]{Items: []model.User{{ID: "m1"}}, Total: 1}, nil)

		res, err := svc.List(ctx, "mentor", 0, -1)

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		mUsers.AssertExpectations(t)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		svc := NewUserService(new(repoMocks.MockUserRepository))

		_, err := svc.List(ctx, "wizard", 10, 0)

		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestUserService_ChangeRole(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path returns the updated account", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewUserService(mUsers)

		mUsers.On("UpdateRole", ctx, "user-1", model.RoleMentor).Return(nil)
		mUsers.On("FindByID", ctx, "user-1").Return(&model.User{ID: "user-1", Role: model.RoleMentor}, nil)

		u, err := svc.ChangeRole(ctx, "user-1", model.RoleMentor)

		assert.NoError(t, err)
		assert.Equal(t, model.RoleMentor, u.Role)
		mUsers.AssertExpectations(t)
	})

	t.Run("missing user", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewUserService(mUsers)

		mUsers.On("UpdateRole", ctx, "ghost", model.RoleMentor).Return(sql.ErrNoRows)

		_, err := svc.ChangeRole(ctx, "ghost", model.RoleMentor)

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("invalid role", func(t *testing.T) {
		svc := NewUserService(new(repoMocks.MockUserRepository))

		_, err := svc.ChangeRole(ctx, "user-1", "wizard")

		assert.ErrorIs(t, err, ErrValidation)
	})
}
