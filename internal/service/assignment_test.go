package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mentorlink/internal/model"
	"mentorlink/internal/repository"
	repoMocks "mentorlink/internal/repository/mocks"
)

func TestAssignmentService_Assign(t *testing.T) {
	ctx := context.Background()

	mentor := &model.User{ID: "mentor-1", FullName: "Maya Chen", Role: model.RoleMentor}
	student := &model.User{ID: "student-1", FullName: "Dana Romanova", Role: model.RoleStudent}

	t.Run("happy path hydrates names", func(t *testing.T) {
		mAssign := new(repoMocks.MockAssignmentRepository)
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewAssignmentService(mAssign, mUsers)

		mUsers.On("FindByID", ctx, "mentor-1").Return(mentor, nil)
		mUsers.On("FindByID", ctx, "student-1").Return(student, nil)
		mAssign.On("Create", ctx, mock.MatchedBy(func(a *model.Assignment) bool {
			return a.MentorID == "mentor-1" && a.StudentID == "student-1" && a.ID != ""
		})).Return(&model.Assignment{ID: "asg-1", MentorID: "mentor-1", StudentID: "student-1"}, nil)

		a, err := svc.Assign(ctx, "mentor-1", "student-1")

		assert.NoError(t, err)
		require.NotNil(t, a)
		assert.Equal(t, "Maya Chen", a.MentorName)
		assert.Equal(t, "Dana Romanova", a.StudentName)
		mAssign.AssertExpectations(t)
	})

	t.Run("mentor role required", func(t *testing.T) {
		mAssign := new(repoMocks.MockAssignmentRepository)
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewAssignmentService(mAssign, mUsers)

		mUsers.On("FindByID", ctx, "student-1").Return(student, nil)

		_, err := svc.Assign(ctx, "student-1", "student-1x")

		assert.ErrorIs(t, err, ErrNotMentor)
		mAssign.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("student role required", func(t *testing.T) {
		mAssign := new(repoMocks.MockAssignmentRepository)
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewAssignmentService(mAssign, mUsers)

		other := &model.User{ID: "mentor-2", Role: model.RoleMentor}
		mUsers.On("FindByID", ctx, "mentor-1").Return(mentor, nil)
		mUsers.On("FindByID", ctx, "mentor-2").Return(other, nil)

		_, err := svc.Assign(ctx, "mentor-1", "mentor-2")

		assert.ErrorIs(t, err, ErrNotStudent)
	})

	t.Run("unknown mentor", func(t *testing.T) {
		mAssign := new(repoMocks.MockAssignmentRepository)
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewAssignmentService(mAssign, mUsers)

		mUsers.On("FindByID", ctx, "ghost").Return(nil, sql.ErrNoRows)

		_, err := svc.Assign(ctx, "ghost", "student-1")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("self-assignment", func(t *testing.T) {
		svc := NewAssignmentService(new(repoMocks.MockAssignmentRepository), new(repoMocks.MockUserRepository))

		_, err := svc.Assign(ctx, "user-1", "user-1")

		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("duplicate pair", func(t *testing.T) {
		mAssign := new(repoMocks.MockAssignmentRepository)
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewAssignmentService(mAssign, mUsers)

		mUsers.On("FindByID", ctx, "mentor-1").Return(mentor, nil)
		mUsers.On("FindByID", ctx, "student-1").Return(student, nil)
		mAssign.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicate)

		_, err := svc.Assign(ctx, "mentor-1", "student-1")

		assert.ErrorIs(t, err, ErrAssignmentExists)
	})
}

func TestAssignmentService_Unassign(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mAssign := new(repoMocks.MockAssignmentRepository)
		svc := NewAssignmentService(mAssign, nil)

		mAssign.On("Delete", ctx, "asg-1").Return(nil)

		assert.NoError(t, svc.Unassign(ctx, "asg-1"))
	})

	t.Run("missing assignment", func(t *testing.T) {
		mAssign := new(repoMocks.MockAssignmentRepository)
		svc := NewAssignmentService(mAssign, nil)

		mAssign.On("Delete", ctx, "ghost").Return(sql.ErrNoRows)

		assert.ErrorIs(t, svc.Unassign(ctx, "ghost"), ErrAssignmentNotFound)
	})
}

func TestAssignmentService_Students(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the roster", func(t *testing.T) {
		mAssign := new(repoMocks.MockAssignmentRepository)
		svc := NewAssignmentService(mAssign, nil)

		roster := []model.User{{ID: "student-1"}, {ID: "student-2"}}
		mAssign.On("StudentsForMentor", ctx, "mentor-1").Return(roster, nil)

		students, err := svc.Students(ctx, "mentor-1")

		assert.NoError(t, err)
		assert.Equal(t, roster, students)
	})

	t.Run("empty mentor id", func(t *testing.T) {
		svc := NewAssignmentService(new(repoMocks.MockAssignmentRepository), nil)

		_, err := svc.Students(ctx, "")

		assert.ErrorIs(t, err, ErrIDRequired)
	})
}
