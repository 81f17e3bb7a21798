package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentorlink/internal/model"
	"mentorlink/internal/repository"
)

var userRowColumns = []string{"id", "email", "password_hash", "full_name", "role", "created_at", "updated_at"}

func TestUserPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	u := &model.User{
		ID:           "user-1",
		Email:        "ada@example.com",
		PasswordHash: "$2a$10$hash",
		FullName:     "Ada Lovelace",
		Role:         model.RoleStudent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows(userRowColumns).
			AddRow(u.ID, u.Email, u.PasswordHash, u.FullName, "student", now, now)

		mock.ExpectQuery("INSERT INTO users").
			WithArgs(u.ID, u.Email, u.PasswordHash, u.FullName, u.Role, u.CreatedAt, u.UpdatedAt).
			WillReturnRows(rows)

		result, err := repo.Create(ctx, u)

		assert.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, model.RoleStudent, result.Role)
	})

	t.Run("taken email maps to ErrDuplicate", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").
			WithArgs(u.ID, u.Email, u.PasswordHash, u.FullName, u.Role, u.CreatedAt, u.UpdatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		result, err := repo.Create(ctx, u)

		assert.ErrorIs(t, err, repository.ErrDuplicate)
		assert.Nil(t, result)
	})
}

func TestUserPostgres_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(userRowColumns).
			AddRow("user-1", "ada@example.com", "hash", "Ada Lovelace", "mentor", time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
			WithArgs("ada@example.com").
			WillReturnRows(rows)

		u, err := repo.FindByEmail(ctx, "ada@example.com")

		assert.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, model.RoleMentor, u.Role)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.FindByEmail(ctx, "nobody@example.com")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, u)
	})
}

func TestUserPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("role filter", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE role = \$1`).
			WithArgs("student").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows(userRowColumns).
			AddRow("user-1", "ada@example.com", "hash", "Ada Lovelace", "student", time.Now(), time.Now())

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE role = \$1 ORDER BY full_name ASC`).
			WithArgs("student", 10, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx, "student", repository.PageQuery{Limit: 10, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Len(t, res.Items, 1)
	})

	t.Run("no filter", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE TRUE`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE TRUE ORDER BY full_name ASC`).
			WithArgs(10, 0).
			WillReturnRows(sqlmock.NewRows(userRowColumns))

		res, err := repo.List(ctx, "", repository.PageQuery{Limit: 10, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 0, res.Total)
		assert.Empty(t, res.Items)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_UpdateRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE users SET role = \$1, updated_at = NOW\(\) WHERE id = \$2`).
			WithArgs(model.RoleMentor, "user-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateRole(ctx, "user-1", model.RoleMentor))
	})

	t.Run("missing user yields ErrNoRows", func(t *testing.T) {
		mock.ExpectExec(`UPDATE users SET role = \$1`).
			WithArgs(model.RoleMentor, "ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdateRole(ctx, "ghost", model.RoleMentor), sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
