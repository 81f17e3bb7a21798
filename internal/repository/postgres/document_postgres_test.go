package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentorlink/internal/model"
	"mentorlink/internal/repository"
)

var documentRowColumns = []string{
	"id", "owner_id", "full_name", "category_id", "name",
	"file_name", "storage_path", "size", "content_type", "description",
	"status", "feedback", "reviewed_by", "reviewed_at", "created_at", "updated_at",
}

func documentRow(id, ownerID string, createdAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(documentRowColumns).
		AddRow(id, ownerID, "Ada Lovelace", nil, "",
			"report.pdf", "documents/"+ownerID+"/"+id+"/report.pdf", 2048, "application/pdf", nil,
			"pending", nil, nil, nil, createdAt, createdAt)
}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &model.Document{
		ID:          "doc-1",
		OwnerID:     "student-1",
		FileName:    "report.pdf",
		StoragePath: "documents/student-1/doc-1/report.pdf",
		Size:        2048,
		ContentType: "application/pdf",
		Status:      model.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "category_id", "file_name", "storage_path",
		"size", "content_type", "description", "status", "created_at", "updated_at",
	}).AddRow(doc.ID, doc.OwnerID, nil, doc.FileName, doc.StoragePath,
		doc.Size, doc.ContentType, nil, "pending", now, now)

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(doc.ID, doc.OwnerID, nil, doc.FileName, doc.StoragePath,
			doc.Size, doc.ContentType, nil, doc.Status, doc.CreatedAt, doc.UpdatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, doc)

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, doc.ID, result.ID)
	assert.Equal(t, model.StatusPending, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("student sees own document", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM documents d JOIN users u (.+) WHERE d.id = \$1 AND d.owner_id = \$2`).
			WithArgs("doc-1", "student-1").
			WillReturnRows(documentRow("doc-1", "student-1", time.Now()))

		doc, err := repo.FindByID(ctx, "doc-1", repository.Viewer{UserID: "student-1", Role: model.RoleStudent})

		assert.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, "doc-1", doc.ID)
		assert.Equal(t, "Ada Lovelace", doc.OwnerName)
		assert.Nil(t, doc.CategoryID)
	})

	t.Run("student cannot see foreign document", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) WHERE d.id = \$1 AND d.owner_id = \$2`).
			WithArgs("doc-2", "student-1").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "doc-2", repository.Viewer{UserID: "student-1", Role: model.RoleStudent})

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, doc)
	})

	t.Run("mentor scope queries assignments", func(t *testing.T) {
		mock.ExpectQuery(`WHERE d.id = \$1 AND d.owner_id IN \(SELECT student_id FROM assignments WHERE mentor_id = \$2\)`).
			WithArgs("doc-1", "mentor-1").
			WillReturnRows(documentRow("doc-1", "student-1", time.Now()))

		doc, err := repo.FindByID(ctx, "doc-1", repository.Viewer{UserID: "mentor-1", Role: model.RoleMentor})

		assert.NoError(t, err)
		require.NotNil(t, doc)
	})

	t.Run("admin scope is unrestricted", func(t *testing.T) {
		mock.ExpectQuery(`WHERE d.id = \$1 AND TRUE`).
			WithArgs("doc-1").
			WillReturnRows(documentRow("doc-1", "student-1", time.Now()))

		doc, err := repo.FindByID(ctx, "doc-1", repository.Viewer{UserID: "admin-1", Role: model.RoleAdmin})

		assert.NoError(t, err)
		require.NotNil(t, doc)
	})
}

func TestDocumentPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("student page", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) (.+) WHERE d.owner_id = \$1`).
			WithArgs("student-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		mock.ExpectQuery(`SELECT (.+) ORDER BY d.created_at DESC, d.id DESC`).
			WithArgs("student-1", 10, 0).
			WillReturnRows(documentRow("doc-1", "student-1", time.Now()))

		res, err := repo.List(ctx,
			repository.Viewer{UserID: "student-1", Role: model.RoleStudent},
			repository.DocumentFilter{},
			repository.PageQuery{Limit: 10, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Len(t, res.Items, 1)
	})

	t.Run("filters add clauses and args in order", func(t *testing.T) {
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)

		mock.ExpectQuery(`SELECT COUNT\(\*\) (.+) WHERE d.owner_id = \$1 AND d.file_name ILIKE \$2 AND d.category_id = \$3 AND d.status = \$4 AND d.created_at >= \$5 AND d.created_at <= \$6`).
			WithArgs("student-1", "%report%", "cat-1", "pending", from, to).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery(`LIMIT \$7 OFFSET \$8`).
			WithArgs("student-1", "%report%", "cat-1", "pending", from, to, 20, 40).
			WillReturnRows(sqlmock.NewRows(documentRowColumns))

		res, err := repo.List(ctx,
			repository.Viewer{UserID: "student-1", Role: model.RoleStudent},
			repository.DocumentFilter{
				Search:      "report",
				CategoryID:  "cat-1",
				Status:      "pending",
				CreatedFrom: &from,
				CreatedTo:   &to,
			},
			repository.PageQuery{Limit: 20, Offset: 40})

		assert.NoError(t, err)
		assert.Equal(t, 0, res.Total)
		assert.Empty(t, res.Items)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_UpdateMeta(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("updates pending document", func(t *testing.T) {
		catID := "cat-1"
		desc := "final draft"
		mock.ExpectExec(`UPDATE documents SET category_id = \$3, description = \$4, updated_at = now\(\) WHERE id = \$1 AND owner_id = \$2 AND status = 'pending'`).
			WithArgs("doc-1", "student-1", catID, desc).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateMeta(ctx, "doc-1", "student-1", &catID, &desc)
		assert.NoError(t, err)
	})

	t.Run("no match reports no rows", func(t *testing.T) {
		mock.ExpectExec(`UPDATE documents SET category_id`).
			WithArgs("doc-1", "someone-else", nil, nil).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateMeta(ctx, "doc-1", "someone-else", nil, nil)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestDocumentPostgres_Review(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("applies verdict to pending document", func(t *testing.T) {
		fb := "well structured"
		mock.ExpectExec(`UPDATE documents SET status = \$3, feedback = \$4, reviewed_by = \$2, reviewed_at = now\(\), updated_at = now\(\) WHERE id = \$1 AND status = 'pending'`).
			WithArgs("doc-1", "mentor-1", "approved", fb).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Review(ctx, "doc-1", "mentor-1", model.StatusApproved, &fb)
		assert.NoError(t, err)
	})

	t.Run("already reviewed reports no rows", func(t *testing.T) {
		mock.ExpectExec(`UPDATE documents SET status`).
			WithArgs("doc-1", "mentor-1", "rejected", nil).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Review(ctx, "doc-1", "mentor-1", model.StatusRejected, nil)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestDocumentPostgres_Resubmit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("returns rejected document to pending", func(t *testing.T) {
		mock.ExpectExec(`UPDATE documents SET status = 'pending', feedback = NULL, reviewed_by = NULL, reviewed_at = NULL, updated_at = now\(\) WHERE id = \$1 AND owner_id = \$2 AND status = 'rejected'`).
			WithArgs("doc-1", "student-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Resubmit(ctx, "doc-1", "student-1")
		assert.NoError(t, err)
	})

	t.Run("pending document cannot resubmit", func(t *testing.T) {
		mock.ExpectExec(`UPDATE documents SET status = 'pending'`).
			WithArgs("doc-1", "student-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Resubmit(ctx, "doc-1", "student-1")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestDocumentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM documents WHERE id = ?").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Delete(ctx, "doc-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildDocumentWhere_PlaceholderNumbering(t *testing.T) {
	from := time.Now()
	where, args := buildDocumentWhere(
		repository.Viewer{UserID: "mentor-1", Role: model.RoleMentor},
		repository.DocumentFilter{Search: "spec_v1", Status: "approved", CreatedFrom: &from},
	)

	assert.Equal(t,
		`d.owner_id IN (SELECT student_id FROM assignments WHERE mentor_id = $1)`+
			` AND d.file_name ILIKE $2 AND d.status = $3 AND d.created_at >= $4`,
		where)
	assert.Equal(t, []any{"mentor-1", `%spec\_v1%`, "approved", from}, args)
}
