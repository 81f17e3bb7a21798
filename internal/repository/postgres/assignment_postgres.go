package postgres

import (
	"context"
	"database/sql"

	"mentorlink/internal/model"
	"mentorlink/internal/repository"
)

// AssignmentPostgres is a PostgreSQL implementation of repository.AssignmentRepository.
type AssignmentPostgres struct {
	db *sql.DB
}

// NewAssignmentPostgres creates a new AssignmentPostgres repository.
func NewAssignmentPostgres(db *sql.DB) *AssignmentPostgres {
	return &AssignmentPostgres{db: db}
}

var _ repository.AssignmentRepository = (*AssignmentPostgres)(nil)

// Create links a mentor to a student and returns the stored record.
func (r *AssignmentPostgres) Create(ctx context.Context, a *model.Assignment) (*model.Assignment, error) {
	const q = `
		INSERT INTO assignments (id, mentor_id, student_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, mentor_id, student_id, created_at
	`
	row := r.db.QueryRowContext(ctx, q, a.ID, a.MentorID, a.StudentID, a.CreatedAt)

	var out model.Assignment
	if err := row.Scan(&out.ID, &out.MentorID, &out.StudentID, &out.CreatedAt); err != nil {
		return nil, mapDuplicate(err)
	}
	return &out, nil
}

// Delete removes an assignment by ID.
func (r *AssignmentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM assignments WHERE id = $1`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByMentor returns the assignments of one mentor, newest first, with
// mentor and student names hydrated.
func (r *AssignmentPostgres) ListByMentor(ctx context.Context, mentorID string) ([]model.Assignment, error) {
	const q = `
		SELECT a.id, a.mentor_id, a.student_id, a.created_at, m.full_name, s.full_name
		FROM assignments a
		JOIN users m ON m.id = a.mentor_id
		JOIN users s ON s.id = a.student_id
		WHERE a.mentor_id = $1
		ORDER BY a.created_at DESC, a.id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, mentorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Assignment, 0)
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.ID, &a.MentorID, &a.StudentID, &a.CreatedAt, &a.MentorName, &a.StudentName); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// StudentsForMentor returns the student accounts assigned to a mentor,
// ordered by name.
func (r *AssignmentPostgres) StudentsForMentor(ctx context.Context, mentorID string) ([]model.User, error) {
	const q = `
		SELECT u.id, u.email, u.full_name, u.role, u.created_at, u.updated_at
		FROM assignments a
		JOIN users u ON u.id = a.student_id
		WHERE a.mentor_id = $1
		ORDER BY u.full_name ASC, u.id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, mentorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// StudentIDsForMentor returns the IDs of the students assigned to a mentor.
func (r *AssignmentPostgres) StudentIDsForMentor(ctx context.Context, mentorID string) ([]string, error) {
	const q = `SELECT student_id FROM assignments WHERE mentor_id = $1`

	rows, err := r.db.QueryContext(ctx, q, mentorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
