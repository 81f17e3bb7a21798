package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"mentorlink/internal/model"
	"mentorlink/internal/repository"
)

// documentColumns is the hydrated column list shared by every document read.
// The aliases d, u, and c refer to documents, users, and categories.
const documentColumns = `
	d.id, d.owner_id, u.full_name, d.category_id, COALESCE(c.name, ''),
	d.file_name, d.storage_path, d.size, d.content_type, d.description,
	d.status, d.feedback, d.reviewed_by, d.reviewed_at, d.created_at, d.updated_at`

// documentJoins attaches the tables documentColumns reads from.
const documentJoins = `
	FROM documents d
	JOIN users u ON u.id = d.owner_id
	LEFT JOIN categories c ON c.id = d.category_id`

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// scanDocument reads one hydrated row in documentColumns order.
func scanDocument(row interface{ Scan(...any) error }) (*model.Document, error) {
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.OwnerID,
		&d.OwnerName,
		&d.CategoryID,
		&d.CategoryName,
		&d.FileName,
		&d.StoragePath,
		&d.Size,
		&d.ContentType,
		&d.Description,
		&d.Status,
		&d.Feedback,
		&d.ReviewedBy,
		&d.ReviewedAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// scopeWhere returns the predicate limiting rows to the viewer's scope and
// the arguments it consumes, numbering placeholders from start. Unknown roles
// get the narrowest scope.
func scopeWhere(v repository.Viewer, start int) (string, []any) {
	switch v.Role {
	case model.RoleAdmin:
		return "TRUE", nil
	case model.RoleMentor:
		return fmt.Sprintf("d.owner_id IN (SELECT student_id FROM assignments WHERE mentor_id = $%d)", start), []any{v.UserID}
	default:
		return fmt.Sprintf("d.owner_id = $%d", start), []any{v.UserID}
	}
}

// buildDocumentWhere combines the viewer scope with the optional filter
// clauses and returns the full predicate plus its arguments in order.
func buildDocumentWhere(v repository.Viewer, f repository.DocumentFilter) (string, []any) {
	scope, args := scopeWhere(v, 1)
	clauses := []string{scope}

	next := len(args) + 1
	if f.Search != "" {
		clauses = append(clauses, fmt.Sprintf("d.file_name ILIKE $%d", next))
		args = append(args, "%"+escapeLike(f.Search)+"%")
		next++
	}
	if f.CategoryID != "" {
		clauses = append(clauses, fmt.Sprintf("d.category_id = $%d", next))
		args = append(args, f.CategoryID)
		next++
	}
	if f.Status != "" {
		clauses = append(clauses, fmt.Sprintf("d.status = $%d", next))
		args = append(args, f.Status)
		next++
	}
	if f.CreatedFrom != nil {
		clauses = append(clauses, fmt.Sprintf("d.created_at >= $%d", next))
		args = append(args, *f.CreatedFrom)
		next++
	}
	if f.CreatedTo != nil {
		clauses = append(clauses, fmt.Sprintf("d.created_at <= $%d", next))
		args = append(args, *f.CreatedTo)
		next++
	}

	return strings.Join(clauses, " AND "), args
}

// Create inserts a new document row and returns the stored record. The
// returned document carries base columns only; hydrated fields come from a
// subsequent FindByID.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, owner_id, category_id, file_name, storage_path, size, content_type, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, owner_id, category_id, file_name, storage_path, size, content_type, description, status, created_at, updated_at
	`
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.OwnerID,
		doc.CategoryID,
		doc.FileName,
		doc.StoragePath,
		doc.Size,
		doc.ContentType,
		doc.Description,
		doc.Status,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	var out model.Document
	if err := row.Scan(
		&out.ID,
		&out.OwnerID,
		&out.CategoryID,
		&out.FileName,
		&out.StoragePath,
		&out.Size,
		&out.ContentType,
		&out.Description,
		&out.Status,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single hydrated document within the viewer's scope.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string, v repository.Viewer) (*model.Document, error) {
	scope, scopeArgs := scopeWhere(v, 2)
	q := fmt.Sprintf(`SELECT %s %s WHERE d.id = $1 AND %s`, documentColumns, documentJoins, scope)

	row := r.db.QueryRowContext(ctx, q, append([]any{id}, scopeArgs...)...)
	return scanDocument(row)
}

// List returns hydrated documents newest first using LIMIT/OFFSET pagination
// and a total count over the same scope and filter.
func (r *DocumentPostgres) List(ctx context.Context, v repository.Viewer, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	where, args := buildDocumentWhere(v, f)

	qCount := fmt.Sprintf(`SELECT COUNT(*) %s WHERE %s`, documentJoins, where)
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := fmt.Sprintf(`SELECT %s %s WHERE %s
		ORDER BY d.created_at DESC, d.id DESC
		LIMIT $%d OFFSET $%d`,
		documentColumns, documentJoins, where, len(args)+1, len(args)+2)

	rows, err := r.db.QueryContext(ctx, qList, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// UpdateMeta changes the owner-editable fields while the document is pending.
func (r *DocumentPostgres) UpdateMeta(ctx context.Context, id, ownerID string, categoryID, description *string) error {
	const q = `
		UPDATE documents
		SET category_id = $3, description = $4, updated_at = now()
		WHERE id = $1 AND owner_id = $2 AND status = 'pending'
	`
	res, err := r.db.ExecContext(ctx, q, id, ownerID, categoryID, description)
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

// Review applies a verdict to a pending document. The pending guard lives in
// the WHERE clause so two concurrent reviews cannot both succeed.
func (r *DocumentPostgres) Review(ctx context.Context, id, reviewerID string, status model.DocumentStatus, feedback *string) error {
	const q = `
		UPDATE documents
		SET status = $3, feedback = $4, reviewed_by = $2, reviewed_at = now(), updated_at = now()
		WHERE id = $1 AND status = 'pending'
	`
	res, err := r.db.ExecContext(ctx, q, id, reviewerID, status, feedback)
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

// Resubmit returns a rejected document to the review queue.
func (r *DocumentPostgres) Resubmit(ctx context.Context, id, ownerID string) error {
	const q = `
		UPDATE documents
		SET status = 'pending', feedback = NULL, reviewed_by = NULL, reviewed_at = NULL, updated_at = now()
		WHERE id = $1 AND owner_id = $2 AND status = 'rejected'
	`
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
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

// Delete removes a document by ID. It does not return an error if the row
// does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
