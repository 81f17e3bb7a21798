package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mentorlink/internal/events"
	"mentorlink/internal/logging"
	"mentorlink/internal/model"
	"mentorlink/internal/repository"
	"mentorlink/internal/storage"
)

// downloadExpiry bounds how long a presigned download link stays valid.
const downloadExpiry = 15 * time.Minute

// SubmitInput describes a document upload.
type SubmitInput struct {
	OwnerID          string
	OriginalFilename string
	ContentType      string
	Size             int64
	CategoryID       *string
	Description      *string
}

// ReviewInput carries a mentor's or admin's verdict on a pending document.
type ReviewInput struct {
	Verdict  string
	Feedback *string
}

// ListQuery bundles filtering and pagination for document listings.
type ListQuery struct {
	Filter repository.DocumentFilter
	Limit  int
	Offset int
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService defines the use cases of the document workflow. Reads take
// a Viewer and return only what that viewer may see; out-of-scope documents
// are indistinguishable from missing ones.
type DocumentService interface {
	// Submit uploads the content to object storage, saves the pending row,
	// and rolls back the object if the row cannot be saved. The stored key is
	// a UUID plus the original extension; the original name is kept as the
	// display name.
	Submit(ctx context.Context, r io.Reader, in SubmitInput) (*model.Document, error)

	// List returns the viewer's documents newest first, filtered and paginated.
	List(ctx context.Context, v repository.Viewer, q ListQuery) (*DocumentListResult, error)

	// Get returns a single document by ID if the viewer may see it.
	Get(ctx context.Context, v repository.Viewer, id string) (*model.Document, error)

	// Download returns a presigned URL for the document's content. The link
	// forces a download under the original file name.
	Download(ctx context.Context, v repository.Viewer, id string) (string, error)

	// UpdateMeta lets the owner edit description and category while the
	// document is still pending.
	UpdateMeta(ctx context.Context, ownerID, id string, categoryID, description *string) (*model.Document, error)

	// Resubmit returns a rejected document to pending and clears the verdict.
	Resubmit(ctx context.Context, ownerID, id string) (*model.Document, error)

	// Review applies a verdict to a pending document. Rejection requires
	// feedback; the check happens before any write.
	Review(ctx context.Context, reviewer repository.Viewer, id string, in ReviewInput) (*model.Document, error)

	// Delete removes a document's object and row. Admin only.
	Delete(ctx context.Context, actor repository.Viewer, id string) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store storage.Storage
	repo  repository.DocumentRepository
	pub   events.Publisher
	log   *logging.Logger
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, pub events.Publisher, log *logging.Logger) DocumentService {
	return &documentService{store: store, repo: repo, pub: pub, log: log}
}

func (s *documentService) Submit(ctx context.Context, r io.Reader, in SubmitInput) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if in.OwnerID == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(in.OriginalFilename) == "" {
		return nil, fmt.Errorf("%w: a file name is required", ErrValidation)
	}

	// Generate the storage key from a UUID + original extension
	ext := filepath.Ext(in.OriginalFilename)
	key := filepath.ToSlash(filepath.Join("documents", uuid.New().String()+ext))

	// Upload to object storage
	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.OriginalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	// Save metadata to database
	now := time.Now().UTC()
	doc := &model.Document{
		ID:          uuid.New().String(),
		OwnerID:     in.OwnerID,
		CategoryID:  in.CategoryID,
		FileName:    in.OriginalFilename,
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: objInfo.ContentType,
		Description: in.Description,
		Status:      model.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.publish(ctx, events.DocumentEvent{
		Type:       events.TypeSubmitted,
		DocumentID: stored.ID,
		OwnerID:    stored.OwnerID,
		ActorID:    stored.OwnerID,
		FileName:   stored.FileName,
		OccurredAt: stored.CreatedAt,
	})
	return stored, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, v repository.Viewer, q ListQuery) (*DocumentListResult, error) {
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	res, err := s.repo.List(ctx, v, q.Filter, repository.PageQuery{Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a document by ID within the viewer's scope.
func (s *documentService) Get(ctx context.Context, v repository.Viewer, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id, v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Download(ctx context.Context, v repository.Viewer, id string) (string, error) {
	doc, err := s.Get(ctx, v, id)
	if err != nil {
		return "", err
	}
	url, err := s.store.PresignGet(ctx, doc.StoragePath, downloadExpiry, doc.FileName)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return url, nil
}

func (s *documentService) UpdateMeta(ctx context.Context, ownerID, id string, categoryID, description *string) (*model.Document, error) {
	if id == "" || ownerID == "" {
		return nil, ErrIDRequired
	}

	owner := repository.Viewer{UserID: ownerID, Role: model.RoleStudent}
	if err := s.repo.UpdateMeta(ctx, id, ownerID, categoryID, description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.explainBlockedEdit(ctx, owner, id, ErrNotEditable)
		}
		return nil, err
	}
	return s.Get(ctx, owner, id)
}

func (s *documentService) Resubmit(ctx context.Context, ownerID, id string) (*model.Document, error) {
	if id == "" || ownerID == "" {
		return nil, ErrIDRequired
	}

	owner := repository.Viewer{UserID: ownerID, Role: model.RoleStudent}
	if err := s.repo.Resubmit(ctx, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.explainBlockedEdit(ctx, owner, id, ErrNotResubmittable)
		}
		return nil, err
	}

	doc, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.DocumentEvent{
		Type:       events.TypeSubmitted,
		DocumentID: doc.ID,
		OwnerID:    doc.OwnerID,
		ActorID:    ownerID,
		FileName:   doc.FileName,
		OccurredAt: doc.UpdatedAt,
	})
	return doc, nil
}

func (s *documentService) Review(ctx context.Context, reviewer repository.Viewer, id string, in ReviewInput) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if reviewer.Role != model.RoleMentor && reviewer.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}

	status := model.DocumentStatus(in.Verdict)
	if status != model.StatusApproved && status != model.StatusRejected {
		return nil, ErrInvalidVerdict
	}
	if status == model.StatusRejected && (in.Feedback == nil || strings.TrimSpace(*in.Feedback) == "") {
		return nil, ErrFeedbackRequired
	}

	// The scoped read rejects reviewers the document is invisible to, and
	// reports the wrong-state case before any write happens.
	doc, err := s.repo.FindByID(ctx, id, reviewer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc.Status != model.StatusPending {
		return nil, ErrNotReviewable
	}

	if err := s.repo.Review(ctx, id, reviewer.UserID, status, in.Feedback); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Lost a race with another reviewer.
			return nil, ErrNotReviewable
		}
		return nil, err
	}

	reviewed, err := s.Get(ctx, reviewer, id)
	if err != nil {
		return nil, err
	}
	ev := events.DocumentEvent{
		Type:       events.TypeReviewed,
		DocumentID: reviewed.ID,
		OwnerID:    reviewed.OwnerID,
		ActorID:    reviewer.UserID,
		FileName:   reviewed.FileName,
		Status:     string(reviewed.Status),
		OccurredAt: reviewed.UpdatedAt,
	}
	if reviewed.Feedback != nil {
		ev.Feedback = *reviewed.Feedback
	}
	s.publish(ctx, ev)
	return reviewed, nil
}

// Delete removes a document from storage, then deletes its record.
func (s *documentService) Delete(ctx context.Context, actor repository.Viewer, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if actor.Role != model.RoleAdmin {
		return ErrForbidden
	}

	// Find the document to get its storage path
	doc, err := s.repo.FindByID(ctx, id, actor)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	// Delete from storage first; if this fails, keep the row so the object
	// reference is not lost
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

// explainBlockedEdit turns a guarded update that matched no rows into the
// caller-facing error. The owner-scoped re-read decides which one it is: a
// document the owner cannot see reads as missing, a visible one must have
// been in the wrong state.
func (s *documentService) explainBlockedEdit(ctx context.Context, owner repository.Viewer, id string, blocked error) error {
	if _, err := s.repo.FindByID(ctx, id, owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return blocked
}

func (s *documentService) publish(ctx context.Context, ev events.DocumentEvent) {
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.log.Warn(ctx, "failed to publish document event",
			zap.String("event_type", ev.Type),
			zap.String("document_id", ev.DocumentID),
			zap.Error(err))
	}
}
