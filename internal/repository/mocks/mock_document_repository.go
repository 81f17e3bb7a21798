package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mentorlink/internal/model"
	"mentorlink/internal/repository"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id string, v repository.Viewer) (*model.Document, error) {
	args := m.Called(ctx, id, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, v repository.Viewer, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	args := m.Called(ctx, v, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Document]), args.Error(1)
}

func (m *MockDocumentRepository) UpdateMeta(ctx context.Context, id, ownerID string, categoryID, description *string) error {
	args := m.Called(ctx, id, ownerID, categoryID, description)
	return args.Error(0)
}

func (m *MockDocumentRepository) Review(ctx context.Context, id, reviewerID string, status model.DocumentStatus, feedback *string) error {
	args := m.Called(ctx, id, reviewerID, status, feedback)
	return args.Error(0)
}

func (m *MockDocumentRepository) Resubmit(ctx context.Context, id, ownerID string) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
