package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"mentorlink/internal/model"
	"mentorlink/internal/repository"
	"mentorlink/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Submit(ctx context.Context, r io.Reader, in service.SubmitInput) (*model.Document, error) {
	args := m.Called(ctx, r, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, v repository.Viewer, q service.ListQuery) (*service.DocumentListResult, error) {
	args := m.Called(ctx, v, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, v repository.Viewer, id string) (*model.Document, error) {
	args := m.Called(ctx, v, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Download(ctx context.Context, v repository.Viewer, id string) (string, error) {
	args := m.Called(ctx, v, id)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) UpdateMeta(ctx context.Context, ownerID, id string, categoryID, description *string) (*model.Document, error) {
	args := m.Called(ctx, ownerID, id, categoryID, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Resubmit(ctx context.Context, ownerID, id string) (*model.Document, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Review(ctx context.Context, reviewer repository.Viewer, id string, in service.ReviewInput) (*model.Document, error) {
	args := m.Called(ctx, reviewer, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, actor repository.Viewer, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}
