package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mentorlink/internal/cache"
	"mentorlink/internal/logging"
	"mentorlink/internal/model"
	"mentorlink/internal/repository"
)

// categoryCacheKey holds the serialized category list. Mutations delete it;
// the next List repopulates.
const categoryCacheKey = "mentorlink:categories"

// CategoryService manages the document categories. Reads are served from the
// cache when possible; the database stays the source of truth.
type CategoryService interface {
	Create(ctx context.Context, name, description string) (*model.Category, error)
	Get(ctx context.Context, id string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, id, name, description string) (*model.Category, error)
	Delete(ctx context.Context, id string) error
}

type categoryService struct {
	repo  repository.CategoryRepository
	cache cache.Cache
	ttl   time.Duration
	log   *logging.Logger
}

// NewCategoryService constructs a new CategoryService. ttl bounds how long a
// cached category list may serve reads.
func NewCategoryService(repo repository.CategoryRepository, c cache.Cache, ttl time.Duration, log *logging.Logger) CategoryService {
	return &categoryService{repo: repo, cache: c, ttl: ttl, log: log}
}

func (s *categoryService) Create(ctx context.Context, name, description string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	c := &model.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, c)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCategoryNameTaken
		}
		return nil, err
	}

	s.cache.Delete(ctx, categoryCacheKey)
	return stored, nil
}

func (s *categoryService) Get(ctx context.Context, id string) (*model.Category, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	if data, ok := s.cache.Get(ctx, categoryCacheKey); ok {
		var cached []model.Category
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		// Unreadable cache entries are dropped and rebuilt from the database.
		s.cache.Delete(ctx, categoryCacheKey)
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(items); err == nil {
		s.cache.Set(ctx, categoryCacheKey, data, s.ttl)
	} else {
		s.log.Warn(ctx, "failed to serialize categories for cache", zap.Error(err))
	}
	return items, nil
}

func (s *categoryService) Update(ctx context.Context, id, name, description string) (*model.Category, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	c := &model.Category{ID: id, Name: name, Description: strings.TrimSpace(description)}
	if err := s.repo.Update(ctx, c); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrCategoryNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrCategoryNameTaken
		default:
			return nil, err
		}
	}

	s.cache.Delete(ctx, categoryCacheKey)
	return s.Get(ctx, id)
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	// Confirm existence so a missing category reports as such; the delete
	// itself is idempotent.
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Delete(ctx, categoryCacheKey)
	return nil
}
