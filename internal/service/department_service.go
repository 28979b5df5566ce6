package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuskit/academic-records-api/internal/models"
	appErrors "github.com/campuskit/academic-records-api/pkg/errors"
)

const departmentListCacheKey = "departments:all"

type departmentRepository interface {
	departmentReader
	FindByCode(ctx context.Context, code string) (*models.Department, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, search string) ([]models.Department, error)
}

type listCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CreateDepartmentRequest creates a department.
type CreateDepartmentRequest struct {
	Name        string  `json:"name" validate:"required"`
	Code        string  `json:"code" validate:"required,max=10"`
	Description *string `json:"description,omitempty"`
}

// UpdateDepartmentRequest applies partial department changes.
type UpdateDepartmentRequest struct {
	Name        *string `json:"name,omitempty"`
	Code        *string `json:"code,omitempty"`
	Description *string `json:"description,omitempty"`
}

// DepartmentService manages department reference data. The unfiltered
// listing is served read-through from Redis and invalidated on writes.
type DepartmentService struct {
	repo      departmentRepository
	cache     listCache
	cacheTTL  time.Duration
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDepartmentService constructs DepartmentService. metrics may be nil.
func NewDepartmentService(repo departmentRepository, cache listCache, cacheTTL time.Duration, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *DepartmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{repo: repo, cache: cache, cacheTTL: cacheTTL, metrics: metrics, validator: validate, logger: logger}
}

// List returns departments, optionally filtered by keyword. Only the
// unfiltered listing is cached.
func (s *DepartmentService) List(ctx context.Context, search string) ([]models.Department, error) {
	if search == "" && s.cache != nil {
		var cached []models.Department
		if err := s.cache.Get(ctx, departmentListCacheKey, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("department cache read failed", zap.Error(err))
		}
		s.metrics.RecordCacheOperation(false)
	}

	departments, err := s.repo.List(ctx, search)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}

	if search == "" && s.cache != nil {
		if err := s.cache.Set(ctx, departmentListCacheKey, departments, s.cacheTTL); err != nil {
			s.logger.Warn("department cache write failed", zap.Error(err))
		}
	}
	return departments, nil
}

// Get returns a department by ID.
func (s *DepartmentService) Get(ctx context.Context, id string) (*models.Department, error) {
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}
	return department, nil
}

// GetByCode returns a department by its unique code.
func (s *DepartmentService) GetByCode(ctx context.Context, code string) (*models.Department, error) {
	department, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}
	return department, nil
}

// Create adds a department after checking name and code uniqueness.
func (s *DepartmentService) Create(ctx context.Context, req CreateDepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}

	if taken, err := s.repo.ExistsByName(ctx, req.Name); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check department name")
	} else if taken {
		return nil, appErrors.Clone(appErrors.ErrDuplicateDepartment, "department name already exists")
	}
	if taken, err := s.repo.ExistsByCode(ctx, req.Code); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check department code")
	} else if taken {
		return nil, appErrors.Clone(appErrors.ErrDuplicateDepartment, "department code already exists")
	}

	department := &models.Department{Name: req.Name, Code: req.Code, Description: req.Description}
	if err := s.repo.Create(ctx, department); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create department")
	}

	s.invalidate(ctx)
	return department, nil
}

// Update applies partial changes, re-checking uniqueness for changed fields.
func (s *DepartmentService) Update(ctx context.Context, id string, req UpdateDepartmentRequest) (*models.Department, error) {
	department, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != department.Name {
		if taken, err := s.repo.ExistsByName(ctx, *req.Name); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check department name")
		} else if taken {
			return nil, appErrors.Clone(appErrors.ErrDuplicateDepartment, "department name already exists")
		}
		department.Name = *req.Name
	}
	if req.Code != nil && *req.Code != department.Code {
		if taken, err := s.repo.ExistsByCode(ctx, *req.Code); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check department code")
		} else if taken {
			return nil, appErrors.Clone(appErrors.ErrDuplicateDepartment, "department code already exists")
		}
		department.Code = *req.Code
	}
	if req.Description != nil {
		department.Description = req.Description
	}

	if err := s.repo.Update(ctx, department); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update department")
	}

	s.invalidate(ctx)
	return department, nil
}

// Delete removes a department.
func (s *DepartmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete department")
	}
	s.invalidate(ctx)
	return nil
}

func (s *DepartmentService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, departmentListCacheKey); err != nil {
		s.logger.Warn("department cache invalidation failed", zap.Error(err))
	}
}
