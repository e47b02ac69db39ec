package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/siakad-api/internal/dto"
	"github.com/noah-isme/siakad-api/internal/models"
	appErrors "github.com/noah-isme/siakad-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindByCode(ctx context.Context, code string) (*models.Course, error)
	FindDetailByID(ctx context.Context, id string) (*models.CourseDetail, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type courseKRSCounter interface {
	CountByCourse(ctx context.Context, courseID string) (int, error)
}

type courseGradeCounter interface {
	CountByCourse(ctx context.Context, courseID string) (int, error)
}

type summaryInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// CourseService manages the course catalog.
type CourseService struct {
	repo      courseRepository
	summaries summaryInvalidator
	lecturers lecturerReader
	krs       courseKRSCounter
	grades    courseGradeCounter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService creates a CourseService.
func NewCourseService(repo courseRepository, lecturers lecturerReader, krs courseKRSCounter, grades courseGradeCounter, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, lecturers: lecturers, krs: krs, grades: grades, validator: validate, logger: logger}
}

// UseSummaryCache attaches the KRS summary cache, which embeds course codes and names.
func (s *CourseService) UseSummaryCache(cache summaryInvalidator) {
	s.summaries = cache
}

// List returns courses matching filter.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Storage(err, "failed to list courses")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a course with its lecturer.
func (s *CourseService) Get(ctx context.Context, id string) (*models.CourseDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "course")
	}
	return detail, nil
}

// Create adds a course to the catalog.
func (s *CourseService) Create(ctx context.Context, req dto.CreateCourseRequest) (*models.CourseDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid course payload")
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if err := s.ensureCodeFree(ctx, code, ""); err != nil {
		return nil, err
	}
	if _, err := s.lecturers.FindByID(ctx, req.LecturerID); err != nil {
		return nil, lookupError(err, "lecturer")
	}
	course := &models.Course{
		Code:        code,
		Name:        req.Name,
		Credits:     req.Credits,
		Semester:    req.Semester,
		Description: blankToNil(req.Description),
		LecturerID:  req.LecturerID,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, writeError(err, "course code already exists", "failed to create course")
	}
	return s.detail(ctx, course), nil
}

// Update patches a course. Credits are frozen once KRS entries reference the course.
func (s *CourseService) Update(ctx context.Context, id string, req dto.UpdateCourseRequest) (*models.CourseDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid course payload")
	}
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "course")
	}
	previousCode, previousName := course.Code, course.Name
	if req.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.Code))
		if code != course.Code {
			if err := s.ensureCodeFree(ctx, code, course.ID); err != nil {
				return nil, err
			}
		}
		course.Code = code
	}
	if req.LecturerID != nil && *req.LecturerID != course.LecturerID {
		if _, err := s.lecturers.FindByID(ctx, *req.LecturerID); err != nil {
			return nil, lookupError(err, "lecturer")
		}
		course.LecturerID = *req.LecturerID
	}
	if req.Credits != nil && *req.Credits != course.Credits {
		enrolled, err := s.krs.CountByCourse(ctx, course.ID)
		if err != nil {
			return nil, appErrors.Storage(err, "failed to count course krs")
		}
		if enrolled > 0 {
			return nil, appErrors.Clone(appErrors.ErrConflict, "credits cannot change while krs reference the course")
		}
		course.Credits = *req.Credits
	}
	if req.Name != nil {
		course.Name = *req.Name
	}
	renamed := course.Code != previousCode || course.Name != previousName
	if req.Semester != nil {
		course.Semester = *req.Semester
	}
	if req.Description != nil {
		course.Description = blankToNil(req.Description)
	}
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, updateError(err, "course", "course code already exists")
	}
	if renamed && s.summaries != nil {
		_ = s.summaries.Invalidate(ctx, summaryCachePattern)
	}
	return s.detail(ctx, course), nil
}

// Delete removes a course that has neither KRS entries nor grades.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupError(err, "course")
	}
	enrolled, err := s.krs.CountByCourse(ctx, id)
	if err != nil {
		return appErrors.Storage(err, "failed to count course krs")
	}
	if enrolled > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "course has krs entries")
	}
	graded, err := s.grades.CountByCourse(ctx, id)
	if err != nil {
		return appErrors.Storage(err, "failed to count course grades")
	}
	if graded > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "course has grades")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteError(err, "course")
	}
	return nil
}

func (s *CourseService) ensureCodeFree(ctx context.Context, code, selfID string) error {
	existing, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return appErrors.Storage(err, "failed to check course code")
	}
	if existing.ID != selfID {
		return appErrors.Clone(appErrors.ErrConflict, "course code already exists")
	}
	return nil
}

func (s *CourseService) detail(ctx context.Context, course *models.Course) *models.CourseDetail {
	detail, err := s.repo.FindDetailByID(ctx, course.ID)
	if err != nil {
		s.logger.Warn("failed to load course detail", zap.String("course_id", course.ID), zap.Error(err))
		return &models.CourseDetail{Course: *course}
	}
	return detail
}
