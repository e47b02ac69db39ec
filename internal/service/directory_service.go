package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/siakad-api/internal/models"
	appErrors "github.com/noah-isme/siakad-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type lecturerRepository interface {
	List(ctx context.Context, filter models.LecturerFilter) ([]models.Lecturer, int, error)
	FindByID(ctx context.Context, id string) (*models.Lecturer, error)
}

// StudentService exposes read access to students.
type StudentService struct {
	repo   studentRepository
	logger *zap.Logger
}

// NewStudentService creates a StudentService.
func NewStudentService(repo studentRepository, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, logger: logger}
}

// List returns students.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Storage(err, "failed to list students")
	}
	return students, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a student by id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student")
	}
	return student, nil
}

// LecturerService exposes read access to lecturers.
type LecturerService struct {
	repo   lecturerRepository
	logger *zap.Logger
}

// NewLecturerService creates a LecturerService.
func NewLecturerService(repo lecturerRepository, logger *zap.Logger) *LecturerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LecturerService{repo: repo, logger: logger}
}

// List returns lecturers.
func (s *LecturerService) List(ctx context.Context, filter models.LecturerFilter) ([]models.Lecturer, *models.Pagination, error) {
	lecturers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Storage(err, "failed to list lecturers")
	}
	return lecturers, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a lecturer by id.
func (s *LecturerService) Get(ctx context.Context, id string) (*models.Lecturer, error) {
	lecturer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "lecturer")
	}
	return lecturer, nil
}
