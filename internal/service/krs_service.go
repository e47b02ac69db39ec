package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/siakad-api/internal/dto"
	"github.com/noah-isme/siakad-api/internal/models"
	appErrors "github.com/noah-isme/siakad-api/pkg/errors"
	"github.com/noah-isme/siakad-api/pkg/middleware/requestid"
)

const (
	// DefaultMaxCredits is the per-term credit ceiling used when none is configured.
	DefaultMaxCredits = 24

	krsComponent = "krs"
)

type krsRepository interface {
	List(ctx context.Context, filter models.KRSFilter) ([]models.KRSDetail, int, error)
	ListByStudentTerm(ctx context.Context, studentID, semester string) ([]models.KRSDetail, error)
	FindByID(ctx context.Context, id string) (*models.KRS, error)
	FindDetailByID(ctx context.Context, id string) (*models.KRSDetail, error)
	Exists(ctx context.Context, studentID, courseID, semester, excludeID string) (bool, error)
	SumCredits(ctx context.Context, filter models.CreditLoadFilter) (int, error)
	Create(ctx context.Context, krs *models.KRS) error
	Update(ctx context.Context, krs *models.KRS) error
	Delete(ctx context.Context, id string) error
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type enrollmentGradeCounter interface {
	CountForEnrollment(ctx context.Context, studentID, courseID, semester string) (int, error)
}

type lockRunner interface {
	WithinLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// KRSServiceConfig tunes the admission rules.
type KRSServiceConfig struct {
	MaxCredits int
	SummaryTTL time.Duration
}

// KRSServiceParams groups constructor dependencies.
type KRSServiceParams struct {
	Repo      krsRepository
	Students  studentReader
	Courses   courseReader
	Grades    enrollmentGradeCounter
	Locker    lockRunner
	Cache     *CacheService
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
	Config    KRSServiceConfig
}

// KRSService admits, updates and removes KRS entries under the duplicate and credit-ceiling rules.
type KRSService struct {
	repo      krsRepository
	students  studentReader
	courses   courseReader
	grades    enrollmentGradeCounter
	locker    lockRunner
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       KRSServiceConfig
}

// NewKRSService constructs a KRSService with sane defaults.
func NewKRSService(params KRSServiceParams) *KRSService {
	cfg := params.Config
	if cfg.MaxCredits <= 0 {
		cfg.MaxCredits = DefaultMaxCredits
	}
	if cfg.SummaryTTL <= 0 {
		cfg.SummaryTTL = 5 * time.Minute
	}
	validate := params.Validator
	if validate == nil {
		validate = NewValidator()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KRSService{
		repo:      params.Repo,
		students:  params.Students,
		courses:   params.Courses,
		grades:    params.Grades,
		locker:    params.Locker,
		cache:     params.Cache,
		metrics:   params.Metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// MaxCredits returns the configured per-term ceiling.
func (s *KRSService) MaxCredits() int {
	return s.cfg.MaxCredits
}

// List returns KRS entries matching filter.
func (s *KRSService) List(ctx context.Context, filter models.KRSFilter) ([]models.KRSDetail, *models.Pagination, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, invalidFilter("status", string(filter.Status))
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Storage(err, "failed to list krs")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a single KRS entry.
func (s *KRSService) Get(ctx context.Context, id string) (*models.KRSDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "krs")
	}
	return detail, nil
}

// Create admits a new KRS entry if it is not a duplicate and keeps the term load within the ceiling.
func (s *KRSService) Create(ctx context.Context, req dto.CreateKRSRequest) (detail *models.KRSDetail, err error) {
	defer func() { s.metrics.RecordDecision(krsComponent, decisionOutcome(err)) }()

	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "required fields missing")
	}
	status := req.Status
	if status == "" {
		status = models.KRSStatusPending
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		return nil, lookupError(err, "student")
	}
	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		return nil, lookupError(err, "course")
	}

	krs := &models.KRS{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Semester:  req.Semester,
		Year:      req.Year,
		Status:    status,
	}

	start := time.Now()
	err = s.locker.WithinLock(ctx, krsLockKey(krs.StudentID, krs.Semester), func(ctx context.Context) error {
		if err := s.ensureAdmissible(ctx, krs, course.Credits, ""); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, krs); err != nil {
			return writeError(err, "duplicate enrollment for this course in this term", "failed to create krs")
		}
		return nil
	})
	s.metrics.ObserveTransaction("krs.create", time.Since(start))
	if err != nil {
		s.logDecision(ctx, "krs create rejected", krs, err)
		return nil, passThrough(err, "failed to create krs")
	}

	s.invalidateSummaries(ctx, krs)
	s.logger.Info("krs created",
		zap.String("request_id", requestid.FromContext(ctx)),
		zap.String("krs_id", krs.ID),
		zap.String("student_id", krs.StudentID),
		zap.String("course_id", krs.CourseID),
		zap.String("semester", krs.Semester),
	)
	return s.detailOrFallback(ctx, krs), nil
}

// Update applies a patch. The duplicate and ceiling checks only run when the
// (student, course, term) triple changes, so status-only edits always pass.
func (s *KRSService) Update(ctx context.Context, id string, req dto.UpdateKRSRequest) (detail *models.KRSDetail, err error) {
	defer func() { s.metrics.RecordDecision(krsComponent, decisionOutcome(err)) }()

	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid krs payload")
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "krs")
	}

	target := *current
	if req.StudentID != nil {
		target.StudentID = *req.StudentID
	}
	if req.CourseID != nil {
		target.CourseID = *req.CourseID
	}
	if req.Semester != nil {
		target.Semester = *req.Semester
	}
	if req.Year != nil {
		target.Year = *req.Year
	}
	if req.Status != nil {
		target.Status = *req.Status
	}

	if target.StudentID != current.StudentID {
		if _, err := s.students.FindByID(ctx, target.StudentID); err != nil {
			return nil, lookupError(err, "student")
		}
	}
	tripleChanged := target.StudentID != current.StudentID ||
		target.CourseID != current.CourseID ||
		target.Semester != current.Semester

	var credits int
	if tripleChanged {
		course, err := s.courses.FindByID(ctx, target.CourseID)
		if err != nil {
			return nil, lookupError(err, "course")
		}
		credits = course.Credits
	}

	start := time.Now()
	err = s.locker.WithinLock(ctx, krsLockKey(target.StudentID, target.Semester), func(ctx context.Context) error {
		if tripleChanged {
			if err := s.ensureAdmissible(ctx, &target, credits, target.ID); err != nil {
				return err
			}
		}
		if err := s.repo.Update(ctx, &target); err != nil {
			return updateError(err, "krs", "duplicate enrollment for this course in this term")
		}
		return nil
	})
	s.metrics.ObserveTransaction("krs.update", time.Since(start))
	if err != nil {
		s.logDecision(ctx, "krs update rejected", &target, err)
		return nil, passThrough(err, "failed to update krs")
	}

	if tripleChanged {
		s.invalidateSummaries(ctx, current, &target)
	} else {
		s.invalidateSummaries(ctx, current)
	}
	return s.detailOrFallback(ctx, &target), nil
}

// Delete removes a KRS entry unless a grade has been recorded for it.
func (s *KRSService) Delete(ctx context.Context, id string) (err error) {
	defer func() { s.metrics.RecordDecision(krsComponent, decisionOutcome(err)) }()

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, "krs")
	}

	err = s.locker.WithinLock(ctx, krsLockKey(current.StudentID, current.Semester), func(ctx context.Context) error {
		graded, err := s.grades.CountForEnrollment(ctx, current.StudentID, current.CourseID, current.Semester)
		if err != nil {
			return appErrors.Storage(err, "failed to count grades")
		}
		if graded > 0 {
			return appErrors.Clone(appErrors.ErrConflict, "grades exist for this enrollment")
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return deleteError(err, "krs")
		}
		return nil
	})
	if err != nil {
		s.logDecision(ctx, "krs delete rejected", current, err)
		return passThrough(err, "failed to delete krs")
	}

	s.invalidateSummaries(ctx, current)
	return nil
}

// Summary returns a student's credit load for a term, served from cache when possible.
// A miss is recomputed and cached while holding the term lock.
func (s *KRSService) Summary(ctx context.Context, query dto.KRSSummaryQuery) (*models.KRSSummary, bool, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, false, validationError(err, "student_id and semester are required")
	}
	if _, err := s.students.FindByID(ctx, query.StudentID); err != nil {
		return nil, false, lookupError(err, "student")
	}

	key := summaryCacheKey(query.StudentID, query.Semester)
	var cached models.KRSSummary
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	var summary *models.KRSSummary
	err := s.locker.WithinLock(ctx, krsLockKey(query.StudentID, query.Semester), func(ctx context.Context) error {
		items, err := s.repo.ListByStudentTerm(ctx, query.StudentID, query.Semester)
		if err != nil {
			return appErrors.Storage(err, "failed to load krs summary")
		}
		summary = s.buildSummary(query, items)
		_ = s.cache.Set(ctx, key, summary, s.cfg.SummaryTTL)
		return nil
	})
	if err != nil {
		return nil, false, passThrough(err, "failed to load krs summary")
	}
	return summary, false, nil
}

func (s *KRSService) buildSummary(query dto.KRSSummaryQuery, items []models.KRSDetail) *models.KRSSummary {
	if items == nil {
		items = []models.KRSDetail{}
	}
	total := 0
	for _, item := range items {
		if item.Status != models.KRSStatusRejected {
			total += item.CourseCredits
		}
	}
	remaining := s.cfg.MaxCredits - total
	if remaining < 0 {
		remaining = 0
	}
	return &models.KRSSummary{
		StudentID:        query.StudentID,
		Semester:         query.Semester,
		TotalCredits:     total,
		MaxCredits:       s.cfg.MaxCredits,
		RemainingCredits: remaining,
		Items:            items,
	}
}

// ensureAdmissible applies the duplicate rule and the credit ceiling to candidate.
// Rejected entries never count towards the load; a total equal to the ceiling passes.
func (s *KRSService) ensureAdmissible(ctx context.Context, candidate *models.KRS, credits int, excludeID string) error {
	exists, err := s.repo.Exists(ctx, candidate.StudentID, candidate.CourseID, candidate.Semester, excludeID)
	if err != nil {
		return appErrors.Storage(err, "failed to check duplicate krs")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "duplicate enrollment for this course in this term")
	}

	load, err := s.repo.SumCredits(ctx, models.CreditLoadFilter{
		StudentID: candidate.StudentID,
		Semester:  candidate.Semester,
		ExcludeID: excludeID,
	})
	if err != nil {
		return appErrors.Storage(err, "failed to compute credit load")
	}
	attempted := load + credits
	if attempted > s.cfg.MaxCredits {
		return appErrors.Clone(appErrors.ErrCapacityExceeded, "credit-load ceiling exceeded").WithDetails(map[string]interface{}{
			"attempted_total": attempted,
			"ceiling":         s.cfg.MaxCredits,
		})
	}
	return nil
}

func (s *KRSService) detailOrFallback(ctx context.Context, krs *models.KRS) *models.KRSDetail {
	detail, err := s.repo.FindDetailByID(ctx, krs.ID)
	if err != nil {
		s.logger.Warn("failed to load krs detail", zap.String("krs_id", krs.ID), zap.Error(err))
		return &models.KRSDetail{KRS: *krs}
	}
	return detail
}

// invalidateSummaries deletes the cached summaries of the given (student, term) pairs.
func (s *KRSService) invalidateSummaries(ctx context.Context, krs ...*models.KRS) {
	keys := make([]string, 0, len(krs))
	for _, entry := range krs {
		keys = append(keys, summaryCacheKey(entry.StudentID, entry.Semester))
	}
	_ = s.cache.Delete(ctx, keys...)
}

func (s *KRSService) logDecision(ctx context.Context, msg string, krs *models.KRS, err error) {
	fields := []zap.Field{
		zap.String("request_id", requestid.FromContext(ctx)),
		zap.String("student_id", krs.StudentID),
		zap.String("course_id", krs.CourseID),
		zap.String("semester", krs.Semester),
		zap.Error(err),
	}
	if decisionOutcome(err) == OutcomeError {
		s.logger.Error(msg, fields...)
		return
	}
	s.logger.Info(msg, fields...)
}

func krsLockKey(studentID, semester string) string {
	return fmt.Sprintf("krs:%s:%s", studentID, semester)
}

// summaryCachePattern matches every cached KRS summary.
const summaryCachePattern = "krs:summary:*"

func summaryCacheKey(studentID, semester string) string {
	return fmt.Sprintf("krs:summary:%s:%s", studentID, semester)
}
