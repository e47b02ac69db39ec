package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/siakad-api/internal/models"
	"github.com/noah-isme/siakad-api/pkg/database"
)

const courseColumns = `id, code, name, credits, semester, description, lecturer_id, created_at, updated_at`

// CourseRepository manages course persistence.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository instantiates the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func courseDetailDataset() *goqu.SelectDataset {
	return dialect.From(goqu.T("courses").As("c")).
		LeftJoin(goqu.T("lecturers").As("l"), goqu.On(goqu.I("l.id").Eq(goqu.I("c.lecturer_id"))))
}

var courseDetailColumns = []interface{}{
	goqu.I("c.id"), goqu.I("c.code"), goqu.I("c.name"), goqu.I("c.credits"), goqu.I("c.semester"),
	goqu.I("c.description"), goqu.I("c.lecturer_id"), goqu.I("c.created_at"), goqu.I("c.updated_at"),
	goqu.COALESCE(goqu.I("l.name"), "").As("lecturer_name"),
	goqu.COALESCE(goqu.I("l.nidn"), "").As("lecturer_nidn"),
}

// List returns courses with their lecturer.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error) {
	var conds []exp.Expression
	if filter.Search != "" {
		conds = append(conds, containsAny(filter.Search, "c.code", "c.name"))
	}
	if filter.Semester > 0 {
		conds = append(conds, goqu.I("c.semester").Eq(filter.Semester))
	}
	if filter.LecturerID != "" {
		conds = append(conds, goqu.I("c.lecturer_id").Eq(filter.LecturerID))
	}
	base := courseDetailDataset().Where(conds...)
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	query, args, err := toSQL(base.Select(courseDetailColumns...).
		Order(goqu.I("c.semester").Asc(), goqu.I("c.code").Asc()).
		Limit(limit).Offset(offset))
	if err != nil {
		return nil, 0, fmt.Errorf("build course list query: %w", err)
	}
	conn := database.Conn(ctx, r.db)
	var items []models.CourseDetail
	if err := sqlx.SelectContext(ctx, conn, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery, countArgs, err := toSQL(base.Select(goqu.COUNT(goqu.Star())))
	if err != nil {
		return nil, 0, fmt.Errorf("build course count query: %w", err)
	}
	var total int
	if err := sqlx.GetContext(ctx, conn, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return items, total, nil
}

// FindByID returns a course by id.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &course, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByCode returns a course by its catalog code.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	var course models.Course
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &course, `SELECT `+courseColumns+` FROM courses WHERE code = $1`, code); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindDetailByID returns a course joined with its lecturer.
func (r *CourseRepository) FindDetailByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	query, args, err := toSQL(courseDetailDataset().Select(courseDetailColumns...).Where(goqu.I("c.id").Eq(id)))
	if err != nil {
		return nil, fmt.Errorf("build course detail query: %w", err)
	}
	var detail models.CourseDetail
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &detail, query, args...); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create inserts a course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	const query = `INSERT INTO courses (id, code, name, credits, semester, description, lecturer_id, created_at, updated_at)
        VALUES (:id, :code, :name, :credits, :semester, :description, :lecturer_id, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.db), query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update modifies a course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET code = :code, name = :name, credits = :credits, semester = :semester,
        description = :description, lecturer_id = :lecturer_id, updated_at = :updated_at WHERE id = :id`
	result, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.db), query, course)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return requireAffected(result, "update course")
}

// Delete removes a course.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return requireAffected(result, "delete course")
}
