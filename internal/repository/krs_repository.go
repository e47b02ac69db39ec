package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/siakad-api/internal/models"
	"github.com/noah-isme/siakad-api/pkg/database"
)

const krsColumns = `id, student_id, course_id, semester, year, status, created_at, updated_at`

// KRSRepository handles persistence of KRS entries.
type KRSRepository struct {
	db *sqlx.DB
}

// NewKRSRepository constructs the repository.
func NewKRSRepository(db *sqlx.DB) *KRSRepository {
	return &KRSRepository{db: db}
}

func krsDetailDataset() *goqu.SelectDataset {
	return dialect.From(goqu.T("krs").As("k")).
		LeftJoin(goqu.T("students").As("s"), goqu.On(goqu.I("s.id").Eq(goqu.I("k.student_id")))).
		LeftJoin(goqu.T("courses").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("k.course_id"))))
}

var krsDetailColumns = []interface{}{
	goqu.I("k.id"), goqu.I("k.student_id"), goqu.I("k.course_id"), goqu.I("k.semester"),
	goqu.I("k.year"), goqu.I("k.status"), goqu.I("k.created_at"), goqu.I("k.updated_at"),
	goqu.COALESCE(goqu.I("s.name"), "").As("student_name"),
	goqu.COALESCE(goqu.I("s.nim"), "").As("student_nim"),
	goqu.COALESCE(goqu.I("c.code"), "").As("course_code"),
	goqu.COALESCE(goqu.I("c.name"), "").As("course_name"),
	goqu.COALESCE(goqu.I("c.credits"), 0).As("course_credits"),
}

func krsConditions(filter models.KRSFilter) []exp.Expression {
	var conds []exp.Expression
	if filter.Search != "" {
		conds = append(conds, containsAny(filter.Search, "s.name", "s.nim", "c.name", "c.code"))
	}
	if filter.StudentID != "" {
		conds = append(conds, goqu.I("k.student_id").Eq(filter.StudentID))
	}
	if filter.Semester != "" {
		conds = append(conds, goqu.I("k.semester").Eq(filter.Semester))
	}
	if filter.Year > 0 {
		conds = append(conds, goqu.I("k.year").Eq(filter.Year))
	}
	if filter.Status != "" {
		conds = append(conds, goqu.I("k.status").Eq(string(filter.Status)))
	}
	return conds
}

// List returns KRS entries filtered by the provided criteria.
func (r *KRSRepository) List(ctx context.Context, filter models.KRSFilter) ([]models.KRSDetail, int, error) {
	base := krsDetailDataset().Where(krsConditions(filter)...)
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	query, args, err := toSQL(base.Select(krsDetailColumns...).
		Order(goqu.I("k.year").Desc(), goqu.I("k.semester").Desc(), goqu.I("k.created_at").Desc()).
		Limit(limit).Offset(offset))
	if err != nil {
		return nil, 0, fmt.Errorf("build krs list query: %w", err)
	}
	conn := database.Conn(ctx, r.db)
	var items []models.KRSDetail
	if err := sqlx.SelectContext(ctx, conn, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list krs: %w", err)
	}

	countQuery, countArgs, err := toSQL(base.Select(goqu.COUNT(goqu.Star())))
	if err != nil {
		return nil, 0, fmt.Errorf("build krs count query: %w", err)
	}
	var total int
	if err := sqlx.GetContext(ctx, conn, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count krs: %w", err)
	}
	return items, total, nil
}

// ListByStudentTerm returns every KRS entry of a student in a term, rejected ones included.
func (r *KRSRepository) ListByStudentTerm(ctx context.Context, studentID, semester string) ([]models.KRSDetail, error) {
	query, args, err := toSQL(krsDetailDataset().
		Select(krsDetailColumns...).
		Where(goqu.I("k.student_id").Eq(studentID), goqu.I("k.semester").Eq(semester)).
		Order(goqu.I("c.code").Asc()))
	if err != nil {
		return nil, fmt.Errorf("build krs term query: %w", err)
	}
	var items []models.KRSDetail
	if err := sqlx.SelectContext(ctx, database.Conn(ctx, r.db), &items, query, args...); err != nil {
		return nil, fmt.Errorf("list student term krs: %w", err)
	}
	return items, nil
}

// FindByID returns a KRS entry by its ID.
func (r *KRSRepository) FindByID(ctx context.Context, id string) (*models.KRS, error) {
	query := `SELECT ` + krsColumns + ` FROM krs WHERE id = $1`
	var krs models.KRS
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &krs, query, id); err != nil {
		return nil, err
	}
	return &krs, nil
}

// FindDetailByID returns a KRS entry with student and course info.
func (r *KRSRepository) FindDetailByID(ctx context.Context, id string) (*models.KRSDetail, error) {
	query, args, err := toSQL(krsDetailDataset().Select(krsDetailColumns...).Where(goqu.I("k.id").Eq(id)))
	if err != nil {
		return nil, fmt.Errorf("build krs detail query: %w", err)
	}
	var detail models.KRSDetail
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &detail, query, args...); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Exists checks whether a KRS entry already holds the (student, course, term) triple.
func (r *KRSRepository) Exists(ctx context.Context, studentID, courseID, semester, excludeID string) (bool, error) {
	query := "SELECT 1 FROM krs WHERE student_id = $1 AND course_id = $2 AND semester = $3"
	args := []interface{}{studentID, courseID, semester}
	if excludeID != "" {
		query += fmt.Sprintf(" AND id <> $%d", len(args)+1)
		args = append(args, excludeID)
	}
	query += " LIMIT 1"
	var exists int
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &exists, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check duplicate krs: %w", err)
	}
	return true, nil
}

// SumCredits totals course credits of the non-rejected KRS entries matching filter.
func (r *KRSRepository) SumCredits(ctx context.Context, filter models.CreditLoadFilter) (int, error) {
	ds := dialect.From(goqu.T("krs").As("k")).
		Join(goqu.T("courses").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("k.course_id")))).
		Select(goqu.COALESCE(goqu.SUM(goqu.I("c.credits")), 0)).
		Where(
			goqu.I("k.student_id").Eq(filter.StudentID),
			goqu.I("k.semester").Eq(filter.Semester),
			goqu.I("k.status").Neq(string(models.KRSStatusRejected)),
		)
	if filter.ExcludeID != "" {
		ds = ds.Where(goqu.I("k.id").Neq(filter.ExcludeID))
	}
	query, args, err := toSQL(ds)
	if err != nil {
		return 0, fmt.Errorf("build credit load query: %w", err)
	}
	var total int
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &total, query, args...); err != nil {
		return 0, fmt.Errorf("sum krs credits: %w", err)
	}
	return total, nil
}

// CountByCourse counts KRS entries referencing a course.
func (r *KRSRepository) CountByCourse(ctx context.Context, courseID string) (int, error) {
	var total int
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &total, `SELECT COUNT(*) FROM krs WHERE course_id = $1`, courseID); err != nil {
		return 0, fmt.Errorf("count course krs: %w", err)
	}
	return total, nil
}

// Create persists a new KRS entry.
func (r *KRSRepository) Create(ctx context.Context, krs *models.KRS) error {
	if krs.ID == "" {
		krs.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if krs.CreatedAt.IsZero() {
		krs.CreatedAt = now
	}
	krs.UpdatedAt = now
	if krs.Status == "" {
		krs.Status = models.KRSStatusPending
	}
	const query = `INSERT INTO krs (id, student_id, course_id, semester, year, status, created_at, updated_at)
        VALUES (:id, :student_id, :course_id, :semester, :year, :status, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.db), query, krs); err != nil {
		return fmt.Errorf("create krs: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of a KRS entry.
func (r *KRSRepository) Update(ctx context.Context, krs *models.KRS) error {
	krs.UpdatedAt = time.Now().UTC()
	const query = `UPDATE krs SET student_id = :student_id, course_id = :course_id, semester = :semester,
        year = :year, status = :status, updated_at = :updated_at WHERE id = :id`
	result, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.db), query, krs)
	if err != nil {
		return fmt.Errorf("update krs: %w", err)
	}
	return requireAffected(result, "update krs")
}

// Delete removes a KRS entry by id.
func (r *KRSRepository) Delete(ctx context.Context, id string) error {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM krs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete krs: %w", err)
	}
	return requireAffected(result, "delete krs")
}
