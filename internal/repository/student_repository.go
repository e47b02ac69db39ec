package repository

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/siakad-api/internal/models"
	"github.com/noah-isme/siakad-api/pkg/database"
)

var studentColumns = []interface{}{
	"id", "nim", "name", "email", "phone", "address", "program", "semester", "status", "created_at", "updated_at",
}

// StudentRepository provides read access to students.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new repository instance.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students filtered by search, program and status.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	var conds []exp.Expression
	if filter.Search != "" {
		conds = append(conds, containsAny(filter.Search, "nim", "name", "email"))
	}
	if filter.Program != "" {
		conds = append(conds, goqu.C("program").Eq(filter.Program))
	}
	if filter.Status != "" {
		conds = append(conds, goqu.C("status").Eq(string(filter.Status)))
	}
	base := dialect.From("students").Where(conds...)
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	query, args, err := toSQL(base.Select(studentColumns...).Order(goqu.C("nim").Asc()).Limit(limit).Offset(offset))
	if err != nil {
		return nil, 0, fmt.Errorf("build student list query: %w", err)
	}
	conn := database.Conn(ctx, r.db)
	var students []models.Student
	if err := sqlx.SelectContext(ctx, conn, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery, countArgs, err := toSQL(base.Select(goqu.COUNT(goqu.Star())))
	if err != nil {
		return nil, 0, fmt.Errorf("build student count query: %w", err)
	}
	var total int
	if err := sqlx.GetContext(ctx, conn, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	query := `SELECT id, nim, name, email, phone, address, program, semester, status, created_at, updated_at FROM students WHERE id = $1`
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}
