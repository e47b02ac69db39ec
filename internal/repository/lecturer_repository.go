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

// LecturerRepository provides read access to lecturers.
type LecturerRepository struct {
	db *sqlx.DB
}

// NewLecturerRepository creates a lecturer repository.
func NewLecturerRepository(db *sqlx.DB) *LecturerRepository {
	return &LecturerRepository{db: db}
}

// List returns lecturers filtered by search and department.
func (r *LecturerRepository) List(ctx context.Context, filter models.LecturerFilter) ([]models.Lecturer, int, error) {
	var conds []exp.Expression
	if filter.Search != "" {
		conds = append(conds, containsAny(filter.Search, "nidn", "name", "email"))
	}
	if filter.Department != "" {
		conds = append(conds, goqu.C("department").Eq(filter.Department))
	}
	base := dialect.From("lecturers").Where(conds...)
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	query, args, err := toSQL(base.Select(
		"id", "nidn", "name", "email", "phone", "position", "department", "created_at", "updated_at",
	).Order(goqu.C("name").Asc()).Limit(limit).Offset(offset))
	if err != nil {
		return nil, 0, fmt.Errorf("build lecturer list query: %w", err)
	}
	conn := database.Conn(ctx, r.db)
	var lecturers []models.Lecturer
	if err := sqlx.SelectContext(ctx, conn, &lecturers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list lecturers: %w", err)
	}

	countQuery, countArgs, err := toSQL(base.Select(goqu.COUNT(goqu.Star())))
	if err != nil {
		return nil, 0, fmt.Errorf("build lecturer count query: %w", err)
	}
	var total int
	if err := sqlx.GetContext(ctx, conn, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count lecturers: %w", err)
	}
	return lecturers, total, nil
}

// FindByID returns a lecturer by id.
func (r *LecturerRepository) FindByID(ctx context.Context, id string) (*models.Lecturer, error) {
	var lecturer models.Lecturer
	query := `SELECT id, nidn, name, email, phone, position, department, created_at, updated_at FROM lecturers WHERE id = $1`
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &lecturer, query, id); err != nil {
		return nil, err
	}
	return &lecturer, nil
}
