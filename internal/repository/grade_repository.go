package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/siakad-api/pkg/database"
)

// GradeRepository answers grade lookups needed by KRS and course guards.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs a grade repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// CountForEnrollment counts grades recorded for a (student, course, term) triple.
func (r *GradeRepository) CountForEnrollment(ctx context.Context, studentID, courseID, semester string) (int, error) {
	var total int
	const query = `SELECT COUNT(*) FROM grades WHERE student_id = $1 AND course_id = $2 AND semester = $3`
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &total, query, studentID, courseID, semester); err != nil {
		return 0, fmt.Errorf("count enrollment grades: %w", err)
	}
	return total, nil
}

// CountByCourse counts grades recorded for a course.
func (r *GradeRepository) CountByCourse(ctx context.Context, courseID string) (int, error) {
	var total int
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &total, `SELECT COUNT(*) FROM grades WHERE course_id = $1`, courseID); err != nil {
		return 0, fmt.Errorf("count course grades: %w", err)
	}
	return total, nil
}
