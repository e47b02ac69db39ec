package models

import "time"

// Grade is a final course grade. It blocks deletion of the matching KRS.
type Grade struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Semester  string    `db:"semester" json:"semester"`
	Year      int       `db:"year" json:"year"`
	Grade     string    `db:"grade" json:"grade"`
	Score     *float64  `db:"score" json:"score,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
