package models

import "time"

// KRSStatus represents the approval state of a KRS entry.
type KRSStatus string

// Possible KRS statuses.
const (
	KRSStatusPending  KRSStatus = "PENDING"
	KRSStatusApproved KRSStatus = "APPROVED"
	KRSStatusRejected KRSStatus = "REJECTED"
)

// Valid reports whether s is a known status.
func (s KRSStatus) Valid() bool {
	switch s {
	case KRSStatusPending, KRSStatusApproved, KRSStatusRejected:
		return true
	}
	return false
}

// KRS ties a student to a course for one term. Semester holds the term label
// (e.g. "2025/2026-Ganjil"), not the student's semester counter.
type KRS struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Semester  string    `db:"semester" json:"semester"`
	Year      int       `db:"year" json:"year"`
	Status    KRSStatus `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// KRSDetail enriches KRS with student and course info.
type KRSDetail struct {
	KRS
	StudentName   string `db:"student_name" json:"student_name"`
	StudentNIM    string `db:"student_nim" json:"student_nim"`
	CourseCode    string `db:"course_code" json:"course_code"`
	CourseName    string `db:"course_name" json:"course_name"`
	CourseCredits int    `db:"course_credits" json:"course_credits"`
}

// KRSFilter provides filters for listing KRS entries.
type KRSFilter struct {
	Search    string
	StudentID string
	Semester  string
	Year      int
	Status    KRSStatus
	Page      int
	PageSize  int
}

// CreditLoadFilter selects the KRS rows counted against the credit ceiling.
// Rejected entries never count. ExcludeID drops the entry being updated.
type CreditLoadFilter struct {
	StudentID string
	Semester  string
	ExcludeID string
}

// KRSSummary is a student's credit load for one term.
type KRSSummary struct {
	StudentID        string      `json:"student_id"`
	Semester         string      `json:"semester"`
	TotalCredits     int         `json:"total_credits"`
	MaxCredits       int         `json:"max_credits"`
	RemainingCredits int         `json:"remaining_credits"`
	Items            []KRSDetail `json:"items"`
}
