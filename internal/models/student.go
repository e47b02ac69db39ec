package models

import "time"

// StudentStatus captures the academic standing of a student.
type StudentStatus string

// Possible student statuses.
const (
	StudentStatusActive    StudentStatus = "ACTIVE"
	StudentStatusInactive  StudentStatus = "INACTIVE"
	StudentStatusGraduated StudentStatus = "GRADUATED"
	StudentStatusDropout   StudentStatus = "DROPOUT"
)

// Student represents a registered mahasiswa.
type Student struct {
	ID        string        `db:"id" json:"id"`
	NIM       string        `db:"nim" json:"nim"`
	Name      string        `db:"name" json:"name"`
	Email     string        `db:"email" json:"email"`
	Phone     *string       `db:"phone" json:"phone,omitempty"`
	Address   *string       `db:"address" json:"address,omitempty"`
	Program   string        `db:"program" json:"program"`
	Semester  int           `db:"semester" json:"semester"`
	Status    StudentStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search   string
	Program  string
	Status   StudentStatus
	Page     int
	PageSize int
}
