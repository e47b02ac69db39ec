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

const scheduleColumns = `id, course_id, lecturer_id, room_id, day, start_time, end_time, semester, academic_year, status, notes, created_at, updated_at`

// ScheduleRepository persists room bookings.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a new repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func scheduleDetailDataset() *goqu.SelectDataset {
	return dialect.From(goqu.T("schedules").As("sc")).
		LeftJoin(goqu.T("courses").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("sc.course_id")))).
		LeftJoin(goqu.T("lecturers").As("l"), goqu.On(goqu.I("l.id").Eq(goqu.I("sc.lecturer_id")))).
		LeftJoin(goqu.T("rooms").As("r"), goqu.On(goqu.I("r.id").Eq(goqu.I("sc.room_id"))))
}

var scheduleDetailColumns = []interface{}{
	goqu.I("sc.id"), goqu.I("sc.course_id"), goqu.I("sc.lecturer_id"), goqu.I("sc.room_id"),
	goqu.I("sc.day"), goqu.I("sc.start_time"), goqu.I("sc.end_time"), goqu.I("sc.semester"),
	goqu.I("sc.academic_year"), goqu.I("sc.status"), goqu.I("sc.notes"),
	goqu.I("sc.created_at"), goqu.I("sc.updated_at"),
	goqu.COALESCE(goqu.I("c.code"), "").As("course_code"),
	goqu.COALESCE(goqu.I("c.name"), "").As("course_name"),
	goqu.COALESCE(goqu.I("l.name"), "").As("lecturer_name"),
	goqu.COALESCE(goqu.I("r.code"), "").As("room_code"),
	goqu.COALESCE(goqu.I("r.name"), "").As("room_name"),
}

func scheduleConditions(filter models.ScheduleFilter) []exp.Expression {
	var conds []exp.Expression
	if filter.Search != "" {
		conds = append(conds, containsAny(filter.Search, "c.name", "c.code", "l.name", "r.code"))
	}
	if filter.RoomID != "" {
		conds = append(conds, goqu.I("sc.room_id").Eq(filter.RoomID))
	}
	if filter.Day != "" {
		conds = append(conds, goqu.I("sc.day").Eq(string(filter.Day)))
	}
	if filter.Status != "" {
		conds = append(conds, goqu.I("sc.status").Eq(string(filter.Status)))
	}
	if filter.Semester > 0 {
		conds = append(conds, goqu.I("sc.semester").Eq(filter.Semester))
	}
	if filter.AcademicYear != "" {
		conds = append(conds, goqu.I("sc.academic_year").Eq(filter.AcademicYear))
	}
	return conds
}

// List returns schedules matching the filter.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDetail, int, error) {
	base := scheduleDetailDataset().Where(scheduleConditions(filter)...)
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	query, args, err := toSQL(base.Select(scheduleDetailColumns...).
		Order(goqu.I("sc.day").Asc(), goqu.I("sc.start_time").Asc()).
		Limit(limit).Offset(offset))
	if err != nil {
		return nil, 0, fmt.Errorf("build schedule list query: %w", err)
	}
	conn := database.Conn(ctx, r.db)
	var items []models.ScheduleDetail
	if err := sqlx.SelectContext(ctx, conn, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schedules: %w", err)
	}

	countQuery, countArgs, err := toSQL(base.Select(goqu.COUNT(goqu.Star())))
	if err != nil {
		return nil, 0, fmt.Errorf("build schedule count query: %w", err)
	}
	var total int
	if err := sqlx.GetContext(ctx, conn, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count schedules: %w", err)
	}
	return items, total, nil
}

// FindByID fetches a schedule by ID.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	var schedule models.Schedule
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &schedule, query, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// FindDetailByID fetches a schedule with course, lecturer and room info.
func (r *ScheduleRepository) FindDetailByID(ctx context.Context, id string) (*models.ScheduleDetail, error) {
	query, args, err := toSQL(scheduleDetailDataset().Select(scheduleDetailColumns...).Where(goqu.I("sc.id").Eq(id)))
	if err != nil {
		return nil, fmt.Errorf("build schedule detail query: %w", err)
	}
	var detail models.ScheduleDetail
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &detail, query, args...); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListActiveByRoomDay returns the active bookings of a room on a weekday, ordered by start time.
func (r *ScheduleRepository) ListActiveByRoomDay(ctx context.Context, roomID string, day models.Weekday, excludeID string) ([]models.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE room_id = $1 AND day = $2 AND status = $3`
	args := []interface{}{roomID, day, models.ScheduleStatusActive}
	if excludeID != "" {
		query += fmt.Sprintf(" AND id <> $%d", len(args)+1)
		args = append(args, excludeID)
	}
	query += " ORDER BY start_time"
	var items []models.Schedule
	if err := sqlx.SelectContext(ctx, database.Conn(ctx, r.db), &items, query, args...); err != nil {
		return nil, fmt.Errorf("list room day schedules: %w", err)
	}
	return items, nil
}

// CountActiveByRoom counts active bookings of a room.
func (r *ScheduleRepository) CountActiveByRoom(ctx context.Context, roomID string) (int, error) {
	var total int
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &total,
		`SELECT COUNT(*) FROM schedules WHERE room_id = $1 AND status = $2`, roomID, models.ScheduleStatusActive); err != nil {
		return 0, fmt.Errorf("count room schedules: %w", err)
	}
	return total, nil
}

// Create inserts a schedule.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now
	if schedule.Status == "" {
		schedule.Status = models.ScheduleStatusActive
	}
	const query = `INSERT INTO schedules (id, course_id, lecturer_id, room_id, day, start_time, end_time, semester, academic_year, status, notes, created_at, updated_at)
        VALUES (:id, :course_id, :lecturer_id, :room_id, :day, :start_time, :end_time, :semester, :academic_year, :status, :notes, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.db), query, schedule); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// Update modifies an existing schedule.
func (r *ScheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	schedule.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedules SET course_id = :course_id, lecturer_id = :lecturer_id, room_id = :room_id, day = :day,
        start_time = :start_time, end_time = :end_time, semester = :semester, academic_year = :academic_year,
        status = :status, notes = :notes, updated_at = :updated_at WHERE id = :id`
	result, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.db), query, schedule)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return requireAffected(result, "update schedule")
}

// Delete removes a schedule.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return requireAffected(result, "delete schedule")
}
