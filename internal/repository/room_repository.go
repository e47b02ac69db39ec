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

const roomColumns = `id, code, name, capacity, type, location, facilities, is_active, created_at, updated_at`

// RoomRepository manages rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs the repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns rooms matching the filter.
func (r *RoomRepository) List(ctx context.Context, filter models.RoomFilter) ([]models.Room, int, error) {
	var conds []exp.Expression
	if filter.Search != "" {
		conds = append(conds, containsAny(filter.Search, "code", "name", "location"))
	}
	if filter.Type != "" {
		conds = append(conds, goqu.C("type").Eq(filter.Type))
	}
	if filter.IsActive != nil {
		conds = append(conds, goqu.L(`"is_active" = ?`, *filter.IsActive))
	}
	base := dialect.From("rooms").Where(conds...)
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	query, args, err := toSQL(base.Select(
		"id", "code", "name", "capacity", "type", "location", "facilities", "is_active", "created_at", "updated_at",
	).Order(goqu.C("code").Asc()).Limit(limit).Offset(offset))
	if err != nil {
		return nil, 0, fmt.Errorf("build room list query: %w", err)
	}
	conn := database.Conn(ctx, r.db)
	var rooms []models.Room
	if err := sqlx.SelectContext(ctx, conn, &rooms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list rooms: %w", err)
	}

	countQuery, countArgs, err := toSQL(base.Select(goqu.COUNT(goqu.Star())))
	if err != nil {
		return nil, 0, fmt.Errorf("build room count query: %w", err)
	}
	var total int
	if err := sqlx.GetContext(ctx, conn, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count rooms: %w", err)
	}
	return rooms, total, nil
}

// FindByID returns a room by id.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &room, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &room, nil
}

// FindByCode returns a room by its code.
func (r *RoomRepository) FindByCode(ctx context.Context, code string) (*models.Room, error) {
	var room models.Room
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &room, `SELECT `+roomColumns+` FROM rooms WHERE code = $1`, code); err != nil {
		return nil, err
	}
	return &room, nil
}

// Create inserts a room.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now
	const query = `INSERT INTO rooms (id, code, name, capacity, type, location, facilities, is_active, created_at, updated_at)
        VALUES (:id, :code, :name, :capacity, :type, :location, :facilities, :is_active, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.db), query, room); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// Update modifies a room.
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	room.UpdatedAt = time.Now().UTC()
	const query = `UPDATE rooms SET code = :code, name = :name, capacity = :capacity, type = :type, location = :location,
        facilities = :facilities, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	result, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.db), query, room)
	if err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	return requireAffected(result, "update room")
}

// Delete removes a room.
func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return requireAffected(result, "delete room")
}
