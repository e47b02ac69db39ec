package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/siakad-api/internal/dto"
	"github.com/noah-isme/siakad-api/internal/models"
	appErrors "github.com/noah-isme/siakad-api/pkg/errors"
)

type scheduleFixture struct {
	svc     *ScheduleService
	repo    *memSchedules
	rooms   memRooms
	locker  *memLocker
	metrics *MetricsService
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()
	rooms := memRooms{
		"room-a": {ID: "room-a", Code: "A101", Name: "Lab Komputer", Capacity: 40, IsActive: true},
		"room-b": {ID: "room-b", Code: "B201", Name: "Ruang Kuliah", Capacity: 60, IsActive: true},
		"room-x": {ID: "room-x", Code: "X001", Name: "Gudang", Capacity: 10, IsActive: false},
	}
	repo := newMemSchedules()
	locker := newMemLocker()
	metrics := NewMetricsService()
	svc := NewScheduleService(ScheduleServiceParams{
		Repo:      repo,
		Courses:   memCourses{"crs-a": {ID: "crs-a", Code: "IF101", Credits: 3}},
		Lecturers: memLecturers{"lec-1": {ID: "lec-1", Name: "Dr. Sari"}},
		Rooms:     rooms,
		Locker:    locker,
		Metrics:   metrics,
	})
	return &scheduleFixture{svc: svc, repo: repo, rooms: rooms, locker: locker, metrics: metrics}
}

func booking(roomID string, day models.Weekday, start, end string) dto.CreateScheduleRequest {
	return dto.CreateScheduleRequest{
		CourseID:     "crs-a",
		LecturerID:   "lec-1",
		RoomID:       roomID,
		Day:          day,
		StartTime:    start,
		EndTime:      end,
		Semester:     1,
		AcademicYear: "2025/2026",
	}
}

func TestScheduleServiceCreateDetectsOverlap(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, booking("room-a", models.Monday, "08:00", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleStatusActive, first.Status)

	_, err = f.svc.Create(ctx, booking("room-a", models.Monday, "09:00", "11:00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	appErr := appErrors.FromError(err)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, first.ID, appErr.Details["conflicting_schedule_id"])
	conflict, ok := appErr.Details["conflict"].(models.ScheduleConflict)
	require.True(t, ok)
	assert.Equal(t, "08:00", conflict.StartTime)
	assert.Equal(t, "10:00", conflict.EndTime)

	var typed *models.ScheduleConflictError
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, first.ID, typed.Conflict.ScheduleID)

	_, err = f.svc.Create(ctx, booking("room-a", models.Monday, "10:00", "12:00"))
	require.NoError(t, err)

	assert.Equal(t, 2, f.repo.creates)
	assert.Empty(t, f.repo.activeOverlaps())
	assert.Equal(t, 1.0, decisionCount(t, f.metrics, scheduleComponent, OutcomeRejected))
	assert.Equal(t, 2.0, decisionCount(t, f.metrics, scheduleComponent, OutcomeAccepted))
}

func TestScheduleServiceOverlapCases(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
		conflict   bool
	}{
		{name: "contained", start: "08:30", end: "09:30", conflict: true},
		{name: "containing", start: "07:00", end: "11:00", conflict: true},
		{name: "identical", start: "08:00", end: "10:00", conflict: true},
		{name: "overlaps start", start: "07:00", end: "08:01", conflict: true},
		{name: "ends at start", start: "07:00", end: "08:00"},
		{name: "starts at end", start: "10:00", end: "10:30"},
		{name: "seconds are dropped", start: "10:00:59", end: "11:00:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newScheduleFixture(t)
			f.repo.seed("room-a", models.Monday, "08:00:00", "10:00:00", models.ScheduleStatusActive)

			_, err := f.svc.Create(context.Background(), booking("room-a", models.Monday, tc.start, tc.end))
			if tc.conflict {
				assert.ErrorIs(t, err, appErrors.ErrConflict)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestScheduleServiceCreateIgnoresOtherRoomsDaysAndInactive(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()
	f.repo.seed("room-a", models.Monday, "08:00", "10:00", models.ScheduleStatusActive)
	f.repo.seed("room-a", models.Tuesday, "08:00", "10:00", models.ScheduleStatusCancelled)

	_, err := f.svc.Create(ctx, booking("room-b", models.Monday, "08:00", "10:00"))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, booking("room-a", models.Tuesday, "08:00", "10:00"))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, booking("room-a", "wednesday", "08:00", "10:00"))
	require.NoError(t, err)

	parked := booking("room-a", models.Monday, "09:00", "11:00")
	parked.Status = models.ScheduleStatusInactive
	_, err = f.svc.Create(ctx, parked)
	require.NoError(t, err)

	assert.Empty(t, f.repo.activeOverlaps())
}

func TestScheduleServiceCreateRejectsInactiveRoom(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.svc.Create(context.Background(), booking("room-x", models.Monday, "08:00", "10:00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Equal(t, "room is inactive", appErrors.FromError(err).Message)
	assert.Equal(t, 0, f.repo.creates)
}

func TestScheduleServiceCreateValidation(t *testing.T) {
	cases := []struct {
		name    string
		req     dto.CreateScheduleRequest
		message string
		kind    error
	}{
		{name: "start after end", req: booking("room-a", models.Monday, "11:00", "09:00"), message: "invalid time range", kind: appErrors.ErrValidation},
		{name: "empty interval", req: booking("room-a", models.Monday, "09:00", "09:00"), message: "invalid time range", kind: appErrors.ErrValidation},
		{name: "malformed clock", req: booking("room-a", models.Monday, "9am", "10:00"), message: "invalid time range", kind: appErrors.ErrValidation},
		{name: "out of range clock", req: booking("room-a", models.Monday, "08:00", "24:30"), message: "invalid time range", kind: appErrors.ErrValidation},
		{name: "missing room", req: booking("", models.Monday, "08:00", "10:00"), message: "required fields missing", kind: appErrors.ErrValidation},
		{name: "unknown day", req: booking("room-a", "FUNDAY", "08:00", "10:00"), message: "required fields missing", kind: appErrors.ErrValidation},
		{name: "unknown room", req: booking("room-404", models.Monday, "08:00", "10:00"), message: "room not found", kind: appErrors.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newScheduleFixture(t)
			_, err := f.svc.Create(context.Background(), tc.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.kind)
			assert.Equal(t, tc.message, appErrors.FromError(err).Message)
			assert.Empty(t, f.locker.keys)
		})
	}
}

func TestScheduleServiceCreateSerialisesPerRoomDay(t *testing.T) {
	f := newScheduleFixture(t)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := fmt.Sprintf("%02d:00", 8+i)
			end := fmt.Sprintf("%02d:30", 9+i)
			_, errs[i] = f.svc.Create(context.Background(), booking("room-a", models.Friday, start, end))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, appErrors.ErrConflict)
		}
	}
	assert.Empty(t, f.repo.activeOverlaps())
	for _, key := range f.locker.keys {
		assert.Equal(t, "schedule:room-a:FRIDAY", key)
	}
}

func TestScheduleServiceUpdate(t *testing.T) {
	t.Run("notes only does not re-check", func(t *testing.T) {
		f := newScheduleFixture(t)
		id := f.repo.seed("room-a", models.Monday, "08:00", "10:00", models.ScheduleStatusActive)
		f.repo.failOn = "active"

		notes := "bring projector"
		detail, err := f.svc.Update(context.Background(), id, dto.UpdateScheduleRequest{Notes: &notes})
		require.NoError(t, err)
		require.NotNil(t, detail.Notes)
		assert.Equal(t, "bring projector", *detail.Notes)

		blank := "  "
		detail, err = f.svc.Update(context.Background(), id, dto.UpdateScheduleRequest{Notes: &blank})
		require.NoError(t, err)
		assert.Nil(t, detail.Notes)
	})

	t.Run("moving into a booked slot conflicts", func(t *testing.T) {
		f := newScheduleFixture(t)
		booked := f.repo.seed("room-a", models.Monday, "08:00", "10:00", models.ScheduleStatusActive)
		id := f.repo.seed("room-a", models.Monday, "10:00", "12:00", models.ScheduleStatusActive)

		start := "09:30"
		_, err := f.svc.Update(context.Background(), id, dto.UpdateScheduleRequest{StartTime: &start})
		require.Error(t, err)
		assert.ErrorIs(t, err, appErrors.ErrConflict)
		assert.Equal(t, booked, appErrors.FromError(err).Details["conflicting_schedule_id"])
		assert.Equal(t, "10:00", f.repo.rows[id].StartTime)
	})

	t.Run("own slot is excluded", func(t *testing.T) {
		f := newScheduleFixture(t)
		id := f.repo.seed("room-a", models.Monday, "08:00", "10:00", models.ScheduleStatusActive)

		end := "10:30"
		detail, err := f.svc.Update(context.Background(), id, dto.UpdateScheduleRequest{EndTime: &end})
		require.NoError(t, err)
		assert.Equal(t, "10:30", detail.EndTime)
	})

	t.Run("moving day locks the target day", func(t *testing.T) {
		f := newScheduleFixture(t)
		f.repo.seed("room-a", models.Tuesday, "08:00", "10:00", models.ScheduleStatusActive)
		id := f.repo.seed("room-a", models.Monday, "08:00", "10:00", models.ScheduleStatusActive)

		day := models.Weekday("tuesday")
		_, err := f.svc.Update(context.Background(), id, dto.UpdateScheduleRequest{Day: &day})
		assert.ErrorIs(t, err, appErrors.ErrConflict)
		assert.Equal(t, []string{"schedule:room-a:TUESDAY"}, f.locker.keys)
	})

	t.Run("moving to an inactive room", func(t *testing.T) {
		f := newScheduleFixture(t)
		id := f.repo.seed("room-a", models.Monday, "08:00", "10:00", models.ScheduleStatusActive)

		room := "room-x"
		_, err := f.svc.Update(context.Background(), id, dto.UpdateScheduleRequest{RoomID: &room})
		assert.ErrorIs(t, err, appErrors.ErrConflict)
		assert.Equal(t, "room is inactive", appErrors.FromError(err).Message)
	})

	t.Run("room deactivated after booking keeps the booking editable", func(t *testing.T) {
		f := newScheduleFixture(t)
		id := f.repo.seed("room-a", models.Monday, "08:00", "10:00", models.ScheduleStatusActive)
		f.rooms["room-a"].IsActive = false

		end := "11:00"
		_, err := f.svc.Update(context.Background(), id, dto.UpdateScheduleRequest{EndTime: &end})
		assert.NoError(t, err)
	})

	t.Run("reactivation re-checks", func(t *testing.T) {
		f := newScheduleFixture(t)
		f.repo.seed("room-a", models.Monday, "08:00", "10:00", models.ScheduleStatusActive)
		id := f.repo.seed("room-a", models.Monday, "09:00", "11:00", models.ScheduleStatusInactive)

		active := models.ScheduleStatusActive
		_, err := f.svc.Update(context.Background(), id, dto.UpdateScheduleRequest{Status: &active})
		assert.ErrorIs(t, err, appErrors.ErrConflict)
		assert.Empty(t, f.repo.activeOverlaps())
	})

	t.Run("effective range must stay ordered", func(t *testing.T) {
		f := newScheduleFixture(t)
		id := f.repo.seed("room-a", models.Monday, "08:00", "10:00", models.ScheduleStatusActive)

		start := "10:00"
		_, err := f.svc.Update(context.Background(), id, dto.UpdateScheduleRequest{StartTime: &start})
		require.Error(t, err)
		assert.ErrorIs(t, err, appErrors.ErrValidation)
		assert.Equal(t, "invalid time range", appErrors.FromError(err).Message)
	})

	t.Run("unknown schedule", func(t *testing.T) {
		f := newScheduleFixture(t)
		_, err := f.svc.Update(context.Background(), "missing", dto.UpdateScheduleRequest{})
		assert.ErrorIs(t, err, appErrors.ErrNotFound)
	})
}

func TestScheduleServiceDelete(t *testing.T) {
	f := newScheduleFixture(t)
	id := f.repo.seed("room-a", models.Monday, "08:00", "10:00", models.ScheduleStatusActive)

	require.NoError(t, f.svc.Delete(context.Background(), id))
	assert.Empty(t, f.repo.rows)
	assert.ErrorIs(t, f.svc.Delete(context.Background(), id), appErrors.ErrNotFound)

	assert.Equal(t, 1.0, decisionCount(t, f.metrics, scheduleComponent, OutcomeAccepted))
	assert.Equal(t, 1.0, decisionCount(t, f.metrics, scheduleComponent, OutcomeRejected))

	t.Run("storage failure", func(t *testing.T) {
		id := f.repo.seed("room-a", models.Monday, "08:00", "10:00", models.ScheduleStatusActive)
		f.repo.failOn = "delete"
		defer func() { f.repo.failOn = "" }()

		err := f.svc.Delete(context.Background(), id)
		assert.ErrorIs(t, err, appErrors.ErrStorage)
		assert.Equal(t, 1.0, decisionCount(t, f.metrics, scheduleComponent, OutcomeError))
	})
}

func TestScheduleServiceWriteToVanishedBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("update", func(t *testing.T) {
		f := newScheduleFixture(t)
		id := f.repo.seed("room-a", models.Monday, "08:00", "10:00", models.ScheduleStatusActive)
		f.repo.vanish = id

		notes := "pindah ke lab"
		detail, err := f.svc.Update(ctx, id, dto.UpdateScheduleRequest{Notes: &notes})
		assert.Nil(t, detail)
		assert.ErrorIs(t, err, appErrors.ErrNotFound)
		assert.Equal(t, "schedule not found", appErrors.FromError(err).Message)
	})

	t.Run("delete", func(t *testing.T) {
		f := newScheduleFixture(t)
		id := f.repo.seed("room-a", models.Monday, "08:00", "10:00", models.ScheduleStatusActive)
		f.repo.vanish = id

		assert.ErrorIs(t, f.svc.Delete(ctx, id), appErrors.ErrNotFound)
		assert.Equal(t, 1.0, decisionCount(t, f.metrics, scheduleComponent, OutcomeRejected))
	})
}

func TestScheduleServiceListNormalisesDay(t *testing.T) {
	f := newScheduleFixture(t)
	f.repo.seed("room-a", models.Monday, "08:00", "10:00", models.ScheduleStatusActive)
	f.repo.seed("room-a", models.Tuesday, "08:00", "10:00", models.ScheduleStatusActive)

	items, page, err := f.svc.List(context.Background(), models.ScheduleFilter{Day: "monday"})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, page.TotalCount)

	_, _, err = f.svc.List(context.Background(), models.ScheduleFilter{Day: "funday"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, "invalid day filter", appErrors.FromError(err).Message)

	_, _, err = f.svc.List(context.Background(), models.ScheduleFilter{Status: "ARCHIVED"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, "invalid status filter", appErrors.FromError(err).Message)
}
