package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/siakad-api/internal/models"
	appErrors "github.com/noah-isme/siakad-api/pkg/errors"
)

var errStoreDown = errors.New("connection refused")

// memLocker serialises units of work per key, like an advisory lock.
type memLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	keys  []string
}

func newMemLocker() *memLocker {
	return &memLocker{locks: map[string]*sync.Mutex{}}
}

func (l *memLocker) WithinLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}
	l.keys = append(l.keys, key)
	l.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn(ctx)
}

type memStudents map[string]*models.Student

func (m memStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type memCourses map[string]*models.Course

func (m memCourses) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

type memLecturers map[string]*models.Lecturer

func (m memLecturers) FindByID(ctx context.Context, id string) (*models.Lecturer, error) {
	if l, ok := m[id]; ok {
		return l, nil
	}
	return nil, sql.ErrNoRows
}

type memRooms map[string]*models.Room

func (m memRooms) FindByID(ctx context.Context, id string) (*models.Room, error) {
	if r, ok := m[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

type memGrades struct {
	keys map[string]int
	err  error
}

func (m *memGrades) CountForEnrollment(ctx context.Context, studentID, courseID, semester string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.keys[studentID+"|"+courseID+"|"+semester], nil
}

// memKRS is a KRS store joined against memCourses for credits.
type memKRS struct {
	mu      sync.Mutex
	rows    map[string]models.KRS
	courses memCourses
	failOn  string
	creates int
	updates int
	// afterTermRead runs once ListByStudentTerm has read its rows.
	afterTermRead func()
	// vanish is removed right before the next write, as if deleted concurrently.
	vanish string
}

func newMemKRS(courses memCourses) *memKRS {
	return &memKRS{rows: map[string]models.KRS{}, courses: courses}
}

func (m *memKRS) seed(studentID, courseID, semester string, status models.KRSStatus) string {
	id := uuid.NewString()
	m.rows[id] = models.KRS{ID: id, StudentID: studentID, CourseID: courseID, Semester: semester, Year: 2025, Status: status}
	return id
}

func (m *memKRS) fail(op string) error {
	if m.failOn == op {
		return errStoreDown
	}
	return nil
}

func (m *memKRS) detail(k models.KRS) models.KRSDetail {
	d := models.KRSDetail{KRS: k}
	if c, ok := m.courses[k.CourseID]; ok {
		d.CourseCode = c.Code
		d.CourseName = c.Name
		d.CourseCredits = c.Credits
	}
	return d
}

func (m *memKRS) List(ctx context.Context, filter models.KRSFilter) ([]models.KRSDetail, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.KRSDetail
	for _, k := range m.rows {
		if filter.StudentID != "" && k.StudentID != filter.StudentID {
			continue
		}
		out = append(out, m.detail(k))
	}
	return out, len(out), m.fail("list")
}

func (m *memKRS) ListByStudentTerm(ctx context.Context, studentID, semester string) ([]models.KRSDetail, error) {
	m.mu.Lock()
	var out []models.KRSDetail
	for _, k := range m.rows {
		if k.StudentID == studentID && k.Semester == semester {
			out = append(out, m.detail(k))
		}
	}
	err := m.fail("term")
	hook := m.afterTermRead
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CourseCode < out[j].CourseCode })
	if hook != nil {
		hook()
	}
	return out, err
}

func (m *memKRS) FindByID(ctx context.Context, id string) (*models.KRS, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &k, nil
}

func (m *memKRS) FindDetailByID(ctx context.Context, id string) (*models.KRSDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	d := m.detail(k)
	return &d, nil
}

func (m *memKRS) Exists(ctx context.Context, studentID, courseID, semester, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("exists"); err != nil {
		return false, err
	}
	for id, k := range m.rows {
		if id != excludeID && k.StudentID == studentID && k.CourseID == courseID && k.Semester == semester {
			return true, nil
		}
	}
	return false, nil
}

func (m *memKRS) SumCredits(ctx context.Context, filter models.CreditLoadFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("sum"); err != nil {
		return 0, err
	}
	total := 0
	for id, k := range m.rows {
		if id == filter.ExcludeID || k.StudentID != filter.StudentID || k.Semester != filter.Semester {
			continue
		}
		if k.Status == models.KRSStatusRejected {
			continue
		}
		total += m.courses[k.CourseID].Credits
	}
	return total, nil
}

func (m *memKRS) Create(ctx context.Context, krs *models.KRS) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("create"); err != nil {
		return err
	}
	if krs.ID == "" {
		krs.ID = uuid.NewString()
	}
	krs.CreatedAt = time.Now()
	m.rows[krs.ID] = *krs
	m.creates++
	return nil
}

func (m *memKRS) Update(ctx context.Context, krs *models.KRS) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("update"); err != nil {
		return err
	}
	delete(m.rows, m.vanish)
	if _, ok := m.rows[krs.ID]; !ok {
		return sql.ErrNoRows
	}
	m.rows[krs.ID] = *krs
	m.updates++
	return nil
}

func (m *memKRS) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("delete"); err != nil {
		return err
	}
	delete(m.rows, m.vanish)
	if _, ok := m.rows[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.rows, id)
	return nil
}

// load returns the non-rejected credit load of a student term.
func (m *memKRS) load(studentID, semester string) int {
	total, _ := m.SumCredits(context.Background(), models.CreditLoadFilter{StudentID: studentID, Semester: semester})
	return total
}

type memSchedules struct {
	mu      sync.Mutex
	rows    map[string]models.Schedule
	failOn  string
	creates int
	vanish  string
}

func newMemSchedules() *memSchedules {
	return &memSchedules{rows: map[string]models.Schedule{}}
}

func (m *memSchedules) seed(roomID string, day models.Weekday, start, end string, status models.ScheduleStatus) string {
	id := uuid.NewString()
	m.rows[id] = models.Schedule{ID: id, CourseID: "crs-a", LecturerID: "lec-1", RoomID: roomID, Day: day,
		StartTime: start, EndTime: end, Semester: 1, AcademicYear: "2025/2026", Status: status}
	return id
}

func (m *memSchedules) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDetail, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ScheduleDetail
	for _, s := range m.rows {
		if filter.Day != "" && s.Day != filter.Day {
			continue
		}
		out = append(out, models.ScheduleDetail{Schedule: s})
	}
	return out, len(out), nil
}

func (m *memSchedules) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m *memSchedules) FindDetailByID(ctx context.Context, id string) (*models.ScheduleDetail, error) {
	s, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.ScheduleDetail{Schedule: *s}, nil
}

func (m *memSchedules) ListActiveByRoomDay(ctx context.Context, roomID string, day models.Weekday, excludeID string) ([]models.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == "active" {
		return nil, errStoreDown
	}
	var out []models.Schedule
	for id, s := range m.rows {
		if id != excludeID && s.RoomID == roomID && s.Day == day && s.Status == models.ScheduleStatusActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (m *memSchedules) Create(ctx context.Context, schedule *models.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == "create" {
		return errStoreDown
	}
	schedule.ID = uuid.NewString()
	m.rows[schedule.ID] = *schedule
	m.creates++
	return nil
}

func (m *memSchedules) Update(ctx context.Context, schedule *models.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, m.vanish)
	if _, ok := m.rows[schedule.ID]; !ok {
		return sql.ErrNoRows
	}
	m.rows[schedule.ID] = *schedule
	return nil
}

func (m *memSchedules) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == "delete" {
		return errStoreDown
	}
	delete(m.rows, m.vanish)
	if _, ok := m.rows[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.rows, id)
	return nil
}

func (m *memSchedules) CountActiveByRoom(ctx context.Context, roomID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.rows {
		if s.RoomID == roomID && s.Status == models.ScheduleStatusActive {
			n++
		}
	}
	return n, nil
}

// activeOverlaps reports pairs of active bookings sharing room and day that overlap.
func (m *memSchedules) activeOverlaps() [][2]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pairs [][2]string
	rows := make([]models.Schedule, 0, len(m.rows))
	for _, s := range m.rows {
		if s.Status == models.ScheduleStatusActive {
			rows = append(rows, s)
		}
	}
	for i := range rows {
		for j := i + 1; j < len(rows); j++ {
			a, b := rows[i], rows[j]
			if a.RoomID != b.RoomID || a.Day != b.Day {
				continue
			}
			as, _ := ParseClock(a.StartTime)
			ae, _ := ParseClock(a.EndTime)
			bs, _ := ParseClock(b.StartTime)
			be, _ := ParseClock(b.EndTime)
			if Overlaps(as, ae, bs, be) {
				pairs = append(pairs, [2]string{a.ID, b.ID})
			}
		}
	}
	return pairs
}

// memCache is an in-memory CacheRepository storing JSON payloads.
type memCache struct {
	mu        sync.Mutex
	store     map[string][]byte
	deletes   [][]string
	patterns  []string
	deleteErr error
}

func newMemCache() *memCache {
	return &memCache{store: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := c.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = payload
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes = append(c.deletes, keys)
	if c.deleteErr != nil {
		return c.deleteErr
	}
	for _, key := range keys {
		delete(c.store, key)
	}
	return nil
}

func (c *memCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patterns = append(c.patterns, pattern)
	if c.deleteErr != nil {
		return c.deleteErr
	}
	for key := range c.store {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.store, key)
		}
	}
	return nil
}

func (c *memCache) failDeletes(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteErr = err
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok
}

// decisionCount reads admission_decisions_total for component and outcome.
func decisionCount(t *testing.T, metrics *MetricsService, component, outcome string) float64 {
	t.Helper()
	families, err := metrics.Registry().Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, family := range families {
		if family.GetName() != "admission_decisions_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			if labels["component"] == component && labels["outcome"] == outcome {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}
