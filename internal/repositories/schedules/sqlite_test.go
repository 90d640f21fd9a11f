package schedules

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddanilovs/chargekeeper/internal/common"
	"github.com/ddanilovs/chargekeeper/internal/models"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE TABLE schedules (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			type TEXT NOT NULL CHECK (type IN ('time', 'charge', 'mileage')),
			name TEXT NOT NULL,
			days TEXT NOT NULL,
			start_time TEXT,
			end_time TEXT,
			ready_by_time TEXT,
			desired_charge_level INTEGER,
			desired_mileage INTEGER,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at INTEGER NOT NULL
		);
	`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES (1, 'alice', 'alice@example.com', 'x', 0)`)
	require.NoError(t, err)

	return db
}

func ptr[T any](v T) *T { return &v }

func chargePayload(name string) *models.SchedulePayload {
	return &models.SchedulePayload{
		Type:               models.ScheduleTypeCharge,
		Name:               name,
		Days:               []models.Weekday{models.Monday, models.Friday},
		ReadyByTime:        ptr("07:30"),
		DesiredChargeLevel: ptr(80),
	}
}

func TestSQLiteCreateAndGet(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupDB(t))

	created, err := r.Create(ctx, 1, chargePayload("Night"))
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.True(t, created.IsActive)

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, int64(1), got.UserID)
	assert.Equal(t, models.ScheduleTypeCharge, got.Type)
	assert.Equal(t, "Night", got.Name)
	assert.Equal(t, []models.Weekday{models.Monday, models.Friday}, got.Days)
	require.NotNil(t, got.ReadyByTime)
	assert.Equal(t, "07:30", *got.ReadyByTime)
	require.NotNil(t, got.DesiredChargeLevel)
	assert.Equal(t, 80, *got.DesiredChargeLevel)
	assert.Nil(t, got.StartTime)
	assert.Nil(t, got.EndTime)
	assert.Nil(t, got.DesiredMileage)
	assert.True(t, got.IsActive)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
}

func TestSQLiteGetByIDNotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteQuota(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupDB(t))

	for i := 0; i < common.MaxSchedulesPerUser; i++ {
		_, err := r.Create(ctx, 1, chargePayload("Night"))
		require.NoError(t, err)
	}

	_, err := r.Create(ctx, 1, chargePayload("One too many"))
	assert.ErrorIs(t, err, common.ErrQuotaExceeded)

	count, err := r.CountByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, common.MaxSchedulesPerUser, count)
}

func TestSQLiteQuotaIsPerUser(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := db.Exec(`INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES (2, 'bob', 'bob@example.com', 'x', 0)`)
	require.NoError(t, err)

	for i := 0; i < common.MaxSchedulesPerUser; i++ {
		_, err := r.Create(ctx, 1, chargePayload("Night"))
		require.NoError(t, err)
	}

	// the other user still has a full quota of their own
	_, err = r.Create(ctx, 2, chargePayload("Night"))
	assert.NoError(t, err)
}

func TestSQLiteListNewestFirst(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupDB(t))

	first, err := r.Create(ctx, 1, chargePayload("first"))
	require.NoError(t, err)
	second, err := r.Create(ctx, 1, chargePayload("second"))
	require.NoError(t, err)

	list, err := r.GetByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestSQLiteListEmpty(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	list, err := r.GetByUserID(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSQLiteUpdateSingleField(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupDB(t))

	created, err := r.Create(ctx, 1, chargePayload("Night"))
	require.NoError(t, err)

	err = r.Update(ctx, created.ID, &models.ScheduleUpdate{DesiredChargeLevel: ptr(90)})
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)

	// only the charge level changed
	require.NotNil(t, got.DesiredChargeLevel)
	assert.Equal(t, 90, *got.DesiredChargeLevel)
	assert.Equal(t, "Night", got.Name)
	assert.Equal(t, created.Days, got.Days)
	require.NotNil(t, got.ReadyByTime)
	assert.Equal(t, "07:30", *got.ReadyByTime)
	assert.True(t, got.IsActive)
}

func TestSQLiteUpdateTypeClearsInapplicableFields(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupDB(t))

	created, err := r.Create(ctx, 1, chargePayload("Night"))
	require.NoError(t, err)

	// charge -> time window: ready_by_time and desired_charge_level must go
	err = r.Update(ctx, created.ID, &models.ScheduleUpdate{
		Type:      ptr(models.ScheduleTypeTime),
		StartTime: ptr("23:00"),
		EndTime:   ptr("06:00"),
	})
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleTypeTime, got.Type)
	require.NotNil(t, got.StartTime)
	assert.Equal(t, "23:00", *got.StartTime)
	require.NotNil(t, got.EndTime)
	assert.Equal(t, "06:00", *got.EndTime)
	assert.Nil(t, got.ReadyByTime)
	assert.Nil(t, got.DesiredChargeLevel)
	assert.Nil(t, got.DesiredMileage)
}

func TestSQLiteUpdateNotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	err := r.Update(context.Background(), 42, &models.ScheduleUpdate{Name: ptr("ghost")})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteUpdateEmptyIsNoop(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupDB(t))

	created, err := r.Create(ctx, 1, chargePayload("Night"))
	require.NoError(t, err)

	require.NoError(t, r.Update(ctx, created.ID, &models.ScheduleUpdate{}))

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)

	// no row to touch, but still a no-op rather than ErrNotFound
	assert.NoError(t, r.Update(ctx, 42, &models.ScheduleUpdate{}))
}

func TestSQLiteUpdateIsActive(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupDB(t))

	created, err := r.Create(ctx, 1, chargePayload("Night"))
	require.NoError(t, err)

	require.NoError(t, r.Update(ctx, created.ID, &models.ScheduleUpdate{IsActive: ptr(false)}))

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	require.NoError(t, r.Update(ctx, created.ID, &models.ScheduleUpdate{IsActive: ptr(true)}))

	got, err = r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestSQLiteDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupDB(t))

	created, err := r.Create(ctx, 1, chargePayload("Night"))
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, created.ID))

	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// deleting again is fine
	assert.NoError(t, r.Delete(ctx, created.ID))
}

func TestSQLiteQuotaFreedByDelete(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupDB(t))

	var last *models.Schedule
	for i := 0; i < common.MaxSchedulesPerUser; i++ {
		s, err := r.Create(ctx, 1, chargePayload("Night"))
		require.NoError(t, err)
		last = s
	}

	_, err := r.Create(ctx, 1, chargePayload("blocked"))
	require.ErrorIs(t, err, common.ErrQuotaExceeded)

	require.NoError(t, r.Delete(ctx, last.ID))

	_, err = r.Create(ctx, 1, chargePayload("fits again"))
	assert.NoError(t, err)
}
