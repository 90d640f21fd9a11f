package schedules

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ddanilovs/chargekeeper/internal/common"
	"github.com/ddanilovs/chargekeeper/internal/dbx"
	"github.com/ddanilovs/chargekeeper/internal/models"
)

// SQLiteRepository implements Repository over a local SQLite database.
// Timestamps are stored as unix seconds, booleans as 0/1.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a SQLiteRepository bound to the given handle.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const sqliteScheduleColumns = `id, user_id, type, name, days, start_time, end_time,
	ready_by_time, desired_charge_level, desired_mileage, is_active, created_at`

// Create counts the user's schedules and inserts the new row in a single
// transaction so two concurrent creations cannot both pass the quota check.
func (r *SQLiteRepository) Create(ctx context.Context, userID int64, payload *models.SchedulePayload) (*models.Schedule, error) {
	days, err := marshalDays(payload.Days)
	if err != nil {
		return nil, err
	}

	created := time.Now().UTC().Truncate(time.Second)
	schedule := &models.Schedule{
		UserID:             userID,
		Type:               payload.Type,
		Name:               payload.Name,
		Days:               payload.Days,
		StartTime:          payload.StartTime,
		EndTime:            payload.EndTime,
		ReadyByTime:        payload.ReadyByTime,
		DesiredChargeLevel: payload.DesiredChargeLevel,
		DesiredMileage:     payload.DesiredMileage,
		IsActive:           true,
		CreatedAt:          created,
	}

	err = dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM schedules WHERE user_id = ?`, userID,
		).Scan(&count); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if count >= common.MaxSchedulesPerUser {
			return common.ErrQuotaExceeded
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO schedules (user_id, type, name, days, start_time, end_time,
			        ready_by_time, desired_charge_level, desired_mileage, is_active, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`,
			userID, string(payload.Type), payload.Name, days,
			payload.StartTime, payload.EndTime, payload.ReadyByTime,
			payload.DesiredChargeLevel, payload.DesiredMileage, created.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert schedule: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get inserted id: %w", err)
		}

		schedule.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	return schedule, nil
}

// GetByUserID lists the user's schedules, newest first. Ids are monotonic,
// so ordering by id gives creation order even within one second.
func (r *SQLiteRepository) GetByUserID(ctx context.Context, userID int64) ([]models.Schedule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sqliteScheduleColumns+` FROM schedules WHERE user_id = ? ORDER BY id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to select schedules: %w", err)
	}
	defer rows.Close()

	var result []models.Schedule
	for rows.Next() {
		s, err := scanSQLiteSchedule(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns a single schedule by id.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Schedule, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sqliteScheduleColumns+` FROM schedules WHERE id = ?`, id)

	s, err := scanSQLiteSchedule(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// Update applies the set fields of upd. When the type changes, typed columns
// not applicable to the new type are cleared unless the update provides them.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, upd *models.ScheduleUpdate) error {
	if upd.Empty() {
		return nil
	}

	var (
		assignments []string
		args        []any
	)
	assigned := make(map[string]struct{})
	add := func(col string, v any) {
		assignments = append(assignments, col+" = ?")
		args = append(args, v)
		assigned[col] = struct{}{}
	}

	if upd.Type != nil {
		add("type", string(*upd.Type))
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Days != nil {
		days, err := marshalDays(upd.Days)
		if err != nil {
			return err
		}
		add("days", days)
	}
	if upd.StartTime != nil {
		add("start_time", *upd.StartTime)
	}
	if upd.EndTime != nil {
		add("end_time", *upd.EndTime)
	}
	if upd.ReadyByTime != nil {
		add("ready_by_time", *upd.ReadyByTime)
	}
	if upd.DesiredChargeLevel != nil {
		add("desired_charge_level", *upd.DesiredChargeLevel)
	}
	if upd.DesiredMileage != nil {
		add("desired_mileage", *upd.DesiredMileage)
	}
	if upd.IsActive != nil {
		add("is_active", boolToInt(*upd.IsActive))
	}

	if upd.Type != nil {
		applicable := applicableColumns(*upd.Type)
		for _, col := range typedColumns {
			if _, ok := applicable[col]; ok {
				continue
			}
			if _, ok := assigned[col]; ok {
				continue
			}
			add(col, nil)
		}
	}

	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		`UPDATE schedules SET `+strings.Join(assignments, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}

	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete removes a schedule row. Missing ids are ignored.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil
}

// CountByUserID counts the user's schedules.
func (r *SQLiteRepository) CountByUserID(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schedules WHERE user_id = ?`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

// scanSQLiteSchedule reads one row using the column order of
// sqliteScheduleColumns, mapping NULLs to nil pointers.
func scanSQLiteSchedule(scan func(dest ...any) error) (*models.Schedule, error) {
	var (
		s          models.Schedule
		scheduleTp string
		days       string
		startTime  sql.NullString
		endTime    sql.NullString
		readyBy    sql.NullString
		level      sql.NullInt64
		mileage    sql.NullInt64
		isActive   int
		createdAt  int64
	)

	err := scan(&s.ID, &s.UserID, &scheduleTp, &s.Name, &days,
		&startTime, &endTime, &readyBy, &level, &mileage, &isActive, &createdAt)
	if err != nil {
		return nil, err
	}

	s.Type = models.ScheduleType(scheduleTp)
	s.Days, err = unmarshalDays(days)
	if err != nil {
		return nil, err
	}
	s.StartTime = fromNullString(startTime)
	s.EndTime = fromNullString(endTime)
	s.ReadyByTime = fromNullString(readyBy)
	s.DesiredChargeLevel = fromNullInt(level)
	s.DesiredMileage = fromNullInt(mileage)
	s.IsActive = isActive != 0
	s.CreatedAt = time.Unix(createdAt, 0).UTC()

	return &s, nil
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func fromNullInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

// boolToInt converts a boolean to 1/0 for SQLite.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// compile-time interface check
var _ Repository = (*SQLiteRepository)(nil)
