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

// PostgresRepository implements Repository over PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a PostgresRepository bound to the given handle.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const pgScheduleColumns = `id, user_id, type, name, days, start_time, end_time,
	ready_by_time, desired_charge_level, desired_mileage, is_active, created_at`

// Create counts and inserts in one transaction, mirroring the SQLite
// implementation's quota guarantee.
func (r *PostgresRepository) Create(ctx context.Context, userID int64, payload *models.SchedulePayload) (*models.Schedule, error) {
	days, err := marshalDays(payload.Days)
	if err != nil {
		return nil, err
	}

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
	}

	err = dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM schedules WHERE user_id = $1`, userID,
		).Scan(&count); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if count >= common.MaxSchedulesPerUser {
			return common.ErrQuotaExceeded
		}

		var (
			id      int64
			created time.Time
		)
		err := tx.QueryRowContext(ctx,
			`INSERT INTO schedules (user_id, type, name, days, start_time, end_time,
			        ready_by_time, desired_charge_level, desired_mileage, is_active)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
			 RETURNING id, created_at`,
			userID, string(payload.Type), payload.Name, days,
			payload.StartTime, payload.EndTime, payload.ReadyByTime,
			payload.DesiredChargeLevel, payload.DesiredMileage,
		).Scan(&id, &created)
		if err != nil {
			return fmt.Errorf("failed to insert schedule: %w", err)
		}

		schedule.ID = id
		schedule.CreatedAt = created.UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return schedule, nil
}

// GetByUserID lists the user's schedules, newest first.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID int64) ([]models.Schedule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+pgScheduleColumns+` FROM schedules WHERE user_id = $1 ORDER BY id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to select schedules: %w", err)
	}
	defer rows.Close()

	var result []models.Schedule
	for rows.Next() {
		s, err := scanPgSchedule(rows.Scan)
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
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Schedule, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+pgScheduleColumns+` FROM schedules WHERE id = $1`, id)

	s, err := scanPgSchedule(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// Update applies the set fields of upd, clearing typed columns that stop
// being applicable when the type changes.
func (r *PostgresRepository) Update(ctx context.Context, id int64, upd *models.ScheduleUpdate) error {
	if upd.Empty() {
		return nil
	}

	var (
		assignments []string
		args        []any
	)
	assigned := make(map[string]struct{})
	add := func(col string, v any) {
		args = append(args, v)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", col, len(args)))
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
		add("is_active", *upd.IsActive)
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
			assignments = append(assignments, col+" = NULL")
		}
	}

	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE schedules SET %s WHERE id = $%d`,
			strings.Join(assignments, ", "), len(args)),
		args...)
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
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil
}

// CountByUserID counts the user's schedules.
func (r *PostgresRepository) CountByUserID(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schedules WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

// scanPgSchedule reads one row using the column order of pgScheduleColumns.
func scanPgSchedule(scan func(dest ...any) error) (*models.Schedule, error) {
	var (
		s          models.Schedule
		scheduleTp string
		days       string
		startTime  sql.NullString
		endTime    sql.NullString
		readyBy    sql.NullString
		level      sql.NullInt64
		mileage    sql.NullInt64
		createdAt  time.Time
	)

	err := scan(&s.ID, &s.UserID, &scheduleTp, &s.Name, &days,
		&startTime, &endTime, &readyBy, &level, &mileage, &s.IsActive, &createdAt)
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
	s.CreatedAt = createdAt.UTC()

	return &s, nil
}

// compile-time interface check
var _ Repository = (*PostgresRepository)(nil)
