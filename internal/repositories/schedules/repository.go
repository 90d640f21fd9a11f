// Package schedules provides durable storage for charging schedules with
// the per-user quota and type-field consistency enforced at the storage
// boundary.
package schedules

import (
	"context"

	"github.com/ddanilovs/chargekeeper/internal/models"
)

// Repository describes CRUD operations for charging schedules.
type Repository interface {
	// Create persists a validated payload for the given user, assigning the
	// id and creation timestamp. The quota check and the insert run as one
	// atomic unit; at the quota it fails with common.ErrQuotaExceeded and
	// no row is added.
	Create(ctx context.Context, userID int64, payload *models.SchedulePayload) (*models.Schedule, error)

	// GetByUserID returns all schedules owned by the user, most recently
	// created first.
	GetByUserID(ctx context.Context, userID int64) ([]models.Schedule, error)

	// GetByID returns a single schedule, or common.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.Schedule, error)

	// Update applies only the fields set in upd; nil fields stay unchanged.
	// An empty update is a no-op. A missing row is common.ErrNotFound.
	Update(ctx context.Context, id int64, upd *models.ScheduleUpdate) error

	// Delete removes a schedule by id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id int64) error

	// CountByUserID returns how many schedules the user owns.
	CountByUserID(ctx context.Context, userID int64) (int, error)
}
