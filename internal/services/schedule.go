package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/ddanilovs/chargekeeper/internal/logging"
	"github.com/ddanilovs/chargekeeper/internal/models"
	"github.com/ddanilovs/chargekeeper/internal/repositories/schedules"
)

// ScheduleService validates schedule forms and drives the schedule store.
// Writes for a single user are serialized so the quota check and the insert
// cannot interleave between two concurrent creations.
type ScheduleService interface {
	Create(ctx context.Context, userID int64, form *models.ScheduleForm) (*models.Schedule, error)
	List(ctx context.Context, userID int64) ([]models.Schedule, error)
	Get(ctx context.Context, id int64) (*models.Schedule, error)
	Update(ctx context.Context, id int64, form *models.ScheduleForm) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context, userID int64) (int, error)
}

type scheduleService struct {
	repo   schedules.Repository
	logger logging.Logger

	// userLocks keeps one mutex per user id for write serialization.
	userLocks sync.Map
}

// NewScheduleService constructs a ScheduleService over the given repository.
func NewScheduleService(repo schedules.Repository, logger logging.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger}
}

func (s *scheduleService) lockUser(userID int64) func() {
	v, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Create validates the form and inserts the normalized payload. Validation
// failures never reach the repository.
func (s *scheduleService) Create(ctx context.Context, userID int64, form *models.ScheduleForm) (*models.Schedule, error) {
	payload, err := form.Validate()
	if err != nil {
		return nil, err
	}

	unlock := s.lockUser(userID)
	defer unlock()

	schedule, err := s.repo.Create(ctx, userID, payload)
	if err != nil {
		return nil, fmt.Errorf("error creating schedule: %w", err)
	}

	s.logger.Info(ctx, "schedule created",
		"user_id", userID, "schedule_id", schedule.ID, "type", string(schedule.Type))
	return schedule, nil
}

// List returns the user's schedules, newest first.
func (s *scheduleService) List(ctx context.Context, userID int64) ([]models.Schedule, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Get returns a single schedule by id.
func (s *scheduleService) Get(ctx context.Context, id int64) (*models.Schedule, error) {
	return s.repo.GetByID(ctx, id)
}

// Update validates the full edited form and writes every field of the
// schedule, clearing whatever stops being applicable to the new type.
func (s *scheduleService) Update(ctx context.Context, id int64, form *models.ScheduleForm) error {
	payload, err := form.Validate()
	if err != nil {
		return err
	}

	upd := &models.ScheduleUpdate{
		Type:               &payload.Type,
		Name:               &payload.Name,
		Days:               payload.Days,
		StartTime:          payload.StartTime,
		EndTime:            payload.EndTime,
		ReadyByTime:        payload.ReadyByTime,
		DesiredChargeLevel: payload.DesiredChargeLevel,
		DesiredMileage:     payload.DesiredMileage,
	}

	if err := s.repo.Update(ctx, id, upd); err != nil {
		return fmt.Errorf("error updating schedule: %w", err)
	}
	return nil
}

// SetActive toggles the schedule's active flag without touching anything else.
func (s *scheduleService) SetActive(ctx context.Context, id int64, active bool) error {
	if err := s.repo.Update(ctx, id, &models.ScheduleUpdate{IsActive: &active}); err != nil {
		return fmt.Errorf("error updating schedule: %w", err)
	}
	return nil
}

// Delete removes a schedule; deleting a missing id is not an error.
func (s *scheduleService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting schedule: %w", err)
	}

	s.logger.Info(ctx, "schedule deleted", "schedule_id", id)
	return nil
}

// Count returns how many schedules the user owns.
func (s *scheduleService) Count(ctx context.Context, userID int64) (int, error) {
	return s.repo.CountByUserID(ctx, userID)
}
