package schedules

import (
	"encoding/json"
	"fmt"

	"github.com/ddanilovs/chargekeeper/internal/models"
)

// typedColumns are the columns whose presence depends on the schedule type.
var typedColumns = []string{
	"start_time",
	"end_time",
	"ready_by_time",
	"desired_charge_level",
	"desired_mileage",
}

// applicableColumns maps a schedule type to the typed columns it may populate.
// Everything else must be NULL for that type.
func applicableColumns(t models.ScheduleType) map[string]struct{} {
	switch t {
	case models.ScheduleTypeTime:
		return map[string]struct{}{"start_time": {}, "end_time": {}}
	case models.ScheduleTypeCharge:
		return map[string]struct{}{"ready_by_time": {}, "desired_charge_level": {}}
	case models.ScheduleTypeMileage:
		return map[string]struct{}{"ready_by_time": {}, "desired_mileage": {}}
	default:
		return nil
	}
}

// marshalDays serializes a weekday set for the days column.
func marshalDays(days []models.Weekday) (string, error) {
	b, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("failed to marshal days: %w", err)
	}
	return string(b), nil
}

// unmarshalDays restores a weekday set from the days column.
func unmarshalDays(s string) ([]models.Weekday, error) {
	var days []models.Weekday
	if err := json.Unmarshal([]byte(s), &days); err != nil {
		return nil, fmt.Errorf("failed to unmarshal days: %w", err)
	}
	return days, nil
}
