package models

import (
	"strconv"
	"strings"
)

// ScheduleForm carries raw user input for creating or editing a schedule.
// Numeric targets stay strings until Validate parses them, so non-numeric
// input is rejected by the same range check as out-of-range values.
type ScheduleForm struct {
	Type ScheduleType

	Name string

	// Days holds the selected weekday names in whatever order the UI
	// produced them. Unknown names are ignored during normalization.
	Days []string

	StartTime   string
	EndTime     string
	ReadyByTime string

	DesiredChargeLevel string
	DesiredMileage     string
}

// Validate checks the form in a fixed order (first failure wins) and returns
// a normalized payload:
//
//  1. name non-empty after trimming
//  2. days selection non-empty
//  3. start/end present for "time", readyBy present otherwise
//  4. charge level parses as an integer in [0,100] for "charge"
//  5. mileage parses as an integer in [0,250] for "mileage"
//
// The payload populates only the fields relevant to the schedule type and
// stores days in canonical Monday..Sunday order.
func (f *ScheduleForm) Validate() (*SchedulePayload, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return nil, &MissingFieldError{Field: "name"}
	}

	days := normalizeDays(f.Days)
	if len(days) == 0 {
		return nil, &MissingFieldError{Field: "days"}
	}

	// Which fields are required depends on the type, so it must be known
	// before the per-type checks.
	if !f.Type.Valid() {
		return nil, &MissingFieldError{Field: "type"}
	}

	p := &SchedulePayload{Type: f.Type, Name: name, Days: days}

	switch f.Type {
	case ScheduleTypeTime:
		if f.StartTime == "" {
			return nil, &MissingFieldError{Field: "startTime"}
		}
		if f.EndTime == "" {
			return nil, &MissingFieldError{Field: "endTime"}
		}
		p.StartTime = ptr(f.StartTime)
		p.EndTime = ptr(f.EndTime)

	default:
		if f.ReadyByTime == "" {
			return nil, &MissingFieldError{Field: "readyByTime"}
		}
		p.ReadyByTime = ptr(f.ReadyByTime)
	}

	if f.Type == ScheduleTypeCharge {
		level, err := strconv.Atoi(strings.TrimSpace(f.DesiredChargeLevel))
		if err != nil || level < MinChargeLevel || level > MaxChargeLevel {
			return nil, &OutOfRangeError{Field: "desiredChargeLevel"}
		}
		p.DesiredChargeLevel = &level
	}

	if f.Type == ScheduleTypeMileage {
		mileage, err := strconv.Atoi(strings.TrimSpace(f.DesiredMileage))
		if err != nil || mileage < MinMileage || mileage > MaxMileage {
			return nil, &OutOfRangeError{Field: "desiredMileage"}
		}
		p.DesiredMileage = &mileage
	}

	return p, nil
}

// normalizeDays filters the raw selection through the canonical week so the
// stored order is always Monday..Sunday regardless of toggle order.
func normalizeDays(raw []string) []Weekday {
	selected := make(map[Weekday]struct{}, len(raw))
	for _, d := range raw {
		selected[Weekday(strings.TrimSpace(d))] = struct{}{}
	}

	var days []Weekday
	for _, d := range CanonicalWeek {
		if _, ok := selected[d]; ok {
			days = append(days, d)
		}
	}
	return days
}

func ptr[T any](v T) *T {
	return &v
}
