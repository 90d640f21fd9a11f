package models

import "time"

// ScheduleType classifies a schedule's charging policy.
type ScheduleType string

const (
	// ScheduleTypeTime charges inside a fixed time window.
	ScheduleTypeTime ScheduleType = "time"
	// ScheduleTypeCharge reaches a target charge level by a deadline.
	ScheduleTypeCharge ScheduleType = "charge"
	// ScheduleTypeMileage reaches a target driving range by a deadline.
	ScheduleTypeMileage ScheduleType = "mileage"
)

// Valid reports whether t is one of the known schedule types.
func (t ScheduleType) Valid() bool {
	switch t {
	case ScheduleTypeTime, ScheduleTypeCharge, ScheduleTypeMileage:
		return true
	}
	return false
}

// Weekday is a day-of-week name as stored in the days column.
type Weekday string

const (
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
	Sunday    Weekday = "Sun"
)

// CanonicalWeek lists all weekdays in canonical order. Normalized day sets
// are always stored in this order.
var CanonicalWeek = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Range bounds for the numeric target fields.
const (
	MinChargeLevel = 0
	MaxChargeLevel = 100
	MinMileage     = 0
	MaxMileage     = 250
)

// Schedule is a stored charging schedule. It is inert configuration data:
// nothing in this application executes it.
//
// Exactly the fields relevant to Type are populated; the rest are nil.
type Schedule struct {
	ID     int64
	UserID int64
	Type   ScheduleType

	// Name is non-empty after trimming.
	Name string

	// Days is the selected weekday set in canonical order, never empty.
	Days []Weekday

	// StartTime and EndTime are set iff Type is "time".
	StartTime *string
	EndTime   *string

	// ReadyByTime is set iff Type is "charge" or "mileage".
	ReadyByTime *string

	// DesiredChargeLevel (0..100) is set iff Type is "charge".
	DesiredChargeLevel *int

	// DesiredMileage (0..250) is set iff Type is "mileage".
	DesiredMileage *int

	IsActive  bool
	CreatedAt time.Time
}

// SchedulePayload is a validated, normalized schedule ready to be persisted.
// Produced only by ScheduleForm.Validate.
type SchedulePayload struct {
	Type ScheduleType
	Name string
	Days []Weekday

	StartTime          *string
	EndTime            *string
	ReadyByTime        *string
	DesiredChargeLevel *int
	DesiredMileage     *int
}

// ScheduleUpdate describes a partial update of a stored schedule. Nil fields
// are left unchanged. When Type is set, columns not applicable to the new
// type are cleared unless explicitly provided alongside it.
type ScheduleUpdate struct {
	Type               *ScheduleType
	Name               *string
	Days               []Weekday
	StartTime          *string
	EndTime            *string
	ReadyByTime        *string
	DesiredChargeLevel *int
	DesiredMileage     *int
	IsActive           *bool
}

// Empty reports whether the update changes nothing.
func (u *ScheduleUpdate) Empty() bool {
	return u.Type == nil && u.Name == nil && u.Days == nil &&
		u.StartTime == nil && u.EndTime == nil && u.ReadyByTime == nil &&
		u.DesiredChargeLevel == nil && u.DesiredMileage == nil && u.IsActive == nil
}
