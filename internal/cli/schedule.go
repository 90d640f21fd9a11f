package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ddanilovs/chargekeeper/internal/common"
	"github.com/ddanilovs/chargekeeper/internal/models"
)

func (a *App) requireLogin() bool {
	if !a.isLoggedIn() {
		fmt.Println("Please log in first")
		return false
	}
	return true
}

func (a *App) list(ctx context.Context) {
	if !a.requireLogin() {
		return
	}

	items, err := a.scheduleService.List(ctx, a.user.ID)
	if err != nil {
		log.Println(err.Error())
		return
	}

	if len(items) == 0 {
		fmt.Println("No schedules yet; use 'add' to create one")
		return
	}
	for _, s := range items {
		fmt.Println(formatSchedule(&s))
	}
}

func (a *App) add(ctx context.Context) {
	if !a.requireLogin() {
		return
	}

	form, err := a.inputScheduleForm(nil)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	schedule, err := a.scheduleService.Create(ctx, a.user.ID, form)
	if err != nil {
		reportScheduleError(err)
		return
	}

	fmt.Printf("Created schedule %d\n", schedule.ID)
}

func (a *App) edit(ctx context.Context) {
	if !a.requireLogin() {
		return
	}

	id, ok := a.promptID("Enter schedule id to edit")
	if !ok {
		return
	}

	current, err := a.scheduleService.Get(ctx, id)
	if err != nil {
		reportScheduleError(err)
		return
	}

	form, err := a.inputScheduleForm(current)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if err := a.scheduleService.Update(ctx, id, form); err != nil {
		reportScheduleError(err)
		return
	}

	fmt.Println("Updated")
}

func (a *App) delete(ctx context.Context) {
	if !a.requireLogin() {
		return
	}

	id, ok := a.promptID("Enter schedule id to delete")
	if !ok {
		return
	}

	if err := a.scheduleService.Delete(ctx, id); err != nil {
		log.Printf("error: %v", err)
		return
	}

	fmt.Println("Deleted")
}

func (a *App) setActive(ctx context.Context, active bool) {
	if !a.requireLogin() {
		return
	}

	prompt := "Enter schedule id to deactivate"
	if active {
		prompt = "Enter schedule id to activate"
	}

	id, ok := a.promptID(prompt)
	if !ok {
		return
	}

	if err := a.scheduleService.SetActive(ctx, id, active); err != nil {
		reportScheduleError(err)
		return
	}

	fmt.Println("Done")
}

func (a *App) promptID(prompt string) (int64, bool) {
	text, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return 0, false
	}
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		fmt.Println("Invalid id:", text)
		return 0, false
	}
	return id, true
}

// inputScheduleForm collects a full schedule form. When current is non-nil
// (edit flow), its values are offered as defaults and Enter keeps them.
func (a *App) inputScheduleForm(current *models.Schedule) (*models.ScheduleForm, error) {
	form := &models.ScheduleForm{}

	var err error
	if current != nil {
		typeText, err := GetTextWithDefault(a.reader, "Schedule type (time/charge/mileage)", string(current.Type), os.Stdout)
		if err != nil {
			return nil, err
		}
		form.Type = models.ScheduleType(typeText)

		form.Name, err = GetTextWithDefault(a.reader, "Name", current.Name, os.Stdout)
		if err != nil {
			return nil, err
		}

		daysText, err := GetTextWithDefault(a.reader, "Days (comma separated, e.g. Mon,Wed)", joinDays(current.Days), os.Stdout)
		if err != nil {
			return nil, err
		}
		form.Days = splitDays(daysText)
	} else {
		typeText, err := getSimpleText(a.reader, "Schedule type (time/charge/mileage)", os.Stdout)
		if err != nil {
			return nil, err
		}
		form.Type = models.ScheduleType(typeText)

		form.Name, err = getSimpleText(a.reader, "Name", os.Stdout)
		if err != nil {
			return nil, err
		}

		daysText, err := getSimpleText(a.reader, "Days (comma separated, e.g. Mon,Wed)", os.Stdout)
		if err != nil {
			return nil, err
		}
		form.Days = splitDays(daysText)
	}

	switch form.Type {
	case models.ScheduleTypeTime:
		form.StartTime, err = a.promptField("Start time (HH:MM)", deref(currentField(current, func(s *models.Schedule) *string { return s.StartTime })))
		if err != nil {
			return nil, err
		}
		form.EndTime, err = a.promptField("End time (HH:MM)", deref(currentField(current, func(s *models.Schedule) *string { return s.EndTime })))
		if err != nil {
			return nil, err
		}

	case models.ScheduleTypeCharge:
		form.ReadyByTime, err = a.promptField("Ready by (HH:MM)", deref(currentField(current, func(s *models.Schedule) *string { return s.ReadyByTime })))
		if err != nil {
			return nil, err
		}
		form.DesiredChargeLevel, err = a.promptField("Desired charge level (0-100)", intDefault(current, func(s *models.Schedule) *int { return s.DesiredChargeLevel }))
		if err != nil {
			return nil, err
		}

	case models.ScheduleTypeMileage:
		form.ReadyByTime, err = a.promptField("Ready by (HH:MM)", deref(currentField(current, func(s *models.Schedule) *string { return s.ReadyByTime })))
		if err != nil {
			return nil, err
		}
		form.DesiredMileage, err = a.promptField("Desired mileage (0-250)", intDefault(current, func(s *models.Schedule) *int { return s.DesiredMileage }))
		if err != nil {
			return nil, err
		}
	}

	return form, nil
}

// promptField reads a value, offering def as the keep-current default when
// it is non-empty.
func (a *App) promptField(prompt, def string) (string, error) {
	if def != "" {
		return GetTextWithDefault(a.reader, prompt, def, os.Stdout)
	}
	return getSimpleText(a.reader, prompt, os.Stdout)
}

func currentField(current *models.Schedule, get func(*models.Schedule) *string) *string {
	if current == nil {
		return nil
	}
	return get(current)
}

func intDefault(current *models.Schedule, get func(*models.Schedule) *int) string {
	if current == nil {
		return ""
	}
	v := get(current)
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func splitDays(text string) []string {
	var days []string
	for _, d := range strings.Split(text, ",") {
		d = strings.TrimSpace(d)
		if d != "" {
			days = append(days, d)
		}
	}
	return days
}

func joinDays(days []models.Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = string(d)
	}
	return strings.Join(parts, ",")
}

func formatSchedule(s *models.Schedule) string {
	state := "active"
	if !s.IsActive {
		state = "off"
	}

	var details string
	switch s.Type {
	case models.ScheduleTypeTime:
		details = fmt.Sprintf("%s-%s", deref(s.StartTime), deref(s.EndTime))
	case models.ScheduleTypeCharge:
		details = fmt.Sprintf("%d%% by %s", derefInt(s.DesiredChargeLevel), deref(s.ReadyByTime))
	case models.ScheduleTypeMileage:
		details = fmt.Sprintf("%d mi by %s", derefInt(s.DesiredMileage), deref(s.ReadyByTime))
	}

	return fmt.Sprintf("[%d] %s (%s, %s) %s %s", s.ID, s.Name, s.Type, state, joinDays(s.Days), details)
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// reportScheduleError prints service errors in user terms.
func reportScheduleError(err error) {
	var missing *models.MissingFieldError
	var outOfRange *models.OutOfRangeError

	switch {
	case errors.As(err, &missing):
		fmt.Printf("Please fill in %s\n", missing.Field)
	case errors.As(err, &outOfRange):
		fmt.Printf("Value for %s is not a valid number in range\n", outOfRange.Field)
	case errors.Is(err, common.ErrQuotaExceeded):
		fmt.Printf("You already have %d schedules; delete one first\n", common.MaxSchedulesPerUser)
	case errors.Is(err, common.ErrNotFound):
		fmt.Println("No schedule with that id")
	default:
		log.Printf("error: %v", err)
	}
}
