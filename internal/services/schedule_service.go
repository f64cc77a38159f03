package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"restaurant_backend/internal/logging"
	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repository"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type ShiftStaff struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	ScheduleID uint   `json:"schedule_id"`
}

type ShiftBlock struct {
	ID    string       `json:"id"`
	Time  string       `json:"time"`
	Shift string       `json:"shift"`
	Staff []ShiftStaff `json:"staff"`
}

// DaySchedule groups the shift blocks of one calendar day. Date is the day
// of the month.
type DaySchedule struct {
	Date   int          `json:"date"`
	Day    string       `json:"day"`
	Shifts []ShiftBlock `json:"shifts"`
}

type ScheduleInput struct {
	ShiftDate string
	Shift     string
	StaffID   *uint
}

type ScheduleService interface {
	Week(ctx context.Context, startDate string) ([]DaySchedule, error)
	Month(ctx context.Context, month, year int) ([]DaySchedule, error)
	Create(ctx context.Context, in ScheduleInput) (*models.Schedule, error)
	DeleteBlock(ctx context.Context, shiftDate, shift string) (int64, error)
	DeleteEntry(ctx context.Context, id uint) error
	ForEmployee(ctx context.Context, staffID uint, month, year int) ([]models.Schedule, error)
}

type scheduleService struct {
	schedules repository.ScheduleRepository
	now       func() time.Time
}

func NewScheduleService(schedules repository.ScheduleRepository) ScheduleService {
	return &scheduleService{schedules: schedules, now: time.Now}
}

func parseDate(value, field string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, invalid("%s is required", field)
	}
	// Accept full timestamps as well as plain dates.
	if len(value) > len(dateLayout) {
		value = value[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, invalid("%s must be a date in YYYY-MM-DD format", field)
	}
	return t, nil
}

// NormalizeShift capitalises a shift name and rejects anything other than
// Morning or Evening.
func NormalizeShift(shift string) (models.ShiftType, error) {
	shift = strings.TrimSpace(shift)
	if shift == "" {
		return "", invalid("shift is required")
	}
	normalized := models.ShiftType(strings.ToUpper(shift[:1]) + strings.ToLower(shift[1:]))
	if normalized != models.ShiftMorning && normalized != models.ShiftEvening {
		return "", invalid("Invalid shift type. Must be 'Morning' or 'Evening'")
	}
	return normalized, nil
}

func (s *scheduleService) Week(ctx context.Context, startDate string) ([]DaySchedule, error) {
	start, err := parseDate(startDate, "startDate")
	if err != nil {
		return nil, err
	}
	entries, err := s.schedules.ListRange(ctx, start, start.AddDate(0, 0, 7))
	if err != nil {
		return nil, fromRepo(err, "list week schedule", "")
	}
	return groupSchedule(entries), nil
}

func (s *scheduleService) Month(ctx context.Context, month, year int) ([]DaySchedule, error) {
	from, to, err := monthRange(month, year)
	if err != nil {
		return nil, err
	}
	entries, err := s.schedules.ListRange(ctx, from, to)
	if err != nil {
		return nil, fromRepo(err, "list month schedule", "")
	}
	return groupSchedule(entries), nil
}

// groupSchedule folds entries into per-day shift blocks. Open blocks appear
// with an empty staff list.
func groupSchedule(entries []models.Schedule) []DaySchedule {
	days := map[string]*DaySchedule{}
	blocks := map[string]*ShiftBlock{}
	var blockOrder []string

	for _, entry := range entries {
		if entry.Shift == "" {
			continue
		}
		dayKey := entry.ShiftDate.Format(dateLayout)
		if _, ok := days[dayKey]; !ok {
			days[dayKey] = &DaySchedule{Date: entry.ShiftDate.Day(), Day: dayKey}
		}

		blockKey := dayKey + "/" + entry.Shift
		block, ok := blocks[blockKey]
		if !ok {
			block = &ShiftBlock{
				ID:    fmt.Sprintf("%d-%s", entry.ShiftDate.Day(), entry.Shift),
				Time:  models.ShiftType(entry.Shift).Hours(),
				Shift: entry.Shift,
				Staff: []ShiftStaff{},
			}
			blocks[blockKey] = block
			blockOrder = append(blockOrder, blockKey)
		}
		if entry.StaffID != nil && entry.Staff != nil {
			block.Staff = append(block.Staff, ShiftStaff{
				ID:         *entry.StaffID,
				Name:       entry.Staff.Name,
				Role:       entry.Staff.Role,
				ScheduleID: entry.ID,
			})
		}
	}

	for _, key := range blockOrder {
		dayKey := key[:len(dateLayout)]
		days[dayKey].Shifts = append(days[dayKey].Shifts, *blocks[key])
	}

	out := make([]DaySchedule, 0, len(days))
	for _, day := range days {
		sort.SliceStable(day.Shifts, func(i, j int) bool {
			return day.Shifts[i].Shift == string(models.ShiftMorning) && day.Shifts[j].Shift != string(models.ShiftMorning)
		})
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

func (s *scheduleService) Create(ctx context.Context, in ScheduleInput) (*models.Schedule, error) {
	if strings.TrimSpace(in.ShiftDate) == "" || strings.TrimSpace(in.Shift) == "" {
		return nil, invalid("shift_date and shift are required")
	}
	shift, err := NormalizeShift(in.Shift)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(in.ShiftDate, "shift_date")
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil, invalid("Cannot create a shift before today.")
	}

	exists, err := s.schedules.Exists(ctx, date, string(shift), in.StaffID)
	if err != nil {
		return nil, fromRepo(err, "check schedule", "")
	}
	if exists {
		if in.StaffID == nil {
			return nil, conflict("Shift already exists for this date and type.")
		}
		return nil, conflict("Staff member already assigned to this shift on this date.")
	}

	entry := &models.Schedule{ShiftDate: date, Shift: string(shift), StaffID: in.StaffID}
	if err := s.schedules.Create(ctx, entry); err != nil {
		return nil, fromRepo(err, "create schedule", "Staff not found")
	}

	log := logging.FromContext(ctx).With(zap.Uint("schedule_id", entry.ID), zap.String("shift_date", date.Format(dateLayout)), zap.String("shift", entry.Shift))
	if in.StaffID != nil {
		log.Info("staff assigned to shift", zap.Uint("staff_id", *in.StaffID))
	} else {
		log.Info("shift block created")
	}
	return entry, nil
}

// DeleteBlock removes a shift block together with every assignment in it.
func (s *scheduleService) DeleteBlock(ctx context.Context, shiftDate, shift string) (int64, error) {
	if strings.TrimSpace(shiftDate) == "" || strings.TrimSpace(shift) == "" {
		return 0, invalid("shift_date and shift are required")
	}
	normalized, err := NormalizeShift(shift)
	if err != nil {
		return 0, err
	}
	date, err := parseDate(shiftDate, "shift_date")
	if err != nil {
		return 0, err
	}

	n, err := s.schedules.DeleteBlock(ctx, date, string(normalized))
	if err != nil {
		return 0, fromRepo(err, "delete shift block", "")
	}
	if n == 0 {
		return 0, notFound("Shift block not found")
	}
	logging.FromContext(ctx).Info("shift block deleted",
		zap.String("shift_date", date.Format(dateLayout)),
		zap.String("shift", string(normalized)),
		zap.Int64("entries", n))
	return n, nil
}

func (s *scheduleService) DeleteEntry(ctx context.Context, id uint) error {
	if err := s.schedules.Delete(ctx, id); err != nil {
		return fromRepo(err, "delete schedule", "Schedule not found")
	}
	return nil
}

func (s *scheduleService) ForEmployee(ctx context.Context, staffID uint, month, year int) ([]models.Schedule, error) {
	if staffID == 0 {
		return nil, invalid("Query parameters 'employeeId', 'month' and 'year' are required")
	}
	from, to, err := monthRange(month, year)
	if err != nil {
		return nil, err
	}
	entries, err := s.schedules.ListForStaff(ctx, staffID, from, to)
	return entries, fromRepo(err, "list employee schedule", "")
}
