package services

import (
	"context"
	"testing"
	"time"

	"restaurant_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScheduleFixture() (*scheduleService, *memStore) {
	store := newMemStore()
	svc := NewScheduleService(memSchedules{store}).(*scheduleService)
	svc.now = func() time.Time { return fixedNow }
	return svc, store
}

func TestNormalizeShift(t *testing.T) {
	for _, in := range []string{"morning", "MORNING", "Morning"} {
		got, err := NormalizeShift(in)
		require.NoError(t, err)
		assert.Equal(t, models.ShiftMorning, got)
	}
	_, err := NormalizeShift("night")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateShift(t *testing.T) {
	svc, store := newScheduleFixture()
	ctx := context.Background()
	cook := seedStaff(t, store, "cook", string(models.RoleChef), 1)

	_, err := svc.Create(ctx, ScheduleInput{ShiftDate: "2025-03-09", Shift: "morning"})
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "Cannot create a shift before today.", svcErr.Message)

	block, err := svc.Create(ctx, ScheduleInput{ShiftDate: "2025-03-10", Shift: "morning"})
	require.NoError(t, err)
	assert.Equal(t, "Morning", block.Shift)
	assert.Nil(t, block.StaffID)

	_, err = svc.Create(ctx, ScheduleInput{ShiftDate: "2025-03-10", Shift: "Morning"})
	require.ErrorAs(t, err, &svcErr)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Shift already exists for this date and type.", svcErr.Message)

	_, err = svc.Create(ctx, ScheduleInput{ShiftDate: "2025-03-10", Shift: "Morning", StaffID: &cook.ID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ScheduleInput{ShiftDate: "2025-03-10", Shift: "Morning", StaffID: &cook.ID})
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "Staff member already assigned to this shift on this date.", svcErr.Message)
}

func TestWeekGroupsBlocksByDay(t *testing.T) {
	svc, store := newScheduleFixture()
	ctx := context.Background()
	cook := seedStaff(t, store, "cook", string(models.RoleChef), 1)

	for _, in := range []ScheduleInput{
		{ShiftDate: "2025-03-11", Shift: "Morning"},
		{ShiftDate: "2025-03-11", Shift: "Morning", StaffID: &cook.ID},
		{ShiftDate: "2025-03-11", Shift: "Evening"},
		{ShiftDate: "2025-03-14", Shift: "Evening", StaffID: &cook.ID},
		{ShiftDate: "2025-03-20", Shift: "Morning"},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	week, err := svc.Week(ctx, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, week, 2)

	assert.Equal(t, 11, week[0].Date)
	require.Len(t, week[0].Shifts, 2)
	morning := week[0].Shifts[0]
	assert.Equal(t, "11-Morning", morning.ID)
	assert.Equal(t, "08:00 - 15:00", morning.Time)
	require.Len(t, morning.Staff, 1)
	assert.Equal(t, "cook", morning.Staff[0].Name)
	assert.Empty(t, week[0].Shifts[1].Staff)
	assert.Equal(t, "15:00 - 22:00", week[0].Shifts[1].Time)

	assert.Equal(t, 14, week[1].Date)

	_, err = svc.Week(ctx, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteBlock(t *testing.T) {
	svc, store := newScheduleFixture()
	ctx := context.Background()
	cook := seedStaff(t, store, "cook", string(models.RoleChef), 1)
	_, err := svc.Create(ctx, ScheduleInput{ShiftDate: "2025-03-12", Shift: "Evening"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ScheduleInput{ShiftDate: "2025-03-12", Shift: "Evening", StaffID: &cook.ID})
	require.NoError(t, err)

	n, err := svc.DeleteBlock(ctx, "2025-03-12", "evening")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = svc.DeleteBlock(ctx, "2025-03-12", "evening")
	assert.ErrorIs(t, err, ErrNotFound)
}
