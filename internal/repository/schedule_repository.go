package repository

import (
	"context"
	"time"

	"restaurant_backend/internal/models"

	"gorm.io/gorm"
)

// ShiftCount is the number of assigned shifts for one staff member.
type ShiftCount struct {
	StaffID uint
	Shifts  int
}

type ScheduleRepository interface {
	// ListRange returns entries with from <= shift_date < to.
	ListRange(ctx context.Context, from, to time.Time) ([]models.Schedule, error)
	ListForStaff(ctx context.Context, staffID uint, from, to time.Time) ([]models.Schedule, error)
	// Exists reports whether the slot is taken. A nil staffID checks for the
	// open block itself.
	Exists(ctx context.Context, date time.Time, shift string, staffID *uint) (bool, error)
	Create(ctx context.Context, entry *models.Schedule) error
	DeleteBlock(ctx context.Context, date time.Time, shift string) (int64, error)
	Delete(ctx context.Context, id uint) error
	ShiftCounts(ctx context.Context, from, to time.Time) ([]ShiftCount, error)
}

type scheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) ListRange(ctx context.Context, from, to time.Time) ([]models.Schedule, error) {
	var entries []models.Schedule
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Where("shift_date >= ? AND shift_date < ?", from, to).
		Order("shift_date").Order("shift").
		Find(&entries).Error
	return entries, translate(err)
}

func (r *scheduleRepository) ListForStaff(ctx context.Context, staffID uint, from, to time.Time) ([]models.Schedule, error) {
	var entries []models.Schedule
	err := r.db.WithContext(ctx).
		Where("staff_id = ? AND shift_date >= ? AND shift_date < ?", staffID, from, to).
		Order("shift_date").Order("shift").
		Find(&entries).Error
	return entries, translate(err)
}

func (r *scheduleRepository) Exists(ctx context.Context, date time.Time, shift string, staffID *uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Schedule{}).Where("shift_date = ? AND shift = ?", date, shift)
	if staffID == nil {
		query = query.Where("staff_id IS NULL")
	} else {
		query = query.Where("staff_id = ?", *staffID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *scheduleRepository) Create(ctx context.Context, entry *models.Schedule) error {
	return translate(r.db.WithContext(ctx).Omit("Staff").Create(entry).Error)
}

func (r *scheduleRepository) DeleteBlock(ctx context.Context, date time.Time, shift string) (int64, error) {
	res := r.db.WithContext(ctx).Where("shift_date = ? AND shift = ?", date, shift).Delete(&models.Schedule{})
	return res.RowsAffected, translate(res.Error)
}

func (r *scheduleRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Schedule{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *scheduleRepository) ShiftCounts(ctx context.Context, from, to time.Time) ([]ShiftCount, error) {
	var counts []ShiftCount
	err := r.db.WithContext(ctx).Model(&models.Schedule{}).
		Select("staff_id, COUNT(*) AS shifts").
		Where("staff_id IS NOT NULL AND shift_date >= ? AND shift_date < ?", from, to).
		Group("staff_id").
		Scan(&counts).Error
	return counts, translate(err)
}
