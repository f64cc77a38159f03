package models

import "time"

// Schedule is one staff assignment. A nil StaffID marks an open shift block.
type Schedule struct {
	ID        uint      `json:"schedule_id" gorm:"column:schedule_id;primaryKey"`
	ShiftDate time.Time `json:"shift_date" gorm:"type:date;not null;index"`
	Shift     string    `json:"shift" gorm:"not null"`
	StaffID   *uint     `json:"staff_id" gorm:"index"`
	Staff     *Staff    `json:"staff,omitempty" gorm:"foreignKey:StaffID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Schedule) TableName() string { return "schedule" }

type ShiftType string

const (
	ShiftMorning ShiftType = "Morning"
	ShiftEvening ShiftType = "Evening"
)

// Hours returns the display range of a shift.
func (s ShiftType) Hours() string {
	if s == ShiftMorning {
		return "08:00 - 15:00"
	}
	return "15:00 - 22:00"
}

// ShiftHours is the paid length of any shift.
const ShiftHours = 8
