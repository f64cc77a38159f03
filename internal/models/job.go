package models

import "time"

// ScheduledJob is a durable delayed action polled by the job sweeper.
type ScheduledJob struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Kind      string     `json:"kind" gorm:"not null"`
	SaleID    uint       `json:"sale_id" gorm:"not null;index"`
	RunAfter  time.Time  `json:"run_after" gorm:"not null;index:idx_scheduled_job_due,priority:2"`
	DoneAt    *time.Time `json:"done_at" gorm:"index:idx_scheduled_job_due,priority:1"`
	Attempts  int        `json:"attempts" gorm:"not null;default:0"`
	LastError string     `json:"last_error"`
	CreatedAt time.Time  `json:"created_at"`
}

func (ScheduledJob) TableName() string { return "scheduled_job" }

const JobAutoComplete = "auto_complete"
