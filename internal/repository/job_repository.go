package repository

import (
	"context"
	"time"

	"restaurant_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobHandler performs one due job. A returned error leaves the job pending.
type JobHandler func(ctx context.Context, job models.ScheduledJob) error

type ScheduledJobRepository interface {
	Create(ctx context.Context, job *models.ScheduledJob) error
	// ProcessDue locks up to limit due jobs, skipping rows already locked by
	// another sweeper, and runs handle on each. Jobs that succeed or reach
	// maxAttempts are marked done.
	ProcessDue(ctx context.Context, now time.Time, limit, maxAttempts int, handle JobHandler) (int, error)
}

type scheduledJobRepository struct {
	db *gorm.DB
}

func NewScheduledJobRepository(db *gorm.DB) ScheduledJobRepository {
	return &scheduledJobRepository{db: db}
}

func (r *scheduledJobRepository) Create(ctx context.Context, job *models.ScheduledJob) error {
	return translate(r.db.WithContext(ctx).Create(job).Error)
}

func (r *scheduledJobRepository) ProcessDue(ctx context.Context, now time.Time, limit, maxAttempts int, handle JobHandler) (int, error) {
	processed := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var jobs []models.ScheduledJob
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("done_at IS NULL AND run_after <= ?", now).
			Order("run_after").
			Limit(limit).
			Find(&jobs).Error
		if err != nil {
			return err
		}

		for _, job := range jobs {
			fields := map[string]interface{}{}
			if handleErr := handle(ctx, job); handleErr != nil {
				fields["attempts"] = job.Attempts + 1
				fields["last_error"] = handleErr.Error()
				if job.Attempts+1 >= maxAttempts {
					fields["done_at"] = now
				}
			} else {
				fields["done_at"] = now
				processed++
			}
			if err := tx.Model(&models.ScheduledJob{}).Where("id = ?", job.ID).Updates(fields).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return processed, translate(err)
}
