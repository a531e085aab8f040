package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shashiranjanraj/shirtshop/pkg/logger"
	"gorm.io/gorm"
)

// FailedJobRecord is a job that exhausted its retries, kept so it can be
// re-queued with RetryFailed. The table comes from the create_tables
// migration.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobType  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null;default:0"`
	FailedAt time.Time `gorm:"autoCreateTime"`
}

func (FailedJobRecord) TableName() string { return "failed_jobs" }

var failedJobDB atomic.Pointer[gorm.DB]

// UseDB persists jobs that exhaust their attempts to db. nil turns
// persistence off and they are only logged.
func UseDB(db *gorm.DB) { failedJobDB.Store(db) }

func persistFailed(job Job, typeName string, lastErr error, attempts int) {
	db := failedJobDB.Load()
	if db == nil {
		return
	}

	// the payload is what RetryFailed decodes, so an unmarshalable job
	// is logged and dropped rather than stored as junk
	payload, err := json.Marshal(job)
	if err != nil {
		logger.Error("queue: failed job not persisted", "type", typeName, "error", err)
		return
	}

	record := FailedJobRecord{JobType: typeName, Payload: string(payload), Attempts: attempts}
	if lastErr != nil {
		record.Error = lastErr.Error()
	}
	if err := db.Create(&record).Error; err != nil {
		logger.Error("queue: persist failed job", "type", typeName, "error", err)
	}
}

// RetryFailed re-dispatches up to limit persisted failed jobs, oldest first,
// and deletes each row once its job is back on the queue. Rows of a type not
// registered in this process are left alone. Without UseDB it is a no-op.
func RetryFailed(ctx context.Context, limit int) (int, error) {
	db := failedJobDB.Load()
	if db == nil {
		return 0, nil
	}
	db = db.WithContext(ctx)

	var records []FailedJobRecord
	if err := db.Order("id asc").Limit(limit).Find(&records).Error; err != nil {
		return 0, fmt.Errorf("queue: load failed jobs: %w", err)
	}

	requeued := 0
	for _, rec := range records {
		job, err := std.decode(rec.JobType, []byte(rec.Payload))
		if err != nil {
			logger.Warn("queue: failed job left in place", "id", rec.ID, "error", err)
			continue
		}
		if err := Dispatch(job); err != nil {
			return requeued, fmt.Errorf("queue: re-dispatch %d: %w", rec.ID, err)
		}
		if err := db.Delete(&FailedJobRecord{}, rec.ID).Error; err != nil {
			return requeued, fmt.Errorf("queue: remove failed job %d: %w", rec.ID, err)
		}
		requeued++
	}

	if requeued > 0 {
		logger.Info("queue: failed jobs re-queued", "count", requeued)
	}
	return requeued, nil
}
