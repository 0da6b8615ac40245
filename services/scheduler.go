// services/scheduler.go
package services

import (
	"log"
	"time"

	"legend-record-system/models"
	"legend-record-system/workers"

	"github.com/go-co-op/gocron/v2"
)

// StartHousekeeping runs the periodic jobs: the temp-namespace sweep, and —
// when moderation is on — an hourly pending-backlog report.
func (s *RecordService) StartHousekeeping(sweeper *workers.TempSweeper, interval time.Duration) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(sweeper.Sweep),
	)

	if s.ModerationEnabled {
		_, _ = sched.NewJob(
			gocron.DurationJob(1*time.Hour),
			gocron.NewTask(func() {
				var pending int64
				if err := s.DB.Model(&models.Record{}).
					Where("status = ?", models.RecordStatusPending).
					Count(&pending).Error; err != nil {
					log.Printf("[Scheduler] DB error: %v", err)
					return
				}
				if pending > 0 {
					log.Printf("[Scheduler] %d record(s) awaiting moderation", pending)
				}
			}),
		)
	}
}
