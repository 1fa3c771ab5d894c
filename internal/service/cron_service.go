package service

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// CronService wraps cron-based background jobs.
type CronService struct {
	cron *cron.Cron
}

func NewCronService(loc *time.Location) *CronService {
	return &CronService{
		cron: cron.New(cron.WithLocation(loc), cron.WithSeconds()),
	}
}

// ScheduleInterval registers a periodic job every given duration.
func (s *CronService) ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive")
	}
	// Convert to cron spec: every N seconds.
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	spec := fmt.Sprintf("@every %ds", seconds)
	return s.cron.AddFunc(spec, job)
}

func (s *CronService) Start() {
	s.cron.Start()
}

func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
