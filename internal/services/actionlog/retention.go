package actionlog

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const retentionRunTimeout = 5 * time.Minute

// Retention periodically removes action log entries older than a fixed age.
type Retention struct {
	service Service
	age     time.Duration
	cron    *cron.Cron
	entryID cron.EntryID
}

// NewRetention schedules DeleteOlderThan(age) on a five-field cron schedule.
// The job does not run until Start is called.
func NewRetention(service Service, age time.Duration, schedule string) (*Retention, error) {
	if service == nil {
		return nil, fmt.Errorf("action log service is required")
	}
	if age <= 0 {
		return nil, fmt.Errorf("retention age must be positive, got %s", age)
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	r := &Retention{
		service: service,
		age:     age,
		cron:    cron.New(cron.WithParser(parser), cron.WithLocation(time.UTC)),
	}

	id, err := r.cron.AddFunc(schedule, r.RunOnce)
	if err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", schedule, err)
	}
	r.entryID = id
	return r, nil
}

// Start runs the scheduler in its own goroutine.
func (r *Retention) Start() {
	r.cron.Start()
	log.Info().
		Dur("retention", r.age).
		Time("nextRun", r.cron.Entry(r.entryID).Next).
		Msg("action log retention scheduled")
}

// Stop halts the scheduler and waits for a running job to finish.
func (r *Retention) Stop() {
	<-r.cron.Stop().Done()
}

// RunOnce deletes expired entries immediately.
func (r *Retention) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), retentionRunTimeout)
	defer cancel()

	deleted, err := r.service.DeleteOlderThan(ctx, r.age)
	if err != nil {
		log.Error().Err(err).Msg("failed to delete old action logs")
		return
	}
	log.Info().Int64("deleted", deleted).Msg("old action logs deleted")
}
