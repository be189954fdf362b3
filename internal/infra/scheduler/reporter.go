package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Reporter periodically hands a snapshot to a sink, typically the logger.
type Reporter struct {
	s gocron.Scheduler
}

// NewReporter schedules sink(snapshot()) every interval. Nothing runs until Start.
func NewReporter(interval time.Duration, snapshot func() map[string]interface{}, sink func(map[string]interface{})) (*Reporter, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("invalid report interval: %s", interval)
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { sink(snapshot()) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("schedule metrics report: %w", err)
	}

	return &Reporter{s: s}, nil
}

func (r *Reporter) Start() { r.s.Start() }

// Stop waits for a running report to finish.
func (r *Reporter) Stop() error { return r.s.Shutdown() }
