package watch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/docgraph/internal/logfields"
)

// scheduler wraps a gocron scheduler running one periodic regeneration job.
type scheduler struct {
	scheduler gocron.Scheduler
}

func newScheduler(interval time.Duration, task func()) (*scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName("periodic-regeneration"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create periodic regeneration job: %w", err)
	}
	return &scheduler{scheduler: s}, nil
}

func (s *scheduler) Start() {
	slog.Debug("Starting scheduler")
	s.scheduler.Start()
}

func (s *scheduler) Stop() {
	slog.Debug("Stopping scheduler")
	if err := s.scheduler.Shutdown(); err != nil {
		slog.Error("Error stopping scheduler", logfields.Error(err))
	}
}
