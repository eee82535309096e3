package janitor

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/maadv/parecer/internal/common"
	"github.com/maadv/parecer/internal/interfaces"
)

// Service sweeps terminal job records on a cron schedule. Disabled by
// default: job records then live for the process lifetime.
type Service struct {
	config  *common.RetentionConfig
	store   interfaces.JobStore
	cron    *cron.Cron
	logger  arbor.ILogger
	maxAge  time.Duration
	running bool
}

// NewService creates the retention sweeper
func NewService(config *common.RetentionConfig, store interfaces.JobStore, logger arbor.ILogger) (*Service, error) {
	maxAge, err := time.ParseDuration(config.MaxAge)
	if err != nil {
		return nil, fmt.Errorf("invalid retention max_age '%s': %w", config.MaxAge, err)
	}

	return &Service{
		config: config,
		store:  store,
		cron:   cron.New(),
		logger: logger,
		maxAge: maxAge,
	}, nil
}

// Start schedules the sweep. A no-op when retention is disabled.
func (s *Service) Start() error {
	if !s.config.Enabled {
		s.logger.Debug().Msg("Job retention sweeper disabled")
		return nil
	}
	if s.running {
		return fmt.Errorf("retention sweeper already running")
	}

	if _, err := s.cron.AddFunc(s.config.Schedule, s.sweep); err != nil {
		return fmt.Errorf("invalid retention schedule '%s': %w", s.config.Schedule, err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("schedule", s.config.Schedule).
		Dur("max_age", s.maxAge).
		Msg("Job retention sweeper started")

	return nil
}

// Stop halts the scheduler and waits for a running sweep
func (s *Service) Stop() {
	if !s.running {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
	s.logger.Debug().Msg("Job retention sweeper stopped")
}

// sweep removes terminal jobs older than the retention window
func (s *Service) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := s.store.Sweep(ctx, s.maxAge)
	if err != nil {
		s.logger.Error().Err(err).Msg("Job retention sweep failed")
		return
	}
	if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("Swept expired job records")
	}
}
