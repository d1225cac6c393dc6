package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher reloads cached collections from the backend.
type Refresher interface {
	Refresh(ctx context.Context)
}

// RefreshScheduler refreshes the projection on a cron schedule.
type RefreshScheduler struct {
	cron    *cron.Cron
	target  Refresher
	spec    string
	timeout time.Duration
	logger  *zap.Logger
}

// NewRefreshScheduler builds a scheduler for spec, e.g. "@every 5m". Each
// run is bounded by timeout when it is positive.
func NewRefreshScheduler(target Refresher, spec string, timeout time.Duration, logger *zap.Logger) *RefreshScheduler {
	return &RefreshScheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		target:  target,
		spec:    spec,
		timeout: timeout,
		logger:  logger,
	}
}

// Start registers the job and starts the scheduler. An empty spec disables
// scheduled refreshes.
func (s *RefreshScheduler) Start() error {
	if s.spec == "" {
		s.logger.Info("scheduled refresh disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.run); err != nil {
		return fmt.Errorf("schedule refresh %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Info("scheduled refresh started", zap.String("spec", s.spec))
	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (s *RefreshScheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *RefreshScheduler) run() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	started := time.Now()
	s.target.Refresh(ctx)
	s.logger.Debug("scheduled refresh done", zap.Duration("elapsed", time.Since(started)))
}
