package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/enrollment-service/internal/events"
)

// ChangeCoalescer turns bursts of remote change events into a single
// refresh. Local events are ignored because the store already applied them.
type ChangeCoalescer struct {
	target  Refresher
	window  time.Duration
	pending chan struct{}
	logger  *zap.Logger
}

// NewChangeCoalescer subscribes to every table of dispatcher.
func NewChangeCoalescer(dispatcher events.Dispatcher, target Refresher, window time.Duration, logger *zap.Logger) *ChangeCoalescer {
	c := &ChangeCoalescer{
		target:  target,
		window:  window,
		pending: make(chan struct{}, 1),
		logger:  logger,
	}
	dispatcher.Subscribe(events.AnyTable, c.handle)
	return c
}

func (c *ChangeCoalescer) handle(_ context.Context, event events.Event) error {
	if event.Source != events.SourceRemote {
		return nil
	}
	select {
	case c.pending <- struct{}{}:
	default:
	}
	return nil
}

// Run refreshes once per burst until ctx is cancelled.
func (c *ChangeCoalescer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.pending:
		}

		if c.window > 0 {
			timer := time.NewTimer(c.window)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
		// Events arriving during the window belong to this refresh.
		select {
		case <-c.pending:
		default:
		}
		c.logger.Debug("refreshing after remote changes")
		c.target.Refresh(ctx)
	}
}
