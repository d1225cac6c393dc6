package events

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

// Listener forwards Postgres notifications to a Dispatcher. Delivery is best
// effort: notifications sent while the connection is down are lost.
type Listener struct {
	dsn        string
	channel    string
	dispatcher Dispatcher
	logger     *zap.Logger
}

// NewListener builds a listener for channel.
func NewListener(dsn, channel string, dispatcher Dispatcher, logger *zap.Logger) *Listener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Listener{dsn: dsn, channel: channel, dispatcher: dispatcher, logger: logger}
}

// Run listens until ctx is cancelled, reconnecting with backoff.
func (l *Listener) Run(ctx context.Context) error {
	backoff := minBackoff
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		l.logger.Warn("change listener disconnected", zap.Error(err), zap.Duration("retry_in", backoff))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return err
	}
	l.logger.Info("listening for table changes", zap.String("channel", l.channel))

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.deliver(ctx, notification.Payload)
	}
}

func (l *Listener) deliver(ctx context.Context, payload string) {
	event, err := ParseNotification(payload)
	if err != nil {
		l.logger.Warn("dropping notification", zap.Error(err))
		return
	}
	if err := l.dispatcher.Publish(ctx, event); err != nil && !errors.Is(err, context.Canceled) {
		l.logger.Warn("change handler failed",
			zap.String("table", event.Table),
			zap.String("op", string(event.Type)),
			zap.Error(err))
	}
}
