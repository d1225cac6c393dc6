package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/enrollment-service/internal/events"
)

// ChangeLogService writes every row change to the log.
type ChangeLogService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewChangeLogService creates the service.
func NewChangeLogService(dispatcher events.Dispatcher, logger *zap.Logger) *ChangeLogService {
	return &ChangeLogService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *ChangeLogService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.AnyTable, n.handleChange)
}

func (n *ChangeLogService) handleChange(_ context.Context, event events.Event) error {
	n.logger.Info("row changed",
		zap.String("table", event.Table),
		zap.String("op", string(event.Type)),
		zap.String("id", event.RecordID),
		zap.String("source", string(event.Source)),
	)
	return nil
}
