package worker

import (
	"github.com/spec-kit/enrollment-service/internal/service"
)

// StartChangeLog registers the change log handlers.
func StartChangeLog(changeLog *service.ChangeLogService) {
	if changeLog == nil {
		return
	}
	changeLog.RegisterHandlers()
}
