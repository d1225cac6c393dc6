package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EventType enumerates the row operations reported by the backend.
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Source tells whether an event came from this process or from the backend.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// AnyTable subscribes a handler to changes of every table.
const AnyTable = "*"

// Event reports a change of one row.
type Event struct {
	Type      EventType `json:"op"`
	Table     string    `json:"table"`
	RecordID  string    `json:"id"`
	Source    Source    `json:"-"`
	Timestamp time.Time `json:"-"`
}

// ParseNotification decodes a pg_notify payload produced by the
// notify_table_change trigger.
func ParseNotification(payload string) (Event, error) {
	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return Event{}, fmt.Errorf("decode notification: %w", err)
	}
	event.Type = EventType(strings.ToUpper(string(event.Type)))
	switch event.Type {
	case EventInsert, EventUpdate, EventDelete:
	default:
		return Event{}, fmt.Errorf("decode notification: unknown op %q", event.Type)
	}
	if event.Table == "" {
		return Event{}, fmt.Errorf("decode notification: missing table")
	}
	event.Source = SourceRemote
	event.Timestamp = time.Now().UTC()
	return event, nil
}
