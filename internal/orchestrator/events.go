package orchestrator

import (
	"time"

	"github.com/marcus/zooshift/internal/tasks"
)

// EventType classifies schedule lifecycle events.
type EventType int

const (
	EventTaskCreated   EventType = iota // task inserted by auto-scheduling or manual creation
	EventTaskAssigned                   // task moved to a staff member's bucket
	EventTaskCompleted                  // task moved to the completed bucket
	EventTaskReleased                   // owner removed, task returned to UNASSIGNED
	EventTaskPruned                     // target removed, task dropped from the schedule
	EventRejected                       // an operation failed validation
)

var eventNames = map[EventType]string{
	EventTaskCreated:   "created",
	EventTaskAssigned:  "assigned",
	EventTaskCompleted: "completed",
	EventTaskReleased:  "released",
	EventTaskPruned:    "pruned",
	EventRejected:      "rejected",
}

func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return "unknown"
}

// Event carries data about a schedule change.
type Event struct {
	Type     EventType
	Time     time.Time
	TaskID   string
	TaskType tasks.Type
	Date     string
	Owner    string
	Op       string // operation that produced the event, e.g. "assign"
	Message  string
	Error    string
}

// EventHandler is a callback that receives schedule events.
type EventHandler func(Event)
