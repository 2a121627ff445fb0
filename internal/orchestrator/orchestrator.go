// Package orchestrator drives the zoo's schedule.
// It owns the auto-scheduling passes, the assignment and completion rules,
// and the schedule cleanup that follows registry removals.
package orchestrator

import (
	"errors"
	"iter"
	"time"

	"github.com/marcus/zooshift/internal/logging"
	"github.com/marcus/zooshift/internal/schedule"
	"github.com/marcus/zooshift/internal/tasks"
	"github.com/marcus/zooshift/internal/zoo"
	"github.com/marcus/zooshift/internal/zooerr"
)

// Defaults for the cleanliness rules on the 0..5 scale.
const (
	DefaultCleaningThreshold = 3
	DefaultCleanEnough       = tasks.DefaultCleanEnough
)

// Config holds orchestrator configuration.
type Config struct {
	CleaningThreshold int // enclosures below this get a cleaning task (default: 3)
	CleanEnough       int // cleanliness a cleaning task needs to complete (default: 4)
}

// DefaultConfig returns default orchestrator config.
func DefaultConfig() Config {
	return Config{
		CleaningThreshold: DefaultCleaningThreshold,
		CleanEnough:       DefaultCleanEnough,
	}
}

// Orchestrator applies schedule operations against a registry and a store.
// It is not safe for concurrent use.
type Orchestrator struct {
	zoo          *zoo.Registry
	store        *schedule.Store
	config       Config
	logger       *logging.Logger
	eventHandler EventHandler
	now          func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithConfig sets orchestrator configuration.
func WithConfig(c Config) Option {
	return func(o *Orchestrator) {
		o.config = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// WithEventHandler sets an optional callback for schedule events.
func WithEventHandler(h EventHandler) Option {
	return func(o *Orchestrator) {
		o.eventHandler = h
	}
}

// WithClock sets the clock used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// New creates an orchestrator over the given registry and store.
func New(registry *zoo.Registry, store *schedule.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		zoo:    registry,
		store:  store,
		config: DefaultConfig(),
		logger: logging.Component("orchestrator"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.config.CleaningThreshold <= 0 {
		o.config.CleaningThreshold = DefaultCleaningThreshold
	}
	if o.config.CleanEnough <= 0 {
		o.config.CleanEnough = DefaultCleanEnough
	}
	return o
}

// Zoo returns the registry the orchestrator works against.
func (o *Orchestrator) Zoo() *zoo.Registry { return o.zoo }

// Store returns the schedule store.
func (o *Orchestrator) Store() *schedule.Store { return o.store }

// Config returns the active configuration.
func (o *Orchestrator) Config() Config { return o.config }

// Tasks yields scheduled tasks. date, when set, is resolved like any other
// date input and overrides f.Date.
func (o *Orchestrator) Tasks(date string, f schedule.Filter) (iter.Seq[schedule.Entry], error) {
	if date != "" {
		key, err := o.store.DateKey(date)
		if err != nil {
			return nil, err
		}
		f.Date = key
	}
	return o.store.Tasks(f), nil
}

// FindTask locates a task by id.
func (o *Orchestrator) FindTask(taskID string) (schedule.Location, error) {
	return o.store.Find(taskID)
}

// emit sends an event to the registered handler, if any.
func (o *Orchestrator) emit(e Event) {
	if o.eventHandler != nil {
		e.Time = o.now()
		o.eventHandler(e)
	}
}

// record logs and emits a successful schedule change.
func (o *Orchestrator) record(typ EventType, op string, loc schedule.Location, msg string) {
	e := Event{
		Type:     typ,
		TaskID:   loc.Task.ID(),
		TaskType: loc.Task.Type(),
		Date:     loc.Date,
		Owner:    loc.Owner,
		Op:       op,
		Message:  msg,
	}
	o.logger.InfoCtx(msg, map[string]any{
		"task_id": e.TaskID,
		"type":    string(e.TaskType),
		"date":    e.Date,
		"owner":   e.Owner,
		"op":      op,
	})
	o.emit(e)
}

// reject logs and emits a failed operation, then returns err unchanged.
func (o *Orchestrator) reject(op, taskID string, err error) error {
	fields := map[string]any{
		"op":    op,
		"error": err.Error(),
	}
	if taskID != "" {
		fields["task_id"] = taskID
	}
	var zerr *zooerr.Error
	if errors.As(err, &zerr) {
		fields["kind"] = zerr.Kind.String()
	}
	o.logger.WarnCtx("operation rejected", fields)
	o.emit(Event{Type: EventRejected, TaskID: taskID, Op: op, Message: "operation rejected", Error: err.Error()})
	return err
}
