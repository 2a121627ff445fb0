// Package journal records schedule events for a zooshift session in the
// SQLite database so `zooshift history` can show them later.
package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marcus/zooshift/internal/db"
	"github.com/marcus/zooshift/internal/logging"
	"github.com/marcus/zooshift/internal/orchestrator"
)

// Journal appends events for one session.
type Journal struct {
	db      *db.DB
	session string
	logger  *logging.Logger
	now     func() time.Time
}

// Entry is a recorded event.
type Entry struct {
	ID        int64
	SessionID string
	Time      time.Time
	Event     string
	Op        string
	TaskID    string
	TaskType  string
	Date      string
	Owner     string
	Message   string
	Error     string
}

// Session describes one shell or script run.
type Session struct {
	ID        string
	Zoo       string
	Source    string
	StartedAt time.Time
	EndedAt   *time.Time
	Events    int
}

// Start opens a new session. source names what drove it, such as "shell"
// or a script path.
func Start(database *db.DB, zooName, source string) (*Journal, error) {
	if database == nil {
		return nil, errors.New("journal: db is nil")
	}
	j := &Journal{
		db:      database,
		session: uuid.NewString(),
		logger:  logging.Component("journal"),
		now:     time.Now,
	}
	_, err := database.SQL().Exec(
		`INSERT INTO sessions (id, zoo, source, started_at) VALUES (?, ?, ?, ?)`,
		j.session, zooName, source, j.now(),
	)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return j, nil
}

// SessionID returns the session's uuid.
func (j *Journal) SessionID() string { return j.session }

// Record appends one event.
func (j *Journal) Record(e orchestrator.Event) error {
	ts := e.Time
	if ts.IsZero() {
		ts = j.now()
	}
	var errText sql.NullString
	if e.Error != "" {
		errText = sql.NullString{String: e.Error, Valid: true}
	}
	_, err := j.db.SQL().Exec(
		`INSERT INTO task_events (session_id, timestamp, event, op, task_id, task_type, date_key, owner, message, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.session, ts, e.Type.String(), e.Op, e.TaskID, string(e.TaskType), e.Date, e.Owner, e.Message, errText,
	)
	if err != nil {
		return fmt.Errorf("record %s event: %w", e.Type, err)
	}
	return nil
}

// Handler adapts Record to an orchestrator event handler. Write failures
// are logged, not returned, so a broken journal never blocks the schedule.
func (j *Journal) Handler() orchestrator.EventHandler {
	return func(e orchestrator.Event) {
		if err := j.Record(e); err != nil {
			j.logger.Err(err).Str("task_id", e.TaskID).Msg("journal write failed")
		}
	}
}

// End stamps the session's end time.
func (j *Journal) End() error {
	_, err := j.db.SQL().Exec(`UPDATE sessions SET ended_at = ? WHERE id = ?`, j.now(), j.session)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// Recent returns the newest n events across sessions, newest first. A
// non-empty taskID restricts the result to that task.
func Recent(database *db.DB, n int, taskID string) ([]Entry, error) {
	if n <= 0 {
		n = 20
	}
	query := `SELECT id, session_id, timestamp, event, op, task_id, task_type, date_key, owner, message, error
		FROM task_events`
	args := []any{}
	if taskID != "" {
		query += ` WHERE task_id = ?`
		args = append(args, taskID)
	}
	query += ` ORDER BY timestamp DESC, id DESC LIMIT ?`
	args = append(args, n)

	rows, err := database.SQL().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var errText sql.NullString
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Time, &e.Event, &e.Op, &e.TaskID, &e.TaskType, &e.Date, &e.Owner, &e.Message, &errText); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Error = errText.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Sessions returns the newest n sessions with their event counts.
func Sessions(database *db.DB, n int) ([]Session, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := database.SQL().Query(
		`SELECT s.id, s.zoo, s.source, s.started_at, s.ended_at, COUNT(e.id)
		 FROM sessions s LEFT JOIN task_events e ON e.session_id = s.id
		 GROUP BY s.id
		 ORDER BY s.started_at DESC
		 LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []Session
	for rows.Next() {
		var s Session
		var ended sql.NullTime
		if err := rows.Scan(&s.ID, &s.Zoo, &s.Source, &s.StartedAt, &ended, &s.Events); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if ended.Valid {
			s.EndedAt = &ended.Time
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
