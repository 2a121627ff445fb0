// Package scheduler expands the zoo's care rounds, given as a standard cron
// expression, into the dates that need a scheduling pass.
package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/marcus/zooshift/internal/orchestrator"
	"github.com/marcus/zooshift/internal/schedule"
	"github.com/marcus/zooshift/internal/tasks"
)

// ErrNoRounds is returned when the expression never fires in the window.
var ErrNoRounds = errors.New("no care rounds in window")

// Rounds is a parsed care-round schedule.
type Rounds struct {
	expr  string
	sched cron.Schedule
}

// Round is one activation of the schedule.
type Round struct {
	At      time.Time
	DateKey string
}

// Parse reads a five-field cron expression such as "0 7 * * *".
func Parse(expr string) (*Rounds, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse rounds %q: %w", expr, err)
	}
	return &Rounds{expr: expr, sched: sched}, nil
}

func (r *Rounds) String() string { return r.expr }

// Next returns the first round strictly after t.
func (r *Rounds) Next(t time.Time) time.Time {
	return r.sched.Next(t)
}

// Window lists the rounds from the start of from's day through the
// following days-1 days.
func (r *Rounds) Window(from time.Time, days int) []Round {
	if days <= 0 {
		return nil
	}
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	end := start.AddDate(0, 0, days)

	var rounds []Round
	for t := r.sched.Next(start.Add(-time.Second)); !t.IsZero() && t.Before(end); t = r.sched.Next(t) {
		rounds = append(rounds, Round{At: t, DateKey: t.Format(schedule.DateLayout)})
	}
	return rounds
}

// DateKeys returns the distinct date keys of the rounds, in order.
func DateKeys(rounds []Round) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, r := range rounds {
		if !seen[r.DateKey] {
			seen[r.DateKey] = true
			keys = append(keys, r.DateKey)
		}
	}
	return keys
}

// DayPlan is the outcome of one date's scheduling pass.
type DayPlan struct {
	DateKey string
	Rounds  int
	Created []*tasks.Task
}

// Plan runs every scheduling pass once per round date in the window.
// Passes are idempotent, so several rounds on one day create tasks once.
func Plan(o *orchestrator.Orchestrator, r *Rounds, from time.Time, days int) ([]DayPlan, error) {
	rounds := r.Window(from, days)
	if len(rounds) == 0 {
		return nil, fmt.Errorf("%w: %q over %d day(s)", ErrNoRounds, r.expr, days)
	}

	perDay := make(map[string]int)
	for _, round := range rounds {
		perDay[round.DateKey]++
	}

	var plans []DayPlan
	for _, key := range DateKeys(rounds) {
		created, err := o.ScheduleAll(key)
		if err != nil {
			return plans, err
		}
		plans = append(plans, DayPlan{DateKey: key, Rounds: perDay[key], Created: created})
	}
	return plans, nil
}
