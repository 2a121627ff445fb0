// Package schedule holds the date-indexed task store.
//
// The store is keyed by date key, then status bucket (uncompleted or
// completed), then owner (a staff id or Unassigned). Every level iterates
// in insertion order, and a task lives in exactly one (date, status, owner)
// list at a time.
//
// Lookups by id are a full scan; no secondary index is kept, so callers
// must not assume Find is O(1).
package schedule

import (
	"iter"
	"slices"
	"time"

	"github.com/marcus/zooshift/internal/tasks"
	"github.com/marcus/zooshift/internal/zooerr"
)

// Unscheduled is the date key for undated tasks.
const Unscheduled = tasks.Unscheduled

// Unassigned is the owner key for tasks nobody owns.
const Unassigned = "UNASSIGNED"

// Status names a bucket within a date slot.
type Status string

const (
	StatusUncompleted Status = "uncompleted"
	StatusCompleted   Status = "completed"
)

var statuses = []Status{StatusUncompleted, StatusCompleted}

// ParseStatus accepts the bucket names and a few aliases.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "uncompleted", "open", "pending":
		return StatusUncompleted, nil
	case "completed", "done":
		return StatusCompleted, nil
	}
	return "", zooerr.New(zooerr.IncompleteTask, "invalid status %q (use uncompleted or completed)", s)
}

// Bucket maps owners to ordered task lists.
type Bucket struct {
	owners []string
	tasks  map[string][]*tasks.Task
}

func newBucket() *Bucket {
	return &Bucket{tasks: make(map[string][]*tasks.Task)}
}

// Owners returns owner keys in insertion order.
func (b *Bucket) Owners() []string {
	return slices.Clone(b.owners)
}

// Tasks returns a copy of the owner's list.
func (b *Bucket) Tasks(owner string) []*tasks.Task {
	return slices.Clone(b.tasks[owner])
}

// Len counts every task in the bucket.
func (b *Bucket) Len() int {
	n := 0
	for _, list := range b.tasks {
		n += len(list)
	}
	return n
}

func (b *Bucket) append(owner string, t *tasks.Task) {
	if _, ok := b.tasks[owner]; !ok {
		b.owners = append(b.owners, owner)
	}
	b.tasks[owner] = append(b.tasks[owner], t)
}

// remove deletes t from owner's list and prunes the list when empty.
func (b *Bucket) remove(owner string, t *tasks.Task) bool {
	list := b.tasks[owner]
	i := slices.Index(list, t)
	if i < 0 {
		return false
	}
	list = slices.Delete(list, i, i+1)
	if len(list) == 0 {
		b.dropOwner(owner)
	} else {
		b.tasks[owner] = list
	}
	return true
}

func (b *Bucket) dropOwner(owner string) {
	delete(b.tasks, owner)
	if i := slices.Index(b.owners, owner); i >= 0 {
		b.owners = slices.Delete(b.owners, i, i+1)
	}
}

// Slot is the pair of buckets for one date key.
type Slot struct {
	Date        string
	Uncompleted *Bucket
	Completed   *Bucket
}

func newSlot(date string) *Slot {
	return &Slot{Date: date, Uncompleted: newBucket(), Completed: newBucket()}
}

// Bucket returns the bucket for a status.
func (s *Slot) Bucket(st Status) *Bucket {
	if st == StatusCompleted {
		return s.Completed
	}
	return s.Uncompleted
}

// Location is where a task currently sits.
type Location struct {
	Date   string
	Status Status
	Owner  string
	Task   *tasks.Task
}

// Entry is one element yielded by Store.Tasks.
type Entry = Location

// Filter narrows Store.Tasks. Zero fields do not filter; Date must already
// be a resolved date key.
type Filter struct {
	Date     string
	Status   Status
	Assigned *bool
	Owner    string
}

// Store is the schedule index. It is not safe for concurrent use.
type Store struct {
	dates []string
	slots map[string]*Slot
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to resolve "today" and "now".
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		slots: make(map[string]*Slot),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DateKey resolves user input to a date key using the store's clock.
func (s *Store) DateKey(date string) (string, error) {
	return ResolveDate(date, s.now())
}

// Dates returns the date keys in slot creation order.
func (s *Store) Dates() []string {
	return slices.Clone(s.dates)
}

// Slot returns the slot for date, creating it on first use.
func (s *Store) Slot(date string) (*Slot, error) {
	key, err := s.DateKey(date)
	if err != nil {
		return nil, err
	}
	return s.slot(key), nil
}

// Lookup returns an existing slot without creating one.
func (s *Store) Lookup(key string) (*Slot, bool) {
	slot, ok := s.slots[key]
	return slot, ok
}

func (s *Store) slot(key string) *Slot {
	if slot, ok := s.slots[key]; ok {
		return slot
	}
	slot := newSlot(key)
	s.slots[key] = slot
	s.dates = append(s.dates, key)
	return slot
}

// Add appends t to the uncompleted bucket of its date slot under owner, or
// Unassigned when owner is empty, and records the owner on the task.
func (s *Store) Add(t *tasks.Task, owner string) error {
	if t == nil {
		return zooerr.New(zooerr.IncompleteTask, "nil task")
	}
	key, err := s.DateKey(t.Date())
	if err != nil {
		return err
	}
	if t.Date() != key {
		return zooerr.New(zooerr.InvalidDate, "task %s has date %q, want the key %s", t.ID(), t.Date(), key)
	}
	if _, err := s.Find(t.ID()); err == nil {
		return zooerr.New(zooerr.Duplicate, "task %s already scheduled", t.ID())
	}

	owner = staffOwner(owner)
	s.slot(key).Uncompleted.append(ownerKey(owner), t)
	t.AssignTo(owner)
	return nil
}

// Find scans every slot and bucket for the task id.
func (s *Store) Find(taskID string) (Location, error) {
	for _, date := range s.dates {
		slot := s.slots[date]
		for _, st := range statuses {
			b := slot.Bucket(st)
			for _, owner := range b.owners {
				for _, t := range b.tasks[owner] {
					if t.ID() == taskID {
						return Location{Date: date, Status: st, Owner: owner, Task: t}, nil
					}
				}
			}
		}
	}
	return Location{}, zooerr.New(zooerr.NotFound, "no such task: %s", taskID)
}

// Tasks yields the tasks matching f in slot, bucket and insertion order.
// The sequence may be ranged over more than once and does not mutate the
// store; mutating the store while ranging is not supported.
func (s *Store) Tasks(f Filter) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		dates := s.dates
		if f.Date != "" {
			dates = []string{f.Date}
		}
		for _, date := range dates {
			slot, ok := s.slots[date]
			if !ok {
				continue
			}
			for _, st := range statuses {
				if f.Status != "" && f.Status != st {
					continue
				}
				b := slot.Bucket(st)
				for _, owner := range b.owners {
					for _, t := range b.tasks[owner] {
						if f.Assigned != nil && t.Assigned() != *f.Assigned {
							continue
						}
						if f.Owner != "" && owner != f.Owner {
							continue
						}
						if !yield(Entry{Date: date, Status: st, Owner: owner, Task: t}) {
							return
						}
					}
				}
			}
		}
	}
}

// Count materialises a filter into a count.
func (s *Store) Count(f Filter) int {
	n := 0
	for range s.Tasks(f) {
		n++
	}
	return n
}

// Exists reports whether a task with the id is scheduled on dateKey, or
// anywhere when dateKey is empty.
func (s *Store) Exists(taskID string, dateKey string) bool {
	for e := range s.Tasks(Filter{Date: dateKey}) {
		if e.Task.ID() == taskID {
			return true
		}
	}
	return false
}

// Reassign moves an uncompleted task to another owner's list within the
// same date slot.
func (s *Store) Reassign(taskID, owner string) (Location, error) {
	loc, err := s.Find(taskID)
	if err != nil {
		return Location{}, err
	}
	if loc.Status == StatusCompleted {
		return loc, zooerr.New(zooerr.InvalidAssignment, "cannot assign a completed task")
	}

	owner = staffOwner(owner)
	b := s.slots[loc.Date].Uncompleted
	b.remove(loc.Owner, loc.Task)
	b.append(ownerKey(owner), loc.Task)
	loc.Task.AssignTo(owner)

	loc.Owner = ownerKey(owner)
	return loc, nil
}

// MarkComplete moves an assigned, uncompleted task to the completed bucket
// under the same owner and sets its complete flag.
func (s *Store) MarkComplete(taskID string) (Location, error) {
	loc, err := s.Find(taskID)
	if err != nil {
		return Location{}, err
	}
	if err := completable(loc); err != nil {
		return loc, err
	}

	slot := s.slots[loc.Date]
	slot.Uncompleted.remove(loc.Owner, loc.Task)
	slot.Completed.append(loc.Owner, loc.Task)
	loc.Task.MarkComplete()

	loc.Status = StatusCompleted
	return loc, nil
}

// CheckCompletable reports why a located task cannot be completed.
func (s *Store) CheckCompletable(loc Location) error {
	return completable(loc)
}

func completable(loc Location) error {
	if loc.Status == StatusCompleted {
		return zooerr.New(zooerr.InvalidAssignment, "task already completed")
	}
	if loc.Owner == Unassigned {
		return zooerr.New(zooerr.InvalidAssignment, "cannot complete an unassigned task")
	}
	return nil
}

// ReleaseOwner returns every task owned by staffID to the Unassigned list
// of the same date and status. Completed tasks stay completed.
func (s *Store) ReleaseOwner(staffID string) []Location {
	if staffID == "" || staffID == Unassigned {
		return nil
	}
	var moved []Location
	for _, date := range s.dates {
		slot := s.slots[date]
		for _, st := range statuses {
			b := slot.Bucket(st)
			list, ok := b.tasks[staffID]
			if !ok {
				continue
			}
			b.dropOwner(staffID)
			for _, t := range list {
				t.AssignTo("")
				b.append(Unassigned, t)
				moved = append(moved, Location{Date: date, Status: st, Owner: Unassigned, Task: t})
			}
		}
	}
	return moved
}

// Prune removes tasks for which drop returns true from every slot. It
// returns the removed locations. Empty owner lists are pruned; date slots
// are kept.
func (s *Store) Prune(drop func(*tasks.Task) bool) []Location {
	var removed []Location
	for _, date := range s.dates {
		slot := s.slots[date]
		for _, st := range statuses {
			b := slot.Bucket(st)
			for _, owner := range slices.Clone(b.owners) {
				for _, t := range slices.Clone(b.tasks[owner]) {
					if drop(t) {
						b.remove(owner, t)
						removed = append(removed, Location{Date: date, Status: st, Owner: owner, Task: t})
					}
				}
			}
		}
	}
	return removed
}

// staffOwner maps the Unassigned key back to the empty owner.
func staffOwner(owner string) string {
	if owner == Unassigned {
		return ""
	}
	return owner
}

func ownerKey(owner string) string {
	if owner == "" {
		return Unassigned
	}
	return owner
}

// BoolPtr is a helper for Filter.Assigned.
func BoolPtr(v bool) *bool {
	return &v
}
