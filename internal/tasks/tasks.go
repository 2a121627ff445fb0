// Package tasks defines the scheduled work items of the zoo: feeding,
// cleaning and treatment tasks.
//
// A Task is a tagged union. The variant-specific behaviour (id derivation
// and the completion-readiness check) lives in two switches on Type, so the
// required-target rules are checked in one place.
package tasks

import (
	"fmt"
	"strings"

	"github.com/marcus/zooshift/internal/zooerr"
)

// Type identifies the task variant.
type Type string

const (
	TypeFeeding   Type = "Feeding"
	TypeCleaning  Type = "Cleaning"
	TypeTreatment Type = "Treatment"
)

// AllAnimals is the feeding target meaning every animal housed in the
// enclosure at completion time.
const AllAnimals = "All Animals"

// Unscheduled is the date key for tasks without a date.
const Unscheduled = "UNSCHEDULED"

// ParseType resolves a case-insensitive task type name.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "feeding":
		return TypeFeeding, nil
	case "cleaning":
		return TypeCleaning, nil
	case "treatment":
		return TypeTreatment, nil
	default:
		return "", zooerr.New(zooerr.IncompleteTask, "invalid task type: %s", s)
	}
}

// Role returns the staff role allowed to carry out tasks of this type.
func (t Type) Role() string {
	if t == TypeTreatment {
		return "Veterinarian"
	}
	return "Keeper"
}

// Target names what a task acts on. Feeding and Cleaning use EnclosureID,
// Treatment uses AnimalID. Animals is the Feeding list.
type Target struct {
	EnclosureID string
	AnimalID    string
	Animals     []string
}

// Task is a unit of scheduled zoo work.
type Task struct {
	id          string
	typ         Type
	enclosureID string
	animalID    string
	animals     []string
	date        string
	assignedTo  string
	complete    bool
}

// NewFeeding creates a feeding task for the named animals of an enclosure.
func NewFeeding(enclosureID string, animals []string, date string) (*Task, error) {
	return New(TypeFeeding, Target{EnclosureID: enclosureID, Animals: animals}, date)
}

// NewCleaning creates a cleaning task for an enclosure.
func NewCleaning(enclosureID string, date string) (*Task, error) {
	return New(TypeCleaning, Target{EnclosureID: enclosureID}, date)
}

// NewTreatment creates a treatment task for a single animal.
func NewTreatment(animalID string, date string) (*Task, error) {
	return New(TypeTreatment, Target{AnimalID: animalID}, date)
}

// New validates the target for the given type and builds the task.
// date is a date key as produced by the schedule store; an empty date is
// treated as Unscheduled.
func New(typ Type, target Target, date string) (*Task, error) {
	if date == "" {
		date = Unscheduled
	}
	t := &Task{typ: typ, date: date}

	switch typ {
	case TypeFeeding:
		if target.EnclosureID == "" {
			return nil, zooerr.New(zooerr.IncompleteTask, "no enclosure provided for feeding task")
		}
		if len(target.Animals) == 0 {
			return nil, zooerr.New(zooerr.IncompleteTask, "no animals provided for feeding task")
		}
		t.enclosureID = target.EnclosureID
		t.animals = append([]string(nil), target.Animals...)
	case TypeCleaning:
		if target.EnclosureID == "" {
			return nil, zooerr.New(zooerr.IncompleteTask, "no enclosure provided for cleaning task")
		}
		t.enclosureID = target.EnclosureID
	case TypeTreatment:
		if target.AnimalID == "" {
			return nil, zooerr.New(zooerr.IncompleteTask, "no animal provided for treatment task")
		}
		t.animalID = target.AnimalID
	default:
		return nil, zooerr.New(zooerr.IncompleteTask, "invalid task type: %s", typ)
	}

	t.id = deriveID(t)
	return t, nil
}

// deriveID is a pure function of the task's type, target and date.
func deriveID(t *Task) string {
	frag := dateFragment(t.date)
	switch t.typ {
	case TypeFeeding:
		return fmt.Sprintf("Fd-%s-%d-%s", t.enclosureID, len(t.animals), frag)
	case TypeCleaning:
		return fmt.Sprintf("Cln-%s-%s", t.enclosureID, frag)
	default:
		return fmt.Sprintf("Tr-%s-%s", t.animalID, frag)
	}
}

// dateFragment shortens a DD/MM/YYYY key to DDMMYY.
func dateFragment(date string) string {
	if date == Unscheduled {
		return "UNS"
	}
	if len(date) == 10 && date[2] == '/' && date[5] == '/' {
		return date[0:2] + date[3:5] + date[8:10]
	}
	return strings.ReplaceAll(date, "/", "")
}

func (t *Task) ID() string          { return t.id }
func (t *Task) Type() Type          { return t.typ }
func (t *Task) EnclosureID() string { return t.enclosureID }
func (t *Task) AnimalID() string    { return t.animalID }
func (t *Task) Date() string        { return t.date }
func (t *Task) AssignedTo() string  { return t.assignedTo }
func (t *Task) Assigned() bool      { return t.assignedTo != "" }
func (t *Task) Complete() bool      { return t.complete }

// Animals returns a copy of the feeding list.
func (t *Task) Animals() []string {
	return append([]string(nil), t.animals...)
}

// FeedsAll reports whether the feeding list is the AllAnimals sentinel.
func (t *Task) FeedsAll() bool {
	return len(t.animals) == 1 && t.animals[0] == AllAnimals
}

// AssignTo records the owning staff member; an empty id unassigns.
func (t *Task) AssignTo(staffID string) {
	t.assignedTo = staffID
}

// MarkComplete sets the terminal complete flag.
func (t *Task) MarkComplete() {
	t.complete = true
}

// DropAnimal removes a name from an explicit feeding list and reports
// whether the list is now empty. The id is left unchanged.
func (t *Task) DropAnimal(name string) (empty bool) {
	if t.typ != TypeFeeding || t.FeedsAll() {
		return false
	}
	kept := t.animals[:0]
	for _, a := range t.animals {
		if a != name {
			kept = append(kept, a)
		}
	}
	t.animals = kept
	return len(t.animals) == 0
}

// References reports whether the task targets the enclosure or animal.
func (t *Task) References(enclosureID, animal string) bool {
	if enclosureID != "" && t.enclosureID == enclosureID {
		return true
	}
	if animal == "" {
		return false
	}
	if t.animalID == animal {
		return true
	}
	for _, a := range t.animals {
		if a == animal {
			return true
		}
	}
	return false
}

func (t *Task) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", t.id, t.typ, t.date)
	switch t.typ {
	case TypeTreatment:
		fmt.Fprintf(&b, " animal=%s", t.animalID)
	case TypeFeeding:
		fmt.Fprintf(&b, " enclosure=%s feed=%s", t.enclosureID, strings.Join(t.animals, ","))
	default:
		fmt.Fprintf(&b, " enclosure=%s", t.enclosureID)
	}
	if t.assignedTo != "" {
		fmt.Fprintf(&b, " owner=%s", t.assignedTo)
	}
	if t.complete {
		b.WriteString(" (done)")
	}
	return b.String()
}
