package orchestrator

import (
	"github.com/marcus/zooshift/internal/schedule"
	"github.com/marcus/zooshift/internal/tasks"
	"github.com/marcus/zooshift/internal/zoo"
)

// RemoveStaff deletes a staff member and returns their tasks to
// UNASSIGNED in the same date and status. Completed tasks stay completed.
func (o *Orchestrator) RemoveStaff(staffID string) (*zoo.Staff, []schedule.Location, error) {
	s, err := o.zoo.RemoveStaff(staffID)
	if err != nil {
		return nil, nil, o.reject("remove staff", "", err)
	}
	released := o.store.ReleaseOwner(s.ID)
	for _, loc := range released {
		o.record(EventTaskReleased, "remove staff", loc, "task released")
	}
	return s, released, nil
}

// RemoveEnclosure deletes an empty enclosure and every task that targets it.
func (o *Orchestrator) RemoveEnclosure(enclosureID string) (*zoo.Enclosure, []schedule.Location, error) {
	e, err := o.zoo.RemoveEnclosure(enclosureID)
	if err != nil {
		return nil, nil, o.reject("remove enclosure", "", err)
	}
	pruned := o.store.Prune(func(t *tasks.Task) bool {
		return t.Type() != tasks.TypeTreatment && t.EnclosureID() == e.ID
	})
	o.forget("remove enclosure", pruned)
	return e, pruned, nil
}

// RemoveAnimal deletes an animal, drops its treatment tasks and strips it
// from uncompleted explicit feeding lists. Feeding tasks left with no animals
// are dropped. Completed feeding tasks keep their list as a record.
func (o *Orchestrator) RemoveAnimal(name string) (*zoo.Animal, []schedule.Location, error) {
	a, err := o.zoo.RemoveAnimal(name)
	if err != nil {
		return nil, nil, o.reject("remove animal", "", err)
	}
	pruned := o.store.Prune(func(t *tasks.Task) bool {
		switch t.Type() {
		case tasks.TypeTreatment:
			return t.AnimalID() == a.Name
		case tasks.TypeFeeding:
			if t.Complete() {
				return false
			}
			return t.DropAnimal(a.Name)
		}
		return false
	})
	o.forget("remove animal", pruned)
	return a, pruned, nil
}

func (o *Orchestrator) forget(op string, pruned []schedule.Location) {
	for _, loc := range pruned {
		o.zoo.ForgetTask(loc.Task.ID())
		o.record(EventTaskPruned, op, loc, "task pruned")
	}
}
