package orchestrator

import (
	"github.com/marcus/zooshift/internal/schedule"
	"github.com/marcus/zooshift/internal/tasks"
	"github.com/marcus/zooshift/internal/zoo"
	"github.com/marcus/zooshift/internal/zooerr"
)

// CreateTask schedules a task by hand. The targets must exist and the id
// must not already be scheduled. The task starts unassigned.
func (o *Orchestrator) CreateTask(kind string, target tasks.Target, date string) (*tasks.Task, error) {
	typ, err := tasks.ParseType(kind)
	if err != nil {
		return nil, o.reject("create", "", err)
	}
	key, err := o.store.DateKey(date)
	if err != nil {
		return nil, o.reject("create", "", err)
	}
	t, err := tasks.New(typ, target, key)
	if err != nil {
		return nil, o.reject("create", "", err)
	}
	if err := o.checkTargets(t); err != nil {
		return nil, o.reject("create", t.ID(), err)
	}
	if o.store.Exists(t.ID(), "") {
		return nil, o.reject("create", t.ID(), zooerr.New(zooerr.Duplicate, "task %s already exists", t.ID()))
	}
	if err := o.store.Add(t, ""); err != nil {
		return nil, o.reject("create", t.ID(), err)
	}
	o.record(EventTaskCreated, "create", schedule.Location{
		Date:   key,
		Status: schedule.StatusUncompleted,
		Owner:  schedule.Unassigned,
		Task:   t,
	}, "task created")
	return t, nil
}

func (o *Orchestrator) checkTargets(t *tasks.Task) error {
	switch t.Type() {
	case tasks.TypeTreatment:
		_, err := o.zoo.Animal(t.AnimalID())
		return err
	case tasks.TypeFeeding:
		e, err := o.zoo.Enclosure(t.EnclosureID())
		if err != nil {
			return err
		}
		if t.FeedsAll() {
			return nil
		}
		for _, name := range t.Animals() {
			a, err := o.zoo.Animal(name)
			if err != nil {
				return err
			}
			if a.Enclosure != e.ID {
				return zooerr.New(zooerr.IncompleteTask, "%s does not live in enclosure %s", name, e.ID)
			}
		}
		return nil
	default:
		_, err := o.zoo.Enclosure(t.EnclosureID())
		return err
	}
}

// AssignTask gives a task to a staff member. The checks run in order:
// the staff member and task exist, the task is not completed, the staff
// role matches the task type, and the staff member is responsible for the
// task's enclosure or animal. Re-assigning to another staff member is
// allowed.
func (o *Orchestrator) AssignTask(staffID, taskID string) (schedule.Location, error) {
	staff, err := o.zoo.StaffMember(staffID)
	if err != nil {
		return schedule.Location{}, o.reject("assign", taskID, err)
	}
	loc, err := o.store.Find(taskID)
	if err != nil {
		return schedule.Location{}, o.reject("assign", taskID, err)
	}
	if loc.Status == schedule.StatusCompleted {
		return loc, o.reject("assign", taskID, zooerr.New(zooerr.InvalidAssignment, "cannot assign a completed task"))
	}
	if err := authorize(staff, loc.Task); err != nil {
		return loc, o.reject("assign", taskID, err)
	}

	loc, err = o.store.Reassign(taskID, staff.ID)
	if err != nil {
		return loc, o.reject("assign", taskID, err)
	}
	staff.AddTask(taskID)
	o.record(EventTaskAssigned, "assign", loc, "task assigned")
	return loc, nil
}

// authorize applies the role gate and then the ownership gate.
func authorize(s *zoo.Staff, t *tasks.Task) error {
	if string(s.Role) != t.Type().Role() {
		return zooerr.New(zooerr.InvalidRole, "%s tasks need a %s, %s is %s",
			t.Type(), t.Type().Role(), s.ID, roleName(s.Role))
	}
	switch t.Type() {
	case tasks.TypeTreatment:
		if !s.HasAnimal(t.AnimalID()) {
			return zooerr.New(zooerr.InvalidAssignment, "%s is not assigned to animal %s", s.ID, t.AnimalID())
		}
	default:
		if !s.HasEnclosure(t.EnclosureID()) {
			return zooerr.New(zooerr.InvalidAssignment, "%s is not assigned to enclosure %s", s.ID, t.EnclosureID())
		}
	}
	return nil
}

func roleName(r zoo.Role) string {
	if r == zoo.RoleNone {
		return "unassigned to any role"
	}
	return "a " + string(r)
}

// CompleteTask marks an assigned task done once the condition that
// motivated it has been resolved in the zoo.
func (o *Orchestrator) CompleteTask(taskID string) (schedule.Location, error) {
	loc, err := o.store.Find(taskID)
	if err != nil {
		return schedule.Location{}, o.reject("complete", taskID, err)
	}
	if err := o.store.CheckCompletable(loc); err != nil {
		return loc, o.reject("complete", taskID, err)
	}
	if _, err := o.zoo.StaffMember(loc.Owner); err != nil {
		return loc, o.reject("complete", taskID, err)
	}
	if err := loc.Task.CheckReady(o.zoo, o.config.CleanEnough); err != nil {
		return loc, o.reject("complete", taskID, err)
	}

	loc, err = o.store.MarkComplete(taskID)
	if err != nil {
		return loc, o.reject("complete", taskID, err)
	}
	o.record(EventTaskCompleted, "complete", loc, "task completed")
	return loc, nil
}
