package orchestrator

import (
	"github.com/marcus/zooshift/internal/schedule"
	"github.com/marcus/zooshift/internal/tasks"
)

// ScheduleFeeding creates a feeding task for every enclosure with hungry
// residents. When every resident is hungry the list collapses to
// AllAnimals. Re-running for the same date creates nothing new.
func (o *Orchestrator) ScheduleFeeding(date string) ([]*tasks.Task, error) {
	key, err := o.store.DateKey(date)
	if err != nil {
		return nil, o.reject("auto feeding", "", err)
	}

	var candidates []*tasks.Task
	for _, e := range o.zoo.Enclosures() {
		var hungry []string
		for _, name := range e.Animals {
			if h, err := o.zoo.Hungry(name); err == nil && h {
				hungry = append(hungry, name)
			}
		}
		if len(hungry) == 0 {
			continue
		}
		if len(hungry) == len(e.Animals) {
			hungry = []string{tasks.AllAnimals}
		}
		t, err := tasks.NewFeeding(e.ID, hungry, key)
		if err != nil {
			return nil, o.reject("auto feeding", "", err)
		}
		candidates = append(candidates, t)
	}
	return o.insertNew("auto feeding", key, candidates)
}

// ScheduleCleaning creates a cleaning task for every enclosure below the
// cleaning threshold.
func (o *Orchestrator) ScheduleCleaning(date string) ([]*tasks.Task, error) {
	key, err := o.store.DateKey(date)
	if err != nil {
		return nil, o.reject("auto cleaning", "", err)
	}

	var candidates []*tasks.Task
	for _, e := range o.zoo.Enclosures() {
		if e.Cleanliness >= o.config.CleaningThreshold {
			continue
		}
		t, err := tasks.NewCleaning(e.ID, key)
		if err != nil {
			return nil, o.reject("auto cleaning", "", err)
		}
		candidates = append(candidates, t)
	}
	return o.insertNew("auto cleaning", key, candidates)
}

// ScheduleTreatment creates a treatment task for every ailing animal.
func (o *Orchestrator) ScheduleTreatment(date string) ([]*tasks.Task, error) {
	key, err := o.store.DateKey(date)
	if err != nil {
		return nil, o.reject("auto treatment", "", err)
	}

	var candidates []*tasks.Task
	for _, a := range o.zoo.Animals() {
		if !a.Ailment {
			continue
		}
		t, err := tasks.NewTreatment(a.Name, key)
		if err != nil {
			return nil, o.reject("auto treatment", "", err)
		}
		candidates = append(candidates, t)
	}
	return o.insertNew("auto treatment", key, candidates)
}

// ScheduleAll runs the feeding, cleaning and treatment passes in order.
func (o *Orchestrator) ScheduleAll(date string) ([]*tasks.Task, error) {
	var created []*tasks.Task
	for _, pass := range []func(string) ([]*tasks.Task, error){
		o.ScheduleFeeding,
		o.ScheduleCleaning,
		o.ScheduleTreatment,
	} {
		ts, err := pass(date)
		created = append(created, ts...)
		if err != nil {
			return created, err
		}
	}
	return created, nil
}

// insertNew adds the candidates whose ids are not yet in the date slot.
// Candidates are built before any insert so a failing pass leaves the
// store untouched.
func (o *Orchestrator) insertNew(op, key string, candidates []*tasks.Task) ([]*tasks.Task, error) {
	var created []*tasks.Task
	for _, t := range candidates {
		if o.store.Exists(t.ID(), key) {
			continue
		}
		if err := o.store.Add(t, ""); err != nil {
			return created, o.reject(op, t.ID(), err)
		}
		created = append(created, t)
		o.record(EventTaskCreated, op, schedule.Location{
			Date:   key,
			Status: schedule.StatusUncompleted,
			Owner:  schedule.Unassigned,
			Task:   t,
		}, "task created")
	}
	return created, nil
}
