package tasks

import "github.com/marcus/zooshift/internal/zooerr"

// DefaultCleanEnough is the cleanliness a cleaning task must reach.
const DefaultCleanEnough = 4

// Conditions exposes the live zoo state a completion check reads.
type Conditions interface {
	Cleanliness(enclosureID string) (int, error)
	Residents(enclosureID string) ([]string, error)
	Hungry(animal string) (bool, error)
	Ailing(animal string) (bool, error)
}

// CheckReady re-validates the condition that motivated the task. It returns
// nil when the task may be completed.
//
// Feeding tasks targeting AllAnimals resolve the enclosure's residents at
// call time, not at creation time.
func (t *Task) CheckReady(c Conditions, cleanEnough int) error {
	switch t.typ {
	case TypeCleaning:
		level, err := c.Cleanliness(t.enclosureID)
		if err != nil {
			return err
		}
		if level < cleanEnough {
			return zooerr.New(zooerr.IncompletePrecondition,
				"enclosure %s not clean enough (%d/5, need %d)", t.enclosureID, level, cleanEnough)
		}
		return nil

	case TypeFeeding:
		targets := t.animals
		if t.FeedsAll() {
			residents, err := c.Residents(t.enclosureID)
			if err != nil {
				return err
			}
			targets = residents
		} else if _, err := c.Residents(t.enclosureID); err != nil {
			return err
		}
		for _, name := range targets {
			hungry, err := c.Hungry(name)
			if err != nil {
				return err
			}
			if hungry {
				return zooerr.New(zooerr.IncompletePrecondition, "%s is still hungry", name)
			}
		}
		return nil

	case TypeTreatment:
		ailing, err := c.Ailing(t.animalID)
		if err != nil {
			return err
		}
		if ailing {
			return zooerr.New(zooerr.IncompletePrecondition, "%s's treatment not finished", t.animalID)
		}
		return nil
	}
	return zooerr.New(zooerr.IncompleteTask, "invalid task type: %s", t.typ)
}
