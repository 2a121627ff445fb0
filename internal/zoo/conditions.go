package zoo

import (
	"slices"

	"github.com/marcus/zooshift/internal/tasks"
)

var _ tasks.Conditions = (*Registry)(nil)

// Cleanliness reports an enclosure's current cleanliness.
func (r *Registry) Cleanliness(enclosureID string) (int, error) {
	e, err := r.Enclosure(enclosureID)
	if err != nil {
		return 0, err
	}
	return e.Cleanliness, nil
}

// Residents lists the animals currently housed in an enclosure.
func (r *Registry) Residents(enclosureID string) ([]string, error) {
	e, err := r.Enclosure(enclosureID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(e.Animals), nil
}

// Hungry reports whether an animal needs feeding.
func (r *Registry) Hungry(name string) (bool, error) {
	a, err := r.Animal(name)
	if err != nil {
		return false, err
	}
	return a.Hungry, nil
}

// Ailing reports whether an animal has an active ailment.
func (r *Registry) Ailing(name string) (bool, error) {
	a, err := r.Animal(name)
	if err != nil {
		return false, err
	}
	return a.Ailment, nil
}
