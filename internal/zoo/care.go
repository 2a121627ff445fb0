package zoo

import (
	"slices"

	"github.com/marcus/zooshift/internal/zooerr"
)

// AssignAnimalToEnclosure moves an animal into an enclosure. Enclosures hold
// a single species and animals under treatment stay where they are.
func (r *Registry) AssignAnimalToEnclosure(name, enclosureID string) error {
	a, err := r.Animal(name)
	if err != nil {
		return err
	}
	e, err := r.Enclosure(enclosureID)
	if err != nil {
		return err
	}
	if a.Enclosure == e.ID {
		return zooerr.New(zooerr.Duplicate, "%s is already in enclosure %s", a.Name, e.ID)
	}
	if a.Treatment {
		return zooerr.New(zooerr.Conflict, "%s is under treatment and cannot be moved", a.Name)
	}
	for _, resident := range e.Animals {
		other, err := r.Animal(resident)
		if err == nil && other.Species != a.Species {
			return zooerr.New(zooerr.Conflict, "enclosure %s houses %s, not %s", e.ID, other.Species, a.Species)
		}
	}

	if a.Enclosure != "" {
		if prev, err := r.Enclosure(a.Enclosure); err == nil {
			prev.Animals = remove(prev.Animals, a.Name)
		}
	}
	e.Animals = append(e.Animals, a.Name)
	a.Enclosure = e.ID
	return nil
}

// AssignEnclosureToKeeper gives a keeper responsibility for an enclosure.
func (r *Registry) AssignEnclosureToKeeper(staffID, enclosureID string) error {
	s, err := r.StaffMember(staffID)
	if err != nil {
		return err
	}
	e, err := r.Enclosure(enclosureID)
	if err != nil {
		return err
	}
	if s.Role != RoleKeeper {
		return zooerr.New(zooerr.InvalidRole, "%s is not a keeper", s.ID)
	}
	if s.HasEnclosure(e.ID) {
		return zooerr.New(zooerr.Duplicate, "enclosure %s already assigned to %s", e.ID, s.ID)
	}
	s.Enclosures = append(s.Enclosures, e.ID)
	e.Keepers = append(e.Keepers, s.ID)
	return nil
}

// AssignAnimalToVet gives a veterinarian responsibility for an animal.
func (r *Registry) AssignAnimalToVet(staffID, name string) error {
	s, err := r.StaffMember(staffID)
	if err != nil {
		return err
	}
	a, err := r.Animal(name)
	if err != nil {
		return err
	}
	if s.Role != RoleVeterinarian {
		return zooerr.New(zooerr.InvalidRole, "%s is not a veterinarian", s.ID)
	}
	if s.HasAnimal(a.Name) {
		return zooerr.New(zooerr.Duplicate, "%s already assigned to %s", a.Name, s.ID)
	}
	s.Animals = append(s.Animals, a.Name)
	return nil
}

// Feed clears an animal's hunger.
func (r *Registry) Feed(name string) error {
	a, err := r.Animal(name)
	if err != nil {
		return err
	}
	a.Hungry = false
	return nil
}

// MakeHungry flags an animal as needing food.
func (r *Registry) MakeHungry(name string) error {
	a, err := r.Animal(name)
	if err != nil {
		return err
	}
	a.Hungry = true
	return nil
}

// Clean raises an enclosure's cleanliness by one, up to MaxCleanliness.
func (r *Registry) Clean(enclosureID string) (int, error) {
	e, err := r.Enclosure(enclosureID)
	if err != nil {
		return 0, err
	}
	if e.Cleanliness < MaxCleanliness {
		e.Cleanliness++
	}
	return e.Cleanliness, nil
}

// Soil sets an enclosure's cleanliness to level.
func (r *Registry) Soil(enclosureID string, level int) error {
	e, err := r.Enclosure(enclosureID)
	if err != nil {
		return err
	}
	if level < 0 || level > MaxCleanliness {
		return zooerr.New(zooerr.IncompleteTask, "cleanliness must be 0..%d, got %d", MaxCleanliness, level)
	}
	e.Cleanliness = level
	return nil
}

// Ail flags an animal with an active ailment.
func (r *Registry) Ail(name string) error {
	a, err := r.Animal(name)
	if err != nil {
		return err
	}
	a.Ailment = true
	return nil
}

// Treat starts a vet's treatment of an animal assigned to them.
func (r *Registry) Treat(staffID, name string) error {
	s, err := r.StaffMember(staffID)
	if err != nil {
		return err
	}
	a, err := r.Animal(name)
	if err != nil {
		return err
	}
	if s.Role != RoleVeterinarian {
		return zooerr.New(zooerr.InvalidRole, "%s is not a veterinarian", s.ID)
	}
	if !s.HasAnimal(a.Name) {
		return zooerr.New(zooerr.InvalidAssignment, "%s is not assigned to %s", a.Name, s.ID)
	}
	if !a.Ailment {
		return zooerr.New(zooerr.Conflict, "%s has no ailment to treat", a.Name)
	}
	a.Treatment = true
	a.TreatedBy = s.ID
	s.Working = a.Name
	return nil
}

// Heal ends an animal's ailment and any treatment in progress.
func (r *Registry) Heal(name string) error {
	a, err := r.Animal(name)
	if err != nil {
		return err
	}
	if a.TreatedBy != "" {
		if vet, err := r.StaffMember(a.TreatedBy); err == nil && vet.Working == a.Name {
			vet.Working = ""
		}
	}
	a.Ailment = false
	a.Treatment = false
	a.TreatedBy = ""
	return nil
}

// RemoveStaff deletes a staff member and clears the working references they
// held on enclosures and animals.
func (r *Registry) RemoveStaff(staffID string) (*Staff, error) {
	s, err := r.StaffMember(staffID)
	if err != nil {
		return nil, err
	}
	for _, id := range s.Enclosures {
		if e, err := r.Enclosure(id); err == nil {
			e.Keepers = remove(e.Keepers, s.ID)
		}
	}
	for _, a := range r.animals {
		if a.TreatedBy == s.ID {
			a.TreatedBy = ""
			a.Treatment = false
		}
	}
	s.Enclosures = nil
	s.Animals = nil
	s.Working = ""
	r.staff = slices.DeleteFunc(r.staff, func(x *Staff) bool { return x == s })
	return s, nil
}

// RemoveEnclosure deletes an empty enclosure and drops it from keepers.
func (r *Registry) RemoveEnclosure(enclosureID string) (*Enclosure, error) {
	e, err := r.Enclosure(enclosureID)
	if err != nil {
		return nil, err
	}
	if len(e.Animals) > 0 {
		return nil, zooerr.New(zooerr.Conflict, "enclosure %s still houses %d animal(s)", e.ID, len(e.Animals))
	}
	for _, s := range r.staff {
		s.Enclosures = remove(s.Enclosures, e.ID)
		if s.Working == e.ID {
			s.Working = ""
		}
	}
	r.enclosures = slices.DeleteFunc(r.enclosures, func(x *Enclosure) bool { return x == e })
	return e, nil
}

// RemoveAnimal deletes an animal that is not under treatment.
func (r *Registry) RemoveAnimal(name string) (*Animal, error) {
	a, err := r.Animal(name)
	if err != nil {
		return nil, err
	}
	if a.Treatment {
		return nil, zooerr.New(zooerr.Conflict, "%s is under treatment and cannot be removed", a.Name)
	}
	if a.Enclosure != "" {
		if e, err := r.Enclosure(a.Enclosure); err == nil {
			e.Animals = remove(e.Animals, a.Name)
		}
	}
	for _, s := range r.staff {
		s.Animals = remove(s.Animals, a.Name)
	}
	r.animals = slices.DeleteFunc(r.animals, func(x *Animal) bool { return x == a })
	return a, nil
}

func remove(list []string, v string) []string {
	return slices.DeleteFunc(list, func(x string) bool { return x == v })
}

// ForgetTask drops a task id from every staff member's personal list.
func (r *Registry) ForgetTask(taskID string) {
	for _, s := range r.staff {
		s.Tasks = remove(s.Tasks, taskID)
	}
}
