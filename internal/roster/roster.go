// Package roster loads a zoo's starting animals, enclosures and staff from
// YAML.
//
//	zoo: Riverside Zoo
//	enclosures:
//	  - ref: lions
//	    size: 50
//	    type: savannah
//	    cleanliness: 2
//	animals:
//	  - {name: Nala, species: lion, age: 4, enclosure: lions, ailment: true}
//	staff:
//	  - name: Peter Parker
//	    birthday: 10/08/2002
//	    role: keeper
//	    enclosures: [lions]
//
// Enclosures may be referenced by their ref or by their generated id.
package roster

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/marcus/zooshift/internal/zoo"
)

// Roster is the decoded file.
type Roster struct {
	Zoo        string           `yaml:"zoo"`
	Enclosures []EnclosureEntry `yaml:"enclosures"`
	Animals    []AnimalEntry    `yaml:"animals"`
	Staff      []StaffEntry     `yaml:"staff"`
}

// EnclosureEntry describes one enclosure.
type EnclosureEntry struct {
	Ref         string `yaml:"ref"`
	Size        int    `yaml:"size"`
	Type        string `yaml:"type"`
	Cleanliness *int   `yaml:"cleanliness"`
}

// AnimalEntry describes one animal. Hungry defaults to true.
type AnimalEntry struct {
	Name      string `yaml:"name"`
	Species   string `yaml:"species"`
	Age       int    `yaml:"age"`
	Enclosure string `yaml:"enclosure"`
	Hungry    *bool  `yaml:"hungry"`
	Ailment   bool   `yaml:"ailment"`
}

// StaffEntry describes one staff member and their responsibilities.
type StaffEntry struct {
	Name       string   `yaml:"name"`
	Birthday   string   `yaml:"birthday"`
	Role       string   `yaml:"role"`
	Enclosures []string `yaml:"enclosures"`
	Animals    []string `yaml:"animals"`
}

// Load reads and decodes a roster file.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse decodes roster YAML. Unknown keys are rejected.
func Parse(data []byte) (*Roster, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var r Roster
	if err := dec.Decode(&r); err != nil {
		if errors.Is(err, io.EOF) {
			return &r, nil
		}
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	return &r, nil
}

// Build creates a registry from the roster. name overrides the roster's
// zoo name when set.
func (r *Roster) Build(name string) (*zoo.Registry, error) {
	if name == "" {
		name = r.Zoo
	}
	reg := zoo.NewRegistry(name)
	refs := make(map[string]string)

	for i, entry := range r.Enclosures {
		e, err := reg.AddEnclosure(entry.Size, entry.Type)
		if err != nil {
			return nil, fmt.Errorf("enclosure %d: %w", i+1, err)
		}
		if entry.Cleanliness != nil {
			if err := reg.Soil(e.ID, *entry.Cleanliness); err != nil {
				return nil, fmt.Errorf("enclosure %s: %w", e.ID, err)
			}
		}
		if entry.Ref != "" {
			if _, dup := refs[entry.Ref]; dup {
				return nil, fmt.Errorf("enclosure ref %q used twice", entry.Ref)
			}
			refs[entry.Ref] = e.ID
		}
	}
	resolve := func(ref string) string {
		if id, ok := refs[ref]; ok {
			return id
		}
		return ref
	}

	for _, entry := range r.Animals {
		a, err := reg.AddAnimal(entry.Name, entry.Species, entry.Age)
		if err != nil {
			return nil, fmt.Errorf("animal %s: %w", entry.Name, err)
		}
		if entry.Hungry != nil {
			a.Hungry = *entry.Hungry
		}
		a.Ailment = entry.Ailment
		if entry.Enclosure != "" {
			if err := reg.AssignAnimalToEnclosure(a.Name, resolve(entry.Enclosure)); err != nil {
				return nil, fmt.Errorf("animal %s: %w", a.Name, err)
			}
		}
	}

	for _, entry := range r.Staff {
		role, err := zoo.ParseRole(entry.Role)
		if err != nil {
			return nil, fmt.Errorf("staff %s: %w", entry.Name, err)
		}
		s, err := reg.AddStaff(entry.Name, entry.Birthday, role)
		if err != nil {
			return nil, fmt.Errorf("staff %s: %w", entry.Name, err)
		}
		for _, ref := range entry.Enclosures {
			if err := reg.AssignEnclosureToKeeper(s.ID, resolve(ref)); err != nil {
				return nil, fmt.Errorf("staff %s: %w", s.ID, err)
			}
		}
		for _, animal := range entry.Animals {
			if err := reg.AssignAnimalToVet(s.ID, animal); err != nil {
				return nil, fmt.Errorf("staff %s: %w", s.ID, err)
			}
		}
	}
	return reg, nil
}
