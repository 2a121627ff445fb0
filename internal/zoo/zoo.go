// Package zoo holds the animal, enclosure and staff registries.
//
// Registries resolve identifiers to live records. Schedule tasks refer to
// their targets only by id; the orchestrator asks the registry for the
// current state when generating or completing work.
package zoo

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/marcus/zooshift/internal/zooerr"
)

// Role is a staff member's job.
type Role string

const (
	RoleNone         Role = ""
	RoleKeeper       Role = "Keeper"
	RoleVeterinarian Role = "Veterinarian"
)

// ParseRole accepts keeper, vet or veterinarian in any case. Empty input
// means a staff member without a role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return RoleNone, nil
	case "keeper":
		return RoleKeeper, nil
	case "vet", "veterinarian":
		return RoleVeterinarian, nil
	}
	return "", zooerr.New(zooerr.InvalidRole, "invalid staff role %q (must be keeper or veterinarian)", s)
}

// MaxCleanliness is the top of the 0..5 cleanliness scale.
const MaxCleanliness = 5

// Animal is a resident of the zoo. Name is its identifier.
type Animal struct {
	Name      string
	Species   string
	Age       int
	Enclosure string
	Hungry    bool
	Ailment   bool
	Treatment bool
	TreatedBy string
}

// Enclosure houses animals of a single species.
type Enclosure struct {
	ID          string
	Type        string
	Size        int
	Cleanliness int
	Animals     []string
	Keepers     []string
}

// Staff is a zoo employee.
type Staff struct {
	ID         string
	Name       string
	Birthday   string
	Role       Role
	Enclosures []string
	Animals    []string
	Tasks      []string

	// Working is the enclosure a keeper is in or the animal a vet is treating.
	Working string
}

// HasEnclosure reports whether the enclosure is assigned to the staff member.
func (s *Staff) HasEnclosure(id string) bool {
	return slices.Contains(s.Enclosures, id)
}

// HasAnimal reports whether the animal is assigned to the staff member.
func (s *Staff) HasAnimal(name string) bool {
	return slices.Contains(s.Animals, name)
}

// AddTask appends a task id to the personal list if absent.
func (s *Staff) AddTask(taskID string) {
	if !slices.Contains(s.Tasks, taskID) {
		s.Tasks = append(s.Tasks, taskID)
	}
}

// Registry stores the zoo's animals, enclosures and staff in insertion order.
type Registry struct {
	Name       string
	animals    []*Animal
	enclosures []*Enclosure
	staff      []*Staff
}

// NewRegistry creates an empty registry.
func NewRegistry(name string) *Registry {
	return &Registry{Name: name}
}

// Animals returns the animals in insertion order.
func (r *Registry) Animals() []*Animal { return slices.Clone(r.animals) }

// Enclosures returns the enclosures in insertion order.
func (r *Registry) Enclosures() []*Enclosure { return slices.Clone(r.enclosures) }

// Staff returns the staff in insertion order.
func (r *Registry) Staff() []*Staff { return slices.Clone(r.staff) }

// Animal looks up an animal by name.
func (r *Registry) Animal(name string) (*Animal, error) {
	for _, a := range r.animals {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, zooerr.New(zooerr.NotFound, "no such animal: %s", name)
}

// Enclosure looks up an enclosure by id.
func (r *Registry) Enclosure(id string) (*Enclosure, error) {
	id = strings.TrimSpace(id)
	for _, e := range r.enclosures {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, zooerr.New(zooerr.NotFound, "no such enclosure: %s", id)
}

// StaffMember looks up a staff member by id.
func (r *Registry) StaffMember(id string) (*Staff, error) {
	id = strings.TrimSpace(id)
	for _, s := range r.staff {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, zooerr.New(zooerr.NotFound, "no such staff member: %s", id)
}

// AddEnclosure creates an enclosure with a generated id such as 50Sav1.
func (r *Registry) AddEnclosure(size int, envType string) (*Enclosure, error) {
	envType = strings.Join(strings.Fields(envType), " ")
	if envType == "" {
		return nil, zooerr.New(zooerr.IncompleteTask, "enclosure type is required")
	}
	if size <= 0 {
		return nil, zooerr.New(zooerr.IncompleteTask, "enclosure size must be positive, got %d", size)
	}
	e := &Enclosure{
		ID:          r.enclosureCode(envType, size),
		Type:        envType,
		Size:        size,
		Cleanliness: MaxCleanliness,
	}
	r.enclosures = append(r.enclosures, e)
	return e, nil
}

// enclosureCode is the size, up to three three-letter title-cased words of
// the type, and a per-type sequence number bumped past any code in use.
func (r *Registry) enclosureCode(envType string, size int) string {
	var code strings.Builder
	for i, w := range strings.Fields(envType) {
		if i == 3 {
			break
		}
		code.WriteString(titleCase(prefix(w, 3)))
	}
	count := 1
	for _, e := range r.enclosures {
		if strings.EqualFold(e.Type, envType) {
			count++
		}
	}
	// Removals and types sharing a prefix can both land on a taken code.
	for {
		id := fmt.Sprintf("%d%s%d", size, code.String(), count)
		if _, err := r.Enclosure(id); err != nil {
			return id
		}
		count++
	}
}

// AddAnimal registers a new animal. Names are unique. New animals arrive
// hungry and outside any enclosure.
func (r *Registry) AddAnimal(name, species string, age int) (*Animal, error) {
	name = strings.TrimSpace(name)
	species = titleCase(strings.Join(strings.Fields(species), " "))
	if name == "" || species == "" {
		return nil, zooerr.New(zooerr.IncompleteTask, "animal name and species are required")
	}
	if age < 0 {
		return nil, zooerr.New(zooerr.IncompleteTask, "age must be 0 or more, got %d", age)
	}
	if _, err := r.Animal(name); err == nil {
		return nil, zooerr.New(zooerr.Duplicate, "an animal named %s already exists", name)
	}
	a := &Animal{Name: name, Species: species, Age: age, Hungry: true}
	r.animals = append(r.animals, a)
	return a, nil
}

// AddStaff registers a staff member. The id is built from the name and the
// last two characters of the birthday; a clash with a different person is
// resolved by prefixing "2".
func (r *Registry) AddStaff(name, birthday string, role Role) (*Staff, error) {
	name = strings.Join(strings.Fields(name), " ")
	if !strings.Contains(name, " ") {
		return nil, zooerr.New(zooerr.IncompleteTask, "staff full name (name and surname) is required")
	}
	id := staffID(name, birthday)
	for _, s := range r.staff {
		if s.ID != id {
			continue
		}
		if s.Name == name && s.Birthday == birthday {
			return nil, zooerr.New(zooerr.Duplicate, "staff %s with birthday %s already exists", name, birthday)
		}
		id = "2" + s.ID
	}
	s := &Staff{ID: id, Name: name, Birthday: birthday, Role: role}
	r.staff = append(r.staff, s)
	return s, nil
}

func staffID(name, birthday string) string {
	words := strings.Fields(name)
	var code string
	if len(words) == 2 {
		code = prefix(words[0], 3) + prefix(words[1], 3)
	} else {
		code = prefix(words[0], 3) + prefix(words[1], 1) + prefix(words[len(words)-1], 2)
	}
	suffix := birthday
	if len(suffix) > 2 {
		suffix = suffix[len(suffix)-2:]
	}
	return code + suffix
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
