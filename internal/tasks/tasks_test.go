package tasks

import (
	"errors"
	"testing"

	"github.com/marcus/zooshift/internal/zooerr"
)

func TestIDDeterminism(t *testing.T) {
	a, err := NewCleaning("50Sav1", "05/06/2025")
	if err != nil {
		t.Fatalf("NewCleaning: %v", err)
	}
	b, err := NewCleaning("50Sav1", "05/06/2025")
	if err != nil {
		t.Fatalf("NewCleaning: %v", err)
	}
	if a.ID() != b.ID() {
		t.Errorf("ids differ: %q vs %q", a.ID(), b.ID())
	}
}

func TestIDFormats(t *testing.T) {
	tests := []struct {
		name   string
		typ    Type
		target Target
		date   string
		want   string
	}{
		{"cleaning", TypeCleaning, Target{EnclosureID: "50Sav1"}, "05/06/2025", "Cln-50Sav1-050625"},
		{"cleaning unscheduled", TypeCleaning, Target{EnclosureID: "50Sav1"}, "", "Cln-50Sav1-UNS"},
		{"feeding named", TypeFeeding, Target{EnclosureID: "50Sav1", Animals: []string{"Nala", "Mufasa"}}, "06/06/2025", "Fd-50Sav1-2-060625"},
		{"feeding all", TypeFeeding, Target{EnclosureID: "50Sav1", Animals: []string{AllAnimals}}, "07/06/2025", "Fd-50Sav1-1-070625"},
		{"treatment", TypeTreatment, Target{AnimalID: "Nala"}, "05/06/2020", "Tr-Nala-050620"},
		{"treatment unscheduled", TypeTreatment, Target{AnimalID: "Nala"}, Unscheduled, "Tr-Nala-UNS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := New(tt.typ, tt.target, tt.date)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if task.ID() != tt.want {
				t.Errorf("ID() = %q, want %q", task.ID(), tt.want)
			}
		})
	}
}

func TestIDDiffersAcrossYears(t *testing.T) {
	a, _ := NewCleaning("50Sav1", "05/06/2025")
	b, _ := NewCleaning("50Sav1", "05/06/2026")
	if a.ID() == b.ID() {
		t.Errorf("same id %q for different years", a.ID())
	}
}

func TestNewRejectsMissingTargets(t *testing.T) {
	tests := []struct {
		name   string
		typ    Type
		target Target
	}{
		{"feeding without enclosure", TypeFeeding, Target{Animals: []string{"Nala"}}},
		{"feeding without animals", TypeFeeding, Target{EnclosureID: "50Sav1"}},
		{"cleaning without enclosure", TypeCleaning, Target{AnimalID: "Nala"}},
		{"treatment without animal", TypeTreatment, Target{EnclosureID: "50Sav1"}},
		{"unknown type", Type("Grooming"), Target{EnclosureID: "50Sav1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.typ, tt.target, "05/06/2025")
			if !errors.Is(err, zooerr.ErrIncompleteTask) {
				t.Errorf("New() error = %v, want IncompleteTask", err)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"feeding", TypeFeeding, false},
		{"  Cleaning ", TypeCleaning, false},
		{"TREATMENT", TypeTreatment, false},
		{"grooming", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTypeRole(t *testing.T) {
	if TypeFeeding.Role() != "Keeper" || TypeCleaning.Role() != "Keeper" {
		t.Error("feeding and cleaning should require a Keeper")
	}
	if TypeTreatment.Role() != "Veterinarian" {
		t.Error("treatment should require a Veterinarian")
	}
}

func TestAssignmentState(t *testing.T) {
	task, _ := NewTreatment("Nala", "05/06/2025")
	if task.Assigned() {
		t.Fatal("new task should be unassigned")
	}
	task.AssignTo("NarUzu98")
	if !task.Assigned() || task.AssignedTo() != "NarUzu98" {
		t.Errorf("after AssignTo: assigned=%v owner=%q", task.Assigned(), task.AssignedTo())
	}
	task.AssignTo("")
	if task.Assigned() {
		t.Error("AssignTo(\"\") should unassign")
	}
}

func TestFeedingListIsCopied(t *testing.T) {
	names := []string{"Nala", "Mufasa"}
	task, _ := NewFeeding("50Sav1", names, "05/06/2025")
	names[0] = "Scar"
	if got := task.Animals()[0]; got != "Nala" {
		t.Errorf("Animals()[0] = %q, want Nala", got)
	}
	task.Animals()[1] = "Scar"
	if got := task.Animals()[1]; got != "Mufasa" {
		t.Errorf("Animals()[1] = %q, want Mufasa", got)
	}
}

func TestDropAnimal(t *testing.T) {
	task, _ := NewFeeding("50Sav1", []string{"Nala", "Mufasa"}, "05/06/2025")
	id := task.ID()
	if task.DropAnimal("Nala") {
		t.Fatal("list should not be empty after dropping one of two")
	}
	if task.ID() != id {
		t.Errorf("id changed to %q", task.ID())
	}
	if !task.DropAnimal("Mufasa") {
		t.Error("list should be empty after dropping both")
	}

	all, _ := NewFeeding("50Sav1", []string{AllAnimals}, "05/06/2025")
	if all.DropAnimal("Nala") {
		t.Error("AllAnimals list should never empty")
	}
	if !all.FeedsAll() {
		t.Error("AllAnimals list should be untouched")
	}
}

func TestReferences(t *testing.T) {
	feed, _ := NewFeeding("50Sav1", []string{"Nala"}, "05/06/2025")
	treat, _ := NewTreatment("Mufasa", "05/06/2025")

	if !feed.References("50Sav1", "") {
		t.Error("feeding should reference its enclosure")
	}
	if !feed.References("", "Nala") {
		t.Error("feeding should reference listed animal")
	}
	if feed.References("", "Mufasa") {
		t.Error("feeding should not reference unlisted animal")
	}
	if !treat.References("", "Mufasa") {
		t.Error("treatment should reference its animal")
	}
	if treat.References("50Sav1", "") {
		t.Error("treatment should not reference an enclosure")
	}
}
