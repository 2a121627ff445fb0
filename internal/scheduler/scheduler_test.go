package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/marcus/zooshift/internal/logging"
	"github.com/marcus/zooshift/internal/orchestrator"
	"github.com/marcus/zooshift/internal/schedule"
	"github.com/marcus/zooshift/internal/zoo"
)

var monday = time.Date(2025, time.June, 2, 13, 30, 0, 0, time.UTC)

func TestParse(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr bool
	}{
		{"0 7 * * *", false},
		{"30 6,17 * * 1-5", false},
		{"@daily", false},
		{"every morning", true},
		{"0 7 * *", true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			r, err := Parse(tt.expr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
			if err == nil && r.String() != tt.expr {
				t.Errorf("String() = %q", r.String())
			}
		})
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name string
		expr string
		days int
		want []string
	}{
		{
			name: "daily includes rounds earlier today",
			expr: "0 7 * * *",
			days: 3,
			want: []string{"02/06/2025", "03/06/2025", "04/06/2025"},
		},
		{
			name: "weekdays only",
			expr: "0 7 * * 1-5",
			days: 7,
			want: []string{"02/06/2025", "03/06/2025", "04/06/2025", "05/06/2025", "06/06/2025"},
		},
		{
			name: "twice a day collapses to one key",
			expr: "0 7,16 * * *",
			days: 1,
			want: []string{"02/06/2025"},
		},
		{
			name: "empty window",
			expr: "0 7 * * *",
			days: 0,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse(tt.expr)
			if err != nil {
				t.Fatal(err)
			}
			got := DateKeys(r.Window(monday, tt.days))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("date keys (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNext(t *testing.T) {
	r, _ := Parse("0 7 * * *")
	want := time.Date(2025, time.June, 3, 7, 0, 0, 0, time.UTC)
	if got := r.Next(monday); !got.Equal(want) {
		t.Errorf("Next() = %v, want %v", got, want)
	}
}

func TestPlan(t *testing.T) {
	reg := zoo.NewRegistry("Test Zoo")
	reg.AddEnclosure(50, "savannah")
	reg.AddAnimal("Nala", "lion", 4)
	reg.AssignAnimalToEnclosure("Nala", "50Sav1")
	reg.Soil("50Sav1", 1)

	store := schedule.NewStore(schedule.WithClock(func() time.Time { return monday }))
	o := orchestrator.New(reg, store, orchestrator.WithLogger(logging.Nop()))

	r, _ := Parse("0 7,16 * * *")
	plans, err := Plan(o, r, monday, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) != 2 {
		t.Fatalf("got %d day plans, want 2", len(plans))
	}
	for _, p := range plans {
		if p.Rounds != 2 || len(p.Created) != 2 {
			t.Errorf("%s: rounds = %d, created = %d", p.DateKey, p.Rounds, len(p.Created))
		}
	}
	if n := store.Count(schedule.Filter{}); n != 4 {
		t.Errorf("store holds %d tasks, want 4", n)
	}

	again, err := Plan(o, r, monday, 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range again {
		if len(p.Created) != 0 {
			t.Errorf("replanning %s created %d tasks", p.DateKey, len(p.Created))
		}
	}
}

func TestPlanNoRounds(t *testing.T) {
	o := orchestrator.New(zoo.NewRegistry("z"), schedule.NewStore(), orchestrator.WithLogger(logging.Nop()))
	r, _ := Parse("0 7 30 2 *")
	if _, err := Plan(o, r, monday, 7); !errors.Is(err, ErrNoRounds) {
		t.Errorf("err = %v, want ErrNoRounds", err)
	}
}
