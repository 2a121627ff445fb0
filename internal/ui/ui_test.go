package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/marcus/zooshift/internal/logging"
	"github.com/marcus/zooshift/internal/orchestrator"
	"github.com/marcus/zooshift/internal/schedule"
	"github.com/marcus/zooshift/internal/zoo"
)

var today = time.Date(2025, time.June, 5, 9, 0, 0, 0, time.UTC)

func newBoard(t *testing.T) (*Model, *orchestrator.Orchestrator) {
	t.Helper()
	reg := zoo.NewRegistry("Riverside Zoo")
	e, err := reg.AddEnclosure(50, "savannah")
	if err != nil {
		t.Fatal(err)
	}
	if err := reg.Soil(e.ID, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.AddAnimal("Nala", "lion", 4); err != nil {
		t.Fatal(err)
	}
	if err := reg.AssignAnimalToEnclosure("Nala", e.ID); err != nil {
		t.Fatal(err)
	}
	s, err := reg.AddStaff("Peter Parker", "10/08/2002", zoo.RoleKeeper)
	if err != nil {
		t.Fatal(err)
	}
	if err := reg.AssignEnclosureToKeeper(s.ID, e.ID); err != nil {
		t.Fatal(err)
	}

	clock := func() time.Time { return today }
	feed := NewFeed()
	o := orchestrator.New(reg, schedule.NewStore(schedule.WithClock(clock)),
		orchestrator.WithLogger(logging.Nop()),
		orchestrator.WithClock(clock),
		orchestrator.WithEventHandler(feed.Observe),
	)
	return New(o, feed), o
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		model, _ := m.Update(key(k))
		m = model.(Model)
	}
	return m
}

func taskIDs(m Model) []string {
	var ids []string
	for _, row := range m.rows() {
		ids = append(ids, row.Task.ID())
	}
	return ids
}

func TestNew(t *testing.T) {
	m, _ := newBoard(t)
	if m.width != 80 || m.height != 24 {
		t.Errorf("size = %dx%d, want 80x24", m.width, m.height)
	}
	if m.activePanel != PanelTasks {
		t.Errorf("activePanel = %d, want PanelTasks", m.activePanel)
	}
	if m.Date() != "05/06/2025" {
		t.Errorf("Date() = %q, want today", m.Date())
	}
	if m.styles == nil {
		t.Error("styles not initialized")
	}
	if m.Init() == nil {
		t.Error("Init() should return a command")
	}
}

func TestUpdateWindowSize(t *testing.T) {
	m, _ := newBoard(t)
	model, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	updated := model.(Model)
	if updated.width != 120 || updated.height != 40 {
		t.Errorf("size = %dx%d, want 120x40", updated.width, updated.height)
	}
}

func TestKeyHandlingQuit(t *testing.T) {
	m, _ := newBoard(t)
	model, cmd := m.Update(key("q"))
	if !model.(Model).quitting {
		t.Error("expected quitting after 'q'")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
	if model.(Model).View() != "" {
		t.Error("View() should be empty when quitting")
	}
}

func TestKeyHandlingPanelSwitch(t *testing.T) {
	m, _ := newBoard(t)
	tests := []struct {
		key  string
		want Panel
	}{
		{"tab", PanelEvents},
		{"tab", PanelZoo},
		{"tab", PanelTasks},
		{"shift+tab", PanelZoo},
		{"shift+tab", PanelEvents},
	}
	cur := *m
	for i, tt := range tests {
		cur = press(cur, tt.key)
		if cur.activePanel != tt.want {
			t.Fatalf("step %d (%s): activePanel = %d, want %d", i, tt.key, cur.activePanel, tt.want)
		}
	}
}

func TestAutoScheduleKey(t *testing.T) {
	m, o := newBoard(t)
	cur := press(*m, "a")

	want := []string{"Fd-50Sav1-1-050625", "Cln-50Sav1-050625"}
	if diff := cmp.Diff(want, taskIDs(cur)); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}
	if cur.statusErr || !strings.Contains(cur.status, "2 new task") {
		t.Errorf("status = %q (err=%v)", cur.status, cur.statusErr)
	}
	if got := m.feed.Len(); got != 2 {
		t.Errorf("feed has %d events, want 2", got)
	}

	// Second pass creates nothing.
	cur = press(cur, "a")
	if !strings.Contains(cur.status, "0 new task") {
		t.Errorf("status = %q", cur.status)
	}
	if n := o.Store().Count(schedule.Filter{}); n != 2 {
		t.Errorf("store has %d tasks, want 2", n)
	}
}

func TestCompleteKey(t *testing.T) {
	m, o := newBoard(t)
	cur := press(*m, "a")
	if _, err := o.AssignTask("PetPar02", "Cln-50Sav1-050625"); err != nil {
		t.Fatal(err)
	}

	cur = press(cur, "j")
	if cur.selectedTask != 1 {
		t.Fatalf("selectedTask = %d, want 1", cur.selectedTask)
	}

	// Still dirty.
	cur = press(cur, "c")
	if !cur.statusErr {
		t.Fatalf("expected completion to fail, status = %q", cur.status)
	}

	for range 4 {
		if _, err := o.Zoo().Clean("50Sav1"); err != nil {
			t.Fatal(err)
		}
	}
	cur = press(cur, "c")
	if cur.statusErr || cur.status != "completed Cln-50Sav1-050625" {
		t.Errorf("status = %q (err=%v)", cur.status, cur.statusErr)
	}
	loc, err := o.FindTask("Cln-50Sav1-050625")
	if err != nil {
		t.Fatal(err)
	}
	if loc.Status != schedule.StatusCompleted {
		t.Errorf("status = %s, want completed", loc.Status)
	}
}

func TestCompleteWithoutSelection(t *testing.T) {
	m, _ := newBoard(t)
	cur := press(*m, "c")
	if !cur.statusErr || cur.status != "no task selected" {
		t.Errorf("status = %q (err=%v)", cur.status, cur.statusErr)
	}
}

func TestDateNavigation(t *testing.T) {
	m, o := newBoard(t)
	if _, err := o.ScheduleAll("06/06/2025"); err != nil {
		t.Fatal(err)
	}
	cur := press(*m, "r")
	if len(cur.dates) != 1 {
		// Today has no slot yet, so only 06/06 is listed.
		t.Fatalf("dates = %v", cur.dates)
	}

	if _, err := o.ScheduleAll("today"); err != nil {
		t.Fatal(err)
	}
	cur = press(cur, "r")
	if diff := cmp.Diff([]string{"06/06/2025", "05/06/2025"}, cur.dates); diff != "" {
		t.Fatalf("dates (-want +got):\n%s", diff)
	}
	if cur.Date() != "06/06/2025" {
		t.Errorf("Date() = %q, selection should survive refresh", cur.Date())
	}

	cur = press(cur, "]")
	if cur.Date() != "05/06/2025" {
		t.Errorf("after ]: Date() = %q", cur.Date())
	}
	cur = press(cur, "]")
	if cur.Date() != "05/06/2025" {
		t.Errorf("] past the end moved to %q", cur.Date())
	}
	cur = press(cur, "[")
	if cur.Date() != "06/06/2025" {
		t.Errorf("after [: Date() = %q", cur.Date())
	}
}

func TestScrollBounds(t *testing.T) {
	m, _ := newBoard(t)
	cur := press(*m, "a", "G")
	if cur.selectedTask != 1 {
		t.Errorf("G: selectedTask = %d, want 1", cur.selectedTask)
	}
	cur = press(cur, "j", "j")
	if cur.selectedTask != 1 {
		t.Errorf("j past end: selectedTask = %d", cur.selectedTask)
	}
	cur = press(cur, "g", "k")
	if cur.selectedTask != 0 {
		t.Errorf("k past start: selectedTask = %d", cur.selectedTask)
	}

	cur = press(cur, "tab", "G")
	if cur.eventScroll != 1 {
		t.Errorf("events G: eventScroll = %d, want 1", cur.eventScroll)
	}
}

func TestView(t *testing.T) {
	m, _ := newBoard(t)
	cur := press(*m, "a")
	view := cur.View()

	for _, want := range []string{"Riverside Zoo", "50Sav1", "Tasks 05/06/2025", "Cln-50Sav1-050625", "Events", "created"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestViewEmpty(t *testing.T) {
	reg := zoo.NewRegistry("Empty Zoo")
	o := orchestrator.New(reg, schedule.NewStore(), orchestrator.WithLogger(logging.Nop()))
	view := New(o, nil).View()
	for _, want := range []string{"No enclosures", "No tasks scheduled", "No events yet"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestFeedBounded(t *testing.T) {
	f := NewFeed()
	for i := range maxEvents + 10 {
		f.Observe(orchestrator.Event{TaskID: string(rune('a' + i%26))})
	}
	if f.Len() != maxEvents {
		t.Errorf("Len() = %d, want %d", f.Len(), maxEvents)
	}
	events := f.Events()
	events[0].TaskID = "changed"
	if f.Events()[0].TaskID == "changed" {
		t.Error("Events() should return a copy")
	}
}
