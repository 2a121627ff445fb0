package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/marcus/zooshift/internal/db"
	"github.com/marcus/zooshift/internal/orchestrator"
	"github.com/marcus/zooshift/internal/tasks"
)

func openDB(t *testing.T) *db.DB {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	database, err := db.Open(filepath.Join(t.TempDir(), "zooshift.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestRecordAndRecent(t *testing.T) {
	database := openDB(t)
	j, err := Start(database, "Test Zoo", "shell")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(j.SessionID()); err != nil {
		t.Errorf("session id %q is not a uuid: %v", j.SessionID(), err)
	}

	base := time.Date(2025, time.June, 5, 9, 0, 0, 0, time.UTC)
	events := []orchestrator.Event{
		{Type: orchestrator.EventTaskCreated, Time: base, TaskID: "Cln-50Sav1-050625", TaskType: tasks.TypeCleaning, Date: "05/06/2025", Owner: "UNASSIGNED", Op: "auto cleaning"},
		{Type: orchestrator.EventRejected, Time: base.Add(time.Minute), TaskID: "Cln-50Sav1-050625", Op: "assign", Error: "invalid staff role"},
		{Type: orchestrator.EventTaskAssigned, Time: base.Add(2 * time.Minute), TaskID: "Cln-50Sav1-050625", TaskType: tasks.TypeCleaning, Date: "05/06/2025", Owner: "PetPar02", Op: "assign"},
	}
	handler := j.Handler()
	for _, e := range events {
		handler(e)
	}

	got, err := Recent(database, 10, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("Recent() returned %d entries, want 3", len(got))
	}
	if got[0].Event != "assigned" || got[0].Owner != "PetPar02" {
		t.Errorf("newest entry = %+v", got[0])
	}
	if got[1].Error != "invalid staff role" || got[1].Event != "rejected" {
		t.Errorf("rejected entry = %+v", got[1])
	}
	if got[2].TaskType != "Cleaning" || got[2].Op != "auto cleaning" || got[2].Error != "" {
		t.Errorf("oldest entry = %+v", got[2])
	}
	if !got[2].Time.Equal(base) {
		t.Errorf("time = %v, want %v", got[2].Time, base)
	}

	limited, _ := Recent(database, 1, "")
	if len(limited) != 1 {
		t.Errorf("limit ignored: %d entries", len(limited))
	}
}

func TestRecentByTask(t *testing.T) {
	database := openDB(t)
	j, _ := Start(database, "Test Zoo", "script.zoo")
	j.Record(orchestrator.Event{Type: orchestrator.EventTaskCreated, TaskID: "Tr-Nala-050625"})
	j.Record(orchestrator.Event{Type: orchestrator.EventTaskCreated, TaskID: "Tr-Mufasa-050625"})

	got, err := Recent(database, 0, "Tr-Nala-050625")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].TaskID != "Tr-Nala-050625" {
		t.Errorf("Recent(task) = %+v", got)
	}
}

func TestSessions(t *testing.T) {
	database := openDB(t)
	first, _ := Start(database, "Test Zoo", "shell")
	first.Record(orchestrator.Event{Type: orchestrator.EventTaskCreated, TaskID: "Cln-50Sav1-050625"})
	if err := first.End(); err != nil {
		t.Fatal(err)
	}
	second, _ := Start(database, "Test Zoo", "plan")

	sessions, err := Sessions(database, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("Sessions() = %d, want 2", len(sessions))
	}
	byID := map[string]Session{}
	for _, s := range sessions {
		byID[s.ID] = s
	}
	if s := byID[first.SessionID()]; s.Events != 1 || s.EndedAt == nil || s.Source != "shell" {
		t.Errorf("first session = %+v", s)
	}
	if s := byID[second.SessionID()]; s.Events != 0 || s.EndedAt != nil {
		t.Errorf("second session = %+v", s)
	}
}

func TestStartNilDB(t *testing.T) {
	if _, err := Start(nil, "z", "shell"); err == nil {
		t.Error("expected error for nil db")
	}
}
