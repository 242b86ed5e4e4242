package planfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/swarmdeck/swarmdeck/internal/models"
)

const recvTimeout = 3 * time.Second

func writePlan(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}
}

func recvUpdate(t *testing.T, w *Watcher) Update {
	t.Helper()
	select {
	case u := <-w.Updates():
		return u
	case <-time.After(recvTimeout):
		t.Fatal("timed out waiting for plan update")
		return Update{}
	}
}

func TestInitialLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SWARM_PLAN.json")
	writePlan(t, path, `{"master_objective":"build it","tasks":[{"id":1,"description":"scaffold","status":"complete"}]}`)

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Stop()

	u := recvUpdate(t, w)
	if u.Objective != "build it" {
		t.Errorf("Objective = %q, want %q", u.Objective, "build it")
	}
	if len(u.Tasks) != 1 || u.Tasks[0].Status != models.TaskComplete {
		t.Errorf("Tasks = %+v, want one complete task", u.Tasks)
	}
}

func TestWriteDeliversUpdate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SWARM_PLAN.json")

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Stop()

	// File did not exist at watch start, so no initial update.
	select {
	case u := <-w.Updates():
		t.Fatalf("unexpected initial update: %+v", u)
	case <-time.After(200 * time.Millisecond):
	}

	writePlan(t, path, `{"master_objective":"o","tasks":[{"id":2,"description":"wire api","status":"in_progress"}]}`)

	u := recvUpdate(t, w)
	if len(u.Tasks) != 1 || u.Tasks[0].ID != 2 || u.Tasks[0].Status != models.TaskInProgress {
		t.Errorf("Tasks = %+v, want task 2 in progress", u.Tasks)
	}
}

func TestMalformedWriteDeliversNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SWARM_PLAN.json")
	writePlan(t, path, `{"master_objective":"o","tasks":[{"id":1,"description":"a","status":"pending"}]}`)

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Stop()

	recvUpdate(t, w) // initial load

	writePlan(t, path, `{not json`)

	// The bad write must not surface; the next good write must.
	writePlan(t, path, `{"master_objective":"o","tasks":[{"id":3,"description":"c","status":"pending"}]}`)

	u := recvUpdate(t, w)
	if len(u.Tasks) != 1 || u.Tasks[0].ID != 3 {
		t.Errorf("update after malformed write = %+v, want only the good snapshot", u.Tasks)
	}
}

func TestAtomicRenameDeliversUpdate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SWARM_PLAN.json")

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Stop()

	// Write tmp then rename onto the target, the atomic-writer pattern.
	tmp := filepath.Join(dir, "SWARM_PLAN.json.tmp")
	writePlan(t, tmp, `{"master_objective":"o","tasks":[{"id":4,"description":"d","status":"complete"}]}`)
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename: %v", err)
	}

	u := recvUpdate(t, w)
	if len(u.Tasks) != 1 || u.Tasks[0].ID != 4 {
		t.Errorf("Tasks = %+v, want task 4 from renamed file", u.Tasks)
	}
}

func TestStopClosesCleanly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SWARM_PLAN.json")

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	w.Stop()

	// A write after Stop must not panic or deliver.
	writePlan(t, path, `{"master_objective":"o","tasks":[]}`)
	select {
	case u, ok := <-w.Updates():
		if ok {
			t.Fatalf("update after Stop: %+v", u)
		}
	case <-time.After(300 * time.Millisecond):
	}
}
