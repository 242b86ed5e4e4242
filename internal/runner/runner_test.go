package runner

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/swarmdeck/swarmdeck/internal/models"
	"github.com/swarmdeck/swarmdeck/internal/protocol"
)

func requireBash(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}
}

// writeScript drops an orchestrator stand-in into dir and returns a config
// pointing at it.
func writeScript(t *testing.T, dir, body string) Config {
	t.Helper()
	path := filepath.Join(dir, "loop.sh")
	if err := os.WriteFile(path, []byte("#!/usr/bin/env bash\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return Config{Script: "loop.sh", ModeFlag: "--v2", WorkDir: dir}
}

func waitDone(t *testing.T, r *Runner) {
	t.Helper()
	select {
	case <-r.Done():
	case <-time.After(10 * time.Second):
		r.Kill()
		t.Fatal("orchestrator did not exit in time")
	}
}

func findEntry(entries []models.LogEntry, substr string) (models.LogEntry, bool) {
	for _, e := range entries {
		if strings.Contains(e.Message, substr) {
			return e, true
		}
	}
	return models.LogEntry{}, false
}

func TestStartScriptNotFound(t *testing.T) {
	r := New(Config{Script: "missing.sh", WorkDir: t.TempDir()})
	if err := r.Start("objective"); !errors.Is(err, ErrScriptNotFound) {
		t.Fatalf("Start = %v, want ErrScriptNotFound", err)
	}
}

func TestStartTwice(t *testing.T) {
	requireBash(t)
	r := New(writeScript(t, t.TempDir(), "exit 0\n"))
	if err := r.Start("x"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Start("x"); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start = %v, want ErrAlreadyStarted", err)
	}
	waitDone(t, r)
}

func TestStdoutClassification(t *testing.T) {
	requireBash(t)
	r := New(writeScript(t, t.TempDir(), `echo "[AGENT:ENGINEER:START] implementing"
echo ""
echo "building the parser"
echo '[METRICS] {"type":"iteration","iteration":2}'
printf '\033[31mError: red\033[0m\n'
`))
	if err := r.Start("build"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitDone(t, r)

	if err := r.ExitErr(); err != nil {
		t.Fatalf("ExitErr = %v, want nil", err)
	}

	got := r.Logs().Drain()
	want := []struct {
		level models.LogLevel
		msg   string
	}{
		{models.LevelAgent, "[AGENT:ENGINEER:START] implementing"},
		{models.LevelInfo, "building the parser"},
		{models.LevelSystem, `[METRICS] {"type":"iteration","iteration":2}`},
		{models.LevelError, "Error: red"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Level != w.level {
			t.Errorf("entry %d level = %s, want %s", i, got[i].Level, w.level)
		}
		if got[i].Message != w.msg {
			t.Errorf("entry %d message = %q, want %q", i, got[i].Message, w.msg)
		}
	}
	if msgs := r.Messages().Drain(); msgs != nil {
		t.Errorf("Messages = %v, want none", msgs)
	}
}

func TestStderrBecomesErrorEntries(t *testing.T) {
	requireBash(t)
	r := New(writeScript(t, t.TempDir(), `echo "all good"
echo "boom" 1>&2
`))
	if err := r.Start("x"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitDone(t, r)

	entries := r.Logs().Drain()
	e, ok := findEntry(entries, "boom")
	if !ok {
		t.Fatalf("stderr line missing from log: %v", entries)
	}
	// "boom" matches no error keyword; the level proves the stderr path.
	if e.Level != models.LevelError {
		t.Errorf("stderr entry level = %s, want %s", e.Level, models.LevelError)
	}
}

func TestMessageDecoding(t *testing.T) {
	requireBash(t)
	r := New(writeScript(t, t.TempDir(), `echo '[MESSAGE] {"id":"abc12345","type":"complete","sender":"orchestrator","receiver":"swarmdeck","payload":{"result":"ok"},"timestamp":"2025-06-01T10:00:00Z","correlation_id":null,"metadata":{}}'
echo '[MESSAGE] {broken'
`))
	if err := r.Start("x"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitDone(t, r)

	msgs := r.Messages().Drain()
	if len(msgs) != 1 {
		t.Fatalf("decoded %d messages, want 1", len(msgs))
	}
	if msgs[0].Type != protocol.TypeComplete {
		t.Errorf("type = %s, want %s", msgs[0].Type, protocol.TypeComplete)
	}
	if msgs[0].Sender != "orchestrator" {
		t.Errorf("sender = %s, want orchestrator", msgs[0].Sender)
	}

	// Both lines still land in the log, the broken one as plain text.
	if logs := r.Logs().Drain(); len(logs) != 2 {
		t.Errorf("raw lines in log = %d, want 2", len(logs))
	}
}

func TestChildArgsAndWorkDir(t *testing.T) {
	requireBash(t)
	dir := t.TempDir()
	r := New(writeScript(t, dir, "echo \"mode=$1 objective=$2\"\n"))
	if err := r.Start("build a parser"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := r.WorkDir(); got != dir {
		t.Errorf("WorkDir = %s, want %s", got, dir)
	}
	waitDone(t, r)

	entries := r.Logs().Drain()
	if _, ok := findEntry(entries, "mode=--v2 objective=build a parser"); !ok {
		t.Errorf("child did not receive flag and objective: %v", entries)
	}
}

func TestLocateScriptParentAndCwdFallback(t *testing.T) {
	requireBash(t)

	t.Run("parent preferred", func(t *testing.T) {
		parent := t.TempDir()
		child := filepath.Join(parent, "work")
		if err := os.Mkdir(child, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		writeScript(t, parent, "exit 0\n")
		t.Chdir(child)

		r := New(Config{Script: "loop.sh", ModeFlag: "--v2"})
		if err := r.Start("x"); err != nil {
			t.Fatalf("Start with script in parent: %v", err)
		}
		waitDone(t, r)
	})

	t.Run("cwd fallback", func(t *testing.T) {
		dir := t.TempDir()
		writeScript(t, dir, "exit 0\n")
		t.Chdir(dir)

		r := New(Config{Script: "loop.sh", ModeFlag: "--v2"})
		if err := r.Start("x"); err != nil {
			t.Fatalf("Start with script in cwd: %v", err)
		}
		waitDone(t, r)
	})
}

func TestKillStopsChild(t *testing.T) {
	requireBash(t)
	// read blocks in bash itself, so Kill closes the pipes immediately.
	r := New(writeScript(t, t.TempDir(), "echo ready\nread -r line\n"))
	if err := r.Start("x"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !r.IsRunning() {
		t.Error("IsRunning = false right after Start")
	}

	r.Kill()
	if r.IsRunning() {
		t.Error("IsRunning = true after Kill")
	}
	r.Kill() // idempotent

	waitDone(t, r)
	if r.ExitErr() == nil {
		t.Error("ExitErr = nil after Kill, want signal error")
	}
}

func TestExitErrPropagates(t *testing.T) {
	requireBash(t)
	r := New(writeScript(t, t.TempDir(), "exit 3\n"))
	if err := r.Start("x"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitDone(t, r)

	if r.ExitErr() == nil {
		t.Error("ExitErr = nil, want exit status 3")
	}
	if r.IsRunning() {
		t.Error("IsRunning = true after exit")
	}
}

func TestSendReachesChildStdin(t *testing.T) {
	requireBash(t)
	r := New(writeScript(t, t.TempDir(), "read -r line\necho \"child saw: $line\"\n"))
	if err := r.Start("x"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	abort := protocol.New(protocol.TypeAbort, "swarmdeck", "orchestrator", map[string]any{"reason": "user_requested"})
	if err := r.Send(abort); err != nil {
		t.Fatalf("Send: %v", err)
	}
	waitDone(t, r)

	entries := r.Logs().Drain()
	e, ok := findEntry(entries, "child saw: [MESSAGE]")
	if !ok {
		t.Fatalf("child never echoed the control line: %v", entries)
	}
	if !strings.Contains(e.Message, `"type":"abort"`) {
		t.Errorf("relayed line missing message type: %q", e.Message)
	}
}

func TestSendWithoutStart(t *testing.T) {
	r := New(Config{Script: "loop.sh"})
	err := r.Send(protocol.New(protocol.TypeStatus, "swarmdeck", "orchestrator", map[string]any{}))
	if !errors.Is(err, ErrNoStdin) {
		t.Errorf("Send = %v, want ErrNoStdin", err)
	}
}
