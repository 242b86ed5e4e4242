// Package runner supervises the orchestrator child process: it spawns the
// loop script, reads both output streams into queues, and relays control
// messages to the child's stdin.
package runner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"

	"github.com/swarmdeck/swarmdeck/internal/event"
	"github.com/swarmdeck/swarmdeck/internal/models"
	"github.com/swarmdeck/swarmdeck/internal/protocol"
)

// Sentinel errors returned by Start and Send.
var (
	ErrScriptNotFound = errors.New("orchestrator script not found")
	ErrAlreadyStarted = errors.New("runner already started")
	ErrNoStdin        = errors.New("stdin not available")
)

// Config describes how to launch the orchestrator.
type Config struct {
	Script   string            // script file name, e.g. swarm_loop.sh
	ModeFlag string            // fixed flag passed before the objective
	WorkDir  string            // explicit working directory; empty = auto-locate
	Env      map[string]string // extra child environment
}

// Runner owns one orchestrator run. A Runner is single-use: create a fresh
// one for every run so the queues start empty.
type Runner struct {
	cfg Config

	mu  sync.Mutex // child handle
	cmd *exec.Cmd

	runMu   sync.Mutex // running flag
	running bool

	stdinMu sync.Mutex // stdin writes happen only under this lock
	stdin   io.WriteCloser

	logs *Queue[models.LogEntry]
	msgs *Queue[protocol.Message]

	done    chan struct{}
	exitErr error
}

// New creates a runner with empty queues.
func New(cfg Config) *Runner {
	return &Runner{
		cfg:  cfg,
		logs: NewQueue[models.LogEntry](),
		msgs: NewQueue[protocol.Message](),
		done: make(chan struct{}),
	}
}

// Logs returns the queue of classified output lines.
func (r *Runner) Logs() *Queue[models.LogEntry] {
	return r.logs
}

// Messages returns the queue of decoded protocol messages.
func (r *Runner) Messages() *Queue[protocol.Message] {
	return r.msgs
}

// Start locates the loop script and spawns it with the mode flag and the
// objective as arguments. The working directory is one level above the
// current one; when the script is missing there, the current directory is
// tried before giving up. On success the stream readers are running and
// IsRunning reports true.
func (r *Runner) Start(objective string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd != nil {
		return ErrAlreadyStarted
	}

	workDir, scriptPath, err := r.locateScript()
	if err != nil {
		return err
	}

	cmd := exec.Command("bash", scriptPath, r.cfg.ModeFlag, objective)
	cmd.Dir = workDir
	if len(r.cfg.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range r.cfg.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to capture stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to capture stderr: %w", err)
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to capture stdin: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to spawn orchestrator: %w", err)
	}

	r.cmd = cmd
	r.stdinMu.Lock()
	r.stdin = stdin
	r.stdinMu.Unlock()
	r.setRunning(true)

	var readers sync.WaitGroup
	readers.Add(2)
	go func() {
		defer readers.Done()
		r.readStdout(stdout)
	}()
	go func() {
		defer readers.Done()
		r.readStderr(stderr)
	}()
	go func() {
		readers.Wait()
		r.exitErr = cmd.Wait()
		close(r.done)
	}()

	return nil
}

// locateScript resolves the script path and working directory. An explicit
// WorkDir wins; otherwise the parent of the current directory is preferred
// with the current directory as fallback.
func (r *Runner) locateScript() (workDir, scriptPath string, err error) {
	if r.cfg.WorkDir != "" {
		scriptPath = filepath.Join(r.cfg.WorkDir, r.cfg.Script)
		if _, err := os.Stat(scriptPath); err != nil {
			return "", "", fmt.Errorf("%w: %s", ErrScriptNotFound, scriptPath)
		}
		return r.cfg.WorkDir, scriptPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve working directory: %w", err)
	}

	parent := filepath.Dir(cwd)
	scriptPath = filepath.Join(parent, r.cfg.Script)
	if _, err := os.Stat(scriptPath); err == nil {
		return parent, scriptPath, nil
	}

	scriptPath = filepath.Join(cwd, r.cfg.Script)
	if _, err := os.Stat(scriptPath); err == nil {
		return cwd, scriptPath, nil
	}

	return "", "", fmt.Errorf("%w: looked in %s and %s", ErrScriptNotFound, parent, cwd)
}

// readStdout classifies every non-blank line into the log queue and decodes
// message-tagged lines into the message queue. Decode failures are dropped
// silently; the raw line still lands in the log. EOF or a read error flips
// running to false.
func (r *Runner) readStdout(pipe io.Reader) {
	scanner := bufio.NewScanner(pipe)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(ansi.Strip(scanner.Text()))
		if line == "" {
			continue
		}

		if msg, ok := protocol.DecodeLine(line); ok {
			r.msgs.Push(*msg)
		}
		r.logs.Push(event.ParseLine(line))
	}
	r.setRunning(false)
}

// readStderr turns every non-blank stderr line into an Error entry directly,
// bypassing classification.
func (r *Runner) readStderr(pipe io.Reader) {
	scanner := bufio.NewScanner(pipe)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(ansi.Strip(scanner.Text()))
		if line == "" {
			continue
		}
		r.logs.Push(models.ErrorEntry(line))
	}
}

// Send encodes the message as one tagged line and writes it to the child's
// stdin. A write failure is reported to the caller and does not kill the
// child.
func (r *Runner) Send(msg *protocol.Message) error {
	line, err := protocol.EncodeLine(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	r.stdinMu.Lock()
	defer r.stdinMu.Unlock()

	if r.stdin == nil {
		return ErrNoStdin
	}
	if _, err := fmt.Fprintln(r.stdin, line); err != nil {
		return fmt.Errorf("failed to write to stdin: %w", err)
	}
	return nil
}

// Kill terminates the child without waiting for the readers to drain.
// Idempotent and safe from teardown paths; buffered output may still surface
// briefly after it returns.
func (r *Runner) Kill() {
	r.mu.Lock()
	if r.cmd != nil && r.cmd.Process != nil {
		_ = r.cmd.Process.Kill()
	}
	r.mu.Unlock()

	r.setRunning(false)
}

// WorkDir returns the directory the child was spawned in, or "" before a
// successful Start. The plan file lives here.
func (r *Runner) WorkDir() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd == nil {
		return ""
	}
	return r.cmd.Dir
}

// IsRunning reports whether the child is still producing output. The flag is
// cleared by the stdout reader on EOF or read error, and by Kill.
func (r *Runner) IsRunning() bool {
	r.runMu.Lock()
	defer r.runMu.Unlock()
	return r.running
}

func (r *Runner) setRunning(v bool) {
	r.runMu.Lock()
	r.running = v
	r.runMu.Unlock()
}

// Done returns a channel closed once both readers finished and the child was
// reaped.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// ExitErr returns the child's exit error. Valid only after Done is closed.
func (r *Runner) ExitErr() error {
	return r.exitErr
}
