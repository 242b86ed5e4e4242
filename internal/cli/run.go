package cli

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/swarmdeck/swarmdeck/internal/config"
	"github.com/swarmdeck/swarmdeck/internal/history"
	"github.com/swarmdeck/swarmdeck/internal/models"
	"github.com/swarmdeck/swarmdeck/internal/runner"
	"github.com/swarmdeck/swarmdeck/internal/session"
	"github.com/swarmdeck/swarmdeck/internal/tui"
)

var (
	runObjective string
	runScript    string
	runModeFlag  string
	runHeadless  bool
)

var runCmd = &cobra.Command{
	Use:   "run [objective...]",
	Short: "Start a supervised orchestrator run",
	Long: `Start the orchestrator and supervise its output.

Without --headless this opens the dashboard. The objective may be passed as
arguments, with --objective, or typed into the dashboard's input line.
With --headless the classified output is printed to the terminal instead;
an objective is required.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runObjective, "objective", "o", "", "objective handed to the orchestrator")
	runCmd.Flags().StringVar(&runScript, "script", "", "orchestrator script name (overrides settings)")
	runCmd.Flags().StringVar(&runModeFlag, "mode-flag", "", "mode flag passed before the objective (overrides settings)")
	runCmd.Flags().BoolVar(&runHeadless, "headless", false, "supervise without the dashboard")
}

func runRun(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if runScript != "" {
		settings.Script = runScript
	}
	if runModeFlag != "" {
		settings.ModeFlag = runModeFlag
	}

	objective := strings.TrimSpace(runObjective)
	if objective == "" {
		objective = strings.TrimSpace(strings.Join(args, " "))
	}

	if runHeadless {
		if objective == "" {
			return fmt.Errorf("headless mode needs an objective (pass it as arguments or with --objective)")
		}
		return runHeadlessLoop(settings, objective)
	}

	return tui.Run(settings, objective)
}

// runHeadlessLoop supervises one run without the dashboard. The same
// queues-and-session pipeline drives it; classified lines go through the
// stdlib logger instead of a viewport.
func runHeadlessLoop(settings *models.Settings, objective string) error {
	log.SetPrefix("[swarmdeck] ")
	log.SetFlags(log.Ldate | log.Ltime)

	r := runner.New(runner.Config{
		Script:   settings.Script,
		ModeFlag: settings.ModeFlag,
		WorkDir:  settings.WorkDir,
	})
	if err := r.Start(objective); err != nil {
		return err
	}
	startedAt := time.Now()
	log.Printf("run started: %s", objective)

	sess := session.New(settings.MaxLogEntries)

	store, record := openHistory(settings, objective)
	if store != nil {
		defer store.Close()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	stopped := false
loop:
	for {
		select {
		case <-sigCh:
			log.Printf("interrupt received, stopping orchestrator")
			r.Kill()
			stopped = true
		case <-r.Done():
			break loop
		case <-ticker.C:
			drainHeadless(r, sess)
		}
	}

	// Capture output that arrived between the last tick and process exit.
	drainHeadless(r, sess)

	exitErr := r.ExitErr()
	status := models.RunStatusComplete
	switch {
	case sess.Completed():
		status = models.RunStatusComplete
	case stopped:
		status = models.RunStatusStopped
	case exitErr != nil:
		status = models.RunStatusFailed
	}
	if exitErr != nil && !stopped {
		log.Printf("orchestrator exited: %v", exitErr)
	}

	metrics := sess.Metrics()
	if store != nil && record != nil {
		record.Status = status
		record.Iterations = metrics.Iterations
		record.TotalTokens = metrics.TotalTokens
		record.Model = metrics.ActiveModel
		if err := store.FinishRun(record); err != nil {
			log.Printf("history update failed: %v", err)
		}
	}

	snap := sess.Snapshot()
	lines := make([]string, 0, len(snap.Logs))
	for _, e := range snap.Logs {
		lines = append(lines, fmt.Sprintf("%s [%s] %s", e.Time.Format("15:04:05"), e.Level, e.Message))
	}
	if t, err := config.WriteTranscript(objective, status, metrics.Iterations, startedAt, lines); err != nil {
		log.Printf("transcript write failed: %v", err)
	} else {
		log.Printf("transcript saved: %s", t.RunID)
	}

	log.Printf("run finished (%s): %d iterations, %d tokens", status, metrics.Iterations, metrics.TotalTokens)
	if status == models.RunStatusFailed {
		return fmt.Errorf("orchestrator failed: %w", exitErr)
	}
	return nil
}

// openHistory opens the run history store and inserts the starting record.
// History failures never block a run; they are logged and the store is
// skipped.
func openHistory(settings *models.Settings, objective string) (*history.Store, *models.RunRecord) {
	if !settings.History.Enabled {
		return nil, nil
	}

	path := settings.History.Path
	if path == "" {
		p, err := config.GlobalHistoryFile()
		if err != nil {
			log.Printf("history unavailable: %v", err)
			return nil, nil
		}
		path = p
	}

	store, err := history.Open(path)
	if err != nil {
		log.Printf("history unavailable: %v", err)
		return nil, nil
	}

	record := models.NewRunRecord(objective)
	if err := store.StartRun(record); err != nil {
		log.Printf("history insert failed: %v", err)
		_ = store.Close()
		return nil, nil
	}
	return store, record
}

// drainHeadless moves everything queued since the last tick into the session
// and prints the classified lines.
func drainHeadless(r *runner.Runner, sess *session.Session) {
	for _, entry := range r.Logs().Drain() {
		sess.Apply(entry)
		log.Printf("%-7s %s", strings.ToUpper(string(entry.Level)), entry.Message)
	}
	for _, msg := range r.Messages().Drain() {
		sess.ApplyMessage(msg)
	}
}
