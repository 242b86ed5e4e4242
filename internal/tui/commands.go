package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/swarmdeck/swarmdeck/internal/config"
	"github.com/swarmdeck/swarmdeck/internal/history"
	"github.com/swarmdeck/swarmdeck/internal/models"
	"github.com/swarmdeck/swarmdeck/internal/protocol"
	"github.com/swarmdeck/swarmdeck/internal/runner"
)

// tickInterval paces queue drains, simulation steps, and redraws. 80ms is
// fast enough for smooth node motion without hammering the renderer.
const tickInterval = 80 * time.Millisecond

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

func clearErrorAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return ClearErrorMsg{}
	})
}

// waitExitCmd blocks until the orchestrator process exits. Bubbletea runs
// commands on their own goroutines, so this never stalls the UI.
func waitExitCmd(r *runner.Runner) tea.Cmd {
	return func() tea.Msg {
		<-r.Done()
		return RunExitedMsg{Err: r.ExitErr()}
	}
}

func sendMessageCmd(r *runner.Runner, msg *protocol.Message) tea.Cmd {
	return func() tea.Msg {
		if err := r.Send(msg); err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to send %s: %w", msg.Type, err)}
		}
		return nil
	}
}

func historyStartCmd(store *history.Store, objective string) tea.Cmd {
	return func() tea.Msg {
		run := models.NewRunRecord(objective)
		if err := store.StartRun(run); err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to record run: %w", err)}
		}
		return HistoryStartedMsg{Run: run}
	}
}

func historyFinishCmd(store *history.Store, run *models.RunRecord, status string, metrics models.Metrics) tea.Cmd {
	return func() tea.Msg {
		run.Status = status
		run.Iterations = metrics.Iterations
		run.TotalTokens = metrics.TotalTokens
		run.Model = metrics.ActiveModel
		if err := store.FinishRun(run); err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to finalize run record: %w", err)}
		}
		return nil
	}
}

func writeTranscriptCmd(objective, status string, iterations int, startedAt time.Time, logs []models.LogEntry) tea.Cmd {
	return func() tea.Msg {
		lines := make([]string, 0, len(logs))
		for _, e := range logs {
			lines = append(lines, fmt.Sprintf("%s [%s] %s", e.Time.Format("15:04:05"), e.Level, e.Message))
		}
		t, err := config.WriteTranscript(objective, status, iterations, startedAt, lines)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to write transcript: %w", err)}
		}
		return TranscriptSavedMsg{RunID: t.RunID}
	}
}
