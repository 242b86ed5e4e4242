package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/swarmdeck/swarmdeck/internal/config"
	"github.com/swarmdeck/swarmdeck/internal/history"
	"github.com/swarmdeck/swarmdeck/internal/models"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	Long:  `List past orchestrator runs from the history database, newest first.`,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	path := settings.History.Path
	if path == "" {
		path, err = config.GlobalHistoryFile()
		if err != nil {
			return err
		}
	}

	store, err := history.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(historyLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			strconv.FormatInt(run.ID, 10),
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			formatRunDuration(run),
			run.Status,
			strconv.Itoa(run.Iterations),
			formatRunTokens(run.TotalTokens),
			run.Model,
			formatObjective(run.Objective, 40),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleLabel.Bold(true).Padding(0, 1)
			}
			if col == 3 && row >= 0 && row < len(runs) {
				return runStatusStyle(runs[row].Status).Padding(0, 1)
			}
			return styleValue.Padding(0, 1)
		}).
		Headers("ID", "STARTED", "DURATION", "STATUS", "ITER", "TOKENS", "MODEL", "OBJECTIVE").
		Rows(rows...)

	fmt.Println(t)
	return nil
}

// runStatusStyle picks the color for a status cell.
func runStatusStyle(status string) lipgloss.Style {
	switch status {
	case models.RunStatusRunning:
		return styleStatusRunning
	case models.RunStatusComplete:
		return styleStatusComplete
	case models.RunStatusStopped:
		return styleStatusStopped
	case models.RunStatusFailed:
		return styleStatusFailed
	default:
		return styleValue
	}
}

// formatRunDuration renders the wall-clock span of a run, "-" while it is
// still open.
func formatRunDuration(run *models.RunRecord) string {
	if run.EndedAt == nil {
		return "-"
	}
	d := run.EndedAt.Sub(run.StartedAt).Round(time.Second)
	if d < 0 {
		d = 0
	}
	return d.String()
}

// formatRunTokens renders a token count compactly: 2.5M, 45.3k, 812.
func formatRunTokens(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// formatObjective flattens newlines and truncates to the column width.
func formatObjective(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return ansi.Truncate(s, width, "…")
}
