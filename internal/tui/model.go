package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/swarmdeck/swarmdeck/internal/graph"
	"github.com/swarmdeck/swarmdeck/internal/history"
	"github.com/swarmdeck/swarmdeck/internal/models"
	"github.com/swarmdeck/swarmdeck/internal/planfile"
	"github.com/swarmdeck/swarmdeck/internal/protocol"
	"github.com/swarmdeck/swarmdeck/internal/runner"
	"github.com/swarmdeck/swarmdeck/internal/session"
)

// Model is the root Bubbletea model for the dashboard.
type Model struct {
	settings *models.Settings

	// Run pipeline. run is nil until the first start; a fresh Runner is
	// created per run so its queues start empty.
	run     *runner.Runner
	session *session.Session
	sim     *graph.Sim
	plan    *planfile.Watcher
	store   *history.Store // nil when history is disabled

	snap          session.Snapshot
	record        *models.RunRecord // history row for the active run
	objective     string
	startedAt     time.Time
	runActive     bool
	stopRequested bool

	// Objective passed on the command line; started automatically.
	pendingObjective string

	// UI state
	input    textinput.Model
	logView  *LogView
	spin     spinner.Model
	showHelp bool

	confirmMode int
	err         error

	width    int
	height   int
	lastTick time.Time
}

// NewModel creates the initial dashboard model. store may be nil.
func NewModel(settings *models.Settings, store *history.Store, objective string) Model {
	input := textinput.New()
	input.Placeholder = "Type an objective and press Enter to start"
	input.Prompt = "❯ "
	input.Focus()

	spin := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(colorCyan)),
	)

	return Model{
		settings:         settings,
		session:          session.New(settings.MaxLogEntries),
		sim:              graph.New(graph.Vec{}, graph.ConfigFromSettings(settings.Graph)),
		store:            store,
		pendingObjective: strings.TrimSpace(objective),
		input:            input,
		logView:          NewLogView(settings.ShowSystemLogs),
		spin:             spin,
		lastTick:         time.Now(),
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		m.spin.Tick,
		tick(),
	}
	if m.pendingObjective != "" {
		cmds = append(cmds, func() tea.Msg { return RunStartedMsg{} })
	}
	return tea.Batch(cmds...)
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateDimensions()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case TickMsg:
		dt := msg.Time.Sub(m.lastTick).Seconds()
		m.lastTick = msg.Time

		if !m.session.Paused() {
			m.drainQueues()
			m.drainPlan()
		}
		m.snap = m.session.Snapshot()

		if e := m.snap.Edge; e != nil {
			m.sim.SetEdge(e.From, e.To)
		} else {
			m.sim.SetEdge("", "")
		}
		m.sim.Step(dt)

		m.updateDimensions()
		m.logView.SetLogs(m.snap.Logs)

		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case RunStartedMsg:
		m.input.SetValue(m.pendingObjective)
		m.pendingObjective = ""
		return m, m.startRun()

	case RunExitedMsg:
		return m, m.finishRun(msg.Err)

	case HistoryStartedMsg:
		m.record = msg.Run
		return m, nil

	case TranscriptSavedMsg:
		m.session.AddLog(models.SystemEntry("Transcript saved as " + msg.RunID))
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		cmds = append(cmds, clearErrorAfter(5*time.Second))
		return m, tea.Batch(cmds...)

	case ClearErrorMsg:
		m.err = nil
		return m, nil
	}

	return m, nil
}

// drainQueues applies everything the reader goroutines captured since the
// last tick.
func (m *Model) drainQueues() {
	if m.run == nil {
		return
	}
	for _, entry := range m.run.Logs().Drain() {
		m.session.Apply(entry)
	}
	for _, pm := range m.run.Messages().Drain() {
		m.session.ApplyMessage(pm)
	}
}

// drainPlan consumes pending plan file snapshots without blocking.
func (m *Model) drainPlan() {
	if m.plan == nil {
		return
	}
	for {
		select {
		case u, ok := <-m.plan.Updates():
			if !ok {
				m.plan = nil
				return
			}
			m.session.ReplaceTasks(u.Tasks)
		default:
			return
		}
	}
}

// handleKey processes key events.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Confirm mode captures everything
	if m.confirmMode != confirmNone {
		return m.handleConfirmKey(msg)
	}

	// Help overlay: close on Esc or Ctrl+h, swallow the rest
	if m.showHelp {
		if key.Matches(msg, confirmKeys.Cancel) || key.Matches(msg, globalKeys.Help) {
			m.showHelp = false
		}
		return nil
	}

	switch {
	case key.Matches(msg, globalKeys.Quit):
		if m.runActive {
			m.confirmMode = confirmQuit
			return nil
		}
		return m.doQuit()

	case key.Matches(msg, globalKeys.Help):
		m.showHelp = true
		return nil

	case key.Matches(msg, globalKeys.Stop):
		if m.runActive {
			m.confirmMode = confirmStop
		}
		return nil

	case key.Matches(msg, globalKeys.Pause):
		m.session.SetPaused(!m.session.Paused())
		return nil

	case key.Matches(msg, globalKeys.SystemLogs):
		m.logView.ToggleSystem()
		m.logView.SetLogs(m.snap.Logs)
		return nil

	case key.Matches(msg, globalKeys.Abort):
		if m.runActive {
			abort := protocol.New(protocol.TypeAbort, "swarmdeck", "orchestrator",
				map[string]any{"reason": "user_requested"})
			m.session.AddLog(models.SystemEntry("Abort requested"))
			return sendMessageCmd(m.run, abort)
		}
		return nil

	case key.Matches(msg, globalKeys.Status):
		if m.runActive {
			status := protocol.New(protocol.TypeStatus, "swarmdeck", "orchestrator",
				map[string]any{})
			return sendMessageCmd(m.run, status)
		}
		return nil
	}

	// Log scrolling and run start; everything else edits the objective.
	switch msg.Type {
	case tea.KeyUp:
		m.logView.LineUp()
		return nil
	case tea.KeyDown:
		m.logView.LineDown()
		return nil
	case tea.KeyPgUp:
		m.logView.PageUp()
		return nil
	case tea.KeyPgDown:
		m.logView.PageDown()
		return nil
	case tea.KeyHome:
		m.logView.GotoTop()
		return nil
	case tea.KeyEnd:
		m.logView.Follow()
		return nil
	case tea.KeyEnter:
		return m.startRun()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, confirmKeys.Yes):
		mode := m.confirmMode
		m.confirmMode = confirmNone
		switch mode {
		case confirmQuit:
			return m.doQuit()
		case confirmStop:
			return m.stopRun()
		}
	case key.Matches(msg, confirmKeys.No), key.Matches(msg, confirmKeys.Cancel):
		m.confirmMode = confirmNone
	}
	return nil
}

// startRun resets per-run state and spawns a fresh orchestrator.
func (m *Model) startRun() tea.Cmd {
	objective := strings.TrimSpace(m.input.Value())
	if objective == "" || m.runActive {
		return nil
	}

	m.session.Reset()
	m.sim.Reset()
	m.record = nil
	m.stopRequested = false

	r := runner.New(runner.Config{
		Script:   m.settings.Script,
		ModeFlag: m.settings.ModeFlag,
		WorkDir:  m.settings.WorkDir,
	})
	if err := r.Start(objective); err != nil {
		m.err = err
		return clearErrorAfter(5 * time.Second)
	}

	m.run = r
	m.runActive = true
	m.objective = objective
	m.startedAt = time.Now().UTC()
	m.input.SetValue("")

	m.session.AddLog(models.SystemEntry("Run started: " + objective))

	if m.plan != nil {
		m.plan.Stop()
		m.plan = nil
	}
	planPath := filepath.Join(r.WorkDir(), m.settings.PlanFile)
	if w, err := planfile.Watch(planPath); err == nil {
		m.plan = w
	} else {
		m.session.AddLog(models.SystemEntry("Plan watch unavailable: " + err.Error()))
	}

	cmds := []tea.Cmd{waitExitCmd(r)}
	if m.store != nil {
		cmds = append(cmds, historyStartCmd(m.store, objective))
	}
	return tea.Batch(cmds...)
}

// stopRun kills the child; teardown happens when RunExitedMsg arrives.
func (m *Model) stopRun() tea.Cmd {
	if m.run == nil || !m.runActive {
		return nil
	}
	m.stopRequested = true
	m.session.AddLog(models.SystemEntry("Stopping orchestrator"))
	m.run.Kill()
	return nil
}

// finishRun tears down after the child exits: final drain, history row,
// transcript.
func (m *Model) finishRun(exitErr error) tea.Cmd {
	if !m.runActive {
		return nil
	}
	m.runActive = false

	// Capture output that arrived between the last tick and process exit.
	m.drainQueues()
	m.drainPlan()

	status := models.RunStatusComplete
	switch {
	case m.session.Completed():
		status = models.RunStatusComplete
	case m.stopRequested:
		status = models.RunStatusStopped
	case exitErr != nil:
		status = models.RunStatusFailed
	}

	if exitErr != nil && !m.stopRequested {
		m.session.AddLog(models.ErrorEntry("Orchestrator exited: " + exitErr.Error()))
	}
	m.session.AddLog(models.SystemEntry("Run finished (" + status + ")"))

	if m.plan != nil {
		m.plan.Stop()
		m.plan = nil
	}

	m.snap = m.session.Snapshot()
	metrics := m.snap.Metrics

	var cmds []tea.Cmd
	if m.store != nil && m.record != nil {
		cmds = append(cmds, historyFinishCmd(m.store, m.record, status, metrics))
		m.record = nil
	}
	cmds = append(cmds, writeTranscriptCmd(m.objective, status, metrics.Iterations, m.startedAt, m.snap.Logs))
	return tea.Batch(cmds...)
}

// doQuit kills any live child and stops the plan watcher before exiting.
func (m *Model) doQuit() tea.Cmd {
	if m.plan != nil {
		m.plan.Stop()
		m.plan = nil
	}
	if m.run != nil {
		m.run.Kill()
	}
	return tea.Quit
}

// ── Layout ───────────────────────────────────────────────────────

// panelLayout holds the computed dimensions of every region.
type panelLayout struct {
	mainWidth     int
	sidebarWidth  int
	contentHeight int
	flowHeight    int
	thinkHeight   int
	logHeight     int
}

func computeLayout(width, height int, showThink bool) panelLayout {
	// Reserve: 1 line header, 1 line input, 1 line status bar.
	contentHeight := height - 3
	if contentHeight < 3 {
		contentHeight = 3
	}

	sidebarWidth := 30
	if width < 100 {
		sidebarWidth = 26
	}
	mainWidth := width - sidebarWidth
	if mainWidth < 20 {
		mainWidth = 20
	}

	flowHeight := contentHeight * 2 / 5
	if flowHeight < 7 {
		flowHeight = 7
	}

	thinkHeight := 0
	if showThink {
		thinkHeight = 7
	}

	logHeight := contentHeight - flowHeight - thinkHeight
	if logHeight < 4 {
		// Sacrifice the thinking panel, then flow rows, to keep the log
		// usable on short terminals.
		thinkHeight = 0
		logHeight = contentHeight - flowHeight
		if logHeight < 4 {
			flowHeight = contentHeight - 4
			logHeight = 4
		}
	}

	return panelLayout{
		mainWidth:     mainWidth,
		sidebarWidth:  sidebarWidth,
		contentHeight: contentHeight,
		flowHeight:    flowHeight,
		thinkHeight:   thinkHeight,
		logHeight:     logHeight,
	}
}

func (m *Model) showThink() bool {
	return m.snap.Thinking || m.snap.Thought != ""
}

func (m *Model) updateDimensions() {
	layout := computeLayout(m.width, m.height, m.showThink())

	// Panel borders take 2 cells each way; the title line one more row.
	logInnerW := layout.mainWidth - 2
	logInnerH := layout.logHeight - 3
	if logInnerW < 1 {
		logInnerW = 1
	}
	if logInnerH < 1 {
		logInnerH = 1
	}
	m.logView.SetSize(logInnerW, logInnerH)

	inputW := m.width - 6
	if inputW < 10 {
		inputW = 10
	}
	m.input.Width = inputW
}

// ── View ─────────────────────────────────────────────────────────

// View renders the dashboard.
func (m Model) View() string {
	// Minimum size check
	if m.width < 80 || m.height < 24 {
		sizeStr := fmt.Sprintf("%dx%d", m.width, m.height)
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(colorYellow).
			Render(lipgloss.JoinVertical(lipgloss.Center,
				"Terminal too small",
				lipgloss.NewStyle().Foreground(colorDim).Render(
					"Need 80x24, have "+lipgloss.NewStyle().Bold(true).Render(sizeStr),
				),
			))
	}

	layout := computeLayout(m.width, m.height, m.showThink())

	header := renderHeader(m.runActive, m.snap.Paused, m.snap.Completed, m.snap.Metrics, m.width)

	flow := renderPanel("Agent Flow",
		renderFlow(m.sim.Positions(), m.snap.Agents, m.snap.Edge, layout.mainWidth-2, layout.flowHeight-3),
		layout.mainWidth, layout.flowHeight)

	var mainParts []string
	mainParts = append(mainParts, flow)

	if layout.thinkHeight > 0 {
		think := renderPanel("Reasoning",
			renderThinking(m.spin, m.snap.Thinking, m.snap.Thought, layout.mainWidth-2, layout.thinkHeight-3),
			layout.mainWidth, layout.thinkHeight)
		mainParts = append(mainParts, think)
	}

	logs := renderPanel("Log", m.logView.View(), layout.mainWidth, layout.logHeight)
	mainParts = append(mainParts, logs)

	main := lipgloss.JoinVertical(lipgloss.Left, mainParts...)

	sidebar := renderPanel("",
		renderSidebar(m.snap.Metrics, m.snap.Tasks, layout.sidebarWidth-2, layout.contentHeight-2),
		layout.sidebarWidth, layout.contentHeight)

	body := lipgloss.JoinHorizontal(lipgloss.Top, main, sidebar)

	inputLine := "  " + m.input.View()

	statusBar := renderStatusBar(&m, m.width)

	view := lipgloss.JoinVertical(lipgloss.Left, header, body, inputLine, statusBar)

	if m.showHelp {
		view = renderOverlay(view, renderHelp(m.width), m.width, m.height)
	}

	return view
}

// renderPanel frames content in a rounded border, with an optional title on
// the first inner line. w and h are outer dimensions.
func renderPanel(title, content string, w, h int) string {
	innerW := w - 2
	innerH := h - 2
	if innerW < 1 {
		innerW = 1
	}
	if innerH < 1 {
		innerH = 1
	}

	body := content
	if title != "" {
		body = panelTitleStyle.Render(title)
		if content != "" {
			body += "\n" + content
		}
	}

	return panelStyle.
		Width(innerW).
		Height(innerH).
		Render(truncateContent(body, innerW, innerH))
}

// truncateContent ensures content fits within the given dimensions.
func truncateContent(content string, width, height int) string {
	lines := strings.Split(content, "\n")

	// Limit to height
	if len(lines) > height {
		lines = lines[:height]
	}

	// Truncate long lines (ANSI-aware)
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}

	return strings.Join(lines, "\n")
}
