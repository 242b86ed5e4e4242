// Package session owns the runtime state reconstructed from orchestrator
// output: the bounded log, per-agent activity, the active communication
// edge, metrics, and the current plan. A Session is single-consumer: the
// render loop drains the runner queues and applies everything here on one
// goroutine, then hands read-only snapshots to the views.
package session

import (
	"github.com/swarmdeck/swarmdeck/internal/event"
	"github.com/swarmdeck/swarmdeck/internal/models"
	"github.com/swarmdeck/swarmdeck/internal/protocol"
)

// DefaultMaxLogEntries bounds the log when settings carry no value.
const DefaultMaxLogEntries = 500

// maxMessages bounds the structured-message log for the messages panel.
const maxMessages = 200

// Edge is the single active communication link between two agents.
type Edge struct {
	From models.Agent
	To   models.Agent
}

// Session accumulates derived state from classified log entries and decoded
// protocol messages. Not safe for concurrent use; it belongs to the
// consuming loop.
type Session struct {
	maxLog int

	logs     []models.LogEntry
	agents   map[models.Agent]models.AgentState
	edge     *Edge
	think    event.ThinkAggregator
	metrics  models.Metrics
	tasks    []models.Task
	messages []protocol.Message

	paused    bool
	completed bool
}

// New creates an empty session. maxLog <= 0 selects the default bound.
func New(maxLog int) *Session {
	if maxLog <= 0 {
		maxLog = DefaultMaxLogEntries
	}
	s := &Session{
		maxLog: maxLog,
		agents: make(map[models.Agent]models.AgentState, len(models.Agents())),
	}
	for _, a := range models.Agents() {
		s.agents[a] = models.AgentIdle
	}
	return s
}

// Apply runs one classified entry through the ingestion pipeline: think
// aggregation first (absorbed lines skip everything else), then agent
// events, metrics, plan, and finally the log itself.
func (s *Session) Apply(entry models.LogEntry) {
	if thought, absorbed := s.think.Absorb(entry.Message); absorbed {
		if thought != nil {
			s.appendLog(*thought)
		}
		return
	}

	for _, ev := range event.MatchAgentEvents(entry.Message) {
		s.applyAgentEvent(ev)
	}

	if payload, ok := event.MetricsPayload(entry.Message); ok {
		s.metrics.UpdateFromJSON(payload)
	}

	if payload, ok := event.PlanPayload(entry.Message); ok {
		if tasks, ok := event.ParseTaskList(payload); ok {
			s.tasks = tasks
		}
	}

	s.appendLog(entry)
}

// ApplyMessage records one decoded protocol message, oldest evicted first.
func (s *Session) ApplyMessage(msg protocol.Message) {
	s.messages = append(s.messages, msg)
	if len(s.messages) > maxMessages {
		s.messages = s.messages[len(s.messages)-maxMessages:]
	}
}

// ReplaceTasks swaps in a task list delivered outside the stdout protocol
// (the plan file watcher). Same wholesale-replace semantics as [PLAN] lines.
func (s *Session) ReplaceTasks(tasks []models.Task) {
	s.tasks = tasks
}

// AddLog appends a supervisor-originated entry (start/stop notices) without
// running it through the parsing pipeline.
func (s *Session) AddLog(entry models.LogEntry) {
	s.appendLog(entry)
}

func (s *Session) appendLog(entry models.LogEntry) {
	s.logs = append(s.logs, entry)
	if len(s.logs) > s.maxLog {
		s.logs = s.logs[len(s.logs)-s.maxLog:]
	}
}

// applyAgentEvent updates agent states and the active edge. Activating an
// agent forces every other agent idle; its inbound pipeline edge becomes the
// active one (none for the pipeline head). Ending an agent idles just that
// agent. Completion idles everyone and clears the edge.
func (s *Session) applyAgentEvent(ev event.AgentEvent) {
	switch ev.Kind {
	case event.AgentStart:
		for a := range s.agents {
			s.agents[a] = models.AgentIdle
		}
		s.agents[ev.Agent] = models.AgentActive
		if pred, ok := ev.Agent.Predecessor(); ok {
			s.edge = &Edge{From: pred, To: ev.Agent}
		} else {
			s.edge = nil
		}

	case event.AgentEnd:
		s.agents[ev.Agent] = models.AgentIdle

	case event.RunComplete:
		for a := range s.agents {
			s.agents[a] = models.AgentIdle
		}
		s.edge = nil
		s.completed = true
	}
}

// Reset clears everything for a new run. This is the only place metrics
// reset.
func (s *Session) Reset() {
	s.logs = nil
	s.tasks = nil
	s.messages = nil
	s.edge = nil
	s.metrics = models.Metrics{}
	s.think.Reset()
	s.completed = false
	for a := range s.agents {
		s.agents[a] = models.AgentIdle
	}
}

// SetPaused toggles display pausing. Ingestion is unaffected; the consumer
// simply stops draining while paused, and the unbounded queues hold the
// backlog.
func (s *Session) SetPaused(v bool) {
	s.paused = v
}

// Paused reports whether display updates are paused.
func (s *Session) Paused() bool {
	return s.paused
}

// Completed reports whether the completion promise was seen since the last
// Reset.
func (s *Session) Completed() bool {
	return s.completed
}

// Thinking reports whether a reasoning block is currently open.
func (s *Session) Thinking() bool {
	return s.think.Thinking()
}

// Thought returns the reasoning transcript accumulated so far.
func (s *Session) Thought() string {
	return s.think.Current()
}

// Metrics returns the current counters.
func (s *Session) Metrics() models.Metrics {
	return s.metrics
}

// Snapshot is the read-only view handed to the renderer once per tick.
type Snapshot struct {
	Logs      []models.LogEntry
	Agents    map[models.Agent]models.AgentState
	Edge      *Edge
	Thinking  bool
	Thought   string
	Metrics   models.Metrics
	Tasks     []models.Task
	Messages  []protocol.Message
	Paused    bool
	Completed bool
}

// Snapshot copies the current state. The returned value shares nothing
// mutable with the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Logs:      make([]models.LogEntry, len(s.logs)),
		Agents:    make(map[models.Agent]models.AgentState, len(s.agents)),
		Thinking:  s.think.Thinking(),
		Thought:   s.think.Current(),
		Metrics:   s.metrics,
		Tasks:     make([]models.Task, len(s.tasks)),
		Messages:  make([]protocol.Message, len(s.messages)),
		Paused:    s.paused,
		Completed: s.completed,
	}
	copy(snap.Logs, s.logs)
	copy(snap.Tasks, s.tasks)
	copy(snap.Messages, s.messages)
	for a, st := range s.agents {
		snap.Agents[a] = st
	}
	if s.edge != nil {
		e := *s.edge
		snap.Edge = &e
	}
	return snap
}
