// Package graph runs the force-directed layout simulation for the agent
// flow view. It positions the fixed five-node agent set with pairwise
// repulsion, a centering pull, and a spring along the active communication
// edge. The simulation is purely cosmetic: it reads agent-activity state and
// never feeds anything back into parsing or process control.
package graph

import (
	"math"
	"math/rand"

	"github.com/swarmdeck/swarmdeck/internal/models"
)

// maxStepDT bounds a single integration step so frame hitches cannot fling
// nodes off screen.
const maxStepDT = 0.1

// distFloor is the minimum squared distance used in the repulsion term,
// keeping the force finite when nodes overlap.
const distFloor = 100.0

// centerPull is the proportional constant of the centering force.
const centerPull = 0.01

// Vec is a 2D vector.
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v scaled by s.
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }

// Len returns the vector length.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// LenSq returns the squared length.
func (v Vec) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

// Normalized returns the unit vector in v's direction, or the zero vector
// when v has no length.
func (v Vec) Normalized() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{v.X / l, v.Y / l}
}

// Node is one agent's point mass in the simulation.
type Node struct {
	Agent models.Agent
	Pos   Vec
	Vel   Vec
	Mass  float64
}

// Edge is the active communication link between two agents. There is at most
// one at a time; it is derived state, not persisted data.
type Edge struct {
	From models.Agent
	To   models.Agent
}

// Config holds the simulation constants.
type Config struct {
	Repulsion   float64
	Attraction  float64
	Damping     float64
	IdealLength float64
}

// DefaultConfig returns the stock constants.
func DefaultConfig() Config {
	return Config{
		Repulsion:   1500.0,
		Attraction:  0.05,
		Damping:     0.95,
		IdealLength: 120.0,
	}
}

// ConfigFromSettings maps the persisted graph settings onto a Config.
func ConfigFromSettings(g models.GraphConfig) Config {
	cfg := Config{
		Repulsion:   g.Repulsion,
		Attraction:  g.Attraction,
		Damping:     g.Damping,
		IdealLength: g.IdealLength,
	}
	if cfg.Repulsion == 0 && cfg.Attraction == 0 && cfg.Damping == 0 && cfg.IdealLength == 0 {
		return DefaultConfig()
	}
	return cfg
}

// Sim is the force-directed layout simulation. The node set is fixed at
// construction: one node per agent, jittered around the center so the
// repulsion term has a direction to work with.
type Sim struct {
	nodes  map[models.Agent]*Node
	order  []models.Agent
	edge   *Edge
	center Vec
	cfg    Config
}

// New creates a simulation centered on the given point.
func New(center Vec, cfg Config) *Sim {
	s := &Sim{
		nodes:  make(map[models.Agent]*Node),
		order:  models.Agents(),
		center: center,
		cfg:    cfg,
	}
	s.seed()
	return s
}

// seed places every node near the center with small random jitter.
func (s *Sim) seed() {
	for _, a := range s.order {
		s.nodes[a] = &Node{
			Agent: a,
			Pos:   s.center.Add(Vec{rand.Float64() * 10, rand.Float64() * 10}),
			Mass:  1.0,
		}
	}
}

// Reset re-seeds all nodes around the center and drops the active edge.
// Called when a new run starts.
func (s *Sim) Reset() {
	s.edge = nil
	s.seed()
}

// SetCenter moves the attraction point, typically to the middle of the panel
// the graph is drawn into.
func (s *Sim) SetCenter(c Vec) {
	s.center = c
}

// SetEdge sets the single active edge, or clears it when from/to is empty.
func (s *Sim) SetEdge(from, to models.Agent) {
	if from == "" || to == "" {
		s.edge = nil
		return
	}
	s.edge = &Edge{From: from, To: to}
}

// Edge returns the active edge, or nil.
func (s *Sim) Edge() *Edge {
	return s.edge
}

// Node returns the node for an agent. The node set is fixed, so the lookup
// always succeeds for a valid agent.
func (s *Sim) Node(a models.Agent) *Node {
	return s.nodes[a]
}

// Positions returns a copy of every node's position, keyed by agent.
func (s *Sim) Positions() map[models.Agent]Vec {
	out := make(map[models.Agent]Vec, len(s.nodes))
	for a, n := range s.nodes {
		out[a] = n.Pos
	}
	return out
}

// Step advances the simulation by dt seconds, clamped to keep large frame
// gaps from destabilizing the integration. Forces are accumulated per node,
// then integrated with semi-implicit Euler. There is no collision handling;
// transient overlap settles on its own.
func (s *Sim) Step(dt float64) {
	if dt <= 0 {
		return
	}
	if dt > maxStepDT {
		dt = maxStepDT
	}

	forces := make(map[models.Agent]Vec, len(s.order))

	// Pairwise repulsion.
	for i := 0; i < len(s.order); i++ {
		for j := i + 1; j < len(s.order); j++ {
			a, b := s.order[i], s.order[j]
			diff := s.nodes[a].Pos.Sub(s.nodes[b].Pos)
			distSq := math.Max(diff.LenSq(), distFloor)
			f := diff.Normalized().Scale(s.cfg.Repulsion / distSq)
			forces[a] = forces[a].Add(f)
			forces[b] = forces[b].Sub(f)
		}
	}

	// Pull toward center.
	for _, a := range s.order {
		diff := s.center.Sub(s.nodes[a].Pos)
		forces[a] = forces[a].Add(diff.Scale(centerPull))
	}

	// Spring along the active edge.
	if s.edge != nil {
		from, to := s.nodes[s.edge.From], s.nodes[s.edge.To]
		diff := to.Pos.Sub(from.Pos)
		dist := diff.Len()
		f := diff.Normalized().Scale((dist - s.cfg.IdealLength) * s.cfg.Attraction)
		forces[s.edge.From] = forces[s.edge.From].Add(f)
		forces[s.edge.To] = forces[s.edge.To].Sub(f)
	}

	// Semi-implicit Euler with velocity damping.
	for _, a := range s.order {
		n := s.nodes[a]
		accel := forces[a].Scale(1 / n.Mass)
		n.Vel = n.Vel.Add(accel.Scale(dt)).Scale(s.cfg.Damping)
		n.Pos = n.Pos.Add(n.Vel.Scale(dt))
	}
}
