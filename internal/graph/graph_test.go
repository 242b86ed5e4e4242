package graph

import (
	"math"
	"testing"

	"github.com/swarmdeck/swarmdeck/internal/models"
)

func TestNewSeedsAllAgents(t *testing.T) {
	s := New(Vec{100, 100}, DefaultConfig())

	for _, a := range models.Agents() {
		n := s.Node(a)
		if n == nil {
			t.Fatalf("node for %s missing", a)
		}
		if n.Mass != 1.0 {
			t.Errorf("mass for %s = %v, want 1.0", a, n.Mass)
		}
		// Jitter keeps the node within 10 units of center per axis.
		if n.Pos.X < 100 || n.Pos.X > 110 || n.Pos.Y < 100 || n.Pos.Y > 110 {
			t.Errorf("seed position for %s = %+v, want within jitter of center", a, n.Pos)
		}
	}

	if got := len(s.Positions()); got != len(models.Agents()) {
		t.Errorf("Positions has %d entries, want %d", got, len(models.Agents()))
	}
}

func TestRepulsionIncreasesSeparation(t *testing.T) {
	s := New(Vec{0, 0}, DefaultConfig())

	// Place two nodes close together, park the rest far away so their
	// influence on the pair is negligible.
	a, b := models.AgentEngineer, models.AgentDesigner
	s.Node(a).Pos = Vec{-1, 0}
	s.Node(a).Vel = Vec{}
	s.Node(b).Pos = Vec{1, 0}
	s.Node(b).Vel = Vec{}
	far := 10000.0
	for _, other := range models.Agents() {
		if other == a || other == b {
			continue
		}
		s.Node(other).Pos = Vec{far, far}
		s.Node(other).Vel = Vec{}
		far += 10000
	}

	before := s.Node(a).Pos.Sub(s.Node(b).Pos).Len()
	s.Step(0.016)
	after := s.Node(a).Pos.Sub(s.Node(b).Pos).Len()

	if after <= before {
		t.Errorf("separation after step = %v, want > %v", after, before)
	}
}

func TestSpringPullsEndpointsTogether(t *testing.T) {
	cfg := DefaultConfig()
	s := New(Vec{0, 0}, cfg)

	from, to := models.AgentOrchestrator, models.AgentEngineer
	// Farther apart than the ideal length, so the spring contracts.
	s.Node(from).Pos = Vec{-300, 0}
	s.Node(from).Vel = Vec{}
	s.Node(to).Pos = Vec{300, 0}
	s.Node(to).Vel = Vec{}
	far := 50000.0
	for _, other := range models.Agents() {
		if other == from || other == to {
			continue
		}
		s.Node(other).Pos = Vec{far, far}
		s.Node(other).Vel = Vec{}
		far += 50000
	}

	s.SetEdge(from, to)
	before := s.Node(from).Pos.Sub(s.Node(to).Pos).Len()
	for i := 0; i < 10; i++ {
		s.Step(0.016)
	}
	after := s.Node(from).Pos.Sub(s.Node(to).Pos).Len()

	if after >= before {
		t.Errorf("edge endpoints separation = %v after steps, want < %v", after, before)
	}
}

func TestCenteringPullsLoneClusterBack(t *testing.T) {
	s := New(Vec{0, 0}, DefaultConfig())

	// Spread every node far from center in the same direction; repulsion
	// between them cannot cancel the shared centering pull.
	for i, a := range models.Agents() {
		s.Node(a).Pos = Vec{1000 + float64(i)*200, 1000 + float64(i)*200}
		s.Node(a).Vel = Vec{}
	}

	avgBefore := averageDistance(s)
	for i := 0; i < 50; i++ {
		s.Step(0.05)
	}
	avgAfter := averageDistance(s)

	if avgAfter >= avgBefore {
		t.Errorf("average distance from center = %v after steps, want < %v", avgAfter, avgBefore)
	}
}

func averageDistance(s *Sim) float64 {
	var sum float64
	for _, a := range models.Agents() {
		sum += s.Node(a).Pos.Len()
	}
	return sum / float64(len(models.Agents()))
}

func TestSetCenterMovesAttraction(t *testing.T) {
	s := New(Vec{0, 0}, DefaultConfig())
	target := Vec{1000, 1000}

	s.SetCenter(target)
	avgBefore := averageDistanceTo(s, target)
	for i := 0; i < 50; i++ {
		s.Step(0.05)
	}
	avgAfter := averageDistanceTo(s, target)

	if avgAfter >= avgBefore {
		t.Errorf("average distance to moved center = %v after steps, want < %v", avgAfter, avgBefore)
	}
}

func averageDistanceTo(s *Sim, c Vec) float64 {
	var sum float64
	for _, a := range models.Agents() {
		sum += s.Node(a).Pos.Sub(c).Len()
	}
	return sum / float64(len(models.Agents()))
}

func TestStepClampsDT(t *testing.T) {
	sA := New(Vec{0, 0}, DefaultConfig())
	sB := New(Vec{0, 0}, DefaultConfig())
	for _, a := range models.Agents() {
		p := sA.Node(a).Pos
		sB.Node(a).Pos = p
		sB.Node(a).Vel = sA.Node(a).Vel
	}

	sA.Step(0.1)
	sB.Step(5.0) // frame hitch; must behave like a 0.1s step

	for _, a := range models.Agents() {
		pa, pb := sA.Node(a).Pos, sB.Node(a).Pos
		if math.Abs(pa.X-pb.X) > 1e-9 || math.Abs(pa.Y-pb.Y) > 1e-9 {
			t.Errorf("node %s diverged under clamped dt: %+v vs %+v", a, pa, pb)
		}
	}
}

func TestStepIgnoresNonPositiveDT(t *testing.T) {
	s := New(Vec{0, 0}, DefaultConfig())
	before := s.Positions()

	s.Step(0)
	s.Step(-1)

	for a, p := range s.Positions() {
		if p != before[a] {
			t.Errorf("node %s moved on dt<=0: %+v -> %+v", a, before[a], p)
		}
	}
}

func TestSetEdgeAndClear(t *testing.T) {
	s := New(Vec{0, 0}, DefaultConfig())

	s.SetEdge(models.AgentEngineer, models.AgentDesigner)
	e := s.Edge()
	if e == nil || e.From != models.AgentEngineer || e.To != models.AgentDesigner {
		t.Fatalf("Edge() = %+v, want engineer->designer", e)
	}

	s.SetEdge("", "")
	if s.Edge() != nil {
		t.Error("Edge() after clear is non-nil")
	}
}

func TestResetReseedsAndDropsEdge(t *testing.T) {
	s := New(Vec{50, 50}, DefaultConfig())
	s.SetEdge(models.AgentTranslator, models.AgentOrchestrator)
	s.Node(models.AgentAsic).Pos = Vec{9999, 9999}

	s.Reset()

	if s.Edge() != nil {
		t.Error("edge survived Reset")
	}
	p := s.Node(models.AgentAsic).Pos
	if p.X < 50 || p.X > 60 || p.Y < 50 || p.Y > 60 {
		t.Errorf("Reset did not reseed node near center: %+v", p)
	}
}

func TestConfigFromSettings(t *testing.T) {
	got := ConfigFromSettings(models.GraphConfig{Repulsion: 2000, Attraction: 0.1, Damping: 0.9, IdealLength: 80})
	if got.Repulsion != 2000 || got.Attraction != 0.1 || got.Damping != 0.9 || got.IdealLength != 80 {
		t.Errorf("ConfigFromSettings = %+v, want explicit values", got)
	}

	// A zero value (settings file predating the graph section) falls back
	// to the stock constants.
	if got := ConfigFromSettings(models.GraphConfig{}); got != DefaultConfig() {
		t.Errorf("zero settings = %+v, want defaults", got)
	}
}
