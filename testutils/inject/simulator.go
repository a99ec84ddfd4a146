// Package inject provides function-field simulator stubs for testing. Any
// field left nil falls through to the embedded value.
package inject

import (
	"context"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/scenedata/simulator"
)

// Simulator is an injected simulator.
type Simulator struct {
	simulator.Simulator
	ReconfigureFunc        func(ctx context.Context, cfg simulator.Config) error
	AgentFunc              func(idx int) (simulator.Agent, error)
	SensorObservationsFunc func(ctx context.Context) (simulator.Observations, error)
	PathFinderFunc         func() simulator.PathFinder
	SemanticSceneFunc      func() *simulator.SemanticScene
	CloseFunc              func(ctx context.Context) error
}

// Reconfigure calls the injected Reconfigure or the real version.
func (s *Simulator) Reconfigure(ctx context.Context, cfg simulator.Config) error {
	if s.ReconfigureFunc == nil {
		return s.Simulator.Reconfigure(ctx, cfg)
	}
	return s.ReconfigureFunc(ctx, cfg)
}

// Agent calls the injected Agent or the real version.
func (s *Simulator) Agent(idx int) (simulator.Agent, error) {
	if s.AgentFunc == nil {
		return s.Simulator.Agent(idx)
	}
	return s.AgentFunc(idx)
}

// SensorObservations calls the injected SensorObservations or the real version.
func (s *Simulator) SensorObservations(ctx context.Context) (simulator.Observations, error) {
	if s.SensorObservationsFunc == nil {
		return s.Simulator.SensorObservations(ctx)
	}
	return s.SensorObservationsFunc(ctx)
}

// PathFinder calls the injected PathFinder or the real version.
func (s *Simulator) PathFinder() simulator.PathFinder {
	if s.PathFinderFunc == nil {
		return s.Simulator.PathFinder()
	}
	return s.PathFinderFunc()
}

// SemanticScene calls the injected SemanticScene or the real version.
func (s *Simulator) SemanticScene() *simulator.SemanticScene {
	if s.SemanticSceneFunc == nil {
		return s.Simulator.SemanticScene()
	}
	return s.SemanticSceneFunc()
}

// Close calls the injected Close or the real version.
func (s *Simulator) Close(ctx context.Context) error {
	if s.CloseFunc == nil {
		return s.Simulator.Close(ctx)
	}
	return s.CloseFunc(ctx)
}

// PathFinder is an injected path-finder.
type PathFinder struct {
	simulator.PathFinder
	BoundsFunc               func() (r3.Vector, r3.Vector)
	RandomNavigablePointFunc func() r3.Vector
	TopdownViewFunc          func(pixelsPerMeter, height float64) *mat.Dense
}

// Bounds calls the injected Bounds or the real version.
func (pf *PathFinder) Bounds() (r3.Vector, r3.Vector) {
	if pf.BoundsFunc == nil {
		return pf.PathFinder.Bounds()
	}
	return pf.BoundsFunc()
}

// RandomNavigablePoint calls the injected RandomNavigablePoint or the real version.
func (pf *PathFinder) RandomNavigablePoint() r3.Vector {
	if pf.RandomNavigablePointFunc == nil {
		return pf.PathFinder.RandomNavigablePoint()
	}
	return pf.RandomNavigablePointFunc()
}

// TopdownView calls the injected TopdownView or the real version.
func (pf *PathFinder) TopdownView(pixelsPerMeter, height float64) *mat.Dense {
	if pf.TopdownViewFunc == nil {
		return pf.PathFinder.TopdownView(pixelsPerMeter, height)
	}
	return pf.TopdownViewFunc(pixelsPerMeter, height)
}

// Agent is an injected agent.
type Agent struct {
	simulator.Agent
	StateFunc    func() simulator.AgentState
	SetStateFunc func(state simulator.AgentState) error
}

// State calls the injected State or the real version.
func (a *Agent) State() simulator.AgentState {
	if a.StateFunc == nil {
		return a.Agent.State()
	}
	return a.StateFunc()
}

// SetState calls the injected SetState or the real version.
func (a *Agent) SetState(state simulator.AgentState) error {
	if a.SetStateFunc == nil {
		return a.Agent.SetState(state)
	}
	return a.SetStateFunc(state)
}
