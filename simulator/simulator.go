// Package simulator defines the call contract this module expects from an
// external 3D simulation engine: scene (re)configuration, a single agent with
// settable pose state, sensor observation rendering, navigation-mesh queries,
// and a semantic scene description. The engine itself (rendering, physics,
// path-finding) lives behind these interfaces; this module only orchestrates
// calls into it.
package simulator

import (
	"context"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// AgentState is the settable pose of an embodied agent: a world-frame position
// in meters and a unit quaternion rotation.
type AgentState struct {
	Position r3.Vector
	Rotation quat.Number
}

// Agent is one embodied agent inside the engine.
type Agent interface {
	// State returns the agent's current pose.
	State() AgentState

	// SetState moves the agent to the given pose. Sensors are mounted
	// relative to this pose per the agent's sensor specs.
	SetState(state AgentState) error
}

// Simulator is a live engine instance. All blocking calls take a context; the
// engine owns native resources released by Close, after which every method
// must fail rather than touch freed state.
type Simulator interface {
	// Reconfigure tears down the currently loaded scene and loads the one
	// named by cfg. The agent roster is rebuilt from cfg.
	Reconfigure(ctx context.Context, cfg Config) error

	// Agent returns the agent at the given index.
	Agent(idx int) (Agent, error)

	// SensorObservations renders and returns one observation per configured
	// sensor, keyed by sensor UUID.
	SensorObservations(ctx context.Context) (Observations, error)

	// PathFinder returns the navigation-mesh query interface for the loaded scene.
	PathFinder() PathFinder

	// SemanticScene returns the loaded scene's semantic description, or nil
	// if the scene carries no semantic annotations.
	SemanticScene() *SemanticScene

	// Close releases the engine's native resources.
	Close(ctx context.Context) error
}

// PathFinder exposes navigation-mesh queries for the currently loaded scene.
type PathFinder interface {
	// Bounds returns two opposite corner points of the navigable
	// axis-aligned bounding box.
	Bounds() (r3.Vector, r3.Vector)

	// RandomNavigablePoint samples one point on the navigation mesh.
	RandomNavigablePoint() r3.Vector

	// TopdownView rasterizes the navigable area at the given elevation into
	// a free-space grid. Each pixel covers pixelsPerMeter × pixelsPerMeter
	// meters (0.1 means one pixel per 10cm cell); pixel (0,0) corresponds to
	// the minimum-x, minimum-z navigable bound. Navigable cells are 1,
	// everything else 0.
	TopdownView(pixelsPerMeter, height float64) *mat.Dense
}
