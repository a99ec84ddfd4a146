// Package fake implements an in-memory simulation engine with one rectangular
// navigable room per scene. Scene geometry, semantic annotations and rendered
// observations are all derived deterministically from the scene path and a
// caller-provided seed, which makes it suitable for tests and for exercising
// the extraction pipeline without a native engine build.
package fake

import (
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"math"
	"math/rand"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/scenedata/simulator"
)

// wallMargin keeps navigable space away from the room walls.
const wallMargin = 0.5

var categoryNames = []string{"wall", "floor", "ceiling", "chair", "table", "door", "sofa"}

// Simulator is a fake engine instance.
type Simulator struct {
	mu     sync.Mutex
	seed   int64
	cfg    simulator.Config
	agents []*agent
	pf     *pathFinder
	scene  *simulator.SemanticScene
	closed bool
}

// NewSimulator returns a fake engine configured onto cfg's scene. The seed
// fixes all randomness: two simulators built with the same seed render
// identical observations for identical agent states.
func NewSimulator(cfg simulator.Config, seed int64) (*Simulator, error) {
	sim := &Simulator{seed: seed}
	if err := sim.Reconfigure(context.Background(), cfg); err != nil {
		return nil, err
	}
	return sim, nil
}

// Reconfigure loads the scene named by cfg and rebuilds the agent roster.
func (s *Simulator) Reconfigure(ctx context.Context, cfg simulator.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("simulator closed")
	}
	if cfg.ScenePath == "" {
		return errors.New("configuration has no scene path")
	}
	agentConfigs := cfg.Agents
	if len(agentConfigs) == 0 {
		agentConfigs = []simulator.AgentConfig{{}}
	}
	room := roomFromScene(cfg.ScenePath)
	agents := make([]*agent, 0, len(agentConfigs))
	for _, ac := range agentConfigs {
		agents = append(agents, &agent{
			specs: ac.SensorSpecs,
			state: simulator.AgentState{
				Position: r3.Vector{X: room.centerX(), Y: room.floorY, Z: room.centerZ()},
			},
		})
	}
	s.cfg = cfg
	s.agents = agents
	s.pf = &pathFinder{
		room: room,
		rnd:  rand.New(rand.NewSource(s.seed ^ int64(room.hash))),
	}
	s.scene = semanticSceneFromRoom(room)
	return nil
}

// Agent returns the agent at the given index.
func (s *Simulator) Agent(idx int) (simulator.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errors.New("simulator closed")
	}
	if idx < 0 || idx >= len(s.agents) {
		return nil, errors.Errorf("no agent at index %d", idx)
	}
	return s.agents[idx], nil
}

// SensorObservations renders one observation per sensor spec across all
// agents, keyed by sensor UUID.
func (s *Simulator) SensorObservations(ctx context.Context) (simulator.Observations, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errors.New("simulator closed")
	}
	obs := simulator.Observations{}
	for _, a := range s.agents {
		for _, spec := range a.specs {
			rendered, err := s.render(spec, a.state)
			if err != nil {
				return nil, err
			}
			obs[spec.UUID] = rendered
		}
	}
	return obs, nil
}

// PathFinder returns the navigation queries for the loaded scene.
func (s *Simulator) PathFinder() simulator.PathFinder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pf
}

// SemanticScene returns the loaded scene's synthetic semantic description.
func (s *Simulator) SemanticScene() *simulator.SemanticScene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene
}

// Close releases the engine. Any call after Close errors.
func (s *Simulator) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("simulator already closed")
	}
	s.closed = true
	s.agents = nil
	s.pf = nil
	s.scene = nil
	return nil
}

func (s *Simulator) render(spec simulator.SensorSpec, state simulator.AgentState) (simulator.Observation, error) {
	h, w := spec.Resolution.Height, spec.Resolution.Width
	if h <= 0 || w <= 0 {
		return nil, errors.Errorf("sensor %q has invalid resolution %dx%d", spec.UUID, h, w)
	}
	rnd := rand.New(rand.NewSource(s.renderSeed(spec.UUID, state)))
	switch spec.Type {
	case simulator.SensorTypeColor:
		frame := image.NewNRGBA(image.Rect(0, 0, w, h))
		for i := 0; i < len(frame.Pix); i += 4 {
			frame.Pix[i] = uint8(rnd.Intn(256))
			frame.Pix[i+1] = uint8(rnd.Intn(256))
			frame.Pix[i+2] = uint8(rnd.Intn(256))
			frame.Pix[i+3] = 255
		}
		return &simulator.ColorObservation{Frame: frame}, nil
	case simulator.SensorTypeDepth:
		depth := mat.NewDense(h, w, nil)
		base := 1.0 + rnd.Float64()
		for r := 0; r < h; r++ {
			for c := 0; c < w; c++ {
				dr := float64(r)/float64(h) - 0.5
				dc := float64(c)/float64(w) - 0.5
				depth.Set(r, c, base+4*math.Hypot(dr, dc))
			}
		}
		return &simulator.DepthObservation{Depth: depth}, nil
	case simulator.SensorTypeSemantic:
		numObjs := len(s.scene.Objects)
		block := 1 + h/8
		ids := make([][]int, h)
		for r := range ids {
			ids[r] = make([]int, w)
			for c := range ids[r] {
				ids[r][c] = (r/block + c/block) % numObjs
			}
		}
		return &simulator.SemanticObservation{Instances: ids}, nil
	default:
		return nil, errors.Errorf("sensor %q has unknown type %d", spec.UUID, spec.Type)
	}
}

func (s *Simulator) renderSeed(uuid string, state simulator.AgentState) int64 {
	hash := fnv.New64a()
	//nolint:errcheck
	hash.Write([]byte(s.cfg.ScenePath))
	//nolint:errcheck
	hash.Write([]byte(uuid))
	// Quantize to millimeters so equal poses hash equal.
	for _, v := range []float64{state.Position.X, state.Position.Y, state.Position.Z, state.Rotation.Real, state.Rotation.Jmag} {
		q := int64(math.Round(v * 1000))
		var buf [8]byte
		for i := range buf {
			buf[i] = byte(q >> (8 * i))
		}
		//nolint:errcheck
		hash.Write(buf[:])
	}
	return s.seed ^ int64(hash.Sum64())
}

type agent struct {
	mu    sync.Mutex
	specs []simulator.SensorSpec
	state simulator.AgentState
}

func (a *agent) State() simulator.AgentState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *agent) SetState(state simulator.AgentState) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = state
	return nil
}

// room is one rectangular navigable area, derived from the scene path so that
// distinct scenes get distinct but stable geometry.
type room struct {
	hash   uint64
	minX   float64
	minZ   float64
	width  float64
	depth  float64
	floorY float64
}

func roomFromScene(scenePath string) room {
	hash := fnv.New64a()
	//nolint:errcheck
	hash.Write([]byte(scenePath))
	h := hash.Sum64()
	width := 6 + float64(h%6)
	depth := 5 + float64((h>>3)%6)
	return room{
		hash:   h,
		minX:   -width / 2,
		minZ:   -depth / 2,
		width:  width,
		depth:  depth,
		floorY: 0.1 * float64((h>>6)%5),
	}
}

func (rm room) centerX() float64 { return rm.minX + rm.width/2 }
func (rm room) centerZ() float64 { return rm.minZ + rm.depth/2 }

type pathFinder struct {
	mu   sync.Mutex
	room room
	rnd  *rand.Rand
}

func (pf *pathFinder) Bounds() (r3.Vector, r3.Vector) {
	rm := pf.room
	return r3.Vector{X: rm.minX, Y: rm.floorY, Z: rm.minZ},
		r3.Vector{X: rm.minX + rm.width, Y: rm.floorY + 2.5, Z: rm.minZ + rm.depth}
}

func (pf *pathFinder) RandomNavigablePoint() r3.Vector {
	pf.mu.Lock()
	defer pf.mu.Unlock()
	rm := pf.room
	return r3.Vector{
		X: rm.minX + wallMargin + pf.rnd.Float64()*(rm.width-2*wallMargin),
		Y: rm.floorY,
		Z: rm.minZ + wallMargin + pf.rnd.Float64()*(rm.depth-2*wallMargin),
	}
}

func (pf *pathFinder) TopdownView(pixelsPerMeter, height float64) *mat.Dense {
	rm := pf.room
	rows := int(math.Ceil(rm.depth / pixelsPerMeter))
	cols := int(math.Ceil(rm.width / pixelsPerMeter))
	view := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			z := rm.minZ + (float64(r)+0.5)*pixelsPerMeter
			x := rm.minX + (float64(c)+0.5)*pixelsPerMeter
			navigable := x >= rm.minX+wallMargin && x <= rm.minX+rm.width-wallMargin &&
				z >= rm.minZ+wallMargin && z <= rm.minZ+rm.depth-wallMargin
			if navigable {
				view.Set(r, c, 1)
			}
		}
	}
	return view
}

func semanticSceneFromRoom(rm room) *simulator.SemanticScene {
	numObjs := 4 + int(rm.hash%4)
	objs := make([]*simulator.SemanticObject, 0, numObjs+1)
	for i := 0; i < numObjs; i++ {
		name := categoryNames[i%len(categoryNames)]
		objs = append(objs, &simulator.SemanticObject{
			ID:       fmt.Sprintf("%s_%d", name, i),
			Category: simulator.NewCategory(i%len(categoryNames), name),
		})
	}
	// One unannotated object, which label-map construction must skip.
	objs = append(objs, &simulator.SemanticObject{ID: fmt.Sprintf("clutter_%d", numObjs)})

	aabb := simulator.AxisAlignedBox{
		Center: r3.Vector{X: rm.centerX(), Y: rm.floorY + 1.25, Z: rm.centerZ()},
		Sizes:  r3.Vector{X: rm.width, Y: 2.5, Z: rm.depth},
	}
	return &simulator.SemanticScene{
		Levels:  []simulator.SemanticLevel{{ID: "0", AABB: aabb}},
		Regions: []simulator.SemanticRegion{{ID: "0_0", AABB: aabb}},
		Objects: objs,
		AABB:    aabb,
	}
}
