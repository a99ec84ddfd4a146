// Package extractor exposes rendered sensor observations over navigable space
// as an indexable dataset. It owns a single live simulator instance,
// precomputes per-scene top-down views and reference points at construction,
// obtains camera poses from a pose-extraction collaborator, splits them into
// train/test partitions, and renders observations on demand per indexed
// access. Everything is single-threaded and synchronous; the only cache is the
// current-scene pointer, which skips engine reconfiguration for consecutive
// same-scene accesses.
package extractor

import (
	"context"
	"math/rand"
	"os"
	"strings"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/scenedata/poses"
	"go.viam.com/scenedata/simulator"
	"go.viam.com/scenedata/topdown"
	"go.viam.com/scenedata/utils"
)

// DefaultSceneExtension is the scene asset extension collected when the
// configured scene path is a directory.
const DefaultSceneExtension = ".glb"

// Mode selects which partition indexed accesses resolve against.
type Mode string

// The valid dataset modes.
const (
	ModeFull  Mode = "full"
	ModeTrain Mode = "train"
	ModeTest  Mode = "test"
)

// ErrClosed is returned by any access attempted after Close.
var ErrClosed = errors.New("extractor closed; no further access is valid")

// Output names callers may request, and the sensors they map to.
var outputToSensor = map[string]string{
	"rgba":     simulator.ColorSensorName,
	"depth":    simulator.DepthSensorName,
	"semantic": simulator.SemanticSensorName,
}

// Sample maps a requested output name to that sensor's raw observation.
type Sample map[string]simulator.Observation

// Config configures dataset extraction.
type Config struct {
	// ScenePath names one scene asset file, or a directory searched
	// recursively for scene assets.
	ScenePath string
	// SceneExtension overrides DefaultSceneExtension for directory search.
	SceneExtension string
	// Labels is the numeric class label set handed to the pose extractor.
	// Defaults to {0}.
	Labels []float64
	// ImageSize is the observation resolution. Defaults to 512x512.
	ImageSize simulator.ImageSize
	// Outputs lists the output names indexed accesses return. Defaults to
	// {"rgba"}. Unknown names fail at access time.
	Outputs []string
	// Simulator, when set, is reconfigured and used instead of constructing
	// a new engine.
	Simulator simulator.Simulator
	// NewSimulator constructs an engine from a configuration. Required when
	// Simulator is nil.
	NewSimulator func(ctx context.Context, cfg simulator.Config) (simulator.Simulator, error)
	// NewPoseExtractor builds the pose-extraction collaborator from the
	// precomputed views, the live simulator and the raster resolution.
	// Defaults to a poses.GridExtractor.
	NewPoseExtractor func(views []*topdown.View, sim simulator.Simulator, pixelsPerMeter float64) poses.Extractor
	// Shuffle permutes the full pose collection once, before splitting.
	Shuffle bool
	// Rand is the shuffle source. Defaults to the shared math/rand source.
	Rand *rand.Rand
	// Split is the (train, test) percentage pair; it must sum to 100.
	// Defaults to (70, 30) when both are zero.
	Split [2]int
	// PixelsPerMeter is the top-down raster resolution (meters covered per
	// raster cell). Defaults to topdown.DefaultPixelsPerMeter.
	PixelsPerMeter float64
	// SensorHeight overrides the sensor mounting height; zero selects
	// simulator.DefaultSensorHeight.
	SensorHeight float64
	// GPUDeviceID selects the render device.
	GPUDeviceID int
	// Elevation overrides the per-scene reference elevation source; nil
	// selects topdown.RandomPointElevation.
	Elevation topdown.ElevationSource
}

// Validate checks the configuration and applies defaults in place.
func (c *Config) Validate() error {
	if c.ScenePath == "" {
		return errors.New("scene path must be set")
	}
	if c.Split == [2]int{} {
		c.Split = [2]int{70, 30}
	}
	if c.Split[0]+c.Split[1] != 100 {
		return errors.Errorf("train/test split must sum to 100, got (%d, %d)", c.Split[0], c.Split[1])
	}
	if c.Split[0] < 0 || c.Split[1] < 0 {
		return errors.Errorf("train/test split percentages must be non-negative, got (%d, %d)", c.Split[0], c.Split[1])
	}
	if c.Simulator == nil && c.NewSimulator == nil {
		return errors.New("either Simulator or NewSimulator must be set")
	}
	if c.SceneExtension == "" {
		c.SceneExtension = DefaultSceneExtension
	}
	if len(c.Labels) == 0 {
		c.Labels = []float64{0}
	}
	if c.ImageSize == (simulator.ImageSize{}) {
		c.ImageSize = simulator.ImageSize{Height: 512, Width: 512}
	}
	if len(c.Outputs) == 0 {
		c.Outputs = []string{"rgba"}
	}
	if c.PixelsPerMeter <= 0 {
		c.PixelsPerMeter = topdown.DefaultPixelsPerMeter
	}
	if c.SensorHeight == 0 {
		c.SensorHeight = simulator.DefaultSensorHeight
	}
	return nil
}

// Extractor is the dataset facade. It is not safe for concurrent use; index
// it from one goroutine at a time.
type Extractor struct {
	logger golog.Logger
	conf   Config

	sim        simulator.Simulator
	scenePaths []string
	curScene   string

	views    []*topdown.View
	poses    []poses.Pose
	train    []poses.Pose
	test     []poses.Pose
	mode     Mode
	labelMap map[int]string
	closed   bool
}

// New builds an extractor per the given configuration: resolves scene paths,
// constructs (or reconfigures) the engine, precomputes per-scene top-down
// views and reference points, extracts and optionally shuffles poses, splits
// them into train/test, and captures the semantic label map from the last
// scene visited.
func New(ctx context.Context, conf Config, logger golog.Logger) (*Extractor, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	scenePaths, curScene, err := locateScenes(conf.ScenePath, conf.SceneExtension)
	if err != nil {
		return nil, err
	}

	e := &Extractor{
		logger:     logger,
		conf:       conf,
		scenePaths: scenePaths,
		curScene:   curScene,
		mode:       ModeFull,
	}

	simCfg := e.sceneConfig(scenePaths[0])
	if conf.Simulator != nil {
		e.sim = conf.Simulator
		if err := e.sim.Reconfigure(ctx, simCfg); err != nil {
			return nil, errors.Wrap(err, "error reconfiguring provided simulator")
		}
	} else {
		sim, err := conf.NewSimulator(ctx, simCfg)
		if err != nil {
			return nil, errors.Wrap(err, "error constructing simulator")
		}
		e.sim = sim
	}

	if err := e.precomputeViews(ctx); err != nil {
		return nil, err
	}

	newPE := conf.NewPoseExtractor
	if newPE == nil {
		newPE = func(views []*topdown.View, _ simulator.Simulator, ppm float64) poses.Extractor {
			return poses.NewGridExtractor(views, ppm)
		}
	}
	e.poses, err = newPE(e.views, e.sim, conf.PixelsPerMeter).ExtractPoses(ctx, conf.Labels)
	if err != nil {
		return nil, errors.Wrap(err, "error extracting poses")
	}
	logger.Debugw("extracted poses", "count", len(e.poses), "scenes", len(scenePaths))

	if conf.Shuffle {
		shuffle := rand.Shuffle
		if conf.Rand != nil {
			shuffle = conf.Rand.Shuffle
		}
		shuffle(len(e.poses), func(i, j int) {
			e.poses[i], e.poses[j] = e.poses[j], e.poses[i]
		})
	}

	cut := conf.Split[0] * len(e.poses) / 100
	e.train = e.poses[:cut]
	e.test = e.poses[cut:]

	e.labelMap = buildLabelMap(e.sim.SemanticScene())
	return e, nil
}

// locateScenes resolves the configured path into an ordered scene list. The
// current-scene pointer starts set only for a single-file path; a directory
// input leaves it empty so the first access always reconfigures.
func locateScenes(path, ext string) ([]string, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if !info.IsDir() {
		return []string{path}, path, nil
	}
	found, err := utils.FindFilesWithExtension(path, ext)
	if err != nil {
		return nil, "", err
	}
	if len(found) == 0 {
		return nil, "", errors.Errorf("no %q scene files under %q", ext, path)
	}
	return found, "", nil
}

// sceneConfig builds the engine configuration for one scene.
func (e *Extractor) sceneConfig(scenePath string) simulator.Config {
	return simulator.MakeConfig(
		scenePath,
		e.conf.ImageSize,
		simulator.WithSensorHeight(e.conf.SensorHeight),
		simulator.WithGPUDeviceID(e.conf.GPUDeviceID),
	)
}

// precomputeViews visits every scene once, resolving its reference point and
// top-down view. The engine is left configured on the last scene.
func (e *Extractor) precomputeViews(ctx context.Context) error {
	for _, scenePath := range e.scenePaths {
		if err := e.sim.Reconfigure(ctx, e.sceneConfig(scenePath)); err != nil {
			return errors.Wrapf(err, "error reconfiguring simulator onto %q", scenePath)
		}
		pf := e.sim.PathFinder()
		ref := topdown.ReferencePoint(pf, e.conf.Elevation)
		e.views = append(e.views, topdown.NewView(pf, scenePath, ref, e.conf.PixelsPerMeter))
	}
	return nil
}

// Len returns the number of poses in the active partition.
func (e *Extractor) Len() int {
	return len(e.modeData())
}

// Get renders the sample at the given index of the active partition. The
// engine is reconfigured only when the pose's scene differs from the currently
// loaded one. The returned sample holds exactly the configured outputs.
func (e *Extractor) Get(ctx context.Context, idx int) (Sample, error) {
	if e.closed {
		return nil, ErrClosed
	}
	data := e.modeData()
	if idx < 0 || idx >= len(data) {
		return nil, errors.Errorf("index %d out of range for %q partition of length %d", idx, e.mode, len(data))
	}
	pose := data[idx]

	if pose.ScenePath != e.curScene {
		if err := e.sim.Reconfigure(ctx, e.sceneConfig(pose.ScenePath)); err != nil {
			return nil, errors.Wrapf(err, "error switching to scene %q", pose.ScenePath)
		}
		e.curScene = pose.ScenePath
	}

	agent, err := e.sim.Agent(0)
	if err != nil {
		return nil, err
	}
	if err := agent.SetState(simulator.AgentState{Position: pose.Position, Rotation: pose.Rotation}); err != nil {
		return nil, err
	}

	obs, err := e.sim.SensorObservations(ctx)
	if err != nil {
		return nil, err
	}
	sample := make(Sample, len(e.conf.Outputs))
	for _, out := range e.conf.Outputs {
		sensorName, ok := outputToSensor[out]
		if !ok {
			return nil, errors.Errorf("no sensor mapped to output name %q", out)
		}
		o, ok := obs[sensorName]
		if !ok {
			return nil, errors.Errorf("simulator returned no observation for sensor %q", sensorName)
		}
		sample[out] = o
	}
	return sample, nil
}

// GetSlice resolves [start, stop) at the given step through Get, skipping
// indices beyond the partition length rather than failing on them. stop < 0
// means the partition length; step < 1 is treated as 1.
func (e *Extractor) GetSlice(ctx context.Context, start, stop, step int) ([]Sample, error) {
	if e.closed {
		return nil, ErrClosed
	}
	n := len(e.modeData())
	if start < 0 {
		start = 0
	}
	if stop < 0 {
		stop = n
	}
	if step < 1 {
		step = 1
	}
	var samples []Sample
	for i := start; i < stop; i += step {
		if i >= n {
			continue
		}
		sample, err := e.Get(ctx, i)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

// SetMode selects which partition subsequent accesses resolve against. The
// mode string is case-insensitive; an invalid mode errors and leaves the
// prior mode unchanged. Nothing is reshuffled or recomputed.
func (e *Extractor) SetMode(mode string) error {
	switch m := Mode(strings.ToLower(mode)); m {
	case ModeFull, ModeTrain, ModeTest:
		e.mode = m
		return nil
	default:
		return errors.Errorf("%q is not a valid mode; use full, train, or test", mode)
	}
}

// Mode returns the active mode.
func (e *Extractor) Mode() Mode {
	return e.mode
}

// Poses returns the poses backing the active partition, in partition order.
func (e *Extractor) Poses() []poses.Pose {
	return e.modeData()
}

// Views returns the precomputed per-scene top-down views, in scene order.
func (e *Extractor) Views() []*topdown.View {
	return e.views
}

// SemanticClassNames returns the distinct semantic category names known to the
// extractor, sorted, with "background" forced to index 0 whether or not any
// scene uses it. The underlying label map is captured once at construction
// from the last precomputed scene and is not refreshed on scene switch.
func (e *Extractor) SemanticClassNames() []string {
	return classNames(e.labelMap)
}

// LabelMap returns the instance-id to category-name mapping captured at
// construction.
func (e *Extractor) LabelMap() map[int]string {
	return e.labelMap
}

// Close releases the simulator. After Close, indexed access fails with
// ErrClosed. Closing twice is a no-op.
func (e *Extractor) Close(ctx context.Context) error {
	if e.closed {
		return nil
	}
	e.closed = true
	var err error
	if e.sim != nil {
		err = multierr.Append(err, e.sim.Close(ctx))
		e.sim = nil
	}
	return err
}

func (e *Extractor) modeData() []poses.Pose {
	switch e.mode {
	case ModeTrain:
		return e.train
	case ModeTest:
		return e.test
	default:
		return e.poses
	}
}
