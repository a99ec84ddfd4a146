package simulator

import "github.com/golang/geo/r3"

// Engine configuration defaults. These are the named defaults the config
// builder applies; override them with ConfigOptions rather than editing
// configurations after the fact.
const (
	DefaultSensorHeight = 1.5
	DefaultGPUDeviceID  = 0
)

// Well-known sensor UUIDs. The dataset facade maps caller-facing output names
// onto these.
const (
	ColorSensorName    = "color_sensor"
	DepthSensorName    = "depth_sensor"
	SemanticSensorName = "semantic_sensor"
)

// SensorType identifies what a sensor renders.
type SensorType int

// The sensor types the engine can render.
const (
	SensorTypeColor SensorType = iota + 1
	SensorTypeDepth
	SensorTypeSemantic
)

// ImageSize is a (height, width) observation resolution in pixels.
type ImageSize struct {
	Height int
	Width  int
}

// SensorSpec describes one sensor mounted on an agent.
type SensorSpec struct {
	UUID       string
	Type       SensorType
	Resolution ImageSize
	// Position is the mounting offset from the agent origin, in meters.
	Position r3.Vector
	// GPUToGPUTransfer keeps observations on-device when true. This module
	// always reads observations back to host memory.
	GPUToGPUTransfer bool
}

// AgentConfig describes one agent and its sensor loadout.
type AgentConfig struct {
	SensorSpecs []SensorSpec
}

// Config is everything needed to (re)configure an engine onto one scene. It is
// a value: build a fresh one per scene switch instead of mutating in place.
type Config struct {
	ScenePath     string
	EnablePhysics bool
	GPUDeviceID   int
	// Silent suppresses the engine's own error reporting to stdout.
	Silent bool
	Agents []AgentConfig
}

type configOptions struct {
	sensorHeight float64
	gpuDeviceID  int
}

// ConfigOption overrides one of the config builder's defaults.
type ConfigOption func(*configOptions)

// WithSensorHeight overrides the sensor mounting height above the agent origin.
func WithSensorHeight(meters float64) ConfigOption {
	return func(o *configOptions) {
		o.sensorHeight = meters
	}
}

// WithGPUDeviceID overrides which GPU the engine renders on.
func WithGPUDeviceID(id int) ConfigOption {
	return func(o *configOptions) {
		o.gpuDeviceID = id
	}
}

// MakeConfig builds the standard dataset-extraction configuration for one
// scene: a single agent carrying color, depth and semantic sensors at the
// given resolution, mounted at the sensor height, physics disabled, engine
// error reporting suppressed. Invalid scene paths are not checked here; they
// surface when the configuration is applied.
func MakeConfig(scenePath string, size ImageSize, opts ...ConfigOption) Config {
	resolved := configOptions{
		sensorHeight: DefaultSensorHeight,
		gpuDeviceID:  DefaultGPUDeviceID,
	}
	for _, opt := range opts {
		opt(&resolved)
	}

	mount := r3.Vector{Y: resolved.sensorHeight}
	specs := []SensorSpec{
		{UUID: ColorSensorName, Type: SensorTypeColor, Resolution: size, Position: mount},
		{UUID: DepthSensorName, Type: SensorTypeDepth, Resolution: size, Position: mount},
		{UUID: SemanticSensorName, Type: SensorTypeSemantic, Resolution: size, Position: mount},
	}
	return Config{
		ScenePath:     scenePath,
		EnablePhysics: false,
		GPUDeviceID:   resolved.gpuDeviceID,
		Silent:        true,
		Agents:        []AgentConfig{{SensorSpecs: specs}},
	}
}
