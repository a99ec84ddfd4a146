package simulator

import (
	"image"

	"gonum.org/v1/gonum/mat"
)

// Observations maps sensor UUID to the raw observation that sensor rendered.
type Observations map[string]Observation

// Observation is one rendered sensor output. Concrete kinds are
// ColorObservation, DepthObservation and SemanticObservation.
type Observation interface {
	// Shape returns the observation's dimensions, row-major
	// (height, width[, channels]).
	Shape() []int
}

// ColorObservation is an RGBA frame.
type ColorObservation struct {
	Frame *image.NRGBA
}

// Shape returns (height, width, 4).
func (o *ColorObservation) Shape() []int {
	b := o.Frame.Bounds()
	return []int{b.Dy(), b.Dx(), 4}
}

// DepthObservation is a per-pixel distance raster in meters.
type DepthObservation struct {
	Depth *mat.Dense
}

// Shape returns (height, width).
func (o *DepthObservation) Shape() []int {
	r, c := o.Depth.Dims()
	return []int{r, c}
}

// SemanticObservation holds a per-pixel object instance id raster. Ids index
// into the scene's semantic object list (see SemanticScene).
type SemanticObservation struct {
	Instances [][]int
}

// Shape returns (height, width).
func (o *SemanticObservation) Shape() []int {
	if len(o.Instances) == 0 {
		return []int{0, 0}
	}
	return []int{len(o.Instances), len(o.Instances[0])}
}
