// Package poses defines camera poses sampled over navigable space and the
// pose-extraction collaborator contract. Sampling strategy internals belong to
// the extractor implementation; the dataset facade only consumes the ordered
// pose list.
package poses

import (
	"context"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Pose is one camera pose: an agent position and rotation, the numeric class
// label the pose was sampled for, and the scene it belongs to. Immutable after
// generation.
type Pose struct {
	Position  r3.Vector
	Rotation  quat.Number
	Label     float64
	ScenePath string
}

// Extractor produces the full ordered pose collection for a set of scenes. An
// implementation is constructed from the precomputed per-scene top-down views
// and a live simulator; ExtractPoses may issue further engine queries.
type Extractor interface {
	ExtractPoses(ctx context.Context, labels []float64) ([]Pose, error)
}
