package poses

import (
	"context"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/scenedata/topdown"
)

// DefaultStride is how many raster cells apart grid samples are taken; at the
// default raster resolution of 0.1 m/pixel this is one pose site per meter.
const DefaultStride = 10

// compassHeadings are the yaw angles (radians, about +y) a GridExtractor emits
// at every sampled position.
var compassHeadings = []float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2}

// GridExtractor samples poses on a regular grid over each scene's navigable
// raster, emitting one pose per compass heading at every navigable grid cell.
// It is the default Extractor; callers with a smarter sampling strategy supply
// their own.
type GridExtractor struct {
	views          []*topdown.View
	pixelsPerMeter float64
	stride         int
}

// GridOption configures a GridExtractor.
type GridOption func(*GridExtractor)

// WithStride overrides the sampling stride in raster cells.
func WithStride(cells int) GridOption {
	return func(ge *GridExtractor) {
		ge.stride = cells
	}
}

// NewGridExtractor returns an extractor over the given per-scene views.
// pixelsPerMeter must match the value the views were rasterized at.
func NewGridExtractor(views []*topdown.View, pixelsPerMeter float64, opts ...GridOption) *GridExtractor {
	if pixelsPerMeter <= 0 {
		pixelsPerMeter = topdown.DefaultPixelsPerMeter
	}
	ge := &GridExtractor{
		views:          views,
		pixelsPerMeter: pixelsPerMeter,
		stride:         DefaultStride,
	}
	for _, opt := range opts {
		opt(ge)
	}
	return ge
}

// ExtractPoses walks every view's raster at the configured stride. Each
// navigable cell yields one pose per compass heading, positioned at the cell's
// world coordinates on the scene's reference elevation. Labels are assigned
// round-robin from the given label set.
func (ge *GridExtractor) ExtractPoses(ctx context.Context, labels []float64) ([]Pose, error) {
	if ge.stride <= 0 {
		return nil, errors.Errorf("stride must be positive, got %d", ge.stride)
	}
	if len(labels) == 0 {
		labels = []float64{0}
	}
	var out []Pose
	for _, view := range ge.views {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raster := view.Raster()
		ref := view.ReferencePoint()
		rows, cols := raster.Dims()
		for r := 0; r < rows; r += ge.stride {
			for c := 0; c < cols; c += ge.stride {
				if raster.At(r, c) == 0 {
					continue
				}
				pos := r3.Vector{
					X: ref.X + float64(c)*ge.pixelsPerMeter,
					Y: ref.Y,
					Z: ref.Z + float64(r)*ge.pixelsPerMeter,
				}
				for _, yaw := range compassHeadings {
					out = append(out, Pose{
						Position:  pos,
						Rotation:  yawRotation(yaw),
						Label:     labels[len(out)%len(labels)],
						ScenePath: view.ScenePath(),
					})
				}
			}
		}
	}
	return out, nil
}

// yawRotation is a unit quaternion for a rotation of yaw radians about +y.
func yawRotation(yaw float64) quat.Number {
	return quat.Number{Real: math.Cos(yaw / 2), Jmag: math.Sin(yaw / 2)}
}
