// Package topdown builds per-scene top-down navigability views and resolves
// the reference point used to interpret their pixel coordinates. Rasterization
// itself is delegated entirely to the engine's path-finder; this package only
// tags the result with the scene and reference point it was generated for.
package topdown

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/scenedata/simulator"
)

// DefaultPixelsPerMeter is the default top-down raster resolution: each pixel
// covers a 0.1m x 0.1m cell of the path-finder's coordinate system.
const DefaultPixelsPerMeter = 0.1

// ElevationSource produces the reference elevation for a scene. The default
// samples the elevation of one random navigable point, so it varies
// run-to-run; inject a fixed source where determinism matters. Multi-floor
// scenes are not specially handled: one elevation represents the whole scene.
type ElevationSource func(pf simulator.PathFinder) float64

// RandomPointElevation is the default ElevationSource. A true floor height is
// not queryable through the path-finder, so the elevation of a random
// navigable point stands in for it.
func RandomPointElevation(pf simulator.PathFinder) float64 {
	return pf.RandomNavigablePoint().Y
}

// ReferencePoint resolves a scene's (min-x, elevation, min-z) anchor from the
// path-finder's navigable bounds. Pixel (0,0) of a top-down view generated at
// the returned elevation corresponds to this point.
func ReferencePoint(pf simulator.PathFinder, elevation ElevationSource) r3.Vector {
	if elevation == nil {
		elevation = RandomPointElevation
	}
	bound1, bound2 := pf.Bounds()
	return r3.Vector{
		X: math.Min(bound1.X, bound2.X),
		Y: elevation(pf),
		Z: math.Min(bound1.Z, bound2.Z),
	}
}

// View is one scene's free-space raster together with the scene path and
// reference point it was generated for. Computed once per scene; read-only
// thereafter.
type View struct {
	raster    *mat.Dense
	scenePath string
	ref       r3.Vector
}

// NewView asks the path-finder for a free-space raster at the reference
// point's elevation. pixelsPerMeter <= 0 selects DefaultPixelsPerMeter.
func NewView(pf simulator.PathFinder, scenePath string, ref r3.Vector, pixelsPerMeter float64) *View {
	if pixelsPerMeter <= 0 {
		pixelsPerMeter = DefaultPixelsPerMeter
	}
	return &View{
		raster:    pf.TopdownView(pixelsPerMeter, ref.Y),
		scenePath: scenePath,
		ref:       ref,
	}
}

// Raster returns the free-space grid: navigable cells are nonzero. Callers
// must treat it as read-only.
func (v *View) Raster() *mat.Dense { return v.raster }

// ScenePath returns the scene this view was generated from.
func (v *View) ScenePath() string { return v.scenePath }

// ReferencePoint returns the world point corresponding to pixel (0,0).
func (v *View) ReferencePoint() r3.Vector { return v.ref }

// Dims returns the raster dimensions (rows, cols).
func (v *View) Dims() (int, int) { return v.raster.Dims() }
