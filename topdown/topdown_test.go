package topdown

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/scenedata/simulator"
	"go.viam.com/scenedata/testutils/inject"
)

func TestReferencePoint(t *testing.T) {
	pf := &inject.PathFinder{}
	pf.BoundsFunc = func() (r3.Vector, r3.Vector) {
		return r3.Vector{X: 4, Y: 0, Z: -2}, r3.Vector{X: -3, Y: 2.5, Z: 6}
	}
	pf.RandomNavigablePointFunc = func() r3.Vector {
		return r3.Vector{X: 1, Y: 0.3, Z: 1}
	}

	// Default source uses a random navigable point's elevation.
	ref := ReferencePoint(pf, nil)
	test.That(t, ref, test.ShouldResemble, r3.Vector{X: -3, Y: 0.3, Z: -2})

	// An injected source takes precedence.
	ref = ReferencePoint(pf, func(simulator.PathFinder) float64 { return 1.25 })
	test.That(t, ref, test.ShouldResemble, r3.Vector{X: -3, Y: 1.25, Z: -2})
}

func TestNewViewDelegation(t *testing.T) {
	raster := mat.NewDense(3, 4, []float64{
		0, 1, 1, 0,
		1, 1, 1, 1,
		0, 1, 1, 0,
	})
	var gotPPM, gotHeight float64
	pf := &inject.PathFinder{}
	pf.TopdownViewFunc = func(pixelsPerMeter, height float64) *mat.Dense {
		gotPPM, gotHeight = pixelsPerMeter, height
		return raster
	}

	ref := r3.Vector{X: -3, Y: 0.3, Z: -2}
	view := NewView(pf, "scene.glb", ref, 0)
	test.That(t, gotPPM, test.ShouldEqual, DefaultPixelsPerMeter)
	test.That(t, gotHeight, test.ShouldEqual, 0.3)
	test.That(t, view.Raster(), test.ShouldEqual, raster)
	test.That(t, view.ScenePath(), test.ShouldEqual, "scene.glb")
	test.That(t, view.ReferencePoint(), test.ShouldResemble, ref)
	rows, cols := view.Dims()
	test.That(t, rows, test.ShouldEqual, 3)
	test.That(t, cols, test.ShouldEqual, 4)

	NewView(pf, "scene.glb", ref, 0.25)
	test.That(t, gotPPM, test.ShouldEqual, 0.25)
}
