package poses

import (
	"context"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/scenedata/testutils/inject"
	"go.viam.com/scenedata/topdown"
)

func gridView(t *testing.T, raster *mat.Dense, scenePath string, ref r3.Vector) *topdown.View {
	t.Helper()
	pf := &inject.PathFinder{}
	pf.TopdownViewFunc = func(pixelsPerMeter, height float64) *mat.Dense {
		return raster
	}
	return topdown.NewView(pf, scenePath, ref, 0.1)
}

func TestExtractPoses(t *testing.T) {
	// Two navigable cells at stride 2: (0,0) and (0,2).
	raster := mat.NewDense(2, 4, []float64{
		1, 1, 1, 0,
		1, 1, 1, 1,
	})
	ref := r3.Vector{X: -1, Y: 0.2, Z: -2}
	view := gridView(t, raster, "scene.glb", ref)

	ge := NewGridExtractor([]*topdown.View{view}, 0.1, WithStride(2))
	got, err := ge.ExtractPoses(context.Background(), []float64{0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldHaveLength, 2*len(compassHeadings))

	for _, p := range got {
		test.That(t, p.ScenePath, test.ShouldEqual, "scene.glb")
		test.That(t, p.Label, test.ShouldEqual, 0.0)
		test.That(t, p.Position.Y, test.ShouldEqual, 0.2)
	}
	// First site is at the reference point, the second 0.2m along x.
	test.That(t, got[0].Position, test.ShouldResemble, ref)
	test.That(t, got[len(compassHeadings)].Position, test.ShouldResemble, r3.Vector{X: -0.8, Y: 0.2, Z: -2})

	// Rotations are unit quaternions.
	for _, p := range got {
		norm := p.Rotation.Real*p.Rotation.Real + p.Rotation.Imag*p.Rotation.Imag +
			p.Rotation.Jmag*p.Rotation.Jmag + p.Rotation.Kmag*p.Rotation.Kmag
		test.That(t, norm, test.ShouldAlmostEqual, 1.0, 1e-9)
	}
}

func TestExtractPosesSkipsBlockedCells(t *testing.T) {
	raster := mat.NewDense(1, 3, []float64{0, 1, 0})
	view := gridView(t, raster, "scene.glb", r3.Vector{})

	ge := NewGridExtractor([]*topdown.View{view}, 0.1, WithStride(1))
	got, err := ge.ExtractPoses(context.Background(), nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldHaveLength, len(compassHeadings))
	test.That(t, got[0].Position.X, test.ShouldEqual, 0.1)
}

func TestExtractPosesLabelsRoundRobin(t *testing.T) {
	raster := mat.NewDense(1, 2, []float64{1, 1})
	view := gridView(t, raster, "scene.glb", r3.Vector{})

	ge := NewGridExtractor([]*topdown.View{view}, 0.1, WithStride(1))
	got, err := ge.ExtractPoses(context.Background(), []float64{1, 2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldHaveLength, 2*len(compassHeadings))
	for i, p := range got {
		test.That(t, p.Label, test.ShouldEqual, float64(1+i%2))
	}
}

func TestExtractPosesMultipleScenes(t *testing.T) {
	rasterA := mat.NewDense(1, 1, []float64{1})
	rasterB := mat.NewDense(1, 1, []float64{1})
	views := []*topdown.View{
		gridView(t, rasterA, "a.glb", r3.Vector{}),
		gridView(t, rasterB, "b.glb", r3.Vector{}),
	}

	ge := NewGridExtractor(views, 0.1)
	got, err := ge.ExtractPoses(context.Background(), nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldHaveLength, 2*len(compassHeadings))
	// Scene order is preserved.
	test.That(t, got[0].ScenePath, test.ShouldEqual, "a.glb")
	test.That(t, got[len(got)-1].ScenePath, test.ShouldEqual, "b.glb")
}

func TestExtractPosesCancellation(t *testing.T) {
	raster := mat.NewDense(1, 1, []float64{1})
	view := gridView(t, raster, "scene.glb", r3.Vector{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ge := NewGridExtractor([]*topdown.View{view}, 0.1)
	_, err := ge.ExtractPoses(ctx, nil)
	test.That(t, err, test.ShouldBeError, context.Canceled)
}
