package simulator

import (
	"image"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func TestObservationShapes(t *testing.T) {
	color := &ColorObservation{Frame: image.NewNRGBA(image.Rect(0, 0, 64, 48))}
	test.That(t, color.Shape(), test.ShouldResemble, []int{48, 64, 4})

	depth := &DepthObservation{Depth: mat.NewDense(48, 64, nil)}
	test.That(t, depth.Shape(), test.ShouldResemble, []int{48, 64})

	semantic := &SemanticObservation{Instances: [][]int{{1, 2, 3}, {4, 5, 6}}}
	test.That(t, semantic.Shape(), test.ShouldResemble, []int{2, 3})

	empty := &SemanticObservation{}
	test.That(t, empty.Shape(), test.ShouldResemble, []int{0, 0})
}
