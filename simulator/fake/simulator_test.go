package fake

import (
	"context"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/scenedata/simulator"
)

func TestReconfigureAndObservations(t *testing.T) {
	ctx := context.Background()
	cfg := simulator.MakeConfig("room_a.glb", simulator.ImageSize{Height: 32, Width: 48})
	sim, err := NewSimulator(cfg, 7)
	test.That(t, err, test.ShouldBeNil)

	obs, err := sim.SensorObservations(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, obs, test.ShouldHaveLength, 3)
	test.That(t, obs[simulator.ColorSensorName].Shape(), test.ShouldResemble, []int{32, 48, 4})
	test.That(t, obs[simulator.DepthSensorName].Shape(), test.ShouldResemble, []int{32, 48})
	test.That(t, obs[simulator.SemanticSensorName].Shape(), test.ShouldResemble, []int{32, 48})

	// A different scene yields different geometry but the same call surface.
	test.That(t, sim.Reconfigure(ctx, simulator.MakeConfig("room_b.glb", simulator.ImageSize{Height: 32, Width: 48})), test.ShouldBeNil)
	test.That(t, sim.SemanticScene(), test.ShouldNotBeNil)

	err = sim.Reconfigure(ctx, simulator.Config{})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "scene path")
}

func TestRenderDeterminism(t *testing.T) {
	ctx := context.Background()
	cfg := simulator.MakeConfig("room_a.glb", simulator.ImageSize{Height: 16, Width: 16})

	render := func() simulator.Observations {
		sim, err := NewSimulator(cfg, 42)
		test.That(t, err, test.ShouldBeNil)
		agent, err := sim.Agent(0)
		test.That(t, err, test.ShouldBeNil)
		err = agent.SetState(simulator.AgentState{Position: r3.Vector{X: 1, Z: 2}})
		test.That(t, err, test.ShouldBeNil)
		obs, err := sim.SensorObservations(ctx)
		test.That(t, err, test.ShouldBeNil)
		return obs
	}

	obs1 := render()
	obs2 := render()
	frame1 := obs1[simulator.ColorSensorName].(*simulator.ColorObservation).Frame
	frame2 := obs2[simulator.ColorSensorName].(*simulator.ColorObservation).Frame
	test.That(t, frame1.Pix, test.ShouldResemble, frame2.Pix)
}

func TestPathFinder(t *testing.T) {
	cfg := simulator.MakeConfig("room_a.glb", simulator.ImageSize{Height: 16, Width: 16})
	sim, err := NewSimulator(cfg, 7)
	test.That(t, err, test.ShouldBeNil)

	pf := sim.PathFinder()
	bound1, bound2 := pf.Bounds()
	test.That(t, bound1.X, test.ShouldBeLessThan, bound2.X)
	test.That(t, bound1.Z, test.ShouldBeLessThan, bound2.Z)

	pt := pf.RandomNavigablePoint()
	test.That(t, pt.X, test.ShouldBeGreaterThan, bound1.X)
	test.That(t, pt.X, test.ShouldBeLessThan, bound2.X)
	test.That(t, pt.Y, test.ShouldEqual, bound1.Y)

	view := pf.TopdownView(0.1, pt.Y)
	rows, cols := view.Dims()
	test.That(t, rows, test.ShouldBeGreaterThan, 0)
	test.That(t, cols, test.ShouldBeGreaterThan, 0)
	// Corners sit inside the wall margin.
	test.That(t, view.At(0, 0), test.ShouldEqual, 0.0)
	test.That(t, view.At(rows/2, cols/2), test.ShouldEqual, 1.0)
}

func TestCloseSemantics(t *testing.T) {
	ctx := context.Background()
	cfg := simulator.MakeConfig("room_a.glb", simulator.ImageSize{Height: 8, Width: 8})
	sim, err := NewSimulator(cfg, 7)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, sim.Close(ctx), test.ShouldBeNil)
	test.That(t, sim.Close(ctx), test.ShouldNotBeNil)

	_, err = sim.SensorObservations(ctx)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = sim.Agent(0)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, sim.Reconfigure(ctx, cfg), test.ShouldNotBeNil)
}

func TestSemanticSceneAnnotations(t *testing.T) {
	cfg := simulator.MakeConfig("room_a.glb", simulator.ImageSize{Height: 8, Width: 8})
	sim, err := NewSimulator(cfg, 7)
	test.That(t, err, test.ShouldBeNil)

	scene := sim.SemanticScene()
	test.That(t, scene, test.ShouldNotBeNil)
	test.That(t, len(scene.Objects), test.ShouldBeGreaterThanOrEqualTo, 5)

	var uncategorized int
	for _, obj := range scene.Objects {
		if obj.Category == nil {
			uncategorized++
		} else {
			test.That(t, obj.Category.Name(), test.ShouldNotBeEmpty)
		}
	}
	test.That(t, uncategorized, test.ShouldEqual, 1)
}
