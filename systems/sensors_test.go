package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/neuralcar/components"
)

var fiveRays = []float64{math.Pi / 2, math.Pi / 4, 0, -math.Pi / 4, -math.Pi / 2}

func TestReadRays(t *testing.T) {
	out := make([]float64, len(fiveRays))
	ReadRays(testTrack(), components.Position{X: 24, Y: 0}, math.Pi/2, fiveRays, 5, out)

	// left hits the inner wall, right the outer wall, the rest see nothing in range
	want := []float64{4, 0, 0, 0, 4}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-9 {
			t.Errorf("ray %d = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestReadRaysLongRange(t *testing.T) {
	out := make([]float64, len(fiveRays))
	ReadRays(testTrack(), components.Position{X: 24, Y: 0}, math.Pi/2, fiveRays, 100, out)
	for i, v := range out {
		if v <= 0 {
			t.Errorf("ray %d = %v, want a hit", i, v)
		}
	}
	if math.Abs(out[2]-math.Sqrt(208)) > 1e-9 {
		t.Errorf("forward ray = %v, want %v", out[2], math.Sqrt(208))
	}
}

func TestSensorSystemUpdate(t *testing.T) {
	world := ecs.NewWorld()
	mapper := ecs.NewMap4[components.Position, components.Rotation, components.Sensors, components.Car](world)

	pos := components.Position{X: 24, Y: 0}
	rot := components.Rotation{Heading: math.Pi / 2}
	active := components.Car{Active: true}
	inactive := components.Car{}
	sensors := components.Sensors{}
	e1 := mapper.NewEntity(&pos, &rot, &sensors, &active)
	sensors = components.Sensors{}
	e2 := mapper.NewEntity(&pos, &rot, &sensors, &inactive)

	NewSensorSystem(world, testTrack(), fiveRays, 5).Update()

	sensorMap := ecs.NewMap1[components.Sensors](world)
	got := sensorMap.Get(e1).Rays
	if len(got) != 5 || got[0] != 4 || got[4] != 4 {
		t.Errorf("active car rays = %v", got)
	}
	if rays := sensorMap.Get(e2).Rays; len(rays) != 0 {
		t.Errorf("inactive car rays = %v, want untouched", rays)
	}
}
