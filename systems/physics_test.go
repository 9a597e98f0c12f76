package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/neuralcar/components"
)

var testParams = DriveParams{MaxSpeed: 10, DriveForce: 20, Drag: 0, MaxTurnRate: math.Pi / 2}

// startCar returns a car on the midline heading counter-clockwise.
func startCar() (components.Position, components.Rotation, components.Velocity, components.Car) {
	return components.Position{X: 24, Y: 0},
		components.Rotation{Heading: math.Pi / 2},
		components.Velocity{},
		components.Car{Active: true}
}

func TestDriveStopsWithoutThrottle(t *testing.T) {
	for _, throttle := range []float64{0, -0.5} {
		pos, rot, vel, car := startCar()
		vel.Speed = 3
		ctl := components.Controls{Throttle: throttle}

		if Drive(testTrack(), testParams, 0.1, &pos, &rot, &vel, &ctl, &car) {
			t.Errorf("throttle %v: car still active", throttle)
		}
		if car.Active || vel.Speed != 0 || car.Distance != 0 {
			t.Errorf("throttle %v: car %+v speed %v", throttle, car, vel.Speed)
		}
	}
}

func TestDriveAccelerates(t *testing.T) {
	pos, rot, vel, car := startCar()
	ctl := components.Controls{Throttle: 1}

	if !Drive(testTrack(), testParams, 0.1, &pos, &rot, &vel, &ctl, &car) {
		t.Fatal("car stopped")
	}
	if math.Abs(vel.Speed-2) > 1e-12 {
		t.Errorf("speed = %v, want 2", vel.Speed)
	}
	if math.Abs(pos.X-24) > 1e-12 || math.Abs(pos.Y-0.2) > 1e-12 {
		t.Errorf("position = %+v, want (24, 0.2)", pos)
	}
	if math.Abs(car.Distance-0.2) > 1e-12 {
		t.Errorf("distance = %v, want 0.2", car.Distance)
	}
	if car.Ticks != 1 {
		t.Errorf("ticks = %d, want 1", car.Ticks)
	}
}

func TestDriveCapsSpeed(t *testing.T) {
	pos, rot, vel, car := startCar()
	ctl := components.Controls{Throttle: 1}
	track := &Track{InnerRadius: 1, OuterRadius: 1000}
	for i := 0; i < 50; i++ {
		Drive(track, testParams, 0.1, &pos, &rot, &vel, &ctl, &car)
	}
	if vel.Speed != testParams.MaxSpeed {
		t.Errorf("speed = %v, want %v", vel.Speed, testParams.MaxSpeed)
	}
}

func TestDriveSteering(t *testing.T) {
	pos, rot, vel, car := startCar()
	ctl := components.Controls{Steering: 1, Throttle: 1}
	Drive(testTrack(), testParams, 0.1, &pos, &rot, &vel, &ctl, &car)

	want := math.Pi/2 - testParams.MaxTurnRate*0.1
	if math.Abs(rot.Heading-want) > 1e-12 {
		t.Errorf("heading = %v, want %v (right turn)", rot.Heading, want)
	}

	// steering beyond the unit range is clamped
	rot.Heading = math.Pi / 2
	ctl.Steering = -5
	Drive(testTrack(), testParams, 0.1, &pos, &rot, &vel, &ctl, &car)
	want = math.Pi/2 + testParams.MaxTurnRate*0.1
	if math.Abs(rot.Heading-want) > 1e-12 {
		t.Errorf("heading = %v, want %v (left turn)", rot.Heading, want)
	}
}

func TestDriveLeavingTrack(t *testing.T) {
	pos := components.Position{X: 27.9, Y: 0}
	rot := components.Rotation{Heading: 0}
	vel := components.Velocity{Speed: 5}
	car := components.Car{Active: true, Distance: 3}
	ctl := components.Controls{Throttle: 1}

	if Drive(testTrack(), testParams, 0.1, &pos, &rot, &vel, &ctl, &car) {
		t.Fatal("car should have crashed into the outer wall")
	}
	if car.Distance != 3 {
		t.Errorf("distance = %v, want frozen at 3", car.Distance)
	}
	if pos.X != 27.9 {
		t.Errorf("position moved to %+v", pos)
	}
}

func TestDriveCountsLaps(t *testing.T) {
	pos, rot, vel, car := startCar()
	car.Progress = 2*math.Pi - 0.001
	ctl := components.Controls{Throttle: 1}

	Drive(testTrack(), testParams, 0.1, &pos, &rot, &vel, &ctl, &car)
	if car.Laps != 1 {
		t.Errorf("laps = %d, want 1 (progress %v)", car.Laps, car.Progress)
	}

	// driving the wrong way never counts
	pos, rot, vel, car = startCar()
	rot.Heading = -math.Pi / 2
	Drive(testTrack(), testParams, 0.1, &pos, &rot, &vel, &ctl, &car)
	if car.Progress >= 0 || car.Laps != 0 {
		t.Errorf("reverse progress = %v laps = %d", car.Progress, car.Laps)
	}
}

func TestDrivingSystemUpdate(t *testing.T) {
	world := ecs.NewWorld()
	mapper := ecs.NewMap5[components.Position, components.Rotation, components.Velocity, components.Controls, components.Car](world)

	pos, rot, vel, car := startCar()
	forward := components.Controls{Throttle: 1}
	stopper := components.Controls{Throttle: -0.2}
	car.Index = 0
	moving := mapper.NewEntity(&pos, &rot, &vel, &forward, &car)
	car.Index = 1
	stopped := mapper.NewEntity(&pos, &rot, &vel, &stopper, &car)

	sys := NewDrivingSystem(world, testTrack(), testParams)
	if got := sys.Update(0.1); got != 1 {
		t.Fatalf("active = %d, want 1", got)
	}

	carMap := ecs.NewMap1[components.Car](world)
	if c := carMap.Get(moving); !c.Active || c.Distance == 0 {
		t.Errorf("moving car = %+v", *c)
	}
	if c := carMap.Get(stopped); c.Active || c.Distance != 0 {
		t.Errorf("stopped car = %+v", *c)
	}

	// inactive cars are skipped
	if got := sys.Update(0.1); got != 1 {
		t.Errorf("second update active = %d, want 1", got)
	}
}
