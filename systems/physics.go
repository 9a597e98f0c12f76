// Package systems contains ECS systems for the driving host.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/neuralcar/components"
)

// DriveParams holds car handling limits.
type DriveParams struct {
	MaxSpeed    float64 // units per second
	DriveForce  float64 // acceleration at full throttle
	Drag        float64 // fraction of speed lost per second
	MaxTurnRate float64 // radians per second at full steering
}

// DrivingSystem applies controls to active cars, moves them, and tracks progress.
type DrivingSystem struct {
	filter ecs.Filter5[components.Position, components.Rotation, components.Velocity, components.Controls, components.Car]
	track  *Track
	params DriveParams
}

// NewDrivingSystem creates a new driving system.
func NewDrivingSystem(w *ecs.World, track *Track, params DriveParams) *DrivingSystem {
	return &DrivingSystem{
		filter: *ecs.NewFilter5[components.Position, components.Rotation, components.Velocity, components.Controls, components.Car](w),
		track:  track,
		params: params,
	}
}

// Update advances every active car by dt seconds and returns how many are still active.
func (s *DrivingSystem) Update(dt float64) int {
	active := 0
	query := s.filter.Query()
	for query.Next() {
		pos, rot, vel, ctl, car := query.Get()
		if !car.Active {
			continue
		}
		if Drive(s.track, s.params, dt, pos, rot, vel, ctl, car) {
			active++
		}
	}
	return active
}

// Drive advances one car and reports whether it is still active.
// A car stops for good when its throttle is not positive or it leaves the track.
func Drive(track *Track, p DriveParams, dt float64,
	pos *components.Position, rot *components.Rotation, vel *components.Velocity,
	ctl *components.Controls, car *components.Car,
) bool {
	if ctl.Throttle <= 0 {
		stop(vel, car)
		return false
	}

	steering := clamp(ctl.Steering, -1, 1)
	rot.Heading = normalizeAngle(rot.Heading - steering*p.MaxTurnRate*dt)

	throttle := clamp(ctl.Throttle, 0, 1)
	vel.Speed += (throttle*p.DriveForce - p.Drag*vel.Speed) * dt
	vel.Speed = clamp(vel.Speed, 0, p.MaxSpeed)

	step := vel.Speed * dt
	nx := pos.X + math.Cos(rot.Heading)*step
	ny := pos.Y + math.Sin(rot.Heading)*step
	if !track.Contains(nx, ny) {
		stop(vel, car)
		return false
	}

	before := track.AngleOf(pos.X, pos.Y)
	pos.X, pos.Y = nx, ny
	car.Distance += step
	car.Progress += normalizeAngle(track.AngleOf(nx, ny) - before)
	car.Laps = int(math.Max(car.Progress, 0) / (2 * math.Pi))
	car.Ticks++
	return true
}

func stop(vel *components.Velocity, car *components.Car) {
	vel.Speed = 0
	car.Active = false
}
