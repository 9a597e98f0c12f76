package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/neuralcar/components"
)

// SensorSystem fills each active car's ray readings.
type SensorSystem struct {
	filter ecs.Filter4[components.Position, components.Rotation, components.Sensors, components.Car]
	track  *Track
	angles []float64 // relative to heading, positive is left
	length float64
}

// NewSensorSystem creates a sensor system casting rays at the given angles
// relative to each car's heading.
func NewSensorSystem(w *ecs.World, track *Track, angles []float64, length float64) *SensorSystem {
	return &SensorSystem{
		filter: *ecs.NewFilter4[components.Position, components.Rotation, components.Sensors, components.Car](w),
		track:  track,
		angles: angles,
		length: length,
	}
}

// Update casts rays for every active car.
func (s *SensorSystem) Update() {
	query := s.filter.Query()
	for query.Next() {
		pos, rot, sensors, car := query.Get()
		if !car.Active {
			continue
		}
		if len(sensors.Rays) != len(s.angles) {
			sensors.Rays = make([]float64, len(s.angles))
		}
		ReadRays(s.track, *pos, rot.Heading, s.angles, s.length, sensors.Rays)
	}
}

// ReadRays writes one reading per angle into out.
func ReadRays(track *Track, pos components.Position, heading float64, angles []float64, length float64, out []float64) {
	for i, a := range angles {
		out[i] = track.CastRay(pos.X, pos.Y, heading+a, length)
	}
}
