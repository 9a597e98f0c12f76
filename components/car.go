// Package components defines ECS components for the driving host.
package components

// Car bundles a car's identity and trial progress.
type Car struct {
	Index    int     // Position of the car's genotype in the population
	Active   bool    // False once the car stopped or left the track
	Distance float64 // Distance travelled while active
	Progress float64 // Signed angle travelled around the track center, radians
	Laps     int     // Completed laps
	Ticks    int     // Ticks spent active
}

// Sensors holds the last ray readings, one per configured ray.
// A reading is the distance to the nearest wall, or 0 when no wall is in range.
type Sensors struct {
	Rays []float64
}

// Controls holds the brain outputs applied by the driving system.
type Controls struct {
	Steering float64 // -1..1, positive turns right
	Throttle float64 // -1..1, not positive disables the car
}
