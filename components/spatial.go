package components

// Position represents an entity's world position.
type Position struct {
	X, Y float64
}

// Rotation represents an entity's heading.
type Rotation struct {
	Heading float64 // radians, counter-clockwise from +X
}

// Velocity represents a car's scalar speed along its heading.
type Velocity struct {
	Speed float64 // units per second, never negative
}
