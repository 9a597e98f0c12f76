package systems

import (
	"math"

	"github.com/pthm-cable/neuralcar/config"
)

// rayEpsilon ignores intersections at the ray origin.
const rayEpsilon = 1e-9

// Track is a stadium-shaped corridor: the points whose distance from a
// horizontal spine segment lies between the inner and outer radius. The spine
// runs from -HalfLength to +HalfLength around the center, so the track has two
// straights joined by semicircular bends. HalfLength 0 gives a plain ring.
// Cars drive counter-clockwise around the center; anything off the corridor is
// a wall.
type Track struct {
	CenterX, CenterY float64
	HalfLength       float64
	InnerRadius      float64
	OuterRadius      float64
}

// NewTrack builds the track described by the config.
func NewTrack(c config.TrackConfig) *Track {
	return &Track{
		CenterX:     c.CenterX,
		CenterY:     c.CenterY,
		HalfLength:  c.HalfLength,
		InnerRadius: c.InnerRadius,
		OuterRadius: c.OuterRadius,
	}
}

// spine returns (x, y) relative to the center and the nearest spine point's x.
func (t *Track) spine(x, y float64) (lx, ly, sx float64) {
	lx, ly = x-t.CenterX, y-t.CenterY
	return lx, ly, clamp(lx, -t.HalfLength, t.HalfLength)
}

// Contains reports whether (x, y) lies on the corridor, walls included.
func (t *Track) Contains(x, y float64) bool {
	lx, ly, sx := t.spine(x, y)
	d2 := (lx-sx)*(lx-sx) + ly*ly
	return d2 >= t.InnerRadius*t.InnerRadius && d2 <= t.OuterRadius*t.OuterRadius
}

// AngleOf returns the polar angle of (x, y) around the track center.
func (t *Track) AngleOf(x, y float64) float64 {
	return math.Atan2(y-t.CenterY, x-t.CenterX)
}

// MidlinePose returns the midline point in the direction of the polar angle
// and the counter-clockwise heading along the track there.
func (t *Track) MidlinePose(angle float64) (x, y, heading float64) {
	mid := (t.InnerRadius + t.OuterRadius) / 2
	d, _ := t.wallHit(0, 0, math.Cos(angle), math.Sin(angle), mid)
	lx, ly := d*math.Cos(angle), d*math.Sin(angle)
	sx := clamp(lx, -t.HalfLength, t.HalfLength)
	heading = normalizeAngle(math.Atan2(ly, lx-sx) + math.Pi/2)
	return t.CenterX + lx, t.CenterY + ly, heading
}

// LapLength returns the length of one lap along the midline.
func (t *Track) LapLength() float64 {
	return 4*t.HalfLength + math.Pi*(t.InnerRadius+t.OuterRadius)
}

// CastRay returns the distance from (x, y) along angle to the nearest wall,
// or 0 when no wall lies within maxLen.
func (t *Track) CastRay(x, y, angle, maxLen float64) float64 {
	dx, dy := math.Cos(angle), math.Sin(angle)
	lx, ly := x-t.CenterX, y-t.CenterY
	best := math.Inf(1)
	for _, r := range [2]float64{t.InnerRadius, t.OuterRadius} {
		if d, ok := t.wallHit(lx, ly, dx, dy, r); ok && d < best {
			best = d
		}
	}
	if best > maxLen {
		return 0
	}
	return best
}

// wallHit intersects a unit-direction ray starting at (x, y), relative to the
// center, with the wall at distance r from the spine and returns the nearest
// positive distance. The wall is two straight edges and two half circles.
func (t *Track) wallHit(x, y, dx, dy, r float64) (float64, bool) {
	best := math.Inf(1)

	if dy != 0 {
		for _, edge := range [2]float64{r, -r} {
			d := (edge - y) / dy
			if d > rayEpsilon && d < best && math.Abs(x+d*dx) <= t.HalfLength {
				best = d
			}
		}
	}

	for _, side := range [2]float64{1, -1} {
		cx := side * t.HalfLength
		near, far, ok := circleHits(x-cx, y, dx, dy, r)
		if !ok {
			continue
		}
		for _, d := range [2]float64{near, far} {
			if d > rayEpsilon && d < best && side*(x+d*dx-cx) >= 0 {
				best = d
			}
		}
	}

	return best, !math.IsInf(best, 1)
}

// circleHits returns both ray parameters where a unit-direction ray from
// (fx, fy) meets the origin-centered circle of radius r.
func circleHits(fx, fy, dx, dy, r float64) (near, far float64, ok bool) {
	b := fx*dx + fy*dy
	c := fx*fx + fy*fy - r*r
	disc := b*b - c
	if disc < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	return -b - sq, -b + sq, true
}
