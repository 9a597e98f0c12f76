package game

import "github.com/pthm-cable/neuralcar/telemetry"

// Step advances the trial by one tick: sensors, brains, then driving.
func (g *Game) Step() error {
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseSensors)
	g.sensors.Update()

	g.perf.StartPhase(telemetry.PhaseBrains)
	if err := g.updateBrains(); err != nil {
		return err
	}

	g.perf.StartPhase(telemetry.PhaseDriving)
	g.active = g.driving.Update(g.cfg.Physics.DT)

	g.tick++
	g.updateLeader()
	g.perf.EndTick()
	return nil
}

// TrialDone reports whether the current trial is over: every car stopped, the
// tick limit was hit, or (when training) the leader completed the target laps.
func (g *Game) TrialDone() bool {
	if g.active == 0 || g.tick >= g.cfg.Training.MaxTrialTicks {
		return true
	}
	if g.examination == nil {
		if leader, ok := g.Leader(); ok && leader.Laps >= g.cfg.Training.TargetLaps {
			return true
		}
	}
	return false
}

// updateLeader picks the car with the greatest distance. Ties keep the lower index.
func (g *Game) updateLeader() {
	best := -1
	bestDistance := 0.0
	for i, e := range g.entities {
		d := g.carMap.Get(e).Distance
		if best == -1 || d > bestDistance {
			best = i
			bestDistance = d
		}
	}
	g.leader = best
}
