package game

import (
	"fmt"
	"runtime"

	"github.com/mlange-42/ark/ecs"
	"github.com/sourcegraph/conc/pool"
)

// carSnapshot captures read-only state for the brain phase.
type carSnapshot struct {
	Entity ecs.Entity
	Index  int       // population index, selects the brain
	Rays   []float64 // owned by the Sensors component, not written during the phase
}

// intent captures brain outputs to apply after the parallel phase.
type intent struct {
	Steering float64
	Throttle float64
	Err      error
}

// parallelState holds buffers for the brain phase.
type parallelState struct {
	snapshots  []carSnapshot
	intents    []intent
	numWorkers int
	threshold  int // minimum active cars to evaluate concurrently, 0 = never
}

func newParallelState(threshold int) *parallelState {
	return &parallelState{
		numWorkers: runtime.GOMAXPROCS(0),
		threshold:  threshold,
		snapshots:  make([]carSnapshot, 0, 64),
		intents:    make([]intent, 0, 64),
	}
}

// updateBrains evaluates every active car's network on its sensor readings and
// writes the outputs to its Controls.
func (g *Game) updateBrains() error {
	ps := g.parallel

	// Phase A: Build snapshots (single-threaded)
	ps.snapshots = ps.snapshots[:0]
	query := g.brainFilter.Query()
	for query.Next() {
		sensors, _, car := query.Get()
		if !car.Active {
			continue
		}
		ps.snapshots = append(ps.snapshots, carSnapshot{
			Entity: query.Entity(),
			Index:  car.Index,
			Rays:   sensors.Rays,
		})
	}

	n := len(ps.snapshots)
	if n == 0 {
		return nil
	}
	if cap(ps.intents) < n {
		ps.intents = make([]intent, n)
	}
	ps.intents = ps.intents[:n]

	// Phase B: Compute - single or parallel based on car count
	if ps.threshold <= 0 || n < ps.threshold || ps.numWorkers < 2 {
		g.computeChunk(0, n)
	} else {
		g.computeParallel(n)
	}

	// Phase C: Apply intents (single-threaded, preserves determinism)
	for i, snap := range ps.snapshots {
		in := &ps.intents[i]
		if in.Err != nil {
			return fmt.Errorf("car %d brain: %w", snap.Index, in.Err)
		}
		ctl := g.ctlMap.Get(snap.Entity)
		ctl.Steering = in.Steering
		ctl.Throttle = in.Throttle
	}
	return nil
}

// computeParallel splits the snapshots into one chunk per worker.
func (g *Game) computeParallel(n int) {
	workers := g.parallel.numWorkers
	chunkSize := (n + workers - 1) / workers

	p := pool.New().WithMaxGoroutines(workers)
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		p.Go(func() {
			g.computeChunk(start, end)
		})
	}
	p.Wait()
}

// computeChunk evaluates brains for snapshots [i0, i1). Each index is written
// by exactly one worker.
func (g *Game) computeChunk(i0, i1 int) {
	for i := i0; i < i1; i++ {
		snap := &g.parallel.snapshots[i]
		out, err := g.brains[snap.Index].Evaluate(snap.Rays)
		if err != nil {
			g.parallel.intents[i] = intent{Err: err}
			continue
		}
		g.parallel.intents[i] = intent{Steering: out[0], Throttle: out[1]}
	}
}
