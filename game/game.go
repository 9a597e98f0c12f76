// Package game hosts the driving trials that score genotypes for the genetic
// algorithm: one car per genotype on a stadium track, driven by its network.
package game

import (
	"fmt"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/neuralcar/components"
	"github.com/pthm-cable/neuralcar/config"
	"github.com/pthm-cable/neuralcar/evolution"
	"github.com/pthm-cable/neuralcar/neural"
	"github.com/pthm-cable/neuralcar/storage"
	"github.com/pthm-cable/neuralcar/systems"
	"github.com/pthm-cable/neuralcar/telemetry"
)

// Options configures a game.
type Options struct {
	Config *config.Config // nil = embedded defaults
	Seed   int64

	Output *telemetry.OutputManager // nil = no files
	Store  storage.Store            // nil = no run history
	RunID  string                   // run the store records into

	// Called after every finished generation.
	OnGeneration func(telemetry.GenerationStats)
}

// Game holds the complete training state.
type Game struct {
	cfg *config.Config
	rng *rand.Rand
	ga  *evolution.GeneticAlgorithm

	world *ecs.World

	carMapper *ecs.Map6[
		components.Position,
		components.Rotation,
		components.Velocity,
		components.Sensors,
		components.Controls,
		components.Car,
	]
	brainFilter *ecs.Filter3[components.Sensors, components.Controls, components.Car]
	carMap      *ecs.Map1[components.Car]
	ctlMap      *ecs.Map1[components.Controls]

	track   *systems.Track
	sensors *systems.SensorSystem
	driving *systems.DrivingSystem

	// Per-trial state, indexed like the population
	population []*neural.Genotype
	entities   []ecs.Entity
	brains     []*neural.Network

	parallel   *parallelState
	perf       *telemetry.PerfCollector
	hallOfFame *telemetry.HallOfFame

	output       *telemetry.OutputManager
	store        storage.Store
	runID        string
	onGeneration func(telemetry.GenerationStats)

	// Examination mode drives one fixed genotype with no evolution.
	examination *neural.Genotype

	tick     int
	active   int
	leader   int // population index, -1 before the first tick
	restarts int
	trials   int

	// Generations since the last restart, and whether any car finished a lap in them.
	epochGenerations int
	epochLapSeen     bool

	champion *storage.Champion
	finished bool
}

// NewGame creates a training game with a random initial population.
func NewGame(opts Options) (*Game, error) {
	g, err := newGame(opts)
	if err != nil {
		return nil, err
	}

	ga, err := evolution.New(g.cfg.Genetics, g.cfg.Derived.GeneCount, g.rng)
	if err != nil {
		return nil, fmt.Errorf("creating genetic algorithm: %w", err)
	}
	g.ga = ga
	return g, nil
}

// NewExamination creates a game that repeatedly drives a single genotype,
// restarting the trial whenever the car stops.
func NewExamination(opts Options, genotype *neural.Genotype) (*Game, error) {
	g, err := newGame(opts)
	if err != nil {
		return nil, err
	}
	if genotype.Len() != g.cfg.Derived.GeneCount {
		return nil, fmt.Errorf("%w: genotype has %d genes, network %v needs %d",
			neural.ErrConfiguration, genotype.Len(), g.cfg.Network.Layers, g.cfg.Derived.GeneCount)
	}
	g.examination = genotype
	return g, nil
}

func newGame(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	world := ecs.NewWorld()
	track := systems.NewTrack(cfg.Track)

	g := &Game{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		world: world,
		carMapper: ecs.NewMap6[
			components.Position,
			components.Rotation,
			components.Velocity,
			components.Sensors,
			components.Controls,
			components.Car,
		](world),
		brainFilter: ecs.NewFilter3[components.Sensors, components.Controls, components.Car](world),
		carMap:      ecs.NewMap1[components.Car](world),
		ctlMap:      ecs.NewMap1[components.Controls](world),
		track:       track,
		sensors:     systems.NewSensorSystem(world, track, cfg.Derived.RayAngles, cfg.Car.RayLength),
		driving: systems.NewDrivingSystem(world, track, systems.DriveParams{
			MaxSpeed:    cfg.Car.MaxSpeed,
			DriveForce:  cfg.Car.DriveForce,
			Drag:        cfg.Car.Drag,
			MaxTurnRate: cfg.Derived.TurnRate,
		}),
		parallel:     newParallelState(cfg.Training.ParallelThreshold),
		perf:         telemetry.NewPerfCollector(),
		hallOfFame:   telemetry.NewHallOfFame(cfg.Training.HallOfFameSize),
		output:       opts.Output,
		store:        opts.Store,
		runID:        opts.RunID,
		onGeneration: opts.OnGeneration,
		leader:       -1,
	}
	return g, nil
}

// Config returns the configuration the game runs with.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Generation returns the current 1-based generation.
func (g *Game) Generation() int {
	if g.ga == nil {
		return g.trials + 1
	}
	return g.ga.Generation()
}

// Population returns the genotypes of the current trial.
func (g *Game) Population() []*neural.Genotype {
	return g.population
}

// Tick returns ticks elapsed in the current trial.
func (g *Game) Tick() int {
	return g.tick
}

// ActiveCars returns how many cars are still driving.
func (g *Game) ActiveCars() int {
	return g.active
}

// Restarts returns how many times training was reseeded.
func (g *Game) Restarts() int {
	return g.restarts
}

// HallOfFame returns the best genotypes seen so far.
func (g *Game) HallOfFame() *telemetry.HallOfFame {
	return g.hallOfFame
}

// Champion returns the genotype that reached the target laps, if any.
func (g *Game) Champion() (storage.Champion, bool) {
	if g.champion == nil {
		return storage.Champion{}, false
	}
	return *g.champion, true
}

// Finished reports whether training reached its goal or its generation limit.
func (g *Game) Finished() bool {
	return g.finished
}

// Leader returns the car currently ahead: the greatest distance among all cars.
// ok is false before the first trial starts.
func (g *Game) Leader() (car components.Car, ok bool) {
	if g.leader < 0 || g.leader >= len(g.entities) {
		return components.Car{}, false
	}
	return *g.carMap.Get(g.entities[g.leader]), true
}
