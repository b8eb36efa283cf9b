// Package world owns the simulation state and the per-tick update loop.
package world

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/calehm/pond/components"
	"github.com/calehm/pond/config"
	"github.com/calehm/pond/neural"
	"github.com/calehm/pond/systems"
	"github.com/calehm/pond/telemetry"
	"github.com/calehm/pond/traits"
)

// World holds the complete simulation state. Organisms live in the ECS;
// brains, memories, homes, and trails are keyed by organism ID because
// they are reference-heavy and outlive query iteration.
//
// All randomness flows through the single rng, so a seed fully determines
// a run.
type World struct {
	ecsWorld *ecs.World
	rng      *rand.Rand

	mapper *ecs.Map7[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Energy,
		traits.Set,
		components.Organism,
		components.Sleep,
	]
	filter *ecs.Filter7[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Energy,
		traits.Set,
		components.Organism,
		components.Sleep,
	]

	posMap    *ecs.Map1[components.Position]
	energyMap *ecs.Map1[components.Energy]
	orgMap    *ecs.Map1[components.Organism]
	traitMap  *ecs.Map1[traits.Set]

	brains   map[uint32]*neural.Brain
	memories map[uint32]*neural.Memory
	homes    map[uint32]*components.Home
	trails   map[uint32]*components.Trail
	byID     map[uint32]ecs.Entity

	env       *systems.Environment
	foods     []components.Food
	collector *telemetry.Collector

	// Per-tick scratch, reused across ticks to avoid allocation.
	hits []systems.Hit
	bred map[uint32]bool

	tick    int64
	timeS   float64
	nextID  uint32
	alive   int
	genHigh int32
}

// New creates a world seeded with the configured starting population and
// food. The same seed always produces the same run.
func New(seed int64) *World {
	cfg := config.Cfg()

	ecsWorld := ecs.NewWorld()
	w := &World{
		ecsWorld: ecsWorld,
		rng:      rand.New(rand.NewSource(seed)),
		mapper: ecs.NewMap7[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Energy,
			traits.Set,
			components.Organism,
			components.Sleep,
		](ecsWorld),
		filter: ecs.NewFilter7[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Energy,
			traits.Set,
			components.Organism,
			components.Sleep,
		](ecsWorld),
		posMap:    ecs.NewMap1[components.Position](ecsWorld),
		energyMap: ecs.NewMap1[components.Energy](ecsWorld),
		orgMap:    ecs.NewMap1[components.Organism](ecsWorld),
		traitMap:  ecs.NewMap1[traits.Set](ecsWorld),

		brains:   make(map[uint32]*neural.Brain),
		memories: make(map[uint32]*neural.Memory),
		homes:    make(map[uint32]*components.Home),
		trails:   make(map[uint32]*components.Trail),
		byID:     make(map[uint32]ecs.Entity),
		bred:     make(map[uint32]bool),

		collector: telemetry.NewCollector(),
		nextID:    1,
	}
	w.env = systems.NewEnvironment(w.rng)

	w.seedFood(cfg.World.StartFood)
	w.seedPopulation()

	return w
}

// Reset wipes all organisms, food, counters, and the climate, then reseeds
// the world. The RNG is kept, so a run and its reset continue one stream.
func (w *World) Reset() {
	var entities []ecs.Entity
	query := w.filter.Query()
	for query.Next() {
		entities = append(entities, query.Entity())
	}
	for _, e := range entities {
		w.mapper.Remove(e)
	}

	clear(w.brains)
	clear(w.memories)
	clear(w.homes)
	clear(w.trails)
	clear(w.byID)
	clear(w.bred)

	w.foods = w.foods[:0]
	w.collector = telemetry.NewCollector()
	w.env = systems.NewEnvironment(w.rng)
	w.tick = 0
	w.timeS = 0
	w.nextID = 1
	w.alive = 0
	w.genHigh = 0

	cfg := config.Cfg()
	w.seedFood(cfg.World.StartFood)
	w.seedPopulation()
}

// seedFood scatters n food particles uniformly over the world.
func (w *World) seedFood(n int) {
	cfg := config.Cfg()
	for i := 0; i < n; i++ {
		w.foods = append(w.foods, components.Food{
			X: w.rng.Float32() * cfg.Derived.WorldW32,
			Y: w.rng.Float32() * cfg.Derived.WorldH32,
		})
	}
}

// seedPopulation spawns either a founding male/female pair at the world
// center or the configured number of random organisms.
func (w *World) seedPopulation() {
	cfg := config.Cfg()

	if cfg.World.AdamAndEve {
		cx := cfg.Derived.WorldW32 / 2
		cy := cfg.Derived.WorldH32 / 2
		w.spawnOrganism(spawnParams{
			x: cx - 30, y: cy, heading: 0,
			energy: float32(cfg.Energy.StartEnergy),
			ts:     traits.Defaults(),
			brain:  neural.NewBrain(w.rng),
			sex:    components.Male,
		})
		w.spawnOrganism(spawnParams{
			x: cx + 30, y: cy, heading: math.Pi,
			energy: float32(cfg.Energy.StartEnergy),
			ts:     traits.Defaults(),
			brain:  neural.NewBrain(w.rng),
			sex:    components.Female,
		})
		return
	}

	for i := 0; i < cfg.World.StartOrgs; i++ {
		sex := components.Male
		if w.rng.Intn(2) == 1 {
			sex = components.Female
		}
		w.spawnOrganism(spawnParams{
			x:       w.rng.Float32() * cfg.Derived.WorldW32,
			y:       w.rng.Float32() * cfg.Derived.WorldH32,
			heading: w.rng.Float32() * 2 * math.Pi,
			energy:  float32(cfg.Energy.StartEnergy),
			ts:      traits.Defaults(),
			brain:   neural.NewBrain(w.rng),
			sex:     sex,
		})
	}
}

// spawnParams carries everything needed to create one organism.
type spawnParams struct {
	x, y, heading float32
	energy        float32
	ts            traits.Set
	brain         *neural.Brain
	sex           components.Sex
	generation    int32
	parents       [2]uint32
	numParents    uint8
}

// spawnOrganism creates the entity and its side tables, returning the new
// organism's ID.
func (w *World) spawnOrganism(p spawnParams) uint32 {
	cfg := config.Cfg()

	id := w.nextID
	w.nextID++

	pos := components.Position{X: p.x, Y: p.y}
	vel := components.Velocity{}
	rot := components.Rotation{Heading: normalizeHeading32(p.heading)}
	energy := components.Energy{Value: p.energy, Alive: true}
	ts := p.ts
	org := components.Organism{
		ID:         id,
		Generation: p.generation,
		Sex:        p.sex,
		Parents:    p.parents,
		NumParents: p.numParents,
		Dependents: make(map[uint32]struct{}),
	}
	sleep := components.Sleep{Awake: true}

	p.brain.ResetState()
	w.brains[id] = p.brain
	w.memories[id] = neural.NewMemory(cfg.Sleep.MemorySize)
	trail := components.NewTrail(cfg.Render.TrailPoints)
	w.trails[id] = &trail

	entity := w.mapper.NewEntity(&pos, &vel, &rot, &energy, &ts, &org, &sleep)
	w.byID[id] = entity
	w.alive++

	return id
}

// normalizeHeading32 wraps a heading into [0, 2*Pi).
func normalizeHeading32(h float32) float32 {
	const twoPi = 2 * math.Pi
	for h < 0 {
		h += twoPi
	}
	for h >= twoPi {
		h -= twoPi
	}
	return h
}

// Tick returns the number of completed simulation steps.
func (w *World) Tick() int64 { return w.tick }

// Time returns elapsed simulation time in seconds.
func (w *World) Time() float64 { return w.timeS }

// Population returns the number of living organisms.
func (w *World) Population() int { return w.alive }

// Env returns the shared climate model.
func (w *World) Env() *systems.Environment { return w.env }

// Foods returns the live food list. Callers must not retain it across
// ticks.
func (w *World) Foods() []components.Food { return w.foods }

// Collector returns the birth/death counters.
func (w *World) Collector() *telemetry.Collector { return w.collector }

// OrganismView is a read-only snapshot of one organism for rendering and
// inspection. Trail and Home alias live state and must not be mutated.
type OrganismView struct {
	ID         uint32
	Generation int32
	Sex        components.Sex
	X, Y       float32
	Heading    float32
	Energy     float32
	Age        float32
	Traits     traits.Set
	Asleep     bool

	HasTarget        bool
	TargetX, TargetY float32

	Trail *components.Trail
	Home  *components.Home
}

// Organisms appends a view of every living organism to dst and returns it.
func (w *World) Organisms(dst []OrganismView) []OrganismView {
	query := w.filter.Query()
	for query.Next() {
		pos, _, rot, energy, ts, org, sleep := query.Get()
		if !energy.Alive {
			continue
		}
		dst = append(dst, OrganismView{
			ID:         org.ID,
			Generation: org.Generation,
			Sex:        org.Sex,
			X:          pos.X,
			Y:          pos.Y,
			Heading:    rot.Heading,
			Energy:     energy.Value,
			Age:        energy.Age,
			Traits:     *ts,
			Asleep:     !sleep.Awake,
			HasTarget:  org.HasTarget,
			TargetX:    org.TargetX,
			TargetY:    org.TargetY,
			Trail:      w.trails[org.ID],
			Home:       w.homes[org.ID],
		})
	}
	return dst
}

// Brain returns the controller for an organism ID, for the inspector.
func (w *World) Brain(id uint32) (*neural.Brain, bool) {
	b, ok := w.brains[id]
	return b, ok
}
