package world

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/calehm/pond/components"
	"github.com/calehm/pond/config"
	"github.com/calehm/pond/neural"
	"github.com/calehm/pond/systems"
	"github.com/calehm/pond/traits"
)

// updateReproduction runs the configured reproduction pass. The mode is
// fixed for the lifetime of the world.
func (w *World) updateReproduction() {
	if config.Cfg().Reproduction.Mode == config.ReproAsexual {
		w.reproduceAsexual()
		return
	}
	w.reproduceSexual()
}

// reproduceAsexual lets every organism over the energy threshold bud off a
// mutated child next to itself. The parent pays immediately; children spawn
// after the query completes.
func (w *World) reproduceAsexual() {
	cfg := config.Cfg()
	threshold := float32(cfg.Reproduction.Threshold)

	type budInfo struct {
		parentID   uint32
		generation int32
		x, y       float32
		heading    float32
		energy     float32
		ts         traits.Set
		brain      *neural.Brain
	}
	var births []budInfo

	query := w.filter.Query()
	for query.Next() {
		pos, _, rot, energy, ts, org, _ := query.Get()
		if !energy.Alive || energy.Value < threshold {
			continue
		}
		brain, ok := w.brains[org.ID]
		if !ok {
			continue
		}

		childEnergy := energy.Value * float32(cfg.Reproduction.ChildTake)
		energy.Value *= float32(cfg.Reproduction.ParentKeep)

		births = append(births, budInfo{
			parentID:   org.ID,
			generation: org.Generation + 1,
			x:          pos.X,
			y:          pos.Y,
			heading:    rot.Heading,
			energy:     childEnergy,
			ts:         *ts,
			brain:      brain,
		})
	}

	for _, b := range births {
		brain := b.brain.CopyMutated(w.rng)
		if w.rng.Float64() < 0.5 {
			brain.SwapInputChannels()
		}

		offset := float32(cfg.Reproduction.SpawnOffset)
		childID := w.spawnOrganism(spawnParams{
			x:          wrap32(b.x+(w.rng.Float32()*2-1)*offset, cfg.Derived.WorldW32),
			y:          wrap32(b.y+(w.rng.Float32()*2-1)*offset, cfg.Derived.WorldH32),
			heading:    b.heading + (w.rng.Float32()*2-1)*0.25,
			energy:     b.energy,
			ts:         b.ts.Inherit(w.rng),
			brain:      brain,
			sex:        w.randomSex(),
			generation: b.generation,
			parents:    [2]uint32{b.parentID},
			numParents: 1,
		})
		w.addDependent(b.parentID, childID)
		w.recordBirth(b.generation)
	}
}

// matingCandidate is a snapshot of one eligible organism, taken before the
// pairing scan so the scan order is the stable population order.
type matingCandidate struct {
	entity ecs.Entity
	id     uint32
	sex    components.Sex
	x, y   float32
	gen    int32
}

// reproduceSexual pairs opposite-sex organisms over the energy threshold.
// Each seeker picks the nearest willing partner within the mating radius;
// an organism mates at most once per tick. The child pools energy from both
// parents and spawns between them.
func (w *World) reproduceSexual() {
	cfg := config.Cfg()
	threshold := float32(cfg.Reproduction.Threshold)

	var cands []matingCandidate
	query := w.filter.Query()
	for query.Next() {
		pos, _, _, energy, _, org, _ := query.Get()
		if !energy.Alive || energy.Value < threshold {
			continue
		}
		cands = append(cands, matingCandidate{
			entity: query.Entity(),
			id:     org.ID,
			sex:    org.Sex,
			x:      pos.X,
			y:      pos.Y,
			gen:    org.Generation,
		})
	}

	for id := range w.bred {
		delete(w.bred, id)
	}

	radius2 := float32(cfg.Reproduction.MatingRadius * cfg.Reproduction.MatingRadius)
	drive := cfg.Reproduction.MatingDrive
	w32 := cfg.Derived.WorldW32
	h32 := cfg.Derived.WorldH32

	for i := range cands {
		a := &cands[i]
		if w.bred[a.id] {
			continue
		}
		if w.rng.Float64() > drive {
			continue
		}

		best := -1
		bestD2 := radius2
		for j := i + 1; j < len(cands); j++ {
			b := &cands[j]
			if w.bred[b.id] || b.sex == a.sex {
				continue
			}
			dx, dy := systems.TorusDelta(a.x, a.y, b.x, b.y, w32, h32)
			d2 := dx*dx + dy*dy
			if d2 <= bestD2 {
				bestD2 = d2
				best = j
			}
		}
		if best < 0 {
			continue
		}

		b := &cands[best]
		w.bred[a.id] = true
		w.bred[b.id] = true
		w.conceive(a, b)
	}
}

// conceive creates one child from a mated pair. Both parents pay the energy
// split; the child's brain is the mutated average of the parents'.
func (w *World) conceive(a, b *matingCandidate) {
	cfg := config.Cfg()

	aEnergy := w.energyMap.Get(a.entity)
	bEnergy := w.energyMap.Get(b.entity)
	aTraits := w.traitMap.Get(a.entity)
	bTraits := w.traitMap.Get(b.entity)
	aBrain, aOK := w.brains[a.id]
	bBrain, bOK := w.brains[b.id]
	if aEnergy == nil || bEnergy == nil || aTraits == nil || bTraits == nil || !aOK || !bOK {
		return
	}

	take := float32(cfg.Reproduction.ChildTake)
	keep := float32(cfg.Reproduction.ParentKeep)
	childEnergy := aEnergy.Value*take + bEnergy.Value*take
	aEnergy.Value *= keep
	bEnergy.Value *= keep

	brain := neural.Crossover(aBrain, bBrain).CopyMutated(w.rng)
	if w.rng.Float64() < 0.5 {
		brain.SwapInputChannels()
	}

	gen := a.gen
	if b.gen > gen {
		gen = b.gen
	}
	gen++

	childID := w.spawnOrganism(spawnParams{
		x:          wrap32((a.x+b.x)/2, cfg.Derived.WorldW32),
		y:          wrap32((a.y+b.y)/2, cfg.Derived.WorldH32),
		heading:    w.rng.Float32() * 2 * math.Pi,
		energy:     childEnergy,
		ts:         traits.Cross(*aTraits, *bTraits, w.rng),
		brain:      brain,
		sex:        w.randomSex(),
		generation: gen,
		parents:    [2]uint32{a.id, b.id},
		numParents: 2,
	})
	w.addDependent(a.id, childID)
	w.addDependent(b.id, childID)
	w.recordBirth(gen)
}

// addDependent registers a child for parental care.
func (w *World) addDependent(parentID, childID uint32) {
	entity, ok := w.byID[parentID]
	if !ok {
		return
	}
	if org := w.orgMap.Get(entity); org != nil {
		org.Dependents[childID] = struct{}{}
	}
}

// recordBirth updates the birth and mutation counters and the generation
// high-watermark. Every child's genome passed through mutation, so one
// mutation event is recorded per birth.
func (w *World) recordBirth(gen int32) {
	w.collector.RecordBirth()
	w.collector.RecordMutation()
	if gen > w.genHigh {
		w.genHigh = gen
	}
}

// randomSex flips a fair coin.
func (w *World) randomSex() components.Sex {
	if w.rng.Intn(2) == 0 {
		return components.Male
	}
	return components.Female
}

// wrap32 wraps a coordinate into [0, size), tolerating one period of
// overshoot either way.
func wrap32(v, size float32) float32 {
	if v < 0 {
		v += size
	}
	if v >= size {
		v -= size
	}
	return v
}
