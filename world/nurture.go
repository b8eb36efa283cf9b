package world

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/calehm/pond/components"
	"github.com/calehm/pond/config"
	"github.com/calehm/pond/systems"
)

// updateCare runs the parental-care phase: parents may establish homes,
// feed nearby dependent children from their surplus, and children young
// enough to need care pay a small penalty when nobody fed them this tick.
func (w *World) updateCare() {
	cfg := config.Cfg()
	dt := cfg.Derived.DT32
	depAge := float32(cfg.Homes.DependencyAge)

	cared := make(map[uint32]bool)

	query := w.filter.Query()
	for query.Next() {
		pos, _, _, energy, _, org, _ := query.Get()
		if !energy.Alive || len(org.Dependents) == 0 {
			continue
		}

		w.maybeBuildHome(org.ID, pos.X, pos.Y, energy)

		for childID := range org.Dependents {
			childEntity, ok := w.byID[childID]
			if !ok {
				// Child no longer exists.
				delete(org.Dependents, childID)
				continue
			}
			if w.nurtureChild(pos.X, pos.Y, energy, childEntity, depAge) {
				cared[childID] = true
			}
		}
	}

	// Orphan penalty: young organisms nobody cared for this tick lose a
	// little extra energy.
	penalty := float32(1-cfg.Homes.OrphanPenalty) * 0.01 * dt
	query = w.filter.Query()
	for query.Next() {
		_, _, _, energy, _, org, _ := query.Get()
		if !energy.Alive || energy.Age >= depAge || cared[org.ID] {
			continue
		}
		systems.Drain(energy, penalty)
	}
}

// maybeBuildHome places a home at the caregiver's position once it can
// afford the cost on top of its reproduction reserve.
func (w *World) maybeBuildHome(id uint32, x, y float32, energy *components.Energy) {
	cfg := config.Cfg()
	if !cfg.Homes.Enabled {
		return
	}
	if home, ok := w.homes[id]; ok && home.Built {
		return
	}
	cost := float32(cfg.Homes.BuildCost)
	if energy.Value < float32(cfg.Reproduction.Threshold)+cost {
		return
	}
	energy.Value -= cost
	w.homes[id] = &components.Home{Built: true, X: x, Y: y}
}

// nurtureChild transfers a share of the parent's surplus to a dependent
// child within care range. Returns true if the child was fed.
func (w *World) nurtureChild(px, py float32, parentEnergy *components.Energy, childEntity ecs.Entity, depAge float32) bool {
	cfg := config.Cfg()

	childEnergy := w.energyMap.Get(childEntity)
	childPos := w.posMap.Get(childEntity)
	if childEnergy == nil || childPos == nil || !childEnergy.Alive {
		return false
	}
	if childEnergy.Age >= depAge {
		return false
	}

	dx, dy := systems.TorusDelta(px, py, childPos.X, childPos.Y, cfg.Derived.WorldW32, cfg.Derived.WorldH32)
	radius := float32(cfg.Homes.Radius)
	if dx*dx+dy*dy > radius*radius {
		return false
	}

	surplus := parentEnergy.Value - float32(cfg.Reproduction.Threshold)
	if surplus <= 0 {
		return false
	}

	transfer := surplus * float32(cfg.Homes.FeedShare)
	parentEnergy.Value -= transfer
	childEnergy.Value += transfer
	return true
}
