package world

import "github.com/mlange-42/ark/ecs"

// cleanupDead removes dead organisms and their side-table state. Collection
// and removal are separate passes; entities are never removed while a query
// is iterating.
func (w *World) cleanupDead() {
	type deadInfo struct {
		entity ecs.Entity
		id     uint32
	}
	var toRemove []deadInfo

	query := w.filter.Query()
	for query.Next() {
		_, _, _, energy, _, org, _ := query.Get()
		if !energy.Alive {
			toRemove = append(toRemove, deadInfo{entity: query.Entity(), id: org.ID})
		}
	}

	for _, dead := range toRemove {
		w.mapper.Remove(dead.entity)
		delete(w.brains, dead.id)
		delete(w.memories, dead.id)
		delete(w.trails, dead.id)
		delete(w.homes, dead.id)
		delete(w.byID, dead.id)
		w.alive--
		w.collector.RecordDeath()
	}
}
