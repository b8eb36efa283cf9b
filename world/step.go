package world

import "github.com/calehm/pond/config"

// Step advances the whole world by one fixed tick:
//
//  1. climate update
//  2. organism steps (sensing, brains, motion, eating, learning, sleep)
//  3. reproduction
//  4. parental care and orphan penalties
//  5. dead removal
//  6. food compaction and cap
//
// Eaten food is only marked during the organism pass; it disappears here,
// so every organism within one tick saw the same food list.
func (w *World) Step() {
	cfg := config.Cfg()
	dt := cfg.Physics.DT

	w.timeS += dt
	w.env.Update(dt)

	w.stepOrganisms()
	w.updateReproduction()
	w.updateCare()
	w.cleanupDead()
	w.compactFood()

	w.tick++
}

// compactFood removes eaten food in place and enforces the hard cap.
func (w *World) compactFood() {
	cfg := config.Cfg()

	kept := w.foods[:0]
	for i := range w.foods {
		if !w.foods[i].Eaten {
			kept = append(kept, w.foods[i])
		}
	}
	w.foods = kept

	if len(w.foods) > cfg.World.MaxFood {
		w.foods = w.foods[:cfg.World.MaxFood]
	}
}
