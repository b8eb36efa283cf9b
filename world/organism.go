package world

import (
	"math"

	"github.com/calehm/pond/components"
	"github.com/calehm/pond/config"
	"github.com/calehm/pond/neural"
	"github.com/calehm/pond/systems"
	"github.com/calehm/pond/traits"
)

// stepOrganisms advances every living organism by one tick: sensing, the
// brain, reflexes, motion, eating, metabolism, and learning. Sleeping
// organisms run the dream step instead.
func (w *World) stepOrganisms() {
	cfg := config.Cfg()
	dt := cfg.Derived.DT32

	query := w.filter.Query()
	for query.Next() {
		pos, vel, rot, energy, ts, org, sleep := query.Get()
		if !energy.Alive {
			continue
		}
		brain, ok := w.brains[org.ID]
		if !ok {
			continue
		}

		if !sleep.Awake {
			w.stepAsleep(energy, ts, sleep, brain, org.ID, dt)
			continue
		}
		w.stepAwake(pos, vel, rot, energy, ts, org, sleep, brain, dt)

		// A non-finite state means the organism's dynamics blew up.
		// Kill it rather than poisoning the rest of the tick.
		if !finite(energy.Value) || !finite(pos.X) || !finite(pos.Y) {
			energy.Value = 0
			energy.Alive = false
		}
	}
}

// stepAwake runs one full control step for an awake organism.
func (w *World) stepAwake(
	pos *components.Position,
	vel *components.Velocity,
	rot *components.Rotation,
	energy *components.Energy,
	ts *traits.Set,
	org *components.Organism,
	sleep *components.Sleep,
	brain *neural.Brain,
	dt float32,
) {
	cfg := config.Cfg()
	energyBefore := energy.Value

	// Sense.
	fovRad := ts.FOVDeg * math.Pi / 180
	w.hits = systems.RaycastCone(w.hits[:0], pos.X, pos.Y, rot.Heading, fovRad, ts.Range, cfg.Sensors.Rays, w.foods)
	left, right := systems.Signals(w.hits, ts.Range)

	if n := systems.Nearest(w.hits); n >= 0 {
		f := &w.foods[w.hits[n].Index]
		org.HasTarget = true
		org.TargetX, org.TargetY = f.X, f.Y
	} else {
		org.HasTarget = false
	}

	// Brain inputs.
	speedNow := systems.Speed(vel)
	inputs := [neural.NumInputs]float32{
		left,
		right,
		systems.EnergyNorm(energy.Value),
		min32(1, speedNow/float32(cfg.Physics.MaxSpeed)),
		min32(1, energy.Age/float32(cfg.Energy.MaxAge)),
		1,
	}
	org.LastInputs = inputs

	turn, thrust := brain.Forward(&inputs)

	// Reflex assist: steer toward the stronger signal, keep moving when
	// confident, damp twitching when the signals are balanced.
	conf := max32(left, right)
	if abs32(left-right) < float32(cfg.Reflex.Tolerance) {
		turn *= float32(cfg.Reflex.TurnDamp)
	}
	floor := min32(1, float32(cfg.Reflex.ThrustFloorMin)+float32(cfg.Reflex.ThrustFloorMax)*conf)
	thrust = max32(thrust, floor)
	blend := float32(cfg.Reflex.Blend)
	turn = blend*turn + (1-blend)*(right-left)

	org.LastTurn = turn
	org.LastThrust = thrust

	// Motion.
	speed := systems.IntegrateMotion(pos, vel, rot, turn, thrust, ts.ThrustEff)
	w.trails[org.ID].Push(pos.X, pos.Y)

	// Eat at most one food per tick.
	ate := false
	eatR2 := float32(cfg.Energy.EatRadius * cfg.Energy.EatRadius)
	for i := range w.foods {
		if w.foods[i].Eaten {
			continue
		}
		dx, dy := systems.TorusDelta(pos.X, pos.Y, w.foods[i].X, w.foods[i].Y, cfg.Derived.WorldW32, cfg.Derived.WorldH32)
		if dx*dx+dy*dy <= eatR2 {
			w.foods[i].Eaten = true
			energy.Value += float32(cfg.Energy.FoodEnergy)
			ate = true
			break
		}
	}
	if ate {
		w.maybeRespawnFood()
	}

	// Metabolism and senescence.
	cost := systems.MetabolismCost(speed, ts.MetabolismEff, true) * dt
	cost += systems.SenescenceCost(energy.Age, dt)
	died := systems.Drain(energy, cost)
	energy.Age += dt

	// Reward-modulated learning: the energy delta this tick, clipped.
	reward := clampF32(energy.Value-energyBefore, -1, 1)

	w.memories[org.ID].Push(neural.Experience{
		Inputs: inputs,
		Action: [neural.NumOutputs]float32{turn, thrust},
		Reward: reward,
	})
	brain.ApplyPlasticity(reward * devLearningScale(energy.Age))

	if !died {
		w.updateSleepPressure(sleep, dt)
	}
}

// stepAsleep runs one sleep tick: reduced metabolism, dream replay learning,
// and pressure recovery. The body does not move and cannot eat.
func (w *World) stepAsleep(
	energy *components.Energy,
	ts *traits.Set,
	sleep *components.Sleep,
	brain *neural.Brain,
	id uint32,
	dt float32,
) {
	cfg := config.Cfg()

	cost := systems.MetabolismCost(0, ts.MetabolismEff, false) * float32(cfg.Sleep.MetabolismFactor) * dt
	if systems.Drain(energy, cost) {
		sleep.Awake = true
		return
	}
	energy.Age += dt

	// Dream replay: fractional steps accumulate across ticks so small dt
	// still yields the configured replay rate.
	sleep.DreamAccum += float32(cfg.Sleep.DreamStepsPerSec) * dt
	steps := int(sleep.DreamAccum)
	sleep.DreamAccum -= float32(steps)

	memory := w.memories[id]
	scale := devLearningScale(energy.Age)
	noise := cfg.Sleep.DreamNoise
	for i := 0; i < steps; i++ {
		exp, ok := memory.Sample(w.rng)
		if !ok {
			break
		}
		noisy := exp.Inputs
		for j := range noisy {
			noisy[j] += float32(w.rng.NormFloat64() * noise)
		}
		brain.Forward(&noisy)
		brain.ApplyPlasticity(exp.Reward * scale)
	}

	sleep.Pressure = max32(0, sleep.Pressure-float32(cfg.Sleep.RecoveryRate)*dt)
	sleep.DreamTimer -= dt
	if sleep.DreamTimer <= 0 {
		sleep.Awake = true
	}
}

// updateSleepPressure accumulates sleep pressure and decides whether the
// organism falls asleep. Darkness raises the drive, so sleep clusters at
// night without being impossible by day.
func (w *World) updateSleepPressure(sleep *components.Sleep, dt float32) {
	cfg := config.Cfg()

	sleep.Pressure = min32(1.5, sleep.Pressure+float32(cfg.Sleep.PressureRate)*dt)

	circadian := float32(1 - w.env.DayNight())
	nightWeight := float32(cfg.Sleep.NightWeight)
	drive := sleep.Pressure * (nightWeight*circadian + (1 - nightWeight))

	if drive > float32(cfg.Sleep.MinPressure) {
		sleep.Awake = false
		sleep.DreamTimer = 2 + 4*min32(1, sleep.Pressure)
	}
}

// maybeRespawnFood rolls the weather- and population-aware food respawn
// after an organism eats. A random spot is sampled and its local growth
// rate sets the probability; crowded worlds respawn less.
func (w *World) maybeRespawnFood() {
	cfg := config.Cfg()
	if !cfg.World.FoodRespawn || len(w.foods) >= cfg.World.MaxFood {
		return
	}

	target := cfg.World.TargetPop
	if target < 1 {
		target = 1
	}
	kPop := math.Max(0.15, 1-float64(w.alive)/float64(target))

	fx := w.rng.Float32() * cfg.Derived.WorldW32
	fy := w.rng.Float32() * cfg.Derived.WorldH32
	growth := w.env.GrowthRateAt(float64(fy))

	prob := kPop * growth * cfg.Physics.DT
	if prob > 1 {
		prob = 1
	}
	if prob > 0 && w.rng.Float64() < prob {
		w.foods = append(w.foods, components.Food{X: fx, Y: fy})
	}
}

// devLearningScale scales learning by age: juveniles learn at full rate,
// adults decay toward the configured floor.
func devLearningScale(age float32) float32 {
	cfg := config.Cfg()
	half := float32(cfg.Brain.LearningAgeHalf)
	if half <= 0 {
		half = 1e-6
	}
	base := 1 / (1 + age/half)
	minScale := float32(cfg.Brain.LearningMin)
	return minScale + (1-minScale)*base
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
