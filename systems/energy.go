package systems

import (
	"github.com/calehm/pond/components"
	"github.com/calehm/pond/config"
)

// MetabolismCost returns the energy drain per second for an organism moving
// at speed with the given metabolism efficiency trait. Base upkeep and the
// speed term scale with the trait; the brain-compute term is flat and paid
// only while the controller runs (it is skipped during sleep).
func MetabolismCost(speed, metabolismEff float32, brainTick bool) float32 {
	cfg := config.Cfg()
	cost := float32(cfg.Energy.MetabolismBase) * metabolismEff
	cost += float32(cfg.Energy.MetabolismSpeedCoef) * speed * metabolismEff
	if brainTick {
		cost += float32(cfg.Energy.MetabolismBrainCoef)
	}
	return cost
}

// SenescenceCost returns the extra drain over dt once age exceeds the
// maximum lifespan. The overshoot grows linearly, so death follows quickly
// but not instantly.
func SenescenceCost(age, dt float32) float32 {
	cfg := config.Cfg()
	maxAge := float32(cfg.Energy.MaxAge)
	if age <= maxAge {
		return 0
	}
	return float32(cfg.Energy.SenescenceRate) * (age - maxAge) * dt
}

// Drain applies a cost to an energy component and flips Alive exactly once
// when the value crosses zero. Returns true if the organism died this call.
func Drain(en *components.Energy, cost float32) bool {
	if !en.Alive {
		return false
	}
	en.Value -= cost
	if en.Value <= 0 {
		en.Value = 0
		en.Alive = false
		return true
	}
	return false
}

// EnergyNorm maps absolute energy to the [0,1] input channel fed to the
// brain, saturating just above the reproduction threshold.
func EnergyNorm(value float32) float32 {
	cfg := config.Cfg()
	return clamp01(value / float32(cfg.Reproduction.Threshold+1))
}
