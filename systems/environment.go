package systems

import (
	"math"
	"math/rand"

	"github.com/calehm/pond/config"
)

// Environment models the shared climate: a day/night cycle, a seasonal
// precipitation cycle, and a latitude temperature gradient. Food regrowth
// rates are derived from all three. All climate math is float64; only the
// per-organism hot paths use float32.
type Environment struct {
	rng   *rand.Rand
	timeS float64

	dayNight float64 // 0 = midnight, 1 = noon
	precip   float64 // [0,1]
}

// NewEnvironment creates the climate model at time zero.
func NewEnvironment(rng *rand.Rand) *Environment {
	e := &Environment{rng: rng}
	e.recompute()
	return e
}

// Update advances the climate clock by dt seconds.
func (e *Environment) Update(dt float64) {
	e.timeS += dt
	e.recompute()
}

func (e *Environment) recompute() {
	cfg := config.Cfg()

	e.dayNight = 0.5 * (1 - math.Cos(2*math.Pi*e.timeS/cfg.Environment.DayLength))

	p := cfg.Environment.BasePrecip +
		cfg.Environment.PrecipVariation*math.Cos(2*math.Pi*e.timeS/cfg.Environment.YearLength) +
		(e.rng.Float64()*2-1)*cfg.Environment.PrecipNoise
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	e.precip = p
}

// Time returns the climate clock in seconds.
func (e *Environment) Time() float64 { return e.timeS }

// DayNight returns the light level, 0 at midnight and 1 at noon.
func (e *Environment) DayNight() float64 { return e.dayNight }

// Precip returns the current precipitation level in [0,1].
func (e *Environment) Precip() float64 { return e.precip }

// TemperatureAtY returns the temperature in degrees at vertical position y.
// The world's vertical middle is the equator; the top and bottom edges are
// poles. Seasonal swing grows toward the poles and follows the year cycle.
func (e *Environment) TemperatureAtY(y float64) float64 {
	cfg := config.Cfg()
	lat := math.Abs(y/float64(cfg.Derived.WorldH32)-0.5) * 2
	if lat > 1 {
		lat = 1
	}

	mean := cfg.Environment.EquatorTemp + (cfg.Environment.PoleTemp-cfg.Environment.EquatorTemp)*lat
	amp := cfg.Environment.EquatorSeasonal + (cfg.Environment.PoleSeasonal-cfg.Environment.EquatorSeasonal)*lat
	season := math.Cos(2 * math.Pi * e.timeS / cfg.Environment.YearLength)

	return mean + amp*season
}

// GrowthRateAt returns the food regrowth multiplier at vertical position y.
// Growth peaks at the optimal temperature and falls off quadratically,
// reaching zero at the tolerance; precipitation and daylight each scale it
// with a 30% floor so night and drought slow growth without stopping it.
// A small noise term keeps the rate from being perfectly periodic.
func (e *Environment) GrowthRateAt(y float64) float64 {
	cfg := config.Cfg()

	t := e.TemperatureAtY(y)
	dev := (t - cfg.Environment.OptimalTemp) / cfg.Environment.TempTolerance
	tempFactor := math.Max(0, 1-dev*dev)

	g := cfg.Environment.BaseRegrowth * tempFactor *
		(0.3 + 0.7*e.precip) *
		(0.3 + 0.7*e.dayNight)
	g += (e.rng.Float64()*2 - 1) * cfg.Environment.GrowthNoise
	if g < 0 {
		g = 0
	}
	return g
}

// MidLatTemperature returns the temperature halfway between the equator and
// a pole, the reference value logged to telemetry.
func (e *Environment) MidLatTemperature() float64 {
	cfg := config.Cfg()
	return e.TemperatureAtY(float64(cfg.Derived.WorldH32) * 0.25)
}
