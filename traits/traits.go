// Package traits defines the heritable scalar traits and their genetics.
//
// Traits mutate at reproduction time (across generations); this is distinct
// from the within-lifetime plasticity in the neural package.
package traits

import (
	"math/rand"

	"github.com/calehm/pond/config"
)

// Set holds one organism's heritable traits. Values always lie within the
// configured bounds after any inheritance path.
type Set struct {
	FOVDeg        float32 // perception cone width, degrees
	Range         float32 // perception distance, px
	ThrustEff     float32 // thrust multiplier
	MetabolismEff float32 // metabolic cost multiplier
}

// Defaults returns the founder trait set from configuration.
func Defaults() Set {
	cfg := config.Cfg()
	return Set{
		FOVDeg:        float32(cfg.Sensors.FOVDegDefault),
		Range:         float32(cfg.Sensors.RangeDefault),
		ThrustEff:     1.0,
		MetabolismEff: 1.0,
	}
}

// MutateVal mutates a scalar trait value. With probability mutation.rate it
// adds Gaussian noise with std mutation.scale, then clamps to [vmin, vmax].
func MutateVal(base, vmin, vmax float32, rng *rand.Rand) float32 {
	cfg := config.Cfg()
	val := base
	if rng.Float64() < cfg.Mutation.Rate {
		val += float32(rng.NormFloat64() * cfg.Mutation.Scale)
	}
	if val < vmin {
		val = vmin
	}
	if val > vmax {
		val = vmax
	}
	return val
}

// Inherit returns the asexual child trait set: each parent trait mutated
// independently and clamped to its configured bounds.
func (s Set) Inherit(rng *rand.Rand) Set {
	b := config.Cfg().Traits
	return Set{
		FOVDeg:        MutateVal(s.FOVDeg, float32(b.FOVMin), float32(b.FOVMax), rng),
		Range:         MutateVal(s.Range, float32(b.RangeMin), float32(b.RangeMax), rng),
		ThrustEff:     MutateVal(s.ThrustEff, float32(b.ThrustMin), float32(b.ThrustMax), rng),
		MetabolismEff: MutateVal(s.MetabolismEff, float32(b.MetaMin), float32(b.MetaMax), rng),
	}
}

// Cross returns the sexual child trait set: each trait is drawn uniformly
// from one of the two parents, then mutated. Independent assortment, not
// blending.
func Cross(a, b Set, rng *rand.Rand) Set {
	pick := func(x, y float32) float32 {
		if rng.Float64() < 0.5 {
			return x
		}
		return y
	}
	bounds := config.Cfg().Traits
	return Set{
		FOVDeg:        MutateVal(pick(a.FOVDeg, b.FOVDeg), float32(bounds.FOVMin), float32(bounds.FOVMax), rng),
		Range:         MutateVal(pick(a.Range, b.Range), float32(bounds.RangeMin), float32(bounds.RangeMax), rng),
		ThrustEff:     MutateVal(pick(a.ThrustEff, b.ThrustEff), float32(bounds.ThrustMin), float32(bounds.ThrustMax), rng),
		MetabolismEff: MutateVal(pick(a.MetabolismEff, b.MetabolismEff), float32(bounds.MetaMin), float32(bounds.MetaMax), rng),
	}
}
