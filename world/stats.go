package world

import (
	"log/slog"

	"github.com/calehm/pond/config"
	"github.com/calehm/pond/telemetry"
)

// GenerationHigh returns the highest generation born so far.
func (w *World) GenerationHigh() int32 { return w.genHigh }

// TraitMeans returns the population averages of the four heritable traits.
// An empty population yields zeros.
func (w *World) TraitMeans() (fov, rng, thrust, meta telemetry.TraitAggregate) {
	var fovs, rngs, thrusts, metas []float64

	query := w.filter.Query()
	for query.Next() {
		_, _, _, energy, ts, _, _ := query.Get()
		if !energy.Alive {
			continue
		}
		fovs = append(fovs, float64(ts.FOVDeg))
		rngs = append(rngs, float64(ts.Range))
		thrusts = append(thrusts, float64(ts.ThrustEff))
		metas = append(metas, float64(ts.MetabolismEff))
	}

	return telemetry.Aggregate(fovs), telemetry.Aggregate(rngs),
		telemetry.Aggregate(thrusts), telemetry.Aggregate(metas)
}

// Snapshot summarizes the living population: ages, energy, and the
// min/mean/max spread of every heritable trait.
func (w *World) Snapshot() telemetry.PopulationSnapshot {
	var ages, energies, fovs, rngs, thrusts, metas []float64

	query := w.filter.Query()
	for query.Next() {
		_, _, _, energy, ts, _, _ := query.Get()
		if !energy.Alive {
			continue
		}
		ages = append(ages, float64(energy.Age))
		energies = append(energies, float64(energy.Value))
		fovs = append(fovs, float64(ts.FOVDeg))
		rngs = append(rngs, float64(ts.Range))
		thrusts = append(thrusts, float64(ts.ThrustEff))
		metas = append(metas, float64(ts.MetabolismEff))
	}

	snap := telemetry.PopulationSnapshot{
		Population: len(ages),
		FOV:        telemetry.SummarizeTrait(fovs),
		Range:      telemetry.SummarizeTrait(rngs),
		Thrust:     telemetry.SummarizeTrait(thrusts),
		Meta:       telemetry.SummarizeTrait(metas),
	}
	if len(ages) > 0 {
		ageRange := telemetry.SummarizeTrait(ages)
		snap.MeanAge = ageRange.Mean
		snap.MaxAge = ageRange.Max
		snap.MeanEnergy = telemetry.SummarizeTrait(energies).Mean
	}
	return snap
}

// SampleStats builds one telemetry row and resets the birth/death window.
func (w *World) SampleStats() telemetry.WindowStats {
	births, deaths := w.collector.TakeWindow()
	fov, rng, thrust, meta := w.TraitMeans()

	return telemetry.WindowStats{
		TimeS:        w.timeS,
		Population:   w.alive,
		Births:       births,
		Deaths:       deaths,
		Foods:        len(w.foods),
		AvgFOV:       fov.Mean,
		AvgRange:     rng.Mean,
		AvgThrustEff: thrust.Mean,
		AvgMetaEff:   meta.Mean,
		TempMidLat:   w.env.MidLatTemperature(),
		Precip:       w.env.Precip(),
		DayNight:     w.env.DayNight(),
		Device:       "cpu",
	}
}

// LogStatus emits one structured status line about the world.
func (w *World) LogStatus() {
	births, deaths := w.collector.Totals()
	snap := w.Snapshot()
	slog.Info("world_status",
		"time_s", w.timeS,
		"tick", w.tick,
		"population", w.alive,
		"foods", len(w.foods),
		"births_total", births,
		"deaths_total", deaths,
		"mutations_total", w.collector.Mutations(),
		"gen_high", w.genHigh,
		"avg_age", snap.MeanAge,
		"avg_energy", snap.MeanEnergy,
		"day_night", w.env.DayNight(),
		"precip", w.env.Precip(),
		"growth_mid", w.env.GrowthRateAt(float64(config.Cfg().Derived.WorldH32)/2),
	)
}
