// Package telemetry collects per-window simulation statistics and writes
// them to CSV for offline analysis.
package telemetry

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats is one row of world_log.csv. Column names are the analysis
// scripts' contract; changing them breaks downstream plots.
type WindowStats struct {
	TimeS        float64 `csv:"time_s"`
	Population   int     `csv:"population"`
	Births       int     `csv:"births"`
	Deaths       int     `csv:"deaths"`
	Foods        int     `csv:"foods"`
	AvgFOV       float64 `csv:"avg_fov"`
	AvgRange     float64 `csv:"avg_range"`
	AvgThrustEff float64 `csv:"avg_thrust_eff"`
	AvgMetaEff   float64 `csv:"avg_meta_eff"`
	TempMidLat   float64 `csv:"temp_mid_lat"`
	Precip       float64 `csv:"precip"`
	DayNight     float64 `csv:"day_night"`
	Device       string  `csv:"device"`
}

// TraitAggregate summarizes one heritable trait across the population.
type TraitAggregate struct {
	Mean   float64
	StdDev float64
}

// Aggregate computes mean and standard deviation of a trait sample.
// Empty samples yield zeros.
func Aggregate(values []float64) TraitAggregate {
	if len(values) == 0 {
		return TraitAggregate{}
	}
	mean, std := stat.MeanStdDev(values, nil)
	if len(values) < 2 {
		std = 0
	}
	return TraitAggregate{Mean: mean, StdDev: std}
}

// TraitRange is the min/mean/max of one value across the population.
type TraitRange struct {
	Min, Mean, Max float64
}

// SummarizeTrait computes a TraitRange. Empty samples yield zeros.
func SummarizeTrait(values []float64) TraitRange {
	if len(values) == 0 {
		return TraitRange{}
	}
	return TraitRange{
		Min:  floats.Min(values),
		Mean: stat.Mean(values, nil),
		Max:  floats.Max(values),
	}
}

// PopulationSnapshot is a point-in-time summary of the living population,
// richer than a CSV row. Used by the status line and the inspector.
type PopulationSnapshot struct {
	Population int
	MeanAge    float64
	MaxAge     float64
	MeanEnergy float64

	FOV    TraitRange
	Range  TraitRange
	Thrust TraitRange
	Meta   TraitRange
}
