package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats is one row of the telemetry CSV, covering a stats window.
type WindowStats struct {
	WindowEndTick int32   `csv:"tick"`
	SimTimeSec    float64 `csv:"sim_time_sec"`

	Recyclers int `csv:"recyclers"`
	Producers int `csv:"producers"`
	Predators int `csv:"predators"`

	Births          int     `csv:"births"`
	Deaths          int     `csv:"deaths"`
	HuntAttempts    int     `csv:"hunt_attempts"`
	Kills           int     `csv:"kills"`
	KillRate        float64 `csv:"kill_rate"`
	BiomassConsumed float64 `csv:"biomass_consumed"`

	BiomassParticles int     `csv:"biomass_particles"`
	BiomassMass      float64 `csv:"biomass_mass"`

	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	MeanOxygen     float64 `csv:"mean_oxygen"`
	MeanCO2        float64 `csv:"mean_co2"`
	MeanNitrogen   float64 `csv:"mean_nitrogen"`
	MeanPheromone  float64 `csv:"mean_pheromone"`
	MeanToxin      float64 `csv:"mean_toxin"`
	MeanAttractant float64 `csv:"mean_attractant"`
}

// LogStats emits the window as a structured log record.
func (w WindowStats) LogStats() {
	slog.Info("window stats", "stats", w)
}

// LogValue groups the row for slog output.
func (w WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", int(w.WindowEndTick)),
		slog.Float64("sim_time", w.SimTimeSec),
		slog.Int("recyclers", w.Recyclers),
		slog.Int("producers", w.Producers),
		slog.Int("predators", w.Predators),
		slog.Int("births", w.Births),
		slog.Int("deaths", w.Deaths),
		slog.Int("kills", w.Kills),
		slog.Float64("kill_rate", w.KillRate),
		slog.Float64("energy_mean", w.EnergyMean),
		slog.Float64("o2", w.MeanOxygen),
		slog.Float64("co2", w.MeanCO2),
		slog.Float64("nitrogen", w.MeanNitrogen),
	)
}

// EnergyStats computes mean, standard deviation, and the 10/50/90
// percentiles of the sample. Zero values for an empty sample.
func EnergyStats(energies []float64) (mean, std, p10, p50, p90 float64) {
	if len(energies) == 0 {
		return 0, 0, 0, 0, 0
	}
	mean = stat.Mean(energies, nil)
	if len(energies) > 1 {
		std = stat.StdDev(energies, nil)
	}

	sorted := make([]float64, len(energies))
	copy(sorted, energies)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, std, p10, p50, p90
}
