// Package main provides CMA-ES optimization for broth simulation parameters.
package main

import (
	"github.com/pthm-cable/broth/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// The goal is three-role coexistence, so the knobs chosen are the ones
// that shift energy flow between the roles.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Movement
			{Name: "chemotaxis_gain", Path: "movement.chemotaxis_gain", Min: 0.2, Max: 2.5, Default: 0.9},
			{Name: "flagella_strength", Path: "movement.flagella_strength", Min: 0.04, Max: 0.30, Default: 0.12},
			// Recycler
			{Name: "recycler_efficiency", Path: "recycler.efficiency", Min: 0.2, Max: 2.0, Default: 0.8},
			{Name: "recycler_assimilation", Path: "recycler.assimilation", Min: 0.3, Max: 0.9, Default: 0.6},
			{Name: "nitrogen_yield", Path: "recycler.nitrogen_yield", Min: 0.1, Max: 0.8, Default: 0.4},
			// Producer
			{Name: "photosynthesis_rate", Path: "producer.photosynthesis_rate", Min: 0.1, Max: 2.0, Default: 0.5},
			{Name: "oxygen_yield", Path: "producer.oxygen_yield", Min: 0.3, Max: 1.5, Default: 0.8},
			// Predator
			{Name: "hunt_success_rate", Path: "predator.success_rate", Min: 0.05, Max: 0.7, Default: 0.3},
			{Name: "pack_bonus", Path: "predator.pack_bonus", Min: 0.0, Max: 0.5, Default: 0.15},
			{Name: "transfer_fraction", Path: "predator.transfer_fraction", Min: 0.2, Max: 0.8, Default: 0.5},
			// Energy and reproduction
			{Name: "consumption_rate", Path: "energy.consumption_rate", Min: 0.005, Max: 0.08, Default: 0.02},
			{Name: "repro_threshold", Path: "reproduction.threshold", Min: 1.0, Max: 3.0, Default: 1.5},
			{Name: "repro_probability", Path: "reproduction.probability", Min: 0.005, Max: 0.10, Default: 0.02},
			// Field
			{Name: "decay_scale", Path: "field.decay_scale", Min: 0.3, Max: 3.0, Default: 1.0},
			{Name: "diffusion_scale", Path: "field.diffusion_scale", Min: 0.3, Max: 3.0, Default: 1.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	v := pv.Clamp(values)
	i := 0

	cfg.Movement.ChemotaxisGain = v[i]
	i++
	cfg.Movement.FlagellaStrength = v[i]
	i++

	cfg.Recycler.Efficiency = v[i]
	i++
	cfg.Recycler.Assimilation = v[i]
	i++
	cfg.Recycler.NitrogenYield = v[i]
	i++

	cfg.Producer.PhotosynthesisRate = v[i]
	i++
	cfg.Producer.OxygenYield = v[i]
	i++

	cfg.Predator.SuccessRate = v[i]
	i++
	cfg.Predator.PackBonus = v[i]
	i++
	cfg.Predator.TransferFraction = v[i]
	i++

	cfg.Energy.ConsumptionRate = v[i]
	i++
	cfg.Reproduction.Threshold = v[i]
	i++
	cfg.Reproduction.Probability = v[i]
	i++

	cfg.Field.DecayScale = v[i]
	i++
	cfg.Field.DiffusionScale = v[i]

	cfg.ComputeDerived()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Movement.ChemotaxisGain,
		cfg.Movement.FlagellaStrength,
		cfg.Recycler.Efficiency,
		cfg.Recycler.Assimilation,
		cfg.Recycler.NitrogenYield,
		cfg.Producer.PhotosynthesisRate,
		cfg.Producer.OxygenYield,
		cfg.Predator.SuccessRate,
		cfg.Predator.PackBonus,
		cfg.Predator.TransferFraction,
		cfg.Energy.ConsumptionRate,
		cfg.Reproduction.Threshold,
		cfg.Reproduction.Probability,
		cfg.Field.DecayScale,
		cfg.Field.DiffusionScale,
	}
}
