package main

import (
	"math"
	"sort"
	"sync"

	"github.com/pthm-cable/broth/components"
	"github.com/pthm-cable/broth/config"
	"github.com/pthm-cable/broth/game"
)

// Minimum viable population: if any role stays below this for
// extinctionGraceSec of sim time, it counts as functionally extinct.
const (
	minViablePop       = 3
	extinctionGraceSec = 30.0
	warmupSec          = 5.0
)

// windowSample is one per-window observation used for quality scoring.
type windowSample struct {
	counts    [components.NumRoles]int
	energyP50 float64
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32
	samples       []windowSample
}

// FitnessEvaluator runs headless simulations and computes fitness.
// ApplyToConfig mutates the global config, so evaluations are
// sequential; the seeds within one evaluation share the applied
// parameters and run in parallel.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		statsWindow: 10.0,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative survival ticks scaled by ecosystem quality, so
// longer and healthier coexistence scores lower.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	fe.params.ApplyToConfig(config.Cfg(), x)

	fitnesses := make([]float64, len(fe.seeds))
	qualities := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(s)
			quality := computeQuality(result.samples)
			fitnesses[idx] = -(float64(result.survivalTicks) * (1.0 + 0.2*quality))
			qualities[idx] = quality
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for i := range fitnesses {
		totalFitness += fitnesses[i]
		totalQuality += qualities[i]
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run until functional
// extinction of any role or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(seed int64) *runResult {
	cfg := config.Cfg()

	g, err := game.NewGame(game.Options{
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
	})
	if err != nil {
		return &runResult{}
	}
	defer g.Close()

	result := &runResult{}

	dt := cfg.World.DT
	warmupTicks := int32(warmupSec / dt)
	graceTicks := int32(extinctionGraceSec / dt)
	windowTicks := int32(fe.statsWindow / dt)

	var belowTicks [components.NumRoles]int32

	for g.Tick() < fe.maxTicks {
		g.Step()

		tick := g.Tick()
		if windowTicks > 0 && tick%windowTicks == 0 {
			result.samples = append(result.samples, sampleWindow(g))
		}
		if tick < warmupTicks {
			continue
		}

		counts := g.RoleCounts()
		for r := range counts {
			if counts[r] == 0 {
				result.survivalTicks = tick
				return result
			}
			if counts[r] < minViablePop {
				belowTicks[r]++
				if belowTicks[r] >= graceTicks {
					result.survivalTicks = tick
					return result
				}
			} else {
				belowTicks[r] = 0
			}
		}
	}

	result.survivalTicks = fe.maxTicks
	return result
}

// sampleWindow captures the per-role counts and the median energy.
func sampleWindow(g *game.Game) windowSample {
	s := windowSample{counts: g.RoleCounts()}

	agents := g.Agents()
	energies := make([]float64, 0, 256)
	for i := range agents {
		if agents[i].Alive() {
			energies = append(energies, float64(agents[i].Energy))
		}
	}
	if len(energies) > 0 {
		sort.Float64s(energies)
		s.energyP50 = energies[len(energies)/2]
	}
	return s
}

// Quality component weights.
const (
	qualityWeightBalance   = 0.40
	qualityWeightStability = 0.35
	qualityWeightEnergy    = 0.25

	qualityWarmupWindows = 1
)

// computeQuality computes ecosystem quality in [0, 1] from the window
// samples: role balance, population stability, and energy health.
func computeQuality(samples []windowSample) float64 {
	if len(samples) <= qualityWarmupWindows {
		return 0
	}
	valid := samples[qualityWarmupWindows:]

	var balanceSum, energySum float64
	var count int

	series := [components.NumRoles][]float64{}

	for _, s := range valid {
		total := s.counts[0] + s.counts[1] + s.counts[2]
		if total == 0 {
			continue
		}
		for r := range s.counts {
			series[r] = append(series[r], float64(s.counts[r]))
		}

		// Balance: penalize any role drifting far from an even share.
		var worst float64 = 1
		for r := range s.counts {
			share := float64(s.counts[r]) / float64(total)
			score := math.Exp(-math.Pow((share-1.0/3.0)/0.20, 2))
			if score < worst {
				worst = score
			}
		}
		balanceSum += worst

		// Energy health: median near the reproduction midpoint.
		energySum += math.Exp(-math.Pow((s.energyP50-0.8)/0.5, 2))
		count++
	}

	if count == 0 {
		return 0
	}

	balanceScore := balanceSum / float64(count)
	energyScore := energySum / float64(count)

	stabilityScore := 0.0
	if len(series[0]) >= 2 {
		var sumSq float64
		for r := range series {
			c := cv(series[r])
			sumSq += c * c
		}
		stabilityScore = math.Exp(-sumSq)
	}

	quality := qualityWeightBalance*balanceScore +
		qualityWeightStability*stabilityScore +
		qualityWeightEnergy*energyScore

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) of values.
func cv(values []float64) float64 {
	n := float64(len(values))
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	if mean == 0 {
		return 0
	}
	var sqDiff float64
	for _, v := range values {
		d := v - mean
		sqDiff += d * d
	}
	return math.Sqrt(sqDiff/n) / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
