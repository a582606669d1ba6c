// Package telemetry aggregates per-window simulation statistics and
// writes them as CSV, structured logs, and stream snapshots.
package telemetry

import "github.com/pthm-cable/broth/components"

// Collector accumulates event counts within a stats window. Not safe
// for concurrent use; all records happen in the serialized apply pass.
type Collector struct {
	births [components.NumRoles]int
	deaths [components.NumRoles]int

	huntAttempts int
	kills        int

	biomassConsumed float64
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordBirth counts a spawn or reproduction for the role.
func (c *Collector) RecordBirth(r components.Role) {
	if r < components.NumRoles {
		c.births[r]++
	}
}

// RecordDeath counts a death for the role, regardless of cause.
func (c *Collector) RecordDeath(r components.Role) {
	if r < components.NumRoles {
		c.deaths[r]++
	}
}

// RecordHuntAttempt counts a predator finding a candidate prey.
func (c *Collector) RecordHuntAttempt() { c.huntAttempts++ }

// RecordKill counts a successful hunt.
func (c *Collector) RecordKill() { c.kills++ }

// RecordBiomassConsumed accumulates recycler consumption.
func (c *Collector) RecordBiomassConsumed(amount float64) {
	c.biomassConsumed += amount
}

// Births returns total births across roles this window.
func (c *Collector) Births() int {
	return c.births[0] + c.births[1] + c.births[2]
}

// Deaths returns total deaths across roles this window.
func (c *Collector) Deaths() int {
	return c.deaths[0] + c.deaths[1] + c.deaths[2]
}

// HuntAttempts returns the hunt attempts this window.
func (c *Collector) HuntAttempts() int { return c.huntAttempts }

// Kills returns the kills this window.
func (c *Collector) Kills() int { return c.kills }

// BiomassConsumed returns the biomass recyclers consumed this window.
func (c *Collector) BiomassConsumed() float64 { return c.biomassConsumed }

// Reset clears all counters for the next window.
func (c *Collector) Reset() {
	*c = Collector{}
}
