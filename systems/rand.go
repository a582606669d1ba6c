package systems

// LaneRand is a small splitmix64 PRNG seeded per (tick, lane), so a
// lane's random draws do not depend on worker scheduling. The hash mix
// follows the integer hashing used for grid noise seeding.
type LaneRand struct {
	s uint64
}

// NewLaneRand returns a lane-local PRNG for the given tick seed and lane.
func NewLaneRand(tickSeed uint64, lane int) LaneRand {
	s := tickSeed ^ (uint64(lane)+1)*0x9e3779b97f4a7c15
	return LaneRand{s: s}
}

func (r *LaneRand) next() uint64 {
	r.s += 0x9e3779b97f4a7c15
	z := r.s
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Float32 returns a uniform draw in [0, 1).
func (r *LaneRand) Float32() float32 {
	return float32(r.next()>>40) / float32(1<<24)
}

// Range returns a uniform draw in [lo, hi).
func (r *LaneRand) Range(lo, hi float32) float32 {
	return lo + r.Float32()*(hi-lo)
}

// Signed returns a uniform draw in [-x, x).
func (r *LaneRand) Signed(x float32) float32 {
	return (r.Float32()*2 - 1) * x
}
