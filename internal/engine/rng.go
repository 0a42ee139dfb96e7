package engine

import (
	"math"
	"math/rand/v2"
	"time"
)

// Source hands out die faces.
type Source interface {
	// Roll returns a uniformly distributed integer in [1, sides].
	Roll(sides int64) int64
}

// uniform draws from [1, n] by rejecting the biased tail of the 64-bit range.
type uniform struct {
	n     uint64
	limit uint64
}

func newUniform(sides int64) *uniform {
	n := uint64(sides)
	return &uniform{
		n:     n,
		limit: math.MaxUint64 - math.MaxUint64%n,
	}
}

func (u *uniform) draw(src rand.Source) int64 {
	for {
		v := src.Uint64()
		if v < u.limit {
			return int64(v%u.n) + 1
		}
	}
}

// Generator is the session's random state: a PCG source plus a cache of
// per-die-size distributions. It is not safe for concurrent use.
type Generator struct {
	seed  uint64
	src   *rand.PCG
	dists map[int64]*uniform
}

// NewGenerator creates a deterministic generator.
func NewGenerator(seed uint64) *Generator {
	g := &Generator{dists: make(map[int64]*uniform)}
	g.Reseed(seed)
	return g
}

// ClockSeed derives a seed from the wall clock in nanoseconds.
func ClockSeed() uint64 {
	return uint64(time.Now().UnixNano())
}

// Reseed replaces the random source. Cached distributions are kept.
func (g *Generator) Reseed(seed uint64) {
	g.seed = seed
	g.src = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// Seed returns the seed the current source was created with.
func (g *Generator) Seed() uint64 {
	return g.seed
}

// Roll implements Source.
func (g *Generator) Roll(sides int64) int64 {
	if sides <= 0 {
		panic("engine: Roll called with non-positive sides")
	}
	d, ok := g.dists[sides]
	if !ok {
		d = newUniform(sides)
		g.dists[sides] = d
	}
	return d.draw(g.src)
}

// CachedSizes reports how many die sizes have a cached distribution.
func (g *Generator) CachedSizes() int {
	return len(g.dists)
}
