// Package loot implements the probabilistic loot spawn-count generator
// (component C): given elapsed time, current loot count, and gatherer
// count, it yields how many new loot items a session should materialize.
package loot

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	mathrand "math/rand"
)

// Generator accumulates elapsed time between draws and turns it into a
// spawn count proportional to the deficit of gatherers over loot.
type Generator struct {
	baseIntervalMS float64
	probability    float64
	elapsedMS      float64
	rng            *mathrand.Rand
}

// New creates a generator with the given base interval (milliseconds) and
// per-interval spawn probability.
func New(baseIntervalMS float64, probability float64) *Generator {
	return &Generator{
		baseIntervalMS: baseIntervalMS,
		probability:    probability,
		rng:            mathrand.New(mathrand.NewSource(seed())),
	}
}

func seed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) & (1<<63 - 1))
}

// Generate advances the accumulated time by deltaMS and returns how many new
// loot items to spawn. It never returns more than max(0, gathererCount -
// lootCount). Elapsed time resets to zero after every call.
func (g *Generator) Generate(deltaMS float64, lootCount, gathererCount int) int {
	g.elapsedMS += deltaMS
	defer func() { g.elapsedMS = 0 }()

	free := gathererCount - lootCount
	if free < 0 {
		free = 0
	}
	if free == 0 {
		return 0
	}

	r := g.rng.Float64()
	if r == 0 {
		return free
	}

	p := 1 - math.Pow(1-g.probability, g.elapsedMS/g.baseIntervalMS)
	n := int(math.Floor(float64(free) * p / r))
	if n < 0 {
		n = 0
	}
	if n > free {
		n = free
	}
	return n
}
