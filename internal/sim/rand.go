package sim

import (
	"math/rand"
	"sync"

	"lukechampine.com/frand"
)

// intner is the random source a playout draws from.
type intner interface {
	Intn(n int) int
}

// frandSource draws from frand's goroutine-safe generator.
type frandSource struct{}

func (frandSource) Intn(n int) int { return frand.Intn(n) }

// simSeed, when set, makes playouts reproducible. Each candidate gets its
// own math/rand source derived from the seed and its scan index, so the
// outcome does not depend on how candidates are scheduled across workers.
var (
	seedMu  sync.Mutex
	seeded  bool
	simSeed int64
)

// SeedRng sets a deterministic random source for reproducible playouts.
func SeedRng(seed int64) {
	seedMu.Lock()
	defer seedMu.Unlock()
	seeded, simSeed = true, seed
}

// ResetRng reverts to the default non-deterministic source.
func ResetRng() {
	seedMu.Lock()
	defer seedMu.Unlock()
	seeded = false
}

// candidateRng returns the random source for the candidate at scan index i.
func candidateRng(i int) intner {
	seedMu.Lock()
	defer seedMu.Unlock()
	if !seeded {
		return frandSource{}
	}
	return rand.New(rand.NewSource(simSeed + int64(i)*7919))
}
