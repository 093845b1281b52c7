package engine

import (
	"errors"
	"math/rand/v2"
)

var ErrPoolExhausted = errors.New("no more names available")

// Sampler draws batches of distinct names. Not safe for concurrent use.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler wraps rng; a nil rng gets a randomly seeded PCG source.
func NewSampler(rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Sampler{rng: rng}
}

// Sample returns up to size distinct names drawn uniformly without
// replacement from pool. Names in exclude are never returned. The result is
// shorter than size only when fewer distinct candidates exist.
func (s *Sampler) Sample(pool []string, size int, exclude map[string]struct{}) []string {
	if size <= 0 || len(pool) == 0 {
		return []string{}
	}

	// Partial Fisher-Yates over a copy; the pool itself stays read-only.
	work := make([]string, len(pool))
	copy(work, pool)

	batch := make([]string, 0, min(size, len(work)))
	seen := make(map[string]struct{}, cap(batch))
	for i := 0; i < len(work) && len(batch) < size; i++ {
		j := i + s.rng.IntN(len(work)-i)
		work[i], work[j] = work[j], work[i]

		name := work[i]
		if _, dup := seen[name]; dup {
			continue
		}
		if _, skip := exclude[name]; skip {
			continue
		}
		seen[name] = struct{}{}
		batch = append(batch, name)
	}
	return batch
}
