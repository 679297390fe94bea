package internal

import "math/rand"

// Shuffle permutes the slice in place using a generator seeded with
// rngSeed. The same seed always produces the same permutation.
func Shuffle[S ~[]E, E any](slice S, rngSeed int64) {
	rng := rand.New(rand.NewSource(rngSeed))
	rng.Shuffle(
		len(slice),
		func(i, j int) { slice[i], slice[j] = slice[j], slice[i] },
	)
}
