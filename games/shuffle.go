/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	crand "crypto/rand"
	"math/rand/v2"
)

// Rand is the only randomness the engines need.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a ChaCha8 generator seeded from crypto/rand.
func NewRand() *rand.Rand {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return rand.New(rand.NewChaCha8(seed))
}

// Shuffle returns a Fisher-Yates permutation of items. The input is not modified.
func Shuffle[T any](items []T, r Rand) []T {
	out := make([]T, len(items))
	copy(out, items)

	for i := len(out) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}

	return out
}
