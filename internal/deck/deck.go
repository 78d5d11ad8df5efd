// Package deck provides the 52-card deck and an unbiased shuffle backed by
// a cryptographically strong random source.
package deck

import (
	"crypto/rand"
	"io"
)

// New returns a fresh 52-card deck in canonical order
func New() []Card {
	cards := make([]Card, 0, 52)
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

// Shuffle returns a new slice holding an unbiased permutation of cards,
// drawn from crypto/rand. The input is not modified.
func Shuffle(cards []Card) []Card {
	return ShuffleFrom(rand.Reader, cards)
}

// ShuffleFrom is Shuffle with an explicit entropy source, for deterministic
// tests. Implements Fisher-Yates from the last index down to 1, with each
// swap index drawn by rejection sampling over single bytes so no modulo
// bias is introduced.
func ShuffleFrom(src io.Reader, cards []Card) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	for i := len(out) - 1; i > 0; i-- {
		j := uniformIndex(src, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// uniformIndex draws a uniform value in [0, n) for 1 < n <= 256. Byte values
// at or above the largest multiple of n are rejected and redrawn; the loop
// terminates with probability 1.
func uniformIndex(src io.Reader, n int) int {
	limit := (256 / n) * n
	var b [1]byte
	for {
		if _, err := io.ReadFull(src, b[:]); err != nil {
			// crypto/rand (and any test reader) only fails on
			// process-level breakage, so there is no error to return.
			panic("deck: entropy source failed: " + err.Error())
		}
		if int(b[0]) < limit {
			return int(b[0]) % n
		}
	}
}
