package ai

import (
	"github.com/lox/holdemtable/internal/deck"
)

// HandCategory buckets a preflop starting hand
type HandCategory int

const (
	Trash HandCategory = iota
	Speculative
	Good
	Premium
)

// String returns the category name
func (hc HandCategory) String() string {
	switch hc {
	case Premium:
		return "Premium"
	case Good:
		return "Good"
	case Speculative:
		return "Speculative"
	default:
		return "Trash"
	}
}

// Classify buckets two hole cards:
//
//	Premium     - AA/KK/QQ, or A-K suited or offsuit
//	Good        - JJ/TT, A-Q, A-J, K-Q
//	Speculative - pairs 22-99, or suited cards with gap <= 2 whose high
//	              card is at least a five
//	Trash       - everything else
func Classify(a, b deck.Card) HandCategory {
	high, low := a.Rank, b.Rank
	if low > high {
		high, low = low, high
	}
	pair := a.Rank == b.Rank
	suited := a.Suit == b.Suit
	gap := int(high) - int(low)

	switch {
	case pair && high >= deck.Queen:
		return Premium
	case high == deck.Ace && low == deck.King:
		return Premium
	case pair && high >= deck.Ten:
		return Good
	case high == deck.Ace && low >= deck.Jack:
		return Good
	case high == deck.King && low == deck.Queen:
		return Good
	case pair:
		return Speculative
	case suited && gap <= 2 && high >= deck.Five:
		return Speculative
	default:
		return Trash
	}
}

// StrengthScore exposes the postflop strength heuristic for hosts that
// surface hand hints alongside the action log.
func StrengthScore(hole, board []deck.Card) int {
	return strengthScore(hole, board)
}

// strengthScore scores hole cards plus board from rank multiplicity
// patterns, with bonuses for four to a flush and four in a row. The
// buckets downstream are Strong >= 3000, Medium >= 1500, Weak below.
func strengthScore(hole, board []deck.Card) int {
	all := make([]deck.Card, 0, len(hole)+len(board))
	all = append(all, hole...)
	all = append(all, board...)

	rankCounts := map[deck.Rank]int{}
	suitCounts := map[deck.Suit]int{}
	for _, c := range all {
		rankCounts[c.Rank]++
		suitCounts[c.Suit]++
	}

	pairs, trips, quads := 0, 0, 0
	highPaired := 0
	for rank, n := range rankCounts {
		switch {
		case n >= 4:
			quads++
		case n == 3:
			trips++
		case n == 2:
			pairs++
		}
		if n >= 2 && int(rank) > highPaired {
			highPaired = int(rank)
		}
	}

	score := 0
	switch {
	case quads > 0:
		score = 6000
	case trips > 0 && pairs > 0:
		score = 5000
	case trips > 0:
		score = 3000
	case pairs >= 2:
		score = 2000
	case pairs == 1:
		score = 1000
	}
	score += highPaired * 10

	for _, n := range suitCounts {
		if n >= 4 {
			score += 800
			break
		}
	}
	if longestRun(rankCounts) >= 4 {
		score += 600
	}
	return score
}

// longestRun finds the longest consecutive-rank run among the present ranks
func longestRun(rankCounts map[deck.Rank]int) int {
	best, run := 0, 0
	for r := deck.Two; r <= deck.Ace; r++ {
		if rankCounts[r] > 0 {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}
