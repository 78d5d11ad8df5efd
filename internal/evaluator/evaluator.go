// Package evaluator ranks the best 5-card poker hand obtainable from up to
// 7 cards (2 hole cards plus the board). All C(7,5)=21 subsets are scored
// and the maximum retained, with full kicker comparison inside every
// category.
package evaluator

import (
	"sort"

	"github.com/lox/holdemtable/internal/deck"
)

// Category is the hand category, ordered low to high
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable category name
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// Evaluation describes a ranked 5-card hand. Ranks holds the ordered
// tie-break vector for the category: primary combination ranks first,
// kickers after, most significant first.
type Evaluation struct {
	Category Category
	Ranks    []int
	Cards    []deck.Card
}

// Compare orders two evaluations: negative if a < b, zero on an exact tie,
// positive if a > b. Ties require the full rank vectors to match.
func Compare(a, b Evaluation) int {
	if a.Category != b.Category {
		return int(a.Category) - int(b.Category)
	}
	for i := 0; i < len(a.Ranks) && i < len(b.Ranks); i++ {
		if a.Ranks[i] != b.Ranks[i] {
			return a.Ranks[i] - b.Ranks[i]
		}
	}
	return len(a.Ranks) - len(b.Ranks)
}

// Evaluate returns the best 5-card hand from the given cards. With fewer
// than 5 cards the available cards are scored directly as high-card
// material (used for interim strength displays).
func Evaluate(cards []deck.Card) Evaluation {
	if len(cards) <= 5 {
		return scoreFive(cards)
	}

	best := Evaluation{Category: -1}
	n := len(cards)
	pick := make([]deck.Card, 0, 5)

	// Enumerate all 5-card subsets
	var recurse func(start, need int)
	recurse = func(start, need int) {
		if need == 0 {
			ev := scoreFive(pick)
			if best.Category < 0 || Compare(ev, best) > 0 {
				best = ev
			}
			return
		}
		for i := start; i <= n-need; i++ {
			pick = append(pick, cards[i])
			recurse(i+1, need-1)
			pick = pick[:len(pick)-1]
		}
	}
	recurse(0, 5)
	return best
}

// scoreFive ranks exactly one candidate hand of up to 5 cards
func scoreFive(five []deck.Card) Evaluation {
	cards := make([]deck.Card, len(five))
	copy(cards, five)
	sort.Slice(cards, func(i, j int) bool { return cards[i].Value() > cards[j].Value() })

	counts := map[int]int{}
	for _, c := range cards {
		counts[c.Value()]++
	}

	// Group ranks by multiplicity, bigger groups first, then higher ranks
	type group struct{ rank, count int }
	groups := make([]group, 0, len(counts))
	for rank, count := range counts {
		groups = append(groups, group{rank, count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	if len(groups) == 0 {
		return Evaluation{Category: HighCard}
	}

	flush := len(cards) == 5
	for _, c := range cards {
		if c.Suit != cards[0].Suit {
			flush = false
			break
		}
	}
	straightHigh := straightHighRank(cards)

	ranksOf := func() []int {
		out := make([]int, 0, len(groups)*2)
		for _, g := range groups {
			out = append(out, g.rank)
		}
		return out
	}

	switch {
	case flush && straightHigh == int(deck.Ace):
		return Evaluation{Category: RoyalFlush, Ranks: []int{straightHigh}, Cards: cards}
	case flush && straightHigh > 0:
		return Evaluation{Category: StraightFlush, Ranks: []int{straightHigh}, Cards: cards}
	case groups[0].count == 4:
		return Evaluation{Category: FourOfAKind, Ranks: ranksOf(), Cards: cards}
	case groups[0].count == 3 && len(groups) > 1 && groups[1].count >= 2:
		return Evaluation{Category: FullHouse, Ranks: []int{groups[0].rank, groups[1].rank}, Cards: cards}
	case flush:
		return Evaluation{Category: Flush, Ranks: descendingValues(cards), Cards: cards}
	case straightHigh > 0:
		return Evaluation{Category: Straight, Ranks: []int{straightHigh}, Cards: cards}
	case groups[0].count == 3:
		return Evaluation{Category: ThreeOfAKind, Ranks: ranksOf(), Cards: cards}
	case groups[0].count == 2 && len(groups) > 1 && groups[1].count == 2:
		return Evaluation{Category: TwoPair, Ranks: ranksOf(), Cards: cards}
	case groups[0].count == 2:
		return Evaluation{Category: Pair, Ranks: ranksOf(), Cards: cards}
	default:
		return Evaluation{Category: HighCard, Ranks: descendingValues(cards), Cards: cards}
	}
}

// straightHighRank returns the high rank of a 5-card straight, 5 for the
// wheel (A-2-3-4-5), or 0 when the cards are not a straight.
func straightHighRank(sorted []deck.Card) int {
	if len(sorted) != 5 {
		return 0
	}
	consecutive := true
	for i := 1; i < 5; i++ {
		if sorted[i].Value() != sorted[i-1].Value()-1 {
			consecutive = false
			break
		}
	}
	if consecutive {
		return sorted[0].Value()
	}
	// Wheel: ace plays low under 5-4-3-2
	if sorted[0].Value() == int(deck.Ace) &&
		sorted[1].Value() == int(deck.Five) &&
		sorted[2].Value() == int(deck.Four) &&
		sorted[3].Value() == int(deck.Three) &&
		sorted[4].Value() == int(deck.Two) {
		return int(deck.Five)
	}
	return 0
}

func descendingValues(cards []deck.Card) []int {
	out := make([]int, len(cards))
	for i, c := range cards {
		out[i] = c.Value()
	}
	return out
}
