package table

import (
	"github.com/lox/holdemtable/internal/ai"
	"github.com/lox/holdemtable/internal/deck"
)

// Hand tips are coaching lines written into the action log for the human
// seat only. A tip fires on the hole-card deal, on each board reveal and
// on hero fold or raise actions. Bots never generate tips.

// holeCardTip logs a preflop read on the hero's starting hand
func (s State) holeCardTip() State {
	hero := s.Hero()
	if hero == NoSeat || s.Players[hero].HasFolded || len(s.Players[hero].HoleCards) < 2 {
		return s
	}
	a, b := s.Players[hero].HoleCards[0], s.Players[hero].HoleCards[1]
	high, low := a.Rank, b.Rank
	if low > high {
		high, low = low, high
	}
	pair := a.Rank == b.Rank
	suited := a.Suit == b.Suit

	if ai.Classify(a, b) == ai.Premium {
		return s.appendLog(LogTip, "Premium holding, build the pot")
	}

	var msg string
	switch {
	case pair && high >= deck.Jack:
		msg = "Big pocket pair, consider raising"
	case pair && high >= deck.Eight:
		msg = "Solid middle pair, worth playing"
	case pair:
		msg = "Small pocket pair, set-mine cheaply"
	case suited && high >= deck.Jack:
		msg = "Good suited cards, worth seeing a flop"
	case suited:
		msg = "Suited but low, tread carefully"
	case high >= deck.King && low >= deck.Ten:
		msg = "Strong high cards, play them aggressively"
	case high >= deck.Queen:
		msg = "Decent high card, a flop is worth seeing"
	default:
		msg = "Marginal hand, folding is often right here"
	}
	return s.appendLog(LogTip, msg)
}

// flopTip logs a read on how the flop hit the hero's hand
func (s State) flopTip() State {
	hero := s.Hero()
	if hero == NoSeat || s.Players[hero].HasFolded || len(s.Players[hero].HoleCards) < 2 {
		return s
	}
	hole := s.Players[hero].HoleCards
	score := ai.StrengthScore(hole, s.Board)

	var msg string
	switch {
	case score >= 3000:
		msg = "Very strong hand, bet it for value"
	case s.heroFlushDraw():
		msg = "Four to a flush, a draw worth the right price"
	case s.heroStraightDraw():
		msg = "Four to a straight, mind the price to chase"
	case score >= 1000:
		msg = "You have a pair, proceed but respect raises"
	default:
		msg = "The flop missed you, check when you can"
	}
	return s.appendLog(LogTip, msg)
}

// streetTip logs the generic turn and river reminders
func (s State) streetTip() State {
	hero := s.Hero()
	if hero == NoSeat || s.Players[hero].HasFolded {
		return s
	}
	switch s.Stage {
	case Turn:
		return s.appendLog(LogTip, "One card to come, weigh your odds before committing chips")
	case River:
		return s.appendLog(LogTip, "All cards are out, make your best play")
	default:
		return s
	}
}

// foldTip logs reassurance when the hero folds
func (s State) foldTip() State {
	return s.appendLog(LogTip, "Folding a beaten hand saves chips for a better spot")
}

// raiseTip logs encouragement when the hero raises
func (s State) raiseTip() State {
	return s.appendLog(LogTip, "Raising puts the decision on your opponents and can win the pot outright")
}

// heroFlushDraw reports four or more of one suit among the hero's cards
// and the board
func (s State) heroFlushDraw() bool {
	counts := map[deck.Suit]int{}
	for _, c := range s.Players[s.Hero()].HoleCards {
		counts[c.Suit]++
	}
	for _, c := range s.Board {
		counts[c.Suit]++
	}
	for _, n := range counts {
		if n >= 4 {
			return true
		}
	}
	return false
}

// heroStraightDraw reports four consecutive distinct ranks among the
// hero's cards and the board
func (s State) heroStraightDraw() bool {
	present := map[deck.Rank]bool{}
	for _, c := range s.Players[s.Hero()].HoleCards {
		present[c.Rank] = true
	}
	for _, c := range s.Board {
		present[c.Rank] = true
	}
	run := 0
	for r := deck.Two; r <= deck.Ace; r++ {
		if present[r] {
			run++
			if run >= 4 {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}
