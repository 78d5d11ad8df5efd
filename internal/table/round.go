package table

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lox/holdemtable/internal/chips"
	"github.com/lox/holdemtable/internal/deck"
	"github.com/lox/holdemtable/internal/evaluator"
)

// advanceStreet closes the current betting round: street bets reset, the
// next board cards are revealed (burn 1 + 3 for the flop, burn 1 + 1 for
// turn and river), and turn processing resumes. River completion resolves
// the hand at showdown.
func (s State) advanceStreet() State {
	out := s
	for i := range out.Players {
		out.Players[i].Bet = 0
	}
	out.CurrentBet = 0
	out.ActionsThisStreet = 0
	out.BotPendingIndex = NoSeat

	switch out.Stage {
	case PreFlop:
		out.Stage = Flop
		out.burn()
		dealt := out.dealBoard(3)
		out = out.appendLog(LogDeal, fmt.Sprintf("Flop: %s", cardList(dealt)))
		out = out.flopTip()
	case Flop:
		out.Stage = Turn
		out.burn()
		dealt := out.dealBoard(1)
		out = out.appendLog(LogDeal, fmt.Sprintf("Turn: %s", cardList(dealt)))
		out = out.streetTip()
	case Turn:
		out.Stage = River
		out.burn()
		dealt := out.dealBoard(1)
		out = out.appendLog(LogDeal, fmt.Sprintf("River: %s", cardList(dealt)))
		out = out.streetTip()
	case River:
		return out.showdown()
	default:
		return out
	}

	out.FirstToActIndex = out.nextEligible(out.DealerIndex + 1)
	out.CurrentPlayerIndex = out.FirstToActIndex
	if out.CurrentPlayerIndex == NoSeat {
		// Everyone left in the hand is all-in: run the board out.
		return out.advanceStreet()
	}
	countable := 0
	for _, p := range out.Players {
		if p.canAct() {
			countable++
		}
	}
	if countable < 2 {
		// A lone actor has nobody to bet against; keep dealing.
		return out.advanceStreet()
	}
	return out.processTurn()
}

func (s *State) dealBoard(n int) []deck.Card {
	dealt := make([]deck.Card, 0, n)
	for i := 0; i < n; i++ {
		card, ok := s.draw()
		if !ok {
			break
		}
		s.Board = append(s.Board, card)
		dealt = append(dealt, card)
	}
	return dealt
}

func cardList(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// awardLastStanding gives the whole pot to the only seat left in the hand
// without consulting the evaluator.
func (s State) awardLastStanding() State {
	out := s
	survivors := out.survivors()
	if len(survivors) != 1 {
		return out
	}
	winner := survivors[0]
	amount := out.Pot
	out = out.payOut(winner, amount, out.PotStack.Clone())
	out = out.finishHand()
	out = out.appendLog(LogInfo, fmt.Sprintf("%s wins %d (everyone else folded)", out.Players[winner].Name, amount))
	out.logger.Info("hand won uncontested", "winner", out.Players[winner].Name, "amount", amount)
	return out
}

// showdown evaluates every live hand and splits the pot among the strict
// best. Exact ties share equally; odd chips go one at a time to the tied
// seats in clockwise order from the dealer.
func (s State) showdown() State {
	out := s
	survivors := out.survivors()
	if len(survivors) == 0 {
		return out.finishHand()
	}
	if len(survivors) == 1 {
		return out.awardLastStanding()
	}

	type result struct {
		seat int
		eval evaluator.Evaluation
	}
	results := make([]result, 0, len(survivors))
	for _, seat := range survivors {
		cards := append(append([]deck.Card(nil), out.Players[seat].HoleCards...), out.Board...)
		ev := evaluator.Evaluate(cards)
		results = append(results, result{seat: seat, eval: ev})
		out = out.appendLog(LogInfo, fmt.Sprintf("%s shows %s (%s)",
			out.Players[seat].Name, cardList(out.Players[seat].HoleCards), ev.Category))
	}

	best := results[0]
	winners := []result{best}
	for _, r := range results[1:] {
		switch cmp := evaluator.Compare(r.eval, best.eval); {
		case cmp > 0:
			best = r
			winners = winners[:0]
			winners = append(winners, r)
		case cmp == 0:
			winners = append(winners, r)
		}
	}

	// Clockwise from the seat after the dealer
	n := len(out.Players)
	sort.Slice(winners, func(i, j int) bool {
		di := ((winners[i].seat - out.DealerIndex - 1) % n + n) % n
		dj := ((winners[j].seat - out.DealerIndex - 1) % n + n) % n
		return di < dj
	})

	amount := out.Pot
	share := amount / len(winners)
	odd := amount % len(winners)
	names := make([]string, 0, len(winners))
	for _, w := range winners {
		payout := share
		if odd > 0 {
			payout++
			odd--
		}
		removed, _ := chips.Take(out.PotStack, payout)
		out = out.payOut(w.seat, payout, removed)
		names = append(names, out.Players[w.seat].Name)
	}
	// Any denominations the greedy split could not divide cleanly land on
	// the first winner so the stacks stay whole.
	if out.PotStack.Value() > 0 {
		chips.Add(out.Players[winners[0].seat].ChipStack, out.PotStack)
	}

	out = out.finishHand()
	reason := fmt.Sprintf("showdown, best hand %s", best.eval.Category)
	if len(winners) > 1 {
		out = out.appendLog(LogInfo, fmt.Sprintf("Split pot: %s share %d (%s)", strings.Join(names, ", "), amount, reason))
	} else {
		out = out.appendLog(LogInfo, fmt.Sprintf("%s wins %d (%s)", names[0], amount, reason))
	}
	out.logger.Info("hand resolved at showdown", "winners", names, "amount", amount, "hand", best.eval.Category.String())
	return out
}

// payOut credits amount (numeric) and breakdown (denominations) to a seat
func (s State) payOut(seat, amount int, breakdown chips.Stack) State {
	out := s
	p := &out.Players[seat]
	p.Chips += amount
	chips.Add(p.ChipStack, breakdown)
	out.Pot -= amount
	return out
}

// finishHand zeroes the pot and parks the machine at Showdown until the
// host starts a new hand.
func (s State) finishHand() State {
	out := s
	out.Stage = Showdown
	out.Pot = 0
	out.PotStack = chips.NewStack()
	out.CurrentBet = 0
	out.CurrentPlayerIndex = NoSeat
	out.BotPendingIndex = NoSeat
	for i := range out.Players {
		out.Players[i].Bet = 0
	}
	return out
}
