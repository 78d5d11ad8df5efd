package table

import (
	"fmt"

	"github.com/lox/holdemtable/internal/chips"
	"github.com/lox/holdemtable/internal/deck"
)

// StartNewHand deals the next hand. On the very first call (no dealer fixed
// yet) it runs the dealer draw first: one card per seat, highest rank wins
// with suit order spades > hearts > diamonds > clubs breaking ties. On
// later calls the button simply advances, so PreFlop is reached without a
// literal DealerDraw step.
func (s State) StartNewHand() (State, error) {
	if s.Stage.betting() {
		return s, fmt.Errorf("%w: cannot start a hand during %s", ErrInvalidStage, s.Stage)
	}
	out := s.clone()

	if out.DealerIndex == NoSeat {
		out = out.runDealerDraw()
	} else {
		out.DealerIndex = out.nextEligible(out.DealerIndex + 1)
		if out.DealerIndex == NoSeat {
			return s, fmt.Errorf("%w: no seat can take the button", ErrInvalidStage)
		}
	}

	return out.dealHand()
}

// runDealerDraw deals one face-up card per seat and fixes the button
func (s State) runDealerDraw() State {
	out := s
	cards := s.shuffledDeck()

	out.DealerDrawCards = make(map[string]deck.Card, len(out.Players))
	best := NoSeat
	var bestCard deck.Card
	for i := range out.Players {
		card := cards[i]
		out.DealerDrawCards[out.Players[i].ID] = card
		if best == NoSeat || drawBeats(card, bestCard) {
			best, bestCard = i, card
		}
	}

	out.DealerIndex = best
	out.DealerDrawRevealed = true
	out.DealerDrawPending = false
	out = out.appendLog(LogDeal, fmt.Sprintf("Dealer draw: %s wins the button with %s",
		out.Players[best].Name, bestCard))
	out.logger.Debug("dealer draw complete", "dealer", out.Players[best].Name, "card", bestCard.String())
	return out
}

// drawBeats orders dealer draw cards by rank, then by suit
func drawBeats(a, b deck.Card) bool {
	if a.Rank != b.Rank {
		return a.Rank > b.Rank
	}
	return a.Suit.DrawOrder() > b.Suit.DrawOrder()
}

// dealHand starts one hand: fresh shuffled deck, blinds posted, two hole
// cards per live seat, cursor on the first seat after the big blind.
func (s State) dealHand() (State, error) {
	out := s
	out.HandNumber++
	out.Board = nil
	out.Burned = nil
	out.Pot = 0
	out.PotStack = chips.NewStack()
	out.CurrentBet = 0
	out.ActionsThisStreet = 0
	out.BotPendingIndex = NoSeat
	for i := range out.Players {
		out.Players[i].Bet = 0
		out.Players[i].HoleCards = nil
		out.Players[i].HasFolded = out.Players[i].Chips <= 0
	}

	live := 0
	for _, p := range out.Players {
		if !p.HasFolded {
			live++
		}
	}
	if live < 2 {
		return s, fmt.Errorf("%w: need two funded seats to deal", ErrInvalidStage)
	}

	out.Deck = out.shuffledDeck()
	out.Stage = PreFlop
	out = out.appendLog(LogInfo, fmt.Sprintf("Hand %d started", out.HandNumber))

	// Heads-up the button posts the small blind; otherwise blinds sit
	// left of the button.
	if live == 2 {
		out.SmallBlindIndex = out.nextEligibleInHand(out.DealerIndex)
		out.BigBlindIndex = out.nextEligibleInHand(out.SmallBlindIndex + 1)
	} else {
		out.SmallBlindIndex = out.nextEligibleInHand(out.DealerIndex + 1)
		out.BigBlindIndex = out.nextEligibleInHand(out.SmallBlindIndex + 1)
	}
	out = out.postBlind(out.SmallBlindIndex, out.SmallBlind, "small blind")
	out = out.postBlind(out.BigBlindIndex, out.BigBlind, "big blind")
	out.CurrentBet = out.BigBlind

	for i := range out.Players {
		if out.Players[i].HasFolded {
			continue
		}
		out.Players[i].HoleCards = []deck.Card{}
		for j := 0; j < 2; j++ {
			card, ok := out.draw()
			if !ok {
				break
			}
			out.Players[i].HoleCards = append(out.Players[i].HoleCards, card)
		}
	}
	out = out.appendLog(LogDeal, "Hole cards dealt")
	out = out.holeCardTip()

	out.FirstToActIndex = out.nextEligible(out.BigBlindIndex + 1)
	out.CurrentPlayerIndex = out.FirstToActIndex
	return out.processTurn(), nil
}

// nextEligibleInHand sweeps for a seat still in the hand (folded-out broke
// seats excluded, all-in seats allowed for blind positions)
func (s State) nextEligibleInHand(from int) int {
	n := len(s.Players)
	for i := 0; i < n; i++ {
		seat := ((from + i) % n + n) % n
		if s.Players[seat].inHand() {
			return seat
		}
	}
	return NoSeat
}

// postBlind moves up to amount from the seat into the pot
func (s State) postBlind(seat, amount int, name string) State {
	out := s
	if seat == NoSeat {
		return out
	}
	p := &out.Players[seat]
	pay := min(amount, p.Chips)
	p.Chips -= pay
	p.Bet += pay
	out.Pot += pay
	removed, shortfall := chips.Take(p.ChipStack, pay)
	chips.Add(out.PotStack, removed)
	if shortfall > 0 {
		// The numeric ledger is authoritative; the stack moves what it
		// can represent and the residue reconciles at award time.
		out.logger.Debug("blind stack shortfall", "seat", seat, "shortfall", shortfall)
	}
	return out.appendLog(LogAction, fmt.Sprintf("%s posts %s %d", out.Players[seat].Name, name, pay))
}

// shuffledDeck produces a fresh unbiased 52-card permutation
func (s State) shuffledDeck() []deck.Card {
	if s.shuffleSrc != nil {
		return deck.ShuffleFrom(s.shuffleSrc, deck.New())
	}
	return deck.Shuffle(deck.New())
}

// draw takes the top card. Deck exhaustion is a defensive no-op signalled
// by ok=false; it cannot occur for ten seats against a 52-card deck.
func (s *State) draw() (deck.Card, bool) {
	if len(s.Deck) == 0 {
		return deck.Card{}, false
	}
	card := s.Deck[0]
	s.Deck = s.Deck[1:]
	return card, true
}

// burn moves the top card to the burn pile
func (s *State) burn() {
	if card, ok := s.draw(); ok {
		s.Burned = append(s.Burned, card)
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
