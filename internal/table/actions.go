package table

import (
	"fmt"

	"github.com/lox/holdemtable/internal/ai"
	"github.com/lox/holdemtable/internal/chips"
)

// HeroFold folds the human seat
func (s State) HeroFold() (State, error) {
	out, err := s.heroTurn()
	if err != nil {
		return s, err
	}
	return out.applyAction(out.CurrentPlayerIndex, ai.Fold, 0), nil
}

// HeroCall calls the current bet, or checks when there is nothing to call
func (s State) HeroCall() (State, error) {
	out, err := s.heroTurn()
	if err != nil {
		return s, err
	}
	return out.applyAction(out.CurrentPlayerIndex, ai.Call, 0), nil
}

// HeroRaiseTo raises the hero's total street bet to amount. Amounts below
// the table minimum are clamped up rather than rejected; amounts at or
// above the stack become an all-in.
func (s State) HeroRaiseTo(amount int) (State, error) {
	out, err := s.heroTurn()
	if err != nil {
		return s, err
	}
	return out.applyAction(out.CurrentPlayerIndex, ai.Raise, amount), nil
}

// heroTurn validates that the hero may act now and returns a working copy
func (s State) heroTurn() (State, error) {
	if !s.Stage.betting() {
		return s, fmt.Errorf("%w: %s", ErrInvalidStage, s.Stage)
	}
	hero := s.Hero()
	if hero == NoSeat || s.CurrentPlayerIndex != hero {
		return s, fmt.Errorf("%w: hero is not the current actor", ErrOutOfTurn)
	}
	if s.BotPendingIndex != NoSeat {
		return s, fmt.Errorf("%w: bot decision pending for seat %d", ErrOutOfTurn, s.BotPendingIndex)
	}
	return s.clone(), nil
}

// ProcessNextAction resumes turn processing: it re-checks round completion
// and, when the cursor rests on a bot seat, suspends the machine with
// botPendingIndex set. Calling it repeatedly never advances a street twice.
func (s State) ProcessNextAction() (State, error) {
	if !s.Stage.betting() {
		return s, fmt.Errorf("%w: %s", ErrInvalidStage, s.Stage)
	}
	out := s.clone()
	if out.roundComplete() {
		return out.advanceStreet(), nil
	}
	return out.processTurn(), nil
}

// ApplyBotDecision resumes the machine with the decision obtained for the
// suspended bot seat.
func (s State) ApplyBotDecision(seat int, d ai.Decision) (State, error) {
	if !s.Stage.betting() {
		return s, fmt.Errorf("%w: %s", ErrInvalidStage, s.Stage)
	}
	if s.BotPendingIndex == NoSeat {
		return s, ErrNoBotPending
	}
	if seat != s.BotPendingIndex {
		return s, fmt.Errorf("%w: decision for seat %d but seat %d is pending", ErrOutOfTurn, seat, s.BotPendingIndex)
	}
	out := s.clone()
	out.BotPendingIndex = NoSeat
	return out.applyAction(seat, d.Action, d.RaiseTo), nil
}

// processTurn inspects the cursor seat: a bot seat suspends the machine
// with the advisory decision deadline set, a hero seat just waits for
// input. Never called on terminal stages.
func (s State) processTurn() State {
	out := s
	if !out.Stage.betting() {
		return out
	}
	if out.CurrentPlayerIndex == NoSeat {
		return out.advanceStreet()
	}
	p := out.Players[out.CurrentPlayerIndex]
	if p.IsBot {
		if out.BotPendingIndex != out.CurrentPlayerIndex {
			out.BotPendingIndex = out.CurrentPlayerIndex
			out.BotDecisionDueAt = out.clock.Now().Add(out.botTimeout)
			out.logger.Debug("bot decision pending", "seat", out.CurrentPlayerIndex, "due", out.BotDecisionDueAt)
		}
	} else {
		out.BotPendingIndex = NoSeat
	}
	return out
}

// applyAction performs one seat's action on an already-cloned state and
// advances the machine. All chip movement funnels through here.
func (s State) applyAction(seat int, action ai.Action, raiseTo int) State {
	out := s
	p := &out.Players[seat]

	switch action {
	case ai.Fold:
		p.HasFolded = true
		out = out.appendLog(LogAction, fmt.Sprintf("%s folds", p.Name))
		if seat == out.Hero() {
			out = out.foldTip()
		}

	case ai.Call:
		toCall := out.CurrentBet - p.Bet
		pay := min(toCall, p.Chips)
		if pay <= 0 {
			out = out.appendLog(LogAction, fmt.Sprintf("%s checks", p.Name))
		} else {
			out = out.payIntoPot(seat, pay)
			out = out.appendLog(LogAction, fmt.Sprintf("%s calls %d", out.Players[seat].Name, pay))
		}

	case ai.Raise:
		minLegal := out.CurrentBet + out.BigBlind
		if raiseTo < minLegal {
			raiseTo = minLegal
		}
		p = &out.Players[seat]
		if raiseTo >= p.Chips+p.Bet {
			return out.applyAction(seat, ai.AllIn, 0)
		}
		pay := raiseTo - p.Bet
		out = out.payIntoPot(seat, pay)
		out.CurrentBet = raiseTo
		out = out.appendLog(LogAction, fmt.Sprintf("%s raises to %d", out.Players[seat].Name, raiseTo))
		if seat == out.Hero() {
			out = out.raiseTip()
		}

	case ai.AllIn:
		pay := p.Chips
		out = out.payIntoPot(seat, pay)
		p = &out.Players[seat]
		if p.Bet > out.CurrentBet {
			out.CurrentBet = p.Bet
		}
		out = out.appendLog(LogAction, fmt.Sprintf("%s is all in for %d", p.Name, p.Bet))
		if seat == out.Hero() {
			out = out.raiseTip()
		}
	}

	out.ActionsThisStreet++

	if len(out.survivors()) == 1 {
		return out.awardLastStanding()
	}

	next := out.nextEligible(seat + 1)
	if next == NoSeat || next == seat {
		// The sweep came back to the actor without finding anyone else
		// able to act: the round ends rather than loop.
		return out.advanceStreet()
	}
	out.CurrentPlayerIndex = next
	if out.roundComplete() {
		return out.advanceStreet()
	}
	return out.processTurn()
}

// payIntoPot moves pay chips from the seat into the pot, keeping the
// denomination stacks reconciled with the numeric ledger.
func (s State) payIntoPot(seat, pay int) State {
	out := s
	p := &out.Players[seat]
	p.Chips -= pay
	p.Bet += pay
	out.Pot += pay
	removed, shortfall := chips.Take(p.ChipStack, pay)
	chips.Add(out.PotStack, removed)
	if shortfall > 0 {
		out.logger.Debug("stack shortfall against ledger", "seat", seat, "shortfall", shortfall)
	}
	return out
}

// roundComplete checks the three-part street completion condition: every
// live seat able to act has matched the table bet, at least one action has
// occurred this street, and the cursor has come back to the street's
// first-to-act seat.
func (s State) roundComplete() bool {
	if s.ActionsThisStreet == 0 {
		return false
	}
	for _, p := range s.Players {
		if p.canAct() && p.Bet != s.CurrentBet {
			return false
		}
	}
	// The stored first-to-act seat may have folded since the street began;
	// completion keys on the first still-eligible seat at or after it.
	return s.CurrentPlayerIndex == s.nextEligible(s.FirstToActIndex)
}
