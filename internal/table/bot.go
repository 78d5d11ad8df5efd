package table

import (
	"context"
	"fmt"

	"github.com/lox/holdemtable/internal/ai"
	"github.com/lox/holdemtable/internal/botsvc"
)

// Decider is the bot-decision collaborator handle. botsvc.Client satisfies
// it; tests substitute fakes. A nil Decider means decisions come from the
// in-process engine.
type Decider interface {
	Decide(ctx context.Context, req botsvc.DecisionRequest) (ai.Decision, error)
}

// DecisionRequest builds the collaborator request for the pending bot seat
func (s State) DecisionRequest() (botsvc.DecisionRequest, error) {
	seat := s.BotPendingIndex
	if seat == NoSeat {
		return botsvc.DecisionRequest{}, ErrNoBotPending
	}
	p := s.Players[seat]

	others := make([]botsvc.SeatInfo, 0, len(s.Players)-1)
	for i, o := range s.Players {
		if i == seat {
			continue
		}
		others = append(others, botsvc.SeatInfo{
			Chips:     o.Chips,
			Bet:       o.Bet,
			HasFolded: o.HasFolded,
			IsHero:    o.IsHero,
		})
	}

	req := botsvc.DecisionRequest{
		Stage:       s.Stage.String(),
		SmallBlind:  s.SmallBlind,
		BigBlind:    s.BigBlind,
		Pot:         s.Pot,
		HighestBet:  s.CurrentBet,
		ToCall:      s.CurrentBet - p.Bet,
		Players:     others,
		Board:       s.Board,
		DealerIndex: s.DealerIndex,
		Bot: botsvc.ActorInfo{
			Chips:     p.Chips,
			Bet:       p.Bet,
			HoleCards: p.HoleCards,
			SeatIndex: p.SeatIndex,
		},
	}
	if p.AI != nil {
		req.Bot.Personality = p.AI.Personality
		req.Bot.Difficulty = p.AI.Difficulty
	}
	if req.ToCall < 0 {
		req.ToCall = 0
	}
	return req, nil
}

// PerformBotActionNow obtains a decision for the pending bot seat and
// resumes the machine. With a collaborator the decision comes from the
// remote service; its failure is absorbed by the local fallback heuristic,
// never propagated. With a nil collaborator the in-process engine decides.
func (s State) PerformBotActionNow(ctx context.Context, decider Decider) (State, error) {
	if !s.Stage.betting() {
		return s, fmt.Errorf("%w: %s", ErrInvalidStage, s.Stage)
	}
	cur := s
	if cur.BotPendingIndex == NoSeat {
		// Allow hosts to drive the machine without an explicit
		// ProcessNextAction when the cursor already rests on a bot.
		if cur.CurrentPlayerIndex == NoSeat || !cur.Players[cur.CurrentPlayerIndex].IsBot {
			return s, ErrNoBotPending
		}
		cur = cur.clone().processTurn()
	}

	req, err := cur.DecisionRequest()
	if err != nil {
		return s, err
	}

	var decision ai.Decision
	switch {
	case decider != nil:
		decision, err = decider.Decide(ctx, req)
		if err != nil {
			cur.logger.Warn("bot service failed, using fallback", "err", err, "seat", cur.BotPendingIndex)
			decision = botsvc.Fallback(req)
		}
	default:
		decision = ai.Decide(req.Situation(), cur.rng)
	}

	return cur.ApplyBotDecision(cur.BotPendingIndex, decision)
}

// BotDecisionOverdue reports whether the advisory deadline for the pending
// bot decision has passed; hosts use it to abandon a slow collaborator and
// substitute the fallback.
func (s State) BotDecisionOverdue() bool {
	return s.BotPendingIndex != NoSeat && s.clock.Now().After(s.BotDecisionDueAt)
}
