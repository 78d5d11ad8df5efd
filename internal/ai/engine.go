// Package ai implements the heuristic decision engine for non-human seats.
// Decide is a pure function of the situation and an injected random source,
// so identical (situation, seed) pairs always produce identical decisions.
package ai

import (
	"encoding/json"
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/holdemtable/internal/deck"
)

// Action is a bot's chosen move
type Action int

const (
	Fold Action = iota
	Call
	Raise
	AllIn
)

// String returns the wire name of the action
func (a Action) String() string {
	switch a {
	case Fold:
		return "Fold"
	case Call:
		return "Call"
	case Raise:
		return "Raise"
	case AllIn:
		return "AllIn"
	default:
		return "Unknown"
	}
}

// ParseAction converts a wire action name to its value
func ParseAction(name string) (Action, error) {
	switch name {
	case "Fold":
		return Fold, nil
	case "Call", "Check":
		return Call, nil
	case "Raise":
		return Raise, nil
	case "AllIn":
		return AllIn, nil
	default:
		return Fold, fmt.Errorf("unknown action %q", name)
	}
}

// MarshalJSON encodes the action as its wire name
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a wire action name
func (a *Action) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, err := ParseAction(name)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Decision is the engine's output. RaiseTo is the total street bet being
// raised to, only meaningful when Action is Raise. A Call with nothing to
// call is a check.
type Decision struct {
	Action    Action `json:"action"`
	RaiseTo   int    `json:"raiseTo,omitempty"`
	Rationale string `json:"rationale,omitempty"`
}

// Situation is everything the engine may consult about the actor and the
// table. It never references live table state, only copied values, so the
// engine cannot mutate the game.
type Situation struct {
	HoleCards  []deck.Card
	Board      []deck.Card // empty preflop
	Pot        int
	HighestBet int
	ToCall     int
	SmallBlind int
	BigBlind   int

	Chips     int // actor stack, excluding the current street bet
	Bet       int // actor's current street contribution
	SeatIndex int

	DealerIndex int
	NumSeats    int
	Opponents   int // non-folded seats besides the actor

	Profile Profile
}

// stack depth buckets in big blinds
const (
	shortStackBB = 20
	deepStackBB  = 60
)

// seat position buckets, as a fraction of seats past the dealer
const (
	latePositionFrac = 0.60
	midPositionFrac  = 0.30
)

// Decide returns the engine's action for the situation. rng must be
// non-nil; all randomness flows through it.
func Decide(sit Situation, rng *rand.Rand) Decision {
	if len(sit.HoleCards) < 2 {
		return Decision{Action: Fold, Rationale: "no hole cards"}
	}
	ctx := newContext(sit, rng)
	if len(sit.Board) == 0 {
		return decidePreflop(ctx)
	}
	return decidePostflop(ctx)
}

// context carries the derived inputs shared by every rule
type context struct {
	sit      Situation
	rng      *rand.Rand
	traits   traits
	category HandCategory
	depthBB  int
	posFrac  float64
	potOdds  float64
}

func newContext(sit Situation, rng *rand.Rand) *context {
	bb := sit.BigBlind
	if bb < 1 {
		bb = 1
	}
	ctx := &context{
		sit:      sit,
		rng:      rng,
		traits:   sit.Profile.resolve(),
		category: Classify(sit.HoleCards[0], sit.HoleCards[1]),
		depthBB:  sit.Chips / bb,
	}
	if sit.NumSeats > 0 {
		offset := ((sit.SeatIndex - sit.DealerIndex) % sit.NumSeats + sit.NumSeats) % sit.NumSeats
		ctx.posFrac = float64(offset) / float64(sit.NumSeats)
	}
	if sit.ToCall > 0 {
		ctx.potOdds = float64(sit.ToCall) / float64(sit.Pot+sit.ToCall)
	}
	return ctx
}

func (c *context) latePosition() bool { return c.posFrac >= latePositionFrac }
func (c *context) midPosition() bool  { return c.posFrac >= midPositionFrac }

// preflopRule pairs a predicate with the action template it selects. Rules
// are evaluated in order; the first match wins.
type preflopRule struct {
	name string
	when func(*context) bool
	act  func(*context) Decision
}

var preflopRules = []preflopRule{
	{
		name: "short-stack premium shove",
		when: func(c *context) bool { return c.depthBB < shortStackBB && c.category == Premium },
		act:  func(c *context) Decision { return c.decision(AllIn, 0, "short stack jam") },
	},
	{
		name: "short-stack check or fold",
		when: func(c *context) bool { return c.depthBB < shortStackBB },
		act: func(c *context) Decision {
			if c.sit.ToCall == 0 {
				return c.decision(Call, 0, "short stack check")
			}
			return c.decision(Fold, 0, "short stack fold")
		},
	},
	{
		name: "premium raise",
		when: func(c *context) bool { return c.category == Premium },
		act: func(c *context) Decision {
			if c.rng.Float64() < 0.90+c.traits.raiseDelta {
				return c.raiseDecision("premium raise")
			}
			return c.decision(Call, 0, "premium slow play")
		},
	},
	{
		name: "good hand",
		when: func(c *context) bool { return c.category == Good },
		act: func(c *context) Decision {
			raiseFreq := 0.50 + c.traits.raiseDelta
			if c.latePosition() {
				raiseFreq += 0.15
			} else if !c.midPosition() {
				raiseFreq -= 0.10
			}
			if c.rng.Float64() < raiseFreq {
				return c.raiseDecision("good hand raise")
			}
			if c.priceTooHigh(0.40) {
				return c.decision(Fold, 0, "good hand priced out")
			}
			return c.decision(Call, 0, "good hand call")
		},
	},
	{
		name: "speculative hand",
		when: func(c *context) bool { return c.category == Speculative },
		act: func(c *context) Decision {
			raiseFreq := 0.12 + c.traits.raiseDelta
			if c.latePosition() && c.depthBB > deepStackBB {
				// Deep stacks reward playing speculative hands in position
				raiseFreq += 0.10
			}
			if c.rng.Float64() < raiseFreq {
				return c.raiseDecision("speculative raise")
			}
			if c.priceTooHigh(0.25 - c.traits.foldDelta) {
				return c.decision(Fold, 0, "speculative priced out")
			}
			return c.decision(Call, 0, "speculative call")
		},
	},
	{
		name: "trash",
		when: func(c *context) bool { return true },
		act: func(c *context) Decision {
			if c.latePosition() && c.rng.Float64() < c.traits.bluffFreq {
				return c.raiseDecision("position bluff")
			}
			if c.sit.ToCall == 0 {
				return c.decision(Call, 0, "trash check")
			}
			return c.decision(Fold, 0, "trash fold")
		},
	},
}

func decidePreflop(c *context) Decision {
	for _, rule := range preflopRules {
		if rule.when(c) {
			return c.applyMistakes(rule.act(c))
		}
	}
	return c.decision(Fold, 0, "no rule matched")
}

func decidePostflop(c *context) Decision {
	score := strengthScore(c.sit.HoleCards, c.sit.Board)

	switch {
	case score >= 3000: // Strong
		if c.rng.Float64() < 0.80+c.traits.raiseDelta {
			return c.applyMistakes(c.betDecision(fmt.Sprintf("strong hand bet (score %d)", score)))
		}
		return c.applyMistakes(c.decision(Call, 0, fmt.Sprintf("strong hand trap (score %d)", score)))

	case score >= 1500: // Medium
		if c.sit.ToCall == 0 {
			if c.rng.Float64() < 0.40+c.traits.raiseDelta {
				return c.applyMistakes(c.betDecision(fmt.Sprintf("medium hand probe (score %d)", score)))
			}
			return c.decision(Call, 0, "medium hand check")
		}
		if c.priceTooHigh(0.35 - c.traits.foldDelta) {
			return c.applyMistakes(c.decision(Fold, 0, fmt.Sprintf("medium hand priced out (odds %.2f)", c.potOdds)))
		}
		return c.applyMistakes(c.decision(Call, 0, "medium hand call"))

	default: // Weak
		if c.sit.ToCall == 0 {
			if c.rng.Float64() < c.traits.bluffFreq {
				return c.betDecision("weak hand bluff")
			}
			return c.decision(Call, 0, "weak hand check")
		}
		if c.traits.heroCall > 0 && c.potOdds < 0.25 && c.rng.Float64() < c.traits.heroCall {
			return c.decision(Call, 0, "hero call")
		}
		return c.decision(Fold, 0, "weak hand fold")
	}
}

// priceTooHigh reports whether the pot odds exceed the threshold the hand
// is worth paying
func (c *context) priceTooHigh(threshold float64) bool {
	return c.sit.ToCall > 0 && c.potOdds > threshold
}

// raiseDecision builds a preflop raise. Opens are sized in a randomized
// 2.0x-3.0x big blind band; re-raises in a 2.0x-4.0x band over the bet
// being faced. Personality scales the result.
func (c *context) raiseDecision(why string) Decision {
	var target float64
	if c.sit.HighestBet <= c.sit.BigBlind {
		target = (2.0 + c.rng.Float64()) * float64(c.sit.BigBlind)
	} else {
		target = (2.0 + 2.0*c.rng.Float64()) * float64(c.sit.HighestBet)
	}
	target *= c.traits.sizing

	raiseTo := int(target)
	if raiseTo <= c.sit.HighestBet {
		raiseTo = c.sit.HighestBet + c.sit.BigBlind
	}
	if raiseTo >= c.sit.Chips+c.sit.Bet {
		return c.decision(AllIn, 0, why+" (all in)")
	}
	return c.decision(Raise, raiseTo, why)
}

// betDecision builds a postflop bet as a randomized 0.3x-0.9x fraction of
// the pot, personality-scaled, expressed as a raise-to total.
func (c *context) betDecision(why string) Decision {
	bet := (0.3 + 0.6*c.rng.Float64()) * float64(c.sit.Pot) * c.traits.sizing
	raiseTo := c.sit.HighestBet + int(bet)
	if raiseTo < c.sit.HighestBet+c.sit.BigBlind {
		raiseTo = c.sit.HighestBet + c.sit.BigBlind
	}
	if raiseTo >= c.sit.Chips+c.sit.Bet {
		return c.decision(AllIn, 0, why+" (all in)")
	}
	return c.decision(Raise, raiseTo, why)
}

// applyMistakes downgrades Easy bots' aggressive choices some of the time:
// raises become calls, marginal calls become folds.
func (c *context) applyMistakes(d Decision) Decision {
	if c.traits.mistake == 0 || c.rng.Float64() >= c.traits.mistake {
		return d
	}
	switch d.Action {
	case Raise:
		return c.decision(Call, 0, d.Rationale+" (timid)")
	case Call:
		if c.sit.ToCall > 0 {
			return c.decision(Fold, 0, d.Rationale+" (spooked)")
		}
	}
	return d
}

func (c *context) decision(action Action, raiseTo int, why string) Decision {
	rationale := fmt.Sprintf("%s; category=%s depth=%dbb pos=%.2f odds=%.2f %s/%s",
		why, c.category, c.depthBB, c.posFrac, c.potOdds,
		c.sit.Profile.Personality, c.sit.Profile.Difficulty)
	return Decision{Action: action, RaiseTo: raiseTo, Rationale: rationale}
}
