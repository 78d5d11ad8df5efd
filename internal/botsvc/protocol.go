// Package botsvc is the bot-decision collaborator boundary: the wire
// contract shared by the HTTP client and the gin service that answers it,
// plus the local fallback used when the collaborator fails.
package botsvc

import (
	"github.com/lox/holdemtable/internal/ai"
	"github.com/lox/holdemtable/internal/deck"
)

// SeatInfo describes one opposing seat in a decision request
type SeatInfo struct {
	Chips     int  `json:"chips"`
	Bet       int  `json:"bet"`
	HasFolded bool `json:"hasFolded"`
	IsHero    bool `json:"isHero"`
}

// ActorInfo describes the seat the decision is for
type ActorInfo struct {
	Chips       int            `json:"chips"`
	Bet         int            `json:"bet"`
	HoleCards   []deck.Card    `json:"holeCards"`
	SeatIndex   int            `json:"seatIndex"`
	Personality ai.Personality `json:"personality"`
	Difficulty  ai.Difficulty  `json:"difficulty"`
}

// DecisionRequest is the request body for POST /decide. Field names match
// the service contract exactly.
type DecisionRequest struct {
	Stage       string      `json:"stage"`
	SmallBlind  int         `json:"smallBlind"`
	BigBlind    int         `json:"bigBlind"`
	Pot         int         `json:"pot"`
	HighestBet  int         `json:"highestBet"`
	ToCall      int         `json:"toCall"`
	Bot         ActorInfo   `json:"bot"`
	Players     []SeatInfo  `json:"players"`
	Board       []deck.Card `json:"board"`
	DealerIndex int         `json:"dealerIndex"`
}

// DecisionResponse is the response body for POST /decide
type DecisionResponse struct {
	Action    ai.Action `json:"action"`
	RaiseTo   *int      `json:"raiseTo,omitempty"`
	Rationale string    `json:"rationale,omitempty"`
}

// Decision converts the wire response into an engine decision
func (r DecisionResponse) Decision() ai.Decision {
	d := ai.Decision{Action: r.Action, Rationale: r.Rationale}
	if r.RaiseTo != nil {
		d.RaiseTo = *r.RaiseTo
	}
	return d
}

// Situation maps a request onto the local engine's input, used both by the
// serving side and by hosts that skip the network entirely.
func (r DecisionRequest) Situation() ai.Situation {
	opponents := 0
	for _, p := range r.Players {
		if !p.HasFolded {
			opponents++
		}
	}
	return ai.Situation{
		HoleCards:   r.Bot.HoleCards,
		Board:       r.Board,
		Pot:         r.Pot,
		HighestBet:  r.HighestBet,
		ToCall:      r.ToCall,
		SmallBlind:  r.SmallBlind,
		BigBlind:    r.BigBlind,
		Chips:       r.Bot.Chips,
		Bet:         r.Bot.Bet,
		SeatIndex:   r.Bot.SeatIndex,
		DealerIndex: r.DealerIndex,
		NumSeats:    len(r.Players) + 1,
		Opponents:   opponents,
		Profile: ai.Profile{
			Personality: r.Bot.Personality,
			Difficulty:  r.Bot.Difficulty,
		},
	}
}

// Fallback is the local heuristic substituted when the collaborator cannot
// be reached or returns garbage: fold when the call costs more than half
// the stack, otherwise check or call.
func Fallback(req DecisionRequest) ai.Decision {
	if req.ToCall > req.Bot.Chips/2 {
		return ai.Decision{Action: ai.Fold, Rationale: "fallback: call too expensive"}
	}
	return ai.Decision{Action: ai.Call, Rationale: "fallback: check or call"}
}
