// Package table implements the betting round state machine: the single
// entry point for all table mutation. Every operation takes a State value
// and returns a new, fully consistent State; no argument is ever mutated.
package table

import (
	"encoding/json"
	"fmt"
	"io"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/holdemtable/internal/ai"
	"github.com/lox/holdemtable/internal/chips"
	"github.com/lox/holdemtable/internal/deck"
	"github.com/lox/holdemtable/internal/randutil"
)

// Stage is a discrete phase of a hand
type Stage int

const (
	DealerDraw Stage = iota
	PreFlop
	Flop
	Turn
	River
	Showdown
)

// String returns the stage name
func (s Stage) String() string {
	switch s {
	case DealerDraw:
		return "DealerDraw"
	case PreFlop:
		return "PreFlop"
	case Flop:
		return "Flop"
	case Turn:
		return "Turn"
	case River:
		return "River"
	case Showdown:
		return "Showdown"
	default:
		return "Unknown"
	}
}

// MarshalJSON encodes the stage as its name
func (s Stage) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a stage name
func (s *Stage) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for st := DealerDraw; st <= Showdown; st++ {
		if st.String() == name {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown stage %q", name)
}

// betting reports whether the stage accepts player actions
func (s Stage) betting() bool {
	return s >= PreFlop && s <= River
}

// LogKind classifies action log entries
type LogKind string

const (
	LogInfo   LogKind = "info"
	LogAction LogKind = "action"
	LogDeal   LogKind = "deal"
	LogTip    LogKind = "tip"
)

// LogEntry is one line of the table's action log
type LogEntry struct {
	Message string    `json:"message"`
	Stage   Stage     `json:"stage"`
	Kind    LogKind   `json:"kind"`
	Time    time.Time `json:"time"`
}

// Player is one seat at the table
type Player struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	IsBot     bool        `json:"isBot"`
	IsHero    bool        `json:"isHero"`
	Chips     int         `json:"chips"`
	ChipStack chips.Stack `json:"chipStack,omitempty"`
	Bet       int         `json:"bet"`
	HoleCards []deck.Card `json:"holeCards"`
	HasFolded bool        `json:"hasFolded"`
	SeatIndex int         `json:"seatIndex"`
	AI        *ai.Profile `json:"ai,omitempty"`
}

// inHand reports whether the seat can still win the pot
func (p Player) inHand() bool {
	return !p.HasFolded
}

// canAct reports whether the seat is eligible for the turn cursor
func (p Player) canAct() bool {
	return !p.HasFolded && p.Chips > 0
}

func (p Player) clone() Player {
	out := p
	out.HoleCards = append([]deck.Card(nil), p.HoleCards...)
	out.ChipStack = p.ChipStack.Clone()
	if p.AI != nil {
		profile := *p.AI
		out.AI = &profile
	}
	return out
}

// NoSeat marks index fields that reference no seat
const NoSeat = -1

// State is an immutable snapshot of the table. Operations return derived
// copies; the zero value is not usable, construct with New.
type State struct {
	TableID            string               `json:"tableId"`
	Deck               []deck.Card          `json:"deck"`
	Board              []deck.Card          `json:"board"`
	Burned             []deck.Card          `json:"burned"`
	Players            []Player             `json:"players"`
	DealerIndex        int                  `json:"dealerIndex"`
	SmallBlindIndex    int                  `json:"smallBlindIndex"`
	BigBlindIndex      int                  `json:"bigBlindIndex"`
	CurrentPlayerIndex int                  `json:"currentPlayerIndex"`
	Pot                int                  `json:"pot"`
	PotStack           chips.Stack          `json:"potStack"`
	SmallBlind         int                  `json:"smallBlind"`
	BigBlind           int                  `json:"bigBlind"`
	HandNumber         int                  `json:"handNumber"`
	CurrentBet         int                  `json:"currentBet"`
	Stage              Stage                `json:"stage"`
	ActionLog          []LogEntry           `json:"actionLog"`
	ActionsThisStreet  int                  `json:"actionsThisStreet"`
	FirstToActIndex    int                  `json:"firstToActIndex"`
	DealerDrawCards    map[string]deck.Card `json:"dealerDrawCards,omitempty"`
	DealerDrawRevealed bool                 `json:"dealerDrawRevealed"`
	DealerDrawPending  bool                 `json:"dealerDrawInProgress"`
	BotPendingIndex    int                  `json:"botPendingIndex"`
	BotDecisionDueAt   time.Time            `json:"botDecisionDueAt,omitzero"`

	// Runtime collaborators, shared across snapshots and excluded from
	// serialization.
	clock      quartz.Clock
	rng        *rand.Rand
	logger     *log.Logger
	shuffleSrc io.Reader // nil means crypto/rand
	botTimeout time.Duration
}

// Config is the host-facing table configuration surface
type Config struct {
	SmallBlind        int
	BigBlind          int
	NumBots           int // 0..10
	StartingChips     int
	InitialChipStack  chips.Stack // optional explicit breakdown
	Difficulty        ai.Difficulty
	BotDecisionWindow time.Duration // advisory deadline for bot decisions
}

// Option customises runtime collaborators without entering the snapshot
type Option func(*State)

// WithClock injects the clock used for log timestamps and bot decision
// deadlines. Defaults to the real clock.
func WithClock(clock quartz.Clock) Option {
	return func(s *State) { s.clock = clock }
}

// WithRand injects the random source for dealer draw ordering, personality
// assignment and local bot decisions. Defaults to a time-seeded source.
func WithRand(rng *rand.Rand) Option {
	return func(s *State) { s.rng = rng }
}

// WithShuffleReader overrides the crypto entropy source behind the shuffle,
// for deterministic tests.
func WithShuffleReader(src io.Reader) Option {
	return func(s *State) { s.shuffleSrc = src }
}

// WithLogger injects the structured logger. Defaults to a silent logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *State) { s.logger = logger }
}

const maxBots = 10

// New creates the initial table: hero in seat 0, bots in the remaining
// seats, stage DealerDraw with no dealer fixed yet.
func New(cfg Config, opts ...Option) (State, error) {
	if cfg.NumBots < 0 || cfg.NumBots > maxBots {
		return State{}, fmt.Errorf("%w: numBots %d not in 0..%d", ErrBadConfig, cfg.NumBots, maxBots)
	}
	if cfg.SmallBlind <= 0 || cfg.BigBlind < cfg.SmallBlind {
		return State{}, fmt.Errorf("%w: blinds %d/%d", ErrBadConfig, cfg.SmallBlind, cfg.BigBlind)
	}
	if cfg.StartingChips <= 0 {
		return State{}, fmt.Errorf("%w: startingChips %d", ErrBadConfig, cfg.StartingChips)
	}
	if cfg.BotDecisionWindow <= 0 {
		cfg.BotDecisionWindow = 10 * time.Second
	}

	s := State{
		TableID:            uuid.NewString(),
		Deck:               deck.New(),
		Players:            make([]Player, 0, cfg.NumBots+1),
		DealerIndex:        NoSeat,
		SmallBlindIndex:    NoSeat,
		BigBlindIndex:      NoSeat,
		CurrentPlayerIndex: NoSeat,
		PotStack:           chips.NewStack(),
		SmallBlind:         cfg.SmallBlind,
		BigBlind:           cfg.BigBlind,
		Stage:              DealerDraw,
		DealerDrawPending:  true,
		BotPendingIndex:    NoSeat,
		botTimeout:         cfg.BotDecisionWindow,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.clock == nil {
		s.clock = quartz.NewReal()
	}
	if s.rng == nil {
		s.rng = randutil.New(time.Now().UnixNano())
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	stackFor := func() chips.Stack {
		if cfg.InitialChipStack != nil {
			return cfg.InitialChipStack.Clone()
		}
		return chips.StackFor(cfg.StartingChips)
	}

	s.Players = append(s.Players, Player{
		ID:        uuid.NewString(),
		Name:      "You",
		IsHero:    true,
		Chips:     cfg.StartingChips,
		ChipStack: stackFor(),
		SeatIndex: 0,
	})
	personalities := []ai.Personality{ai.Balanced, ai.Aggressive, ai.Passive, ai.Maniac, ai.Nit}
	for i := 0; i < cfg.NumBots; i++ {
		s.Players = append(s.Players, Player{
			ID:        uuid.NewString(),
			Name:      fmt.Sprintf("Bot %d", i+1),
			IsBot:     true,
			Chips:     cfg.StartingChips,
			ChipStack: stackFor(),
			SeatIndex: i + 1,
			AI: &ai.Profile{
				Personality: personalities[s.rng.IntN(len(personalities))],
				Difficulty:  cfg.Difficulty,
			},
		})
	}

	s = s.appendLog(LogInfo, fmt.Sprintf("Table created with %d seats, blinds %d/%d",
		len(s.Players), s.SmallBlind, s.BigBlind))
	return s, nil
}

// clone returns a deep copy sharing only the runtime collaborators
func (s State) clone() State {
	out := s
	out.Deck = append([]deck.Card(nil), s.Deck...)
	out.Board = append([]deck.Card(nil), s.Board...)
	out.Burned = append([]deck.Card(nil), s.Burned...)
	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		out.Players[i] = p.clone()
	}
	out.PotStack = s.PotStack.Clone()
	out.ActionLog = append([]LogEntry(nil), s.ActionLog...)
	if s.DealerDrawCards != nil {
		out.DealerDrawCards = make(map[string]deck.Card, len(s.DealerDrawCards))
		for id, c := range s.DealerDrawCards {
			out.DealerDrawCards[id] = c
		}
	}
	return out
}

// appendLog returns a copy of s with one more log entry
func (s State) appendLog(kind LogKind, message string) State {
	entry := LogEntry{Message: message, Stage: s.Stage, Kind: kind, Time: s.clock.Now()}
	out := s
	out.ActionLog = append(append([]LogEntry(nil), s.ActionLog...), entry)
	return out
}

// TotalChips returns the chip conservation ledger: every stack plus the pot
func (s State) TotalChips() int {
	total := s.Pot
	for _, p := range s.Players {
		total += p.Chips
	}
	return total
}

// Hero returns the hero seat index
func (s State) Hero() int {
	for i, p := range s.Players {
		if p.IsHero {
			return i
		}
	}
	return NoSeat
}

// nextEligible sweeps forward from seat `from` (inclusive) and returns the
// first seat that can act, or NoSeat when a full sweep finds none.
func (s State) nextEligible(from int) int {
	n := len(s.Players)
	for i := 0; i < n; i++ {
		seat := ((from + i) % n + n) % n
		if s.Players[seat].canAct() {
			return seat
		}
	}
	return NoSeat
}

// survivors returns the seats still in the hand
func (s State) survivors() []int {
	out := make([]int, 0, len(s.Players))
	for i, p := range s.Players {
		if p.inHand() {
			out = append(out, i)
		}
	}
	return out
}
