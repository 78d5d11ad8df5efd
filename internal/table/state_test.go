package table

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemtable/internal/ai"
	"github.com/lox/holdemtable/internal/botsvc"
	"github.com/lox/holdemtable/internal/chips"
	"github.com/lox/holdemtable/internal/deck"
	"github.com/lox/holdemtable/internal/randutil"
)

func silentLogger() *log.Logger {
	return log.New(io.Discard)
}

func testConfig(bots int) Config {
	return Config{
		SmallBlind:    5,
		BigBlind:      10,
		NumBots:       bots,
		StartingChips: 1000,
		Difficulty:    ai.Medium,
	}
}

func testTable(t *testing.T, bots int, opts ...Option) State {
	t.Helper()
	base := []Option{
		WithRand(randutil.New(42)),
		WithClock(quartz.NewMock(t)),
	}
	state, err := New(testConfig(bots), append(base, opts...)...)
	require.NoError(t, err)
	return state
}

// deciderFunc adapts a function to the Decider interface
type deciderFunc func(ctx context.Context, req botsvc.DecisionRequest) (ai.Decision, error)

func (f deciderFunc) Decide(ctx context.Context, req botsvc.DecisionRequest) (ai.Decision, error) {
	return f(ctx, req)
}

func alwaysCall() Decider {
	return deciderFunc(func(context.Context, botsvc.DecisionRequest) (ai.Decision, error) {
		return ai.Decision{Action: ai.Call}, nil
	})
}

func alwaysFold() Decider {
	return deciderFunc(func(context.Context, botsvc.DecisionRequest) (ai.Decision, error) {
		return ai.Decision{Action: ai.Fold}, nil
	})
}

// driveToHero advances bot turns until the cursor rests on the hero or the
// hand ends.
func driveToHero(t *testing.T, state State, decider Decider) State {
	t.Helper()
	for state.Stage.betting() && state.CurrentPlayerIndex != state.Hero() {
		next, err := state.PerformBotActionNow(context.Background(), decider)
		require.NoError(t, err)
		state = next
	}
	return state
}

// playHand runs a started hand to completion with every seat calling
func playHandAllCall(t *testing.T, state State) State {
	t.Helper()
	decider := alwaysCall()
	for state.Stage != Showdown {
		state = driveToHero(t, state, decider)
		if state.Stage == Showdown {
			break
		}
		next, err := state.HeroCall()
		require.NoError(t, err)
		state = next
	}
	return state
}

func TestNewValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cfg  Config
	}{
		{"too many bots", Config{SmallBlind: 5, BigBlind: 10, NumBots: 11, StartingChips: 1000}},
		{"negative bots", Config{SmallBlind: 5, BigBlind: 10, NumBots: -1, StartingChips: 1000}},
		{"zero small blind", Config{SmallBlind: 0, BigBlind: 10, NumBots: 3, StartingChips: 1000}},
		{"big blind below small", Config{SmallBlind: 10, BigBlind: 5, NumBots: 3, StartingChips: 1000}},
		{"no starting chips", Config{SmallBlind: 5, BigBlind: 10, NumBots: 3, StartingChips: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			assert.ErrorIs(t, err, ErrBadConfig)
		})
	}
}

func TestNewTable(t *testing.T) {
	t.Parallel()
	state := testTable(t, 3)

	require.Len(t, state.Players, 4)
	assert.Equal(t, DealerDraw, state.Stage)
	assert.True(t, state.DealerDrawPending)
	assert.Equal(t, NoSeat, state.DealerIndex)
	assert.Equal(t, 4000, state.TotalChips())
	assert.NotEmpty(t, state.TableID)

	hero := state.Players[0]
	assert.True(t, hero.IsHero)
	assert.False(t, hero.IsBot)
	assert.Equal(t, "You", hero.Name)
	assert.Nil(t, hero.AI)
	assert.Equal(t, 1000, hero.ChipStack.Value())

	for i, p := range state.Players[1:] {
		assert.True(t, p.IsBot, "seat %d", i+1)
		require.NotNil(t, p.AI, "seat %d", i+1)
		assert.Equal(t, ai.Medium, p.AI.Difficulty)
		assert.Equal(t, 1000, p.ChipStack.Value())
	}
}

func TestDealerDrawFixesButton(t *testing.T) {
	t.Parallel()
	state := testTable(t, 3)
	state, err := state.StartNewHand()
	require.NoError(t, err)

	assert.True(t, state.DealerDrawRevealed)
	assert.False(t, state.DealerDrawPending)
	require.Len(t, state.DealerDrawCards, 4)
	require.NotEqual(t, NoSeat, state.DealerIndex)

	// The dealer's card beats every other seat's card under the
	// rank-then-suit ordering.
	winner := state.DealerDrawCards[state.Players[state.DealerIndex].ID]
	for i, p := range state.Players {
		if i == state.DealerIndex {
			continue
		}
		assert.True(t, drawBeats(winner, state.DealerDrawCards[p.ID]),
			"dealer card %s should beat seat %d card %s", winner, i, state.DealerDrawCards[p.ID])
	}
}

func TestBlindsAndDeal(t *testing.T) {
	t.Parallel()
	state := testTable(t, 3)
	state, err := state.StartNewHand()
	require.NoError(t, err)

	assert.Equal(t, PreFlop, state.Stage)
	assert.Equal(t, 1, state.HandNumber)
	assert.Equal(t, 15, state.Pot)
	assert.Equal(t, 15, state.PotStack.Value())
	assert.Equal(t, 10, state.CurrentBet)

	sb := state.Players[state.SmallBlindIndex]
	bb := state.Players[state.BigBlindIndex]
	assert.Equal(t, 5, sb.Bet)
	assert.Equal(t, 995, sb.Chips)
	assert.Equal(t, 10, bb.Bet)
	assert.Equal(t, 990, bb.Chips)

	// Blinds sit left of the button at a full table
	n := len(state.Players)
	assert.Equal(t, (state.DealerIndex+1)%n, state.SmallBlindIndex)
	assert.Equal(t, (state.DealerIndex+2)%n, state.BigBlindIndex)

	// Everyone gets two hole cards, cursor starts left of the big blind
	for i, p := range state.Players {
		assert.Len(t, p.HoleCards, 2, "seat %d", i)
	}
	assert.Equal(t, (state.BigBlindIndex+1)%n, state.FirstToActIndex)
	assert.Equal(t, state.FirstToActIndex, state.CurrentPlayerIndex)
	assert.Equal(t, 4000, state.TotalChips())
}

func TestHeadsUpDealerPostsSmallBlind(t *testing.T) {
	t.Parallel()
	state := testTable(t, 1)
	state, err := state.StartNewHand()
	require.NoError(t, err)

	assert.Equal(t, state.DealerIndex, state.SmallBlindIndex)
	assert.NotEqual(t, state.SmallBlindIndex, state.BigBlindIndex)
}

func TestDeckIntegrityAfterDeal(t *testing.T) {
	t.Parallel()
	state := testTable(t, 5)
	state, err := state.StartNewHand()
	require.NoError(t, err)

	seen := make(map[deck.Card]int)
	count := 0
	add := func(cards []deck.Card) {
		for _, c := range cards {
			seen[c]++
			count++
		}
	}
	add(state.Deck)
	add(state.Board)
	add(state.Burned)
	for _, p := range state.Players {
		add(p.HoleCards)
	}

	assert.Equal(t, 52, count)
	for c, n := range seen {
		assert.Equal(t, 1, n, "card %s dealt %d times", c, n)
	}
}

func TestHandPlaysToShowdown(t *testing.T) {
	t.Parallel()
	state := testTable(t, 3)
	state, err := state.StartNewHand()
	require.NoError(t, err)

	state = playHandAllCall(t, state)

	assert.Equal(t, Showdown, state.Stage)
	assert.Len(t, state.Board, 5)
	assert.Len(t, state.Burned, 3)
	assert.Equal(t, 0, state.Pot)
	assert.Equal(t, 0, state.PotStack.Value())
	assert.Equal(t, NoSeat, state.CurrentPlayerIndex)
	assert.Equal(t, 4000, state.TotalChips())

	// The denomination ledger is conserved alongside the numeric one
	stackTotal := state.PotStack.Value()
	for _, p := range state.Players {
		stackTotal += p.ChipStack.Value()
	}
	assert.Equal(t, 4000, stackTotal)
}

func TestFoldsEndHandEarly(t *testing.T) {
	t.Parallel()
	state := testTable(t, 3)
	state, err := state.StartNewHand()
	require.NoError(t, err)
	potBefore := state.Pot

	decider := alwaysFold()
	for state.Stage.betting() {
		if state.CurrentPlayerIndex == state.Hero() {
			next, err := state.HeroFold()
			require.NoError(t, err)
			state = next
			continue
		}
		next, err := state.PerformBotActionNow(context.Background(), decider)
		require.NoError(t, err)
		state = next
	}

	assert.Equal(t, Showdown, state.Stage)
	assert.Equal(t, 1, len(state.survivors()))
	assert.Equal(t, 4000, state.TotalChips())

	// The lone survivor banked the blinds, minus whatever they posted
	winner := state.Players[state.survivors()[0]]
	assert.Greater(t, winner.Chips, 1000)
	assert.LessOrEqual(t, winner.Chips, 1000+potBefore)
}

func TestHeroActionsOutOfTurn(t *testing.T) {
	t.Parallel()
	state := testTable(t, 3)
	state, err := state.StartNewHand()
	require.NoError(t, err)

	if state.CurrentPlayerIndex != state.Hero() {
		_, err := state.HeroCall()
		assert.ErrorIs(t, err, ErrOutOfTurn)
		_, err = state.HeroFold()
		assert.ErrorIs(t, err, ErrOutOfTurn)
		_, err = state.HeroRaiseTo(50)
		assert.ErrorIs(t, err, ErrOutOfTurn)
	}

	state = playHandAllCall(t, state)
	_, err = state.HeroCall()
	assert.ErrorIs(t, err, ErrInvalidStage)
	_, err = state.StartNewHand()
	assert.NoError(t, err, "a finished hand allows the next deal")
}

func TestProcessNextActionDoesNotDoubleAdvance(t *testing.T) {
	t.Parallel()
	state := testTable(t, 3)
	state, err := state.StartNewHand()
	require.NoError(t, err)

	once, err := state.ProcessNextAction()
	require.NoError(t, err)
	twice, err := once.ProcessNextAction()
	require.NoError(t, err)

	assert.Equal(t, once.Stage, twice.Stage)
	assert.Equal(t, once.CurrentPlayerIndex, twice.CurrentPlayerIndex)
	assert.Equal(t, once.BotPendingIndex, twice.BotPendingIndex)
	assert.Equal(t, once.ActionsThisStreet, twice.ActionsThisStreet)
	assert.Len(t, twice.Board, len(once.Board))
}

func TestStartNewHandDuringBetting(t *testing.T) {
	t.Parallel()
	state := testTable(t, 3)
	state, err := state.StartNewHand()
	require.NoError(t, err)

	_, err = state.StartNewHand()
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestButtonAdvancesBetweenHands(t *testing.T) {
	t.Parallel()
	state := testTable(t, 3)
	state, err := state.StartNewHand()
	require.NoError(t, err)
	firstDealer := state.DealerIndex

	state = playHandAllCall(t, state)
	state, err = state.StartNewHand()
	require.NoError(t, err)

	assert.Equal(t, 2, state.HandNumber)
	assert.Equal(t, state.nextEligible(firstDealer+1), state.DealerIndex)
	assert.Len(t, state.DealerDrawCards, 4, "the draw happens once, not per hand")
}

func TestHeroRaiseClampedToMinimum(t *testing.T) {
	t.Parallel()
	state := testTable(t, 3)
	state, err := state.StartNewHand()
	require.NoError(t, err)
	state = driveToHero(t, state, alwaysCall())
	require.True(t, state.Stage.betting())

	minLegal := state.CurrentBet + state.BigBlind
	state, err = state.HeroRaiseTo(minLegal - 7)
	require.NoError(t, err)

	assert.Equal(t, minLegal, state.CurrentBet)
	assert.Equal(t, minLegal, state.Players[state.Hero()].Bet)
}

func TestHeroRaiseBeyondStackIsAllIn(t *testing.T) {
	t.Parallel()
	state := testTable(t, 3)
	state, err := state.StartNewHand()
	require.NoError(t, err)
	state = driveToHero(t, state, alwaysCall())
	require.True(t, state.Stage.betting())

	state, err = state.HeroRaiseTo(1_000_000)
	require.NoError(t, err)

	hero := state.Players[state.Hero()]
	assert.Equal(t, 0, hero.Chips)
	assert.Equal(t, 1000, hero.Bet)
	assert.Equal(t, 1000, state.CurrentBet)
}

func TestApplyBotDecisionValidation(t *testing.T) {
	t.Parallel()
	state := testTable(t, 3)
	state, err := state.StartNewHand()
	require.NoError(t, err)

	if state.BotPendingIndex == NoSeat {
		_, err := state.ApplyBotDecision(1, ai.Decision{Action: ai.Fold})
		assert.ErrorIs(t, err, ErrNoBotPending)
		return
	}

	wrong := (state.BotPendingIndex + 1) % len(state.Players)
	_, err = state.ApplyBotDecision(wrong, ai.Decision{Action: ai.Fold})
	assert.ErrorIs(t, err, ErrOutOfTurn)
}

func TestBotDecisionDeadline(t *testing.T) {
	t.Parallel()
	mock := quartz.NewMock(t)
	cfg := testConfig(3)
	cfg.BotDecisionWindow = 5 * time.Second
	state, err := New(cfg, WithRand(randutil.New(7)), WithClock(mock))
	require.NoError(t, err)
	state, err = state.StartNewHand()
	require.NoError(t, err)

	if state.BotPendingIndex == NoSeat {
		// Hero acts first this deal: fold through to a bot seat
		state, err = state.HeroFold()
		require.NoError(t, err)
	}
	require.NotEqual(t, NoSeat, state.BotPendingIndex)
	assert.Equal(t, mock.Now().Add(5*time.Second), state.BotDecisionDueAt)
	assert.False(t, state.BotDecisionOverdue())

	mock.Advance(6 * time.Second)
	assert.True(t, state.BotDecisionOverdue())
}

func TestOperationsDoNotMutateReceiver(t *testing.T) {
	t.Parallel()
	state := testTable(t, 3)
	state, err := state.StartNewHand()
	require.NoError(t, err)

	potBefore := state.Pot
	logBefore := len(state.ActionLog)
	chipsBefore := make([]int, len(state.Players))
	for i, p := range state.Players {
		chipsBefore[i] = p.Chips
	}

	next := driveToHero(t, state, alwaysCall())
	_ = next

	assert.Equal(t, potBefore, state.Pot)
	assert.Len(t, state.ActionLog, logBefore)
	for i, p := range state.Players {
		assert.Equal(t, chipsBefore[i], p.Chips, "seat %d", i)
	}
}

func TestBotServiceFailureFallsBack(t *testing.T) {
	t.Parallel()
	state := testTable(t, 3)
	state, err := state.StartNewHand()
	require.NoError(t, err)
	state = driveToHero(t, state, deciderFunc(func(context.Context, botsvc.DecisionRequest) (ai.Decision, error) {
		return ai.Decision{}, assert.AnError
	}))

	// The failing collaborator never stalls the hand: the fallback acted
	// for every bot and play reached the hero or ended.
	if state.Stage.betting() {
		assert.Equal(t, state.Hero(), state.CurrentPlayerIndex)
	}
	assert.Equal(t, 4000, state.TotalChips())
}

func TestShowdownAwardsPot(t *testing.T) {
	t.Parallel()
	state := testTable(t, 2)
	state, err := state.StartNewHand()
	require.NoError(t, err)
	state = playHandAllCall(t, state)

	require.Equal(t, Showdown, state.Stage)
	assert.Equal(t, 0, state.Pot, "the pot pays out in full")
	assert.Equal(t, 3000, state.TotalChips())
	for i, p := range state.Players {
		assert.GreaterOrEqual(t, p.Chips, 0, "seat %d", i)
	}
}

func TestSplitPotOddChips(t *testing.T) {
	t.Parallel()
	mock := quartz.NewMock(t)
	board := []deck.Card{
		deck.NewCard(deck.Spades, deck.Ten),
		deck.NewCard(deck.Hearts, deck.Nine),
		deck.NewCard(deck.Clubs, deck.Eight),
		deck.NewCard(deck.Diamonds, deck.Seven),
		deck.NewCard(deck.Spades, deck.Six),
	}
	// Both hole hands play the board: a ten-high straight each, exact tie
	state := State{
		Players: []Player{
			{ID: "a", Name: "You", IsHero: true, Chips: 0, ChipStack: chips.NewStack(),
				HoleCards: []deck.Card{deck.NewCard(deck.Hearts, deck.Two), deck.NewCard(deck.Clubs, deck.Three)}},
			{ID: "b", Name: "Bot 1", IsBot: true, Chips: 0, ChipStack: chips.NewStack(),
				HoleCards: []deck.Card{deck.NewCard(deck.Diamonds, deck.Two), deck.NewCard(deck.Spades, deck.Three)}},
		},
		Board:       board,
		Pot:         15,
		PotStack:    chips.StackFor(15),
		DealerIndex: 0,
		Stage:       River,
		clock:       mock,
		logger:      silentLogger(),
	}

	out := state.showdown()

	// Seat 1 sits immediately clockwise of the dealer and takes the odd chip
	assert.Equal(t, 8, out.Players[1].Chips)
	assert.Equal(t, 7, out.Players[0].Chips)
	assert.Equal(t, 0, out.Pot)
	assert.Equal(t, Showdown, out.Stage)

	stackTotal := out.Players[0].ChipStack.Value() + out.Players[1].ChipStack.Value()
	assert.Equal(t, 15, stackTotal+out.PotStack.Value())
}

func TestTotalChipsConservedOverManyHands(t *testing.T) {
	t.Parallel()
	state := testTable(t, 4)
	total := state.TotalChips()

	for hand := 0; hand < 20; hand++ {
		next, err := state.StartNewHand()
		if err != nil {
			break
		}
		state = playHandAllCall(t, next)
		require.Equal(t, total, state.TotalChips(), "hand %d", hand+1)
	}
}
