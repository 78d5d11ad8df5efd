package deck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck(t *testing.T) {
	t.Parallel()
	cards := New()
	require.Len(t, cards, 52)

	seen := make(map[Card]bool)
	for _, c := range cards {
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}

	suits := make(map[Suit]int)
	ranks := make(map[Rank]int)
	for _, c := range cards {
		suits[c.Suit]++
		ranks[c.Rank]++
	}
	for suit := Hearts; suit <= Spades; suit++ {
		assert.Equal(t, 13, suits[suit], "suit %s", suit)
	}
	for rank := Two; rank <= Ace; rank++ {
		assert.Equal(t, 4, ranks[rank], "rank %s", rank)
	}
}

func TestShufflePreservesComposition(t *testing.T) {
	t.Parallel()
	original := New()
	shuffled := Shuffle(original)

	require.Len(t, shuffled, 52)
	// Input untouched
	assert.Equal(t, New(), original)

	counts := make(map[Card]int)
	for _, c := range shuffled {
		counts[c]++
	}
	for _, c := range original {
		assert.Equal(t, 1, counts[c], "card %s", c)
	}
}

func TestShuffleFromDeterministic(t *testing.T) {
	t.Parallel()
	cards := New()
	a := ShuffleFrom(bytes.NewReader(seqBytes(512)), cards)
	b := ShuffleFrom(bytes.NewReader(seqBytes(512)), cards)
	assert.Equal(t, a, b, "same source bytes must give the same permutation")
}

// A 4-card deck has 24 permutations. With an unbiased shuffle and enough
// trials every permutation shows up at roughly trials/24, so a chi-squared
// style bound on the counts catches modulo bias.
func TestShuffleUniformity(t *testing.T) {
	t.Parallel()
	small := []Card{
		NewCard(Spades, Ace),
		NewCard(Hearts, King),
		NewCard(Diamonds, Queen),
		NewCard(Clubs, Jack),
	}

	const trials = 100_000
	src := rand.New(rand.NewSource(1))
	counts := make(map[string]int)
	for range trials {
		out := ShuffleFrom(src, small)
		key := ""
		for _, c := range out {
			key += c.String()
		}
		counts[key]++
	}

	require.Len(t, counts, 24, "all permutations should occur")
	expected := float64(trials) / 24
	for key, n := range counts {
		assert.InDelta(t, expected, float64(n), expected*0.1,
			"permutation %s outside tolerance", key)
	}
}

func TestUniformIndexRejection(t *testing.T) {
	t.Parallel()
	// For n=52 the limit is 208: bytes 208..255 must be rejected and the
	// next byte used instead.
	src := bytes.NewReader([]byte{255, 208, 51})
	assert.Equal(t, 51, uniformIndex(src, 52))
}

func TestCardString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		card Card
		want string
	}{
		{NewCard(Spades, Ace), "A♠"},
		{NewCard(Hearts, Ten), "10♥"},
		{NewCard(Diamonds, Two), "2♦"},
		{NewCard(Clubs, Jack), "J♣"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.card.String())
	}
}

func TestCardJSONRoundTrip(t *testing.T) {
	t.Parallel()
	card := NewCard(Hearts, Ten)
	data, err := json.Marshal(card)
	require.NoError(t, err)
	assert.JSONEq(t, `{"suit":"hearts","rank":"10"}`, string(data))

	var back Card
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, card, back)
}

func TestCardJSONRejectsUnknown(t *testing.T) {
	t.Parallel()
	var c Card
	assert.Error(t, json.Unmarshal([]byte(`{"suit":"stars","rank":"A"}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"suit":"hearts","rank":"1"}`), &c))
}

func TestSuitDrawOrder(t *testing.T) {
	t.Parallel()
	order := []Suit{Clubs, Diamonds, Hearts, Spades}
	for i := 1; i < len(order); i++ {
		assert.Greater(t, order[i].DrawOrder(), order[i-1].DrawOrder(),
			"%s should outrank %s in the dealer draw", order[i], order[i-1])
	}
}

func seqBytes(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte((i * 37) % 251)
	}
	return out
}

func ExampleNew() {
	cards := New()
	fmt.Println(len(cards), cards[0], cards[51])
	// Output: 52 2♥ A♠
}
