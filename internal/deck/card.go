package deck

import (
	"encoding/json"
	"fmt"
)

// Suit represents a card suit
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "hearts"
	case Diamonds:
		return "diamonds"
	case Clubs:
		return "clubs"
	case Spades:
		return "spades"
	default:
		return "?"
	}
}

// Symbol returns the glyph for a suit (e.g. "♠")
func (s Suit) Symbol() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// DrawOrder ranks suits for the dealer draw tie-break:
// spades > hearts > diamonds > clubs.
func (s Suit) DrawOrder() int {
	switch s {
	case Spades:
		return 4
	case Hearts:
		return 3
	case Diamonds:
		return 2
	case Clubs:
		return 1
	default:
		return 0
	}
}

// MarshalJSON encodes the suit as its lowercase name
func (s Suit) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a lowercase suit name
func (s *Suit) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "hearts":
		*s = Hearts
	case "diamonds":
		*s = Diamonds
	case "clubs":
		*s = Clubs
	case "spades":
		*s = Spades
	default:
		return fmt.Errorf("unknown suit %q", name)
	}
	return nil
}

// Rank represents a card rank, Two through Ace (ace high)
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Ten:
		return fmt.Sprintf("%d", int(r))
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// MarshalJSON encodes the rank as its string name ("2".."10", "J", "Q", "K", "A")
func (r Rank) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a rank name
func (r *Rank) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "J":
		*r = Jack
	case "Q":
		*r = Queen
	case "K":
		*r = King
	case "A":
		*r = Ace
	default:
		var n int
		if _, err := fmt.Sscanf(name, "%d", &n); err != nil || n < 2 || n > 10 {
			return fmt.Errorf("unknown rank %q", name)
		}
		*r = Rank(n)
	}
	return nil
}

// Card represents a playing card. Immutable value type.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the short representation of a card (e.g. "A♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit.Symbol())
}

// Value returns the numeric rank value for comparison. Aces are high (14);
// the evaluator treats the ace as low only inside the wheel straight.
func (c Card) Value() int {
	return int(c.Rank)
}
