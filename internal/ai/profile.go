package ai

import (
	"encoding/json"
	"fmt"
)

// Personality shifts a bot's raise, fold and bluff tendencies
type Personality int

const (
	Balanced Personality = iota
	Aggressive
	Passive
	Maniac
	Nit
)

// String returns the personality name
func (p Personality) String() string {
	switch p {
	case Balanced:
		return "Balanced"
	case Aggressive:
		return "Aggressive"
	case Passive:
		return "Passive"
	case Maniac:
		return "Maniac"
	case Nit:
		return "Nit"
	default:
		return "Unknown"
	}
}

// ParsePersonality converts a personality name to its value
func ParsePersonality(name string) (Personality, error) {
	switch name {
	case "Balanced", "":
		return Balanced, nil
	case "Aggressive":
		return Aggressive, nil
	case "Passive":
		return Passive, nil
	case "Maniac":
		return Maniac, nil
	case "Nit":
		return Nit, nil
	default:
		return Balanced, fmt.Errorf("unknown personality %q", name)
	}
}

// MarshalJSON encodes the personality as its name
func (p Personality) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a personality name
func (p *Personality) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, err := ParsePersonality(name)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Difficulty controls how many mistakes a bot makes and whether it bluffs
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// String returns the difficulty name
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	default:
		return "Unknown"
	}
}

// ParseDifficulty converts a difficulty name to its value
func ParseDifficulty(name string) (Difficulty, error) {
	switch name {
	case "Easy":
		return Easy, nil
	case "Medium", "":
		return Medium, nil
	case "Hard":
		return Hard, nil
	default:
		return Medium, fmt.Errorf("unknown difficulty %q", name)
	}
}

// MarshalJSON encodes the difficulty as its name
func (d Difficulty) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a difficulty name
func (d *Difficulty) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, err := ParseDifficulty(name)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Profile is the strategy configuration carried by a bot seat
type Profile struct {
	Personality Personality `json:"personality"`
	Difficulty  Difficulty  `json:"difficulty"`
}

// traits are the numeric strategy deltas a profile resolves to
type traits struct {
	raiseDelta float64 // added to raise frequency
	foldDelta  float64 // added to fold frequency
	bluffFreq  float64 // chance to raise with nothing
	sizing     float64 // multiplier on raise/bet sizing
	mistake    float64 // chance to swap the chosen action for a passive one
	heroCall   float64 // chance to call a big bet with a marginal hand
}

// resolve flattens personality and difficulty into the deltas the engine
// applies on top of the base frequencies.
func (p Profile) resolve() traits {
	t := traits{sizing: 1.0}

	switch p.Personality {
	case Aggressive:
		t.raiseDelta += 0.15
		t.foldDelta -= 0.05
		t.bluffFreq += 0.08
		t.sizing *= 1.2
	case Passive:
		t.raiseDelta -= 0.15
		t.foldDelta += 0.05
		t.bluffFreq += 0.01
		t.sizing *= 0.85
	case Maniac:
		t.raiseDelta += 0.30
		t.foldDelta -= 0.15
		t.bluffFreq += 0.18
		t.sizing *= 1.4
	case Nit:
		t.raiseDelta -= 0.20
		t.foldDelta += 0.20
		t.sizing *= 0.9
	default:
		t.bluffFreq += 0.04
	}

	switch p.Difficulty {
	case Easy:
		t.bluffFreq = 0
		t.mistake = 0.25
	case Hard:
		t.bluffFreq += 0.05
		t.heroCall = 0.12
	}

	return t
}
