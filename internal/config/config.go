// Package config loads the table configuration from HCL files.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdemtable/internal/ai"
	"github.com/lox/holdemtable/internal/table"
)

// TableFile is the root of a table configuration file
type TableFile struct {
	Table TableBlock `hcl:"table,block"`
}

// TableBlock configures one table
type TableBlock struct {
	SmallBlind       int    `hcl:"small_blind,optional"`
	BigBlind         int    `hcl:"big_blind,optional"`
	NumBots          int    `hcl:"num_bots,optional"`
	StartingChips    int    `hcl:"starting_chips,optional"`
	Difficulty       string `hcl:"difficulty,optional"`
	BotServiceURL    string `hcl:"bot_service_url,optional"`
	BotTimeoutMillis int    `hcl:"bot_timeout_ms,optional"`
}

// Default returns the configuration used without a config file
func Default() TableBlock {
	return TableBlock{
		SmallBlind:    5,
		BigBlind:      10,
		NumBots:       3,
		StartingChips: 1000,
		Difficulty:    "Medium",
	}
}

// Load parses an HCL table config. A missing file yields the defaults.
func Load(filename string) (TableBlock, error) {
	if filename == "" {
		return Default(), nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return TableBlock{}, fmt.Errorf("parse %s: %s", filename, diags.Error())
	}

	var root TableFile
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return TableBlock{}, fmt.Errorf("decode %s: %s", filename, diags.Error())
	}

	cfg := root.Table
	defaults := Default()
	if cfg.SmallBlind == 0 {
		cfg.SmallBlind = defaults.SmallBlind
	}
	if cfg.BigBlind == 0 {
		cfg.BigBlind = defaults.BigBlind
	}
	if cfg.NumBots == 0 {
		cfg.NumBots = defaults.NumBots
	}
	if cfg.StartingChips == 0 {
		cfg.StartingChips = defaults.StartingChips
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = defaults.Difficulty
	}
	return cfg, nil
}

// TableConfig converts the block into the engine's configuration
func (b TableBlock) TableConfig() (table.Config, error) {
	difficulty, err := ai.ParseDifficulty(b.Difficulty)
	if err != nil {
		return table.Config{}, err
	}
	cfg := table.Config{
		SmallBlind:    b.SmallBlind,
		BigBlind:      b.BigBlind,
		NumBots:       b.NumBots,
		StartingChips: b.StartingChips,
		Difficulty:    difficulty,
	}
	if b.BotTimeoutMillis > 0 {
		cfg.BotDecisionWindow = time.Duration(b.BotTimeoutMillis) * time.Millisecond
	}
	return cfg, nil
}
