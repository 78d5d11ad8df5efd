package main

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lox/holdemtable/internal/botsvc"
	"github.com/lox/holdemtable/internal/config"
	"github.com/lox/holdemtable/internal/logging"
	"github.com/lox/holdemtable/internal/randutil"
	"github.com/lox/holdemtable/internal/table"
)

// SimulateCmd runs unattended tables with the hero on autopilot, mainly
// useful for soak-testing the engine and the decision heuristics.
type SimulateCmd struct {
	Config   string `help:"Table config file (HCL)" type:"path"`
	Hands    int    `help:"Hands to play per table" default:"100"`
	Tables   int    `help:"Tables to run in parallel" default:"1"`
	Seed     int64  `help:"Base seed, 0 uses the clock" default:"0"`
	Parallel int    `help:"Concurrent table limit" default:"4"`
}

type simResult struct {
	table      int
	hands      int
	heroChips  int
	conserved  bool
	totalChips int
}

func (cmd *SimulateCmd) Run(cli *CLI) error {
	logger := logging.New(cli.Debug)

	block, err := config.Load(cmd.Config)
	if err != nil {
		return err
	}
	cfg, err := block.TableConfig()
	if err != nil {
		return err
	}

	seed := cmd.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var decider table.Decider
	if block.BotServiceURL != "" {
		decider = botsvc.NewClient(block.BotServiceURL, logger)
	}

	results := make([]simResult, cmd.Tables)
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(cmd.Parallel)
	for i := range cmd.Tables {
		g.Go(func() error {
			res, err := cmd.runTable(ctx, cfg, seed+int64(i), decider)
			if err != nil {
				return fmt.Errorf("table %d: %w", i, err)
			}
			res.table = i
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, res := range results {
		status := "ok"
		if !res.conserved {
			status = "CHIPS NOT CONSERVED"
		}
		logger.Info("table finished",
			"table", res.table,
			"hands", res.hands,
			"hero_chips", res.heroChips,
			"total_chips", res.totalChips,
			"conservation", status,
		)
	}
	return nil
}

func (cmd *SimulateCmd) runTable(ctx context.Context, cfg table.Config, seed int64, decider table.Decider) (simResult, error) {
	state, err := table.New(cfg, table.WithRand(randutil.New(seed)))
	if err != nil {
		return simResult{}, err
	}
	expected := state.TotalChips()

	hands := 0
	for hands < cmd.Hands {
		if err := ctx.Err(); err != nil {
			return simResult{}, err
		}
		next, err := state.StartNewHand()
		if err != nil {
			break
		}
		state, err = cmd.playHand(ctx, next, decider)
		if err != nil {
			return simResult{}, err
		}
		hands++

		if state.Players[state.Hero()].Chips <= 0 {
			break
		}
		funded := 0
		for _, p := range state.Players {
			if p.Chips > 0 {
				funded++
			}
		}
		if funded < 2 {
			break
		}
	}

	return simResult{
		hands:      hands,
		heroChips:  state.Players[state.Hero()].Chips,
		conserved:  state.TotalChips() == expected,
		totalChips: state.TotalChips(),
	}, nil
}

// playHand calls every hero decision down and lets the heuristic engine
// act for the bots until the hand reaches showdown.
func (cmd *SimulateCmd) playHand(ctx context.Context, state table.State, decider table.Decider) (table.State, error) {
	for state.Stage != table.Showdown {
		var err error
		switch {
		case state.BotPendingIndex != table.NoSeat:
			state, err = state.PerformBotActionNow(ctx, decider)
		case state.CurrentPlayerIndex == state.Hero():
			state, err = state.HeroCall()
		default:
			state, err = state.ProcessNextAction()
		}
		if err != nil {
			return state, err
		}
	}
	return state, nil
}
