package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/holdemtable/internal/botsvc"
	"github.com/lox/holdemtable/internal/config"
	"github.com/lox/holdemtable/internal/deck"
	"github.com/lox/holdemtable/internal/logging"
	"github.com/lox/holdemtable/internal/randutil"
	"github.com/lox/holdemtable/internal/table"
)

// PlayCmd drives one table interactively from the terminal
type PlayCmd struct {
	Config string `help:"Table config file (HCL)" type:"path"`
	Hands  int    `help:"Stop after this many hands (0 = play until broke)" default:"0"`
}

var (
	redCard   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	blackCard = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	potStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	tipStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Italic(true)
)

func (cmd *PlayCmd) Run(cli *CLI) error {
	logger := logging.New(cli.Debug)

	block, err := config.Load(cmd.Config)
	if err != nil {
		return err
	}
	cfg, err := block.TableConfig()
	if err != nil {
		return err
	}

	state, err := table.New(cfg,
		table.WithLogger(logger),
		table.WithRand(randutil.New(time.Now().UnixNano())),
	)
	if err != nil {
		return err
	}

	var decider table.Decider
	if block.BotServiceURL != "" {
		decider = botsvc.NewClient(block.BotServiceURL, logger)
	}

	reader := bufio.NewReader(os.Stdin)
	hands := 0
	for {
		state, err = state.StartNewHand()
		if err != nil {
			return err
		}
		state, err = cmd.playHand(reader, state, decider)
		if err != nil {
			return err
		}
		hands++

		hero := state.Players[state.Hero()]
		if hero.Chips <= 0 {
			fmt.Println("You are out of chips. Game over.")
			return nil
		}
		if cmd.Hands > 0 && hands >= cmd.Hands {
			fmt.Printf("Played %d hands. Final stack: %d\n", hands, hero.Chips)
			return nil
		}
	}
}

func (cmd *PlayCmd) playHand(reader *bufio.Reader, state table.State, decider table.Decider) (table.State, error) {
	logged := 0
	for state.Stage != table.Showdown {
		logged = printNewLog(state, logged)

		if state.BotPendingIndex != table.NoSeat {
			next, err := state.PerformBotActionNow(context.Background(), decider)
			if err != nil {
				return state, err
			}
			state = next
			continue
		}

		hero := state.Hero()
		if state.CurrentPlayerIndex != hero {
			next, err := state.ProcessNextAction()
			if err != nil {
				return state, err
			}
			state = next
			continue
		}

		printTable(state)
		next, err := promptHero(reader, state)
		if err != nil {
			return state, err
		}
		state = next
	}
	printNewLog(state, logged)
	return state, nil
}

func promptHero(reader *bufio.Reader, state table.State) (table.State, error) {
	hero := state.Players[state.Hero()]
	toCall := state.CurrentBet - hero.Bet
	if toCall > 0 {
		fmt.Printf("(f)old, (c)all %d, (r)aise <amount>: ", toCall)
	} else {
		fmt.Print("(f)old, (c)heck, (r)aise <amount>: ")
	}

	line, err := reader.ReadString('\n')
	if err != nil {
		return state, err
	}
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return state.HeroCall()
	}

	switch fields[0] {
	case "f", "fold":
		return state.HeroFold()
	case "r", "raise":
		amount := state.CurrentBet + state.BigBlind
		if len(fields) > 1 {
			if n, err := strconv.Atoi(fields[1]); err == nil {
				amount = n
			}
		}
		return state.HeroRaiseTo(amount)
	default:
		return state.HeroCall()
	}
}

func printNewLog(state table.State, from int) int {
	for _, entry := range state.ActionLog[from:] {
		if entry.Kind == table.LogTip {
			fmt.Printf("  %s\n", tipStyle.Render("tip: "+entry.Message))
			continue
		}
		fmt.Printf("  %s\n", entry.Message)
	}
	return len(state.ActionLog)
}

func printTable(state table.State) {
	hero := state.Players[state.Hero()]
	fmt.Printf("\n[%s] board: %s  %s\n", state.Stage, renderCards(state.Board),
		potStyle.Render(fmt.Sprintf("pot %d", state.Pot)))
	fmt.Printf("your hand: %s  stack: %d  bet: %d\n",
		renderCards(hero.HoleCards), hero.Chips, hero.Bet)
	for _, p := range state.Players {
		if p.IsHero {
			continue
		}
		status := ""
		if p.HasFolded {
			status = " (folded)"
		}
		fmt.Printf("  %-8s stack %5d bet %4d%s\n", p.Name, p.Chips, p.Bet, status)
	}
}

func renderCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return "--"
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		if c.Suit == deck.Hearts || c.Suit == deck.Diamonds {
			parts[i] = redCard.Render(c.String())
		} else {
			parts[i] = blackCard.Render(c.String())
		}
	}
	return strings.Join(parts, " ")
}
