package main

import (
	"time"

	"github.com/lox/holdemtable/internal/api"
	"github.com/lox/holdemtable/internal/botsvc"
	"github.com/lox/holdemtable/internal/logging"
	"github.com/lox/holdemtable/internal/randutil"
	"github.com/lox/holdemtable/internal/table"
)

// ServeCmd runs the table HTTP API
type ServeCmd struct {
	Config string `help:"Server config file (YAML)" type:"path"`
	Addr   string `help:"Listen address override"`
	BotURL string `help:"Bot decision service URL override"`
}

func (cmd *ServeCmd) Run(cli *CLI) error {
	logger := logging.New(cli.Debug)

	cfg, err := api.LoadConfig(cmd.Config)
	if err != nil {
		return err
	}
	if cmd.Addr != "" {
		cfg.Server.Addr = cmd.Addr
	}
	if cmd.BotURL != "" {
		cfg.BotService.URL = cmd.BotURL
	}

	var decider table.Decider
	if cfg.BotService.URL != "" {
		decider = botsvc.NewClient(cfg.BotService.URL, logger)
	}

	server := api.NewServer(logger, decider,
		table.WithLogger(logger),
		table.WithRand(randutil.New(time.Now().UnixNano())),
	)

	logger.Info("serving table API", "addr", cfg.Server.Addr, "botService", cfg.BotService.URL)
	return server.Router().Run(cfg.Server.Addr)
}

// BotsvcCmd runs the bot decision service
type BotsvcCmd struct {
	Addr string `help:"Listen address" default:":8001"`
	Seed int64  `help:"Seed the decision RNG for reproducible runs" default:"0"`
}

func (cmd *BotsvcCmd) Run(cli *CLI) error {
	logger := logging.New(cli.Debug)

	seed := cmd.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	server := botsvc.NewServer(logger, randutil.New(seed))
	logger.Info("serving bot decisions", "addr", cmd.Addr)
	return server.Router().Run(cmd.Addr)
}
