package main

import (
	"context"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"optimistic-arena/internal/config"
	"optimistic-arena/internal/logging"
	"optimistic-arena/internal/oracle"

	"github.com/rs/zerolog/log"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logCfg.Service = "arena-bot"
	logging.Init(logCfg)
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal().Err(err).Msg("load bot config failed")
	}
	if cfg.SessionID == "" {
		log.Fatal().Msg("SESSION_ID is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := &bot{
		client:    oracle.NewHTTPClient(10 * time.Second),
		base:      cfg.APIURL,
		sessionID: cfg.SessionID,
		playerID:  cfg.PlayerID,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		if err := b.step(ctx); err != nil {
			log.Warn().Err(err).Msg("step failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
