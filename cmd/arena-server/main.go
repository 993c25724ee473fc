package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	appsession "optimistic-arena/internal/app/session"
	"optimistic-arena/internal/config"
	"optimistic-arena/internal/ledger"
	"optimistic-arena/internal/logging"
	"optimistic-arena/internal/telemetry"
	httptransport "optimistic-arena/internal/transport/http"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)
	defer logging.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatal().Err(err).Msg("telemetry init failed")
	}

	backend, err := openXPStore(ctx, cfg.Server)
	if err != nil {
		log.Fatal().Err(err).Str("xp_store", cfg.Server.XPStore).Msg("xp store init failed")
	}
	defer backend.close()

	j := buildJudges(cfg.Server)
	svc := appsession.NewService(j.scorer, j.prompts, j.adjudicator, ledger.New(backend.store, cfg.Server.SeasonID), appsession.Options{
		DefaultMaxPlayers: cfg.Server.DefaultMaxPlayers,
		DefaultTolerance:  cfg.Server.DefaultTolerance,
		HumanWeight:       cfg.Server.HumanWeight,
		AIWeight:          cfg.Server.AIWeight,
		AppealCorrection:  cfg.Server.AppealCorrection,
		CallTimeout:       cfg.Server.OracleTimeout,
		LedgerTimeout:     cfg.Server.LedgerTimeout,
	})

	r := httptransport.NewRouter(svc, cfg.Server, backend.health)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Proposal and verification wait on the oracle.
		WriteTimeout: cfg.Server.OracleTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		log.Info().
			Str("addr", cfg.Server.HTTPAddr).
			Str("season_id", svc.SeasonID()).
			Str("xp_store", cfg.Server.XPStore).
			Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown failed")
	}
}
