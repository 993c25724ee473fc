package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"optimistic-arena/internal/config"
	"optimistic-arena/internal/ledger"
	"optimistic-arena/internal/oracle"
	"optimistic-arena/internal/store"
	"optimistic-arena/internal/store/sqlite"
	httptransport "optimistic-arena/internal/transport/http"

	"github.com/rs/zerolog/log"
)

// xpBackend is the opened XP store plus what the server needs around it.
type xpBackend struct {
	store  ledger.Store
	health httptransport.Pinger
	close  func()
}

func openXPStore(ctx context.Context, cfg config.ServerConfig) (xpBackend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.XPStore)) {
	case "", config.XPStoreMemory:
		return xpBackend{store: ledger.NewMemoryStore(), close: func() {}}, nil
	case config.XPStorePostgres:
		if cfg.PostgresDSN == "" {
			return xpBackend{}, fmt.Errorf("POSTGRES_DSN is required for XP_STORE=%s", config.XPStorePostgres)
		}
		st, err := store.New(cfg.PostgresDSN)
		if err != nil {
			return xpBackend{}, err
		}
		if err := st.Ping(ctx); err != nil {
			st.Close()
			return xpBackend{}, fmt.Errorf("db ping: %w", err)
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return xpBackend{}, fmt.Errorf("migrate: %w", err)
		}
		return xpBackend{store: st, health: st, close: st.Close}, nil
	case config.XPStoreSQLite:
		st, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return xpBackend{}, err
		}
		return xpBackend{store: st, health: st, close: func() { _ = st.Close() }}, nil
	default:
		return xpBackend{}, fmt.Errorf("unknown XP_STORE %q", cfg.XPStore)
	}
}

type judges struct {
	scorer      oracle.Scorer
	prompts     oracle.PromptSource
	adjudicator oracle.Adjudicator
}

// buildJudges uses the HTTP oracle and adjudicator when their URLs are set,
// and the local random oracle with re-scoring adjudication otherwise.
func buildJudges(cfg config.ServerConfig) judges {
	seed := cfg.OracleSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	client := oracle.NewHTTPClient(cfg.OracleTimeout)

	var scorer oracle.Scorer
	if cfg.OracleURL != "" {
		scorer = oracle.NewHTTPScorer(client, cfg.OracleURL, cfg.OracleAPIKey)
		log.Info().Str("url", cfg.OracleURL).Msg("scoring oracle: http")
	} else {
		scorer = oracle.NewRandomScorer(seed)
		log.Warn().Int64("seed", seed).Msg("scoring oracle: local random scorer")
	}

	var adj oracle.Adjudicator
	if cfg.AdjudicatorURL != "" {
		adj = oracle.NewHTTPAdjudicator(client, cfg.AdjudicatorURL, cfg.OracleAPIKey)
		log.Info().Str("url", cfg.AdjudicatorURL).Msg("adjudicator: http")
	} else {
		adj = oracle.RescoreAdjudicator{Scorer: scorer, Tolerance: cfg.DefaultTolerance}
		log.Info().Int("tolerance", cfg.DefaultTolerance).Msg("adjudicator: committee re-score")
	}

	return judges{
		scorer:      scorer,
		prompts:     oracle.NewDeck(cfg.Prompts, seed),
		adjudicator: adj,
	}
}
