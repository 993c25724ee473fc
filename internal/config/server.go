package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	XPStoreMemory   = "memory"
	XPStorePostgres = "postgres"
	XPStoreSQLite   = "sqlite"
)

type ServerConfig struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	AdminAPIKey string `env:"ADMIN_API_KEY"`

	XPStore     string `env:"XP_STORE" envDefault:"memory"`
	PostgresDSN string `env:"POSTGRES_DSN"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"arena.db"`
	SeasonID    string `env:"SEASON_ID" envDefault:"season-1"`
	// LedgerTimeout bounds one XP batch write.
	LedgerTimeout time.Duration `env:"LEDGER_TIMEOUT" envDefault:"5s"`

	OracleURL      string        `env:"ORACLE_URL"`
	OracleAPIKey   string        `env:"ORACLE_API_KEY"`
	AdjudicatorURL string        `env:"ADJUDICATOR_URL"`
	OracleTimeout  time.Duration `env:"ORACLE_TIMEOUT" envDefault:"10s"`
	OracleSeed     int64         `env:"ORACLE_SEED" envDefault:"0"`
	Prompts        []string      `env:"PROMPTS" envSeparator:"|"`

	DefaultMaxPlayers int     `env:"DEFAULT_MAX_PLAYERS" envDefault:"20"`
	DefaultTolerance  int     `env:"DEFAULT_TOLERANCE" envDefault:"2"`
	HumanWeight       float64 `env:"HUMAN_WEIGHT" envDefault:"0.6"`
	AIWeight          float64 `env:"AI_WEIGHT" envDefault:"0.4"`
	AppealCorrection  int     `env:"APPEAL_CORRECTION" envDefault:"2"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
