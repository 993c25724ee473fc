package config

import "github.com/caarlos0/env/v11"

type BotConfig struct {
	APIURL    string `env:"API_URL" envDefault:"http://localhost:8080"`
	SessionID string `env:"SESSION_ID"`
	PlayerID  string `env:"PLAYER_ID" envDefault:"bot"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
