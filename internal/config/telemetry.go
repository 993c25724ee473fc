package config

import "github.com/caarlos0/env/v11"

type TelemetryConfig struct {
	Endpoint    string `env:"OTEL_ENDPOINT"`
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"true"`
	ServiceName string `env:"OTEL_SERVICE" envDefault:"optimistic-arena"`
}

func LoadTelemetry() (TelemetryConfig, error) {
	var cfg TelemetryConfig
	err := env.Parse(&cfg)
	return cfg, err
}
