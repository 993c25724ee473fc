package config

import "testing"

func TestLoadBotDefaults(t *testing.T) {
	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.APIURL != "http://localhost:8080" {
		t.Fatalf("APIURL = %q, want http://localhost:8080", cfg.APIURL)
	}
	if cfg.PlayerID != "bot" {
		t.Fatalf("PlayerID = %q, want bot", cfg.PlayerID)
	}
}

func TestLoadBotOverrides(t *testing.T) {
	t.Setenv("API_URL", "http://127.0.0.1:9000")
	t.Setenv("PLAYER_ID", "BotA")
	t.Setenv("SESSION_ID", "ses_1")

	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.APIURL != "http://127.0.0.1:9000" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.PlayerID != "BotA" || cfg.SessionID != "ses_1" {
		t.Fatalf("unexpected bot config: %+v", cfg)
	}
}
