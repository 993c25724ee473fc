package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"optimistic-arena/internal/config"

	"github.com/rs/zerolog/log"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.log")
	Init(config.LogConfig{Level: "debug", File: path, MaxMB: 1, Service: "arena-test"})
	defer Close()

	log.Info().Str("session_id", "ses_1").Msg("round started")
	_, _ = Writer().Write([]byte(`{"msg":"access"}` + "\n"))

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(b)
	if !strings.Contains(out, `"service":"arena-test"`) || !strings.Contains(out, `"session_id":"ses_1"`) {
		t.Fatalf("zerolog line missing fields: %s", out)
	}
	if !strings.Contains(out, `"msg":"access"`) {
		t.Fatalf("raw sink line missing: %s", out)
	}
}
