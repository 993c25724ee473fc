package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"optimistic-arena/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	sinkMu sync.RWMutex
	sink   io.Writer = os.Stdout
	file   *rotatingWriter
)

// Init configures the global zerolog logger and the shared sink returned by
// Writer. When cfg.File is set, output goes to stdout and to that file.
func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var console io.Writer = os.Stdout
	if cfg.Pretty {
		console = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	out := console
	raw := io.Writer(os.Stdout)
	var fileErr error
	if path := strings.TrimSpace(cfg.File); path != "" {
		w, err := newRotatingWriter(path, cfg.MaxMB)
		if err != nil {
			fileErr = err
		} else {
			swapFile(w)
			out = zerolog.MultiLevelWriter(console, w)
			raw = io.MultiWriter(os.Stdout, w)
		}
	}

	sinkMu.Lock()
	sink = raw
	sinkMu.Unlock()

	zerolog.SetGlobalLevel(level)
	ctx := zerolog.New(out).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	logger := ctx.Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", cfg.File).Msg("log file unavailable; logging to stdout only")
	}
}

// Writer is the raw JSON sink for loggers that are not zerolog, such as the
// HTTP access log.
func Writer() io.Writer {
	sinkMu.RLock()
	defer sinkMu.RUnlock()
	return sink
}

// Close releases the log file, if any.
func Close() error {
	return swapFile(nil)
}

func swapFile(w *rotatingWriter) error {
	sinkMu.Lock()
	old := file
	file = w
	sinkMu.Unlock()
	if old != nil {
		return old.Close()
	}
	return nil
}
