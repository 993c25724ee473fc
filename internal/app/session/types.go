package session

import (
	"time"

	"optimistic-arena/internal/arena"
)

const (
	defaultCallTimeout   = 10 * time.Second
	defaultLedgerTimeout = 5 * time.Second
	defaultParallelism   = 8
)

// Options tune the service.
type Options struct {
	// DefaultMaxPlayers applies to sessions created without a capacity.
	// Zero or negative means arena.DefaultMaxPlayers.
	DefaultMaxPlayers int
	// DefaultTolerance is the verification tolerance used by callers that
	// do not pass one. Zero is a valid tolerance; negative means 2.
	DefaultTolerance int
	// HumanWeight and AIWeight are the default finalization weights. When
	// both are zero the pair falls back to 0.6 / 0.4.
	HumanWeight float64
	AIWeight    float64
	// AppealCorrection is added to the accepted total of an upheld appeal.
	// Zero means arena.DefaultAppealCorrection; a negative value disables
	// the correction.
	AppealCorrection int
	CallTimeout      time.Duration
	// LedgerTimeout bounds each XP ledger batch.
	LedgerTimeout time.Duration
	// Parallelism bounds concurrent oracle calls per operation.
	Parallelism int
}

func (o Options) withDefaults() Options {
	if o.DefaultMaxPlayers <= 0 {
		o.DefaultMaxPlayers = arena.DefaultMaxPlayers
	}
	if o.DefaultTolerance < 0 {
		o.DefaultTolerance = 2
	}
	if o.HumanWeight == 0 && o.AIWeight == 0 {
		o.HumanWeight, o.AIWeight = 0.6, 0.4
	}
	switch {
	case o.AppealCorrection == 0:
		o.AppealCorrection = arena.DefaultAppealCorrection
	case o.AppealCorrection < 0:
		o.AppealCorrection = 0
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = defaultCallTimeout
	}
	if o.LedgerTimeout <= 0 {
		o.LedgerTimeout = defaultLedgerTimeout
	}
	if o.Parallelism <= 0 {
		o.Parallelism = defaultParallelism
	}
	return o
}

type RoundStarted struct {
	SessionID string `json:"session_id"`
	Round     int    `json:"round"`
	Prompt    string `json:"prompt"`
}

type Proposal struct {
	Round int                        `json:"round"`
	Cards map[string]arena.Scorecard `json:"cards"`
}

type Verification struct {
	Round    int                         `json:"round"`
	Outcomes []arena.VerificationOutcome `json:"outcomes"`
}

type Resolution struct {
	Round   int            `json:"round"`
	Appeals []arena.Appeal `json:"appeals"`
}

type Finalization struct {
	Round     int              `json:"round"`
	Standings []arena.Standing `json:"standings"`
}
