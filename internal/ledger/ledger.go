package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"optimistic-arena/internal/id"
)

type EntryKind string

const (
	KindPlacement  EntryKind = "placement_award"
	KindBondCredit EntryKind = "appeal_bond_credit"
	KindBondSlash  EntryKind = "appeal_bond_slash"
)

var ErrInvalidEntry = errors.New("invalid_ledger_entry")

// Entry is one XP movement. Amount is the requested signed delta; Applied
// and Balance are filled in by the store once the entry is settled.
type Entry struct {
	ID        string    `json:"id"`
	SeasonID  string    `json:"season_id"`
	PlayerID  string    `json:"player_id"`
	Kind      EntryKind `json:"kind"`
	Amount    int64     `json:"amount"`
	Applied   int64     `json:"applied"`
	Balance   int64     `json:"balance"`
	RefType   string    `json:"ref_type"`
	RefID     string    `json:"ref_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Standing struct {
	PlayerID string `json:"player_id"`
	XP       int64  `json:"xp"`
}

// Store persists seasonal XP. ApplyXP must settle a batch atomically: either
// every entry lands or none does.
type Store interface {
	ApplyXP(ctx context.Context, seasonID string, entries []Entry) ([]Entry, error)
	XPBalance(ctx context.Context, seasonID, playerID string) (int64, error)
	ListXPStandings(ctx context.Context, seasonID string, limit int) ([]Standing, error)
}

// Settle applies amount to balance. Debits are clamped so the balance never
// goes below zero; the part of a debit beyond the balance is dropped.
// Credits saturate at math.MaxInt64.
func Settle(balance, amount int64) (applied, next int64) {
	switch {
	case amount > 0 && balance > math.MaxInt64-amount:
		next = math.MaxInt64
	default:
		next = balance + amount
	}
	if next < 0 {
		next = 0
	}
	return next - balance, next
}

// Ledger is the process-wide XP ledger of the current season.
type Ledger struct {
	store Store

	mu     sync.RWMutex
	season string
}

func New(st Store, seasonID string) *Ledger {
	if strings.TrimSpace(seasonID) == "" {
		seasonID = newSeasonID()
	}
	return &Ledger{store: st, season: seasonID}
}

func (l *Ledger) SeasonID() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.season
}

// ResetSeason switches to a fresh season in which every balance reads zero.
// Earlier seasons stay in the store. An empty id generates one.
func (l *Ledger) ResetSeason(seasonID string) string {
	if strings.TrimSpace(seasonID) == "" {
		seasonID = newSeasonID()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.season = seasonID
	return seasonID
}

// Apply settles entries in order as one atomic batch.
func (l *Ledger) Apply(ctx context.Context, entries []Entry) ([]Entry, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	season := l.SeasonID()
	batch := make([]Entry, 0, len(entries))
	now := time.Now().UTC()
	for _, e := range entries {
		if e.PlayerID == "" {
			return nil, fmt.Errorf("%w: player id is required", ErrInvalidEntry)
		}
		if e.Kind == KindPlacement && e.Amount < 0 {
			return nil, fmt.Errorf("%w: placement awards cannot be negative", ErrInvalidEntry)
		}
		if e.ID == "" {
			e.ID = id.NewPrefixed("xp")
		}
		e.SeasonID = season
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		batch = append(batch, e)
	}
	return l.store.ApplyXP(ctx, season, batch)
}

func (l *Ledger) Balance(ctx context.Context, playerID string) (int64, error) {
	return l.store.XPBalance(ctx, l.SeasonID(), playerID)
}

// Standings lists the season's balances, highest first, ties by player id.
func (l *Ledger) Standings(ctx context.Context, limit int) ([]Standing, error) {
	if limit <= 0 {
		limit = 50
	}
	return l.store.ListXPStandings(ctx, l.SeasonID(), limit)
}

func PlacementAward(playerID string, xp int64, sessionID string, round int) Entry {
	return Entry{
		PlayerID: playerID,
		Kind:     KindPlacement,
		Amount:   xp,
		RefType:  "round",
		RefID:    fmt.Sprintf("%s/%d", sessionID, round),
	}
}

func BondCredit(playerID string, bond int64, appealID string) Entry {
	return Entry{PlayerID: playerID, Kind: KindBondCredit, Amount: bond, RefType: "appeal", RefID: appealID}
}

func BondSlash(playerID string, bond int64, appealID string) Entry {
	return Entry{PlayerID: playerID, Kind: KindBondSlash, Amount: -bond, RefType: "appeal", RefID: appealID}
}

func newSeasonID() string {
	return id.NewPrefixed("season")
}
