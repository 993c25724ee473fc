package ledger

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps seasonal XP in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	balances map[string]map[string]int64
	entries  []Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{balances: map[string]map[string]int64{}}
}

func (m *MemoryStore) ApplyXP(ctx context.Context, seasonID string, entries []Entry) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	season := m.balances[seasonID]
	if season == nil {
		season = map[string]int64{}
		m.balances[seasonID] = season
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		e.Applied, e.Balance = Settle(season[e.PlayerID], e.Amount)
		season[e.PlayerID] = e.Balance
		out = append(out, e)
	}
	m.entries = append(m.entries, out...)
	return out, nil
}

func (m *MemoryStore) XPBalance(ctx context.Context, seasonID, playerID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[seasonID][playerID], nil
}

func (m *MemoryStore) ListXPStandings(ctx context.Context, seasonID string, limit int) ([]Standing, error) {
	m.mu.Lock()
	out := make([]Standing, 0, len(m.balances[seasonID]))
	for player, xp := range m.balances[seasonID] {
		out = append(out, Standing{PlayerID: player, XP: xp})
	}
	m.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].XP == out[j].XP {
			return out[i].PlayerID < out[j].PlayerID
		}
		return out[i].XP > out[j].XP
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Entries returns every settled entry in application order.
func (m *MemoryStore) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}
