package store

import (
	"context"
	"errors"
	"sort"

	"optimistic-arena/internal/ledger"

	"github.com/jackc/pgx/v5"
)

var _ ledger.Store = (*Store)(nil)

// ApplyXP settles a batch in one transaction. Every player row the batch
// touches is created if missing and locked in player id order before any
// balance is read, so overlapping batches cannot deadlock.
func (s *Store) ApplyXP(ctx context.Context, seasonID string, entries []ledger.Entry) ([]ledger.Entry, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	players := distinctPlayers(entries)
	for _, p := range players {
		if _, err := tx.Exec(ctx, `
INSERT INTO season_xp (season_id, player_id) VALUES ($1, $2)
ON CONFLICT (season_id, player_id) DO NOTHING`, seasonID, p); err != nil {
			return nil, err
		}
	}
	balances, err := lockBalances(ctx, tx, seasonID, players)
	if err != nil {
		return nil, err
	}

	out := make([]ledger.Entry, 0, len(entries))
	for _, e := range entries {
		e.Applied, e.Balance = ledger.Settle(balances[e.PlayerID], e.Amount)
		balances[e.PlayerID] = e.Balance
		if _, err := tx.Exec(ctx, `
INSERT INTO xp_entries (id, season_id, player_id, kind, amount, applied, balance, ref_type, ref_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			e.ID, seasonID, e.PlayerID, string(e.Kind), e.Amount, e.Applied, e.Balance,
			textParam(e.RefType), textParam(e.RefID), timestamptzParam(e.CreatedAt),
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	for _, p := range players {
		if _, err := tx.Exec(ctx, `
UPDATE season_xp SET xp = $3, updated_at = now()
WHERE season_id = $1 AND player_id = $2`, seasonID, p, balances[p]); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) XPBalance(ctx context.Context, seasonID, playerID string) (int64, error) {
	var xp int64
	err := s.Pool.QueryRow(ctx, `SELECT xp FROM season_xp WHERE season_id = $1 AND player_id = $2`, seasonID, playerID).Scan(&xp)
	if err != nil {
		if errors.Is(mapNotFound(err), ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return xp, nil
}

func (s *Store) ListXPStandings(ctx context.Context, seasonID string, limit int) ([]ledger.Standing, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
SELECT player_id, xp FROM season_xp
WHERE season_id = $1
ORDER BY xp DESC, player_id ASC
LIMIT $2`, seasonID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ledger.Standing{}
	for rows.Next() {
		var st ledger.Standing
		if err := rows.Scan(&st.PlayerID, &st.XP); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// ListXPEntries returns a player's settled entries for a season, oldest first.
func (s *Store) ListXPEntries(ctx context.Context, seasonID, playerID string) ([]ledger.Entry, error) {
	rows, err := s.Pool.Query(ctx, `
SELECT id, season_id, player_id, kind, amount, applied, balance, ref_type, ref_id, created_at
FROM xp_entries
WHERE season_id = $1 AND player_id = $2
ORDER BY created_at ASC, id ASC`, seasonID, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ledger.Entry{}
	for rows.Next() {
		var e ledger.Entry
		var kind string
		if err := rows.Scan(&e.ID, &e.SeasonID, &e.PlayerID, &kind, &e.Amount, &e.Applied, &e.Balance, &e.RefType, &e.RefID, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = ledger.EntryKind(kind)
		out = append(out, e)
	}
	return out, rows.Err()
}

func lockBalances(ctx context.Context, tx pgx.Tx, seasonID string, players []string) (map[string]int64, error) {
	rows, err := tx.Query(ctx, `
SELECT player_id, xp FROM season_xp
WHERE season_id = $1 AND player_id = ANY($2)
ORDER BY player_id
FOR UPDATE`, seasonID, players)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int64, len(players))
	for rows.Next() {
		var player string
		var xp int64
		if err := rows.Scan(&player, &xp); err != nil {
			return nil, err
		}
		out[player] = xp
	}
	return out, rows.Err()
}

func distinctPlayers(entries []ledger.Entry) []string {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.PlayerID]; ok {
			continue
		}
		seen[e.PlayerID] = struct{}{}
		out = append(out, e.PlayerID)
	}
	sort.Strings(out)
	return out
}
