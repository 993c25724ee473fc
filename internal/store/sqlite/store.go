package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"optimistic-arena/internal/ledger"

	_ "modernc.org/sqlite"
)

var _ ledger.Store = (*Store)(nil)

// Store is the SQLite-backed season XP ledger.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the database at path and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_txlock=immediate"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

// ApplyXP settles the batch inside one immediate transaction.
func (s *Store) ApplyXP(ctx context.Context, seasonID string, entries []ledger.Entry) ([]ledger.Entry, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin xp batch: %w", err)
	}
	defer tx.Rollback()

	balances := map[string]int64{}
	for _, e := range entries {
		if _, ok := balances[e.PlayerID]; ok {
			continue
		}
		var xp int64
		err := tx.QueryRowContext(ctx,
			`SELECT xp FROM season_xp WHERE season_id = ? AND player_id = ?`, seasonID, e.PlayerID,
		).Scan(&xp)
		if err != nil && err != sql.ErrNoRows {
			return nil, fmt.Errorf("read balance: %w", err)
		}
		balances[e.PlayerID] = xp
	}

	out := make([]ledger.Entry, 0, len(entries))
	for _, e := range entries {
		e.Applied, e.Balance = ledger.Settle(balances[e.PlayerID], e.Amount)
		balances[e.PlayerID] = e.Balance
		createdAt := e.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO xp_entries (id, season_id, player_id, kind, amount, applied, balance, ref_type, ref_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, seasonID, e.PlayerID, string(e.Kind), e.Amount, e.Applied, e.Balance,
			e.RefType, e.RefID, createdAt.UnixMilli(),
		); err != nil {
			return nil, fmt.Errorf("insert xp entry: %w", err)
		}
		out = append(out, e)
	}

	now := time.Now().UTC().UnixMilli()
	for player, xp := range balances {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO season_xp (season_id, player_id, xp, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT (season_id, player_id) DO UPDATE SET xp = excluded.xp, updated_at = excluded.updated_at`,
			seasonID, player, xp, now,
		); err != nil {
			return nil, fmt.Errorf("update balance: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit xp batch: %w", err)
	}
	return out, nil
}

func (s *Store) XPBalance(ctx context.Context, seasonID, playerID string) (int64, error) {
	var xp int64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT xp FROM season_xp WHERE season_id = ? AND player_id = ?`, seasonID, playerID,
	).Scan(&xp)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	return xp, nil
}

func (s *Store) ListXPStandings(ctx context.Context, seasonID string, limit int) ([]ledger.Standing, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT player_id, xp FROM season_xp
WHERE season_id = ?
ORDER BY xp DESC, player_id ASC
LIMIT ?`, seasonID, limit)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
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
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, season_id, player_id, kind, amount, applied, balance, ref_type, ref_id, created_at
FROM xp_entries
WHERE season_id = ? AND player_id = ?
ORDER BY created_at ASC, rowid ASC`, seasonID, playerID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()
	out := []ledger.Entry{}
	for rows.Next() {
		var e ledger.Entry
		var kind string
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.SeasonID, &e.PlayerID, &kind, &e.Amount, &e.Applied, &e.Balance, &e.RefType, &e.RefID, &createdAt); err != nil {
			return nil, err
		}
		e.Kind = ledger.EntryKind(kind)
		e.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
