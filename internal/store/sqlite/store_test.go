package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"optimistic-arena/internal/ledger"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "arena.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestReopenKeepsBalances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	l := ledger.New(st, "s1")
	if _, err := l.Apply(context.Background(), []ledger.Entry{ledger.PlacementAward("p1", 15, "ses_1", 1)}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	_ = st.Close()

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()
	bal, err := st.XPBalance(context.Background(), "s1", "p1")
	if err != nil || bal != 15 {
		t.Fatalf("balance = %d, %v", bal, err)
	}
}

func TestApplyXPSettlesInOrder(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	l := ledger.New(st, "s1")

	out, err := l.Apply(ctx, []ledger.Entry{
		ledger.PlacementAward("p1", 5, "ses_1", 1),
		ledger.BondSlash("p1", 8, "apl_1"),
		ledger.BondCredit("p1", 3, "apl_2"),
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out[1].Applied != -5 || out[1].Balance != 0 {
		t.Fatalf("slash = %+v", out[1])
	}
	if out[2].Balance != 3 {
		t.Fatalf("credit balance = %d, want 3", out[2].Balance)
	}
	entries, err := st.ListXPEntries(ctx, "s1", "p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 || entries[1].Kind != ledger.KindBondSlash || entries[1].Applied != -5 {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestStandingsAndSeasonReset(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	l := ledger.New(st, "s1")
	if _, err := l.Apply(ctx, []ledger.Entry{
		ledger.PlacementAward("b", 13, "ses_1", 1),
		ledger.PlacementAward("a", 13, "ses_1", 1),
		ledger.PlacementAward("c", 15, "ses_1", 1),
	}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	got, err := l.Standings(ctx, 2)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if len(got) != 2 || got[0].PlayerID != "c" || got[1].PlayerID != "a" {
		t.Fatalf("standings = %+v", got)
	}

	l.ResetSeason("s2")
	if bal, _ := l.Balance(ctx, "c"); bal != 0 {
		t.Fatalf("balance after reset = %d", bal)
	}
	if bal, _ := st.XPBalance(ctx, "s1", "c"); bal != 15 {
		t.Fatalf("old season balance = %d, want 15", bal)
	}
}

func TestApplyXPConcurrent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	l := ledger.New(st, "s1")

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := l.Apply(ctx, []ledger.Entry{ledger.PlacementAward("p1", 2, "ses_1", i)}); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("apply: %v", err)
	}
	if bal, _ := l.Balance(ctx, "p1"); bal != 20 {
		t.Fatalf("balance = %d, want 20", bal)
	}
}

func TestUpSection(t *testing.T) {
	got := upSection("-- +migrate Up\nCREATE x;\n-- +migrate Down\nDROP x;\n")
	if got != "\nCREATE x;\n" {
		t.Fatalf("upSection = %q", got)
	}
	if upSection("SELECT 1;") != "SELECT 1;" {
		t.Fatal("content without markers should pass through")
	}
}
