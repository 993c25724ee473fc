package store_test

import (
	"context"
	"sync"
	"testing"

	"optimistic-arena/internal/ledger"
	"optimistic-arena/internal/testutil"
)

func TestApplyXPClampsAndRecords(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()
	l := ledger.New(st, "season-a")

	if _, err := l.Apply(ctx, []ledger.Entry{ledger.PlacementAward("p1", 15, "ses_1", 1)}); err != nil {
		t.Fatalf("award: %v", err)
	}
	out, err := l.Apply(ctx, []ledger.Entry{ledger.BondSlash("p1", 40, "apl_1")})
	if err != nil {
		t.Fatalf("slash: %v", err)
	}
	if out[0].Applied != -15 || out[0].Balance != 0 {
		t.Fatalf("slash settled as applied=%d balance=%d", out[0].Applied, out[0].Balance)
	}
	bal, err := l.Balance(ctx, "p1")
	if err != nil || bal != 0 {
		t.Fatalf("balance = %d, %v", bal, err)
	}
	entries, err := st.ListXPEntries(ctx, "season-a", "p1")
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 2 || entries[1].Kind != ledger.KindBondSlash || entries[1].RefID != "apl_1" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestXPBalanceUnknownPlayerIsZero(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	bal, err := st.XPBalance(context.Background(), "season-a", "nobody")
	if err != nil || bal != 0 {
		t.Fatalf("balance = %d, %v", bal, err)
	}
}

func TestListXPStandingsPerSeason(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()
	l := ledger.New(st, "season-a")
	_, err := l.Apply(ctx, []ledger.Entry{
		ledger.PlacementAward("b", 13, "ses_1", 1),
		ledger.PlacementAward("a", 13, "ses_1", 1),
		ledger.PlacementAward("c", 20, "ses_1", 1),
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	got, err := l.Standings(ctx, 10)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	want := []string{"c", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("standings = %+v", got)
	}
	for i, p := range want {
		if got[i].PlayerID != p {
			t.Fatalf("rank %d = %s, want %s", i+1, got[i].PlayerID, p)
		}
	}

	l.ResetSeason("season-b")
	got, err = l.Standings(ctx, 10)
	if err != nil || len(got) != 0 {
		t.Fatalf("fresh season standings = %+v, %v", got, err)
	}
}

func TestApplyXPConcurrentBatches(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()
	l := ledger.New(st, "season-a")

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			batch := []ledger.Entry{
				ledger.PlacementAward("x", 1, "ses_1", i),
				ledger.PlacementAward("y", 2, "ses_1", i),
			}
			if i%2 == 0 {
				batch[0], batch[1] = batch[1], batch[0]
			}
			if _, err := l.Apply(ctx, batch); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("apply: %v", err)
	}
	x, _ := l.Balance(ctx, "x")
	y, _ := l.Balance(ctx, "y")
	if x != 20 || y != 40 {
		t.Fatalf("balances x=%d y=%d, want 20 and 40", x, y)
	}
}
