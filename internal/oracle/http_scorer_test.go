package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"optimistic-arena/internal/arena"
)

func TestHTTPScorerSendsModeAndRecomputesTotal(t *testing.T) {
	var got scoreRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer k" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"clarity":8,"creativity":7,"relevance":9,"total":1000}`))
	}))
	defer srv.Close()

	s := NewHTTPScorer(NewHTTPClient(time.Second), srv.URL, "k")
	card, err := s.ScoreAsCommittee(context.Background(), "hello")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if got.Mode != ModeCommittee || got.Answer != "hello" {
		t.Fatalf("request = %+v", got)
	}
	if card.Total != 24 {
		t.Fatalf("total = %d, want 24", card.Total)
	}
}

func TestHTTPScorerFailuresAreOracleUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) }},
		{"negative", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"clarity":-1,"creativity":7,"relevance":9}`))
		}},
		{"garbage", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`nope`)) }},
		{"slow", func(w http.ResponseWriter, _ *http.Request) { time.Sleep(200 * time.Millisecond) }},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(tt.handler)
		s := NewHTTPScorer(NewHTTPClient(50*time.Millisecond), srv.URL, "")
		_, err := s.ScoreAsLeader(context.Background(), "x")
		srv.Close()
		if !errors.Is(err, arena.ErrOracleUnavailable) {
			t.Fatalf("%s: err = %v, want oracle_unavailable", tt.name, err)
		}
		if !arena.IsRetryable(err) {
			t.Fatalf("%s: error should be retryable", tt.name)
		}
	}
}

func TestHTTPAdjudicator(t *testing.T) {
	var got arena.AppealCase
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"ai_was_wrong":true}`))
	}))
	defer srv.Close()

	a := NewHTTPAdjudicator(NewHTTPClient(time.Second), srv.URL, "")
	c := arena.AppealCase{Appeal: arena.Appeal{ID: "ap1", TargetID: "b", Bond: 3}, Answer: "y"}
	wrong, err := a.Adjudicate(context.Background(), c)
	if err != nil || !wrong {
		t.Fatalf("adjudicate = %v, %v", wrong, err)
	}
	if got.Appeal.ID != "ap1" || got.Answer != "y" {
		t.Fatalf("request = %+v", got)
	}
}

func TestHTTPAdjudicatorMissingDecision(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	a := NewHTTPAdjudicator(NewHTTPClient(time.Second), srv.URL, "")
	if _, err := a.Adjudicate(context.Background(), arena.AppealCase{}); !errors.Is(err, arena.ErrAdjudicationUnavailable) {
		t.Fatalf("err = %v, want adjudication_unavailable", err)
	}
}

func TestHTTPClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"invalid_phase"}`))
	}))
	defer srv.Close()

	err := NewHTTPClient(time.Second).GetJSON(context.Background(), srv.URL, nil, nil)
	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if serr.Status != http.StatusConflict || serr.Code != "invalid_phase" {
		t.Fatalf("status error = %+v", serr)
	}
}
