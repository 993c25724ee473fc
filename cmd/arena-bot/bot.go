package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"

	"optimistic-arena/internal/arena"
	"optimistic-arena/internal/oracle"

	"github.com/rs/zerolog/log"
)

var openers = []string{
	"Picture this:",
	"Honestly,",
	"In one breath:",
	"Plainly put,",
}

// bot plays one seat: it joins, answers every new prompt once and votes for
// a random other answer.
type bot struct {
	client    *oracle.HTTPClient
	base      string
	sessionID string
	playerID  string
	rnd       *rand.Rand

	answered int
	voted    int
}

func (b *bot) sessionURL(suffix string) string {
	return strings.TrimRight(b.base, "/") + "/api/sessions/" + b.sessionID + suffix
}

// step fetches the session and takes at most one action.
func (b *bot) step(ctx context.Context) error {
	var view arena.SessionView
	if err := b.client.GetJSON(ctx, b.sessionURL(""), nil, &view); err != nil {
		return fmt.Errorf("view session: %w", err)
	}
	switch next := b.plan(view); next {
	case actionJoin:
		log.Info().Str("session_id", b.sessionID).Str("player_id", b.playerID).Msg("joining")
		return b.post(ctx, "/players", map[string]string{"player_id": b.playerID})
	case actionAnswer:
		text := answerFor(b.rnd, view.Round.Prompt)
		if err := b.post(ctx, "/submissions", map[string]string{"player_id": b.playerID, "text": text}); err != nil {
			return err
		}
		b.answered = view.Round.Number
		log.Info().Int("round", view.Round.Number).Str("text", text).Msg("answered")
	case actionVote:
		target := pickTarget(b.rnd, view.Round.Order, b.playerID)
		if err := b.post(ctx, "/votes", map[string]string{"voter_id": b.playerID, "target_id": target}); err != nil {
			return err
		}
		b.voted = view.Round.Number
		log.Info().Int("round", view.Round.Number).Str("target_id", target).Msg("voted")
	}
	return nil
}

type action int

const (
	actionWait action = iota
	actionJoin
	actionAnswer
	actionVote
)

func (b *bot) plan(view arena.SessionView) action {
	member := false
	for _, m := range view.Members {
		if m == b.playerID {
			member = true
			break
		}
	}
	switch {
	case !member:
		return actionJoin
	case view.Round.Number == 0 || view.Round.Phase == arena.PhaseFinalized:
		return actionWait
	case b.answered < view.Round.Number:
		return actionAnswer
	case b.voted < view.Round.Number && pickTarget(b.rnd, view.Round.Order, b.playerID) != "":
		return actionVote
	}
	return actionWait
}

func (b *bot) post(ctx context.Context, suffix string, body any) error {
	err := b.client.PostJSON(ctx, b.sessionURL(suffix), nil, body, nil)
	var serr *oracle.StatusError
	if errors.As(err, &serr) && serr.Status == http.StatusConflict {
		log.Debug().Str("code", serr.Code).Str("path", suffix).Msg("skipped")
		return nil
	}
	return err
}

func answerFor(rnd *rand.Rand, prompt string) string {
	words := strings.Fields(prompt)
	tail := "nothing at all"
	if len(words) > 0 {
		tail = strings.Trim(words[rnd.Intn(len(words))], ".,?!") + " is the whole point"
	}
	text := openers[rnd.Intn(len(openers))] + " " + tail + "."
	if r := []rune(text); len(r) > arena.MaxAnswerLength {
		text = string(r[:arena.MaxAnswerLength])
	}
	return text
}

// pickTarget returns a random submitter other than self, or "" when there
// is none.
func pickTarget(rnd *rand.Rand, order []string, self string) string {
	others := make([]string, 0, len(order))
	for _, p := range order {
		if p != self {
			others = append(others, p)
		}
	}
	if len(others) == 0 {
		return ""
	}
	return others[rnd.Intn(len(others))]
}
