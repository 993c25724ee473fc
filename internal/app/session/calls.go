package session

import (
	"context"
	"fmt"
	"sync"

	"optimistic-arena/internal/arena"
	"optimistic-arena/internal/oracle"
	"optimistic-arena/internal/telemetry"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type scoreJob struct {
	playerID string
	answer   string
}

// scoreAll scores every job in mode, at most opts.Parallelism at a time.
// The first failure cancels the rest and fails the whole pass.
func (s *Service) scoreAll(ctx context.Context, sessionID string, mode oracle.Mode, jobs []scoreJob) (map[string]arena.Scorecard, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "arena.score_pass", trace.WithAttributes(
		attribute.String("session_id", sessionID),
		attribute.String("oracle.mode", string(mode)),
		attribute.Int("players", len(jobs)),
	))
	defer span.End()

	var mu sync.Mutex
	cards := make(map[string]arena.Scorecard, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Parallelism)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			card, err := s.scoreOne(gctx, mode, job)
			if err != nil {
				return err
			}
			mu.Lock()
			cards[job.playerID] = card
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warn().Err(err).Str("session_id", sessionID).Str("mode", string(mode)).Msg("scoring pass failed")
		return nil, err
	}
	return cards, nil
}

func (s *Service) scoreOne(ctx context.Context, mode oracle.Mode, job scoreJob) (arena.Scorecard, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()
	ctx, span := telemetry.Tracer().Start(ctx, "oracle.score", trace.WithAttributes(
		attribute.String("oracle.mode", string(mode)),
		attribute.String("player_id", job.playerID),
	))
	defer span.End()

	card, err := oracle.Score(ctx, s.scorer, mode, job.answer)
	if err != nil {
		metricOutboundErrors.Add(1)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return arena.Scorecard{}, asUnavailable(arena.ErrOracleUnavailable, err)
	}
	checked, err := arena.NewScorecard(card.Clarity, card.Creativity, card.Relevance)
	if err == nil && checked.Total != card.Total {
		err = fmt.Errorf("total %d is not the sum of its dimensions (%d)", card.Total, checked.Total)
	}
	if err != nil {
		metricOutboundErrors.Add(1)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return arena.Scorecard{}, fmt.Errorf("%w: malformed %s scorecard: %v", arena.ErrOracleUnavailable, mode, err)
	}
	span.SetAttributes(attribute.Int("score.total", checked.Total))
	return checked, nil
}

// adjudicateAll decides every case independently and returns the decisions
// keyed by appeal id.
func (s *Service) adjudicateAll(ctx context.Context, sessionID string, cases []arena.AppealCase) (map[string]bool, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "arena.adjudicate", trace.WithAttributes(
		attribute.String("session_id", sessionID),
		attribute.Int("appeals", len(cases)),
	))
	defer span.End()

	var mu sync.Mutex
	decisions := make(map[string]bool, len(cases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Parallelism)
	for _, c := range cases {
		c := c
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, s.opts.CallTimeout)
			defer cancel()
			wrong, err := s.adjudicator.Adjudicate(cctx, c)
			if err != nil {
				metricOutboundErrors.Add(1)
				return asUnavailable(arena.ErrAdjudicationUnavailable, err)
			}
			mu.Lock()
			decisions[c.Appeal.ID] = wrong
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warn().Err(err).Str("session_id", sessionID).Msg("adjudication failed")
		return nil, err
	}
	return decisions, nil
}

func (s *Service) nextPrompt(ctx context.Context, sessionID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()
	ctx, span := telemetry.Tracer().Start(ctx, "prompts.next", trace.WithAttributes(
		attribute.String("session_id", sessionID),
	))
	defer span.End()

	prompt, err := s.prompts.NextPrompt(ctx)
	if err != nil {
		metricOutboundErrors.Add(1)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warn().Err(err).Str("session_id", sessionID).Msg("prompt source failed")
		return "", asUnavailable(arena.ErrPromptUnavailable, err)
	}
	return prompt, nil
}
