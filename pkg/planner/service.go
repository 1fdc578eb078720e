// Package planner orchestrates the plan generation pipeline: admission
// control, quota reservation, generation, normalization and bookkeeping.
package planner

import (
	"context"
	"errors"
	"time"

	"github.com/qwikplan/backend/pkg/ai/llm"
	"github.com/qwikplan/backend/pkg/domain"
	"github.com/qwikplan/backend/pkg/logger"
	"github.com/qwikplan/backend/pkg/plan"
	"github.com/qwikplan/backend/pkg/quota"
	"github.com/qwikplan/backend/pkg/ratelimit"
)

// upstreamBusyRetry is the fixed backoff hint surfaced when the
// provider itself reports rate limiting
const upstreamBusyRetry = 10 * time.Second

// Admitter answers whether a request may proceed right now
type Admitter interface {
	Allow(ctx context.Context, accountID string) (ratelimit.Decision, error)
}

// Ledger is the two-phase quota claim: reserve, then commit or release
type Ledger interface {
	Reserve(ctx context.Context, accountID string) (*quota.Reservation, error)
	Commit(ctx context.Context, r *quota.Reservation) error
	Release(ctx context.Context, r *quota.Reservation) error
}

// Generator invokes the external completion service and returns raw text
type Generator interface {
	Generate(ctx context.Context, req plan.Request) (string, error)
}

// Recorder persists a successful, normalized plan against the account
type Recorder interface {
	Record(ctx context.Context, accountID string, req plan.Request, p *plan.Plan) error
}

// Service composes the pipeline for the demo and full flows
type Service struct {
	admitter  Admitter
	ledger    Ledger
	generator Generator
	recorder  Recorder
	log       logger.Logger
}

// NewService creates a new planner service
func NewService(admitter Admitter, ledger Ledger, generator Generator, recorder Recorder, log logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		admitter:  admitter,
		ledger:    ledger,
		generator: generator,
		recorder:  recorder,
		log:       log,
	}
}

// GenerateDemo runs the anonymous flow: no admission, no quota, no
// persistence, always the demo day count.
func (s *Service) GenerateDemo(ctx context.Context, req plan.Request) (*plan.Plan, error) {
	req.Days = plan.DemoDays

	raw, err := s.generator.Generate(ctx, req)
	if err != nil {
		return nil, mapGenerationError(err)
	}

	p, err := plan.Normalize(raw)
	if err != nil {
		s.log.Error("failed normalizing demo output", "error", err)
		return nil, domain.NewInvalidUpstreamOutputError(err)
	}

	return p, nil
}

// GenerateFull runs the authenticated flow: admission, reservation,
// generation, normalization, then history recording and quota commit.
// Any failure between reservation and normalization releases the
// reserved slot so the quota is not consumed.
func (s *Service) GenerateFull(ctx context.Context, accountID string, req plan.Request) (*plan.Plan, error) {
	req.Days = plan.FullDays

	// Admitting
	decision, err := s.admitter.Allow(ctx, accountID)
	if err != nil {
		// Fail open: a rate limit store outage should not take the
		// product down; the quota ledger still bounds usage.
		s.log.Warn("admission check failed, allowing request", "account_id", accountID, "error", err)
	} else if !decision.Allowed {
		return nil, domain.NewRateLimitedError(decision.RetryAfter, "Too many requests. Please try again shortly.")
	}

	// Reserving
	reservation, err := s.ledger.Reserve(ctx, accountID)
	if err != nil {
		if domain.IsQuotaExceeded(err) {
			return nil, err
		}
		s.log.Error("failed reserving quota", "account_id", accountID, "error", err)
		return nil, domain.NewInternalError(err)
	}

	// Generating
	raw, err := s.generator.Generate(ctx, req)
	if err != nil {
		s.release(ctx, reservation)
		return nil, mapGenerationError(err)
	}

	// Normalizing
	p, err := plan.Normalize(raw)
	if err != nil {
		s.release(ctx, reservation)
		s.log.Error("failed normalizing model output", "account_id", accountID, "error", err)
		return nil, domain.NewInvalidUpstreamOutputError(err)
	}

	// The caller is gone: the generation completed but nobody will
	// receive the response, so the slot goes back uncounted.
	if ctx.Err() != nil {
		s.release(context.WithoutCancel(ctx), reservation)
		return nil, domain.NewInternalError(ctx.Err())
	}

	// Recording, best-effort
	if err := s.recorder.Record(ctx, accountID, req, p); err != nil {
		s.log.Error("failed recording plan history", "account_id", accountID, "error", err)
	}

	// Committing; logged distinctly since a failure here risks quota drift
	if err := s.ledger.Commit(ctx, reservation); err != nil {
		s.log.Error("quota commit failed, counter may drift", "account_id", accountID, "error", err)
	}

	return p, nil
}

func (s *Service) release(ctx context.Context, r *quota.Reservation) {
	if err := s.ledger.Release(ctx, r); err != nil {
		s.log.Error("failed releasing quota reservation", "error", err)
	}
}

// mapGenerationError translates generation client failures into the
// pipeline's error taxonomy
func mapGenerationError(err error) error {
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return domain.NewServiceUnavailableError("AI service not configured", err)
	case errors.Is(err, llm.ErrUpstreamRateLimited):
		return domain.NewRateLimitedError(upstreamBusyRetry, "AI service is busy. Please try again in 10 seconds.")
	default:
		return domain.NewServiceUnavailableError("AI service unavailable", err)
	}
}
