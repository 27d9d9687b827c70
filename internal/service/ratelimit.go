package service

import (
	"context"
	"time"

	"github.com/homework-portal/backend/internal/model"
)

const (
	PinAttemptWindow           = 15 * time.Minute
	MaxFailuresPerRelationship = 5
	MaxFailuresPerOrigin       = 20
)

// AttemptLedger is the append-only PIN attempt store the limiter counts from.
type AttemptLedger interface {
	InsertPinAttempt(ctx context.Context, attempt model.PinAttempt) error
	CountFailedPinAttemptsByRelationship(ctx context.Context, relationshipID string, since time.Time) (int, error)
	CountFailedPinAttemptsByIP(ctx context.Context, ipHash string, since time.Time) (int, error)
}

type RateLimitResult struct {
	Allowed           bool
	Remaining         int
	RetryAfterSeconds int
}

// PinRateLimiter counts failed PIN attempts in a sliding window along two axes:
// per relationship and per hashed origin. The ledger is the only state, so
// Check followed by Record is not atomic: concurrent failing attempts may all be
// admitted before any of them is recorded.
type PinRateLimiter struct {
	ledger          AttemptLedger
	window          time.Duration
	perRelationship int
	perOrigin       int
	now             func() time.Time
}

func NewPinRateLimiter(ledger AttemptLedger) *PinRateLimiter {
	return &PinRateLimiter{
		ledger:          ledger,
		window:          PinAttemptWindow,
		perRelationship: MaxFailuresPerRelationship,
		perOrigin:       MaxFailuresPerOrigin,
		now:             time.Now,
	}
}

// WithClock replaces the limiter's time source.
func (l *PinRateLimiter) WithClock(now func() time.Time) *PinRateLimiter {
	l.now = now
	return l
}

func (l *PinRateLimiter) Check(ctx context.Context, relationshipID, ipHash string) (RateLimitResult, error) {
	since := l.now().Add(-l.window)

	relFailures, err := l.ledger.CountFailedPinAttemptsByRelationship(ctx, relationshipID, since)
	if err != nil {
		return RateLimitResult{}, err
	}
	if relFailures >= l.perRelationship {
		return l.blocked(), nil
	}

	ipFailures, err := l.ledger.CountFailedPinAttemptsByIP(ctx, ipHash, since)
	if err != nil {
		return RateLimitResult{}, err
	}
	if ipFailures >= l.perOrigin {
		return l.blocked(), nil
	}

	// -1: 지금 평가 중인 시도 몫
	remaining := l.perRelationship - relFailures - 1
	if remaining < 0 {
		remaining = 0
	}
	return RateLimitResult{Allowed: true, Remaining: remaining}, nil
}

func (l *PinRateLimiter) Record(ctx context.Context, relationshipID, ipHash string, success bool) error {
	return l.ledger.InsertPinAttempt(ctx, model.PinAttempt{
		RelationshipID: relationshipID,
		IPHash:         ipHash,
		Success:        success,
		AttemptedAt:    l.now(),
	})
}

// RecentFailures returns the failed attempts for a relationship inside the current window.
func (l *PinRateLimiter) RecentFailures(ctx context.Context, relationshipID string) (int, error) {
	return l.ledger.CountFailedPinAttemptsByRelationship(ctx, relationshipID, l.now().Add(-l.window))
}

func (l *PinRateLimiter) blocked() RateLimitResult {
	return RateLimitResult{
		Allowed:           false,
		Remaining:         0,
		RetryAfterSeconds: int(l.window.Seconds()),
	}
}
