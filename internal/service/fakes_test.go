package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/homework-portal/backend/internal/db"
	"github.com/homework-portal/backend/internal/model"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

const testIterations = 1000

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// memLedger is an in-memory AttemptLedger.
type memLedger struct {
	mu       sync.Mutex
	attempts []model.PinAttempt
	err      error
}

func (l *memLedger) InsertPinAttempt(ctx context.Context, attempt model.PinAttempt) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.attempts = append(l.attempts, attempt)
	return nil
}

func (l *memLedger) CountFailedPinAttemptsByRelationship(ctx context.Context, relationshipID string, since time.Time) (int, error) {
	return l.count(func(a model.PinAttempt) bool { return a.RelationshipID == relationshipID }, since)
}

func (l *memLedger) CountFailedPinAttemptsByIP(ctx context.Context, ipHash string, since time.Time) (int, error) {
	return l.count(func(a model.PinAttempt) bool { return a.IPHash == ipHash }, since)
}

func (l *memLedger) count(match func(model.PinAttempt) bool, since time.Time) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return 0, l.err
	}
	n := 0
	for _, a := range l.attempts {
		if !a.Success && match(a) && !a.AttemptedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (l *memLedger) failedFor(ipHash string) int {
	n, _ := l.CountFailedPinAttemptsByIP(context.Background(), ipHash, time.Time{})
	return n
}

// memStore is an in-memory relationship store keyed by portal token.
type memStore struct {
	mu       sync.Mutex
	byToken  map[string]*model.Relationship
	consents int
	err      error
}

func newMemStore(rels ...*model.Relationship) *memStore {
	s := &memStore{byToken: map[string]*model.Relationship{}}
	for _, rel := range rels {
		s.byToken[rel.PortalToken] = rel
	}
	return s
}

func (s *memStore) GetRelationshipByPortalToken(ctx context.Context, portalToken string) (*model.Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	rel, ok := s.byToken[portalToken]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *rel
	return &copied, nil
}

func (s *memStore) RecordPortalConsent(ctx context.Context, id, ipHash string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rel := s.find(id)
	if rel == nil {
		return false, db.ErrNotFound
	}
	if rel.ConsentedAt != nil {
		return false, nil
	}
	rel.ConsentedAt = &at
	rel.ConsentIPHash = &ipHash
	s.consents++
	return true, nil
}

func (s *memStore) SetRelationshipPin(ctx context.Context, id, pinHash, pinSalt string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rel := s.find(id)
	if rel == nil {
		return false, db.ErrNotFound
	}
	if rel.PinHash != nil {
		return false, nil
	}
	rel.PinHash = &pinHash
	rel.PinSalt = &pinSalt
	rel.PinSetAt = &at
	return true, nil
}

func (s *memStore) ClearRelationshipPin(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rel := s.find(id)
	if rel == nil {
		return db.ErrNotFound
	}
	rel.PinHash = nil
	rel.PinSalt = nil
	rel.PinSetAt = nil
	return nil
}

func (s *memStore) find(id string) *model.Relationship {
	for _, rel := range s.byToken {
		if rel.ID == id {
			return rel
		}
	}
	return nil
}

var errStoreDown = errors.New("connection refused")
