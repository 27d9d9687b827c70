package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/homework-portal/backend/internal/config"
	"github.com/homework-portal/backend/internal/model"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPortalToken = "portal-token-abc"
	testRelID       = "0b6f8c8e-3c1d-4b7a-9d64-3f0f6f2a9a11"
	testClientIP    = "203.0.113.9"
)

type portalFixture struct {
	svc      *PortalService
	store    *memStore
	ledger   *memLedger
	clock    *fakeClock
	sessions *SessionTokenManager
	ips      *IPHasher
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newPortalFixture(t *testing.T, rels ...*model.Relationship) *portalFixture {
	t.Helper()
	if len(rels) == 0 {
		rels = []*model.Relationship{{ID: testRelID, PractitionerID: 1, PortalToken: testPortalToken}}
	}

	clock := newFakeClock()
	store := newMemStore(rels...)
	ledger := &memLedger{}
	sessions := NewSessionTokenManager(testKey).WithClock(clock.Now)
	ips := NewIPHasher(testKey)

	svc := NewPortalService(PortalServiceDeps{
		Store:    store,
		Limiter:  NewPinRateLimiter(ledger).WithClock(clock.Now),
		Pins:     NewPinHasher(testIterations),
		Sessions: sessions,
		IPs:      ips,
		Logger:   quietLogger(),
		Now:      clock.Now,
	}, config.PortalConfig{CookieSecure: true})

	return &portalFixture{svc: svc, store: store, ledger: ledger, clock: clock, sessions: sessions, ips: ips}
}

func TestPortalFullAccessFlow(t *testing.T) {
	ctx := context.Background()
	f := newPortalFixture(t)

	already, err := f.svc.Consent(ctx, testPortalToken, testClientIP)
	require.NoError(t, err)
	assert.False(t, already)

	session, err := f.svc.SetPin(ctx, testPortalToken, "1234")
	require.NoError(t, err)
	assert.True(t, f.sessions.Verify(session, testRelID))

	_, err = f.svc.VerifyPin(ctx, testPortalToken, "0000", testClientIP)
	var mismatch *PinMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 4, mismatch.AttemptsRemaining)
	assert.ErrorIs(t, err, ErrUnauthorized)

	session, err = f.svc.VerifyPin(ctx, testPortalToken, "1234", testClientIP)
	require.NoError(t, err)
	assert.True(t, f.sessions.Verify(session, testRelID))

	require.NoError(t, f.svc.RemovePin(ctx, testPortalToken, "1234", testClientIP))

	_, err = f.svc.VerifyPin(ctx, testPortalToken, "1234", testClientIP)
	assert.ErrorIs(t, err, ErrNoPinSet)

	status, err := f.svc.Status(ctx, testPortalToken, "")
	require.NoError(t, err)
	assert.Equal(t, model.PortalStatus{Consented: true, PinSet: false, Verified: true}, *status)
}

func TestPortalConsentIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newPortalFixture(t)

	already, err := f.svc.Consent(ctx, testPortalToken, testClientIP)
	require.NoError(t, err)
	assert.False(t, already)

	first := *f.store.byToken[testPortalToken].ConsentedAt
	f.clock.Advance(time.Hour)

	already, err = f.svc.Consent(ctx, testPortalToken, "198.51.100.2")
	require.NoError(t, err)
	assert.True(t, already)

	rel := f.store.byToken[testPortalToken]
	assert.Equal(t, first, *rel.ConsentedAt)
	assert.Equal(t, f.ips.Hash(testClientIP), *rel.ConsentIPHash)
	assert.Equal(t, 1, f.store.consents)
}

func TestPortalSetPinRequiresConsent(t *testing.T) {
	f := newPortalFixture(t)

	_, err := f.svc.SetPin(context.Background(), testPortalToken, "1234")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Nil(t, f.store.byToken[testPortalToken].PinHash)
}

func TestPortalSetPinTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	f := newPortalFixture(t)

	_, err := f.svc.Consent(ctx, testPortalToken, testClientIP)
	require.NoError(t, err)
	_, err = f.svc.SetPin(ctx, testPortalToken, "1234")
	require.NoError(t, err)
	stored := *f.store.byToken[testPortalToken].PinHash

	_, err = f.svc.SetPin(ctx, testPortalToken, "9999")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, stored, *f.store.byToken[testPortalToken].PinHash)
}

func TestPortalStoresOnlyHashedPin(t *testing.T) {
	ctx := context.Background()
	f := newPortalFixture(t)

	_, err := f.svc.Consent(ctx, testPortalToken, testClientIP)
	require.NoError(t, err)
	_, err = f.svc.SetPin(ctx, testPortalToken, "1234")
	require.NoError(t, err)

	rel := f.store.byToken[testPortalToken]
	require.NotNil(t, rel.PinHash)
	require.NotNil(t, rel.PinSalt)
	require.NotNil(t, rel.PinSetAt)
	assert.NotContains(t, *rel.PinHash, "1234")
	assert.Len(t, *rel.PinSalt, PinSaltBytes*2)
}

func TestPortalRejectsMalformedInput(t *testing.T) {
	ctx := context.Background()
	f := newPortalFixture(t)

	_, err := f.svc.Consent(ctx, "  ", testClientIP)
	assert.ErrorIs(t, err, ErrInvalidInput)

	for _, pin := range []string{"", "123", "12345", "abcd"} {
		_, err = f.svc.SetPin(ctx, testPortalToken, pin)
		assert.ErrorIs(t, err, ErrInvalidInput, "set pin %q", pin)
		_, err = f.svc.VerifyPin(ctx, testPortalToken, pin, testClientIP)
		assert.ErrorIs(t, err, ErrInvalidInput, "verify pin %q", pin)
		assert.ErrorIs(t, f.svc.RemovePin(ctx, testPortalToken, pin, testClientIP), ErrInvalidInput, "remove pin %q", pin)
	}
	assert.Empty(t, f.ledger.attempts)
}

func TestPortalUnknownAndDeletedTokensLookTheSame(t *testing.T) {
	ctx := context.Background()
	deletedAt := time.Now()
	f := newPortalFixture(t,
		&model.Relationship{ID: testRelID, PortalToken: testPortalToken},
		&model.Relationship{ID: "11111111-2222-3333-4444-555555555555", PortalToken: "archived", DeletedAt: &deletedAt},
	)

	for _, token := range []string{"missing", "archived"} {
		_, err := f.svc.Consent(ctx, token, testClientIP)
		assert.ErrorIs(t, err, ErrNotFound, token)
		_, err = f.svc.VerifyPin(ctx, token, "1234", testClientIP)
		assert.ErrorIs(t, err, ErrNotFound, token)
		_, err = f.svc.Status(ctx, token, "")
		assert.ErrorIs(t, err, ErrNotFound, token)
	}
}

func TestPortalStoreFailureIsInternal(t *testing.T) {
	f := newPortalFixture(t)
	f.store.err = errStoreDown

	_, err := f.svc.Consent(context.Background(), testPortalToken, testClientIP)
	assert.ErrorIs(t, err, ErrInternal)
	assert.False(t, errors.Is(err, errStoreDown))
}

func TestPortalBlockedAttemptSkipsComparison(t *testing.T) {
	ctx := context.Background()
	f := newPortalFixture(t)

	_, err := f.svc.Consent(ctx, testPortalToken, testClientIP)
	require.NoError(t, err)
	_, err = f.svc.SetPin(ctx, testPortalToken, "1234")
	require.NoError(t, err)

	for i := 0; i < MaxFailuresPerRelationship; i++ {
		_, err = f.svc.VerifyPin(ctx, testPortalToken, "0000", testClientIP)
		var mismatch *PinMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, MaxFailuresPerRelationship-1-i, mismatch.AttemptsRemaining)
	}

	// the correct PIN is refused too while blocked, and nothing is recorded
	recorded := len(f.ledger.attempts)
	_, err = f.svc.VerifyPin(ctx, testPortalToken, "1234", "198.51.100.77")
	var limited *RateLimitError
	require.ErrorAs(t, err, &limited)
	assert.Equal(t, 900, limited.RetryAfterSeconds)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Len(t, f.ledger.attempts, recorded)

	f.clock.Advance(PinAttemptWindow + time.Second)
	_, err = f.svc.VerifyPin(ctx, testPortalToken, "1234", testClientIP)
	assert.NoError(t, err)
}

func TestPortalRemovePinNeedsCurrentPin(t *testing.T) {
	ctx := context.Background()
	f := newPortalFixture(t)

	_, err := f.svc.Consent(ctx, testPortalToken, testClientIP)
	require.NoError(t, err)
	_, err = f.svc.SetPin(ctx, testPortalToken, "1234")
	require.NoError(t, err)

	err = f.svc.RemovePin(ctx, testPortalToken, "4321", testClientIP)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NotNil(t, f.store.byToken[testPortalToken].PinHash)
	assert.Equal(t, 1, f.ledger.failedFor(f.ips.Hash(testClientIP)))
}

func TestPortalAttemptsUseHashedOrigin(t *testing.T) {
	ctx := context.Background()
	f := newPortalFixture(t)

	_, err := f.svc.Consent(ctx, testPortalToken, "")
	require.NoError(t, err)
	_, err = f.svc.SetPin(ctx, testPortalToken, "1234")
	require.NoError(t, err)
	_, err = f.svc.VerifyPin(ctx, testPortalToken, "0000", "")
	require.Error(t, err)

	require.Len(t, f.ledger.attempts, 1)
	assert.Equal(t, f.ips.Hash(UnknownIP), f.ledger.attempts[0].IPHash)
	assert.Equal(t, f.ips.Hash(UnknownIP), *f.store.byToken[testPortalToken].ConsentIPHash)
}

func TestPortalStatusAndRequireSession(t *testing.T) {
	ctx := context.Background()
	f := newPortalFixture(t)

	status, err := f.svc.Status(ctx, testPortalToken, "")
	require.NoError(t, err)
	assert.Equal(t, model.PortalStatus{}, *status)
	_, err = f.svc.RequireSession(ctx, testPortalToken, "")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Consent(ctx, testPortalToken, testClientIP)
	require.NoError(t, err)
	rel, err := f.svc.RequireSession(ctx, testPortalToken, "")
	require.NoError(t, err)
	assert.Equal(t, testRelID, rel.ID)

	session, err := f.svc.SetPin(ctx, testPortalToken, "1234")
	require.NoError(t, err)

	status, err = f.svc.Status(ctx, testPortalToken, "")
	require.NoError(t, err)
	assert.Equal(t, model.PortalStatus{Consented: true, PinSet: true, Verified: false}, *status)
	_, err = f.svc.RequireSession(ctx, testPortalToken, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	status, err = f.svc.Status(ctx, testPortalToken, session)
	require.NoError(t, err)
	assert.True(t, status.Verified)
	_, err = f.svc.RequireSession(ctx, testPortalToken, session)
	assert.NoError(t, err)

	f.clock.Advance(SessionTokenTTL + time.Second)
	_, err = f.svc.RequireSession(ctx, testPortalToken, session)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestPortalCookieConfig(t *testing.T) {
	f := newPortalFixture(t)
	cookie := f.svc.CookieConfig()

	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Equal(t, "/api/v1/portal", cookie.Path)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 86400, cookie.MaxAge)
}
