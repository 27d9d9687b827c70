package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/homework-portal/backend/internal/config"
	"github.com/homework-portal/backend/internal/db"
	"github.com/homework-portal/backend/internal/model"
	"github.com/homework-portal/backend/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var flowKey = []byte("0123456789abcdef0123456789abcdef")

// memPortalStore backs a real PortalService for end-to-end handler tests.
type memPortalStore struct {
	mu       sync.Mutex
	rel      model.Relationship
	attempts []model.PinAttempt
}

func (s *memPortalStore) GetRelationshipByPortalToken(ctx context.Context, portalToken string) (*model.Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if portalToken != s.rel.PortalToken {
		return nil, db.ErrNotFound
	}
	rel := s.rel
	return &rel, nil
}

func (s *memPortalStore) RecordPortalConsent(ctx context.Context, id, ipHash string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rel.ConsentedAt != nil {
		return false, nil
	}
	s.rel.ConsentedAt = &at
	s.rel.ConsentIPHash = &ipHash
	return true, nil
}

func (s *memPortalStore) SetRelationshipPin(ctx context.Context, id, pinHash, pinSalt string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rel.PinHash != nil {
		return false, nil
	}
	s.rel.PinHash, s.rel.PinSalt, s.rel.PinSetAt = &pinHash, &pinSalt, &at
	return true, nil
}

func (s *memPortalStore) ClearRelationshipPin(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rel.PinHash, s.rel.PinSalt, s.rel.PinSetAt = nil, nil, nil
	return nil
}

func (s *memPortalStore) InsertPinAttempt(ctx context.Context, attempt model.PinAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, attempt)
	return nil
}

func (s *memPortalStore) CountFailedPinAttemptsByRelationship(ctx context.Context, relationshipID string, since time.Time) (int, error) {
	return s.countFailed(func(a model.PinAttempt) bool { return a.RelationshipID == relationshipID }, since), nil
}

func (s *memPortalStore) CountFailedPinAttemptsByIP(ctx context.Context, ipHash string, since time.Time) (int, error) {
	return s.countFailed(func(a model.PinAttempt) bool { return a.IPHash == ipHash }, since), nil
}

func (s *memPortalStore) countFailed(match func(model.PinAttempt) bool, since time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.attempts {
		if !a.Success && match(a) && !a.AttemptedAt.Before(since) {
			n++
		}
	}
	return n
}

func newFlowRouter(t *testing.T) (http.Handler, *memPortalStore) {
	t.Helper()
	store := &memPortalStore{rel: model.Relationship{ID: "5d0b7a1e-8c2f-4b59-9f3e-0c1d2e3f4a5b", PortalToken: "flow-token"}}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	sessions := service.NewSessionTokenManager(flowKey)
	svc := service.NewPortalService(service.PortalServiceDeps{
		Store:    store,
		Limiter:  service.NewPinRateLimiter(store),
		Pins:     service.NewPinHasher(1000),
		Sessions: sessions,
		IPs:      service.NewIPHasher(flowKey),
		Logger:   logger,
	}, config.PortalConfig{CookiePath: "/api/v1/portal"})

	return newPortalTestRouter(svc), store
}

func TestPortalFlowOverHTTP(t *testing.T) {
	r, store := newFlowRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/portal/pin", `{"portalToken":"flow-token","pin":"1234"}`)
	require.Equal(t, http.StatusForbidden, w.Code, "pin before consent")

	w = doJSON(r, http.MethodPost, "/api/v1/portal/consent", `{"portalToken":"flow-token"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/portal/pin", `{"portalToken":"flow-token","pin":"12a4"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/portal/pin", `{"portalToken":"flow-token","pin":"1234"}`)
	require.Equal(t, http.StatusOK, w.Code)
	session := findCookie(w, service.SessionCookieName)
	require.NotNil(t, session)

	w = doJSON(r, http.MethodGet, "/api/v1/portal/flow-token/session", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code, "gate without cookie")
	w = doJSON(r, http.MethodGet, "/api/v1/portal/flow-token/session", "", session)
	assert.Equal(t, http.StatusOK, w.Code, "gate with cookie")

	w = doJSON(r, http.MethodPost, "/api/v1/portal/pin", `{"portalToken":"flow-token","pin":"5555"}`)
	require.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/portal/pin/verify", `{"portalToken":"flow-token","pin":"0000"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	var unauthorized model.PortalUnauthorizedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &unauthorized))
	assert.Equal(t, 4, unauthorized.AttemptsRemaining)

	w = doJSON(r, http.MethodPost, "/api/v1/portal/pin/verify", `{"portalToken":"flow-token","pin":"1234"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, findCookie(w, service.SessionCookieName))

	w = doJSON(r, http.MethodPost, "/api/v1/portal/pin/remove", `{"portalToken":"flow-token","currentPin":"1234"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/portal/pin/verify", `{"portalToken":"flow-token","pin":"1234"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no pin set")

	assert.Len(t, store.attempts, 3)
}

func TestPortalFlowLockout(t *testing.T) {
	r, _ := newFlowRouter(t)

	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, "/api/v1/portal/consent", `{"portalToken":"flow-token"}`).Code)
	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, "/api/v1/portal/pin", `{"portalToken":"flow-token","pin":"1234"}`).Code)

	for i := 0; i < service.MaxFailuresPerRelationship; i++ {
		w := doJSON(r, http.MethodPost, "/api/v1/portal/pin/verify", `{"portalToken":"flow-token","pin":"9999"}`)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := doJSON(r, http.MethodPost, "/api/v1/portal/pin/verify", `{"portalToken":"flow-token","pin":"1234"}`)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	var limited model.PortalRateLimitedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &limited))
	assert.Equal(t, 900, limited.RetryAfterSeconds)

	w = doJSON(r, http.MethodPost, "/api/v1/portal/pin/remove", `{"portalToken":"flow-token","currentPin":"1234"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestPortalFlowUnknownToken(t *testing.T) {
	r, _ := newFlowRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/portal/consent", `{"portalToken":"nope"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(r, http.MethodPost, "/api/v1/portal/consent", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
