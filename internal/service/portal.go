// 클라이언트 포털 접근 제어
//
// 처리 흐름 (PIN 관련 요청):
//  1. portal token 으로 관계 조회 (없거나 soft-delete 면 항상 ErrNotFound)
//  2. PinRateLimiter.Check - 차단이면 PIN 비교 없이 RateLimitError
//  3. PinHasher.Verify 로 비교
//  4. PinRateLimiter.Record 로 결과를 ledger 에 기록
//  5. 성공 시 SessionTokenManager.Issue 로 세션 토큰 발급

package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/homework-portal/backend/internal/config"
	"github.com/homework-portal/backend/internal/db"
	"github.com/homework-portal/backend/internal/logs"
	"github.com/homework-portal/backend/internal/model"
	"github.com/sirupsen/logrus"
)

const defaultPortalCookiePath = "/api/v1/portal"

// RelationshipStore is the subset of the relationship store the portal needs.
// Lookups return db.ErrNotFound for unknown tokens.
type RelationshipStore interface {
	GetRelationshipByPortalToken(ctx context.Context, portalToken string) (*model.Relationship, error)
	RecordPortalConsent(ctx context.Context, id, ipHash string, at time.Time) (bool, error)
	SetRelationshipPin(ctx context.Context, id, pinHash, pinSalt string, at time.Time) (bool, error)
	ClearRelationshipPin(ctx context.Context, id string) error
}

type PortalServiceDeps struct {
	Store    RelationshipStore
	Limiter  *PinRateLimiter
	Pins     *PinHasher
	Sessions *SessionTokenManager
	IPs      *IPHasher
	Logger   logrus.FieldLogger
	Now      func() time.Time
}

// PortalService runs the consent and PIN state machine of a relationship:
// NoConsent -> Consented(no PIN) -> Consented(PIN set) and back via RemovePin.
type PortalService struct {
	store    RelationshipStore
	limiter  *PinRateLimiter
	pins     *PinHasher
	sessions *SessionTokenManager
	ips      *IPHasher
	log      logrus.FieldLogger
	now      func() time.Time
	cookie   CookieConfig
}

func NewPortalService(deps PortalServiceDeps, cfg config.PortalConfig) *PortalService {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	cookiePath := strings.TrimSpace(cfg.CookiePath)
	if cookiePath == "" {
		cookiePath = defaultPortalCookiePath
	}

	return &PortalService{
		store:    deps.Store,
		limiter:  deps.Limiter,
		pins:     deps.Pins,
		sessions: deps.Sessions,
		ips:      deps.IPs,
		log:      logger.WithField("component", "portal"),
		now:      now,
		cookie: CookieConfig{
			Name:     SessionCookieName,
			Path:     cookiePath,
			Domain:   cfg.CookieDomain,
			Secure:   cfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(deps.Sessions.TTL().Seconds()),
		},
	}
}

func (s *PortalService) CookieConfig() CookieConfig {
	return s.cookie
}

// Consent records portal consent once. A second call is a no-op that reports
// alreadyConsented=true.
func (s *PortalService) Consent(ctx context.Context, portalToken, clientIP string) (bool, error) {
	if strings.TrimSpace(portalToken) == "" {
		return false, ErrInvalidInput
	}

	rel, err := s.resolve(ctx, portalToken)
	if err != nil {
		return false, err
	}
	if rel.HasConsent() {
		return true, nil
	}

	recorded, err := s.store.RecordPortalConsent(ctx, rel.ID, s.ips.Hash(clientIP), s.now())
	if err != nil {
		s.log.WithError(err).WithField("relationship_id", rel.ID).Error("failed to record consent")
		return false, ErrInternal
	}
	if !recorded {
		// 동시에 들어온 다른 요청이 먼저 동의 처리함
		return true, nil
	}

	s.log.WithField("relationship_id", rel.ID).Info("portal consent recorded")
	return false, nil
}

// SetPin stores a first PIN and returns a session token, since choosing the PIN
// proves control of the device at that moment.
func (s *PortalService) SetPin(ctx context.Context, portalToken, pin string) (string, error) {
	if strings.TrimSpace(portalToken) == "" || !ValidPin(pin) {
		return "", ErrInvalidInput
	}

	rel, err := s.resolve(ctx, portalToken)
	if err != nil {
		return "", err
	}
	if !rel.HasConsent() {
		return "", ErrForbidden
	}
	if rel.HasPin() {
		return "", ErrConflict
	}

	salt, err := s.pins.GenerateSalt()
	if err != nil {
		s.log.WithError(err).Error("failed to generate pin salt")
		return "", ErrInternal
	}

	stored, err := s.store.SetRelationshipPin(ctx, rel.ID, s.pins.Hash(pin, salt), salt, s.now())
	if err != nil {
		s.log.WithError(err).WithField("relationship_id", rel.ID).Error("failed to store pin")
		return "", ErrInternal
	}
	if !stored {
		return "", ErrConflict
	}

	s.log.WithField("relationship_id", rel.ID).Info("portal pin set")
	return s.issueSession(rel.ID)
}

func (s *PortalService) VerifyPin(ctx context.Context, portalToken, pin, clientIP string) (string, error) {
	if strings.TrimSpace(portalToken) == "" || !ValidPin(pin) {
		return "", ErrInvalidInput
	}

	rel, err := s.resolve(ctx, portalToken)
	if err != nil {
		return "", err
	}
	if err := s.checkPin(ctx, rel, pin, clientIP); err != nil {
		return "", err
	}
	return s.issueSession(rel.ID)
}

// RemovePin clears the PIN after the current PIN is proven. The caller is
// expected to clear the session cookie; issued tokens cannot be revoked.
func (s *PortalService) RemovePin(ctx context.Context, portalToken, currentPin, clientIP string) error {
	if strings.TrimSpace(portalToken) == "" || !ValidPin(currentPin) {
		return ErrInvalidInput
	}

	rel, err := s.resolve(ctx, portalToken)
	if err != nil {
		return err
	}
	if err := s.checkPin(ctx, rel, currentPin, clientIP); err != nil {
		return err
	}

	if err := s.store.ClearRelationshipPin(ctx, rel.ID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		s.log.WithError(err).WithField("relationship_id", rel.ID).Error("failed to clear pin")
		return ErrInternal
	}

	s.log.WithField("relationship_id", rel.ID).Info("portal pin removed")
	return nil
}

// Status reports where the client stands in the access flow. A relationship
// without a PIN counts as verified once consent exists.
func (s *PortalService) Status(ctx context.Context, portalToken, sessionToken string) (*model.PortalStatus, error) {
	if strings.TrimSpace(portalToken) == "" {
		return nil, ErrInvalidInput
	}

	rel, err := s.resolve(ctx, portalToken)
	if err != nil {
		return nil, err
	}

	status := &model.PortalStatus{
		Consented: rel.HasConsent(),
		PinSet:    rel.HasPin(),
	}
	if status.Consented {
		status.Verified = !status.PinSet || s.sessions.Verify(sessionToken, rel.ID)
	}
	return status, nil
}

// RequireSession gates portal content: consent is required, and when a PIN is
// set the session token must verify against the relationship.
func (s *PortalService) RequireSession(ctx context.Context, portalToken, sessionToken string) (*model.Relationship, error) {
	if strings.TrimSpace(portalToken) == "" {
		return nil, ErrNotFound
	}

	rel, err := s.resolve(ctx, portalToken)
	if err != nil {
		return nil, err
	}
	if !rel.HasConsent() {
		return nil, ErrForbidden
	}
	if rel.HasPin() && !s.sessions.Verify(sessionToken, rel.ID) {
		return nil, ErrUnauthorized
	}
	return rel, nil
}

func (s *PortalService) resolve(ctx context.Context, portalToken string) (*model.Relationship, error) {
	rel, err := s.store.GetRelationshipByPortalToken(ctx, portalToken)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.WithError(err).WithField("portal_token", logs.TokenPrefix(portalToken)).Error("failed to resolve relationship")
		return nil, ErrInternal
	}
	if rel == nil || rel.IsDeleted() {
		return nil, ErrNotFound
	}
	return rel, nil
}

func (s *PortalService) checkPin(ctx context.Context, rel *model.Relationship, pin, clientIP string) error {
	if !rel.HasPin() {
		return ErrNoPinSet
	}

	ipHash := s.ips.Hash(clientIP)
	entry := s.log.WithField("relationship_id", rel.ID)

	limit, err := s.limiter.Check(ctx, rel.ID, ipHash)
	if err != nil {
		entry.WithError(err).Error("failed to evaluate pin rate limit")
		return ErrInternal
	}
	if !limit.Allowed {
		entry.WithField("ip_hash", ipHash).Warn("pin attempt blocked by rate limit")
		return &RateLimitError{RetryAfterSeconds: limit.RetryAfterSeconds}
	}

	ok := s.pins.Verify(pin, *rel.PinSalt, *rel.PinHash)
	if err := s.limiter.Record(ctx, rel.ID, ipHash, ok); err != nil {
		entry.WithError(err).Error("failed to record pin attempt")
		return ErrInternal
	}
	if !ok {
		return &PinMismatchError{AttemptsRemaining: limit.Remaining}
	}
	return nil
}

func (s *PortalService) issueSession(relationshipID string) (string, error) {
	token, err := s.sessions.Issue(relationshipID)
	if err != nil {
		s.log.WithError(err).WithField("relationship_id", relationshipID).Error("failed to issue session token")
		return "", ErrInternal
	}
	return token, nil
}
