package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

const (
	SessionTokenTTL   = 24 * time.Hour
	SessionCookieName = "portal_session"
)

var tokenEncoding = base64.RawURLEncoding.Strict()

type sessionPayload struct {
	RelationshipID   string `json:"relationshipId"`
	VerifiedAtMillis int64  `json:"verifiedAt"`
}

// SessionTokenManager issues and checks stateless proofs that a relationship's
// PIN was verified at a given time. Wire form: base64url(payload).base64url(hmac).
// Tokens cannot be revoked; they expire SessionTokenTTL after verification.
type SessionTokenManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewSessionTokenManager(key []byte) *SessionTokenManager {
	k := make([]byte, len(key))
	copy(k, key)
	return &SessionTokenManager{key: k, ttl: SessionTokenTTL, now: time.Now}
}

// WithClock replaces the manager's time source.
func (m *SessionTokenManager) WithClock(now func() time.Time) *SessionTokenManager {
	m.now = now
	return m
}

func (m *SessionTokenManager) TTL() time.Duration {
	return m.ttl
}

func (m *SessionTokenManager) Issue(relationshipID string) (string, error) {
	return m.issueAt(relationshipID, m.now())
}

func (m *SessionTokenManager) issueAt(relationshipID string, verifiedAt time.Time) (string, error) {
	payload, err := json.Marshal(sessionPayload{
		RelationshipID:   relationshipID,
		VerifiedAtMillis: verifiedAt.UnixMilli(),
	})
	if err != nil {
		return "", err
	}
	return tokenEncoding.EncodeToString(payload) + "." + tokenEncoding.EncodeToString(m.sign(payload)), nil
}

// Verify fails closed on any structural, signature, subject or age problem.
func (m *SessionTokenManager) Verify(token, relationshipID string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}

	payload, err := tokenEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	signature, err := tokenEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}
	if !hmac.Equal(signature, m.sign(payload)) {
		return false
	}

	var p sessionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return false
	}
	if p.RelationshipID == "" || p.RelationshipID != relationshipID {
		return false
	}

	age := m.now().Sub(time.UnixMilli(p.VerifiedAtMillis))
	return age >= 0 && age <= m.ttl
}

func (m *SessionTokenManager) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, m.key)
	mac.Write(payload)
	return mac.Sum(nil)
}
