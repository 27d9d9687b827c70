package model

import "time"

// ConsentScopePortal marks consent given through the client portal, as opposed
// to consent captured by the practitioner elsewhere.
const ConsentScopePortal = "portal"

// Relationship is a practitioner-client pairing reachable through a portal link.
// PinHash, PinSalt and PinSetAt are either all set or all nil.
type Relationship struct {
	ID             string
	PractitionerID int64
	ClientLabel    string
	PortalToken    string
	ConsentedAt    *time.Time
	ConsentIPHash  *string
	PinHash        *string
	PinSalt        *string
	PinSetAt       *time.Time
	DeletedAt      *time.Time
	CreatedAt      time.Time
}

func (r *Relationship) HasConsent() bool {
	return r.ConsentedAt != nil
}

func (r *Relationship) HasPin() bool {
	return r.PinHash != nil && r.PinSalt != nil
}

func (r *Relationship) IsDeleted() bool {
	return r.DeletedAt != nil
}

// PinAttempt is one row of the append-only PIN attempt ledger.
type PinAttempt struct {
	RelationshipID string
	IPHash         string
	Success        bool
	AttemptedAt    time.Time
}

type PortalStatus struct {
	Consented bool `json:"consented"`
	PinSet    bool `json:"pinSet"`
	Verified  bool `json:"verified"`
}

type PortalTokenRequest struct {
	PortalToken string `json:"portalToken"`
}

type PortalPinRequest struct {
	PortalToken string `json:"portalToken"`
	Pin         string `json:"pin"`
}

type PortalRemovePinRequest struct {
	PortalToken string `json:"portalToken"`
	CurrentPin  string `json:"currentPin"`
}

type PortalSuccessResponse struct {
	Success          bool `json:"success"`
	AlreadyConsented bool `json:"alreadyConsented,omitempty"`
}

type PortalUnauthorizedResponse struct {
	Error             string `json:"error"`
	AttemptsRemaining int    `json:"attemptsRemaining"`
}

type PortalRateLimitedResponse struct {
	Error             string `json:"error"`
	RetryAfterSeconds int    `json:"retryAfterSeconds"`
}
