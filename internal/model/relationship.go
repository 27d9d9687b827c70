package model

import "time"

type CreateRelationshipRequest struct {
	ClientLabel string `json:"clientLabel"`
}

type RelationshipCreatedResponse struct {
	ID          string `json:"id"`
	PortalToken string `json:"portalToken"`
}

// RelationshipAccess summarises the portal access state of one relationship
// for its practitioner.
type RelationshipAccess struct {
	ID                   string     `json:"id"`
	ClientLabel          string     `json:"clientLabel"`
	ConsentedAt          *time.Time `json:"consentedAt"`
	PinSetAt             *time.Time `json:"pinSetAt"`
	RecentFailedAttempts int        `json:"recentFailedAttempts"`
	CreatedAt            time.Time  `json:"createdAt"`
}
