package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/homework-portal/backend/internal/db"
	"github.com/homework-portal/backend/internal/model"
	"github.com/sirupsen/logrus"
)

const (
	portalTokenBytes  = 32
	maxClientLabelLen = 120
	maxCreateAttempts = 3
)

type relationshipRepo interface {
	CreateRelationship(ctx context.Context, rel model.Relationship) error
	GetRelationshipForPractitioner(ctx context.Context, practitionerID int64, id string) (*model.Relationship, error)
	ArchiveRelationship(ctx context.Context, practitionerID int64, id string, at time.Time) error
}

// RelationshipService lets a practitioner mint portal links and inspect or
// retire them. All lookups are scoped to the calling practitioner.
type RelationshipService struct {
	repo    relationshipRepo
	limiter *PinRateLimiter
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewRelationshipService(repo relationshipRepo, limiter *PinRateLimiter, logger logrus.FieldLogger) *RelationshipService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RelationshipService{
		repo:    repo,
		limiter: limiter,
		log:     logger.WithField("component", "relationship"),
		now:     time.Now,
	}
}

func (s *RelationshipService) Create(ctx context.Context, practitionerID int64, clientLabel string) (*model.RelationshipCreatedResponse, error) {
	clientLabel = strings.TrimSpace(clientLabel)
	if clientLabel == "" || len(clientLabel) > maxClientLabelLen {
		return nil, ErrInvalidInput
	}

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		token, err := newPortalToken()
		if err != nil {
			return nil, err
		}
		rel := model.Relationship{
			ID:             uuid.NewString(),
			PractitionerID: practitionerID,
			ClientLabel:    clientLabel,
			PortalToken:    token,
		}

		err = s.repo.CreateRelationship(ctx, rel)
		if err == nil {
			s.log.WithFields(logrus.Fields{
				"relationship_id": rel.ID,
				"practitioner_id": practitionerID,
			}).Info("relationship created")
			return &model.RelationshipCreatedResponse{ID: rel.ID, PortalToken: rel.PortalToken}, nil
		}
		if !errors.Is(err, db.ErrDuplicate) {
			return nil, err
		}
	}

	return nil, ErrConflict
}

// Access reports consent, PIN and recent failure state without exposing PIN material.
func (s *RelationshipService) Access(ctx context.Context, practitionerID int64, id string) (*model.RelationshipAccess, error) {
	rel, err := s.lookup(ctx, practitionerID, id)
	if err != nil {
		return nil, err
	}

	failures, err := s.limiter.RecentFailures(ctx, rel.ID)
	if err != nil {
		return nil, err
	}

	return &model.RelationshipAccess{
		ID:                   rel.ID,
		ClientLabel:          rel.ClientLabel,
		ConsentedAt:          rel.ConsentedAt,
		PinSetAt:             rel.PinSetAt,
		RecentFailedAttempts: failures,
		CreatedAt:            rel.CreatedAt,
	}, nil
}

// Archive soft-deletes the relationship. Its portal link stops resolving at once.
func (s *RelationshipService) Archive(ctx context.Context, practitionerID int64, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	if err := s.repo.ArchiveRelationship(ctx, practitionerID, id, s.now()); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.log.WithFields(logrus.Fields{
		"relationship_id": id,
		"practitioner_id": practitionerID,
	}).Info("relationship archived")
	return nil
}

func (s *RelationshipService) lookup(ctx context.Context, practitionerID int64, id string) (*model.Relationship, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	rel, err := s.repo.GetRelationshipForPractitioner(ctx, practitionerID, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rel, nil
}

func newPortalToken() (string, error) {
	raw := make([]byte, portalTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
