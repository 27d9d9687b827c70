package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/homework-portal/backend/internal/model"
	"github.com/jackc/pgx/v5"
)

const relationshipColumns = `
	id::text, practitioner_id, client_label, portal_token,
	consented_at, consent_ip_hash, pin_hash, pin_salt, pin_set_at,
	deleted_at, created_at
`

func scanRelationship(row pgx.Row) (*model.Relationship, error) {
	var rel model.Relationship
	err := row.Scan(
		&rel.ID,
		&rel.PractitionerID,
		&rel.ClientLabel,
		&rel.PortalToken,
		&rel.ConsentedAt,
		&rel.ConsentIPHash,
		&rel.PinHash,
		&rel.PinSalt,
		&rel.PinSetAt,
		&rel.DeletedAt,
		&rel.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rel, nil
}

// GetRelationshipByPortalToken - 포털 토큰으로 관계 조회 (soft-delete 여부는 호출자가 판단)
func (db *Postgres) GetRelationshipByPortalToken(ctx context.Context, portalToken string) (*model.Relationship, error) {
	query := `SELECT ` + relationshipColumns + ` FROM relationships WHERE portal_token = $1`
	rel, err := scanRelationship(db.Pool.QueryRow(ctx, query, portalToken))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to load relationship by portal token: %w", err)
	}
	return rel, err
}

// GetRelationshipForPractitioner - 담당 치료사 기준 단건 조회 (삭제된 관계 제외)
func (db *Postgres) GetRelationshipForPractitioner(ctx context.Context, practitionerID int64, id string) (*model.Relationship, error) {
	query := `
		SELECT ` + relationshipColumns + `
		FROM relationships
		WHERE id = $1 AND practitioner_id = $2 AND deleted_at IS NULL
	`
	rel, err := scanRelationship(db.Pool.QueryRow(ctx, query, id, practitionerID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to load relationship: %w", err)
	}
	return rel, err
}

func (db *Postgres) CreateRelationship(ctx context.Context, rel model.Relationship) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO relationships (id, practitioner_id, client_label, portal_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`, rel.ID, rel.PractitionerID, rel.ClientLabel, rel.PortalToken)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert relationship: %w", err)
	}
	return nil
}

// RecordPortalConsent sets consented_at and consent_ip_hash once and appends a
// portal-scope consent event in the same transaction. It reports false when the
// relationship was already consented, leaving the existing values untouched.
func (db *Postgres) RecordPortalConsent(ctx context.Context, id, ipHash string, at time.Time) (bool, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin consent tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, `
		UPDATE relationships
		SET consented_at = $2, consent_ip_hash = $3, updated_at = NOW()
		WHERE id = $1 AND consented_at IS NULL AND deleted_at IS NULL
	`, id, at, ipHash)
	if err != nil {
		return false, fmt.Errorf("failed to record consent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO consent_events (relationship_id, scope, ip_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, id, model.ConsentScopePortal, ipHash, at); err != nil {
		return false, fmt.Errorf("failed to insert consent event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit consent: %w", err)
	}
	return true, nil
}

// SetRelationshipPin stores all three PIN fields together. It reports false when a
// PIN already exists or consent is missing.
func (db *Postgres) SetRelationshipPin(ctx context.Context, id, pinHash, pinSalt string, at time.Time) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE relationships
		SET pin_hash = $2, pin_salt = $3, pin_set_at = $4, updated_at = NOW()
		WHERE id = $1
			AND pin_hash IS NULL
			AND consented_at IS NOT NULL
			AND deleted_at IS NULL
	`, id, pinHash, pinSalt, at)
	if err != nil {
		return false, fmt.Errorf("failed to set pin: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (db *Postgres) ClearRelationshipPin(ctx context.Context, id string) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE relationships
		SET pin_hash = NULL, pin_salt = NULL, pin_set_at = NULL, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("failed to clear pin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ArchiveRelationship - soft delete. 이후 모든 포털 요청은 not found 로 처리된다.
func (db *Postgres) ArchiveRelationship(ctx context.Context, practitionerID int64, id string, at time.Time) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE relationships
		SET deleted_at = $3, updated_at = NOW()
		WHERE id = $1 AND practitioner_id = $2 AND deleted_at IS NULL
	`, id, practitionerID, at)
	if err != nil {
		return fmt.Errorf("failed to archive relationship: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
