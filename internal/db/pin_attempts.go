package db

import (
	"context"
	"fmt"
	"time"

	"github.com/homework-portal/backend/internal/model"
)

// InsertPinAttempt - PIN 시도 기록 (append-only, 수정/삭제 없음)
func (db *Postgres) InsertPinAttempt(ctx context.Context, attempt model.PinAttempt) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO pin_attempts (relationship_id, ip_hash, success, attempted_at)
		VALUES ($1, $2, $3, $4)
	`, attempt.RelationshipID, attempt.IPHash, attempt.Success, attempt.AttemptedAt)
	if err != nil {
		return fmt.Errorf("failed to insert pin attempt: %w", err)
	}
	return nil
}

func (db *Postgres) CountFailedPinAttemptsByRelationship(ctx context.Context, relationshipID string, since time.Time) (int, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM pin_attempts
		WHERE relationship_id = $1 AND NOT success AND attempted_at >= $2
	`, relationshipID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pin failures by relationship: %w", err)
	}
	return count, nil
}

func (db *Postgres) CountFailedPinAttemptsByIP(ctx context.Context, ipHash string, since time.Time) (int, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM pin_attempts
		WHERE ip_hash = $1 AND NOT success AND attempted_at >= $2
	`, ipHash, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pin failures by ip: %w", err)
	}
	return count, nil
}
