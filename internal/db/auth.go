package db

import (
	"context"
	"fmt"
	"time"

	"github.com/homework-portal/backend/internal/model"
	"github.com/jackc/pgx/v5"
)

func scanPractitioner(row pgx.Row) (*model.Practitioner, error) {
	var p model.Practitioner
	err := row.Scan(
		&p.ID,
		&p.LoginID,
		&p.PasswordHash,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan practitioner: %w", err)
	}
	return &p, nil
}

func (db *Postgres) CreatePractitioner(ctx context.Context, loginID, passwordHash string) (*model.Practitioner, error) {
	query := `
		INSERT INTO practitioners (login_id, password_hash, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, login_id, password_hash, created_at, updated_at
	`
	p, err := scanPractitioner(db.Pool.QueryRow(ctx, query, loginID, passwordHash))
	if err != nil && isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	return p, err
}

func (db *Postgres) GetPractitionerByLoginID(ctx context.Context, loginID string) (*model.Practitioner, error) {
	query := `
		SELECT id, login_id, password_hash, created_at, updated_at
		FROM practitioners
		WHERE login_id = $1
	`
	return scanPractitioner(db.Pool.QueryRow(ctx, query, loginID))
}

func (db *Postgres) GetPractitionerByID(ctx context.Context, id int64) (*model.Practitioner, error) {
	query := `
		SELECT id, login_id, password_hash, created_at, updated_at
		FROM practitioners
		WHERE id = $1
	`
	return scanPractitioner(db.Pool.QueryRow(ctx, query, id))
}

func (db *Postgres) InsertRefreshToken(ctx context.Context, practitionerID int64, tokenHash string, expiresAt time.Time) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (practitioner_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
	`, practitionerID, tokenHash, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert refresh token: %w", err)
	}
	return nil
}

func (db *Postgres) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	query := `
		SELECT id, practitioner_id, token_hash, expires_at, revoked_at, created_at
		FROM refresh_tokens
		WHERE token_hash = $1
	`
	var token model.RefreshToken
	err := db.Pool.QueryRow(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.PractitionerID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.RevokedAt,
		&token.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load refresh token: %w", err)
	}
	return &token, nil
}

func (db *Postgres) RevokeRefreshTokenByHash(ctx context.Context, tokenHash string) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE token_hash = $1 AND revoked_at IS NULL
	`, tokenHash)
	return err
}

// RotateRefreshToken revokes the presented token and stores its successor atomically.
func (db *Postgres) RotateRefreshToken(ctx context.Context, oldTokenID, practitionerID int64, newTokenHash string, newExpiresAt time.Time) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE id = $1 AND revoked_at IS NULL
	`, oldTokenID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// 동시에 같은 토큰으로 갱신한 요청이 이미 있음
		return ErrNotFound
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO refresh_tokens (practitioner_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
	`, practitionerID, newTokenHash, newExpiresAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
