package repository

import (
	"context"
	"database/sql"
	"errors"

	"user-auth-service/internal/token/domain"
)

// PostgresRepository implements Repository on a Postgres database.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a refresh-token repository backed by db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const tokenColumns = "id, user_id, session_id, token_hash, revoked, expires_at, created_at"

// GetByTokenHash returns the record for tokenHash, or nil if not found.
func (r *PostgresRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+tokenColumns+" FROM refresh_tokens WHERE token_hash = $1", tokenHash)
	var t domain.RefreshToken
	var sessionID sql.NullString
	err := row.Scan(&t.ID, &t.UserID, &sessionID, &t.TokenHash, &t.Revoked, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	t.SessionID = sessionID.String
	return &t, nil
}

// Create persists the refresh-token record.
func (r *PostgresRepository) Create(ctx context.Context, t *domain.RefreshToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, user_id, session_id, token_hash, revoked, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.UserID, sql.NullString{String: t.SessionID, Valid: t.SessionID != ""},
		t.TokenHash, t.Revoked, t.ExpiresAt, t.CreatedAt,
	)
	return err
}

// Revoke marks the record with the given id as revoked. Revoking an already
// revoked or missing record is a no-op.
func (r *PostgresRepository) Revoke(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked = TRUE WHERE id = $1", id)
	return err
}

// RevokeAllByUser revokes every outstanding token for the user.
func (r *PostgresRepository) RevokeAllByUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND revoked = FALSE", userID)
	return err
}

// DeleteExpired removes records past their expiry and returns how many were
// deleted. Meant to run periodically; correctness never depends on it because
// validity checks expiry directly.
func (r *PostgresRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE expires_at < NOW()")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteRevoked removes revoked records and returns how many were deleted.
func (r *PostgresRepository) DeleteRevoked(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE revoked = TRUE")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
