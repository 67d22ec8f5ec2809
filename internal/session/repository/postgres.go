package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"user-auth-service/internal/session/domain"
)

// PostgresRepository implements Repository on a Postgres database.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository backed by db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const sessionColumns = "id, user_id, ip_address, user_agent, is_active, expires_at, last_activity_at, created_at"

// GetByID returns the session for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions WHERE id = $1", id)
	s, err := scanSession(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// ListByUser returns all active sessions for the user, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions WHERE user_id = $1 AND is_active = TRUE ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Session
	for rows.Next() {
		s, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Create persists the session.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, ip_address, user_agent, is_active, expires_at, last_activity_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.UserID, nullStr(s.IPAddress), nullStr(s.UserAgent),
		s.IsActive, s.ExpiresAt, s.LastActivityAt, s.CreatedAt,
	)
	return err
}

// Terminate deactivates the session with the given id. Terminating an
// inactive or missing session is a no-op.
func (r *PostgresRepository) Terminate(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET is_active = FALSE WHERE id = $1", id)
	return err
}

// TerminateAllByUser deactivates every active session for the user.
func (r *PostgresRepository) TerminateAllByUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET is_active = FALSE WHERE user_id = $1 AND is_active = TRUE", userID)
	return err
}

// UpdateLastActivity sets the session's last-activity timestamp.
func (r *PostgresRepository) UpdateLastActivity(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET last_activity_at = $2 WHERE id = $1", id, at)
	return err
}

// DeleteExpired removes sessions past their expiry and returns how many were
// deleted.
func (r *PostgresRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < NOW()")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanSession(scan func(dest ...any) error) (*domain.Session, error) {
	var s domain.Session
	var ip, ua sql.NullString
	err := scan(&s.ID, &s.UserID, &ip, &ua, &s.IsActive,
		&s.ExpiresAt, &s.LastActivityAt, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.IPAddress = ip.String
	s.UserAgent = ua.String
	return &s, nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
