package repository

import (
	"context"
	"database/sql"

	"user-auth-service/internal/audit/domain"
)

// PostgresRepository implements Repository on a Postgres database.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit repository backed by db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists one audit entry.
func (r *PostgresRepository) Create(ctx context.Context, e *domain.AuditLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, user_id, action, ip_address, user_agent, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.UserID, e.Action,
		sql.NullString{String: e.IPAddress, Valid: e.IPAddress != ""},
		sql.NullString{String: e.UserAgent, Valid: e.UserAgent != ""},
		sql.NullString{String: e.Metadata, Valid: e.Metadata != ""},
		e.CreatedAt,
	)
	return err
}

// ListByUser returns the user's entries, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, action, ip_address, user_agent, metadata, created_at
		 FROM audit_logs WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.AuditLog
	for rows.Next() {
		var e domain.AuditLog
		var ip, ua, meta sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &ip, &ua, &meta, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.IPAddress = ip.String
		e.UserAgent = ua.String
		e.Metadata = meta.String
		out = append(out, &e)
	}
	return out, rows.Err()
}
