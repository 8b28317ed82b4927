package repository

import (
	"context"

	"ecogrow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const auditColumns = `id, user_id, action, category, details, ip, user_agent, created_at`

// AuditRepository is append-only; nothing updates or deletes entries.
type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	details := entry.Details
	if details == nil {
		details = map[string]any{}
	}

	// jsonb parameters are encoded by pgx from the map
	return r.db.QueryRow(ctx,
		`INSERT INTO audit_logs (user_id, action, category, details, ip, user_agent)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		entry.UserID, entry.Action, entry.Category, details, entry.IP, entry.UserAgent,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// GetByUserID returns up to limit entries for one actor, newest first.
func (r *AuditRepository) GetByUserID(ctx context.Context, userID string, limit int) ([]*domain.AuditLog, error) {
	return r.list(ctx,
		`SELECT `+auditColumns+` FROM audit_logs
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		userID, limit,
	)
}

func (r *AuditRepository) GetRecent(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	return r.list(ctx,
		`SELECT `+auditColumns+` FROM audit_logs
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1`,
		limit,
	)
}

func (r *AuditRepository) list(ctx context.Context, sql string, args ...any) ([]*domain.AuditLog, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	logs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.AuditLog, error) {
		var e domain.AuditLog
		err := row.Scan(&e.ID, &e.UserID, &e.Action, &e.Category, &e.Details, &e.IP, &e.UserAgent, &e.CreatedAt)
		if e.Details == nil {
			e.Details = map[string]any{}
		}
		return &e, err
	})
	if err != nil {
		return nil, err
	}
	return logs, nil
}
