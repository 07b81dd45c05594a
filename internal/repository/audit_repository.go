package repository

import (
	"context"

	"botpanel/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository is append-and-list only: no update or delete paths exist.
// The actor email is snapshotted into the row at append time so entries keep
// their attribution after the actor account is deleted.
type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, e *entities.AuditLog) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return r.db.QueryRow(ctx,
		`INSERT INTO audit_logs (id, user_id, actor_email, action, status, details)
		 VALUES ($1, $2, COALESCE((SELECT email FROM users WHERE id = $2), ''), $3, $4, $5)
		 RETURNING actor_email, created_at`,
		e.ID, e.UserID, e.Action, e.Status, e.Details).
		Scan(&e.ActorEmail, &e.CreatedAt)
}

func (r *AuditRepository) List(ctx context.Context) ([]entities.AuditLog, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, actor_email, action, status, details, created_at
		 FROM audit_logs
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []entities.AuditLog{}
	for rows.Next() {
		var e entities.AuditLog
		err := rows.Scan(&e.ID, &e.UserID, &e.ActorEmail, &e.Action, &e.Status,
			&e.Details, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		logs = append(logs, e)
	}
	return logs, rows.Err()
}
