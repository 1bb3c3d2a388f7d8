package repository

import (
	"context"
	"database/sql"

	"github.com/prestaci/prestaci-backend/internal/model"
)

// PushTokenRepo stores device registrations for push delivery.  Actual
// dispatch to a push provider is not implemented; active tokens are only
// read by the notification consumer for logging.
type PushTokenRepo struct {
	db *sql.DB
}

// NewPushTokenRepo returns a PushTokenRepo bound to the given pool.
func NewPushTokenRepo(db *sql.DB) *PushTokenRepo { return &PushTokenRepo{db: db} }

// Upsert registers a token for a user, reactivating and retyping it when
// the same token string was registered before.
func (r *PushTokenRepo) Upsert(ctx context.Context, t *model.PushToken) error {
	const q = `INSERT INTO push_tokens (user_id, token, device_type, is_active)
	           VALUES (?, ?, ?, 1)
	           ON DUPLICATE KEY UPDATE
	               user_id = VALUES(user_id),
	               device_type = VALUES(device_type),
	               is_active = 1,
	               updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.ExecContext(ctx, q, t.UserID, t.Token, t.DeviceType); err != nil {
		return err
	}
	const sel = `SELECT id, is_active, created_at, updated_at FROM push_tokens WHERE token = ?`
	return r.db.QueryRowContext(ctx, sel, t.Token).Scan(&t.ID, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
}

// Deactivate disables a token for a user.  Unknown tokens are a no-op.
func (r *PushTokenRepo) Deactivate(ctx context.Context, userID uint64, token string) error {
	const q = `UPDATE push_tokens
	           SET is_active = 0, updated_at = CURRENT_TIMESTAMP
	           WHERE user_id = ? AND token = ?`
	_, err := r.db.ExecContext(ctx, q, userID, token)
	return err
}

// ListActiveByUser returns the active registrations of a user.
func (r *PushTokenRepo) ListActiveByUser(ctx context.Context, userID uint64) ([]*model.PushToken, error) {
	const q = `SELECT id, user_id, token, device_type, is_active, created_at, updated_at
	           FROM push_tokens WHERE user_id = ? AND is_active = 1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.PushToken, 0)
	for rows.Next() {
		var t model.PushToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.DeviceType,
			&t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
