package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/prestaci/prestaci-backend/internal/model"
)

// ErrTemplateNotFound is returned when a notification template lookup by
// name finds nothing.
var ErrTemplateNotFound = errors.New("notification template not found")

// NotificationRepo persists in-app notifications and loads the templates
// they are rendered from.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo returns a NotificationRepo bound to the given pool.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Insert stores an already-rendered notification addressed to one user.
func (r *NotificationRepo) Insert(ctx context.Context, n *model.Notification) error {
	const q = `INSERT INTO notifications (user_id, template_id, titre, message, type, data)
	           VALUES (?, ?, ?, ?, ?, ?)`
	var data any
	if len(n.Data) > 0 {
		data = n.Data
	}
	res, err := r.db.ExecContext(ctx, q, n.UserID, n.TemplateID, n.Titre, n.Message, n.Type, data)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	const sel = `SELECT sent_at FROM notifications WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, n.ID).Scan(&n.SentAt)
}

// ListByUser returns a user's notifications, newest first.  With unreadOnly
// set, read rows are filtered out.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint64, unreadOnly bool) ([]*model.Notification, error) {
	q := `SELECT id, user_id, template_id, titre, message, type, data, is_read, sent_at, read_at
	      FROM notifications WHERE user_id = ?`
	if unreadOnly {
		q += ` AND is_read = 0`
	}
	q += ` ORDER BY sent_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		var templateID sql.NullInt64
		var data []byte
		var readAt sql.NullTime
		if err := rows.Scan(&n.ID, &n.UserID, &templateID, &n.Titre, &n.Message,
			&n.Type, &data, &n.IsRead, &n.SentAt, &readAt); err != nil {
			return nil, err
		}
		if templateID.Valid {
			tid := uint64(templateID.Int64)
			n.TemplateID = &tid
		}
		n.Data = data
		if readAt.Valid {
			t := readAt.Time
			n.ReadAt = &t
		}
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountUnread returns the number of unread notifications for a user.
func (r *NotificationRepo) CountUnread(ctx context.Context, userID uint64) (uint64, error) {
	const q = `SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0`
	var n uint64
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// MarkRead flags one notification as read, scoped to its owner so one user
// cannot touch another user's rows.  Unknown ids are a no-op.
func (r *NotificationRepo) MarkRead(ctx context.Context, notificationID, userID uint64) error {
	const q = `UPDATE notifications
	           SET is_read = 1, read_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND user_id = ? AND is_read = 0`
	_, err := r.db.ExecContext(ctx, q, notificationID, userID)
	return err
}

// MarkAllRead flags every unread notification of a user as read and returns
// how many rows changed.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	const q = `UPDATE notifications
	           SET is_read = 1, read_at = CURRENT_TIMESTAMP
	           WHERE user_id = ? AND is_read = 0`
	res, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// GetTemplateByName loads a template by its unique name.  The variables
// column is returned raw; callers normalize it with
// notification.ParseVariables before use.
func (r *NotificationRepo) GetTemplateByName(ctx context.Context, nom string) (*model.NotificationTemplate, error) {
	const q = `SELECT id, nom, titre, message, type, variables, created_at, updated_at
	           FROM notification_templates WHERE nom = ?`
	var t model.NotificationTemplate
	var variables sql.NullString
	err := r.db.QueryRowContext(ctx, q, nom).Scan(
		&t.ID, &t.Nom, &t.Titre, &t.Message, &t.Type, &variables, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if variables.Valid {
		t.VariablesRaw = variables.String
	}
	return &t, nil
}
