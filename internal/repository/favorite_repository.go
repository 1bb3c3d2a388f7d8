package repository

import (
	"context"
	"database/sql"

	"github.com/prestaci/prestaci-backend/internal/model"
)

// FavoriteRepo persists the (user, target, type) bookmark relation.
type FavoriteRepo struct {
	db *sql.DB
}

// NewFavoriteRepo returns a FavoriteRepo bound to the given pool.
func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// Add inserts a favorite unless the natural key already exists.  Adding an
// existing favorite is a no-op, not an error.
func (r *FavoriteRepo) Add(ctx context.Context, f *model.Favorite) error {
	const q = `INSERT INTO favorites (user_id, target_id, target_type)
	           SELECT ?, ?, ? FROM DUAL
	           WHERE NOT EXISTS (
	               SELECT 1 FROM favorites
	               WHERE user_id = ? AND target_id = ? AND target_type = ?
	           )`
	res, err := r.db.ExecContext(ctx, q,
		f.UserID, f.TargetID, f.TargetType,
		f.UserID, f.TargetID, f.TargetType)
	if err != nil {
		if isDuplicateKey(err) {
			return nil
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	const sel = `SELECT created_at FROM favorites WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, f.ID).Scan(&f.CreatedAt)
}

// Remove deletes a favorite by natural key.  Removing a favorite that does
// not exist is a no-op so the action is idempotent from the client's side.
func (r *FavoriteRepo) Remove(ctx context.Context, userID, targetID uint64, targetType string) error {
	const q = `DELETE FROM favorites WHERE user_id = ? AND target_id = ? AND target_type = ?`
	_, err := r.db.ExecContext(ctx, q, userID, targetID, targetType)
	return err
}

// ListByUser returns a user's favorites, optionally restricted to one
// target type, newest first.
func (r *FavoriteRepo) ListByUser(ctx context.Context, userID uint64, targetType string) ([]*model.Favorite, error) {
	q := `SELECT id, user_id, target_id, target_type, created_at
	      FROM favorites WHERE user_id = ?`
	args := []any{userID}
	if targetType != "" {
		q += ` AND target_type = ?`
		args = append(args, targetType)
	}
	q += ` ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Favorite, 0)
	for rows.Next() {
		var f model.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.TargetID, &f.TargetType, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
