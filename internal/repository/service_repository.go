package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/prestaci/prestaci-backend/internal/model"
)

// ErrServiceNotFound is returned when a service does not exist or is not
// active when an active one was required.
var ErrServiceNotFound = errors.New("service not found")

// ServiceRepo provides catalog queries for services.  The owner-scoped
// listing resolves the caller's prestataire row first and returns an empty
// list when none exists: a failed resolution must narrow the filter to
// nothing, never widen it to every service in the table.
type ServiceRepo struct {
	db *sql.DB
}

// NewServiceRepo returns a ServiceRepo bound to the given pool.
func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{db: db} }

const serviceColumns = `SELECT id, prestataire_id, sous_categorie_id, nom, description,
	       prix, devise, duree_minutes, is_active, created_at, updated_at
	FROM services`

func scanService(scan func(dest ...any) error) (*model.Service, error) {
	var s model.Service
	var desc sql.NullString
	if err := scan(
		&s.ID, &s.PrestataireID, &s.SousCategorieID, &s.Nom, &desc,
		&s.Prix, &s.Devise, &s.DureeMinutes, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		s.Description = &d
	}
	return &s, nil
}

// GetActive fetches a service by id, treating inactive rows the same as
// missing ones.  Bookings must only ever see active services.
func (r *ServiceRepo) GetActive(ctx context.Context, id uint64) (*model.Service, error) {
	q := serviceColumns + ` WHERE id = ? AND is_active = 1`
	s, err := scanService(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return s, nil
}

// GetByIDForOwner fetches a service only when it belongs to the given
// prestataire.  Missing and foreign rows both return ErrServiceNotFound so
// the listing never reveals other tenants' services.
func (r *ServiceRepo) GetByIDForOwner(ctx context.Context, id, prestataireID uint64) (*model.Service, error) {
	q := serviceColumns + ` WHERE id = ? AND prestataire_id = ?`
	s, err := scanService(r.db.QueryRowContext(ctx, q, id, prestataireID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return s, nil
}

// ListOwnedByUser returns the services of the prestataire owned by the
// given user.  When the user has no prestataire profile the result is the
// empty list; this method must never degrade into an unfiltered listing.
func (r *ServiceRepo) ListOwnedByUser(ctx context.Context, userID uint64) ([]*model.Service, error) {
	const resolve = `SELECT id FROM prestataires WHERE user_id = ?`
	var prestataireID uint64
	if err := r.db.QueryRowContext(ctx, resolve, userID).Scan(&prestataireID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*model.Service{}, nil
		}
		return nil, err
	}
	q := serviceColumns + ` WHERE prestataire_id = ? ORDER BY id`
	return r.queryServices(ctx, q, prestataireID)
}

// ListActive returns active services for public browsing, optionally
// filtered by sub-category.
func (r *ServiceRepo) ListActive(ctx context.Context, sousCategorieID uint64) ([]*model.Service, error) {
	q := serviceColumns + ` WHERE is_active = 1`
	args := []any{}
	if sousCategorieID != 0 {
		q += ` AND sous_categorie_id = ?`
		args = append(args, sousCategorieID)
	}
	q += ` ORDER BY id`
	return r.queryServices(ctx, q, args...)
}

func (r *ServiceRepo) queryServices(ctx context.Context, q string, args ...any) ([]*model.Service, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Service, 0)
	for rows.Next() {
		s, err := scanService(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a service for a prestataire and reads back the generated
// fields.
func (r *ServiceRepo) Create(ctx context.Context, s *model.Service) error {
	const q = `INSERT INTO services
	           (prestataire_id, sous_categorie_id, nom, description, prix, devise, duree_minutes, is_active)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		s.PrestataireID, s.SousCategorieID, s.Nom, s.Description,
		s.Prix, s.Devise, s.DureeMinutes, s.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM services WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, s.ID).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// Update rewrites the editable columns of a service owned by the given
// prestataire.  sql.ErrNoRows-like misses surface as ErrServiceNotFound.
func (r *ServiceRepo) Update(ctx context.Context, s *model.Service) error {
	const q = `UPDATE services
	           SET nom = ?, description = ?, prix = ?, devise = ?,
	               duree_minutes = ?, is_active = ?, sous_categorie_id = ?,
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND prestataire_id = ?`
	res, err := r.db.ExecContext(ctx, q,
		s.Nom, s.Description, s.Prix, s.Devise,
		s.DureeMinutes, s.IsActive, s.SousCategorieID,
		s.ID, s.PrestataireID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Row may exist with identical values; distinguish via a lookup.
		if _, err := r.GetByIDForOwner(ctx, s.ID, s.PrestataireID); err != nil {
			return err
		}
	}
	return nil
}
