package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/prestaci/prestaci-backend/internal/model"
)

// ErrPrestataireNotFound is returned when a user has no prestataire profile
// or the requested profile does not exist.
var ErrPrestataireNotFound = errors.New("prestataire not found")

// PrestataireRepo resolves provider profiles.  One user owns at most one
// prestataire row.
type PrestataireRepo struct {
	db *sql.DB
}

// NewPrestataireRepo returns a PrestataireRepo bound to the given pool.
func NewPrestataireRepo(db *sql.DB) *PrestataireRepo { return &PrestataireRepo{db: db} }

const prestataireColumns = `SELECT id, user_id, nom_entreprise, description, ville,
	       telephone, is_verified, created_at, updated_at
	FROM prestataires`

func scanPrestataire(scan func(dest ...any) error) (*model.Prestataire, error) {
	var p model.Prestataire
	var desc sql.NullString
	if err := scan(
		&p.ID, &p.UserID, &p.NomEntreprise, &desc, &p.Ville,
		&p.Telephone, &p.IsVerified, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		p.Description = &d
	}
	return &p, nil
}

// GetByUserID resolves the prestataire owned by a user account.
func (r *PrestataireRepo) GetByUserID(ctx context.Context, userID uint64) (*model.Prestataire, error) {
	q := prestataireColumns + ` WHERE user_id = ?`
	p, err := scanPrestataire(r.db.QueryRowContext(ctx, q, userID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPrestataireNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetByID fetches a prestataire by its primary key.
func (r *PrestataireRepo) GetByID(ctx context.Context, id uint64) (*model.Prestataire, error) {
	q := prestataireColumns + ` WHERE id = ?`
	p, err := scanPrestataire(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPrestataireNotFound
		}
		return nil, err
	}
	return p, nil
}

// Create inserts a prestataire profile for a user.  The duplicate-key error
// from the unique user_id index is mapped to ErrConflict.
func (r *PrestataireRepo) Create(ctx context.Context, p *model.Prestataire) error {
	const q = `INSERT INTO prestataires (user_id, nom_entreprise, description, ville, telephone)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.UserID, p.NomEntreprise, p.Description, p.Ville, p.Telephone)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT is_verified, created_at, updated_at FROM prestataires WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, p.ID).Scan(&p.IsVerified, &p.CreatedAt, &p.UpdatedAt)
}
