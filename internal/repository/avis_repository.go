package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/prestaci/prestaci-backend/internal/model"
)

// ErrAvisNotFound is returned when no avis row matches.
var ErrAvisNotFound = errors.New("avis not found")

// AvisRepo persists client reviews.  Eligibility (completed reservation,
// no prior review, requester is the booking client) is checked here at
// creation time; the table itself carries no uniqueness constraint on
// reservation_id, mirroring the production schema.
type AvisRepo struct {
	db *sql.DB
}

// NewAvisRepo returns an AvisRepo bound to the given pool.
func NewAvisRepo(db *sql.DB) *AvisRepo { return &AvisRepo{db: db} }

// ExistsForReservation reports whether a review has already been submitted
// for the reservation.  It feeds the can_rate flag and the creation guard.
func (r *AvisRepo) ExistsForReservation(ctx context.Context, reservationID uint64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM avis WHERE reservation_id = ?)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, reservationID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create validates eligibility and inserts the review.  Failure modes map
// onto the shared sentinels:
//
//	reservation missing              → ErrReservationNotFound
//	requester is not the client      → ErrForbidden
//	reservation not terminee         → ErrConflict
//	review already submitted         → ErrConflict
//
// On success the avis carries the client and prestataire ids copied from
// the reservation and a nil IsApproved (moderation pending).
func (r *AvisRepo) Create(ctx context.Context, a *model.Avis, requestingUserID uint64) error {
	const sel = `SELECT client_id, prestataire_id, statut FROM reservations WHERE id = ?`
	var clientID, prestataireID uint64
	var statut string
	if err := r.db.QueryRowContext(ctx, sel, a.ReservationID).Scan(&clientID, &prestataireID, &statut); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReservationNotFound
		}
		return err
	}
	if clientID != requestingUserID {
		return ErrForbidden
	}
	if statut != model.StatusTerminee {
		return ErrConflict
	}
	exists, err := r.ExistsForReservation(ctx, a.ReservationID)
	if err != nil {
		return err
	}
	if exists {
		return ErrConflict
	}

	a.ClientID = clientID
	a.PrestataireID = prestataireID
	photos, err := json.Marshal(a.Photos)
	if err != nil {
		return err
	}
	const ins = `INSERT INTO avis (reservation_id, client_id, prestataire_id, note, commentaire, photos)
	             VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, ins,
		a.ReservationID, a.ClientID, a.PrestataireID, a.Note, a.Commentaire, photos)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	const back = `SELECT created_at, updated_at FROM avis WHERE id = ?`
	return r.db.QueryRowContext(ctx, back, a.ID).Scan(&a.CreatedAt, &a.UpdatedAt)
}

// Moderate sets the moderation flag on an avis.  Re-applying the same
// decision is allowed and harmless.
func (r *AvisRepo) Moderate(ctx context.Context, avisID uint64, approve bool) error {
	const q = `UPDATE avis SET is_approved = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, approve, avisID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Zero rows can mean a repeat of the same decision; only report
		// not-found when the row truly does not exist.
		const sel = `SELECT EXISTS(SELECT 1 FROM avis WHERE id = ?)`
		var exists bool
		if err := r.db.QueryRowContext(ctx, sel, avisID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrAvisNotFound
		}
	}
	return nil
}

const avisColumns = `SELECT id, reservation_id, client_id, prestataire_id, note,
	       commentaire, photos, is_approved, created_at, updated_at
	FROM avis`

func scanAvis(scan func(dest ...any) error) (*model.Avis, error) {
	var a model.Avis
	var commentaire sql.NullString
	var photos []byte
	var approved sql.NullBool
	if err := scan(
		&a.ID, &a.ReservationID, &a.ClientID, &a.PrestataireID, &a.Note,
		&commentaire, &photos, &approved, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if commentaire.Valid {
		cm := commentaire.String
		a.Commentaire = &cm
	}
	if len(photos) > 0 {
		_ = json.Unmarshal(photos, &a.Photos)
	}
	if approved.Valid {
		ap := approved.Bool
		a.IsApproved = &ap
	}
	return &a, nil
}

// ListApprovedForPrestataire returns the publicly visible reviews of a
// provider, newest first.  Pending and rejected reviews are excluded.
func (r *AvisRepo) ListApprovedForPrestataire(ctx context.Context, prestataireID uint64) ([]*model.Avis, error) {
	q := avisColumns + ` WHERE prestataire_id = ? AND is_approved = 1 ORDER BY created_at DESC, id DESC`
	return r.queryAvis(ctx, q, prestataireID)
}

// ListByClient returns the reviews a client has submitted, newest first,
// whatever their moderation state.
func (r *AvisRepo) ListByClient(ctx context.Context, clientID uint64) ([]*model.Avis, error) {
	q := avisColumns + ` WHERE client_id = ? ORDER BY created_at DESC, id DESC`
	return r.queryAvis(ctx, q, clientID)
}

func (r *AvisRepo) queryAvis(ctx context.Context, q string, args ...any) ([]*model.Avis, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Avis, 0)
	for rows.Next() {
		a, err := scanAvis(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
