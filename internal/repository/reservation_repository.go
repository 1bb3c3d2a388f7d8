package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prestaci/prestaci-backend/internal/model"
)

// ErrReservationNotFound is returned when no reservation row matches.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepo provides all persistence for reservations.  Status
// changes are written with guarded UPDATEs: the WHERE clause repeats the
// expected current status so the persisted status stays authoritative when
// two actors race on the same row.  There is no optimistic-concurrency
// token; last write wins behind the precondition.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given pool.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying pool for callers that need transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// Create inserts a new reservation and reads the row back so that the
// caller receives generated timestamps.  The record must already carry the
// price/currency snapshot, the copied prestataire_id and the generated
// reference; Statut is forced to en_attente here.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	res.Statut = model.StatusEnAttente
	const q = `INSERT INTO reservations
	           (reference, client_id, prestataire_id, service_id, date_reservation,
	            heure_debut, heure_fin, statut, prix_final, devise, notes_client,
	            a_domicile, adresse_rdv)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		res.Reference, res.ClientID, res.PrestataireID, res.ServiceID,
		res.DateReservation.Format("2006-01-02"), res.HeureDebut, res.HeureFin,
		res.Statut, res.PrixFinal, res.Devise, res.NotesClient,
		res.ADomicile, res.AdresseRdv,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt)
}

// ReservationDetail is the client-facing projection of a reservation.  It
// joins in the booked service and the provider's business name and carries
// the two derived action flags consumed by the UI.
type ReservationDetail struct {
	ID              uint64          `json:"id"`
	Reference       string          `json:"reference"`
	ServiceID       uint64          `json:"service_id"`
	ServiceNom      string          `json:"service_nom"`
	PrestataireID   uint64          `json:"prestataire_id"`
	PrestataireNom  string          `json:"prestataire_nom"`
	ClientID        uint64          `json:"client_id"`
	DateReservation string          `json:"date_reservation"`
	HeureDebut      string          `json:"heure_debut"`
	HeureFin        string          `json:"heure_fin"`
	Statut          string          `json:"statut"`
	PrixFinal       decimal.Decimal `json:"prix_final"`
	Devise          string          `json:"devise"`
	NotesClient     *string         `json:"notes_client,omitempty"`
	ADomicile       bool            `json:"a_domicile"`
	AdresseRdv      *string         `json:"adresse_rdv,omitempty"`
	CanCancel       bool            `json:"can_cancel"`
	CanRate         bool            `json:"can_rate"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Listing scopes accepted by ListByClient and ListByPrestataire.
const (
	ScopeAll       = "all"
	ScopeUpcoming  = "upcoming"
	ScopeCompleted = "completed"
	ScopeCancelled = "cancelled"
)

// scopeStatuses maps a listing scope to the statuses it covers.  ScopeAll
// maps to nil, meaning no status filter at all.
func scopeStatuses(scope string) ([]string, bool) {
	switch scope {
	case "", ScopeAll:
		return nil, true
	case ScopeUpcoming:
		return []string{model.StatusEnAttente, model.StatusConfirmee}, true
	case ScopeCompleted:
		return []string{model.StatusTerminee}, true
	case ScopeCancelled:
		return []string{model.StatusAnnulee, model.StatusRefusee}, true
	}
	return nil, false
}

// detailColumns is shared by every query that scans a ReservationDetail.
// The LEFT JOIN on avis feeds the can_rate flag without a second query.
const detailColumns = `SELECT r.id, r.reference, r.service_id, s.nom,
	       r.prestataire_id, p.nom_entreprise, r.client_id,
	       r.date_reservation, r.heure_debut, r.heure_fin, r.statut,
	       r.prix_final, r.devise, r.notes_client, r.a_domicile, r.adresse_rdv,
	       r.created_at, a.id
	FROM reservations r
	JOIN services s ON s.id = r.service_id
	JOIN prestataires p ON p.id = r.prestataire_id
	LEFT JOIN avis a ON a.reservation_id = r.id`

// scanDetail scans one row produced by a detailColumns query and derives
// the can_cancel / can_rate flags.
func scanDetail(scan func(dest ...any) error) (*ReservationDetail, error) {
	var d ReservationDetail
	var rawDate []byte
	var notes, adresse sql.NullString
	var avisID sql.NullInt64
	if err := scan(
		&d.ID, &d.Reference, &d.ServiceID, &d.ServiceNom,
		&d.PrestataireID, &d.PrestataireNom, &d.ClientID,
		&rawDate, &d.HeureDebut, &d.HeureFin, &d.Statut,
		&d.PrixFinal, &d.Devise, &notes, &d.ADomicile, &adresse,
		&d.CreatedAt, &avisID,
	); err != nil {
		return nil, err
	}
	// DATE columns arrive as "2006-01-02"; keep that form in the API.
	d.DateReservation = string(rawDate)
	if len(d.DateReservation) > 10 {
		d.DateReservation = d.DateReservation[:10]
	}
	if notes.Valid {
		n := notes.String
		d.NotesClient = &n
	}
	if adresse.Valid {
		a := adresse.String
		d.AdresseRdv = &a
	}
	d.CanCancel = model.CanCancel(d.Statut)
	d.CanRate = model.CanRate(d.Statut, avisID.Valid)
	return &d, nil
}

// ListByClient returns the client's reservations for the given scope,
// newest appointment first.  An unknown scope yields ErrUnknownScope.
func (r *ReservationRepo) ListByClient(ctx context.Context, clientID uint64, scope string) ([]*ReservationDetail, error) {
	statuses, ok := scopeStatuses(scope)
	if !ok {
		return nil, ErrUnknownScope
	}
	q := detailColumns + ` WHERE r.client_id = ?`
	args := []any{clientID}
	if len(statuses) > 0 {
		q += ` AND r.statut IN (` + placeholders(len(statuses)) + `)`
		for _, s := range statuses {
			args = append(args, s)
		}
	}
	q += ` ORDER BY r.date_reservation DESC, r.id DESC`
	return r.queryDetails(ctx, q, args...)
}

// ListByPrestataire returns the reservations addressed to a provider,
// newest appointment first, with the same scope filtering as the client
// listing.  prestataireID is the prestataires.id, not the user id.
func (r *ReservationRepo) ListByPrestataire(ctx context.Context, prestataireID uint64, scope string) ([]*ReservationDetail, error) {
	statuses, ok := scopeStatuses(scope)
	if !ok {
		return nil, ErrUnknownScope
	}
	q := detailColumns + ` WHERE r.prestataire_id = ?`
	args := []any{prestataireID}
	if len(statuses) > 0 {
		q += ` AND r.statut IN (` + placeholders(len(statuses)) + `)`
		for _, s := range statuses {
			args = append(args, s)
		}
	}
	q += ` ORDER BY r.date_reservation DESC, r.id DESC`
	return r.queryDetails(ctx, q, args...)
}

// ErrUnknownScope is returned for a scope value outside {all, upcoming,
// completed, cancelled}.
var ErrUnknownScope = errors.New("unknown reservation scope")

func (r *ReservationRepo) queryDetails(ctx context.Context, q string, args ...any) ([]*ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*ReservationDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDetail returns one reservation with its derived flags.  Access rules:
// the booking client always sees it; the counter-party prestataire (by
// owning user id) sees it too; anyone else gets ErrForbidden.  A missing
// row returns ErrReservationNotFound.
func (r *ReservationRepo) GetDetail(ctx context.Context, reservationID, requestingUserID uint64) (*ReservationDetail, error) {
	q := detailColumns + ` WHERE r.id = ?`
	d, err := scanDetail(r.db.QueryRowContext(ctx, q, reservationID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if d.ClientID == requestingUserID {
		return d, nil
	}
	const ownerQ = `SELECT user_id FROM prestataires WHERE id = ?`
	var ownerUserID uint64
	if err := r.db.QueryRowContext(ctx, ownerQ, d.PrestataireID).Scan(&ownerUserID); err != nil {
		return nil, err
	}
	if ownerUserID != requestingUserID {
		return nil, ErrForbidden
	}
	return d, nil
}

// CancelByClient transitions a reservation to annulee on behalf of its
// client.  The ownership check runs first (ErrForbidden when the requester
// is not the booking client), then the cancel is applied through a guarded
// UPDATE restricted to the cancellable statuses.  Zero rows affected means
// the row had already reached a terminal status: ErrInvalidTransition.
func (r *ReservationRepo) CancelByClient(ctx context.Context, reservationID, clientID uint64) (previous string, err error) {
	const sel = `SELECT client_id, statut FROM reservations WHERE id = ?`
	var owner uint64
	var current string
	if err := r.db.QueryRowContext(ctx, sel, reservationID).Scan(&owner, &current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrReservationNotFound
		}
		return "", err
	}
	if owner != clientID {
		return "", ErrForbidden
	}
	cancellable := model.CancellableStatuses()
	q := `UPDATE reservations
	      SET statut = ?, updated_at = CURRENT_TIMESTAMP
	      WHERE id = ? AND statut IN (` + placeholders(len(cancellable)) + `)`
	args := []any{model.StatusAnnulee, reservationID}
	for _, s := range cancellable {
		args = append(args, s)
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return "", err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return "", ErrInvalidTransition
	}
	return current, nil
}

// UpdateStatus moves a reservation to newStatus if the lifecycle graph
// allows it from the currently persisted status.  The UPDATE repeats the
// observed status in its WHERE clause, so a concurrent writer that slipped
// in between the read and the write surfaces as ErrInvalidTransition
// instead of silently overwriting.  The previous status is returned so the
// caller can describe the change in notifications.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, reservationID uint64, newStatus string) (previous string, err error) {
	if !model.IsValidStatus(newStatus) {
		return "", ErrInvalidTransition
	}
	const sel = `SELECT statut FROM reservations WHERE id = ?`
	var current string
	if err := r.db.QueryRowContext(ctx, sel, reservationID).Scan(&current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrReservationNotFound
		}
		return "", err
	}
	if !model.CanTransition(current, newStatus) {
		return "", ErrInvalidTransition
	}
	const upd = `UPDATE reservations
	             SET statut = ?, updated_at = CURRENT_TIMESTAMP
	             WHERE id = ? AND statut = ?`
	res, err := r.db.ExecContext(ctx, upd, newStatus, reservationID, current)
	if err != nil {
		return "", err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return "", ErrInvalidTransition
	}
	return current, nil
}

// VerifyPrestataireAccess checks that the reservation is addressed to the
// prestataire owned by userID.  It returns ErrReservationNotFound when the
// row is missing and ErrForbidden when the provider does not own it.
func (r *ReservationRepo) VerifyPrestataireAccess(ctx context.Context, reservationID, userID uint64) error {
	const q = `SELECT p.user_id
	           FROM reservations r
	           JOIN prestataires p ON p.id = r.prestataire_id
	           WHERE r.id = ?`
	var ownerUserID uint64
	if err := r.db.QueryRowContext(ctx, q, reservationID).Scan(&ownerUserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReservationNotFound
		}
		return err
	}
	if ownerUserID != userID {
		return ErrForbidden
	}
	return nil
}

// StatusEventInfo carries everything the notification publisher needs to
// describe a status change to the counter-party.
type StatusEventInfo struct {
	ReservationID     uint64
	Reference         string
	Statut            string
	ServiceNom        string
	DateReservation   string
	HeureDebut        string
	ClientUserID      uint64
	PrestataireUserID uint64
}

// GetStatusEventInfo loads the event payload fields for a reservation.
func (r *ReservationRepo) GetStatusEventInfo(ctx context.Context, reservationID uint64) (*StatusEventInfo, error) {
	const q = `SELECT r.id, r.reference, r.statut, s.nom, r.date_reservation,
	                  r.heure_debut, r.client_id, p.user_id
	           FROM reservations r
	           JOIN services s ON s.id = r.service_id
	           JOIN prestataires p ON p.id = r.prestataire_id
	           WHERE r.id = ?`
	var info StatusEventInfo
	var rawDate []byte
	err := r.db.QueryRowContext(ctx, q, reservationID).Scan(
		&info.ReservationID, &info.Reference, &info.Statut, &info.ServiceNom,
		&rawDate, &info.HeureDebut, &info.ClientUserID, &info.PrestataireUserID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	info.DateReservation = string(rawDate)
	if len(info.DateReservation) > 10 {
		info.DateReservation = info.DateReservation[:10]
	}
	return &info, nil
}

// ListOverdueConfirmed returns the IDs of confirmed reservations whose end
// time has passed.  The auto-completion sweep walks this list and applies
// the normal confirmee → terminee transition to each.
func (r *ReservationRepo) ListOverdueConfirmed(ctx context.Context, now time.Time) ([]uint64, error) {
	const q = `SELECT id FROM reservations
	           WHERE statut = ?
	             AND CONCAT(date_reservation, ' ', heure_fin) < ?
	           ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, model.StatusConfirmee, now.UTC().Format("2006-01-02 15:04"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// placeholders builds "?, ?, ?" for IN clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
