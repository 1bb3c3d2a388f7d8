package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestaci/prestaci-backend/internal/model"
)

func newMockReservationRepo(t *testing.T) (*ReservationRepo, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewReservationRepo(db), mock, db
}

// columns returned by every detailColumns query, in scan order.
var detailCols = []string{
	"id", "reference", "service_id", "service_nom",
	"prestataire_id", "nom_entreprise", "client_id",
	"date_reservation", "heure_debut", "heure_fin", "statut",
	"prix_final", "devise", "notes_client", "a_domicile", "adresse_rdv",
	"created_at", "avis_id",
}

func detailRow(rows *sqlmock.Rows, id uint64, clientID uint64, statut string, avisID any) *sqlmock.Rows {
	return rows.AddRow(
		id, "RSV-ABC12345", 7, "Coiffure domicile",
		3, "Salon Awa", clientID,
		[]byte("2026-09-01"), "14:00", "15:00", statut,
		"15000.00", "XOF", nil, true, "Rue 12, Dakar",
		time.Now(), avisID,
	)
}

func TestCancelByClient(t *testing.T) {
	t.Run("cancels a confirmed reservation and reports the previous status", func(t *testing.T) {
		repo, mock, db := newMockReservationRepo(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT client_id, statut FROM reservations WHERE id = \?`).
			WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"client_id", "statut"}).AddRow(10, model.StatusConfirmee))
		mock.ExpectExec(`UPDATE reservations`).
			WithArgs(model.StatusAnnulee, uint64(5), model.StatusEnAttente, model.StatusConfirmee).
			WillReturnResult(sqlmock.NewResult(0, 1))

		previous, err := repo.CancelByClient(context.Background(), 5, 10)
		require.NoError(t, err)
		assert.Equal(t, model.StatusConfirmee, previous)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a caller who is not the booking client", func(t *testing.T) {
		repo, mock, db := newMockReservationRepo(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT client_id, statut FROM reservations WHERE id = \?`).
			WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"client_id", "statut"}).AddRow(99, model.StatusEnAttente))

		_, err := repo.CancelByClient(context.Background(), 5, 10)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing reservation", func(t *testing.T) {
		repo, mock, db := newMockReservationRepo(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT client_id, statut FROM reservations WHERE id = \?`).
			WithArgs(uint64(404)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.CancelByClient(context.Background(), 404, 10)
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})

	t.Run("terminal reservation cannot be cancelled", func(t *testing.T) {
		repo, mock, db := newMockReservationRepo(t)
		defer db.Close()

		// the row read en_attente, but a concurrent writer finished the
		// reservation before our UPDATE landed: zero rows affected
		mock.ExpectQuery(`SELECT client_id, statut FROM reservations WHERE id = \?`).
			WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"client_id", "statut"}).AddRow(10, model.StatusEnAttente))
		mock.ExpectExec(`UPDATE reservations`).
			WithArgs(model.StatusAnnulee, uint64(5), model.StatusEnAttente, model.StatusConfirmee).
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := repo.CancelByClient(context.Background(), 5, 10)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("legal transition returns the previous status", func(t *testing.T) {
		repo, mock, db := newMockReservationRepo(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT statut FROM reservations WHERE id = \?`).
			WithArgs(uint64(8)).
			WillReturnRows(sqlmock.NewRows([]string{"statut"}).AddRow(model.StatusEnAttente))
		mock.ExpectExec(`UPDATE reservations`).
			WithArgs(model.StatusConfirmee, uint64(8), model.StatusEnAttente).
			WillReturnResult(sqlmock.NewResult(0, 1))

		previous, err := repo.UpdateStatus(context.Background(), 8, model.StatusConfirmee)
		require.NoError(t, err)
		assert.Equal(t, model.StatusEnAttente, previous)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("illegal transition is rejected before any write", func(t *testing.T) {
		repo, mock, db := newMockReservationRepo(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT statut FROM reservations WHERE id = \?`).
			WithArgs(uint64(8)).
			WillReturnRows(sqlmock.NewRows([]string{"statut"}).AddRow(model.StatusTerminee))

		_, err := repo.UpdateStatus(context.Background(), 8, model.StatusConfirmee)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown target status is rejected without touching the database", func(t *testing.T) {
		repo, _, db := newMockReservationRepo(t)
		defer db.Close()

		_, err := repo.UpdateStatus(context.Background(), 8, "done")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("guarded update loses the race", func(t *testing.T) {
		repo, mock, db := newMockReservationRepo(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT statut FROM reservations WHERE id = \?`).
			WithArgs(uint64(8)).
			WillReturnRows(sqlmock.NewRows([]string{"statut"}).AddRow(model.StatusConfirmee))
		mock.ExpectExec(`UPDATE reservations`).
			WithArgs(model.StatusTerminee, uint64(8), model.StatusConfirmee).
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := repo.UpdateStatus(context.Background(), 8, model.StatusTerminee)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("missing reservation", func(t *testing.T) {
		repo, mock, db := newMockReservationRepo(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT statut FROM reservations WHERE id = \?`).
			WithArgs(uint64(404)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.UpdateStatus(context.Background(), 404, model.StatusConfirmee)
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})
}

func TestListByClient(t *testing.T) {
	t.Run("upcoming scope filters to en_attente and confirmee", func(t *testing.T) {
		repo, mock, db := newMockReservationRepo(t)
		defer db.Close()

		rows := sqlmock.NewRows(detailCols)
		detailRow(rows, 1, 10, model.StatusConfirmee, nil)
		detailRow(rows, 2, 10, model.StatusEnAttente, nil)
		mock.ExpectQuery(`FROM reservations r`).
			WithArgs(uint64(10), model.StatusEnAttente, model.StatusConfirmee).
			WillReturnRows(rows)

		items, err := repo.ListByClient(context.Background(), 10, ScopeUpcoming)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.True(t, items[0].CanCancel)
		assert.False(t, items[0].CanRate)
		assert.Equal(t, "2026-09-01", items[0].DateReservation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("completed reservation without avis is ratable", func(t *testing.T) {
		repo, mock, db := newMockReservationRepo(t)
		defer db.Close()

		rows := sqlmock.NewRows(detailCols)
		detailRow(rows, 3, 10, model.StatusTerminee, nil)
		mock.ExpectQuery(`FROM reservations r`).
			WithArgs(uint64(10), model.StatusTerminee).
			WillReturnRows(rows)

		items, err := repo.ListByClient(context.Background(), 10, ScopeCompleted)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.False(t, items[0].CanCancel)
		assert.True(t, items[0].CanRate)
	})

	t.Run("completed reservation with an avis is not ratable again", func(t *testing.T) {
		repo, mock, db := newMockReservationRepo(t)
		defer db.Close()

		rows := sqlmock.NewRows(detailCols)
		detailRow(rows, 3, 10, model.StatusTerminee, int64(77))
		mock.ExpectQuery(`FROM reservations r`).
			WithArgs(uint64(10), model.StatusTerminee).
			WillReturnRows(rows)

		items, err := repo.ListByClient(context.Background(), 10, ScopeCompleted)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.False(t, items[0].CanRate)
	})

	t.Run("unknown scope", func(t *testing.T) {
		repo, _, db := newMockReservationRepo(t)
		defer db.Close()

		_, err := repo.ListByClient(context.Background(), 10, "soon")
		assert.ErrorIs(t, err, ErrUnknownScope)
	})

	t.Run("no reservations yields an empty slice, not nil", func(t *testing.T) {
		repo, mock, db := newMockReservationRepo(t)
		defer db.Close()

		mock.ExpectQuery(`FROM reservations r`).
			WithArgs(uint64(10)).
			WillReturnRows(sqlmock.NewRows(detailCols))

		items, err := repo.ListByClient(context.Background(), 10, ScopeAll)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})
}

func TestGetDetail(t *testing.T) {
	t.Run("booking client sees the reservation", func(t *testing.T) {
		repo, mock, db := newMockReservationRepo(t)
		defer db.Close()

		rows := sqlmock.NewRows(detailCols)
		detailRow(rows, 5, 10, model.StatusEnAttente, nil)
		mock.ExpectQuery(`FROM reservations r`).
			WithArgs(uint64(5)).
			WillReturnRows(rows)

		d, err := repo.GetDetail(context.Background(), 5, 10)
		require.NoError(t, err)
		assert.Equal(t, uint64(5), d.ID)
		assert.True(t, d.CanCancel)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		repo, mock, db := newMockReservationRepo(t)
		defer db.Close()

		rows := sqlmock.NewRows(detailCols)
		detailRow(rows, 5, 10, model.StatusEnAttente, nil)
		mock.ExpectQuery(`FROM reservations r`).
			WithArgs(uint64(5)).
			WillReturnRows(rows)
		mock.ExpectQuery(`SELECT user_id FROM prestataires WHERE id = \?`).
			WithArgs(uint64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(55))

		_, err := repo.GetDetail(context.Background(), 5, 42)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("owning prestataire sees it too", func(t *testing.T) {
		repo, mock, db := newMockReservationRepo(t)
		defer db.Close()

		rows := sqlmock.NewRows(detailCols)
		detailRow(rows, 5, 10, model.StatusConfirmee, nil)
		mock.ExpectQuery(`FROM reservations r`).
			WithArgs(uint64(5)).
			WillReturnRows(rows)
		mock.ExpectQuery(`SELECT user_id FROM prestataires WHERE id = \?`).
			WithArgs(uint64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(55))

		d, err := repo.GetDetail(context.Background(), 5, 55)
		require.NoError(t, err)
		assert.Equal(t, model.StatusConfirmee, d.Statut)
	})

	t.Run("missing reservation", func(t *testing.T) {
		repo, mock, db := newMockReservationRepo(t)
		defer db.Close()

		mock.ExpectQuery(`FROM reservations r`).
			WithArgs(uint64(404)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetDetail(context.Background(), 404, 10)
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})
}
