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

func newMockAvisRepo(t *testing.T) (*AvisRepo, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewAvisRepo(db), mock, db
}

func expectReservationRow(mock sqlmock.Sqlmock, reservationID uint64, clientID, prestataireID uint64, statut string) {
	mock.ExpectQuery(`SELECT client_id, prestataire_id, statut FROM reservations WHERE id = \?`).
		WithArgs(reservationID).
		WillReturnRows(sqlmock.NewRows([]string{"client_id", "prestataire_id", "statut"}).
			AddRow(clientID, prestataireID, statut))
}

func TestAvisCreate(t *testing.T) {
	t.Run("eligible reservation gets its avis", func(t *testing.T) {
		repo, mock, db := newMockAvisRepo(t)
		defer db.Close()

		expectReservationRow(mock, 5, 10, 3, model.StatusTerminee)
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM avis WHERE reservation_id = \?\)`).
			WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(`INSERT INTO avis`).
			WillReturnResult(sqlmock.NewResult(77, 1))
		mock.ExpectQuery(`SELECT created_at, updated_at FROM avis WHERE id = \?`).
			WithArgs(uint64(77)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(time.Now(), time.Now()))

		a := &model.Avis{ReservationID: 5, Note: 4}
		err := repo.Create(context.Background(), a, 10)
		require.NoError(t, err)
		assert.Equal(t, uint64(77), a.ID)
		assert.Equal(t, uint64(10), a.ClientID)
		assert.Equal(t, uint64(3), a.PrestataireID)
		assert.Nil(t, a.IsApproved, "new avis awaits moderation")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("only the booking client may review", func(t *testing.T) {
		repo, mock, db := newMockAvisRepo(t)
		defer db.Close()

		expectReservationRow(mock, 5, 10, 3, model.StatusTerminee)

		err := repo.Create(context.Background(), &model.Avis{ReservationID: 5, Note: 4}, 42)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("reservation not finished yet", func(t *testing.T) {
		repo, mock, db := newMockAvisRepo(t)
		defer db.Close()

		expectReservationRow(mock, 5, 10, 3, model.StatusConfirmee)

		err := repo.Create(context.Background(), &model.Avis{ReservationID: 5, Note: 4}, 10)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("second review of the same reservation", func(t *testing.T) {
		repo, mock, db := newMockAvisRepo(t)
		defer db.Close()

		expectReservationRow(mock, 5, 10, 3, model.StatusTerminee)
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM avis WHERE reservation_id = \?\)`).
			WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := repo.Create(context.Background(), &model.Avis{ReservationID: 5, Note: 4}, 10)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("missing reservation", func(t *testing.T) {
		repo, mock, db := newMockAvisRepo(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT client_id, prestataire_id, statut FROM reservations WHERE id = \?`).
			WithArgs(uint64(404)).
			WillReturnError(sql.ErrNoRows)

		err := repo.Create(context.Background(), &model.Avis{ReservationID: 404, Note: 4}, 10)
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})
}

func TestAvisModerate(t *testing.T) {
	t.Run("approves a pending avis", func(t *testing.T) {
		repo, mock, db := newMockAvisRepo(t)
		defer db.Close()

		mock.ExpectExec(`UPDATE avis SET is_approved`).
			WithArgs(true, uint64(77)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Moderate(context.Background(), 77, true))
	})

	t.Run("repeating the same decision is a no-op", func(t *testing.T) {
		repo, mock, db := newMockAvisRepo(t)
		defer db.Close()

		mock.ExpectExec(`UPDATE avis SET is_approved`).
			WithArgs(true, uint64(77)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM avis WHERE id = \?\)`).
			WithArgs(uint64(77)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		assert.NoError(t, repo.Moderate(context.Background(), 77, true))
	})

	t.Run("unknown avis", func(t *testing.T) {
		repo, mock, db := newMockAvisRepo(t)
		defer db.Close()

		mock.ExpectExec(`UPDATE avis SET is_approved`).
			WithArgs(true, uint64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM avis WHERE id = \?\)`).
			WithArgs(uint64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		assert.ErrorIs(t, repo.Moderate(context.Background(), 404, true), ErrAvisNotFound)
	})
}
