package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestaci/prestaci-backend/internal/model"
	"github.com/prestaci/prestaci-backend/internal/repository"
)

func newMockPrestataireHandler(t *testing.T) (*PrestataireReservationHandler, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	h := NewPrestataireReservationHandler(repository.NewReservationRepo(db), repository.NewPrestataireRepo(db))
	return h, mock, db
}

func statusContext(t *testing.T, id, body string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newTestContext(t, http.MethodPatch, "/v1/reservations/"+id+"/status", body)
	c.Set("role", model.RolePrestataire)
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

func TestPrestataireUpdateStatus(t *testing.T) {
	t.Run("confirms a pending reservation", func(t *testing.T) {
		h, mock, db := newMockPrestataireHandler(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT p\.user_id`).
			WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(10))
		mock.ExpectQuery(`SELECT statut FROM reservations WHERE id = \?`).
			WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"statut"}).AddRow(model.StatusEnAttente))
		mock.ExpectExec(`UPDATE reservations`).
			WithArgs(model.StatusConfirmee, uint64(5), model.StatusEnAttente).
			WillReturnResult(sqlmock.NewResult(0, 1))
		// best-effort notify: failing to load the event info only logs
		mock.ExpectQuery(`SELECT r\.id, r\.reference, r\.statut`).
			WillReturnError(sql.ErrNoRows)

		c, rec := statusContext(t, "5", `{"statut":"confirmee"}`)
		require.NoError(t, h.UpdateStatus(c))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"statut":"confirmee"`)
		assert.Contains(t, rec.Body.String(), `"previous":"en_attente"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("someone else's reservation is 403", func(t *testing.T) {
		h, mock, db := newMockPrestataireHandler(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT p\.user_id`).
			WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(99))

		c, rec := statusContext(t, "5", `{"statut":"confirmee"}`)
		require.NoError(t, h.UpdateStatus(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("terminating a pending reservation is 409", func(t *testing.T) {
		h, mock, db := newMockPrestataireHandler(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT p\.user_id`).
			WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(10))
		mock.ExpectQuery(`SELECT statut FROM reservations WHERE id = \?`).
			WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"statut"}).AddRow(model.StatusEnAttente))

		c, rec := statusContext(t, "5", `{"statut":"terminee"}`)
		require.NoError(t, h.UpdateStatus(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown statut never reaches the database", func(t *testing.T) {
		h, mock, db := newMockPrestataireHandler(t)
		defer db.Close()

		c, rec := statusContext(t, "5", `{"statut":"pending"}`)
		require.NoError(t, h.UpdateStatus(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPrestataireListWithoutProfile(t *testing.T) {
	h, mock, db := newMockPrestataireHandler(t)
	defer db.Close()

	mock.ExpectQuery(`FROM prestataires`).
		WithArgs(uint64(10)).
		WillReturnError(sql.ErrNoRows)

	c, rec := newTestContext(t, http.MethodGet, "/v1/prestataire/reservations", "")
	c.Set("role", model.RolePrestataire)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reservations":[]`)
}
