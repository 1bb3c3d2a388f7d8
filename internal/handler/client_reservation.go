package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prestaci/prestaci-backend/internal/model"
	"github.com/prestaci/prestaci-backend/internal/repository"
	"github.com/prestaci/prestaci-backend/internal/service"
	"github.com/prestaci/prestaci-backend/internal/utils"
)

// ClientReservationHandler serves the client side of the reservation
// lifecycle: booking, listing, detail and cancellation.
type ClientReservationHandler struct {
	Reservations *repository.ReservationRepo
	Services     *repository.ServiceRepo
}

func NewClientReservationHandler(r *repository.ReservationRepo, s *repository.ServiceRepo) *ClientReservationHandler {
	return &ClientReservationHandler{Reservations: r, Services: s}
}

type createReservationReq struct {
	ServiceID       uint64  `json:"service_id" validate:"required"`
	DateReservation string  `json:"date_reservation" validate:"required"`
	HeureDebut      string  `json:"heure_debut" validate:"required"`
	NotesClient     *string `json:"notes_client"`
	ADomicile       bool    `json:"a_domicile"`
	AdresseRdv      *string `json:"adresse_rdv"`
}

// Create books a reservation.  The service's current price and currency are
// snapshotted onto the row so later tariff changes never rewrite history,
// and heure_fin is derived from the service duration.
func (h *ClientReservationHandler) Create(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	day, err := time.Parse("2006-01-02", req.DateReservation)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_reservation must be YYYY-MM-DD"})
	}
	start, err := time.Parse("15:04", req.HeureDebut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "heure_debut must be HH:MM"})
	}
	startAt := time.Date(day.Year(), day.Month(), day.Day(), start.Hour(), start.Minute(), 0, 0, time.UTC)
	if !startAt.After(time.Now().UTC()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation must be in the future"})
	}
	if req.ADomicile && (req.AdresseRdv == nil || strings.TrimSpace(*req.AdresseRdv) == "") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "adresse_rdv required for home service"})
	}
	if !req.ADomicile {
		req.AdresseRdv = nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	svc, err := h.Services.GetActive(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	end := startAt.Add(time.Duration(svc.DureeMinutes) * time.Minute)
	res := &model.Reservation{
		Reference:       utils.NewReservationReference(),
		ClientID:        uid,
		PrestataireID:   svc.PrestataireID,
		ServiceID:       svc.ID,
		DateReservation: day,
		HeureDebut:      startAt.Format("15:04"),
		HeureFin:        end.Format("15:04"),
		PrixFinal:       svc.Prix,
		Devise:          svc.Devise,
		NotesClient:     req.NotesClient,
		ADomicile:       req.ADomicile,
		AdresseRdv:      req.AdresseRdv,
	}
	if err := h.Reservations.Create(ctx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}

	h.notify(ctx, res.ID, "", notifyPrestataire)

	return c.JSON(http.StatusCreated, echo.Map{
		"id":         res.ID,
		"reference":  res.Reference,
		"statut":     res.Statut,
		"prix_final": res.PrixFinal,
		"devise":     res.Devise,
		"heure_fin":  res.HeureFin,
	})
}

// List returns the caller's reservations, optionally filtered by
// ?scope=upcoming|completed|cancelled|all.
func (h *ClientReservationHandler) List(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Reservations.ListByClient(ctx, uid, c.QueryParam("scope"))
	if err != nil {
		if errors.Is(err, repository.ErrUnknownScope) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown scope"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": items})
}

// Get returns one reservation with its derived action flags.  Visible to
// the booking client and to the provider who owns it, nobody else.
func (h *ClientReservationHandler) Get(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	detail, err := h.Reservations.GetDetail(ctx, id, uid)
	if err != nil {
		return reservationError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// Cancel moves one of the caller's reservations to annulee.  Only
// en_attente and confirmee reservations can be cancelled; the guarded
// update in the repository enforces that atomically.
func (h *ClientReservationHandler) Cancel(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	previous, err := h.Reservations.CancelByClient(ctx, id, uid)
	if err != nil {
		return reservationError(c, err)
	}

	h.notify(ctx, id, previous, notifyPrestataire)

	return c.JSON(http.StatusOK, echo.Map{"id": id, "statut": model.StatusAnnulee})
}

type notifyTarget int

const (
	notifyClient notifyTarget = iota
	notifyPrestataire
)

// notify publishes a status-changed event best effort.  Failures are
// logged and never surfaced to the API caller.
func (h *ClientReservationHandler) notify(ctx context.Context, reservationID uint64, oldStatus string, target notifyTarget) {
	info, err := h.Reservations.GetStatusEventInfo(ctx, reservationID)
	if err != nil {
		log.Printf("reservation %d: load event info: %v", reservationID, err)
		return
	}
	recipient := info.ClientUserID
	if target == notifyPrestataire {
		recipient = info.PrestataireUserID
	}
	if err := service.PublishStatusChanged(ctx, service.StatusEvent(info, oldStatus, recipient)); err != nil {
		log.Printf("reservation %d: publish status event: %v", reservationID, err)
	}
}
