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
)

// PrestataireReservationHandler serves the provider side of the lifecycle:
// listing incoming reservations and moving them through their statuses.
type PrestataireReservationHandler struct {
	Reservations *repository.ReservationRepo
	Prestataires *repository.PrestataireRepo
}

func NewPrestataireReservationHandler(r *repository.ReservationRepo, p *repository.PrestataireRepo) *PrestataireReservationHandler {
	return &PrestataireReservationHandler{Reservations: r, Prestataires: p}
}

// List returns reservations addressed to the caller's prestataire profile.
// A PRESTATAIRE account without a profile yet simply sees an empty list.
func (h *PrestataireReservationHandler) List(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Prestataires.GetByUserID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrPrestataireNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"reservations": []*repository.ReservationDetail{}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	items, err := h.Reservations.ListByPrestataire(ctx, p.ID, c.QueryParam("scope"))
	if err != nil {
		if errors.Is(err, repository.ErrUnknownScope) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown scope"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": items})
}

type updateStatusReq struct {
	Statut string `json:"statut" validate:"required"`
}

// statuses a provider may set directly; annulee by a provider counts as a
// refusal and terminee closes the job.
var prestataireStatuses = map[string]bool{
	model.StatusConfirmee: true,
	model.StatusRefusee:   true,
	model.StatusAnnulee:   true,
	model.StatusTerminee:  true,
}

// UpdateStatus moves a reservation the caller owns to a new status.  The
// lifecycle graph in the model decides which transitions are legal; an
// illegal one comes back as 409.
func (h *PrestataireReservationHandler) UpdateStatus(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Statut = strings.ToLower(strings.TrimSpace(req.Statut))
	if !prestataireStatuses[req.Statut] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown statut"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reservations.VerifyPrestataireAccess(ctx, id, uid); err != nil {
		return reservationError(c, err)
	}
	previous, err := h.Reservations.UpdateStatus(ctx, id, req.Statut)
	if err != nil {
		return reservationError(c, err)
	}

	if info, err := h.Reservations.GetStatusEventInfo(ctx, id); err != nil {
		log.Printf("reservation %d: load event info: %v", id, err)
	} else if err := service.PublishStatusChanged(ctx, service.StatusEvent(info, previous, info.ClientUserID)); err != nil {
		log.Printf("reservation %d: publish status event: %v", id, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"id": id, "statut": req.Statut, "previous": previous})
}
