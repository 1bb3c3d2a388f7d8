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

// AdminHandler covers moderation and back-office overrides.
type AdminHandler struct {
	Avis         *repository.AvisRepo
	Reservations *repository.ReservationRepo
}

func NewAdminHandler(a *repository.AvisRepo, r *repository.ReservationRepo) *AdminHandler {
	return &AdminHandler{Avis: a, Reservations: r}
}

type moderateReq struct {
	Approve *bool `json:"approve" validate:"required"`
}

// ModerateAvis approves or rejects a pending review.  Repeating the same
// decision is a no-op, not an error.
func (h *AdminHandler) ModerateAvis(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req moderateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Avis.Moderate(ctx, id, *req.Approve); err != nil {
		if errors.Is(err, repository.ErrAvisNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "avis not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "moderation failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "approved": *req.Approve})
}

// UpdateReservationStatus is the back-office override: an admin may apply
// any legal transition without owning the reservation.  The client is
// notified like for a provider-driven change.
func (h *AdminHandler) UpdateReservationStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Statut = strings.ToLower(strings.TrimSpace(req.Statut))
	if !model.IsValidStatus(req.Statut) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown statut"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

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
