package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prestaci/prestaci-backend/internal/model"
	"github.com/prestaci/prestaci-backend/internal/repository"
)

// AvisHandler lets clients review completed reservations.
type AvisHandler struct {
	Avis *repository.AvisRepo
}

func NewAvisHandler(a *repository.AvisRepo) *AvisHandler {
	return &AvisHandler{Avis: a}
}

type createAvisReq struct {
	ReservationID uint64   `json:"reservation_id" validate:"required"`
	Note          uint8    `json:"note" validate:"required,min=1,max=5"`
	Commentaire   *string  `json:"commentaire"`
	Photos        []string `json:"photos"`
}

// Create submits a review for a terminee reservation.  Eligibility is
// decided in the repository: wrong author is 403, not finished or already
// reviewed is 409.  The avis starts unapproved and only shows up publicly
// after moderation.
func (h *AvisHandler) Create(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createAvisReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a := &model.Avis{
		ReservationID: req.ReservationID,
		Note:          req.Note,
		Commentaire:   req.Commentaire,
		Photos:        req.Photos,
	}
	if err := h.Avis.Create(ctx, a, uid); err != nil {
		return reservationError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": a.ID, "note": a.Note})
}

// ListMine returns the caller's own reviews regardless of moderation state.
func (h *AvisHandler) ListMine(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Avis.ListByClient(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"avis": items})
}
