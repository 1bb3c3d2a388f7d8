package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/prestaci/prestaci-backend/internal/model"
	"github.com/prestaci/prestaci-backend/internal/repository"
)

// PrestataireServiceHandler manages the provider profile and the provider's
// own service catalog.
type PrestataireServiceHandler struct {
	Prestataires *repository.PrestataireRepo
	Services     *repository.ServiceRepo
}

func NewPrestataireServiceHandler(p *repository.PrestataireRepo, s *repository.ServiceRepo) *PrestataireServiceHandler {
	return &PrestataireServiceHandler{Prestataires: p, Services: s}
}

type createProfileReq struct {
	NomEntreprise string  `json:"nom_entreprise" validate:"required"`
	Description   *string `json:"description"`
	Ville         string  `json:"ville" validate:"required"`
	Telephone     string  `json:"telephone" validate:"required"`
}

// CreateProfile creates the caller's prestataire profile.  One per user;
// the unique index on user_id makes a second attempt a 409.
func (h *PrestataireServiceHandler) CreateProfile(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p := &model.Prestataire{
		UserID:        uid,
		NomEntreprise: req.NomEntreprise,
		Description:   req.Description,
		Ville:         req.Ville,
		Telephone:     req.Telephone,
	}
	if err := h.Prestataires.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "profile already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create profile failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": p.ID, "nom_entreprise": p.NomEntreprise})
}

// GetProfile returns the caller's prestataire profile.
func (h *PrestataireServiceHandler) GetProfile(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Prestataires.GetByUserID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrPrestataireNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no prestataire profile"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, p)
}

// ListServices returns the caller's own services, filtered by ownership in
// the repository.  No profile yet means an empty list, never everything.
func (h *PrestataireServiceHandler) ListServices(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Services.ListOwnedByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"services": items})
}

type serviceReq struct {
	SousCategorieID uint64  `json:"sous_categorie_id" validate:"required"`
	Nom             string  `json:"nom" validate:"required"`
	Description     *string `json:"description"`
	Prix            string  `json:"prix" validate:"required"`
	Devise          string  `json:"devise" validate:"required,len=3"`
	DureeMinutes    uint32  `json:"duree_minutes" validate:"required,min=5"`
	IsActive        *bool   `json:"is_active"`
}

// CreateService publishes a new service under the caller's profile.
func (h *PrestataireServiceHandler) CreateService(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req serviceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	prix, err := decimal.NewFromString(req.Prix)
	if err != nil || prix.IsNegative() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid prix"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Prestataires.GetByUserID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrPrestataireNotFound) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "create a prestataire profile first"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	svc := &model.Service{
		PrestataireID:   p.ID,
		SousCategorieID: req.SousCategorieID,
		Nom:             req.Nom,
		Description:     req.Description,
		Prix:            prix,
		Devise:          req.Devise,
		DureeMinutes:    req.DureeMinutes,
		IsActive:        req.IsActive == nil || *req.IsActive,
	}
	if err := h.Services.Create(ctx, svc); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create service failed"})
	}
	return c.JSON(http.StatusCreated, svc)
}

// UpdateService edits one of the caller's services.  Ownership is enforced
// by loading the row through GetByIDForOwner before writing.
func (h *PrestataireServiceHandler) UpdateService(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req serviceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	prix, err := decimal.NewFromString(req.Prix)
	if err != nil || prix.IsNegative() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid prix"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Prestataires.GetByUserID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrPrestataireNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	svc, err := h.Services.GetByIDForOwner(ctx, id, p.ID)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	svc.SousCategorieID = req.SousCategorieID
	svc.Nom = req.Nom
	svc.Description = req.Description
	svc.Prix = prix
	svc.Devise = req.Devise
	svc.DureeMinutes = req.DureeMinutes
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}
	if err := h.Services.Update(ctx, svc); err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update service failed"})
	}
	return c.JSON(http.StatusOK, svc)
}
