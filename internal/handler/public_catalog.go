package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prestaci/prestaci-backend/internal/repository"
)

// PublicCatalogHandler serves the unauthenticated browse surface: active
// services, provider profiles and approved reviews.
type PublicCatalogHandler struct {
	Services     *repository.ServiceRepo
	Prestataires *repository.PrestataireRepo
	Avis         *repository.AvisRepo
}

func NewPublicCatalogHandler(s *repository.ServiceRepo, p *repository.PrestataireRepo, a *repository.AvisRepo) *PublicCatalogHandler {
	return &PublicCatalogHandler{Services: s, Prestataires: p, Avis: a}
}

// ListServices returns active services, optionally filtered by
// ?sous_categorie_id=.
func (h *PublicCatalogHandler) ListServices(c echo.Context) error {
	var sousCat uint64
	if raw := c.QueryParam("sous_categorie_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sous_categorie_id"})
		}
		sousCat = v
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Services.ListActive(ctx, sousCat)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"services": items})
}

// GetService returns one active service.  Inactive services are invisible
// here even when the id is guessed.
func (h *PublicCatalogHandler) GetService(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	svc, err := h.Services.GetActive(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, svc)
}

// GetPrestataire returns a provider profile together with its approved
// reviews.  Pending and rejected avis never leave moderation.
func (h *PublicCatalogHandler) GetPrestataire(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Prestataires.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPrestataireNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "prestataire not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	avis, err := h.Avis.ListApprovedForPrestataire(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"prestataire": p, "avis": avis})
}

// ListAvis returns the approved reviews of a provider.
func (h *PublicCatalogHandler) ListAvis(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Avis.ListApprovedForPrestataire(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"avis": items})
}
