package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prestaci/prestaci-backend/internal/model"
	"github.com/prestaci/prestaci-backend/internal/repository"
)

// FavoriteHandler manages the caller's bookmarks.
type FavoriteHandler struct {
	Favorites *repository.FavoriteRepo
}

func NewFavoriteHandler(f *repository.FavoriteRepo) *FavoriteHandler {
	return &FavoriteHandler{Favorites: f}
}

type favoriteReq struct {
	TargetID   uint64 `json:"target_id" validate:"required"`
	TargetType string `json:"target_type" validate:"required"`
}

// Add bookmarks a target.  Adding the same target twice is a no-op; both
// calls come back 204.
func (h *FavoriteHandler) Add(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req favoriteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !model.IsValidFavoriteType(req.TargetType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown target_type"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	f := &model.Favorite{UserID: uid, TargetID: req.TargetID, TargetType: req.TargetType}
	if err := h.Favorites.Add(ctx, f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add favorite failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Remove deletes a bookmark.  Removing one that does not exist is also a
// no-op 204, so the call is safe to retry.
func (h *FavoriteHandler) Remove(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req favoriteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !model.IsValidFavoriteType(req.TargetType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown target_type"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Favorites.Remove(ctx, uid, req.TargetID, req.TargetType); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove favorite failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns the caller's bookmarks, optionally filtered by ?type=.
func (h *FavoriteHandler) List(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	targetType := c.QueryParam("type")
	if targetType != "" && !model.IsValidFavoriteType(targetType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown target_type"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Favorites.ListByUser(ctx, uid, targetType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"favorites": items})
}
