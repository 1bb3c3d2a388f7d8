package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prestaci/prestaci-backend/internal/model"
	"github.com/prestaci/prestaci-backend/internal/repository"
)

// PushTokenHandler registers and retires device push tokens.
type PushTokenHandler struct {
	PushTokens *repository.PushTokenRepo
}

func NewPushTokenHandler(p *repository.PushTokenRepo) *PushTokenHandler {
	return &PushTokenHandler{PushTokens: p}
}

type pushTokenReq struct {
	Token      string `json:"token" validate:"required"`
	DeviceType string `json:"device_type" validate:"required"`
}

// Register upserts a device token for the caller.  Re-registering an
// existing token just refreshes its row and reactivates it.
func (h *PushTokenHandler) Register(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req pushTokenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	req.DeviceType = strings.ToLower(req.DeviceType)
	if !model.IsValidDeviceType(req.DeviceType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown device_type"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t := &model.PushToken{UserID: uid, Token: req.Token, DeviceType: req.DeviceType, IsActive: true}
	if err := h.PushTokens.Upsert(ctx, t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "register token failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": t.ID})
}

// Deactivate retires the token named in the path, typically on logout.
// Unknown tokens are a no-op.
func (h *PushTokenHandler) Deactivate(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.PushTokens.Deactivate(ctx, uid, token); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivate token failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
