package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"crmneon/internal/common"
	"crmneon/internal/logger"
	"crmneon/internal/models"
	"crmneon/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandlers handles token issuance and the public discovery documents
type AuthHandlers struct {
	authService services.AuthService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// IssueToken mints an access token for {userId, tenantId}
func (h *AuthHandlers) IssueToken(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return common.BadRequest("userId and tenantId are required")
	}

	var req models.TokenRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return common.BadRequest("Invalid request format")
	}

	userID, okUser := common.ClaimToID(req.UserID)
	tenantID, okTenant := common.ClaimToID(req.TenantID)
	if !okUser || !okTenant {
		return common.BadRequest("userId and tenantId are required")
	}

	resp, err := h.authService.IssueToken(c.Request().Context(), userID, tenantID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return common.BadRequest("User not found for tenant")
		}
		logger.FromEcho(c).Error("failed to issue token",
			zap.Int64("user_id", userID),
			zap.Int64("tenant_id", tenantID),
			zap.Error(err),
		)
		return common.InternalError("")
	}

	logger.FromEcho(c).Info("token issued", zap.Int64("user_id", userID), zap.Int64("tenant_id", tenantID))
	return common.SendSuccess(c, http.StatusOK, "Token issued successfully", resp)
}

// JWKS serves the public signing key set
func (h *AuthHandlers) JWKS(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "public, max-age=3600")
	return c.JSON(http.StatusOK, h.authService.JWKS())
}

// OpenIDConfiguration serves the discovery document
func (h *AuthHandlers) OpenIDConfiguration(c echo.Context) error {
	return c.JSON(http.StatusOK, h.authService.OpenIDConfiguration())
}
